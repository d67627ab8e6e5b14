package handler

import (
	"context"

	"github.com/hitoshi/profilebook/internal/model"
	"github.com/hitoshi/profilebook/internal/submission"
)

// QueryServiceInterface は参照系ハンドラーが必要とするサービスインターフェース。
type QueryServiceInterface interface {
	// SearchPersons は名前の部分一致で人物を検索する。
	SearchPersons(ctx context.Context, q string) ([]*model.Person, error)
	// GroupsByPerson は人物が所有するグループを返す。
	GroupsByPerson(ctx context.Context, personID int64) ([]*model.Group, error)
	// ListAllGroups は全グループを返す。
	ListAllGroups(ctx context.Context) ([]*model.Group, error)
	// PostsByPersonAndGroup は (person, group) の投稿を返す。
	PostsByPersonAndGroup(ctx context.Context, personID, groupID int64) ([]*model.Post, error)
}

// SubmissionServiceInterface は書き込み系ハンドラーが必要とするサービスインターフェース。
type SubmissionServiceInterface interface {
	// Save は (person, group, post) の送信を1つのトランザクションで保存する。
	Save(ctx context.Context, sub model.Submission) (*submission.Result, error)
	// CreateGroup は既存の人物にグループを追加する。
	CreateGroup(ctx context.Context, personID int64, groupName, note string) (*model.Group, error)
	// CreatePost は既存の (person, group) に投稿を追加する。
	CreatePost(ctx context.Context, personID, groupID int64, postDetails, comments string) (*model.Post, error)
}
