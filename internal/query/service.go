// Package query はフォームクライアントが重複登録を避けるために使う参照系の操作を提供する。
// すべての操作は副作用を持たず、トランザクションを使わずに読み取る。
package query

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/hitoshi/profilebook/internal/metrics"
	"github.com/hitoshi/profilebook/internal/model"
	"github.com/hitoshi/profilebook/internal/repository"
)

// Service は参照系のサービス層。
type Service struct {
	persons repository.PersonRepository
	groups  repository.GroupRepository
	posts   repository.PostRepository
	metrics metrics.MetricsCollector
}

// NewService はServiceの新しいインスタンスを生成する。
// collectorがnilの場合はメトリクスを記録しない。
func NewService(repos repository.Repositories, collector metrics.MetricsCollector) *Service {
	if collector == nil {
		collector = metrics.Nop{}
	}
	return &Service{
		persons: repos.Persons,
		groups:  repos.Groups,
		posts:   repos.Posts,
		metrics: collector,
	}
}

// SearchPersons は名前の部分一致で人物を検索する（タイプアヘッド用）。
// 2文字未満のクエリは空の結果を返す。
func (s *Service) SearchPersons(ctx context.Context, q string) ([]*model.Person, error) {
	q = strings.TrimSpace(q)
	if utf8.RuneCountInString(q) < repository.MinSearchQueryLen {
		return []*model.Person{}, nil
	}

	persons, err := s.persons.SearchByName(ctx, q, repository.DefaultSearchLimit)
	if err != nil {
		return nil, fmt.Errorf("人物の検索に失敗しました: %w", err)
	}
	s.metrics.RecordSearch(len(persons))
	return persons, nil
}

// GroupsByPerson は人物が所有するグループを名前昇順で返す。
func (s *Service) GroupsByPerson(ctx context.Context, personID int64) ([]*model.Group, error) {
	if personID <= 0 {
		return []*model.Group{}, nil
	}

	groups, err := s.groups.ListByPersonID(ctx, personID)
	if err != nil {
		return nil, fmt.Errorf("グループ一覧の取得に失敗しました: %w", err)
	}
	return groups, nil
}

// ListAllGroups は全グループを名前昇順で返す。
func (s *Service) ListAllGroups(ctx context.Context) ([]*model.Group, error) {
	groups, err := s.groups.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("グループ一覧の取得に失敗しました: %w", err)
	}
	return groups, nil
}

// PostsByPersonAndGroup は (person, group) の投稿を新しい順に返す。
func (s *Service) PostsByPersonAndGroup(ctx context.Context, personID, groupID int64) ([]*model.Post, error) {
	if personID <= 0 || groupID <= 0 {
		return nil, model.NewMissingFieldsError("Missing personId or groupId")
	}

	posts, err := s.posts.ListByPersonAndGroup(ctx, personID, groupID)
	if err != nil {
		return nil, fmt.Errorf("投稿一覧の取得に失敗しました: %w", err)
	}
	return posts, nil
}
