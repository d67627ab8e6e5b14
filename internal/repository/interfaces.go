// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"
	"database/sql"

	"github.com/hitoshi/profilebook/internal/model"
)

// 人物検索のデフォルト上限件数と、検索を実行する最小文字数。
const (
	DefaultSearchLimit = 10
	MinSearchQueryLen  = 2
)

// PersonRepository は人物データの永続化インターフェース。
type PersonRepository interface {
	// FindByProfileID はprofile_idの完全一致で人物を取得する。見つからない場合はnilを返す。
	FindByProfileID(ctx context.Context, profileID string) (*model.Person, error)

	// FindByID は指定IDの人物を取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id int64) (*model.Person, error)

	// SearchByName はprofile_nameの部分一致（大文字小文字を区別しない）で人物を検索する。
	// profile_name昇順でlimit件までを返す。
	// queryがMinSearchQueryLen文字未満の場合はストアにアクセスせず空のスライスを返す。
	SearchByName(ctx context.Context, query string, limit int) ([]*model.Person, error)

	// Create は人物を作成し、採番されたIDをpersonに設定する。
	// 範囲外のageは拒否せず未設定として保存する。
	Create(ctx context.Context, person *model.Person) error
}

// GroupRepository はグループデータの永続化インターフェース。
type GroupRepository interface {
	// FindByID は所有者で絞り込んでグループを取得する。
	// グループが存在しても別の人物に属する場合はnilを返す。
	FindByID(ctx context.Context, id, personID int64) (*model.Group, error)

	// ListByPersonID は人物が所有するグループをgroup_name昇順で返す。
	ListByPersonID(ctx context.Context, personID int64) ([]*model.Group, error)

	// ListAll は全グループをgroup_name昇順で返す。
	ListAll(ctx context.Context) ([]*model.Group, error)

	// Create はグループを作成し、採番されたIDをgroupに設定する。
	Create(ctx context.Context, group *model.Group) error
}

// PostRepository は投稿データの永続化インターフェース。
type PostRepository interface {
	// ListByPersonAndGroup は (person, group) に紐づく投稿をcreated_at降順で返す。
	ListByPersonAndGroup(ctx context.Context, personID, groupID int64) ([]*model.Post, error)

	// Create は投稿を作成し、採番されたIDとストア時刻のcreated_atをpostに設定する。
	Create(ctx context.Context, post *model.Post) error
}

// Repositories は同じ接続（またはトランザクション）に束縛されたリポジトリの組。
type Repositories struct {
	Persons PersonRepository
	Groups  GroupRepository
	Posts   PostRepository
}

// UnitOfWork は複数のリポジトリ操作を1つのアトミックな単位として実行する。
type UnitOfWork interface {
	// WithinTx はトランザクションに束縛されたRepositoriesでfnを実行する。
	// fnがエラーを返すかpanicした場合はロールバックし、成功した場合のみコミットする。
	WithinTx(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error
}

// DBTX は *sql.DB と *sql.Tx の共通インターフェース。
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}
