package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/hitoshi/profilebook/internal/model"
)

// SQLGroupRepo はSQLデータベースを使用したグループリポジトリ。
type SQLGroupRepo struct {
	db DBTX
}

// NewSQLGroupRepo はSQLGroupRepoを生成する。
func NewSQLGroupRepo(db DBTX) *SQLGroupRepo {
	return &SQLGroupRepo{db: db}
}

// FindByID は所有者で絞り込んでグループを取得する。
// 所有権の判定は呼び出し側ではなくこのクエリで行う。
func (r *SQLGroupRepo) FindByID(ctx context.Context, id, personID int64) (*model.Group, error) {
	g := &model.Group{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, group_name, note, person_id FROM group_info WHERE id = $1 AND person_id = $2`,
		id, personID,
	).Scan(&g.ID, &g.GroupName, &g.Note, &g.PersonID)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("グループの取得に失敗しました: %w", err)
	}
	return g, nil
}

// ListByPersonID は人物が所有するグループをgroup_name昇順で返す。
func (r *SQLGroupRepo) ListByPersonID(ctx context.Context, personID int64) ([]*model.Group, error) {
	return r.list(ctx,
		`SELECT id, group_name, note, person_id
		 FROM group_info WHERE person_id = $1
		 ORDER BY group_name ASC, id ASC`,
		personID,
	)
}

// ListAll は全グループをgroup_name昇順で返す。
func (r *SQLGroupRepo) ListAll(ctx context.Context) ([]*model.Group, error) {
	return r.list(ctx,
		`SELECT id, group_name, note, person_id
		 FROM group_info
		 ORDER BY group_name ASC, id ASC`,
	)
}

// Create はグループを作成する。
func (r *SQLGroupRepo) Create(ctx context.Context, group *model.Group) error {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO group_info (group_name, note, person_id)
		 VALUES ($1, $2, $3)
		 RETURNING id`,
		group.GroupName, group.Note, group.PersonID,
	).Scan(&group.ID)
	if err != nil {
		return fmt.Errorf("グループの作成に失敗しました: %w", err)
	}
	return nil
}

func (r *SQLGroupRepo) list(ctx context.Context, query string, args ...any) ([]*model.Group, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("グループ一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	groups := []*model.Group{}
	for rows.Next() {
		g := &model.Group{}
		if err := rows.Scan(&g.ID, &g.GroupName, &g.Note, &g.PersonID); err != nil {
			return nil, fmt.Errorf("グループ行の読み取りに失敗しました: %w", err)
		}
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("グループ一覧の走査に失敗しました: %w", err)
	}
	return groups, nil
}

// compile-time interface check
var _ GroupRepository = (*SQLGroupRepo)(nil)
