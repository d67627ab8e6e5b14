package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/hitoshi/profilebook/internal/model"
)

// SQLPostRepo はSQLデータベースを使用した投稿リポジトリ。
type SQLPostRepo struct {
	db  DBTX
	now func() time.Time
}

// NewSQLPostRepo はSQLPostRepoを生成する。nowがnilの場合はtime.Nowを使用する。
func NewSQLPostRepo(db DBTX, now func() time.Time) *SQLPostRepo {
	if now == nil {
		now = time.Now
	}
	return &SQLPostRepo{db: db, now: now}
}

// ListByPersonAndGroup は (person, group) に紐づく投稿をcreated_at降順で返す。
// 同時刻の投稿はID降順で並べる。
func (r *SQLPostRepo) ListByPersonAndGroup(ctx context.Context, personID, groupID int64) ([]*model.Post, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, person_id, group_id, post_details, comments, created_at
		 FROM post_info
		 WHERE person_id = $1 AND group_id = $2
		 ORDER BY created_at DESC, id DESC`,
		personID, groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("投稿一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	posts := []*model.Post{}
	for rows.Next() {
		p := &model.Post{}
		if err := rows.Scan(&p.ID, &p.PersonID, &p.GroupID, &p.PostDetails, &p.Comments, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("投稿行の読み取りに失敗しました: %w", err)
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("投稿一覧の走査に失敗しました: %w", err)
	}
	return posts, nil
}

// Create は投稿を作成する。created_atはストアの時計で採番する（UTC、マイクロ秒精度）。
func (r *SQLPostRepo) Create(ctx context.Context, post *model.Post) error {
	post.CreatedAt = r.now().UTC().Truncate(time.Microsecond)

	err := r.db.QueryRowContext(ctx,
		`INSERT INTO post_info (person_id, group_id, post_details, comments, created_at)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		post.PersonID, post.GroupID, post.PostDetails, post.Comments, post.CreatedAt,
	).Scan(&post.ID)
	if err != nil {
		return fmt.Errorf("投稿の作成に失敗しました: %w", err)
	}
	return nil
}

// compile-time interface check
var _ PostRepository = (*SQLPostRepo)(nil)
