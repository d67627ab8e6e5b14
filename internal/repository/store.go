package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// SQLStore は *sql.DB を所有し、通常接続またはトランザクションに束縛されたリポジトリを払い出す。
// PostgreSQL（lib/pq）とSQLite（go-sqlite3）の両方で動作するSQLのみを使用する。
type SQLStore struct {
	db  *sql.DB
	now func() time.Time
}

// StoreOption はSQLStoreの生成オプション。
type StoreOption func(*SQLStore)

// WithClock は投稿のcreated_at採番に使う時計を差し替える。
func WithClock(now func() time.Time) StoreOption {
	return func(s *SQLStore) {
		s.now = now
	}
}

// NewSQLStore はSQLStoreを生成する。
func NewSQLStore(db *sql.DB, opts ...StoreOption) *SQLStore {
	s := &SQLStore{
		db:  db,
		now: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Repositories はトランザクション外（read committed）で動作するリポジトリを返す。
// 参照系のクエリサービスが使用する。
func (s *SQLStore) Repositories() Repositories {
	return s.bind(s.db)
}

// PingContext はデータベースへの疎通を確認する。ヘルスチェック用。
func (s *SQLStore) PingContext(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// WithinTx はトランザクションに束縛されたRepositoriesでfnを実行する。
// fnがエラーを返した場合、panicした場合、コミットに失敗した場合のいずれでも
// トランザクションは必ずロールバックされ、接続はプールに返却される。
func (s *SQLStore) WithinTx(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	committed := false
	defer func() {
		if committed {
			return
		}
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			slog.Error("トランザクションのロールバックに失敗しました",
				slog.String("error", rbErr.Error()),
			)
		}
		if p := recover(); p != nil {
			panic(p)
		}
	}()

	if err := fn(ctx, s.bind(tx)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	committed = true

	return nil
}

func (s *SQLStore) bind(q DBTX) Repositories {
	return Repositories{
		Persons: NewSQLPersonRepo(q),
		Groups:  NewSQLGroupRepo(q),
		Posts:   NewSQLPostRepo(q, s.now),
	}
}

// compile-time interface check
var _ UnitOfWork = (*SQLStore)(nil)
