package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

const (
	// initialPingBackoff は疎通確認リトライの初回遅延。
	initialPingBackoff = 500 * time.Millisecond
	// maxPingBackoff は疎通確認リトライの最大遅延。
	maxPingBackoff = 8 * time.Second
)

// Pinger はDBの疎通確認インターフェース。*sql.DB が満たす。
type Pinger interface {
	PingContext(ctx context.Context) error
}

// PingBackoff は失敗回数に基づいて指数バックオフ遅延を計算する。
// 初回500ms、2倍ずつ増加、最大8秒。
func PingBackoff(failures int) time.Duration {
	delay := initialPingBackoff
	for i := 0; i < failures; i++ {
		delay *= 2
		if delay > maxPingBackoff {
			return maxPingBackoff
		}
	}
	return delay
}

// WaitForDB はDBに接続できるまで最大maxAttempts回pingする。
// コンテナ起動直後はDBの準備が整っていないことがあるため、起動時に使う。
func WaitForDB(ctx context.Context, db Pinger, maxAttempts int) error {
	return waitForDB(ctx, db, maxAttempts, PingBackoff)
}

func waitForDB(ctx context.Context, db Pinger, maxAttempts int, backoff func(int) time.Duration) error {
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	var err error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if err = db.PingContext(ctx); err == nil {
			return nil
		}
		if attempt == maxAttempts-1 {
			break
		}

		delay := backoff(attempt)
		slog.Warn("database not ready, retrying",
			slog.String("error", err.Error()),
			slog.Int("attempt", attempt+1),
			slog.Duration("retry_in", delay),
		)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("gave up waiting for database: %w", ctx.Err())
		case <-timer.C:
		}
	}

	return fmt.Errorf("database unreachable after %d attempts: %w", maxAttempts, err)
}
