package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/hitoshi/profilebook/internal/metrics"
	"github.com/hitoshi/profilebook/internal/middleware"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// サービス
	QueryService      QueryServiceInterface
	SubmissionService SubmissionServiceInterface
	Pinger            Pinger

	// ミドルウェア依存
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter
	RequestTimeout    time.Duration
	// TrustProxyHeaders がfalseの場合、レート制限のキーは接続元のRemoteAddrになる
	TrustProxyHeaders bool
	Logger            *slog.Logger
	Metrics           metrics.MetricsCollector

	// MetricsHandler がnilの場合は /metrics を公開しない
	MetricsHandler http.Handler
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	RequestID → RealIP(TrustProxyHeaders時のみ) → Logging → Recovery → CORS → SecurityHeaders → Timeout → RateLimit(General)
//
// /health と /metrics はレート制限の外に配置する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r.Use(middleware.NewRequestIDMiddleware())
	if deps.TrustProxyHeaders {
		r.Use(chimw.RealIP)
	}
	r.Use(middleware.NewLoggingMiddleware(logger, deps.Metrics))
	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(middleware.NewSecurityHeadersMiddleware())
	if deps.RequestTimeout > 0 {
		r.Use(chimw.Timeout(deps.RequestTimeout))
	}

	groupHandler := NewGroupHandler(deps.QueryService, deps.SubmissionService)
	personHandler := NewPersonHandler(deps.QueryService)
	postHandler := NewPostHandler(deps.QueryService, deps.SubmissionService)
	submissionHandler := NewSubmissionHandler(deps.SubmissionService)

	// --- 運用エンドポイント ---
	if deps.Pinger != nil {
		r.Get("/health", HealthHandler(deps.Pinger))
	}
	if deps.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
	}

	// --- API ---
	r.Route("/api", func(r chi.Router) {
		if deps.RateLimiter != nil {
			r.Use(deps.RateLimiter.GeneralMiddleware())
		}
		write := func(r chi.Router) chi.Router {
			if deps.RateLimiter == nil {
				return r
			}
			return r.With(deps.RateLimiter.WriteMiddleware())
		}

		r.Get("/groups", groupHandler.ListGroups)
		write(r).Post("/groups", groupHandler.CreateGroup)
		r.Get("/person-groups", groupHandler.PersonGroups)

		r.Get("/persons", personHandler.SearchPersons)

		r.Get("/posts", postHandler.ListPosts)
		write(r).Post("/posts", postHandler.CreatePost)

		write(r).Post("/save-data", submissionHandler.SaveData)
	})

	return r
}
