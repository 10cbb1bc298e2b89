package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/segmenter/internal/middleware"
)

// DBPinger はヘルスチェックが必要とするストア疎通確認インターフェース。
type DBPinger interface {
	PingContext(ctx context.Context) error
}

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	Logger      *slog.Logger
	RateLimiter *middleware.RateLimiter
	HTTPMetrics middleware.HTTPMetrics

	// ユーザー
	UserService UserServiceInterface

	// セグメント
	SegmentService   SegmentServiceInterface
	AssignmentEngine AssignmentEngineInterface

	// 一覧ページ
	UserLister    UserLister
	SegmentLister SegmentLister

	// 運用サーフェス
	DB             DBPinger
	MetricsHandler http.Handler
}

// NewRouter は全エンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	RequestID → Logging → Recovery → RateLimit(General)
//
// ヘルスチェック、メトリクス、一覧ページはレート制限の外に配置する。
// 一括割り当てエンドポイントにはさらに専用レート制限を適用する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewRequestIDMiddleware())
	r.Use(middleware.NewLoggingMiddleware(deps.Logger, deps.HTTPMetrics))
	r.Use(middleware.NewRecoveryMiddleware())

	userHandler := NewUserHandler(deps.UserService)
	segmentHandler := NewSegmentHandler(deps.SegmentService, deps.AssignmentEngine)
	indexHandler := NewIndexHandler(deps.UserLister, deps.SegmentLister)

	// --- レート制限の外のルート ---

	r.Get("/", indexHandler.Index)
	r.Get("/health", healthHandler(deps.DB))
	if deps.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
	}

	// --- APIルート ---
	// ミドルウェアスタック: RateLimit(General)
	r.Group(func(r chi.Router) {
		if deps.RateLimiter != nil {
			r.Use(deps.RateLimiter.GeneralMiddleware())
		}

		// ユーザー管理
		r.Route("/user", func(r chi.Router) {
			r.Post("/add", userHandler.CreateUser)
			r.Get("/{id}", userHandler.GetUser)
			r.Get("/{id}/segments", userHandler.ListUserSegments)
		})

		// セグメント管理
		r.Route("/segment", func(r chi.Router) {
			r.Post("/add", segmentHandler.CreateSegment)
			r.Get("/{id}", segmentHandler.GetSegment)
			r.Put("/update/{id}", segmentHandler.UpdateSegment)
			// 旧クライアント互換パス
			r.Put("/change/{id}", segmentHandler.UpdateSegment)
			r.Delete("/delete/{id}", segmentHandler.DeleteSegment)

			// 一括割り当て（専用レート制限を追加）
			r.Group(func(r chi.Router) {
				if deps.RateLimiter != nil {
					r.Use(deps.RateLimiter.AssignmentMiddleware())
				}
				r.Post("/add_users_by_ids/{id}", segmentHandler.AssignByIDs)
				r.Post("/add_users_by_percent/{id}", segmentHandler.AssignByPercent)
				r.Post("/add_users_by_param/{id}", segmentHandler.AssignByAttribute)
			})
		})
	})

	return r
}

// healthHandler はストアへの疎通を確認するヘルスチェックハンドラーを返す。
func healthHandler(db DBPinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if db != nil {
			if err := db.PingContext(ctx); err != nil {
				slog.Error("health check failed", slog.String("error", err.Error()))
				writeJSONResponse(w, http.StatusServiceUnavailable, map[string]string{
					"status": "unhealthy",
				})
				return
			}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}
}
