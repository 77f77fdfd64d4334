package http

import (
	"context"

	"cashdunia/internal/config"
	"cashdunia/internal/http/handlers"
	"cashdunia/internal/http/middleware"
	"cashdunia/internal/repository"
	"cashdunia/internal/service"
	"cashdunia/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	redis "github.com/redis/go-redis/v9"
)

// Deps is everything the HTTP layer is built from.
type Deps struct {
	Config  *config.Config
	Engine  *service.Engine
	Store   repository.Store
	Redis   *redis.Client
	Hub     *ws.Hub
	Version string
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	cfg := d.Config
	h := handlers.NewHandler(d.Engine)

	var cache handlers.Pinger
	if d.Redis != nil {
		rdb := d.Redis
		cache = handlers.PingFunc(func(ctx context.Context) error { return rdb.Ping(ctx).Err() })
	}
	healthHandler := handlers.NewHealthHandler(d.Store, cache, d.Version)

	middleware.UseRedis(d.Redis)

	r.Use(middleware.RequestID(), middleware.Metrics(), middleware.CORS(cfg.AllowedOrigin))

	// Health checks (no rate limiting)
	r.GET("/health", healthHandler.Health)
	r.GET("/healthz", healthHandler.Liveness)
	r.GET("/readyz", healthHandler.Readiness)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Live account updates
	r.GET("/ws", ws.HandleWS(d.Hub, cfg.AllowedOrigin))

	v1 := r.Group("/api/v1")
	v1.Use(middleware.RateLimit(cfg.APIRateLimit, cfg.APIRateWindow))
	registerAPIRoutes(v1, h, cfg)
}

func registerAPIRoutes(api *gin.RouterGroup, h *handlers.Handler, cfg *config.Config) {
	// Action rate limiter middleware (per user, not per IP)
	actionRL := middleware.ActionRateLimit(cfg.ActionRateLimit, cfg.ActionRateWindow)

	// Public
	api.GET("/leaderboard", h.GetLeaderboard)
	api.GET("/withdrawals/tiers", h.WithdrawalTiers)

	auth := api.Group("")
	auth.Use(middleware.JWT())
	{
		auth.GET("/me", h.Me)
		auth.GET("/me/transactions", h.MyTransactions)

		auth.GET("/level", h.Level)
		auth.POST("/level/gem", actionRL, h.RecordGem)
		auth.POST("/level/advance", actionRL, h.AdvanceLevel)
		auth.GET("/level/offers", h.OfferHistory)

		auth.GET("/streak", h.Streak)
		auth.POST("/streak/claim", actionRL, h.ClaimSlot)

		auth.GET("/leaderboard/rank", h.GetMyRank)

		auth.POST("/withdrawals", actionRL, h.RequestWithdrawal)
		auth.GET("/withdrawals", h.MyWithdrawals)

		auth.GET("/referral", h.GetReferralStats)
		auth.POST("/referral/apply", actionRL, h.ApplyReferralCode)

		auth.GET("/tasks", h.ListTasks)
		auth.POST("/tasks/:id/complete", actionRL, h.CompleteTask)
	}

	admin := api.Group("/admin")
	admin.Use(middleware.JWT(), middleware.AdminOnly(cfg.IsAdmin))
	{
		admin.PATCH("/withdrawals/:id", actionRL, h.UpdateWithdrawalStatus)
		admin.POST("/tasks", h.CreateTask)
		admin.PATCH("/tasks/:id", h.SetTaskActive)
	}
}
