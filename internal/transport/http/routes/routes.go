package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/mykdolnyk/ban-review-website/internal/core/port"
	"github.com/mykdolnyk/ban-review-website/internal/infra/config"
	appRedis "github.com/mykdolnyk/ban-review-website/internal/infra/redis"
	"github.com/mykdolnyk/ban-review-website/internal/infra/security"
	"github.com/mykdolnyk/ban-review-website/internal/transport/http/handlers"
	"github.com/mykdolnyk/ban-review-website/internal/transport/http/middleware"
	"github.com/mykdolnyk/ban-review-website/internal/usecase"
)

// ServiceSet groups the services the HTTP layer depends on.
type ServiceSet struct {
	Identity *usecase.IdentityService
	Threads  *usecase.ThreadService
	Messages *usecase.MessageService
	Admins   *usecase.AdminService
}

// StoreSet groups the ports the HTTP layer consumes directly.
type StoreSet struct {
	Sessions   port.SessionStore
	Denylist   port.TokenDenylist
	Requesters port.RequesterRepository
	Threads    port.ThreadRepository
}

// Dependencies encapsulates the objects required to register routes.
type Dependencies struct {
	Config      *config.AppConfig
	Logger      *zap.Logger
	RateLimiter *middleware.RateLimiter
	Metrics     *middleware.HTTPMetrics
	JWTManager  *security.JWTManager
	Services    ServiceSet
	Stores      StoreSet
	Pool        *pgxpool.Pool
	Redis       *appRedis.Client
}

// Register configures the Gin engine with routes and middleware.
func Register(deps Dependencies) *gin.Engine {
	if deps.Config.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.EnrichContext())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(deps.Logger))
	if deps.Metrics != nil {
		r.Use(deps.Metrics.Handler())
	}

	healthHandler := handlers.NewHealthHandler(deps.Pool, deps.Redis)
	r.GET("/healthz", healthHandler.Status)
	r.GET("/readyz", healthHandler.Readiness)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	requireAdmin := middleware.RequireAdmin(deps.JWTManager, deps.Stores.Denylist)
	optionalAdmin := middleware.OptionalAdmin(deps.JWTManager, deps.Stores.Denylist)
	session := middleware.RequesterSession(deps.Stores.Sessions, deps.Config.Session.CookieName)
	csrf := middleware.CSRF(deps.Stores.Sessions, deps.Config.Session.CookieName, deps.Config.CSRF)

	api := r.Group("/api/v1")
	if mw := globalRateLimit(deps); mw != nil {
		api.Use(mw)
	}
	{
		requesterHandler := handlers.NewRequesterHandler(
			deps.Services.Identity,
			deps.Stores.Requesters,
			deps.Stores.Threads,
			deps.Stores.Sessions,
			deps.Config.Session,
			deps.Config.CSRF,
		)

		requesterGroup := api.Group("/requesters")
		requesterGroup.Use(session, csrf)
		requesterGroup.POST("/authenticate", requesterHandler.Authenticate)
		requesterGroup.GET("/current", requesterHandler.Current)

		api.GET("/csrf-token", session, requesterHandler.CSRFToken)

		threadHandler := handlers.NewThreadHandler(deps.Services.Threads, deps.Services.Messages, deps.Config.Thread)
		messageHandler := handlers.NewMessageHandler(deps.Services.Messages, deps.Config.Thread)

		conversations := api.Group("/conversations")
		conversations.Use(session, optionalAdmin, csrf)
		conversations.GET("/thread-statuses", threadHandler.ThreadStatuses)
		conversations.GET("/threads/:id", threadHandler.GetThread)
		conversations.POST("/threads/:id", threadHandler.PostMessage)
		conversations.GET("/threads", requireAdmin, threadHandler.ListThreads)
		conversations.PUT("/threads/:id", requireAdmin, threadHandler.TransitionThread)
		conversations.DELETE("/threads/:id", requireAdmin, threadHandler.DeleteThread)
		conversations.GET("/messages", requireAdmin, messageHandler.ListMessages)
		conversations.GET("/messages/:id", requireAdmin, messageHandler.GetMessage)
		conversations.DELETE("/messages/:id", requireAdmin, messageHandler.DeleteMessage)

		adminHandler := handlers.NewAdminHandler(deps.Services.Admins, deps.Services.Messages, deps.Config.Auth, deps.Config.Thread)
		noteHandler := handlers.NewNoteHandler(deps.Services.Admins, deps.Config.Thread)

		adminGroup := api.Group("/admin")
		adminGroup.POST("/login", adminHandler.Login)
		adminGroup.POST("/logout", requireAdmin, adminHandler.Logout)
		adminGroup.GET("/current-user", requireAdmin, adminHandler.CurrentUser)
		adminGroup.GET("/users", requireAdmin, adminHandler.ListUsers)
		adminGroup.GET("/users/:id", requireAdmin, adminHandler.GetUser)
		adminGroup.POST("/send-message/:id", requireAdmin, adminHandler.SendMessage)

		noteGroup := adminGroup.Group("/notes")
		noteGroup.Use(requireAdmin)
		noteGroup.GET("", noteHandler.ListNotes)
		noteGroup.POST("", noteHandler.CreateNote)
		noteGroup.GET("/:id", noteHandler.GetNote)
		noteGroup.PUT("/:id", noteHandler.UpdateNote)
		noteGroup.DELETE("/:id", noteHandler.DeleteNote)
	}

	return r
}

func globalRateLimit(deps Dependencies) gin.HandlerFunc {
	if deps.RateLimiter == nil || deps.Config == nil {
		return nil
	}

	limit := deps.Config.RateLimit.MaxAttempts
	window := deps.Config.RateLimit.WindowDuration
	if limit <= 0 || window <= 0 {
		return nil
	}

	return deps.RateLimiter.RateLimit(middleware.RateLimitRule{
		Name:       "global",
		Limit:      limit,
		Window:     window,
		Identifier: middleware.ClientIPIdentifier(),
	})
}
