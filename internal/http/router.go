package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/fitnessbud/backend/internal/auth"
	"github.com/fitnessbud/backend/internal/config"
	"github.com/fitnessbud/backend/internal/http/handlers"
	"github.com/fitnessbud/backend/internal/http/middlewares"
	"github.com/fitnessbud/backend/internal/observability"
	"github.com/fitnessbud/backend/internal/recommend"
	"github.com/fitnessbud/backend/internal/repo/postgres"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

const serviceName = "fitnessbud-api"

func NewRouter(
	log *slog.Logger,
	pool *pgxpool.Pool,
	rdb *redis.Client,
	model *recommend.Model,
	prom *observability.Prom,
	cfg config.Config,
) *gin.Engine {
	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	// middleware
	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	r.Use(middlewares.RequestLogger())
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.MaxBodyBytes(1 << 20))
	r.Use(otelgin.Middleware(serviceName))

	if prom != nil {
		r.Use(prom.GinHandleMiddleware())
	}

	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(middlewares.CORSMiddleware(cfg.CORSAllowedOrigins))
	}

	// health
	ping := func() error {
		if pool == nil {
			return nil
		}

		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
		defer cancel()

		return pool.Ping(ctx)
	}

	h := handlers.NewHealthHandler(ping)
	r.GET("/healthz", h.Healthz)
	r.GET("/readyz", h.Readyz)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/info", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"name": serviceName, "message": "Welcome to the FitnessBud API."})
	})

	// wire up repositories
	usersRepo := postgres.NewUsersRepo(pool, prom)
	logsRepo := postgres.NewWorkoutLogsRepo(pool, prom)

	jwtManager := auth.NewManager(cfg.JWTSecret, cfg.AccessTTL())
	authMw := middlewares.NewAuthMiddleware(jwtManager, usersRepo)
	loginLimiter := middlewares.NewRateLimiter(cfg.LoginRateLimit, cfg.LoginRateWindow, rdb)

	authHandler := handlers.NewAuthHandler(usersRepo, jwtManager, prom)
	usersHandler := handlers.NewUsersHandler(usersRepo)
	logsHandler := handlers.NewWorkoutLogsHandler(logsRepo)

	// avoid wrapping a typed nil in the predictor interface
	var predictor handlers.GoalPredictor
	if model != nil {
		predictor = model
	}
	recommendHandler := handlers.NewRecommendHandler(predictor, prom)

	v1 := r.Group("/v1")

	// login takes url-encoded form fields, so no RequireJSON here
	v1.POST("/auth/token",
		loginLimiter.RateLimiterMiddleware(middlewares.KeyByIP),
		authHandler.Login,
	)

	users := v1.Group("/users", middlewares.RequireJSON())
	users.POST("/", usersHandler.Register)

	logs := v1.Group("/workout_logs", authMw.RequireAuth(), middlewares.RequireJSON())
	logs.POST("/", logsHandler.CreateLog)
	logs.GET("/", logsHandler.ListLogs)
	logs.GET("/:id", logsHandler.GetLogByID)
	logs.PATCH("/:id", logsHandler.UpdateLog)
	logs.DELETE("/:id", logsHandler.DeleteLog)

	v1.POST("/recommend",
		middlewares.RequireJSON(),
		loginLimiter.RateLimiterMiddleware(middlewares.KeyByIP),
		recommendHandler.Recommend,
	)

	log.Debug("router wired", "env", cfg.Env)

	return r
}
