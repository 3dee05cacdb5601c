package http

import (
	"log/slog"

	"github.com/geocoder89/fittrack/internal/auth"
	"github.com/geocoder89/fittrack/internal/http/handlers"
	"github.com/geocoder89/fittrack/internal/http/middlewares"
	"github.com/geocoder89/fittrack/internal/observability"
	"github.com/geocoder89/fittrack/internal/revocation"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// Deps is everything the router needs. Storage and revocation are chosen by
// the caller (Postgres/Redis in production, in-memory for local runs and tests).
type Deps struct {
	Log         *slog.Logger
	Env         string
	ServiceName string

	Users       handlers.UserStore
	Workouts    handlers.WorkoutStore
	Hasher      handlers.PasswordHasher
	JWT         *auth.Manager
	Revocations revocation.Store

	// nil disables rate limiting on register/login
	AuthLimiter middlewares.Limiter

	Prom         *observability.Prom
	MaxBodyBytes int64
	Checks       []handlers.Check
	ShuttingDown func() bool
}

func NewRouter(d Deps) *gin.Engine {
	if d.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}

	if d.Log == nil {
		d.Log = slog.Default()
	}
	if d.ServiceName == "" {
		d.ServiceName = "fittrack-api"
	}
	if d.MaxBodyBytes <= 0 {
		d.MaxBodyBytes = 1 << 20
	}

	r := gin.New()
	r.HandleMethodNotAllowed = true

	// middleware
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware(d.ServiceName))
	r.Use(middlewares.RequestID())
	r.Use(middlewares.RequestLogger(d.Log))
	if d.Prom != nil {
		r.Use(d.Prom.GinHandleMiddleware())
	}
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORS())
	r.Use(middlewares.MaxBodyBytes(d.MaxBodyBytes))
	r.Use(middlewares.RequireJSON())

	r.NoRoute(handlers.RespondRouteNotFound)
	r.NoMethod(handlers.RespondMethodNotAllowed)

	// health
	hh := handlers.NewHealthHandler(d.ShuttingDown, d.Checks...)
	r.GET("/healthz", hh.Healthz)
	r.GET("/readyz", hh.Readyz)

	if d.Prom != nil {
		r.GET("/metrics", gin.WrapH(d.Prom.Handler()))
	}

	authMW := middlewares.NewAuthMiddleware(d.JWT, d.Revocations)
	authHandler := handlers.NewAuthHandler(d.Users, d.Hasher, d.JWT, d.Revocations, d.Prom, d.Log)
	workoutsHandler := handlers.NewWorkoutsHandler(d.Workouts, d.Prom, d.Log)

	var limited []gin.HandlerFunc
	if d.AuthLimiter != nil {
		limited = append(limited, middlewares.RateLimit(d.AuthLimiter, middlewares.KeyByIP))
	}

	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", append(limited, authHandler.Register)...)
		authGroup.POST("/login", append(limited, authHandler.Login)...)
		authGroup.GET("/verify", authMW.RequireAuth(), authHandler.Verify)
		authGroup.POST("/logout", authMW.RequireAuth(), authHandler.Logout)
	}

	workouts := r.Group("/workouts", authMW.RequireAuth())
	{
		workouts.GET("/get", workoutsHandler.List)
		workouts.POST("/add", workoutsHandler.Add)
		workouts.PATCH("/update", workoutsHandler.Update)
		workouts.DELETE("/delete", workoutsHandler.Delete)
		workouts.PATCH("/complete", workoutsHandler.Complete)
	}

	return r
}
