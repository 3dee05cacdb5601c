package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/geocoder89/fittrack/internal/auth"
	"github.com/geocoder89/fittrack/internal/config"
	"github.com/geocoder89/fittrack/internal/db"
	httpx "github.com/geocoder89/fittrack/internal/http"
	"github.com/geocoder89/fittrack/internal/http/handlers"
	"github.com/geocoder89/fittrack/internal/http/middlewares"
	"github.com/geocoder89/fittrack/internal/observability"
	"github.com/geocoder89/fittrack/internal/redisclient"
	"github.com/geocoder89/fittrack/internal/repo/memory"
	"github.com/geocoder89/fittrack/internal/repo/postgres"
	"github.com/geocoder89/fittrack/internal/revocation"
	"github.com/geocoder89/fittrack/internal/security"
	"github.com/prometheus/client_golang/prometheus"
)

const serviceName = "fittrack-api"

func main() {
	os.Exit(run())
}

// run returns the process exit code so deferred cleanup always runs.
func run() int {
	// Load the config set up
	cfg := config.Load()

	log := observability.NewLogger(cfg.Env)
	slog.SetDefault(log)

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "err", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.OTelEnabled {
		shutdownTracer, err := observability.InitTracer(ctx, serviceName, cfg.OTelEndpoint, cfg.Env)
		if err != nil {
			log.Error("tracer init failed", "err", err)
			return 1
		}
		defer func() {
			sctx, cancel := config.WithTimeout(5 * time.Second)
			defer cancel()
			_ = shutdownTracer(sctx)
		}()
	}

	var shuttingDown atomic.Bool

	prom := observability.NewProm(prometheus.DefaultRegisterer)
	hasher := security.NewHasher(cfg.BcryptCost)

	deps := httpx.Deps{
		Log:          log,
		Env:          cfg.Env,
		ServiceName:  serviceName,
		Hasher:       hasher,
		JWT:          auth.NewManager(cfg.JWTSecret, cfg.JWTAccessTTL),
		Prom:         prom,
		MaxBodyBytes: cfg.MaxBodyBytes,
		ShuttingDown: shuttingDown.Load,
	}

	switch cfg.Storage {
	case config.StoragePostgres:
		pool, err := db.ConnectWithRetry(ctx, cfg.DBURL, cfg.DBMaxConns, cfg.DBAttempts, log)
		if err != nil {
			log.Error("db connect failed", "err", err)
			return 1
		}
		defer pool.Close()

		if cfg.AutoMigrate {
			if err := db.Migrate(ctx, pool); err != nil {
				log.Error("migrations failed", "err", err)
				return 1
			}
		}

		deps.Users = postgres.NewUsersRepo(pool, prom)
		deps.Workouts = postgres.NewWorkoutsRepo(pool, prom)
		deps.Checks = append(deps.Checks, handlers.Check{Name: "database", Ping: pool.Ping})

	case config.StorageMemory:
		log.Warn("using in-memory storage; data is lost on restart")

		deps.Users = memory.NewUsersRepo()
		deps.Workouts = memory.NewWorkoutsRepo()
	}

	if cfg.UseRedis() {
		rdb := redisclient.New(redisclient.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer rdb.Close()

		pctx, cancel := config.WithTimeout(2 * time.Second)
		err := rdb.Ping(pctx)
		cancel()
		if err != nil {
			log.Error("redis connect failed", "err", err, "addr", cfg.RedisAddr)
			return 1
		}

		deps.Revocations = redisclient.NewTokenDenylist(rdb)
		deps.AuthLimiter = redisclient.NewRateLimiter(rdb, cfg.AuthRateLimit, cfg.AuthRateWindow)
		deps.Checks = append(deps.Checks, handlers.Check{Name: "redis", Ping: rdb.Ping})
	} else {
		revoked := revocation.NewMemoryStore()
		go sweepRevocations(ctx, revoked, 10*time.Minute)

		deps.Revocations = revoked
		deps.AuthLimiter = middlewares.NewWindowLimiter(cfg.AuthRateLimit, cfg.AuthRateWindow)
	}

	sctx, cancel := config.WithTimeout(5 * time.Second)
	if err := db.EnsureAdminUser(sctx, deps.Users, hasher, cfg.AdminEmail, cfg.AdminPassword, log); err != nil {
		log.Error("seed admin failed", "err", err)
	}
	cancel()

	router := httpx.NewRouter(deps)

	// server set up
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serveErr := make(chan error, 1)

	go func() {
		log.Info("Server starting", "port", cfg.Port, "env", cfg.Env, "storage", cfg.Storage, "redis", cfg.UseRedis())

		err := srv.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			serveErr <- err
		}
		close(serveErr)
	}()

	code := 0

	// Graceful shutdown
	select {
	case <-ctx.Done():
		log.Info("server shutting down")
	case err, ok := <-serveErr:
		if ok {
			log.Error("server failed", "err", err)
			code = 1
		}
	}

	shuttingDown.Store(true)

	shutdownCtx, cancelShutdown := config.WithTimeout(10 * time.Second)
	defer cancelShutdown()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "err", err)
		return 1
	}

	log.Info("shutdown complete")
	return code
}

func sweepRevocations(ctx context.Context, store *revocation.MemoryStore, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			store.Sweep()
		}
	}
}
