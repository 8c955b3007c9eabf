package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/tourvisto/trip-admin-api/internal/adapters/httpapi"
	memidempotency "github.com/tourvisto/trip-admin-api/internal/adapters/memory/idempotency"
	memnavstate "github.com/tourvisto/trip-admin-api/internal/adapters/memory/navstate"
	memregistry "github.com/tourvisto/trip-admin-api/internal/adapters/memory/registry"
	memtriprepo "github.com/tourvisto/trip-admin-api/internal/adapters/memory/triprepo"
	postgres "github.com/tourvisto/trip-admin-api/internal/adapters/postgres"
	pgidempotency "github.com/tourvisto/trip-admin-api/internal/adapters/postgres/idempotency"
	"github.com/tourvisto/trip-admin-api/internal/adapters/postgres/migrations"
	pgtriprepo "github.com/tourvisto/trip-admin-api/internal/adapters/postgres/triprepo"
	redisnavstate "github.com/tourvisto/trip-admin-api/internal/adapters/redis/navstate"
	"github.com/tourvisto/trip-admin-api/internal/adapters/restcountries"
	"github.com/tourvisto/trip-admin-api/internal/app/catalog"
	"github.com/tourvisto/trip-admin-api/internal/app/drafts"
	"github.com/tourvisto/trip-admin-api/internal/app/payments"
	"github.com/tourvisto/trip-admin-api/internal/app/pricing"
	"github.com/tourvisto/trip-admin-api/internal/app/transitions"
	"github.com/tourvisto/trip-admin-api/internal/app/trips"
	"github.com/tourvisto/trip-admin-api/internal/platform/auth/jwtverifier"
	platformclock "github.com/tourvisto/trip-admin-api/internal/platform/clock"
	"github.com/tourvisto/trip-admin-api/internal/platform/config"
	"github.com/tourvisto/trip-admin-api/internal/platform/metrics"
	"github.com/tourvisto/trip-admin-api/internal/platform/sl"
	idempotencyport "github.com/tourvisto/trip-admin-api/internal/ports/out/idempotency"
	navstateport "github.com/tourvisto/trip-admin-api/internal/ports/out/navstate"
	triprepoport "github.com/tourvisto/trip-admin-api/internal/ports/out/triprepo"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid config", sl.Err(err))
		os.Exit(1)
	}

	log := sl.New(cfg.Env)
	log.Info("starting trip-admin-api", slog.String("env", cfg.Env), slog.String("addr", cfg.HTTP.Addr))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	clk := platformclock.NewSystemClock()

	var (
		tripRepo  triprepoport.Repository
		idemStore idempotencyport.Store
		navStore  navstateport.Store
	)

	switch cfg.Storage.Backend {
	case config.BackendPostgres:
		if cfg.Storage.Migrate {
			if err := migrations.Up(cfg.Storage.DatabaseURL); err != nil {
				log.Error("failed to apply migrations", sl.Err(err))
				os.Exit(1)
			}
		}
		pool, err := postgres.NewPool(ctx, cfg.Storage.DatabaseURL, postgres.PoolOptions{MaxConns: cfg.Storage.MaxConns})
		if err != nil {
			log.Error("failed to open postgres pool", sl.Err(err))
			os.Exit(1)
		}
		defer pool.Close()

		tripRepo = pgtriprepo.NewRepo(pool)
		idemStore = pgidempotency.NewStore(pool, clk, cfg.Idempotency.Retention)
	default:
		tripRepo = memtriprepo.NewRepo()
		idemStore = memidempotency.NewStore(clk, cfg.Idempotency.Retention)
	}

	switch cfg.NavState.Backend {
	case config.BackendRedis:
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Error("failed to connect to redis", sl.Err(err))
			os.Exit(1)
		}
		defer rdb.Close()
		navStore = redisnavstate.NewStore(rdb, cfg.NavState.TTL)
	default:
		navStore = memnavstate.NewStore(clk, cfg.NavState.TTL)
	}

	carrier := transitions.NewCarrier(navStore)
	tripSvc := trips.NewService(tripRepo, memregistry.NewRegistry(), clk, log, m)
	paySvc := payments.NewService(carrier, tripSvc, clk, log, m, cfg.Payments.Delay, cfg.Payments.SessionTTL)

	api := httpapi.NewServer(httpapi.Server{
		Catalog:  catalog.NewLoader(restcountries.New(cfg.Countries.BaseURL, cfg.Countries.Timeout), log, m),
		Drafts:   drafts.NewBuilder(pricing.NewEstimator(cfg.Pricing.Rates())),
		Carrier:  carrier,
		Trips:    tripSvc,
		Payments: paySvc,
		Idem:     idemStore,
		Metrics:  m,
		Log:      log,
	})

	// AUTH_MODE=jwt verifies HS256 bearer tokens; dev trusts X-Debug-* headers.
	var authMW func(http.Handler) http.Handler
	switch cfg.Auth.Mode {
	case config.AuthModeJWT:
		authMW = httpapi.NewAuthMiddleware(jwtverifier.New(jwtverifier.Config{
			Secret:    []byte(cfg.Auth.JWTSecret),
			Issuer:    cfg.Auth.Issuer,
			Audience:  cfg.Auth.Audience,
			ClockSkew: cfg.Auth.ClockSkew,
		}))
	default:
		log.Warn("dev auth enabled, requests are trusted as-is")
		authMW = httpapi.NewDevAuthMiddleware("dev|local", "admin@example.com")
	}

	handler := httpapi.NewRouterWithOptions(api, httpapi.RouterOptions{
		AuthMiddleware: authMW,
		RateLimit:      httpapi.NewRateLimiter(log, cfg.RateLimit.RPS, cfg.RateLimit.Burst),
		Metrics:        promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}),
	})

	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           handler,
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
		IdleTimeout:       cfg.HTTP.IdleTimeout,
	}

	go func() {
		log.Info("api listening", slog.String("addr", cfg.HTTP.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("listen failed", sl.Err(err))
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown failed", sl.Err(err))
	}
}
