package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"golang.org/x/sync/errgroup"

	"github.com/BruksfildServices01/restaurant-app/internal/audit"
	"github.com/BruksfildServices01/restaurant-app/internal/config"
	dbpkg "github.com/BruksfildServices01/restaurant-app/internal/db"
	"github.com/BruksfildServices01/restaurant-app/internal/events"
	"github.com/BruksfildServices01/restaurant-app/internal/logger"
	"github.com/BruksfildServices01/restaurant-app/internal/metrics"
	"github.com/BruksfildServices01/restaurant-app/internal/otp"
	"github.com/BruksfildServices01/restaurant-app/internal/routes"
	"github.com/BruksfildServices01/restaurant-app/internal/session"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()
	log := logger.New(cfg.LogLevel)
	slog.SetDefault(log)

	if err := run(cfg, log); err != nil {
		log.Error("server stopped", slog.Any("err", err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := dbpkg.NewDB(cfg, log)
	if err != nil {
		return err
	}
	if err := dbpkg.SeedAdmin(ctx, db, cfg.SeedAdminEmail, cfg.SeedAdminPassword, log); err != nil {
		return err
	}

	deps := routes.Deps{
		DB:      db,
		Config:  cfg,
		Log:     log,
		Metrics: metrics.New(),
	}

	// --------- Session / OTP stores ---------

	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return err
		}
		rdb := redis.NewClient(opts)
		defer rdb.Close()

		if err := rdb.Ping(ctx).Err(); err != nil {
			return err
		}
		deps.Sessions = session.NewRedisStore(rdb)
		deps.OTPs = otp.NewRedisStore(rdb, cfg.OTP.TTL)
		log.Info("using redis for sessions and otp codes")
	}

	// --------- Events ---------

	if cfg.NATSUrl != "" {
		pub, err := events.NewNATSPublisher(cfg.NATSUrl, log)
		if err != nil {
			return err
		}
		defer pub.Close()
		deps.Publisher = pub
	}

	// --------- Audit ---------

	dispatcher := audit.NewDispatcher(audit.New(db), audit.NewArchiver(cfg.Archive, log), log)
	defer dispatcher.Close()
	deps.Auditor = dispatcher

	// --------- HTTP ---------

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	routes.RegisterRoutes(r, deps)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("server running", slog.String("addr", cfg.Addr()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
