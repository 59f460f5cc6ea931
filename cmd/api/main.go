package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"

	"lessonshop/pkg/api"
	"lessonshop/pkg/config"
	"lessonshop/pkg/idempotency"
	"lessonshop/pkg/logger"
	"lessonshop/pkg/metrics"
	"lessonshop/pkg/otel"
)

// @title Lessonshop API
// @version 1.0
// @description Lessons catalogue and order intake
// @host localhost:3000
// @BasePath /
func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.New(os.Stderr, logger.LevelError, "lessonshop", nil).Error(context.Background(), "load config", "error", err)
		os.Exit(1)
	}

	log := logger.New(os.Stdout, logger.ParseLevel(cfg.Log.Level), cfg.Service.Name, otel.GetTraceID)
	defer log.Sync()

	if err := run(cfg, log); err != nil {
		log.Error(context.Background(), "startup", "error", err)
		log.Sync()
		os.Exit(1)
	}
}

func run(cfg config.Config, log *logger.Logger) error {
	ctx := context.Background()

	tp, shutdownTracing, err := otel.InitTracing(log, otel.Config{
		ServiceName: cfg.Service.Name,
		Host:        cfg.Otel.Host,
		Probability: cfg.Otel.Probability,
	})
	if err != nil {
		return err
	}
	defer shutdownTracing(context.Background())

	st, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer st.close(context.Background())

	var idem idempotency.Store
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password})
		defer rdb.Close()
		rs := idempotency.NewRedisStore(rdb, cfg.Idempotency.TTL)
		if err := rs.Ping(ctx); err != nil {
			log.Warn(ctx, "redis unreachable, idempotency keys may be ignored", "addr", cfg.Redis.Addr, "error", err)
		}
		idem = rs
	}

	h := api.NewHandlers(st.lessons, st.orders, idem, log)
	router := api.NewRouter(h, api.RouterConfig{
		Log:     log,
		Tracer:  tp.Tracer(cfg.Service.Name),
		Metrics: metrics.New(),
		Health:  st.health,
	})

	srv := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Info(ctx, "listening", "addr", cfg.HTTP.Addr, "store", cfg.Store.Driver, "tls", cfg.TLS.CertFile != "")
		if cfg.TLS.CertFile != "" {
			serverErrors <- srv.ListenAndServeTLS(cfg.TLS.CertFile, cfg.TLS.KeyFile)
			return
		}
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case sig := <-shutdown:
		log.Info(ctx, "shutdown", "signal", sig.String())
		sctx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(sctx); err != nil {
			srv.Close()
			return err
		}
	}
	return nil
}
