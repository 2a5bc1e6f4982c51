// Command portal serves the practitioner and patient portal on top of the
// session manager.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/octabyte/bm-session/authclient"
	"github.com/octabyte/bm-session/config"
	dbredis "github.com/octabyte/bm-session/db/redis"
	"github.com/octabyte/bm-session/enums"
	"github.com/octabyte/bm-session/interfaces/http/echo/views"
	"github.com/octabyte/bm-session/otel"
	otelecho "github.com/octabyte/bm-session/otel/echo"
	"github.com/octabyte/bm-session/otel/metrics"
	"github.com/octabyte/bm-session/queue"
	"github.com/octabyte/bm-session/session"
	"github.com/octabyte/bm-session/store"
	"github.com/octabyte/bm-session/utils/logger"
)

const (
	shutdownTimeout = 10 * time.Second

	bootstrapServiceName = "bm-session"
)

func main() {
	if err := logger.Init(logger.Bootstrap(bootstrapServiceName)); err != nil {
		fmt.Fprintf(os.Stderr, "portal: init logger: %v\n", err)
		os.Exit(1)
	}

	if err := run(); err != nil {
		report(err)
		os.Exit(1)
	}
}

func report(err error) {
	logger.LogError("portal stopped", zap.Error(err))
	logger.Sync()
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if err := logger.Init(cfg.Logger()); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownOtel, err := otel.InitOpenTelemetry(ctx, cfg.Telemetry())
	if err != nil {
		return fmt.Errorf("init telemetry: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownOtel(sctx); err != nil {
			logger.LogWarn("telemetry shutdown failed", zap.Error(err))
		}
	}()
	if err := metrics.Init(cfg.ServiceName); err != nil {
		return fmt.Errorf("init metrics: %w", err)
	}

	st, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	client, err := authclient.New(cfg.AuthClient())
	if err != nil {
		return err
	}

	var opts []session.Option
	if cfg.EventsEnabled() {
		pub, closeEvents, err := openEvents(cfg)
		if err != nil {
			return err
		}
		defer closeEvents()
		opts = append(opts, session.WithListener(session.PublishTo(pub)))
	}

	manager := session.NewManager(client, st, opts...)
	defer manager.Close()

	go func() {
		if err := manager.Initialize(ctx); err != nil {
			logger.LogError("session initialize failed", zap.Error(err))
		}
	}()

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(echomw.Recover())
	e.Use(otelecho.MiddlewareWithConfig(cfg.ServiceName, func(c echo.Context) bool {
		return c.Path() == "/healthz"
	}))
	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok\n")
	})
	views.New(manager, client).Mount(e)

	errCh := make(chan error, 1)
	go func() {
		logger.LogInfo("portal listening", zap.String("addr", cfg.HTTPAddr), zap.String("store", cfg.Store.Driver))
		if err := e.Start(cfg.HTTPAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("listen: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		logger.LogInfo("shutdown signal received")
	case err := <-errCh:
		return err
	}

	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(sctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	logger.LogInfo("portal stopped")
	return nil
}

// openStore builds the configured session store backend.
func openStore(ctx context.Context, cfg *config.Config) (store.Store, func(), error) {
	switch cfg.Store.Driver {
	case enums.StoreDriverRedis:
		rc, err := dbredis.NewRedisClient(ctx, cfg.Redis())
		if err != nil {
			return nil, nil, err
		}
		return store.NewRedis(rc, cfg.Store.Profile), closer("redis", rc), nil
	case enums.StoreDriverMemory:
		return store.NewMemory(), func() {}, nil
	default:
		return store.NewFile(cfg.SessionFile()), func() {}, nil
	}
}

// openEvents connects to the broker and returns a publisher for session
// events.
func openEvents(cfg *config.Config) (queue.Publisher, func(), error) {
	conn, err := queue.NewConnection(cfg.EventsConnection())
	if err != nil {
		return nil, nil, err
	}

	pub, err := queue.NewPublisher(conn.Ch, cfg.EventsPublish())
	if err != nil {
		_ = conn.Close()
		return nil, nil, err
	}

	return pub, closer("rabbitmq", conn), nil
}

func closer(name string, c io.Closer) func() {
	return func() {
		if err := c.Close(); err != nil {
			logger.LogWarn("close failed", zap.String("resource", name), zap.Error(err))
		}
	}
}
