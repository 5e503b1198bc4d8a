package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"

	"github.com/Skotchmaster/quickkart/internal/config"
	"github.com/Skotchmaster/quickkart/internal/db"
	"github.com/Skotchmaster/quickkart/internal/events"
	"github.com/Skotchmaster/quickkart/internal/handlers"
	"github.com/Skotchmaster/quickkart/internal/logging"
	loggingmw "github.com/Skotchmaster/quickkart/internal/middleware/logging"
	"github.com/Skotchmaster/quickkart/internal/repo"
	"github.com/Skotchmaster/quickkart/internal/repo/mongorepo"
	"github.com/Skotchmaster/quickkart/internal/service"
	httpserver "github.com/Skotchmaster/quickkart/internal/transport/http"
)

// store is what every backend offers to the services and the readiness check.
type store interface {
	service.ProductStore
	service.CartStore
	service.UserStore
	httpserver.Pinger
}

func newServeCmd() *cobra.Command {
	var migrate bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), config.Load(), migrate)
		},
	}
	cmd.Flags().BoolVar(&migrate, "migrate", true, "apply the SQL schema before serving (gorm store only)")
	return cmd
}

func runServe(ctx context.Context, cfg config.Config, migrate bool) error {
	if err := cfg.ValidateServer(); err != nil {
		return err
	}

	logger := logging.New(cfg.ServiceName, cfg.LogLevel)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, closeStore, err := openStore(ctx, cfg, migrate)
	if err != nil {
		return err
	}
	defer closeStore()

	pub, err := openPublisher(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := pub.Close(); err != nil {
			logger.Error("events close error", "error", err)
		}
	}()

	authSvc := &service.AuthService{
		Repo:       st,
		JWTSecret:  cfg.JWTSecret,
		TokenTTL:   cfg.JWTTTL,
		BcryptCost: cfg.BcryptCost,
	}

	e := echo.New()
	e.HideBanner = true
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())
	e.Use(loggingmw.RequestLogger(logger))

	httpserver.Register(e, &httpserver.Deps{
		Store:          st,
		ProductHandler: &handlers.ProductHandler{Svc: &service.CatalogService{Repo: st}, Events: pub},
		AuthHandler:    &handlers.AuthHandler{Svc: authSvc, Events: pub},
		CartHandler:    &handlers.CartHandler{Svc: &service.CartService{Repo: st, Products: st, Users: st}, Events: pub},
		Verifier:       authSvc,
		CORSOrigins:    cfg.CORSOrigins,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("http server listening", "addr", srv.Addr, "store", cfg.Store, "events", cfg.EventsBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}
	logger.Info("shutdown complete")
	return nil
}

func openStore(ctx context.Context, cfg config.Config, migrate bool) (store, func(), error) {
	switch cfg.Store {
	case config.StoreMongo:
		client, r, err := mongorepo.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, nil, err
		}
		return r, func() {
			if err := client.Disconnect(context.Background()); err != nil {
				slog.Error("mongo disconnect error", "error", err)
			}
		}, nil
	default:
		gdb, err := db.Open(ctx, cfg.DBDriver, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		if migrate {
			if err := db.Migrate(gdb); err != nil {
				_ = db.Close(gdb)
				return nil, nil, err
			}
		}
		return repo.New(gdb), func() {
			if err := db.Close(gdb); err != nil {
				slog.Error("db close error", "error", err)
			}
		}, nil
	}
}

func openPublisher(cfg config.Config) (events.Publisher, error) {
	switch cfg.EventsBackend {
	case config.EventsKafka:
		return events.NewKafkaProducer(cfg.KafkaBrokers)
	case config.EventsNATS:
		return events.NewNATSPublisher(cfg.NATSURL, cfg.ServiceName)
	default:
		return events.Nop{}, nil
	}
}
