package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/leopalladium/thoughtboard/api"
	"github.com/leopalladium/thoughtboard/config"
	"github.com/leopalladium/thoughtboard/logging"
	"github.com/leopalladium/thoughtboard/postgres"
	"github.com/leopalladium/thoughtboard/redis"
	goredis "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newCmd() *cobra.Command {
	var flags struct {
		addr  string
		store string
	}
	cmd := &cobra.Command{
		Use:          "thoughts-api",
		Short:        "Serve the thoughts REST API",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			var cfg config.API
			if err := config.Load(&cfg); err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Addr = flags.addr
			}
			if cmd.Flags().Changed("store") {
				cfg.Store = flags.store
			}
			return run(cmd.Context(), cfg)
		},
	}
	cmd.Flags().StringVar(&flags.addr, "addr", "localhost:8000", "HTTP network address (env API_ADDR)")
	cmd.Flags().StringVar(&flags.store, "store", config.StorePostgres, "Storage backend: postgres or redis (env STORE)")
	return cmd
}

func run(ctx context.Context, cfg config.API) error {
	logger := logging.New(os.Stderr, cfg.Log.Level, cfg.Log.Format)
	if err := cfg.Validate(); err != nil {
		return err
	}

	db, closeDB, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeDB()

	lis, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}

	a := &api.API{
		Logger: logger,
		DB:     db,
	}

	srv := &http.Server{
		Handler:           api.WithCORS(a, cfg.AllowedOrigins),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Could not shut down server", "error", err.Error())
		}
	}()

	logger.Info("Ready to accept traffic", "address", cfg.Addr, "store", cfg.Store)
	if err := srv.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve: %w", err)
	}
	logger.Info("Server stopped")
	return nil
}

func openStore(ctx context.Context, cfg config.API, logger *slog.Logger) (api.DB, func(), error) {
	switch cfg.Store {
	case config.StoreRedis:
		r, err := redis.Connect(ctx, &goredis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("connect to redis: %w", err)
		}
		logger.Info("Connected to Redis", "address", cfg.Redis.Addr)
		return r, func() { r.Close() }, nil
	default:
		var opts []postgres.Option
		if cfg.DB.EchoSQL {
			opts = append(opts, postgres.WithQueryLog())
		}
		pg, err := postgres.Connect(ctx, cfg.DB.DSN(), opts...)
		if err != nil {
			return nil, nil, fmt.Errorf("connect to postgres %s: %w", cfg.DB, err)
		}
		if err := pg.CreateSchema(ctx); err != nil {
			pg.Close()
			return nil, nil, err
		}
		logger.Info("Connected to PostgreSQL", "dsn", cfg.DB.String(), "echo_sql", cfg.DB.EchoSQL)
		return pg, func() { pg.Close() }, nil
	}
}
