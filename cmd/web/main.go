package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/leopalladium/thoughtboard/client"
	"github.com/leopalladium/thoughtboard/config"
	"github.com/leopalladium/thoughtboard/logging"
	"github.com/leopalladium/thoughtboard/web"
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
		addr   string
		apiURL string
	}
	cmd := &cobra.Command{
		Use:          "thoughts-web",
		Short:        "Serve the thought board front end",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			var cfg config.Web
			if err := config.Load(&cfg); err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Addr = flags.addr
			}
			if cmd.Flags().Changed("api-url") {
				cfg.Client.APIURL = flags.apiURL
			}
			return run(cmd.Context(), cfg)
		},
	}
	cmd.Flags().StringVar(&flags.addr, "addr", "localhost:8080", "HTTP network address (env WEB_ADDR)")
	cmd.Flags().StringVar(&flags.apiURL, "api-url", client.DefaultBaseURL, "Base URL of the thoughts API (env THOUGHTBOARD_API_URL)")
	return cmd
}

func run(ctx context.Context, cfg config.Web) error {
	logger := logging.New(os.Stderr, cfg.Log.Level, cfg.Log.Format)
	if err := cfg.Client.Validate(); err != nil {
		return err
	}

	lis, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}

	w := &web.Web{
		Logger:   logger,
		Thoughts: client.New(cfg.Client.APIURL, logger),
	}

	srv := &http.Server{
		Handler:           w,
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

	logger.Info("Ready to accept traffic", "address", cfg.Addr, "api_url", cfg.Client.APIURL)
	if err := srv.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve: %w", err)
	}
	logger.Info("Server stopped")
	return nil
}
