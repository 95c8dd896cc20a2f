package service

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

	"blogapi/app/auth"
	"blogapi/app/config"
	"blogapi/app/mailer"
	"blogapi/app/repositories"
	"blogapi/app/routes"
	"blogapi/app/services"
	"blogapi/app/telemetry"
)

// RunAppServer runs the HTTP API until SIGINT or SIGTERM.
func RunAppServer(cfg *config.Config) int {
	logger, err := newLogger(cfg.Log, os.Stderr)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := serve(ctx, cfg, logger); err != nil {
		logger.Error("server stopped", "error", err)
		return 1
	}
	return 0
}

func serve(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	if cfg.Auth.Secret == config.DevSecret {
		logger.Warn("auth.secret is the development default; set BLOGAPI_AUTH_SECRET")
	}

	shutdownTracing, err := telemetry.InitTracing(ctx, telemetry.Options{
		ServiceName: cfg.Telemetry.ServiceName,
		Version:     Version,
		Endpoint:    cfg.Telemetry.Endpoint,
		Insecure:    cfg.Telemetry.Insecure,
		SampleRatio: cfg.Telemetry.SampleRatio,
	})
	if err != nil {
		return err
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(ctx); err != nil {
			logger.Warn("failed to flush traces", "error", err)
		}
	}()

	store, err := repositories.NewStore(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer store.Close()

	handler, err := newHandler(cfg, store, logger)
	if err != nil {
		return err
	}

	ln, err := net.Listen("tcp", cfg.Server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", cfg.Server.Addr, err)
	}
	srv := &http.Server{
		Handler:           handler,
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelWarn),
	}
	logger.Info("starting blog API", "addr", ln.Addr().String(), "database", cfg.Database.Path, "version", Version)
	return runHTTPServer(ctx, srv, ln, cfg.Server.ShutdownTimeout, logger)
}

// newHandler assembles the routed, traced handler for store.
func newHandler(cfg *config.Config, store *repositories.Store, logger *slog.Logger) (http.Handler, error) {
	tokens, err := auth.NewTokenManager(cfg.Auth.Secret, cfg.Auth.TokenTTL)
	if err != nil {
		return nil, err
	}

	var m mailer.Mailer = mailer.NewLogMailer(logger)
	if cfg.Mail.Host != "" {
		m = mailer.NewSMTPMailer(mailer.SMTPConfig{
			Host:        cfg.Mail.Host,
			Port:        cfg.Mail.Port,
			Username:    cfg.Mail.Username,
			Password:    cfg.Mail.Password,
			Sender:      cfg.Mail.Sender,
			DialTimeout: cfg.Mail.DialTimeout,
		})
	} else {
		logger.Info("mail.host is not set; feedback messages will be logged only")
	}

	router := routes.SetupRoutes(routes.Dependencies{
		Repos:  store.Repositories(),
		Store:  store,
		Mailer: m,
		Tokens: tokens,
		Logger: logger,
		Posts: services.PostOptions{
			PageSize:    cfg.Posts.PageSize,
			MaxPageSize: cfg.Posts.MaxPageSize,
			AsideSize:   cfg.Posts.AsideSize,
		},
		PublicPostWrites:  cfg.Posts.PublicWrites,
		FeedbackRecipient: cfg.Mail.Recipient,
		BcryptCost:        cfg.Auth.BcryptCost,
	})
	return routes.NewHandler(router), nil
}

// runHTTPServer serves on ln until ctx is cancelled, then drains in-flight
// requests for at most timeout.
func runHTTPServer(ctx context.Context, srv *http.Server, ln net.Listener, timeout time.Duration, logger *slog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}
