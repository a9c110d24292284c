package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"staffing/internal/config"
	"staffing/internal/httpapi"
	"staffing/internal/logger"
)

const shutdownTimeout = 30 * time.Second

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(opts.configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			application, err := newApp(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			logStartupWarnings(cfg, application.log)
			handler := newServerHandler(application)
			return runServer(cfg.HTTP.Addr, handler, func(server *http.Server, listener net.Listener) error {
				return server.Serve(listener)
			}, application.log.Infof)
		},
	}
}

// serverHandler ties the router to the application so shutdown can release
// the store after in-flight requests drain.
type serverHandler struct {
	http.Handler
	app *app
}

func newServerHandler(application *app) *serverHandler {
	if application.cfg.Mode.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := httpapi.NewRouter(application.svc, httpapi.RouterConfig{
		CORSAllowedOrigins: application.cfg.HTTP.CORSAllowedOrigins,
		Logger:             application.log.With("http"),
		MetricsHandler:     promhttp.HandlerFor(application.registry, promhttp.HandlerOpts{}),
	})
	return &serverHandler{Handler: router, app: application}
}

func (h *serverHandler) Close() error {
	return h.app.Close()
}

func logStartupWarnings(cfg *config.Config, log logger.Logger) {
	if log == nil || !cfg.Mode.IsDevelopment() {
		return
	}

	log.Warnf("service is running in development mode")
	log.Warnf("development mode enables permissive CORS defaults")
	log.Warnf("do not expose development mode to untrusted networks")
}

func run(addr string, handler http.Handler, start func(*http.Server, net.Listener) error, logf func(string, ...any)) error {
	if start == nil {
		return fmt.Errorf("start function is required")
	}

	server := &http.Server{
		Addr:    addr,
		Handler: handler,
		// Limits time to read request headers and reduces slowloris risk.
		ReadHeaderTimeout: 10 * time.Second,
		// Snapshot imports can be large.
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		_ = closeResources(handler)
		return err
	}
	defer func() {
		_ = listener.Close()
	}()

	if logf != nil {
		logf("staffing api listening on %s", listener.Addr())
	}

	served := make(chan error, 1)
	go func() {
		if startErr := start(server, listener); startErr != nil && !errors.Is(startErr, http.ErrServerClosed) {
			served <- startErr
			return
		}
		served <- nil
	}()

	quit := make(chan os.Signal, 1)
	signalNotify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signalStop(quit)

	select {
	case serveErr := <-served:
		cleanupErr := closeResources(handler)
		if cleanupErr != nil && logf != nil {
			logf("resource cleanup failed: %v", cleanupErr)
		}
		return errors.Join(serveErr, cleanupErr)
	case shutdownSignal := <-quit:
		if logf != nil {
			logf("shutdown signal received (%s), draining in-flight requests", shutdownSignal)
		}
	}

	return shutdown(server, handler, served, logf)
}

// shutdown drains the server, releases the handler's resources and waits for
// the serve goroutine. Every failure along the way is returned.
func shutdown(server *http.Server, handler http.Handler, served <-chan error, logf func(string, ...any)) error {
	if logf == nil {
		logf = func(string, ...any) {}
	}

	ctx, cancel := newShutdownContext(context.Background(), shutdownTimeout)
	defer cancel()

	shutdownErr := server.Shutdown(ctx)
	if shutdownErr != nil {
		logf("server forced to shutdown: %v", shutdownErr)
	} else {
		logf("server exited gracefully")
	}

	cleanupErr := closeResources(handler)
	if cleanupErr != nil {
		logf("resource cleanup failed: %v", cleanupErr)
	} else {
		logf("resource cleanup completed")
	}

	var serveErr error
	select {
	case serveErr = <-served:
	case <-ctx.Done():
		logf("timed out waiting for server goroutine to exit: %v", ctx.Err())
	}

	return errors.Join(shutdownErr, cleanupErr, serveErr)
}

type closer interface {
	Close() error
}

func closeResources(handler http.Handler) error {
	if handler == nil {
		return nil
	}

	resourceCloser, ok := handler.(closer)
	if !ok {
		return nil
	}

	return resourceCloser.Close()
}
