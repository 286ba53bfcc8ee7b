package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/spf13/cobra"

	"urc/controllers"
)

// Server serves the local JSON API in front of the web app
type Server struct {
	router *mux.Router
	port   string
	logger *slog.Logger
}

// NewServer creates a new server instance with the controller's routes
func NewServer(port string, controller *controllers.Controller, logger *slog.Logger) *Server {
	router := mux.NewRouter()
	controller.RegisterRoutes(router)

	if !strings.Contains(port, ":") {
		port = ":" + port
	}

	return &Server{
		router: router,
		port:   port,
		logger: logger,
	}
}

// Handler returns the router wrapped with CORS handling
func (s *Server) Handler() http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{controllers.ResolutionSourceHeader},
	})
	return c.Handler(s.router)
}

// Start serves until ctx is done, then shuts down gracefully
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.port,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "addr", s.port)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info("server shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func serveCmd(a *app) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the local JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("port") {
				a.cfg.Port = port
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			controller := controllers.NewController(a.gateway, a.notifier, a.logger)
			return NewServer(a.cfg.Port, controller, a.logger).Start(ctx)
		},
	}

	cmd.Flags().StringVar(&port, "port", ":8080", "listen address")
	return cmd
}
