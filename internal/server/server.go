package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"

	"github.com/sozercan/echarts-ai/apimodels"
	"github.com/sozercan/echarts-ai/internal/config"
	"github.com/sozercan/echarts-ai/internal/jsonvalue"
)

// ChartAnalyzer is the LLM-backed part of the API.
type ChartAnalyzer interface {
	GenerateChartConfig(ctx context.Context, req apimodels.ChartRequest) (jsonvalue.Value, error)
	AnalyzeData(ctx context.Context, req apimodels.DataAnalysisRequest) (jsonvalue.Value, error)
}

type Server struct {
	cfg      config.ServerConfig
	router   *chi.Mux
	server   *http.Server
	analyzer ChartAnalyzer
	validate *validator.Validate
}

func New(cfg config.Config, analyzer ChartAnalyzer) *Server {
	s := &Server{
		cfg:      cfg.Server,
		router:   chi.NewRouter(),
		analyzer: analyzer,
		validate: newValidator(),
	}
	s.setupRoutes(cfg.CORS)

	s.server = &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      s.router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	return s
}

func (s *Server) setupRoutes(corsCfg config.CORSConfig) {
	s.router.Use(requestID)
	s.router.Use(loggingMiddleware)
	s.router.Use(middleware.Recoverer)
	s.router.Use(cors.Handler(corsOptions(corsCfg)))
	if s.cfg.RequestTimeout > 0 {
		s.router.Use(middleware.Timeout(s.cfg.RequestTimeout))
	}

	s.router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, apimodels.ErrorResponse{Detail: "Not Found"})
	})
	s.router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, apimodels.ErrorResponse{Detail: "Method Not Allowed"})
	})

	s.router.Get("/", s.handleHealth)
	s.router.Post("/generate-chart-config", s.handleGenerateChartConfig)
	s.router.Post("/analyze-data", s.handleAnalyzeData)
	s.router.Post("/upload-file", s.handleUploadFile)
	s.router.Get("/chart-templates", s.handleChartTemplates)
}

// corsOptions allows credentials for every configured origin. A "*" entry
// becomes a match-all func so the request origin is echoed; browsers reject
// a literal "*" alongside credentials.
func corsOptions(cfg config.CORSConfig) cors.Options {
	opts := cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS", "HEAD"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
		MaxAge:           600,
	}
	if slices.Contains(cfg.AllowedOrigins, "*") {
		opts.AllowedOrigins = nil
		opts.AllowOriginFunc = func(*http.Request, string) bool { return true }
	}
	return opts
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Run() error {
	// Create a channel to listen for errors coming from the listener
	serverErrors := make(chan error, 1)

	go func() {
		slog.Info("Starting server", "address", s.server.Addr)
		serverErrors <- s.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		slog.Info("Starting shutdown", "signal", sig)

		// Give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := s.server.Shutdown(ctx); err != nil {
			return fmt.Errorf("shutdown error: %w", err)
		}
	}

	return nil
}
