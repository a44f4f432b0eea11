package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"webchat/config"
	"webchat/controllers"
	"webchat/metrics"
	"webchat/services"
	"webchat/utils"
)

// Server ties the router and controller together.
type Server struct {
	router     *mux.Router
	controller *controllers.Controller
	addr       string
	logger     *zap.Logger
}

// NewServer creates a new server instance.
func NewServer(addr string, controller *controllers.Controller, logger *zap.Logger) *Server {
	return &Server{
		router:     mux.NewRouter(),
		controller: controller,
		addr:       addr,
		logger:     logger,
	}
}

// setupRoutes configures all endpoints.
func (s *Server) setupRoutes() {
	s.router.HandleFunc("/", s.controller.IndexHandler).Methods("GET")
	s.router.HandleFunc("/api/chat", s.controller.ChatHandler).Methods("POST")
	s.router.HandleFunc("/health", s.controller.HealthHandler).Methods("GET")
	s.router.Handle("/metrics", metrics.Handler()).Methods("GET")
}

// Start configures and starts the HTTP server.
func (s *Server) Start() error {
	s.setupRoutes()

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	})
	handler := c.Handler(s.router)

	s.logger.Info("server starting", zap.String("addr", s.addr))
	return http.ListenAndServe(s.addr, handler)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("failed to load configuration: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger := utils.NewLogger(cfg.Logging.Level, cfg.Logging.Format)
	defer logger.Sync()

	ctx := context.Background()

	gemini := services.NewGeminiService(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model, logger)
	search := services.NewSearchService(cfg.Search.BaseURL, logger)
	generator := services.NewGenerator(gemini, search, cfg.Search.MaxResults, logger)
	discord := services.NewDiscordService(generator, cfg.Discord.Token, cfg.Discord.CommandPrefix, logger)

	controller := controllers.NewController(generator, gemini, discord, logger)
	if err := controller.StartServices(); err != nil {
		logger.Error("background services failed to start", zap.Error(err))
	}

	// Stop the Discord connection cleanly on SIGINT/SIGTERM.
	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
		logger.Info("shutting down")
		if err := controller.StopServices(); err != nil {
			logger.Error("error stopping background services", zap.Error(err))
		}
		os.Exit(0)
	}()

	server := NewServer(cfg.Server.Addr(), controller, logger)
	if err := server.Start(); err != nil {
		logger.Fatal("server failed to start", zap.Error(err))
	}
}
