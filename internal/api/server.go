// Package api implements the HTTP inspector: decode frames, browse the
// message catalog, and record or replay captures.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/energizer-project/lupackets/internal/catalog"
	"github.com/energizer-project/lupackets/internal/config"
	"github.com/energizer-project/lupackets/internal/db"
	"github.com/energizer-project/lupackets/internal/packets"
)

// Server is the inspector HTTP server.
type Server struct {
	cfg      *config.Config
	store    *db.CaptureStore
	recorder *packets.Recorder
	entries  []catalog.Entry
	logger   zerolog.Logger

	httpServer *http.Server
	router     *gin.Engine
}

// NewServer creates the inspector server around a capture store and the
// recorder that feeds it.
func NewServer(cfg *config.Config, store *db.CaptureStore, recorder *packets.Recorder) *Server {
	if cfg.GetAPI().Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		cfg:      cfg,
		store:    store,
		recorder: recorder,
		entries:  packets.Catalog(),
		logger:   log.With().Str("component", "api").Logger(),
	}

	s.router = s.buildRouter()
	return s
}

// Handler returns the router, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.cfg.GetAPI().Port)
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	s.logger.Info().Str("addr", addr).Msg("inspector API starting")

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.httpServer.Shutdown(shutdownCtx)
	}()

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("API server error: %w", err)
	}
	return nil
}

// buildRouter creates the Gin router with all routes and middleware.
func (s *Server) buildRouter() *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(RequestLogger(s.logger))
	router.Use(SecurityHeaders())

	allowedOrigins := s.cfg.GetAPI().AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:  allowedOrigins,
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}))

	// hex doubles the frame, plus room for the JSON envelope
	router.Use(BodyLimit(int64(s.cfg.GetCapture().MaxFrameBytes)*3 + 1024))

	api := router.Group("/api")
	{
		api.GET("/ping", s.handlePing)
		api.GET("/status", s.handleStatus)
		api.GET("/catalog", s.handleCatalog)
		api.GET("/catalog/:layer/:direction/:name", s.handleCatalogEntry)
		api.POST("/decode", s.handleDecode)
	}

	captures := api.Group("/captures")
	{
		captures.GET("", s.handleListCaptures)
		captures.POST("", s.handleAddCapture)
		captures.GET("/:id", s.handleGetCapture)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "endpoint not found"})
	})

	return router
}
