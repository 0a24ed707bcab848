// Package server exposes the extraction pipeline over HTTP.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"instafetch/internal/instagram"
	"instafetch/internal/telemetry"
	"instafetch/internal/version"
)

// extractTimeout bounds one request's whole strategy chain, browser fallback
// included.
const extractTimeout = 90 * time.Second

// ExtractRequest is the request body for POST /api/extract.
type ExtractRequest struct {
	URL  string `json:"url" binding:"required"`
	Tool string `json:"tool,omitempty"`
}

// errorBody is the response shape for every non-2xx answer.
type errorBody struct {
	Message string `json:"message"`
}

// Extractor runs the strategy chain for one classified request.
type Extractor interface {
	Run(ctx context.Context, req *instagram.Request) instagram.Outcome
}

// Server is the HTTP front end for the extraction pipeline.
type Server struct {
	port      int
	apiKey    string
	extractor Extractor
	recorder  telemetry.Recorder
	log       *logrus.Entry
	server    *http.Server
	engine    *gin.Engine
}

// NewServer creates an HTTP server around an extraction pipeline.
func NewServer(port int, apiKey string, extractor Extractor, recorder telemetry.Recorder, logger *logrus.Logger) *Server {
	if recorder == nil {
		recorder = telemetry.Nop{}
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Server{
		port:      port,
		apiKey:    apiKey,
		extractor: extractor,
		recorder:  recorder,
		log:       logger.WithField("component", "server"),
	}
}

// Start runs the server until Stop is called or ListenAndServe fails.
func (s *Server) Start() error {
	s.setupEngine()

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.port),
		Handler:      s.engine,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 2 * extractTimeout,
		IdleTimeout:  120 * time.Second,
	}

	s.log.WithField("port", s.port).Info("starting server")
	if s.apiKey != "" {
		s.log.Info("API key authentication enabled")
	}

	return s.server.ListenAndServe()
}

func (s *Server) setupEngine() {
	gin.SetMode(gin.ReleaseMode)

	s.engine = gin.New()
	s.engine.Use(gin.CustomRecovery(func(c *gin.Context, _ any) {
		c.AbortWithStatusJSON(http.StatusInternalServerError, errorBody{
			Message: instagram.RetryLaterMessage,
		})
	}))
	s.engine.Use(s.requestIDMiddleware())
	s.engine.Use(s.loggingMiddleware())
	if s.apiKey != "" {
		s.engine.Use(s.authMiddleware())
	}

	s.registerRoutes()
}

// Stop gracefully shuts down the server and flushes telemetry.
func (s *Server) Stop(ctx context.Context) error {
	defer s.recorder.Close()
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *Server) registerRoutes() {
	api := s.engine.Group("/api")
	api.GET("/health", s.handleHealth)
	api.POST("/extract", s.handleExtract)
}

// Middleware

func (s *Server) requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.WithFields(logrus.Fields{
			"request_id": c.GetString("request_id"),
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"latency":    time.Since(start).String(),
		}).Info("request")
	}
}

func (s *Server) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == "/api/health" {
			c.Next()
			return
		}
		if c.GetHeader("X-API-Key") != s.apiKey {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorBody{
				Message: "invalid or missing API key",
			})
			return
		}
		c.Next()
	}
}

// Handlers

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"version": version.Version,
	})
}

func (s *Server) handleExtract(c *gin.Context) {
	var body ExtractRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, errorBody{Message: "url is required"})
		return
	}

	req, err := instagram.ParseRequest(body.URL, body.Tool)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorBody{Message: err.Error()})
		return
	}

	rec := telemetry.NewRecord(body.URL, body.Tool)
	start := time.Now()

	ctx, cancel := context.WithTimeout(c.Request.Context(), extractTimeout)
	defer cancel()
	out := s.extractor.Run(ctx, req)

	rec.DurationMS = time.Since(start).Milliseconds()
	rec.Strategy = out.Strategy
	rec.Items = len(out.Items)
	rec.OK = !out.Empty()
	s.recorder.Record(rec)

	if out.Empty() {
		c.JSON(http.StatusUnprocessableEntity, errorBody{
			Message: instagram.MessageFor(body.Tool),
		})
		return
	}

	c.JSON(http.StatusOK, instagram.Assemble(out.Items, time.Now()))
}
