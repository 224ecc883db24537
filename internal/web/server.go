// Package web provides the static file server: a Gin-based HTTP server
// that serves files from a configured root directory with
// extension-derived content types, an optional directory listing page,
// a host allowlist, and health/stats endpoints.
package web

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-contrib/static"
	"github.com/gin-gonic/gin"

	"github.com/hazadus/network-learn/internal/config"
)

// Server is the static file HTTP server.
type Server struct {
	cfg        *config.Config
	logger     *slog.Logger
	engine     *gin.Engine
	httpServer *http.Server
}

// New builds a Server from cfg. The static root is served at /, with
// /healthz and /stats reserved for the server itself.
func New(cfg *config.Config, logger *slog.Logger) *Server {
	if cfg == nil {
		panic("web.New: cfg is nil")
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(slogRequestLogger(logger))
	engine.Use(serverHeader())
	if len(cfg.FileServer.AllowedHosts) > 0 {
		engine.Use(hostAllowlist(cfg.FileServer.AllowedHosts))
	}

	engine.GET("/healthz", handleHealth)
	engine.GET("/stats", handleStats(time.Now()))

	engine.Use(contentTypeByExtension())
	engine.Use(static.Serve("/", static.LocalFile(cfg.FileServer.StaticRoot, false)))
	engine.NoRoute(handleUnmatched(cfg.FileServer.StaticRoot, cfg.FileServer.EnableListings))

	addr := net.JoinHostPort(cfg.FileServer.Host, strconv.Itoa(cfg.FileServer.Port))
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           engine,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return &Server{cfg: cfg, logger: logger, engine: engine, httpServer: httpServer}
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Engine exposes the underlying Gin engine, mainly for tests.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// ListenAndServe blocks serving requests until Shutdown is called.
func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func slogRequestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		if logger != nil {
			logger.Info("http request",
				"method", method,
				"path", path,
				"status", c.Writer.Status(),
				"latency_ms", time.Since(start).Milliseconds(),
				"client_ip", c.ClientIP(),
			)
		}
	}
}

func serverHeader() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Server", "network-learn")
		c.Next()
	}
}

// hostAllowlist rejects requests whose Host header names a host the
// server was not configured to answer for.
func hostAllowlist(allowed []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		host := c.Request.Host
		bare := host
		if h, _, err := net.SplitHostPort(host); err == nil {
			bare = h
		}
		for _, a := range allowed {
			if strings.EqualFold(a, host) || strings.EqualFold(a, bare) {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "host not allowed"})
	}
}

func handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
