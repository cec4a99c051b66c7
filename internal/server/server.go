// Package server exposes the provider clients over HTTP. It is a thin
// caller of the aggregation layer: it selects a provider, applies the
// outbound courtesy limit, and maps taxonomy errors onto HTTP statuses.
package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/zanabooks/zana/internal/books"
	"github.com/zanabooks/zana/internal/ratelimit"
)

// Server serves book lookups over HTTP.
type Server struct {
	engine   *gin.Engine
	clients  map[string]books.Client
	limiters map[string]*ratelimit.Limiter
}

// New creates a server over the given provider clients, keyed by the
// provider name callers pass in the provider query parameter. Each
// provider gets its own outbound limiter at providerRate requests per
// second.
func New(clients map[string]books.Client, providerRate int) *Server {
	s := &Server{
		clients:  clients,
		limiters: make(map[string]*ratelimit.Limiter, len(clients)),
	}

	for name := range clients {
		s.limiters[name] = ratelimit.New(name, providerRate)
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery(), requestID(), accessLog())
	engine.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet},
		AllowHeaders: []string{"Content-Type"},
		MaxAge:       12 * time.Hour,
	}))

	engine.GET("/health", handleHealth)
	api := engine.Group("/api")
	api.GET("/books", s.handleGetBook)

	s.engine = engine
	return s
}

// Handler returns the underlying HTTP handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run starts the server on addr and blocks until it fails.
func (s *Server) Run(addr string) error {
	slog.Info("Server listening", "addr", addr)
	return s.engine.Run(addr)
}

func handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// handleGetBook answers GET /api/books. An ISBN lookup that finds
// nothing falls back to author/title when both were supplied, mirroring
// the backup lookup the providers document.
func (s *Server) handleGetBook(c *gin.Context) {
	isbn := c.Query("isbn")
	author := c.Query("author")
	title := c.Query("title")
	provider := c.DefaultQuery("provider", "googlebooks")

	client, ok := s.clients[provider]
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown provider: " + provider})
		return
	}

	if isbn == "" && (author == "" || title == "") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "either isbn or author and title are required"})
		return
	}

	ctx := c.Request.Context()
	if err := s.limiters[provider].Wait(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "request cancelled while waiting for provider slot"})
		return
	}

	var book *books.Book
	var err error
	switch {
	case isbn != "":
		book, err = client.BookByISBN(ctx, isbn)
		if books.IsNotFound(err) && author != "" && title != "" {
			book, err = client.BookByAuthorTitle(ctx, author, title)
		}
	default:
		book, err = client.BookByAuthorTitle(ctx, author, title)
	}

	if err != nil {
		status, message := statusForError(err)
		slog.Warn("Lookup failed", "provider", provider, "status", status, "error", err)
		c.JSON(status, gin.H{"error": message})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": book})
}

// statusForError maps the taxonomy onto HTTP statuses. Upstream
// failures of any other shape are the gateway's fault from the caller's
// point of view, hence 502.
func statusForError(err error) (int, string) {
	switch {
	case books.IsNotFound(err):
		return http.StatusNotFound, "book not found"
	case books.IsRateLimited(err):
		return http.StatusTooManyRequests, "provider rate limit exceeded, retry later"
	default:
		return http.StatusBadGateway, "provider lookup failed: " + err.Error()
	}
}
