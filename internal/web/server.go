package web

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/fastspringexamples/accountbridge/internal/core"
)

// Maximum accepted webhook body. FastSpring batches events, but a batch past
// this size is not a legitimate delivery.
const maxWebhookBody = 1 << 20 // 1MB

// Service is the account lifecycle surface the handlers depend on.
// Implementations: core.AccountService
type Service interface {
	ProcessEvents(ctx context.Context, events []core.Event) error
	CheckOrder(ctx context.Context, orderID string) (string, error)
	SetPassword(ctx context.Context, accountID, password string) (string, error)
	GetAccount(ctx context.Context, accountID string) (*core.Account, error)
	Reset(ctx context.Context) error
}

// Server is the accountbridge web server
type Server struct {
	service   Service
	router    *gin.Engine
	staticDir string
}

// NewServer creates a new web server. staticDir, when non-empty, is served
// for unmatched GET paths before falling back to the storefront redirect.
func NewServer(service Service, staticDir string) *Server {
	router := gin.Default()

	s := &Server{
		service:   service,
		router:    router,
		staticDir: staticDir,
	}

	router.Use(requestID())

	router.POST("/processor", s.handleProcessor)
	router.GET("/checkorder/:orderId", s.handleCheckOrder)
	router.POST("/setPassword", s.handleSetPassword)
	router.POST("/getAccount", s.handleGetAccount)
	router.GET("/clearDB", s.handleClearDB)

	router.NoRoute(s.handleFallback)

	return s
}

// Run starts the web server
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

// handleFallback serves static storefront files when configured and sends
// every other unmatched GET to the storefront page.
func (s *Server) handleFallback(c *gin.Context) {
	if c.Request.Method != http.MethodGet {
		c.Status(http.StatusNotFound)
		return
	}

	if s.staticDir != "" {
		rel := strings.TrimPrefix(filepath.Clean("/"+c.Request.URL.Path), "/")
		path := filepath.Join(s.staticDir, rel)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			c.File(path)
			return
		}
	}

	c.Redirect(http.StatusFound, "/store.html")
}

// requestID tags each request with an ID for log correlation, honoring one
// supplied by a fronting proxy.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-Id")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header("X-Request-Id", id)
		c.Next()
	}
}
