package web

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fastspringexamples/accountbridge/internal/core"
)

type setPasswordRequest struct {
	AccountID string `json:"accountId"`
	Password  string `json:"password"`
}

type getAccountRequest struct {
	AccountID string `json:"accountId"`
}

// handleProcessor ingests a provider webhook batch. It acknowledges with 200
// no matter what happened internally: the sender retries on non-success, and
// a retry storm of duplicate deliveries is worse than a dropped batch that
// only we know about. Failures go to the server log.
func (s *Server) handleProcessor(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxWebhookBody)

	var payload core.WebhookPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		log.Printf("Warning: [%s] invalid webhook payload: %v", requestIDFrom(c), err)
		c.Status(http.StatusOK)
		return
	}

	if err := s.service.ProcessEvents(c.Request.Context(), payload.Events); err != nil {
		log.Printf("Warning: [%s] webhook processing failed: %v", requestIDFrom(c), err)
	}
	c.Status(http.StatusOK)
}

// handleCheckOrder resolves an order against the provider API and tells the
// buyer where to go next.
func (s *Server) handleCheckOrder(c *gin.Context) {
	orderID := c.Param("orderId")

	redirect, err := s.service.CheckOrder(c.Request.Context(), orderID)
	if err != nil {
		s.renderError(c, "checking order", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"redirect": redirect,
	})
}

func (s *Server) handleSetPassword(c *gin.Context) {
	var req setPasswordRequest
	// Malformed or missing bodies fall through to service validation.
	_ = c.ShouldBindJSON(&req)

	redirect, err := s.service.SetPassword(c.Request.Context(), req.AccountID, req.Password)
	if err != nil {
		s.renderError(c, "setting password", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"redirect": redirect,
	})
}

func (s *Server) handleGetAccount(c *gin.Context) {
	var req getAccountRequest
	_ = c.ShouldBindJSON(&req)

	account, err := s.service.GetAccount(c.Request.Context(), req.AccountID)
	if err != nil {
		s.renderError(c, "getting account", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"account": account,
	})
}

// handleClearDB wipes the store. Test/staging helper; always acknowledges.
func (s *Server) handleClearDB(c *gin.Context) {
	if err := s.service.Reset(c.Request.Context()); err != nil {
		log.Printf("Warning: [%s] clearing store failed: %v", requestIDFrom(c), err)
	}
	c.Status(http.StatusOK)
}

// renderError maps domain errors to the structured failure shape. Failures
// never surface as bare protocol-level statuses; the storefront JS expects a
// JSON body with a success flag.
func (s *Server) renderError(c *gin.Context, op string, err error) {
	var routed *core.RoutedError
	if errors.As(err, &routed) {
		c.JSON(http.StatusOK, gin.H{
			"success":  false,
			"error":    routed.Message,
			"redirect": routed.Redirect,
		})
		return
	}

	if !errors.Is(err, core.ErrAccountNotFound) {
		log.Printf("An error has occurred while %s: [%s] %v", op, requestIDFrom(c), err)
	}

	c.JSON(http.StatusOK, gin.H{
		"success": false,
		"error":   err.Error(),
	})
}

func requestIDFrom(c *gin.Context) string {
	return c.GetString("request_id")
}
