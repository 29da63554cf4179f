package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Dev-Universe-Castro/sankhya-gateway/internal/service"
)

// AdminHandler serves the token and call-log panels of the dashboard.
type AdminHandler struct {
	Tokens *service.TokenService
	Logs   *service.APILogService
}

// NewAdminHandler creates the handler set.
func NewAdminHandler(tokens *service.TokenService, logs *service.APILogService) *AdminHandler {
	return &AdminHandler{Tokens: tokens, Logs: logs}
}

// TokenInfo returns current token metadata for display. It never triggers
// acquisition; an empty cache is reported as "no token", not an error.
func (h *AdminHandler) TokenInfo(c *gin.Context) {
	record, err := h.Tokens.TokenInfo(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read token info", "token": nil, "active": false})
		return
	}
	if record == nil {
		c.JSON(http.StatusOK, gin.H{
			"token":   nil,
			"active":  false,
			"message": "No token available. One will be acquired on the next ERP request.",
		})
		return
	}

	remaining := int(record.Remaining(time.Now()).Seconds())
	c.JSON(http.StatusOK, gin.H{
		"token":         record.Token,
		"createdAt":     record.IssuedAt,
		"expiresIn":     remaining,
		"remainingTime": remaining,
		"active":        record.Active(time.Now()),
	})
}

// RefreshToken forces acquisition of a fresh token.
func (h *AdminHandler) RefreshToken(c *gin.Context) {
	record, err := h.Tokens.Refresh(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"success": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"createdAt": record.IssuedAt,
		"expiresIn": int(record.TTL.Seconds()),
	})
}

// APILogs returns the ERP call log ring, newest-first.
func (h *AdminHandler) APILogs(c *gin.Context) {
	logs, err := h.Logs.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load api logs"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"logs":            logs,
		"total":           len(logs),
		"maxLogs":         h.Logs.MaxLogs(),
		"persistenceDays": h.Logs.RetentionDays(),
	})
}
