package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Dev-Universe-Castro/sankhya-gateway/internal/adapter/sankhya"
)

// SankhyaHandler serves the ERP proxy routes the dashboard calls.
type SankhyaHandler struct {
	Client *sankhya.Client
	Logger *zap.Logger
}

// NewSankhyaHandler creates the proxy handler set.
func NewSankhyaHandler(client *sankhya.Client, logger *zap.Logger) *SankhyaHandler {
	if logger == nil {
		logger = zap.L()
	}
	return &SankhyaHandler{Client: client, Logger: logger}
}

// ProductPrice proxies the price lookup for one product code. Upstream
// failures degrade to price zero so the dashboard keeps rendering; the
// failure itself is visible in the call log.
func (h *SankhyaHandler) ProductPrice(c *gin.Context) {
	codProd := strings.TrimSpace(c.Query("codProd"))
	if codProd == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "codProd is required"})
		return
	}

	price, err := h.Client.ProductPrice(c.Request.Context(), codProd)
	if err != nil {
		h.Logger.Warn("product price lookup failed", zap.String("cod_prod", codProd), zap.Error(err))
		c.JSON(http.StatusOK, gin.H{"preco": 0.0})
		return
	}
	c.JSON(http.StatusOK, gin.H{"preco": price})
}
