package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/Dev-Universe-Castro/sankhya-gateway/internal/config"
	"github.com/Dev-Universe-Castro/sankhya-gateway/internal/http/handler"
	httpmiddleware "github.com/Dev-Universe-Castro/sankhya-gateway/internal/http/middleware"
	"github.com/Dev-Universe-Castro/sankhya-gateway/internal/middleware"
)

// NewRouter wires Gin routes and middleware.
func NewRouter(cfg config.Config, admin *handler.AdminHandler, erp *handler.SankhyaHandler, rateLimiter *middleware.RateLimiter) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(httpmiddleware.RequestLogger(nil))
	if rateLimiter != nil {
		r.Use(rateLimiter.Handler())
	}
	r.Use(middleware.CORS(cfg))
	r.Use(otelgin.Middleware(cfg.ServiceName))

	api := r.Group("/api")
	{
		adminGroup := api.Group("/admin")
		{
			adminGroup.GET("/token-info", admin.TokenInfo)
			adminGroup.POST("/refresh-token", admin.RefreshToken)
			adminGroup.GET("/api-logs", admin.APILogs)
		}

		sankhyaGroup := api.Group("/sankhya")
		{
			sankhyaGroup.GET("/produtos/preco", erp.ProductPrice)
		}
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	return r
}
