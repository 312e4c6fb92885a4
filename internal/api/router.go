package api

import (
	"os"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// SetupRouter creates the gin engine serving physics queries over h.
func SetupRouter(h *Handler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())

	corsConfig := cors.DefaultConfig()
	// Comma-separated; every origin is allowed when unset.
	if origins := os.Getenv("CORS_ALLOWED_ORIGINS"); origins != "" {
		corsConfig.AllowOrigins = strings.Split(origins, ",")
	} else {
		corsConfig.AllowAllOrigins = true
	}
	router.Use(cors.New(corsConfig))

	v1 := router.Group("/v1")
	v1.GET("/height", h.GetHeight)
	v1.GET("/displacement", h.GetDisplacement)
	v1.GET("/cascades", h.GetCascades)
	v1.GET("/settings", h.GetSettings)
	v1.PUT("/settings", h.PutSettings)

	router.GET("/health", h.HealthCheck)

	return router
}
