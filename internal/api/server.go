package api

import (
	"github.com/gin-gonic/gin"
)

// NewServer builds the gin engine with all routes configured.
func NewServer(handler *Handler) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())

	trend := r.Group("/trend")
	{
		trend.POST("/collect-trending", handler.CollectTrending)
		trend.GET("/trending/contents", handler.GetTrendingContents)
		trend.GET("/platform-keywords", handler.GetPlatformKeywords)
	}

	r.GET("/health", handler.GetHealth)

	return r
}
