package restapi

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes attaches all API handlers to the engine. The caller owns
// the engine and applies middleware before calling this.
func RegisterRoutes(
	router *gin.Engine,
	sessionHandler *SessionHandler,
	portfolioHandler *PortfolioHandler,
	networkHandler *NetworkHandler,
	documentHandler *DocumentHandler,
) {
	v1 := router.Group("/api/v1")
	{
		v1.POST("/sessions", sessionHandler.ConnectHandler)
		v1.GET("/sessions", sessionHandler.ListHandler)
		v1.DELETE("/sessions", sessionHandler.DisconnectAllHandler)
		v1.DELETE("/sessions/:sessionKey", sessionHandler.DisconnectHandler)
		v1.PUT("/sessions/:sessionKey/select", sessionHandler.SelectHandler)
		v1.GET("/sessions/selected", sessionHandler.SelectedHandler)

		v1.POST("/portfolio/refresh", portfolioHandler.RefreshHandler)
		v1.GET("/portfolio", portfolioHandler.SnapshotHandler)

		v1.GET("/networks", networkHandler.ListNetworksHandler)

		v1.POST("/document", documentHandler.BuildHandler)
		v1.GET("/document/draft", documentHandler.DraftHandler)
		v1.POST("/document/compile", documentHandler.CompileHandler)
	}
}
