package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func notificationHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/notifications", func(ctx *gin.Context) {
			items := notifier.Drain()
			ctx.JSON(http.StatusOK, gin.H{"data": items, "count": len(items)})
		})
	return g
}
