package api

import (
	"Bulletin/internal/api/middleware"
	"Bulletin/internal/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
)

func SetupRouter(group *HandlersGroup, mws ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	_ = r.SetTrustedProxies([]string{"localhost"})

	// TraceId & Logger
	r.Use(middleware.TraceMiddleware())
	r.Use(middleware.AuditMiddleware("/auth/login"))
	logger.SetupGin(r)
	// CORS & Session
	r.Use(mws...)

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"Code":    200,
				"Message": "pong",
				"Data":    nil,
			})
		})

		authGroup := apiGroup.Group("/auth")
		{
			authGroup.POST("/login", group.AuthHandler.Login)
			authGroup.POST("/logout", group.AuthHandler.Logout)
			authGroup.GET("/box", group.AuthHandler.Box)
		}

		boardGroup := apiGroup.Group("/board")
		{
			boardGroup.POST("/load", group.BoardHandler.Load)
			boardGroup.POST("/page/:page", group.BoardHandler.ChangePage)
			boardGroup.POST("/posts/:post_id", group.BoardHandler.SelectPost)
			boardGroup.POST("/write", group.BoardHandler.OpenWrite)
			boardGroup.POST("/edit", group.BoardHandler.OpenEdit)
			boardGroup.POST("/submit", group.BoardHandler.Submit)
			boardGroup.POST("/delete", group.BoardHandler.Delete)
			boardGroup.POST("/close/:modal", group.BoardHandler.CloseModal)
		}
	}

	return r
}
