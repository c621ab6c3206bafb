package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func (app *app) routes() http.Handler {
	g := gin.Default()
	g.Use(requestIDMiddleware(), corsMiddleware())

	g.GET("/health", healthHandler)

	g.GET("/", app.handlers.Index)
	g.POST("/", app.handlers.Index)

	timeout := app.config.Server.HandlerTimeout
	g.GET("/feed/:email/:password/:id", withTimeout(timeout, app.handlers.Feed))
	g.GET("/basic/:id", withTimeout(timeout, app.handlers.BasicFeed))

	return g
}

func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "OK"})
}

func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-Id")
		if id == "" {
			id = uuid.NewString()
		}
		c.Header("X-Request-Id", id)
		c.Next()
	}
}

func withTimeout(d time.Duration, fn gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		fn(c)
	}
}
