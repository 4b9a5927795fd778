package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tasklists/tasklists-api/handlers"
	"github.com/tasklists/tasklists-api/internal/lists/handler"
	"github.com/tasklists/tasklists-api/pkg/middleware"
)

var startTime = time.Now()

// corsConfig lets browser clients send and read the token headers.
func corsConfig() cors.Config {
	return cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "HEAD", "OPTIONS", "PUT", "PATCH", "DELETE"},
		AllowHeaders: []string{
			"Origin", "X-Requested-With", "Content-Type", "Accept",
			middleware.HeaderAccessToken, middleware.HeaderRefreshToken, middleware.HeaderUserID,
			middleware.HeaderRequestID,
		},
		ExposeHeaders: []string{middleware.HeaderAccessToken, middleware.HeaderRefreshToken, middleware.HeaderRequestID},
		MaxAge:        12 * time.Hour,
	}
}

func buildRouter(a *app) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestLogger(), gin.Recovery())
	r.Use(cors.New(corsConfig()))
	r.Use(middleware.RequestTimeout(a.requestTimeout))

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})

	// readiness: 200 only when every configured dependency answers
	r.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		deps := a.readiness(ctx)
		ready := true
		for _, ok := range deps {
			ready = ready && ok
		}
		uptime := time.Since(startTime).String()
		if !ready {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "deps": deps, "uptime": uptime})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready", "deps": deps, "uptime": uptime})
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	handlers.RegisterSwagger(r)

	handlers.NewAuthHandler(a.users, a.sessions, a.codec).Register(&r.RouterGroup)
	handler.RegisterListRoutes(r.Group("/", middleware.Authenticate(a.codec)), a.lists)
	return r
}
