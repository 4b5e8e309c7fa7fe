// Package api implements the HTTP control surface: listing scrapers,
// triggering manual cycles and clearing caches.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/uniwatch/uniwatch/internal/domain"
	"github.com/uniwatch/uniwatch/internal/logger"
	"github.com/uniwatch/uniwatch/internal/scraper"
)

// Runner defines the scraper operations the control surface exposes.
type Runner interface {
	// Names returns the enabled scraper names.
	Names() []string

	// RunOnce triggers one manual cycle and returns the rendered posts.
	RunOnce(ctx context.Context, name string) ([]domain.Post, error)

	// ClearCache resets one scraper's persisted identifiers.
	ClearCache(name string) error

	// ClearAll resets every scraper's persisted identifiers.
	ClearAll() error
}

// SetupRouter creates and configures the Gin router with all routes
func SetupRouter(log logger.Interface, runner Runner) *gin.Engine {
	// Disable Gin's default logging
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(loggingMiddleware(log))
	router.Use(corsMiddleware())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.GET("/list", handleList(runner))
	router.GET("/get/:name", handleRunOnce(runner))
	router.DELETE("/delete", handleClearAll(runner))
	router.DELETE("/delete/:name", handleClear(runner))

	return router
}

// handleList returns the configured scraper names.
func handleList(runner Runner) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"scrapers": runner.Names()})
	}
}

// handleRunOnce triggers one manual cycle and returns the rendered
// posts. The cycle blocks the request until it completes or fails.
func handleRunOnce(runner Runner) gin.HandlerFunc {
	return func(c *gin.Context) {
		name := c.Param("name")

		posts, err := runner.RunOnce(c.Request.Context(), name)
		if err != nil {
			if errors.Is(err, scraper.ErrScraperNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "scraper not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		if posts == nil {
			posts = []domain.Post{}
		}
		c.JSON(http.StatusOK, gin.H{"posts": posts})
	}
}

// handleClear resets the cache for one scraper.
func handleClear(runner Runner) gin.HandlerFunc {
	return func(c *gin.Context) {
		name := c.Param("name")

		if err := runner.ClearCache(name); err != nil {
			if errors.Is(err, scraper.ErrScraperNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "scraper not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "cache cleared"})
	}
}

// handleClearAll resets every scraper's cache.
func handleClearAll(runner Runner) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := runner.ClearAll(); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "all caches cleared"})
	}
}

// loggingMiddleware logs each request with method, path, and timing information
func loggingMiddleware(log logger.Interface) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		statusCode := c.Writer.Status()

		log.Info("HTTP Request",
			"method", c.Request.Method,
			"path", path,
			"query", query,
			"status", statusCode,
			"latency", latency,
		)
	}
}

// corsMiddleware adds CORS headers to allow frontend access
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers",
			"Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, "+
				"Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
