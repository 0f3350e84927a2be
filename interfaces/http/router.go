package httpiface

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"coffee-chat/domain/audit"
	domain "coffee-chat/domain/chat"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ChatService is the orchestration surface the router depends on.
type ChatService interface {
	ProcessStream(ctx context.Context, message string, emit domain.StreamHandler[domain.StreamEvent]) error
}

const maxMessageLength = 1000

type Router struct {
	service     ChatService
	apiKey      string
	corsOrigins []string
	limiter     *rateLimiter
	dbManager   audit.DatabaseManager
	processor   audit.EventProcessor
}

func NewRouter(service ChatService, apiKey string, corsOrigins []string, rateRequests int, rateWindow time.Duration) *Router {
	return &Router{
		service:     service,
		apiKey:      apiKey,
		corsOrigins: corsOrigins,
		limiter:     newRateLimiter(rateRequests, rateWindow),
	}
}

// NewRouterWithPersistence creates a router whose readiness probe also
// covers the audit database and event processor.
func NewRouterWithPersistence(
	service ChatService,
	apiKey string,
	corsOrigins []string,
	rateRequests int,
	rateWindow time.Duration,
	dbManager audit.DatabaseManager,
	processor audit.EventProcessor,
) *Router {
	r := NewRouter(service, apiKey, corsOrigins, rateRequests, rateWindow)
	r.dbManager = dbManager
	r.processor = processor
	return r
}

func (r *Router) SetupRoutes() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(r.corsMiddleware())

	// Probes stay open for monitoring tools
	router.GET("/live", r.liveness)
	router.GET("/ready", r.readiness)

	api := router.Group("/api")
	api.GET("/health", r.healthCheck)

	chatGroup := api.Group("/chat")
	chatGroup.Use(r.limiter.middleware())
	chatGroup.Use(apiKeyAuth(r.apiKey))
	chatGroup.POST("/message", r.chatMessage)
	chatGroup.GET("/history", r.chatHistory)

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, domain.ErrorResponse{
			Status:  "error",
			Message: "Route not found",
		})
	})

	return router
}

func (r *Router) corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqOrigin := c.GetHeader("Origin")
		if reqOrigin == "" {
			c.Header("Access-Control-Allow-Origin", strings.Join(r.corsOrigins, ", "))
		} else {
			allowOrigin := ""
			if len(r.corsOrigins) == 1 && r.corsOrigins[0] == "*" {
				allowOrigin = "*"
			} else {
				for _, allowed := range r.corsOrigins {
					if allowed == reqOrigin {
						allowOrigin = reqOrigin
						break
					}
				}
			}
			if allowOrigin != "" {
				c.Header("Access-Control-Allow-Origin", allowOrigin)
			}
		}
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, X-API-Key")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

type messageRequest struct {
	Message string `json:"message"`
}

// chatMessage runs the pipeline and streams events back as
// `data: <json>` records, one flush per event. The terminal done or error
// record is written by the orchestrator before the handler returns.
func (r *Router) chatMessage(c *gin.Context) {
	var req messageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, domain.ErrorResponse{Status: "error", Message: "Invalid message format"})
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		c.JSON(http.StatusBadRequest, domain.ErrorResponse{Status: "error", Message: "Invalid message format"})
		return
	}
	if len(req.Message) > maxMessageLength {
		c.JSON(http.StatusBadRequest, domain.ErrorResponse{Status: "error", Message: "Message too long"})
		return
	}

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, domain.ErrorResponse{Status: "error", Message: "Streaming not supported by server"})
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Status(http.StatusOK)

	err := r.service.ProcessStream(c.Request.Context(), req.Message, func(event domain.StreamEvent) error {
		data, err := json.Marshal(event)
		if err != nil {
			return err
		}
		if _, err := c.Writer.Write([]byte("data: ")); err != nil {
			return err
		}
		if _, err := c.Writer.Write(data); err != nil {
			return err
		}
		if _, err := c.Writer.Write([]byte("\n\n")); err != nil {
			return err
		}
		flusher.Flush()
		return nil
	})
	if err != nil {
		// The terminal error record has already been written; nothing
		// more to send on this connection.
		logrus.WithError(err).Error("Chat stream ended with error")
	}
}

// chatHistory is a stub until conversation storage lands.
func (r *Router) chatHistory(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"history": []interface{}{},
		"metrics": gin.H{
			"totalMessages":       0,
			"averageResponseTime": 0,
		},
	})
}

func (r *Router) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "success",
		"message":   "Chat backend is running",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// liveness probe: process is up and serving HTTP
func (r *Router) liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "alive",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// readiness probe: dependencies healthy and ready to serve traffic
func (r *Router) readiness(c *gin.Context) {
	checks := gin.H{}
	ready := true

	if r.dbManager != nil {
		if err := r.dbManager.Health(c.Request.Context()); err != nil {
			checks["db"] = gin.H{"ok": false, "error": err.Error()}
			ready = false
		} else {
			checks["db"] = gin.H{"ok": true}
		}
	}

	if r.processor != nil {
		ph := r.processor.Health()
		checks["processor"] = ph
		if !ph.IsRunning {
			ready = false
		}
	}

	if ready {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ready",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"checks":    checks,
		})
		return
	}
	c.JSON(http.StatusServiceUnavailable, gin.H{
		"status":    "not_ready",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"checks":    checks,
	})
}
