package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dishalabs/disha-gateway/internal/config"
	"github.com/dishalabs/disha-gateway/internal/handler"
	"github.com/dishalabs/disha-gateway/internal/middleware"
	"github.com/dishalabs/disha-gateway/internal/response"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Assessment *handler.AssessmentHandler
	Intake     *handler.IntakeHandler
	Result     *handler.ResultHandler
	WS         *handler.WSHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(handlers *Handlers, cfg *config.Config) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Per-route HTTP metrics.
	router.Use(middleware.Metrics())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// Prometheus scrape endpoint.
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Rate limiter for the endpoints that reach the upstream counselor
	// service (10 requests per minute per IP).
	submitLimiter := middleware.NewRateLimiter(10, time.Minute)

	// ─── 1. Assessment Group ───────────────────────────────────────────
	assessmentAPI := router.Group("/api/v1/assessment")
	{
		assessmentAPI.POST("/sessions", handlers.Assessment.CreateSession)
		assessmentAPI.GET("/sessions/:session_id", handlers.Assessment.GetSession)
		assessmentAPI.GET("/sessions/:session_id/paper", handlers.Assessment.GetPaper)
		assessmentAPI.PUT("/sessions/:session_id/basic-info", handlers.Assessment.UpdateBasicInfo)
		assessmentAPI.PUT("/sessions/:session_id/answers", handlers.Assessment.RecordAnswer)
		assessmentAPI.POST("/sessions/:session_id/navigate", handlers.Assessment.Navigate)
		assessmentAPI.POST("/sessions/:session_id/submit", submitLimiter.Middleware(), handlers.Assessment.Submit)
		assessmentAPI.DELETE("/sessions/:session_id", handlers.Assessment.DeleteSession)
	}

	// ─── 2. Profile Intake Group (Rate Limited) ────────────────────────
	profileAPI := router.Group("/api/v1/profiles")
	profileAPI.Use(submitLimiter.Middleware())
	{
		profileAPI.POST("/upskilling", handlers.Intake.SubmitUpskilling)
	}

	// ─── 3. Results Group ──────────────────────────────────────────────
	resultAPI := router.Group("/api/v1/results")
	{
		resultAPI.POST("", handlers.Result.StartResolution)
		resultAPI.GET("/:session_id", handlers.Result.GetResult)
		resultAPI.DELETE("/:session_id", handlers.Result.CancelResult)
	}

	// ─── 4. WebSocket Group ────────────────────────────────────────────
	ws := router.Group("/ws/v1")
	{
		ws.GET("/results/:session_id/stream", handlers.WS.ResultStream)
	}

	return router
}
