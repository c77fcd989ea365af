package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/competa-arena/contest-service/internal/client"
	"github.com/competa-arena/contest-service/internal/config"
	"github.com/competa-arena/contest-service/internal/handler"
	"github.com/competa-arena/contest-service/internal/middleware"
	"github.com/competa-arena/contest-service/internal/response"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Contest *handler.ContestHandler
}

// SetupRouter configures the Gin engine with the authorization filter
// and the contest routes.
func SetupRouter(
	tokenValidator client.TokenValidator,
	handlers *Handlers,
	cfg *config.Config,
	log zerolog.Logger,
) *gin.Engine {
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
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// Rate limiter for mutating traffic (60 requests per minute per IP).
	writeLimiter := middleware.NewRateLimiter(60)

	// ─── Contests ──────────────────────────────────────────────────────
	// The authorization filter covers the whole group: GETs are public,
	// mutating methods require a CREATOR/ADMIN bearer token.
	contests := router.Group("/api/contests")
	contests.Use(middleware.Authorize(tokenValidator, log))
	{
		contests.GET("", handlers.Contest.ListContests)
		contests.GET("/:id", handlers.Contest.GetContest)

		contests.POST("", writeLimiter.Middleware(), handlers.Contest.CreateContest)
		contests.PUT("/:id", writeLimiter.Middleware(), handlers.Contest.UpdateContest)
		contests.DELETE("/:id", writeLimiter.Middleware(), handlers.Contest.DeleteContest)
	}

	return router
}
