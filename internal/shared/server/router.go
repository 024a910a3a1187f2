package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"brew-backend/internal/recommendations"
	"brew-backend/internal/services/health"
	"brew-backend/internal/shared/config"
	"brew-backend/internal/shared/metrics"
	"brew-backend/internal/shared/server/middleware"
	"brew-backend/internal/shared/server/respond"
)

const (
	rateLimitGroupRecommend = "RECOMMEND"

	methodNotAllowedMessage = "Method not allowed"
	notFoundMessage         = "Not found"
)

// RouterDeps are the handlers mounted on the engine.
type RouterDeps struct {
	Config                config.Config
	RecommendationHandler *recommendations.Handler
	Health                *health.Service
	RateLimiter           *middleware.RateLimiter
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Config.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.HandleMethodNotAllowed = true

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.RateLimit(rateLimitConfig(deps)),
	)

	r.NoMethod(func(c *gin.Context) {
		respond.Error(c, http.StatusMethodNotAllowed, methodNotAllowedMessage, nil)
	})
	r.NoRoute(func(c *gin.Context) {
		respond.Error(c, http.StatusNotFound, notFoundMessage, nil)
	})

	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api")
	if deps.Health != nil {
		deps.Health.RegisterRoutes(api)
	}
	if deps.RecommendationHandler != nil {
		deps.RecommendationHandler.RegisterRoutes(api)
	}

	return r
}

func rateLimitConfig(deps RouterDeps) middleware.RateLimitConfig {
	rules := map[string]middleware.RateLimitRule{}
	if deps.Config.RateLimitRPS > 0 {
		rules[rateLimitGroupRecommend] = middleware.RateLimitRule{
			Rate:  deps.Config.RateLimitRPS,
			Burst: deps.Config.RateLimitBurst,
		}
	}
	return middleware.RateLimitConfig{
		Rules:   rules,
		Limiter: deps.RateLimiter,
		GroupFor: func(c *gin.Context) string {
			if c.Request.Method == http.MethodPost && c.FullPath() == "/api/recommendations" {
				return rateLimitGroupRecommend
			}
			return ""
		},
	}
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
