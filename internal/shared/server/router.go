package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"support-backend/internal/helpdesk"
	"support-backend/internal/manuals"
	"support-backend/internal/recommendations"
	"support-backend/internal/sentiment"
	"support-backend/internal/services/health"
	"support-backend/internal/shared/config"
	"support-backend/internal/shared/metrics"
	"support-backend/internal/shared/server/middleware"
	"support-backend/internal/shared/server/respond"
)

const generationGroup = "GENERATION"

// generationRoutes are the endpoints that call the language model.
var generationRoutes = []string{
	"/analyze-sentiment",
	"/analyze-single-ticket",
	"/generate-recommendations",
	"/search-manual",
	"/upload-manual",
}

// RouterDeps carries the handlers mounted under the API base path.
type RouterDeps struct {
	Config                config.Config
	Health                *health.Service
	SentimentHandler      *sentiment.Handler
	ManualHandler         *manuals.Handler
	RecommendationHandler *recommendations.Handler
	HelpdeskHandler       *helpdesk.Handler
	RateLimiter           *middleware.RateLimiter
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	cfg := deps.Config
	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(cfg.CORSAllowOrigin),
		middleware.RateLimit(middleware.RateLimitConfig{
			Limiter:  deps.RateLimiter,
			GroupFor: groupFor(cfg.APIBasePath),
			Rules: map[string]middleware.RateLimitRule{
				generationGroup: {Rate: cfg.RateLimitRPS, Burst: cfg.RateLimitBurst},
			},
		}),
	)

	r.GET("/metrics", metrics.Handler())

	api := r.Group(cfg.APIBasePath)
	api.GET("/health", func(c *gin.Context) {
		status := deps.Health.Status(c.Request.Context())
		code := http.StatusOK
		if ok, _ := status["ok"].(bool); !ok {
			code = http.StatusServiceUnavailable
		}
		respond.JSON(c, code, status)
	})

	if deps.SentimentHandler != nil {
		deps.SentimentHandler.RegisterRoutes(api)
	}
	if deps.ManualHandler != nil {
		deps.ManualHandler.RegisterRoutes(api)
	}
	if deps.RecommendationHandler != nil {
		deps.RecommendationHandler.RegisterRoutes(api)
	}
	if deps.HelpdeskHandler != nil {
		deps.HelpdeskHandler.RegisterRoutes(api)
	}

	return r
}

func groupFor(basePath string) func(*gin.Context) string {
	limited := make(map[string]struct{}, len(generationRoutes))
	for _, route := range generationRoutes {
		limited[basePath+route] = struct{}{}
	}
	return func(c *gin.Context) string {
		if c.Request.Method != http.MethodPost {
			return ""
		}
		if _, ok := limited[strings.TrimRight(c.Request.URL.Path, "/")]; ok {
			return generationGroup
		}
		return ""
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
