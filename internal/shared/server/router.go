package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	googleauth "legaldoc-backend/internal/auth"
	"legaldoc-backend/internal/chats"
	"legaldoc-backend/internal/documents"
	"legaldoc-backend/internal/shared/config"
	"legaldoc-backend/internal/shared/metrics"
	"legaldoc-backend/internal/shared/server/middleware"
	"legaldoc-backend/internal/shared/server/respond"
	"legaldoc-backend/internal/summaries"
	"legaldoc-backend/internal/uploads"
	"legaldoc-backend/internal/users"
)

// RouterDeps carries the handlers and services wired by bootstrap.
type RouterDeps struct {
	Config          config.Config
	DocumentHandler *documents.Handler
	SummaryHandler  *summaries.Handler
	ChatHandler     *chats.Handler
	UserHandler     *users.Handler
	GoogleAuth      *googleauth.GoogleService
	UploadsEnabled  bool
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.Auth(deps.Config.Env),
		middleware.RateLimit(aiRateLimits()),
	)

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})
	api.GET("/metrics", metrics.Handler())

	if deps.GoogleAuth != nil {
		deps.GoogleAuth.RegisterRoutes(api)
	}
	if deps.UserHandler != nil {
		deps.UserHandler.RegisterRoutes(api)
	} else {
		registerMeRoutes(api)
	}
	if deps.DocumentHandler != nil {
		deps.DocumentHandler.RegisterRoutes(api)
	}
	if deps.SummaryHandler != nil {
		deps.SummaryHandler.RegisterRoutes(api)
	}
	if deps.ChatHandler != nil {
		deps.ChatHandler.RegisterRoutes(api)
	}
	if deps.UploadsEnabled {
		uploads.RegisterRoutes(api)
	}

	return r
}

// aiRateLimits throttles the endpoints that call out to the model service
// harder than the rest of the API.
func aiRateLimits() middleware.RateLimitConfig {
	return middleware.RateLimitConfig{
		Rules: map[string]middleware.RateLimitRule{
			"AI":      {Rate: 1, Burst: 5},
			"DEFAULT": {Rate: 10, Burst: 30},
		},
		GroupFor: func(c *gin.Context) string {
			if c.Request.Method != http.MethodPost {
				return "DEFAULT"
			}
			switch c.FullPath() {
			case "/api/v1/summaries", "/api/v1/questions", "/api/v1/documents":
				return "AI"
			}
			return "DEFAULT"
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
