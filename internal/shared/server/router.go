package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	googleauth "resume-assistant/internal/auth"
	"resume-assistant/internal/generation"
	"resume-assistant/internal/resumes"
	"resume-assistant/internal/services/health"
	sharedauth "resume-assistant/internal/shared/auth"
	"resume-assistant/internal/shared/config"
	"resume-assistant/internal/shared/metrics"
	"resume-assistant/internal/shared/server/middleware"
	"resume-assistant/internal/shared/server/respond"
	"resume-assistant/internal/users"
)

type RouterDeps struct {
	Config            config.Config
	Health            *health.Service
	UserHandler       *users.Handler
	GenerationHandler *generation.Handler
	ResumeHandler     *resumes.Handler
	GoogleAuth        *googleauth.GoogleService
	Signer            *sharedauth.Signer
	RateLimiter       *middleware.RateLimiter
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Config.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.MaxMultipartMemory = resumes.MaxUploadBytes

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
	)

	r.GET("/health", func(c *gin.Context) {
		if deps.Health == nil {
			respond.OK(c, gin.H{"ok": true})
			return
		}
		status := deps.Health.Check(c.Request.Context())
		if !status.OK {
			respond.JSON(c, http.StatusServiceUnavailable, respond.Envelope{Success: false, Data: status, Error: status.Error})
			return
		}
		respond.OK(c, status)
	})
	r.GET("/metrics", metrics.Handler())

	if deps.UserHandler != nil {
		deps.UserHandler.RegisterRoutes(r)
		deps.UserHandler.RegisterAuthedRoutes(r, middleware.RequireAuth(deps.Signer))
	}
	if deps.GenerationHandler != nil {
		rule := middleware.PerMinute(deps.Config.GenerateRatePerMinute, deps.Config.GenerateBurst)
		deps.GenerationHandler.RegisterRoutes(r, middleware.RateLimit("generate", rule, deps.RateLimiter))
	}
	if deps.ResumeHandler != nil {
		deps.ResumeHandler.RegisterRoutes(r)
	}
	if deps.GoogleAuth != nil {
		deps.GoogleAuth.RegisterRoutes(r)
	}

	r.NoRoute(func(c *gin.Context) {
		respond.Error(c, http.StatusNotFound, "Not found")
	})

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8000"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
