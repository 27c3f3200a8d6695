package generation

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-assistant/internal/shared/server/middleware"
	"resume-assistant/internal/shared/server/respond"
	"resume-assistant/internal/users"
)

const (
	msgAddEmail  = "Please add your email"
	msgNoUser    = "No user found"
	msgAddResume = "Please add your Resume"
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes mounts both generation endpoints. mw runs before each handler
// (rate limiting in production wiring).
func (h *Handler) RegisterRoutes(r gin.IRouter, mw ...gin.HandlerFunc) {
	r.POST("/generate-cover-letter", chain(mw, h.generate(KindCoverLetter))...)
	r.POST("/generate-cold-mail", chain(mw, h.generate(KindColdMail))...)
}

func chain(mw []gin.HandlerFunc, h gin.HandlerFunc) []gin.HandlerFunc {
	out := make([]gin.HandlerFunc, 0, len(mw)+1)
	out = append(out, mw...)
	return append(out, h)
}

type generateRequest struct {
	Email          string `json:"email"`
	JobDescription string `json:"jobDescription"`
}

func (h *Handler) generate(kind Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		middleware.SetLogGenerationKind(c, string(kind))

		var req generateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.Fail(c, msgAddEmail)
			return
		}
		req.Email = strings.TrimSpace(req.Email)
		if req.Email == "" {
			respond.Fail(c, msgAddEmail)
			return
		}
		middleware.SetLogEmail(c, req.Email)

		text, err := h.Svc.Generate(c.Request.Context(), kind, req.Email, req.JobDescription)
		if err != nil {
			switch {
			case errors.Is(err, users.ErrNotFound):
				respond.Fail(c, msgNoUser)
			case errors.Is(err, ErrResumeMissing):
				respond.Fail(c, msgAddResume)
			default:
				respond.Internal(c, err)
			}
			return
		}
		respond.OK(c, text)
	}
}
