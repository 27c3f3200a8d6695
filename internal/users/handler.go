package users

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-assistant/internal/shared/server/middleware"
	"resume-assistant/internal/shared/server/respond"
)

const (
	msgEnterEmail     = "Please enter your email"
	msgNoUser         = "No user found"
	msgCompulsory     = "Please enter compulsory fields"
	msgCreationFailed = "User creation failed"
	msgAddResume      = "Please add your resume"
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(r gin.IRouter) {
	r.GET("/get-user", h.getUser)
	r.POST("/create-user", h.createUser)
	r.POST("/add-resume", h.addResume)
}

// RegisterAuthedRoutes mounts routes that require a signed-in caller.
func (h *Handler) RegisterAuthedRoutes(r gin.IRouter, requireAuth gin.HandlerFunc) {
	r.GET("/me", requireAuth, h.me)
}

type createUserRequest struct {
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	Username   string  `json:"username"`
	ResumeName *string `json:"resumeName"`
	ResumeData *string `json:"resumeData"`
}

type addResumeRequest struct {
	Email      string  `json:"email"`
	ResumeName *string `json:"resumeName"`
	ResumeData string  `json:"resumeData"`
}

func (h *Handler) getUser(c *gin.Context) {
	email := strings.TrimSpace(c.Query("email"))
	if email == "" {
		respond.Fail(c, msgEnterEmail)
		return
	}
	middleware.SetLogEmail(c, email)

	user, err := h.Svc.Get(c.Request.Context(), email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Fail(c, msgNoUser)
			return
		}
		respond.Internal(c, err)
		return
	}
	respond.OK(c, user)
}

func (h *Handler) createUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Fail(c, msgCompulsory)
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	if strings.TrimSpace(req.Name) == "" || req.Email == "" {
		respond.Fail(c, msgCompulsory)
		return
	}
	middleware.SetLogEmail(c, req.Email)

	user, created, err := h.Svc.CreateOrUpdate(c.Request.Context(), CreateInput{
		Name:       req.Name,
		Email:      req.Email,
		Username:   req.Username,
		ResumeName: req.ResumeName,
		ResumeData: req.ResumeData,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Fail(c, validationMessage(err))
		case errors.Is(err, ErrNotFound):
			respond.Fail(c, msgCreationFailed)
		default:
			respond.Internal(c, err)
		}
		return
	}
	if created {
		respond.Created(c, user)
		return
	}
	respond.OK(c, user)
}

func (h *Handler) addResume(c *gin.Context) {
	var req addResumeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Fail(c, msgAddResume)
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.ResumeData == "" {
		respond.Fail(c, msgAddResume)
		return
	}
	middleware.SetLogEmail(c, req.Email)

	user, err := h.Svc.AddResume(c.Request.Context(), req.Email, req.ResumeName, req.ResumeData)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Fail(c, msgAddResume)
		case errors.Is(err, ErrNotFound):
			respond.Fail(c, msgCreationFailed)
		default:
			respond.Internal(c, err)
		}
		return
	}
	respond.OK(c, user)
}

func (h *Handler) me(c *gin.Context) {
	email := middleware.UserEmailFromContext(c)
	if email == "" {
		respond.Error(c, http.StatusUnauthorized, "missing or invalid token")
		return
	}
	user, err := h.Svc.Get(c.Request.Context(), email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Fail(c, msgNoUser)
			return
		}
		respond.Internal(c, err)
		return
	}
	respond.OK(c, user)
}

// validationMessage strips the sentinel prefix so clients see only the detail.
func validationMessage(err error) string {
	msg := strings.TrimPrefix(err.Error(), ErrInvalidInput.Error()+": ")
	if msg == "" {
		return msgCompulsory
	}
	return strings.ToUpper(msg[:1]) + msg[1:]
}
