package resumes

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-assistant/internal/shared/server/middleware"
	"resume-assistant/internal/shared/server/respond"
	"resume-assistant/internal/users"
)

const (
	msgAddResume   = "Please add your resume"
	msgNoUser      = "No user found"
	msgUnsupported = "Unsupported resume format"
	msgNoText      = "Could not read any text from your resume"
	msgTooLarge    = "Resume file must be 10MB or smaller"
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(r gin.IRouter) {
	r.POST("/upload-resume", h.upload)
}

func (h *Handler) upload(c *gin.Context) {
	// Leave room for the multipart envelope around the file part.
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxUploadBytes+1<<20)

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			respond.Fail(c, msgTooLarge)
			return
		}
		respond.Fail(c, msgAddResume)
		return
	}
	defer file.Close()
	email := strings.TrimSpace(c.PostForm("email"))
	if email == "" {
		respond.Fail(c, msgAddResume)
		return
	}
	middleware.SetLogEmail(c, email)

	result, err := h.Svc.Upload(c.Request.Context(), UploadInput{
		Email:      email,
		FileName:   header.Filename,
		ResumeName: c.PostForm("resumeName"),
		Body:       file,
	})
	if err != nil {
		switch {
		case errors.Is(err, users.ErrNotFound):
			respond.Fail(c, msgNoUser)
		case errors.Is(err, ErrUnsupportedFormat):
			respond.Fail(c, msgUnsupported)
		case errors.Is(err, ErrNoText):
			respond.Fail(c, msgNoText)
		case errors.Is(err, ErrTooLarge):
			respond.Fail(c, msgTooLarge)
		case errors.Is(err, users.ErrInvalidInput):
			respond.Fail(c, msgAddResume)
		default:
			respond.Internal(c, err)
		}
		return
	}
	respond.OK(c, result)
}
