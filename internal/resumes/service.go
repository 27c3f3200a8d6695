package resumes

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"resume-assistant/internal/extract"
	"resume-assistant/internal/shared/metrics"
	"resume-assistant/internal/shared/storage/object"
	"resume-assistant/internal/shared/telemetry"
	"resume-assistant/internal/users"
)

// MaxUploadBytes caps the size of an uploaded resume file.
const MaxUploadBytes = 10 << 20

var (
	// ErrUnsupportedFormat is returned for files that are neither PDF nor DOCX.
	ErrUnsupportedFormat = extract.ErrUnsupportedFormat
	// ErrNoText is returned when a supported file yields no readable text.
	ErrNoText = errors.New("resume has no readable text")
	// ErrTooLarge is returned when the payload exceeds MaxUploadBytes.
	ErrTooLarge = errors.New("resume file too large")
)

type Service struct {
	Users *users.Service
	Store object.ObjectStore
}

func NewService(usersSvc *users.Service, store object.ObjectStore) *Service {
	return &Service{Users: usersSvc, Store: store}
}

// UploadInput is one resume file submitted for a user.
type UploadInput struct {
	Email      string
	FileName   string
	ResumeName string
	Body       io.Reader
}

// UploadResult describes the stored file and the updated record.
type UploadResult struct {
	User       users.User `json:"user"`
	StorageKey string     `json:"storageKey"`
	SizeBytes  int64      `json:"sizeBytes"`
	MimeType   string     `json:"mimeType"`
}

// Upload stores the file, extracts its text and writes it to the user's record
// as resumeData. resumeName defaults to the file name.
func (s *Service) Upload(ctx context.Context, in UploadInput) (UploadResult, error) {
	if s == nil || s.Users == nil || s.Store == nil {
		return UploadResult{}, errors.New("resume uploads not configured")
	}
	if _, err := s.Users.Get(ctx, in.Email); err != nil {
		return UploadResult{}, err
	}

	data, err := io.ReadAll(io.LimitReader(in.Body, MaxUploadBytes+1))
	if err != nil {
		return UploadResult{}, fmt.Errorf("read upload: %w", err)
	}
	if len(data) > MaxUploadBytes {
		return UploadResult{}, ErrTooLarge
	}

	mimeType := extract.Format(http.DetectContentType(data), in.FileName, data)
	if mimeType != extract.MimePDF && mimeType != extract.MimeDOCX {
		telemetry.Warn("resume.upload.unsupported", map[string]any{
			"file_name": in.FileName,
			"mime":      mimeType,
		})
		return UploadResult{}, ErrUnsupportedFormat
	}

	key, size, _, err := s.Store.Save(ctx, in.Email, in.FileName, bytes.NewReader(data))
	if err != nil {
		return UploadResult{}, fmt.Errorf("store resume: %w", err)
	}

	text, err := extract.FromStore(ctx, s.Store, key, mimeType, in.FileName)
	if err != nil {
		return UploadResult{}, err
	}
	if strings.TrimSpace(text) == "" {
		return UploadResult{}, ErrNoText
	}

	name := strings.TrimSpace(in.ResumeName)
	if name == "" {
		name = in.FileName
	}
	user, err := s.Users.AddResume(ctx, in.Email, &name, text)
	if err != nil {
		return UploadResult{}, err
	}

	metrics.IncResumeUploads()
	telemetry.Info("resume.upload.completed", map[string]any{
		"key":        key,
		"mime":       mimeType,
		"size_bytes": size,
		"text_chars": len(text),
	})
	return UploadResult{User: user, StorageKey: key, SizeBytes: size, MimeType: mimeType}, nil
}
