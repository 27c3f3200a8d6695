package generation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"resume-assistant/internal/llm"
	"resume-assistant/internal/shared/metrics"
	"resume-assistant/internal/shared/telemetry"
	"resume-assistant/internal/users"
)

// Kind selects which prompt template a request uses.
type Kind string

const (
	KindCoverLetter Kind = "cover_letter"
	KindColdMail    Kind = "cold_mail"
)

// ErrResumeMissing is returned when the record has no resume text to build a prompt from.
var ErrResumeMissing = errors.New("resume missing")

// UserLookup is satisfied by *users.Service.
type UserLookup interface {
	Get(ctx context.Context, email string) (users.User, error)
}

type Service struct {
	Users UserLookup
	LLM   llm.Generator
	now   func() time.Time
}

func NewService(lookup UserLookup, gen llm.Generator) *Service {
	return &Service{Users: lookup, LLM: gen, now: time.Now}
}

// CoverLetter generates a cover letter for the user's stored resume.
func (s *Service) CoverLetter(ctx context.Context, email, jobDescription string) (string, error) {
	return s.Generate(ctx, KindCoverLetter, email, jobDescription)
}

// ColdMail generates a short recruiter email for the user's stored resume.
func (s *Service) ColdMail(ctx context.Context, email, jobDescription string) (string, error) {
	return s.Generate(ctx, KindColdMail, email, jobDescription)
}

// Generate loads the record, builds the prompt for kind and returns the provider output verbatim.
// The provider is never called when the record is absent or has no resume.
func (s *Service) Generate(ctx context.Context, kind Kind, email, jobDescription string) (string, error) {
	if s == nil || s.Users == nil || s.LLM == nil {
		return "", errors.New("generation service not configured")
	}
	user, err := s.Users.Get(ctx, email)
	if err != nil {
		return "", err
	}
	if !user.HasResume() {
		return "", ErrResumeMissing
	}

	var prompt string
	switch kind {
	case KindCoverLetter:
		prompt = llm.CoverLetterPrompt(jobDescription, user.ResumeData)
	case KindColdMail:
		prompt = llm.ColdMailPrompt(jobDescription, user.ResumeData)
	default:
		return "", fmt.Errorf("unknown generation kind %q", kind)
	}

	now := time.Now
	if s.now != nil {
		now = s.now
	}
	start := now()
	metrics.IncGenerationStarted()
	text, err := s.LLM.Generate(ctx, prompt)
	elapsed := now().Sub(start)
	metrics.ObserveGenerationDuration(elapsed)
	if err != nil {
		metrics.IncGenerationFailed()
		telemetry.Error("generation.failed", map[string]any{
			"kind":        string(kind),
			"email":       email,
			"duration_ms": elapsed.Milliseconds(),
			"error":       err.Error(),
		})
		return "", fmt.Errorf("generate %s: %w", kind, err)
	}
	metrics.IncGenerationCompleted()
	telemetry.Info("generation.completed", map[string]any{
		"kind":         string(kind),
		"email":        email,
		"duration_ms":  elapsed.Milliseconds(),
		"output_chars": len(text),
	})
	return text, nil
}
