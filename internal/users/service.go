package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

type Service struct {
	Repo Repo
}

func NewService(repo Repo) *Service {
	return &Service{Repo: repo}
}

// CreateInput carries the fields accepted by create-user.
type CreateInput struct {
	Name       string
	Email      string
	Username   string
	ResumeName *string
	ResumeData *string
}

// Get looks a record up by email.
func (s *Service) Get(ctx context.Context, email string) (User, error) {
	if err := s.ready(); err != nil {
		return User{}, err
	}
	if strings.TrimSpace(email) == "" {
		return User{}, fmt.Errorf("%w: email is required", ErrInvalidInput)
	}
	return s.Repo.FindByEmail(ctx, email)
}

// CreateOrUpdate updates name (and resumeName when given) on an existing record,
// or inserts a new one. created reports which branch ran.
func (s *Service) CreateOrUpdate(ctx context.Context, in CreateInput) (user User, created bool, err error) {
	if err := s.ready(); err != nil {
		return User{}, false, err
	}
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Email) == "" {
		return User{}, false, fmt.Errorf("%w: name and email are required", ErrInvalidInput)
	}
	if err := validateLengths(in.Name, in.Username); err != nil {
		return User{}, false, err
	}

	_, err = s.Repo.FindByEmail(ctx, in.Email)
	switch {
	case err == nil:
		user, err = s.Repo.UpsertByEmail(ctx, in.Email, Update{Name: &in.Name, ResumeName: in.ResumeName})
		return user, false, err
	case !errors.Is(err, ErrNotFound):
		return User{}, false, err
	}

	user, err = s.Repo.Insert(ctx, User{
		Name:       in.Name,
		Email:      in.Email,
		Username:   in.Username,
		ResumeName: deref(in.ResumeName),
		ResumeData: deref(in.ResumeData),
	})
	if errors.Is(err, ErrDuplicateEmail) {
		// Lost a race with a concurrent create for the same email; fall back to the update path.
		user, err = s.Repo.UpsertByEmail(ctx, in.Email, Update{Name: &in.Name, ResumeName: in.ResumeName})
		return user, false, err
	}
	return user, err == nil, err
}

// AddResume stores resume text (and optionally its label) on an existing record.
func (s *Service) AddResume(ctx context.Context, email string, resumeName *string, resumeData string) (User, error) {
	if err := s.ready(); err != nil {
		return User{}, err
	}
	if strings.TrimSpace(email) == "" || resumeData == "" {
		return User{}, fmt.Errorf("%w: email and resume data are required", ErrInvalidInput)
	}
	return s.Repo.UpsertByEmail(ctx, email, Update{ResumeName: resumeName, ResumeData: &resumeData})
}

// EnsureExists returns the record for email, inserting one with the given name
// when none exists yet. Used by sign-in flows.
func (s *Service) EnsureExists(ctx context.Context, email, name string) (User, error) {
	if err := s.ready(); err != nil {
		return User{}, err
	}
	user, err := s.Repo.FindByEmail(ctx, email)
	if err == nil || !errors.Is(err, ErrNotFound) {
		return user, err
	}
	if strings.TrimSpace(name) == "" {
		name, _, _ = strings.Cut(email, "@")
	}
	name = truncate(name, maxNameLength)
	user, err = s.Repo.Insert(ctx, User{Name: name, Email: email})
	if errors.Is(err, ErrDuplicateEmail) {
		return s.Repo.FindByEmail(ctx, email)
	}
	return user, err
}

func (s *Service) ready() error {
	if s == nil || s.Repo == nil {
		return errors.New("users service not configured")
	}
	return nil
}

func validateLengths(name, username string) error {
	if utf8.RuneCountInString(name) > maxNameLength {
		return fmt.Errorf("%w: name must be at most %d characters", ErrInvalidInput, maxNameLength)
	}
	if utf8.RuneCountInString(username) > maxUsernameLength {
		return fmt.Errorf("%w: username must be at most %d characters", ErrInvalidInput, maxUsernameLength)
	}
	return nil
}

func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max])
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
