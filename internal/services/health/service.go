package health

import (
	"context"
	"database/sql"
	"time"
)

// Status is the payload served at /health.
type Status struct {
	OK        bool   `json:"ok"`
	Storage   string `json:"storage"`
	Generator string `json:"generator"`
	Error     string `json:"error,omitempty"`
}

// Service reports process health. A nil DB means in-memory repositories.
type Service struct {
	DB        *sql.DB
	Generator string
	timeout   time.Duration
}

// NewService constructs a new health service.
func NewService(db *sql.DB, generator string) *Service {
	return &Service{DB: db, Generator: generator, timeout: 2 * time.Second}
}

// Check pings storage when a database is configured.
func (s *Service) Check(ctx context.Context) Status {
	status := Status{OK: true, Storage: "memory", Generator: s.Generator}
	if s.DB == nil {
		return status
	}
	status.Storage = "postgres"
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if err := s.DB.PingContext(ctx); err != nil {
		status.OK = false
		status.Error = err.Error()
	}
	return status
}
