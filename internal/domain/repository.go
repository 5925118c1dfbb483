package domain

import (
	"context"
	"time"
)

// Repository persists completed analyses.
// All methods require tenantID for strict multi-tenancy isolation.
type Repository interface {
	SaveAnalysis(ctx context.Context, tenantID string, a *Analysis) error
	GetAnalysis(ctx context.Context, tenantID string, id string) (*Analysis, error)

	// ListAnalyses returns summaries newest first. An empty reference lists all.
	ListAnalyses(ctx context.Context, tenantID string, reference string, limit int) ([]*AnalysisSummary, error)

	// TopLenders aggregates detected lenders across stored analyses.
	TopLenders(ctx context.Context, tenantID string, limit int) ([]*LenderExposure, error)

	// Health check
	Ping(ctx context.Context) error

	// Lifecycle
	Close() error
}

// LenderExposure is how often a lender appears across a tenant's analyses.
type LenderExposure struct {
	EntityKey string  `json:"entityKey"`
	Name      string  `json:"name"`
	Bucket    string  `json:"bucket"`
	Analyses  int     `json:"analyses"`
	TotalPaid float64 `json:"totalPaid"`
}

// RepositoryConfig holds configuration for repository initialization.
type RepositoryConfig struct {
	// Driver is the database driver: "sqlite" or "postgres"
	Driver string

	// SQLite specific
	SQLitePath string

	// PostgreSQL specific
	PostgresHost     string
	PostgresPort     int
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	// Connection pool settings
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}
