// Package repository provides data persistence implementations.
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/opensource-finance/frictrak/internal/domain"
)

var (
	ErrNotFound     = errors.New("record not found")
	ErrInvalidInput = errors.New("invalid input")
)

// DefaultListLimit caps ListAnalyses when no limit is given.
const DefaultListLimit = 50

// SQLRepository implements domain.Repository using database/sql.
// Works with both SQLite and PostgreSQL drivers.
type SQLRepository struct {
	db     *sql.DB
	driver string
}

// New creates a new repository based on configuration.
func New(cfg domain.RepositoryConfig) (domain.Repository, error) {
	var db *sql.DB
	var err error

	switch cfg.Driver {
	case "sqlite":
		db, err = openSQLite(cfg)
	case "postgres":
		db, err = openPostgres(cfg)
	default:
		return nil, fmt.Errorf("unsupported driver: %s", cfg.Driver)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	repo := &SQLRepository{
		db:     db,
		driver: cfg.Driver,
	}

	if err := repo.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return repo, nil
}

func (r *SQLRepository) migrate() error {
	for _, schema := range AllSchemas() {
		if _, err := r.db.Exec(schema); err != nil {
			return err
		}
	}
	return nil
}

// SaveAnalysis stores an analysis and its lender buckets in one transaction.
func (r *SQLRepository) SaveAnalysis(ctx context.Context, tenantID string, a *domain.Analysis) error {
	if tenantID == "" {
		return fmt.Errorf("%w: tenantID is required", ErrInvalidInput)
	}
	if a == nil || a.ID == "" {
		return fmt.Errorf("%w: analysis id is required", ErrInvalidInput)
	}

	payload, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("failed to encode analysis: %w", err)
	}
	s := a.Summary()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
		INSERT INTO analyses (
			id, tenant_id, reference, status, risk_score, risk_tier,
			lender_count, estimated_debt, recommendation, fingerprint,
			created_at, payload
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	if _, err := tx.ExecContext(ctx, r.rebind(query),
		a.ID, tenantID, a.Reference, a.Status, s.RiskScore, string(s.RiskTier),
		s.LenderCount, s.EstimatedDebt, a.Recommendation, a.Metadata.Fingerprint,
		a.CreatedAt, string(payload),
	); err != nil {
		return err
	}

	if a.Detection != nil {
		entity := r.rebind(`
			INSERT INTO analysis_lenders (
				analysis_id, tenant_id, bucket, entity_key, name, score, source, total_paid, tx_count
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`)
		for _, kind := range []domain.BucketKind{domain.BucketConfirmed, domain.BucketProbable, domain.BucketPossible} {
			for _, b := range a.Detection.Buckets(kind) {
				if _, err := tx.ExecContext(ctx, entity,
					a.ID, tenantID, string(kind), b.Key, b.Name, b.Score, string(b.Source), b.TotalPaid, b.Count(),
				); err != nil {
					return fmt.Errorf("failed to save lender %s: %w", b.Key, err)
				}
			}
		}
	}

	return tx.Commit()
}

// GetAnalysis retrieves an analysis by ID with tenant isolation.
func (r *SQLRepository) GetAnalysis(ctx context.Context, tenantID string, id string) (*domain.Analysis, error) {
	if tenantID == "" {
		return nil, fmt.Errorf("%w: tenantID is required", ErrInvalidInput)
	}

	query := `SELECT payload FROM analyses WHERE tenant_id = ? AND id = ?`

	var payload string
	err := r.db.QueryRowContext(ctx, r.rebind(query), tenantID, id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var a domain.Analysis
	if err := json.Unmarshal([]byte(payload), &a); err != nil {
		return nil, fmt.Errorf("failed to decode analysis %s: %w", id, err)
	}
	return &a, nil
}

// ListAnalyses returns summaries newest first. An empty reference lists all.
func (r *SQLRepository) ListAnalyses(ctx context.Context, tenantID string, reference string, limit int) ([]*domain.AnalysisSummary, error) {
	if tenantID == "" {
		return nil, fmt.Errorf("%w: tenantID is required", ErrInvalidInput)
	}
	if limit <= 0 {
		limit = DefaultListLimit
	}

	query := `
		SELECT id, tenant_id, reference, status, risk_score, risk_tier,
			   lender_count, estimated_debt, recommendation
		FROM analyses
		WHERE tenant_id = ? AND (? = '' OR reference = ?)
		ORDER BY created_at DESC, id
		LIMIT ?
	`

	rows, err := r.db.QueryContext(ctx, r.rebind(query), tenantID, reference, reference, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summaries := []*domain.AnalysisSummary{}
	for rows.Next() {
		var s domain.AnalysisSummary
		var tier string
		if err := rows.Scan(
			&s.AnalysisID, &s.TenantID, &s.Reference, &s.Status, &s.RiskScore, &tier,
			&s.LenderCount, &s.EstimatedDebt, &s.Recommendation,
		); err != nil {
			return nil, err
		}
		s.RiskTier = domain.RiskTier(tier)
		summaries = append(summaries, &s)
	}

	return summaries, rows.Err()
}

// TopLenders aggregates stored lender buckets for a tenant, most frequent first.
func (r *SQLRepository) TopLenders(ctx context.Context, tenantID string, limit int) ([]*domain.LenderExposure, error) {
	if tenantID == "" {
		return nil, fmt.Errorf("%w: tenantID is required", ErrInvalidInput)
	}
	if limit <= 0 {
		limit = DefaultListLimit
	}

	query := `
		SELECT entity_key, MIN(name), bucket, COUNT(DISTINCT analysis_id), SUM(total_paid)
		FROM analysis_lenders
		WHERE tenant_id = ?
		GROUP BY entity_key, bucket
		ORDER BY COUNT(DISTINCT analysis_id) DESC, SUM(total_paid) DESC, entity_key
		LIMIT ?
	`

	rows, err := r.db.QueryContext(ctx, r.rebind(query), tenantID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*domain.LenderExposure{}
	for rows.Next() {
		var e domain.LenderExposure
		if err := rows.Scan(&e.EntityKey, &e.Name, &e.Bucket, &e.Analyses, &e.TotalPaid); err != nil {
			return nil, err
		}
		out = append(out, &e)
	}
	return out, rows.Err()
}

// Ping checks database connectivity.
func (r *SQLRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// Close closes the database connection.
func (r *SQLRepository) Close() error {
	return r.db.Close()
}

// rebind converts ? placeholders to $1, $2, etc. for PostgreSQL.
func (r *SQLRepository) rebind(query string) string {
	if r.driver != "postgres" {
		return query
	}

	var b strings.Builder
	n := 1
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			n++
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}
