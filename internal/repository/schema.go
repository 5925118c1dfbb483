package repository

// Schema definitions for the FRICTRAK database.
// Compatible with both SQLite and PostgreSQL.

const schemaAnalyses = `
CREATE TABLE IF NOT EXISTS analyses (
    id TEXT PRIMARY KEY,
    tenant_id TEXT NOT NULL,
    reference TEXT NOT NULL,
    status TEXT NOT NULL,
    risk_score INTEGER NOT NULL,
    risk_tier TEXT NOT NULL,
    lender_count INTEGER NOT NULL,
    estimated_debt REAL NOT NULL,
    recommendation TEXT NOT NULL,
    fingerprint TEXT,
    created_at TIMESTAMP NOT NULL,
    payload TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_analyses_tenant ON analyses(tenant_id);
CREATE INDEX IF NOT EXISTS idx_analyses_reference ON analyses(tenant_id, reference);
CREATE INDEX IF NOT EXISTS idx_analyses_status ON analyses(tenant_id, status);
CREATE INDEX IF NOT EXISTS idx_analyses_created ON analyses(tenant_id, created_at);
`

// schemaAnalysisLenders holds one row per confirmed, probable or possible
// bucket of a stored analysis.
const schemaAnalysisLenders = `
CREATE TABLE IF NOT EXISTS analysis_lenders (
    analysis_id TEXT NOT NULL,
    tenant_id TEXT NOT NULL,
    bucket TEXT NOT NULL,
    entity_key TEXT NOT NULL,
    name TEXT NOT NULL,
    score INTEGER NOT NULL,
    source TEXT NOT NULL,
    total_paid REAL NOT NULL,
    tx_count INTEGER NOT NULL,
    PRIMARY KEY (analysis_id, bucket, entity_key)
);

CREATE INDEX IF NOT EXISTS idx_analysis_lenders_tenant ON analysis_lenders(tenant_id, entity_key);
`

// AllSchemas returns all schema statements in order.
func AllSchemas() []string {
	return []string{
		schemaAnalyses,
		schemaAnalysisLenders,
	}
}
