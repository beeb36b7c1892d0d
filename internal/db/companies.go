package db

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jonathan/leadprep/internal/types"
)

const upsertCompanyQuery = `INSERT INTO companies (id, domain, name, industry)
	 VALUES ($1, $2, $3, NULLIF($4, ''))
	 ON CONFLICT (domain) DO UPDATE
	 SET name = EXCLUDED.name,
	     industry = COALESCE(EXCLUDED.industry, companies.industry),
	     updated_at = NOW()
	 RETURNING id, domain, name, industry, created_at, updated_at`

const getCompanyByDomainQuery = `SELECT id, domain, name, industry, created_at, updated_at
	 FROM companies WHERE domain = $1`

const upsertLeaderQuery = `INSERT INTO leaders (id, company_id, name, title, data_source)
	 VALUES ($1, $2, $3, $4, $5)
	 ON CONFLICT (company_id, name) DO UPDATE
	 SET title = EXCLUDED.title,
	     data_source = EXCLUDED.data_source,
	     updated_at = NOW()`

const pruneLeadersQuery = `DELETE FROM leaders
	 WHERE company_id = $1 AND NOT (name = ANY($2))`

const getCompanyLeadersQuery = `SELECT l.name, l.title
	 FROM leaders l
	 JOIN companies c ON c.id = l.company_id
	 WHERE c.domain = $1
	 ORDER BY l.created_at, l.name`

// querier is satisfied by both the pool and a transaction.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// UpsertCompany creates the company for domain or refreshes its name and industry
func (db *DB) UpsertCompany(ctx context.Context, domain, name, industry string) (*Company, error) {
	return upsertCompany(ctx, db.pool, domain, name, industry)
}

func upsertCompany(ctx context.Context, q querier, domain, name, industry string) (*Company, error) {
	domain = strings.ToLower(strings.TrimSpace(domain))
	if domain == "" {
		return nil, fmt.Errorf("company domain cannot be empty")
	}
	if strings.TrimSpace(name) == "" {
		name = domain
	}

	var c Company
	err := q.QueryRow(ctx, upsertCompanyQuery, uuid.New(), domain, name, industry).
		Scan(&c.ID, &c.Domain, &c.Name, &c.Industry, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert company: %w", err)
	}
	return &c, nil
}

// GetCompanyByDomain retrieves a company by domain, or nil if unknown
func (db *DB) GetCompanyByDomain(ctx context.Context, domain string) (*Company, error) {
	var c Company
	err := db.pool.QueryRow(ctx, getCompanyByDomainQuery, strings.ToLower(strings.TrimSpace(domain))).
		Scan(&c.ID, &c.Domain, &c.Name, &c.Industry, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get company: %w", err)
	}
	return &c, nil
}

// ReplaceLeaders makes leaders the company's complete leader set in one
// transaction and returns how many rows were written. Stored leaders missing
// from the new set are removed. Blank names are skipped.
func (db *DB) ReplaceLeaders(ctx context.Context, companyID uuid.UUID, leaders []types.Leader, source string) (int, error) {
	leaders = types.DedupLeaders(leaders)
	if len(leaders) == 0 {
		return 0, nil
	}

	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := replaceLeaders(ctx, tx, companyID, leaders, source); err != nil {
		_ = tx.Rollback(ctx)
		return 0, err
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit leaders: %w", err)
	}
	return len(leaders), nil
}

// replaceLeaders expects leaders already deduplicated and non-empty.
func replaceLeaders(ctx context.Context, q querier, companyID uuid.UUID, leaders []types.Leader, source string) error {
	if source == "" {
		source = "unknown"
	}

	names := make([]string, len(leaders))
	for i, l := range leaders {
		names[i] = l.Name
	}
	if _, err := q.Exec(ctx, pruneLeadersQuery, companyID, names); err != nil {
		return fmt.Errorf("failed to remove stale leaders: %w", err)
	}

	for _, l := range leaders {
		if _, err := q.Exec(ctx, upsertLeaderQuery, uuid.New(), companyID, l.Name, l.Title, source); err != nil {
			return fmt.Errorf("failed to upsert leader %s: %w", l.Name, err)
		}
	}
	return nil
}

// GetCompanyLeaders returns the stored leaders for domain, or nil if none
func (db *DB) GetCompanyLeaders(ctx context.Context, domain string) ([]types.Leader, error) {
	rows, err := db.pool.Query(ctx, getCompanyLeadersQuery, strings.ToLower(strings.TrimSpace(domain)))
	if err != nil {
		return nil, fmt.Errorf("failed to query leaders: %w", err)
	}
	defer rows.Close()

	var leaders []types.Leader
	for rows.Next() {
		var l types.Leader
		if err := rows.Scan(&l.Name, &l.Title); err != nil {
			return nil, fmt.Errorf("failed to scan leader: %w", err)
		}
		leaders = append(leaders, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate leaders: %w", err)
	}
	return leaders, nil
}

// SaveCompanyData upserts the company and replaces its leaders in a single
// transaction. It reports false without touching the database when there
// is nothing to save.
func (db *DB) SaveCompanyData(ctx context.Context, domain string, leaders []types.Leader, source string) (bool, error) {
	leaders = types.DedupLeaders(leaders)
	if len(leaders) == 0 {
		return false, nil
	}

	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}

	company, err := upsertCompany(ctx, tx, domain, types.CompanyNameFromDomain(domain), "")
	if err != nil {
		_ = tx.Rollback(ctx)
		return false, err
	}
	if err := replaceLeaders(ctx, tx, company.ID, leaders, source); err != nil {
		_ = tx.Rollback(ctx)
		return false, err
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("failed to commit company data: %w", err)
	}
	return true, nil
}
