package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ranklens/ranklens/internal/domain"
)

// ErrNotFound is returned when a queried row does not exist.
var ErrNotFound = errors.New("repository: not found")

// ErrDuplicate is returned when an insert violates a unique constraint.
var ErrDuplicate = errors.New("repository: duplicate")

// isUniqueViolation reports whether err is a Postgres unique constraint
// violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

const userColumns = `id, email, password_hash, name, role, plan, banned,
	usage_projects, usage_submissions, usage_seo_tools, usage_backlinks, usage_reports,
	created_at, updated_at`

func scanUser(row interface{ Scan(...interface{}) error }) (*domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.Role, &u.Plan, &u.Banned,
		&u.CachedUsage.Projects, &u.CachedUsage.Submissions, &u.CachedUsage.SEOTools,
		&u.CachedUsage.Backlinks, &u.CachedUsage.Reports,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return &u, nil
}

// CreateUser inserts a new user with the free plan and zeroed counters.
// A concurrent insert of the same email surfaces as ErrDuplicate.
func (q *Queries) CreateUser(ctx context.Context, email, passwordHash, name string) (*domain.User, error) {
	const query = `
INSERT INTO users (id, email, password_hash, name, role, plan)
VALUES ($1, $2, $3, $4, 'user', 'free')
RETURNING ` + userColumns
	user, err := scanUser(q.db.QueryRowContext(ctx, query, uuid.New(), email, passwordHash, name))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return user, nil
}

// GetUserByID fetches a user by ID.
func (q *Queries) GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(q.db.QueryRowContext(ctx, query, id))
}

// GetUserByIDForUpdate fetches a user by ID with a row lock. Run inside a
// transaction; this serializes concurrent usage checks for the same tenant.
func (q *Queries) GetUserByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE id = $1 FOR UPDATE`
	return scanUser(q.db.QueryRowContext(ctx, query, id))
}

// GetUserByEmail fetches a user by email.
func (q *Queries) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(q.db.QueryRowContext(ctx, query, email))
}

// UpdateUserCachedUsage refreshes the cached counter for one category.
// The cache is display-only; accounting always recounts live rows.
func (q *Queries) UpdateUserCachedUsage(ctx context.Context, id uuid.UUID, category domain.UsageCategory, value int64) error {
	var column string
	switch category {
	case domain.CategoryProjects:
		column = "usage_projects"
	case domain.CategorySubmissions:
		column = "usage_submissions"
	case domain.CategorySEOTools:
		column = "usage_seo_tools"
	case domain.CategoryBacklinks:
		column = "usage_backlinks"
	case domain.CategoryReports:
		column = "usage_reports"
	default:
		return fmt.Errorf("unknown usage category: %s", category)
	}

	query := fmt.Sprintf(`UPDATE users SET %s = $1, updated_at = NOW() WHERE id = $2`, column)
	if _, err := q.db.ExecContext(ctx, query, value, id); err != nil {
		return fmt.Errorf("update cached usage: %w", err)
	}
	return nil
}

// SetUserBanned toggles the soft-ban flag. Users are never hard-deleted.
func (q *Queries) SetUserBanned(ctx context.Context, id uuid.UUID, banned bool) error {
	const query = `UPDATE users SET banned = $1, updated_at = NOW() WHERE id = $2`
	res, err := q.db.ExecContext(ctx, query, banned, id)
	if err != nil {
		return fmt.Errorf("set user banned: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateUserPlan changes a user's subscription plan.
func (q *Queries) UpdateUserPlan(ctx context.Context, id uuid.UUID, plan domain.Plan) error {
	const query = `UPDATE users SET plan = $1, updated_at = NOW() WHERE id = $2`
	res, err := q.db.ExecContext(ctx, query, plan, id)
	if err != nil {
		return fmt.Errorf("update user plan: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}
