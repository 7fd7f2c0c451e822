package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/ranklens/ranklens/internal/domain"
)

const projectColumns = `id, user_id, name, url, status, created_at, updated_at`

func scanProject(row interface{ Scan(...interface{}) error }) (*domain.Project, error) {
	var p domain.Project
	err := row.Scan(&p.ID, &p.UserID, &p.Name, &p.URL, &p.Status, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan project: %w", err)
	}
	return &p, nil
}

// CreateProject inserts a new draft project.
func (q *Queries) CreateProject(ctx context.Context, params domain.CreateProjectParams) (*domain.Project, error) {
	const query = `
INSERT INTO projects (id, user_id, name, url, status)
VALUES ($1, $2, $3, $4, 'draft')
RETURNING ` + projectColumns
	row := q.db.QueryRowContext(ctx, query, uuid.New(), params.UserID, params.Name, params.URL)
	return scanProject(row)
}

// GetProjectByID fetches a project by ID.
func (q *Queries) GetProjectByID(ctx context.Context, id uuid.UUID) (*domain.Project, error) {
	const query = `SELECT ` + projectColumns + ` FROM projects WHERE id = $1`
	return scanProject(q.db.QueryRowContext(ctx, query, id))
}

// ListProjectsByUser returns all non-archived projects for a user, newest first.
func (q *Queries) ListProjectsByUser(ctx context.Context, userID uuid.UUID) ([]domain.Project, error) {
	const query = `
SELECT ` + projectColumns + `
FROM projects
WHERE user_id = $1 AND status != 'archived'
ORDER BY created_at DESC`
	rows, err := q.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	var projects []domain.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, *p)
	}
	return projects, rows.Err()
}

// CountProjectsByUser counts a user's non-archived projects. This is the
// live count the accounting layer trusts over the cached counter.
func (q *Queries) CountProjectsByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	const query = `SELECT COUNT(*) FROM projects WHERE user_id = $1 AND status != 'archived'`
	var count int64
	if err := q.db.QueryRowContext(ctx, query, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count projects: %w", err)
	}
	return count, nil
}

// UpdateProjectStatus persists a project status change.
func (q *Queries) UpdateProjectStatus(ctx context.Context, id uuid.UUID, status domain.ProjectStatus) error {
	const query = `UPDATE projects SET status = $1, updated_at = NOW() WHERE id = $2`
	res, err := q.db.ExecContext(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("update project status: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteProject removes a project and its dependent rows (cascaded by schema).
func (q *Queries) DeleteProject(ctx context.Context, id uuid.UUID) error {
	const query = `DELETE FROM projects WHERE id = $1`
	res, err := q.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}
