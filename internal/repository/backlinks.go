package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/ranklens/ranklens/internal/domain"
)

// CreateBacklink inserts an active backlink row.
func (q *Queries) CreateBacklink(ctx context.Context, projectID, userID uuid.UUID, sourceURL, targetURL string) (*domain.Backlink, error) {
	const query = `
INSERT INTO backlinks (id, project_id, user_id, source_url, target_url, status)
VALUES ($1, $2, $3, $4, $5, 'active')
RETURNING id, project_id, user_id, source_url, target_url, status, created_at`
	var b domain.Backlink
	err := q.db.QueryRowContext(ctx, query, uuid.New(), projectID, userID, sourceURL, targetURL).
		Scan(&b.ID, &b.ProjectID, &b.UserID, &b.SourceURL, &b.TargetURL, &b.Status, &b.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create backlink: %w", err)
	}
	return &b, nil
}

// CountActiveBacklinksByUser counts a user's active backlinks. Lost links
// do not count against the ceiling.
func (q *Queries) CountActiveBacklinksByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	const query = `SELECT COUNT(*) FROM backlinks WHERE user_id = $1 AND status = 'active'`
	var count int64
	if err := q.db.QueryRowContext(ctx, query, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count backlinks: %w", err)
	}
	return count, nil
}

// ListBacklinksByProject returns backlinks for a project, newest first.
func (q *Queries) ListBacklinksByProject(ctx context.Context, projectID uuid.UUID) ([]domain.Backlink, error) {
	const query = `
SELECT id, project_id, user_id, source_url, target_url, status, created_at
FROM backlinks
WHERE project_id = $1
ORDER BY created_at DESC`
	rows, err := q.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("list backlinks: %w", err)
	}
	defer rows.Close()

	var backlinks []domain.Backlink
	for rows.Next() {
		var b domain.Backlink
		if err := rows.Scan(&b.ID, &b.ProjectID, &b.UserID, &b.SourceURL, &b.TargetURL, &b.Status, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan backlink: %w", err)
		}
		backlinks = append(backlinks, b)
	}
	return backlinks, rows.Err()
}

// MarkBacklinkLost flags a backlink as lost.
func (q *Queries) MarkBacklinkLost(ctx context.Context, id uuid.UUID) error {
	const query = `UPDATE backlinks SET status = 'lost' WHERE id = $1`
	res, err := q.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("mark backlink lost: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}
