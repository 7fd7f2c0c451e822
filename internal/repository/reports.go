package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ranklens/ranklens/internal/domain"
)

// CreateReport persists a rendered report document.
func (q *Queries) CreateReport(ctx context.Context, report *domain.Report) (*domain.Report, error) {
	const query = `
INSERT INTO reports (id, user_id, project_id, title, format, content)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id, created_at`
	id := uuid.New()
	var created domain.Report = *report
	err := q.db.QueryRowContext(ctx, query, id, report.UserID, report.ProjectID, report.Title, report.Format, report.Content).
		Scan(&created.ID, &created.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create report: %w", err)
	}
	return &created, nil
}

// GetReportByID fetches a report including its rendered content.
func (q *Queries) GetReportByID(ctx context.Context, id uuid.UUID) (*domain.Report, error) {
	const query = `
SELECT id, user_id, project_id, title, format, content, created_at
FROM reports
WHERE id = $1`
	var r domain.Report
	err := q.db.QueryRowContext(ctx, query, id).
		Scan(&r.ID, &r.UserID, &r.ProjectID, &r.Title, &r.Format, &r.Content, &r.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get report: %w", err)
	}
	return &r, nil
}

// CountReportsByUser counts reports generated within a time window.
func (q *Queries) CountReportsByUser(ctx context.Context, userID uuid.UUID, from, to time.Time) (int64, error) {
	const query = `
SELECT COUNT(*) FROM reports
WHERE user_id = $1 AND created_at >= $2 AND created_at < $3`
	var count int64
	if err := q.db.QueryRowContext(ctx, query, userID, from, to).Scan(&count); err != nil {
		return 0, fmt.Errorf("count reports: %w", err)
	}
	return count, nil
}
