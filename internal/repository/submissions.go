package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ranklens/ranklens/internal/domain"
)

// CreateSubmission inserts a directory submission row.
func (q *Queries) CreateSubmission(ctx context.Context, projectID, userID uuid.UUID, directory string, status domain.SubmissionStatus) (*domain.Submission, error) {
	const query = `
INSERT INTO submissions (id, project_id, user_id, directory, status)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, project_id, user_id, directory, status, created_at`
	var s domain.Submission
	err := q.db.QueryRowContext(ctx, query, uuid.New(), projectID, userID, directory, status).
		Scan(&s.ID, &s.ProjectID, &s.UserID, &s.Directory, &s.Status, &s.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create submission: %w", err)
	}
	return &s, nil
}

// CountSuccessfulSubmissionsByUser counts success rows for a user within a
// time window. Monthly accounting passes calendar-month boundaries.
func (q *Queries) CountSuccessfulSubmissionsByUser(ctx context.Context, userID uuid.UUID, from, to time.Time) (int64, error) {
	const query = `
SELECT COUNT(*) FROM submissions
WHERE user_id = $1 AND status = 'success' AND created_at >= $2 AND created_at < $3`
	var count int64
	if err := q.db.QueryRowContext(ctx, query, userID, from, to).Scan(&count); err != nil {
		return 0, fmt.Errorf("count submissions: %w", err)
	}
	return count, nil
}

// CountSubmissionsByProject counts all submission rows for a project within
// a time window, regardless of status. The per-project daily ceiling uses
// this with same-day boundaries.
func (q *Queries) CountSubmissionsByProject(ctx context.Context, projectID uuid.UUID, from, to time.Time) (int64, error) {
	const query = `
SELECT COUNT(*) FROM submissions
WHERE project_id = $1 AND created_at >= $2 AND created_at < $3`
	var count int64
	if err := q.db.QueryRowContext(ctx, query, projectID, from, to).Scan(&count); err != nil {
		return 0, fmt.Errorf("count project submissions: %w", err)
	}
	return count, nil
}

// ListSubmissionsByProject returns submissions for a project, newest first.
func (q *Queries) ListSubmissionsByProject(ctx context.Context, projectID uuid.UUID) ([]domain.Submission, error) {
	const query = `
SELECT id, project_id, user_id, directory, status, created_at
FROM submissions
WHERE project_id = $1
ORDER BY created_at DESC`
	rows, err := q.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	defer rows.Close()

	var submissions []domain.Submission
	for rows.Next() {
		var s domain.Submission
		if err := rows.Scan(&s.ID, &s.ProjectID, &s.UserID, &s.Directory, &s.Status, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan submission: %w", err)
		}
		submissions = append(submissions, s)
	}
	return submissions, rows.Err()
}
