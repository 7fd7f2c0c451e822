package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ranklens/ranklens/internal/domain"
)

// ToolUsageLog is a persisted record of a tool run. The full analysis
// result is stored as JSON for history only and is never re-validated.
type ToolUsageLog struct {
	ID           uuid.UUID
	UserID       uuid.UUID
	ProjectID    uuid.NullUUID
	ToolType     domain.ToolType
	URL          string
	OverallScore int
	Result       json.RawMessage
	CreatedAt    time.Time
}

// CreateToolUsageLog persists an analysis run and its result snapshot.
func (q *Queries) CreateToolUsageLog(ctx context.Context, userID uuid.UUID, projectID *uuid.UUID, result *domain.AnalysisResult) (*ToolUsageLog, error) {
	payload, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("marshal analysis result: %w", err)
	}

	var pid uuid.NullUUID
	if projectID != nil {
		pid = uuid.NullUUID{UUID: *projectID, Valid: true}
	}

	const query = `
INSERT INTO tool_usage_logs (id, user_id, project_id, tool_type, url, overall_score, result)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id, user_id, project_id, tool_type, url, overall_score, result, created_at`
	var log ToolUsageLog
	err = q.db.QueryRowContext(ctx, query, uuid.New(), userID, pid, result.ToolType, result.URL, result.OverallScore, payload).
		Scan(&log.ID, &log.UserID, &log.ProjectID, &log.ToolType, &log.URL, &log.OverallScore, &log.Result, &log.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create tool usage log: %w", err)
	}
	return &log, nil
}

// CountToolUsageByUser counts tool runs for a user within a time window.
// Monthly accounting passes month boundaries; the daily ceiling passes
// same-day boundaries.
func (q *Queries) CountToolUsageByUser(ctx context.Context, userID uuid.UUID, from, to time.Time) (int64, error) {
	const query = `
SELECT COUNT(*) FROM tool_usage_logs
WHERE user_id = $1 AND created_at >= $2 AND created_at < $3`
	var count int64
	if err := q.db.QueryRowContext(ctx, query, userID, from, to).Scan(&count); err != nil {
		return 0, fmt.Errorf("count tool usage: %w", err)
	}
	return count, nil
}

// ListToolUsageByUser returns recent tool runs for a user.
func (q *Queries) ListToolUsageByUser(ctx context.Context, userID uuid.UUID, limit int32) ([]ToolUsageLog, error) {
	const query = `
SELECT id, user_id, project_id, tool_type, url, overall_score, result, created_at
FROM tool_usage_logs
WHERE user_id = $1
ORDER BY created_at DESC
LIMIT $2`
	rows, err := q.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list tool usage: %w", err)
	}
	defer rows.Close()

	var logs []ToolUsageLog
	for rows.Next() {
		var log ToolUsageLog
		if err := rows.Scan(&log.ID, &log.UserID, &log.ProjectID, &log.ToolType, &log.URL, &log.OverallScore, &log.Result, &log.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan tool usage log: %w", err)
		}
		logs = append(logs, log)
	}
	return logs, rows.Err()
}

// LatestAnalysesByProject returns the most recent stored analysis results
// for a project, for report generation.
func (q *Queries) LatestAnalysesByProject(ctx context.Context, projectID uuid.UUID, limit int32) ([]domain.AnalysisResult, error) {
	const query = `
SELECT result FROM tool_usage_logs
WHERE project_id = $1
ORDER BY created_at DESC
LIMIT $2`
	rows, err := q.db.QueryContext(ctx, query, projectID, limit)
	if err != nil {
		return nil, fmt.Errorf("latest analyses: %w", err)
	}
	defer rows.Close()

	var results []domain.AnalysisResult
	for rows.Next() {
		var raw json.RawMessage
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan analysis row: %w", err)
		}
		var result domain.AnalysisResult
		if err := json.Unmarshal(raw, &result); err != nil {
			// Skip corrupt history rows rather than failing the report.
			continue
		}
		results = append(results, result)
	}
	return results, rows.Err()
}
