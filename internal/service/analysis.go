package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/ranklens/ranklens/internal/domain"
	"github.com/ranklens/ranklens/internal/metrics"
	"github.com/ranklens/ranklens/internal/repository"
)

// PageAnalyzer scores a single page. Implemented by analyzer.Analyzer.
type PageAnalyzer interface {
	Analyze(ctx context.Context, rawURL string, toolType domain.ToolType) *domain.AnalysisResult
}

// AnalyzeParams carries one analysis request.
type AnalyzeParams struct {
	UserID    uuid.UUID
	URL       string
	ToolType  domain.ToolType
	ProjectID *uuid.UUID
}

// historyLimit caps how many past runs the history endpoint returns.
const historyLimit = 50

// AnalysisService runs the page scorer for tenants.
type AnalysisService interface {
	// Analyze runs one tool invocation. Gated on the seoTools monthly and
	// daily ceilings; the result is persisted to the tool usage log.
	Analyze(ctx context.Context, params AnalyzeParams) (*domain.AnalysisResult, error)

	// History returns the user's most recent tool runs, newest first.
	History(ctx context.Context, userID uuid.UUID) ([]domain.ToolRun, error)
}

type analysisService struct {
	queries  *repository.Queries
	projects ProjectService
	usage    UsageService
	analyzer PageAnalyzer
	logger   *slog.Logger
}

// NewAnalysisService creates a new AnalysisService.
func NewAnalysisService(queries *repository.Queries, projects ProjectService, usage UsageService, analyzer PageAnalyzer, logger *slog.Logger) AnalysisService {
	return &analysisService{
		queries:  queries,
		projects: projects,
		usage:    usage,
		analyzer: analyzer,
		logger:   logger,
	}
}

// Analyze runs one tool invocation for a user.
func (s *analysisService) Analyze(ctx context.Context, params AnalyzeParams) (*domain.AnalysisResult, error) {
	const op = "analysis.analyze"

	if params.URL == "" {
		return nil, domain.Invalid(op, "URL is required")
	}
	if params.ToolType == "" {
		params.ToolType = domain.ToolTypeSEOAnalysis
	}
	if params.ProjectID != nil {
		if _, err := s.projects.Get(ctx, params.UserID, *params.ProjectID); err != nil {
			return nil, err
		}
	}

	tracked, err := s.usage.TrackUsage(ctx, params.UserID, domain.CategorySEOTools, 1, TrackOptions{ProjectID: params.ProjectID})
	if err != nil {
		return nil, err
	}
	if !tracked.Success {
		return nil, &domain.LimitError{
			Op:           op,
			LimitType:    tracked.LimitType,
			CurrentUsage: tracked.CurrentUsage,
			Limit:        tracked.Limit,
			Message:      tracked.Message,
		}
	}

	// The scorer never errors; fetch failures come back as a zeroed result.
	result := s.analyzer.Analyze(ctx, params.URL, params.ToolType)
	metrics.AnalysesRun.WithLabelValues(string(params.ToolType), analysisStatus(result)).Inc()

	// The log row is an audit trail; a write failure does not void an
	// analysis the user already paid quota for.
	if _, err := s.queries.CreateToolUsageLog(ctx, params.UserID, params.ProjectID, result); err != nil {
		s.logger.Error("failed to persist tool usage log",
			"user_id", params.UserID,
			"url", result.URL,
			"error", err,
		)
	}

	return result, nil
}

// History returns the user's most recent tool runs.
func (s *analysisService) History(ctx context.Context, userID uuid.UUID) ([]domain.ToolRun, error) {
	const op = "analysis.history"

	logs, err := s.queries.ListToolUsageByUser(ctx, userID, historyLimit)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to list tool runs")
	}

	runs := make([]domain.ToolRun, 0, len(logs))
	for _, log := range logs {
		runs = append(runs, domain.ToolRun{
			ID:           log.ID,
			ToolType:     log.ToolType,
			URL:          log.URL,
			OverallScore: log.OverallScore,
			CreatedAt:    log.CreatedAt,
		})
	}
	return runs, nil
}

func analysisStatus(result *domain.AnalysisResult) string {
	if len(result.Recommendations) == 1 && result.Recommendations[0].Category == "Error" {
		return "failed"
	}
	return "ok"
}
