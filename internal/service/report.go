package service

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ranklens/ranklens/internal/domain"
	"github.com/ranklens/ranklens/internal/metrics"
	"github.com/ranklens/ranklens/internal/report"
	"github.com/ranklens/ranklens/internal/repository"
)

// generateTimeout bounds a single report render.
const generateTimeout = 30 * time.Second

// maxReportAnalyses caps how many recent analyses a report includes.
const maxReportAnalyses = 20

// ReportService renders and stores analysis reports.
type ReportService interface {
	// Generate renders a report over the project's recent analyses after
	// the usage accountant admits it, and stores the rendered document.
	Generate(ctx context.Context, userID, projectID uuid.UUID, format domain.ReportFormat) (*domain.Report, error)

	// Get fetches a stored report the user owns, for download.
	Get(ctx context.Context, userID, reportID uuid.UUID) (*domain.Report, error)
}

type reportService struct {
	queries  *repository.Queries
	projects ProjectService
	usage    UsageService
	logger   *slog.Logger
}

// NewReportService creates a new ReportService.
func NewReportService(queries *repository.Queries, projects ProjectService, usage UsageService, logger *slog.Logger) ReportService {
	return &reportService{
		queries:  queries,
		projects: projects,
		usage:    usage,
		logger:   logger,
	}
}

// Generate renders and stores a report for a project.
func (s *reportService) Generate(ctx context.Context, userID, projectID uuid.UUID, format domain.ReportFormat) (*domain.Report, error) {
	const op = "report.generate"

	if !format.Valid() {
		return nil, domain.Invalid(op, "Report format must be html or pdf")
	}

	project, err := s.projects.Get(ctx, userID, projectID)
	if err != nil {
		return nil, err
	}
	user, err := s.queries.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.NotFound(op, "user", userID.String())
		}
		return nil, domain.Internal(err, op, "failed to load user")
	}

	tracked, err := s.usage.TrackUsage(ctx, userID, domain.CategoryReports, 1, TrackOptions{})
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

	analyses, err := s.queries.LatestAnalysesByProject(ctx, projectID, maxReportAnalyses)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to load analyses")
	}

	data := &domain.ReportData{
		Title:       project.Name + " SEO Report",
		ProjectName: project.Name,
		ProjectURL:  project.URL,
		OwnerName:   user.DisplayName(),
		GeneratedAt: time.Now().UTC(),
		Analyses:    analyses,
	}

	renderCtx, cancel := context.WithTimeout(ctx, generateTimeout)
	defer cancel()

	var buf bytes.Buffer
	if _, err := report.ForFormat(format).Generate(renderCtx, data, &buf); err != nil {
		return nil, domain.Internal(err, op, "failed to render report")
	}

	stored, err := s.queries.CreateReport(ctx, &domain.Report{
		UserID:    userID,
		ProjectID: projectID,
		Title:     data.Title,
		Format:    format,
		Content:   buf.Bytes(),
	})
	if err != nil {
		return nil, domain.Internal(err, op, "failed to store report")
	}

	metrics.ReportsGenerated.WithLabelValues(string(format)).Inc()
	s.logger.Info("report generated",
		"report_id", stored.ID,
		"project_id", projectID,
		"format", format,
		"size_bytes", len(stored.Content),
		"analyses", len(analyses),
	)
	return stored, nil
}

// Get fetches a stored report, enforcing ownership.
func (s *reportService) Get(ctx context.Context, userID, reportID uuid.UUID) (*domain.Report, error) {
	const op = "report.get"

	stored, err := s.queries.GetReportByID(ctx, reportID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.NotFound(op, "report", reportID.String())
		}
		return nil, domain.Internal(err, op, "failed to load report")
	}
	if stored.UserID != userID {
		return nil, domain.NotFound(op, "report", reportID.String())
	}
	return stored, nil
}

// SanitizeFilename builds a safe download filename from a report title.
func SanitizeFilename(title string, format domain.ReportFormat) string {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '-' || r == '_':
			return r
		case r == ' ':
			return '-'
		default:
			return -1
		}
	}, title)
	if cleaned == "" {
		cleaned = "report"
	}
	return cleaned + "." + format.Extension()
}
