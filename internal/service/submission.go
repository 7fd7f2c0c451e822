package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/ranklens/ranklens/internal/domain"
	"github.com/ranklens/ranklens/internal/metrics"
	"github.com/ranklens/ranklens/internal/repository"
)

// SubmissionService defines operations for directory submissions.
type SubmissionService interface {
	// Submit records a directory submission for a project after the usage
	// accountant admits it. Gated on both the monthly ceiling and the
	// per-project daily ceiling.
	Submit(ctx context.Context, userID, projectID uuid.UUID, directory string) (*domain.Submission, error)

	List(ctx context.Context, userID, projectID uuid.UUID) ([]domain.Submission, error)
}

type submissionService struct {
	queries  *repository.Queries
	projects ProjectService
	usage    UsageService
	logger   *slog.Logger
}

// NewSubmissionService creates a new SubmissionService.
func NewSubmissionService(queries *repository.Queries, projects ProjectService, usage UsageService, logger *slog.Logger) SubmissionService {
	return &submissionService{
		queries:  queries,
		projects: projects,
		usage:    usage,
		logger:   logger,
	}
}

// Submit records a directory submission.
func (s *submissionService) Submit(ctx context.Context, userID, projectID uuid.UUID, directory string) (*domain.Submission, error) {
	const op = "submission.submit"

	directory = strings.TrimSpace(directory)
	if directory == "" {
		return nil, domain.Invalid(op, "Directory name is required")
	}

	// Ownership check before any accounting.
	if _, err := s.projects.Get(ctx, userID, projectID); err != nil {
		return nil, err
	}

	result, err := s.usage.TrackUsage(ctx, userID, domain.CategorySubmissions, 1, TrackOptions{ProjectID: &projectID})
	if err != nil {
		return nil, err
	}
	if !result.Success {
		return nil, &domain.LimitError{
			Op:           op,
			LimitType:    result.LimitType,
			CurrentUsage: result.CurrentUsage,
			Limit:        result.Limit,
			Message:      result.Message,
		}
	}

	// Submissions to external directories are recorded as successful
	// immediately; there is no async follow-up in this pipeline.
	submission, err := s.queries.CreateSubmission(ctx, projectID, userID, directory, domain.SubmissionStatusSuccess)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to create submission")
	}

	metrics.SubmissionsRecorded.Inc()
	s.logger.Info("submission recorded",
		"submission_id", submission.ID,
		"project_id", projectID,
		"directory", directory,
	)
	return submission, nil
}

// List returns a project's submissions, enforcing ownership.
func (s *submissionService) List(ctx context.Context, userID, projectID uuid.UUID) ([]domain.Submission, error) {
	const op = "submission.list"

	if _, err := s.projects.Get(ctx, userID, projectID); err != nil {
		return nil, err
	}
	submissions, err := s.queries.ListSubmissionsByProject(ctx, projectID)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to list submissions")
	}
	return submissions, nil
}
