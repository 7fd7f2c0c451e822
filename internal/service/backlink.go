package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/ranklens/ranklens/internal/domain"
	"github.com/ranklens/ranklens/internal/repository"
)

// BacklinkService defines operations for tracked backlinks.
type BacklinkService interface {
	// Add tracks a new backlink for a project after the usage accountant
	// admits it. The ceiling counts active backlinks, so marking one lost
	// frees capacity.
	Add(ctx context.Context, userID, projectID uuid.UUID, sourceURL, targetURL string) (*domain.Backlink, error)

	List(ctx context.Context, userID, projectID uuid.UUID) ([]domain.Backlink, error)
	MarkLost(ctx context.Context, userID, projectID, backlinkID uuid.UUID) error
}

type backlinkService struct {
	queries  *repository.Queries
	projects ProjectService
	usage    UsageService
	logger   *slog.Logger
}

// NewBacklinkService creates a new BacklinkService.
func NewBacklinkService(queries *repository.Queries, projects ProjectService, usage UsageService, logger *slog.Logger) BacklinkService {
	return &backlinkService{
		queries:  queries,
		projects: projects,
		usage:    usage,
		logger:   logger,
	}
}

// Add tracks a new backlink.
func (s *backlinkService) Add(ctx context.Context, userID, projectID uuid.UUID, sourceURL, targetURL string) (*domain.Backlink, error) {
	const op = "backlink.add"

	sourceURL = strings.TrimSpace(sourceURL)
	targetURL = strings.TrimSpace(targetURL)
	if sourceURL == "" {
		return nil, domain.Invalid(op, "Source URL is required")
	}
	if targetURL == "" {
		return nil, domain.Invalid(op, "Target URL is required")
	}

	if _, err := s.projects.Get(ctx, userID, projectID); err != nil {
		return nil, err
	}

	result, err := s.usage.TrackUsage(ctx, userID, domain.CategoryBacklinks, 1, TrackOptions{ProjectID: &projectID})
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

	backlink, err := s.queries.CreateBacklink(ctx, projectID, userID, sourceURL, targetURL)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to create backlink")
	}

	s.logger.Info("backlink tracked", "backlink_id", backlink.ID, "project_id", projectID)
	return backlink, nil
}

// List returns a project's backlinks, enforcing ownership.
func (s *backlinkService) List(ctx context.Context, userID, projectID uuid.UUID) ([]domain.Backlink, error) {
	const op = "backlink.list"

	if _, err := s.projects.Get(ctx, userID, projectID); err != nil {
		return nil, err
	}
	backlinks, err := s.queries.ListBacklinksByProject(ctx, projectID)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to list backlinks")
	}
	return backlinks, nil
}

// MarkLost records that a tracked backlink no longer resolves.
func (s *backlinkService) MarkLost(ctx context.Context, userID, projectID, backlinkID uuid.UUID) error {
	const op = "backlink.mark_lost"

	if _, err := s.projects.Get(ctx, userID, projectID); err != nil {
		return err
	}
	if err := s.queries.MarkBacklinkLost(ctx, backlinkID); err != nil {
		return domain.Internal(err, op, "failed to update backlink")
	}
	return nil
}
