// Package service contains the business logic layer.
//
// This file implements project management. Creation is a billable action
// gated through the usage accountant.
package service

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/ranklens/ranklens/internal/domain"
	"github.com/ranklens/ranklens/internal/repository"
)

// ProjectService defines operations for managing projects.
type ProjectService interface {
	// Create adds a project after the usage accountant admits it.
	// A denial surfaces as a LimitError.
	Create(ctx context.Context, params domain.CreateProjectParams) (*domain.Project, error)

	// Get fetches a project owned by the given user.
	Get(ctx context.Context, userID, projectID uuid.UUID) (*domain.Project, error)

	List(ctx context.Context, userID uuid.UUID) ([]domain.Project, error)
	Delete(ctx context.Context, userID, projectID uuid.UUID) error
}

type projectService struct {
	queries *repository.Queries
	usage   UsageService
	logger  *slog.Logger
}

// NewProjectService creates a new ProjectService.
func NewProjectService(queries *repository.Queries, usage UsageService, logger *slog.Logger) ProjectService {
	return &projectService{
		queries: queries,
		usage:   usage,
		logger:  logger,
	}
}

// Create adds a new draft project for the user.
func (s *projectService) Create(ctx context.Context, params domain.CreateProjectParams) (*domain.Project, error) {
	const op = "project.create"

	params.Name = strings.TrimSpace(params.Name)
	params.URL = strings.TrimSpace(params.URL)
	if params.Name == "" {
		return nil, domain.Invalid(op, "Project name is required")
	}
	if params.URL == "" {
		return nil, domain.Invalid(op, "Project URL is required")
	}
	if !strings.Contains(params.URL, "://") {
		params.URL = "https://" + params.URL
	}
	if _, err := url.ParseRequestURI(params.URL); err != nil {
		return nil, domain.Invalid(op, "Project URL is not valid")
	}

	result, err := s.usage.TrackUsage(ctx, params.UserID, domain.CategoryProjects, 1, TrackOptions{})
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

	project, err := s.queries.CreateProject(ctx, params)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to create project")
	}

	s.logger.Info("project created", "project_id", project.ID, "user_id", params.UserID)
	return project, nil
}

// Get fetches a project, enforcing ownership.
func (s *projectService) Get(ctx context.Context, userID, projectID uuid.UUID) (*domain.Project, error) {
	const op = "project.get"

	project, err := s.queries.GetProjectByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.NotFound(op, "project", projectID.String())
		}
		return nil, domain.Internal(err, op, "failed to load project")
	}
	if project.UserID != userID {
		// Report foreign projects as not found rather than forbidden, so
		// IDs cannot be probed.
		return nil, domain.NotFound(op, "project", projectID.String())
	}
	return project, nil
}

// List returns the user's non-archived projects.
func (s *projectService) List(ctx context.Context, userID uuid.UUID) ([]domain.Project, error) {
	const op = "project.list"
	projects, err := s.queries.ListProjectsByUser(ctx, userID)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to list projects")
	}
	return projects, nil
}

// Delete removes a project the user owns.
func (s *projectService) Delete(ctx context.Context, userID, projectID uuid.UUID) error {
	const op = "project.delete"

	if _, err := s.Get(ctx, userID, projectID); err != nil {
		return err
	}
	if err := s.queries.DeleteProject(ctx, projectID); err != nil {
		return domain.Internal(err, op, "failed to delete project")
	}
	return nil
}
