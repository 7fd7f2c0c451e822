package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ProjectStatus represents the lifecycle state of a project.
type ProjectStatus string

const (
	ProjectStatusDraft    ProjectStatus = "draft"
	ProjectStatusActive   ProjectStatus = "active"
	ProjectStatusArchived ProjectStatus = "archived"
)

// Project represents a website a tenant is tracking.
//
// Projects start as drafts and are promoted to active the first time a
// submission or tool run is recorded against them.
type Project struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Name      string
	URL       string
	Status    ProjectStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// validProjectTransitions defines the allowed status transitions.
var validProjectTransitions = map[ProjectStatus][]ProjectStatus{
	ProjectStatusDraft:    {ProjectStatusActive, ProjectStatusArchived},
	ProjectStatusActive:   {ProjectStatusArchived},
	ProjectStatusArchived: {ProjectStatusActive},
}

// TransitionTo moves the project to a new status, returning an error for
// invalid transitions. The status is unchanged on error.
func (p *Project) TransitionTo(status ProjectStatus) error {
	if p.Status == status {
		return nil
	}
	for _, allowed := range validProjectTransitions[p.Status] {
		if allowed == status {
			p.Status = status
			return nil
		}
	}
	return fmt.Errorf("cannot transition project from %s to %s", p.Status, status)
}

// CreateProjectParams contains parameters for creating a project.
type CreateProjectParams struct {
	UserID uuid.UUID
	Name   string
	URL    string
}

// SubmissionStatus represents the outcome of a directory submission.
type SubmissionStatus string

const (
	SubmissionStatusPending SubmissionStatus = "pending"
	SubmissionStatusSuccess SubmissionStatus = "success"
	SubmissionStatusFailed  SubmissionStatus = "failed"
)

// Submission represents a directory submission made for a project.
// Monthly usage accounting counts only successful submissions; the
// per-project daily ceiling counts all same-day rows.
type Submission struct {
	ID        uuid.UUID
	ProjectID uuid.UUID
	UserID    uuid.UUID
	Directory string
	Status    SubmissionStatus
	CreatedAt time.Time
}

// BacklinkStatus represents whether a backlink is still live.
type BacklinkStatus string

const (
	BacklinkStatusActive BacklinkStatus = "active"
	BacklinkStatusLost   BacklinkStatus = "lost"
)

// Backlink represents a tracked inbound link for a project.
// Usage accounting counts active backlinks only.
type Backlink struct {
	ID        uuid.UUID
	ProjectID uuid.UUID
	UserID    uuid.UUID
	SourceURL string
	TargetURL string
	Status    BacklinkStatus
	CreatedAt time.Time
}
