package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProject_TransitionTo(t *testing.T) {
	tests := []struct {
		name      string
		from      ProjectStatus
		to        ProjectStatus
		wantErr   bool
		wantState ProjectStatus
	}{
		{"draft to active", ProjectStatusDraft, ProjectStatusActive, false, ProjectStatusActive},
		{"draft to archived", ProjectStatusDraft, ProjectStatusArchived, false, ProjectStatusArchived},
		{"active to archived", ProjectStatusActive, ProjectStatusArchived, false, ProjectStatusArchived},
		{"archived to active", ProjectStatusArchived, ProjectStatusActive, false, ProjectStatusActive},

		{"active to draft", ProjectStatusActive, ProjectStatusDraft, true, ProjectStatusActive},
		{"archived to draft", ProjectStatusArchived, ProjectStatusDraft, true, ProjectStatusArchived},

		{"same status is a no-op", ProjectStatusDraft, ProjectStatusDraft, false, ProjectStatusDraft},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			project := &Project{Status: tt.from}
			err := project.TransitionTo(tt.to)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), "cannot transition")
				assert.Equal(t, tt.from, project.Status)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantState, project.Status)
			}
		})
	}
}

func TestLimitError_Code(t *testing.T) {
	err := LimitExceeded("usage.track", CategorySEOTools, 10, 10)

	assert.Equal(t, ELIMIT, ErrorCode(err))
	assert.Equal(t, CategorySEOTools, err.LimitType)
	assert.Equal(t, int64(10), err.CurrentUsage)
	assert.Contains(t, ErrorMessage(err), "plan limit")
}
