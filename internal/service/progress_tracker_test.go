package service

import (
	"errors"
	"testing"

	"github.com/anmicius0/rule-bulk-actions/internal/config"
	"github.com/anmicius0/rule-bulk-actions/internal/schema"
	"github.com/stretchr/testify/assert"
)

func TestActionProgressTracker(t *testing.T) {
	tests := []struct {
		name        string
		summary     schema.BulkEditActionSummary
		wantStatus  config.ActionStatus
		wantMessage string
	}{
		{
			name:        "all processed",
			summary:     schema.BulkEditActionSummary{Succeeded: 2, Skipped: 1, Total: 3},
			wantStatus:  config.ActionStatusCompleted,
			wantMessage: "Processed all 3 rules",
		},
		{
			name:        "partial failure",
			summary:     schema.BulkEditActionSummary{Succeeded: 1, Failed: 2, Total: 3},
			wantStatus:  config.ActionStatusCompleted,
			wantMessage: "Processed 1 of 3 rules with 2 errors",
		},
		{
			name:        "all failed",
			summary:     schema.BulkEditActionSummary{Failed: 2, Total: 2},
			wantStatus:  config.ActionStatusFailed,
			wantMessage: "All 2 rules failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := config.NewActionStore()
			store.CreateAction("action-1", "edit", false)
			tracker := NewActionProgressTracker(store, "action-1")

			tracker.SetProcessing()
			record, _ := store.GetAction("action-1")
			assert.Equal(t, config.ActionStatusProcessing, record.Status)

			tracker.Finalize(tt.summary)
			record, _ = store.GetAction("action-1")
			assert.Equal(t, tt.wantStatus, record.Status)
			assert.Equal(t, tt.wantMessage, record.Message)
			assert.Equal(t, tt.summary.Total, record.Total)
			assert.Equal(t, tt.summary.Failed, record.Failed)
		})
	}
}

func TestActionProgressTracker_MarkFailed(t *testing.T) {
	store := config.NewActionStore()
	store.CreateAction("action-1", "delete", false)
	tracker := NewActionProgressTracker(store, "action-1")

	tracker.MarkFailed(errors.New("engine unreachable"))

	record, _ := store.GetAction("action-1")
	assert.Equal(t, config.ActionStatusFailed, record.Status)
	assert.Equal(t, "engine unreachable", record.Message)
}
