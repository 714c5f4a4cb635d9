// internal/service/progress_tracker.go
package service

import (
	"fmt"

	"github.com/anmicius0/rule-bulk-actions/internal/config"
	"github.com/anmicius0/rule-bulk-actions/internal/schema"
	"github.com/anmicius0/rule-bulk-actions/internal/utils"
	"go.uber.org/zap"
)

// ActionProgressTracker moves a recorded bulk action through its states.
type ActionProgressTracker struct {
	store    *config.ActionStore
	actionID string
}

// NewActionProgressTracker creates a tracker for the given action record.
func NewActionProgressTracker(store *config.ActionStore, actionID string) *ActionProgressTracker {
	return &ActionProgressTracker{
		store:    store,
		actionID: actionID,
	}
}

// SetProcessing marks the action as dispatched to the rule engine.
func (t *ActionProgressTracker) SetProcessing() {
	_ = t.store.UpdateAction(t.actionID, func(r *config.ActionRecord) {
		r.Status = config.ActionStatusProcessing
		r.Message = "Processing rules"
	})
}

// Finalize stores the summary and derives the final status and message.
func (t *ActionProgressTracker) Finalize(summary schema.BulkEditActionSummary) {
	_ = t.store.UpdateAction(t.actionID, func(r *config.ActionRecord) {
		r.Succeeded = summary.Succeeded
		r.Skipped = summary.Skipped
		r.Failed = summary.Failed
		r.Total = summary.Total

		switch {
		case summary.Failed == 0:
			r.Status = config.ActionStatusCompleted
			r.Message = fmt.Sprintf("Processed all %d rules", summary.Total)
		case summary.Failed == summary.Total:
			r.Status = config.ActionStatusFailed
			r.Message = fmt.Sprintf("All %d rules failed", summary.Failed)
		default:
			r.Status = config.ActionStatusCompleted
			r.Message = fmt.Sprintf("Processed %d of %d rules with %d errors", summary.Total-summary.Failed, summary.Total, summary.Failed)
		}
	})

	utils.Logger.Info("Bulk action finalized",
		zap.String(utils.FieldActionID, t.actionID),
		zap.Int("succeeded", summary.Succeeded),
		zap.Int("skipped", summary.Skipped),
		zap.Int("failed", summary.Failed),
		zap.Int("total", summary.Total))
}

// MarkFailed marks an action that could not be processed at all.
func (t *ActionProgressTracker) MarkFailed(err error) {
	_ = t.store.UpdateAction(t.actionID, func(r *config.ActionRecord) {
		r.Status = config.ActionStatusFailed
		r.Message = err.Error()
	})

	utils.Logger.Info("Bulk action marked as failed",
		zap.String(utils.FieldActionID, t.actionID),
		zap.Error(err))
}
