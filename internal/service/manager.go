// internal/service/manager.go
// Package service dispatches bulk actions to the rule engine and aggregates their outcomes.
package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/anmicius0/rule-bulk-actions/internal/client"
	"github.com/anmicius0/rule-bulk-actions/internal/config"
	"github.com/anmicius0/rule-bulk-actions/internal/metrics"
	"github.com/anmicius0/rule-bulk-actions/internal/schema"
	"github.com/anmicius0/rule-bulk-actions/internal/utils"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	ErrCodeRuleEngine            = "RULE_ENGINE_ERROR"
	ErrCodeRuleEngineUnavailable = "RULE_ENGINE_UNAVAILABLE"
	ErrCodeCancelled             = "REQUEST_CANCELLED"
)

// BulkActionManager runs validated bulk actions against the rule engine.
type BulkActionManager struct {
	cfg    *config.Config
	store  *config.ActionStore
	engine client.RuleEngine
}

// NewBulkActionManager constructs a BulkActionManager with the required dependencies.
func NewBulkActionManager(cfg *config.Config, store *config.ActionStore, engine client.RuleEngine) *BulkActionManager {
	return &BulkActionManager{cfg: cfg, store: store, engine: engine}
}

// Perform records the action, collects one outcome per matched rule and
// aggregates them. The returned id identifies the action record even when an
// error is returned. A *FatalError means the outcomes broke an invariant.
func (m *BulkActionManager) Perform(ctx context.Context, req *schema.BulkActionRequest, dryRun bool) (string, *BulkActionReport, error) {
	actionID := uuid.New().String()
	action := string(req.Action)
	m.store.CreateAction(actionID, action, dryRun)
	tracker := NewActionProgressTracker(m.store, actionID)
	log := utils.WithComponent(utils.ComponentManager).With(
		zap.String(utils.FieldActionID, actionID),
		zap.String(utils.FieldAction, action),
		zap.Bool(utils.FieldDryRun, dryRun))

	log.Debug("Starting bulk action",
		zap.Int("id_count", len(req.IDs)),
		zap.Bool("match_all", req.Selector().MatchesAll()),
		zap.Int("edit_count", len(req.Edit)))
	tracker.SetProcessing()

	outcomes, err := m.collectOutcomes(ctx, client.NewBulkActionPlan(req, dryRun))
	if err != nil {
		tracker.MarkFailed(err)
		metrics.RecordBulkAction(action, dryRun, metrics.ResultError)
		return actionID, nil, err
	}

	report, err := Aggregate(outcomes, dryRun)
	if err != nil {
		tracker.MarkFailed(err)
		metrics.RecordBulkAction(action, dryRun, metrics.ResultError)
		return actionID, nil, err
	}

	tracker.Finalize(report.Summary)
	metrics.RecordOutcomes(action, report.Summary.Succeeded, report.Summary.Skipped, report.Summary.Failed)
	result := metrics.ResultSucceeded
	if !report.Succeeded() {
		result = metrics.ResultPartial
	}
	metrics.RecordBulkAction(action, dryRun, result)

	log.Debug("Finished bulk action",
		zap.Int("succeeded", report.Summary.Succeeded),
		zap.Int("skipped", report.Summary.Skipped),
		zap.Int("failed", report.Summary.Failed))
	return actionID, report, nil
}

// Export records the action and returns the ndjson export of the selected rules.
func (m *BulkActionManager) Export(ctx context.Context, req *schema.BulkActionRequest) (string, string, error) {
	actionID := uuid.New().String()
	m.store.CreateAction(actionID, string(schema.BulkActionExport), false)
	tracker := NewActionProgressTracker(m.store, actionID)
	tracker.SetProcessing()

	start := time.Now()
	exported, err := m.engine.ExportRules(ctx, req.Selector())
	metrics.RuleEngineDuration.WithLabelValues(string(schema.BulkActionExport)).Observe(time.Since(start).Seconds())
	if err != nil {
		tracker.MarkFailed(err)
		metrics.RecordBulkAction(string(schema.BulkActionExport), false, metrics.ResultError)
		return actionID, "", fmt.Errorf("export: %w", err)
	}

	_ = m.store.UpdateAction(actionID, func(r *config.ActionRecord) {
		r.Status = config.ActionStatusCompleted
		r.Message = "Rules exported"
	})
	metrics.RecordBulkAction(string(schema.BulkActionExport), false, metrics.ResultSucceeded)
	return actionID, exported, nil
}

// collectOutcomes dispatches the plan. A plan over explicit ids is split into
// chunks processed concurrently; the outcomes keep the input order.
func (m *BulkActionManager) collectOutcomes(ctx context.Context, plan client.BulkActionPlan) ([]schema.RuleOutcome, error) {
	if len(plan.IDs) == 0 {
		outcomes, err := m.process(ctx, plan)
		if err != nil {
			return nil, fmt.Errorf("bulk %s: %w", plan.Action, err)
		}
		return outcomes, nil
	}

	chunks := chunkIDs(plan.IDs, m.cfg.ChunkSize)
	results := make([][]schema.RuleOutcome, len(chunks))
	sem := make(chan struct{}, m.cfg.MaxConcurrency)
	var wg sync.WaitGroup

	// Fan out: one worker per chunk, bounded by the semaphore.
	for i, chunk := range chunks {
		wg.Add(1)
		go func(i int, ids []string) {
			defer wg.Done()
			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				results[i] = failedOutcomes(ids, ctx.Err())
				return
			}
			results[i] = m.processChunk(ctx, plan.WithIDs(ids))
		}(i, chunk)
	}
	wg.Wait()

	// Fan in: concatenate in chunk order.
	outcomes := make([]schema.RuleOutcome, 0, len(plan.IDs))
	for _, chunkOutcomes := range results {
		outcomes = append(outcomes, chunkOutcomes...)
	}
	return outcomes, nil
}

// processChunk turns an engine failure into one failed outcome per id so the
// rest of the batch can still succeed.
func (m *BulkActionManager) processChunk(ctx context.Context, plan client.BulkActionPlan) []schema.RuleOutcome {
	select {
	case <-ctx.Done():
		return failedOutcomes(plan.IDs, ctx.Err())
	default:
	}

	outcomes, err := m.process(ctx, plan)
	if err != nil {
		utils.WithComponent(utils.ComponentManager).Error("Rule engine chunk failed",
			zap.String(utils.FieldAction, string(plan.Action)),
			zap.Int("id_count", len(plan.IDs)),
			zap.Error(err))
		return failedOutcomes(plan.IDs, err)
	}
	return outcomes
}

func (m *BulkActionManager) process(ctx context.Context, plan client.BulkActionPlan) ([]schema.RuleOutcome, error) {
	start := time.Now()
	defer func() {
		metrics.RuleEngineDuration.WithLabelValues(string(plan.Action)).Observe(time.Since(start).Seconds())
	}()
	return m.engine.ProcessBulkAction(ctx, plan)
}

func failedOutcomes(ids []string, err error) []schema.RuleOutcome {
	ruleErr := engineRuleError(err)
	outcomes := make([]schema.RuleOutcome, 0, len(ids))
	for _, id := range ids {
		e := ruleErr
		outcomes = append(outcomes, schema.RuleOutcome{
			ID:     id,
			Status: schema.OutcomeFailed,
			Error:  &e,
		})
	}
	return outcomes
}

// engineRuleError maps a failed engine call to the per-rule error reported to
// the caller. Messages stay constant per failure kind so errors group together.
func engineRuleError(err error) schema.RuleError {
	var httpErr *client.HTTPError
	switch {
	case errors.As(err, &httpErr):
		message := httpErr.Body
		if message == "" {
			message = http.StatusText(httpErr.StatusCode)
		}
		return schema.RuleError{Message: message, StatusCode: httpErr.StatusCode, ErrCode: ErrCodeRuleEngine}
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return schema.RuleError{Message: "Request cancelled before the rule was processed", StatusCode: http.StatusInternalServerError, ErrCode: ErrCodeCancelled}
	default:
		return schema.RuleError{Message: "Rule engine request failed", StatusCode: http.StatusInternalServerError, ErrCode: ErrCodeRuleEngineUnavailable}
	}
}

// chunkIDs splits ids into consecutive slices of at most size elements.
func chunkIDs(ids []string, size int) [][]string {
	if len(ids) == 0 {
		return nil
	}
	if size <= 0 {
		size = len(ids)
	}
	chunks := make([][]string, 0, (len(ids)+size-1)/size)
	for start := 0; start < len(ids); start += size {
		end := min(start+size, len(ids))
		chunks = append(chunks, ids[start:end])
	}
	return chunks
}
