package service

import (
	"context"

	"github.com/anmicius0/rule-bulk-actions/internal/client"
	"github.com/anmicius0/rule-bulk-actions/internal/schema"
	"github.com/stretchr/testify/mock"
)

type MockRuleEngine struct {
	mock.Mock
}

func (m *MockRuleEngine) ProcessBulkAction(ctx context.Context, plan client.BulkActionPlan) ([]schema.RuleOutcome, error) {
	args := m.Called(ctx, plan)
	if fn, ok := args.Get(0).(func(client.BulkActionPlan) []schema.RuleOutcome); ok {
		return fn(plan), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]schema.RuleOutcome), args.Error(1)
}

func (m *MockRuleEngine) ExportRules(ctx context.Context, selector schema.Selector) (string, error) {
	args := m.Called(ctx, selector)
	return args.String(0), args.Error(1)
}

// updateAll reports every id of the plan as updated, or skipped on a dry run.
func updateAll(plan client.BulkActionPlan) []schema.RuleOutcome {
	outcomes := make([]schema.RuleOutcome, 0, len(plan.IDs))
	for _, id := range plan.IDs {
		status := schema.OutcomeUpdated
		if plan.DryRun {
			status = schema.OutcomeSkipped
		}
		outcomes = append(outcomes, schema.RuleOutcome{ID: id, Status: status})
	}
	return outcomes
}
