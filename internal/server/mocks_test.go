package server

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
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]schema.RuleOutcome), args.Error(1)
}

func (m *MockRuleEngine) ExportRules(ctx context.Context, selector schema.Selector) (string, error) {
	args := m.Called(ctx, selector)
	return args.String(0), args.Error(1)
}
