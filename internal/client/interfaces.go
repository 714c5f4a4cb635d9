package client

import (
	"context"

	"github.com/anmicius0/rule-bulk-actions/internal/schema"
)

// RuleEngine is the rule-processing collaborator that applies bulk actions.
// Use NewRuleEngineClient to obtain the HTTP implementation.
type RuleEngine interface {
	// ProcessBulkAction applies the plan to every selected rule and returns
	// one outcome per rule, in a stable order.
	ProcessBulkAction(ctx context.Context, plan BulkActionPlan) ([]schema.RuleOutcome, error)
	// ExportRules returns the selected rules serialized as ndjson.
	ExportRules(ctx context.Context, selector schema.Selector) (string, error)
}
