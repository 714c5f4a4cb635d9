package client

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/anmicius0/rule-bulk-actions/internal/schema"
)

const (
	bulkProcessPath = "/rules/_bulk_process"
	exportPath      = "/rules/_export"
)

// ruleEngineClient is the HTTP implementation of RuleEngine.
// It is intentionally unexported so callers use the RuleEngine interface.
type ruleEngineClient struct {
	*HTTPClient
}

// NewRuleEngineClient creates a RuleEngine talking to the engine at url.
func NewRuleEngineClient(url, token string, timeout time.Duration) RuleEngine {
	return &ruleEngineClient{
		HTTPClient: NewHTTPClient(url, token, timeout),
	}
}

func (c *ruleEngineClient) ProcessBulkAction(ctx context.Context, plan BulkActionPlan) ([]schema.RuleOutcome, error) {
	resp, err := c.DoReq(ctx, "POST", bulkProcessPath, plan, nil)
	if err != nil {
		return nil, fmt.Errorf("process bulk %s on %d ids: %w", plan.Action, len(plan.IDs), err)
	}
	var body processResponse
	if err := json.Unmarshal(resp.Bytes(), &body); err != nil {
		return nil, fmt.Errorf("process bulk %s: failed to unmarshal response: %w", plan.Action, err)
	}
	return body.Outcomes, nil
}

func (c *ruleEngineClient) ExportRules(ctx context.Context, selector schema.Selector) (string, error) {
	resp, err := c.DoReq(ctx, "POST", exportPath, selector, nil)
	if err != nil {
		return "", fmt.Errorf("export rules: %w", err)
	}
	return resp.String(), nil
}
