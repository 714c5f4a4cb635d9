package client

import "github.com/anmicius0/rule-bulk-actions/internal/schema"

// BulkActionPlan is the unit of work sent to the rule engine. A bulk action
// over explicit ids may be split into several plans.
type BulkActionPlan struct {
	Query     *string                  `json:"query,omitempty"`
	IDs       []string                 `json:"ids,omitempty"`
	Action    schema.BulkActionType    `json:"action"`
	Duplicate *schema.DuplicatePayload `json:"duplicate,omitempty"`
	Edit      []schema.EditOperation   `json:"edit,omitempty"`
	DryRun    bool                     `json:"dry_run"`
}

// NewBulkActionPlan builds a plan covering the whole request.
func NewBulkActionPlan(req *schema.BulkActionRequest, dryRun bool) BulkActionPlan {
	return BulkActionPlan{
		Query:     req.Query,
		IDs:       req.IDs,
		Action:    req.Action,
		Duplicate: req.Duplicate,
		Edit:      req.Edit,
		DryRun:    dryRun,
	}
}

// WithIDs returns a copy of the plan restricted to ids.
func (p BulkActionPlan) WithIDs(ids []string) BulkActionPlan {
	p.IDs = ids
	return p
}

type processResponse struct {
	Outcomes []schema.RuleOutcome `json:"outcomes"`
}
