package schema

// OutcomeStatus is the result of a bulk action on a single rule.
type OutcomeStatus string

const (
	OutcomeUpdated OutcomeStatus = "updated"
	OutcomeCreated OutcomeStatus = "created"
	OutcomeDeleted OutcomeStatus = "deleted"
	OutcomeSkipped OutcomeStatus = "skipped"
	OutcomeFailed  OutcomeStatus = "failed"
)

// SkipReason explains why a rule was left untouched.
type SkipReason string

const (
	SkipRuleNotModified SkipReason = "RULE_NOT_MODIFIED"
	// SkipDryRun marks a rule that would have been changed outside of a dry run.
	SkipDryRun SkipReason = "DRY_RUN"
)

// RuleOutcome is what the rule engine reports for one matched rule.
type RuleOutcome struct {
	ID         string        `json:"id"`
	Name       string        `json:"name,omitempty"`
	Status     OutcomeStatus `json:"status"`
	Rule       *RuleResponse `json:"rule,omitempty"`
	SkipReason SkipReason    `json:"skip_reason,omitempty"`
	Error      *RuleError    `json:"error,omitempty"`
}

// RuleError describes why a single rule failed.
type RuleError struct {
	Message    string `json:"message"`
	StatusCode int    `json:"status_code"`
	ErrCode    string `json:"err_code,omitempty"`
}

// RuleResponse is the rule representation returned in bulk action results.
type RuleResponse struct {
	ID       string   `json:"id"`
	RuleID   string   `json:"rule_id,omitempty"`
	Name     string   `json:"name"`
	Enabled  bool     `json:"enabled"`
	Tags     []string `json:"tags,omitempty"`
	Index    []string `json:"index,omitempty"`
	Interval string   `json:"interval,omitempty"`
	From     string   `json:"from,omitempty"`
	Version  int      `json:"version,omitempty"`
}

// BulkActionSkipResult is a skipped rule in BulkEditActionResults.
type BulkActionSkipResult struct {
	ID         string     `json:"id"`
	Name       string     `json:"name,omitempty"`
	SkipReason SkipReason `json:"skip_reason"`
}

// BulkEditActionResults groups affected rules by what happened to them.
type BulkEditActionResults struct {
	Updated []RuleResponse         `json:"updated"`
	Created []RuleResponse         `json:"created"`
	Deleted []RuleResponse         `json:"deleted"`
	Skipped []BulkActionSkipResult `json:"skipped"`
}

// BulkEditActionSummary holds the outcome counts of a bulk action.
// Total always equals Failed + Skipped + Succeeded.
type BulkEditActionSummary struct {
	Failed    int `json:"failed"`
	Skipped   int `json:"skipped"`
	Succeeded int `json:"succeeded"`
	Total     int `json:"total"`
}

// RuleErrorRef identifies a rule affected by a NormalizedRuleError.
type RuleErrorRef struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// NormalizedRuleError is one distinct failure and every rule that hit it.
type NormalizedRuleError struct {
	Message    string         `json:"message"`
	StatusCode int            `json:"status_code"`
	ErrCode    string         `json:"err_code,omitempty"`
	Rules      []RuleErrorRef `json:"rules"`
}

type BulkEditActionAttributes struct {
	Results BulkEditActionResults `json:"results"`
	Summary BulkEditActionSummary `json:"summary"`
	Errors  []NormalizedRuleError `json:"errors,omitempty"`
}

// BulkEditActionSuccessResponse is returned when no rule failed.
type BulkEditActionSuccessResponse struct {
	Success    bool                     `json:"success"`
	RulesCount int                      `json:"rules_count"`
	Attributes BulkEditActionAttributes `json:"attributes"`
}

// BulkEditActionErrorResponse is returned when at least one rule failed.
type BulkEditActionErrorResponse struct {
	StatusCode int                      `json:"status_code"`
	Message    string                   `json:"message"`
	Attributes BulkEditActionAttributes `json:"attributes"`
}
