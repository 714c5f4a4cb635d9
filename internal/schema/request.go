// Package schema defines the bulk rule-action request and response payloads
// and validates raw requests against them.
package schema

// BulkActionType is the discriminator of a bulk action request.
type BulkActionType string

const (
	BulkActionEnable    BulkActionType = "enable"
	BulkActionDisable   BulkActionType = "disable"
	BulkActionExport    BulkActionType = "export"
	BulkActionDelete    BulkActionType = "delete"
	BulkActionDuplicate BulkActionType = "duplicate"
	BulkActionEdit      BulkActionType = "edit"
)

// BulkActionTypes lists every accepted action in declaration order.
var BulkActionTypes = []BulkActionType{
	BulkActionEnable,
	BulkActionDisable,
	BulkActionExport,
	BulkActionDelete,
	BulkActionDuplicate,
	BulkActionEdit,
}

// BulkActionRequest selects a set of rules and the action to apply to them.
//
// Query and IDs are independently optional. Leaving both empty matches every
// rule; supplying both is rejected by CheckBoundary rather than by the decoder.
type BulkActionRequest struct {
	Query     *string           `json:"query,omitempty"`
	IDs       []string          `json:"ids,omitempty"`
	Action    BulkActionType    `json:"action"`
	Duplicate *DuplicatePayload `json:"duplicate,omitempty"`
	Edit      []EditOperation   `json:"edit,omitempty"`
}

// Selector returns the rule selector part of the request.
func (r *BulkActionRequest) Selector() Selector {
	return Selector{Query: r.Query, IDs: r.IDs}
}

// Selector identifies the rules a bulk action applies to.
type Selector struct {
	Query *string  `json:"query,omitempty"`
	IDs   []string `json:"ids,omitempty"`
}

// MatchesAll reports whether the selector has neither a query nor ids.
func (s Selector) MatchesAll() bool {
	return s.Query == nil && len(s.IDs) == 0
}

// DuplicatePayload controls what is copied alongside a duplicated rule.
type DuplicatePayload struct {
	IncludeExceptions        bool `json:"include_exceptions"`
	IncludeExpiredExceptions bool `json:"include_expired_exceptions"`
}

// EditOperationType is the discriminator of an edit operation.
type EditOperationType string

const (
	EditAddTags             EditOperationType = "add_tags"
	EditDeleteTags          EditOperationType = "delete_tags"
	EditSetTags             EditOperationType = "set_tags"
	EditAddIndexPatterns    EditOperationType = "add_index_patterns"
	EditDeleteIndexPatterns EditOperationType = "delete_index_patterns"
	EditSetIndexPatterns    EditOperationType = "set_index_patterns"
	EditSetTimeline         EditOperationType = "set_timeline"
	EditAddRuleActions      EditOperationType = "add_rule_actions"
	EditSetRuleActions      EditOperationType = "set_rule_actions"
	EditSetSchedule         EditOperationType = "set_schedule"
)

// EditOperationTypes lists every accepted edit operation type.
var EditOperationTypes = []EditOperationType{
	EditAddTags,
	EditDeleteTags,
	EditSetTags,
	EditAddIndexPatterns,
	EditDeleteIndexPatterns,
	EditSetIndexPatterns,
	EditSetTimeline,
	EditAddRuleActions,
	EditSetRuleActions,
	EditSetSchedule,
}

// EditOperation is one field-level mutation applied to every matched rule.
// The concrete types are TagsOperation, IndexPatternsOperation,
// TimelineOperation, RuleActionsOperation and ScheduleOperation.
type EditOperation interface {
	OperationType() EditOperationType
}

// TagsOperation adds, deletes or replaces rule tags.
type TagsOperation struct {
	Type  EditOperationType `json:"type"`
	Value []string          `json:"value"`
}

func (o *TagsOperation) OperationType() EditOperationType { return o.Type }

// IndexPatternsOperation adds, deletes or replaces rule index patterns.
type IndexPatternsOperation struct {
	Type               EditOperationType `json:"type"`
	Value              []string          `json:"value"`
	OverwriteDataViews *bool             `json:"overwrite_data_views,omitempty"`
}

func (o *IndexPatternsOperation) OperationType() EditOperationType { return o.Type }

// TimelineOperation sets the investigation timeline template.
type TimelineOperation struct {
	Type  EditOperationType `json:"type"`
	Value TimelineValue     `json:"value"`
}

func (o *TimelineOperation) OperationType() EditOperationType { return o.Type }

type TimelineValue struct {
	TimelineID    string `json:"timeline_id"`
	TimelineTitle string `json:"timeline_title"`
}

// RuleActionsOperation adds or replaces the actions fired by a rule.
type RuleActionsOperation struct {
	Type  EditOperationType `json:"type"`
	Value RuleActionsValue  `json:"value"`
}

func (o *RuleActionsOperation) OperationType() EditOperationType { return o.Type }

type RuleActionsValue struct {
	Throttle *string                `json:"throttle,omitempty"`
	Actions  []NormalizedRuleAction `json:"actions"`
}

// NormalizedRuleAction is a rule action with connector parameters. Unknown
// keys are rejected when decoding.
type NormalizedRuleAction struct {
	Group        string           `json:"group"`
	ID           string           `json:"id"`
	Params       map[string]any   `json:"params"`
	Frequency    *ActionFrequency `json:"frequency,omitempty"`
	AlertsFilter map[string]any   `json:"alerts_filter,omitempty"`
}

type ActionFrequency struct {
	Summary    bool    `json:"summary"`
	NotifyWhen string  `json:"notifyWhen"`
	Throttle   *string `json:"throttle"`
}

// ScheduleOperation changes how often a rule runs and how far back it looks.
type ScheduleOperation struct {
	Type  EditOperationType `json:"type"`
	Value ScheduleValue     `json:"value"`
}

func (o *ScheduleOperation) OperationType() EditOperationType { return o.Type }

type ScheduleValue struct {
	Interval string `json:"interval"`
	Lookback string `json:"lookback"`
}
