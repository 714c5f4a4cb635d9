package utils

// Structured log field names shared across packages.
const (
	FieldAction     = "action"
	FieldActionID   = "bulk_action_id"
	FieldDryRun     = "dry_run"
	FieldEndpoint   = "endpoint"
	FieldHost       = "host"
	FieldLogLevel   = "log_level"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldPort       = "port"
	FieldRuleID     = "rule_id"
	FieldSignal     = "signal"
	FieldStatusCode = "status_code"
)

// Component names passed to WithComponent.
const (
	ComponentManager   = "bulk_action_manager"
	ComponentHandler   = "bulk_action_handler"
	ComponentValidator = "request_validator"
)
