package server

const (
	HealthEndpoint  = "/health"
	MetricsEndpoint = "/metrics"
	BulkActionPath  = "/api/detection_engine/rules/_bulk_action"
)

const (
	HeaderBulkActionID = "X-Bulk-Action-Id"
	ContentTypeNDJSON  = "application/ndjson"
	ExportFileName     = "rules_export.ndjson"
)

const (
	StatusHealthy = "healthy"
)

const (
	MessageInvalidRequestBody = "Invalid request body"
	MessageValidationFailed   = "Request validation failed"
	MessageInvalidToken       = "Invalid token"
	MessageRuleEngineFailed   = "Rule engine request failed"
	MessageInternalError      = "Internal error while aggregating bulk action results"
)

const (
	ErrorCodeInvalidRequestBody = "invalid_request_body"
	ErrorCodeValidationFailed   = "validation_failed"
	ErrorCodeRuleEngine         = "rule_engine_error"
	ErrorCodeInternal           = "internal_error"
	ErrorCodeNotFound           = "not_found"
)

const (
	ActionNotFoundMessageFmt = "Bulk action %s not found"
	BulkPartialFailureFmt    = "Bulk %s partially failed"
	BulkFailureFmt           = "Bulk %s failed"
)
