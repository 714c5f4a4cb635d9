// internal/server/response_builder.go
package server

import (
	"encoding"
	"encoding/json"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"unicode"

	"github.com/anmicius0/rule-bulk-actions/internal/config"
	"github.com/anmicius0/rule-bulk-actions/internal/schema"
	"github.com/anmicius0/rule-bulk-actions/internal/service"
)

// ResponseBuilder provides utilities for constructing consistent API responses.
type ResponseBuilder struct{}

// newResponseBuilder creates a new response builder instance.
func newResponseBuilder() *ResponseBuilder { return &ResponseBuilder{} }

// ErrorResponse standardizes error responses.
type ErrorResponse struct {
	StatusCode int    `json:"status_code"`
	Error      string `json:"error"`
	Message    string `json:"message"`
	Details    any    `json:"details,omitempty"`
}

// BuildErrorResponse constructs a standardized error response.
func (rb *ResponseBuilder) BuildErrorResponse(statusCode int, errorCode, errorMessage string, details any) ErrorResponse {
	return ErrorResponse{
		StatusCode: statusCode,
		Error:      errorCode,
		Message:    errorMessage,
		Details:    details,
	}
}

// BuildValidationFailedResponse lists every issue of a rejected request.
func (rb *ResponseBuilder) BuildValidationFailedResponse(issues []schema.Issue) ErrorResponse {
	return rb.BuildErrorResponse(http.StatusBadRequest, ErrorCodeValidationFailed, MessageValidationFailed, issues)
}

// BuildBulkActionResponse picks the success shape when no rule failed and the
// error shape otherwise. The returned status is the HTTP status to send.
func (rb *ResponseBuilder) BuildBulkActionResponse(report *service.BulkActionReport, action schema.BulkActionType) (int, any) {
	attributes := schema.BulkEditActionAttributes{
		Results: report.Results,
		Summary: report.Summary,
	}
	if report.Succeeded() {
		return report.StatusCode, schema.BulkEditActionSuccessResponse{
			Success:    true,
			RulesCount: report.Summary.Total,
			Attributes: attributes,
		}
	}

	attributes.Errors = report.Errors
	// Skipped rules were not changed, so only a success makes it partial.
	message := fmt.Sprintf(BulkFailureFmt, action)
	if report.Summary.Succeeded > 0 {
		message = fmt.Sprintf(BulkPartialFailureFmt, action)
	}
	return report.StatusCode, schema.BulkEditActionErrorResponse{
		StatusCode: report.StatusCode,
		Message:    message,
		Attributes: attributes,
	}
}

// BuildActionResponse renders an action record with snake_case keys.
func (rb *ResponseBuilder) BuildActionResponse(record config.ActionRecord) any {
	return toSnakeCaseMap(record)
}

var (
	jsonMarshalerType = reflect.TypeOf((*json.Marshaler)(nil)).Elem()
	textMarshalerType = reflect.TypeOf((*encoding.TextMarshaler)(nil)).Elem()
)

func toSnakeCaseMap(data any) any {
	if data == nil {
		return nil
	}
	val := reflect.ValueOf(data)

	// Types that know how to render themselves, e.g. time.Time
	if val.Type().Implements(jsonMarshalerType) || val.Type().Implements(textMarshalerType) {
		return data
	}

	// Handle Pointers
	if val.Kind() == reflect.Ptr {
		if val.IsNil() {
			return nil
		}
		return toSnakeCaseMap(val.Elem().Interface())
	}

	// Handle Slices/Arrays
	if val.Kind() == reflect.Slice || val.Kind() == reflect.Array {
		out := make([]any, val.Len())
		for i := 0; i < val.Len(); i++ {
			out[i] = toSnakeCaseMap(val.Index(i).Interface())
		}
		return out
	}

	// Handle Structs
	if val.Kind() == reflect.Struct {
		out := make(map[string]any)
		typ := val.Type()
		for i := 0; i < val.NumField(); i++ {
			field := typ.Field(i)
			// Skip unexported fields
			if field.PkgPath != "" {
				continue
			}
			out[snakeCase(field.Name)] = toSnakeCaseMap(val.Field(i).Interface())
		}
		return out
	}

	// Return primitives as-is
	return data
}

// snakeCase converts a Go field name to snake_case, keeping acronym runs
// together: "CreatedAt" -> "created_at", "ID" -> "id", "RuleID" -> "rule_id".
func snakeCase(s string) string {
	runes := []rune(s)
	var b strings.Builder
	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 {
				prevLower := unicode.IsLower(runes[i-1])
				nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
				if prevLower || (nextLower && unicode.IsUpper(runes[i-1])) {
					b.WriteByte('_')
				}
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
