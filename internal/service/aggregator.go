package service

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/anmicius0/rule-bulk-actions/internal/schema"
)

// ErrInvariantViolation is wrapped by every FatalError.
var ErrInvariantViolation = errors.New("bulk action invariant violated")

// FatalError reports outcomes that could only come from a caller bug, such as a
// dry run that claims to have updated a rule. Processing must stop.
type FatalError struct {
	RuleID string
	Reason string
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("%s: rule '%s': %s", ErrInvariantViolation, e.RuleID, e.Reason)
}

func (e *FatalError) Unwrap() error { return ErrInvariantViolation }

// BulkActionReport is the aggregate of every per-rule outcome of a bulk action.
type BulkActionReport struct {
	Results schema.BulkEditActionResults
	Summary schema.BulkEditActionSummary
	Errors  []schema.NormalizedRuleError
	// StatusCode is http.StatusOK when nothing failed, otherwise the code of
	// the most severe failure.
	StatusCode int
}

// Succeeded reports whether no rule failed.
func (r *BulkActionReport) Succeeded() bool {
	return r.Summary.Failed == 0
}

type errorKey struct {
	message    string
	statusCode int
	errCode    string
}

// Aggregate folds an order-stable sequence of outcomes into results, summary
// counts and grouped errors. In a dry run only skipped and failed outcomes are
// legal; anything else yields a *FatalError.
func Aggregate(outcomes []schema.RuleOutcome, dryRun bool) (*BulkActionReport, error) {
	report := &BulkActionReport{
		Results: schema.BulkEditActionResults{
			Updated: []schema.RuleResponse{},
			Created: []schema.RuleResponse{},
			Deleted: []schema.RuleResponse{},
			Skipped: []schema.BulkActionSkipResult{},
		},
		StatusCode: http.StatusOK,
	}

	errorIndex := make(map[errorKey]int)
	worstSeverity := 0

	for _, outcome := range outcomes {
		switch outcome.Status {
		case schema.OutcomeUpdated, schema.OutcomeCreated, schema.OutcomeDeleted:
			if dryRun {
				return nil, &FatalError{RuleID: outcome.ID, Reason: fmt.Sprintf("dry run produced a '%s' outcome", outcome.Status)}
			}
			rule := ruleOf(outcome)
			switch outcome.Status {
			case schema.OutcomeUpdated:
				report.Results.Updated = append(report.Results.Updated, rule)
			case schema.OutcomeCreated:
				report.Results.Created = append(report.Results.Created, rule)
			default:
				report.Results.Deleted = append(report.Results.Deleted, rule)
			}
			report.Summary.Succeeded++

		case schema.OutcomeSkipped:
			reason := outcome.SkipReason
			if reason == "" {
				reason = schema.SkipRuleNotModified
				if dryRun {
					reason = schema.SkipDryRun
				}
			}
			report.Results.Skipped = append(report.Results.Skipped, schema.BulkActionSkipResult{
				ID:         outcome.ID,
				Name:       outcome.Name,
				SkipReason: reason,
			})
			report.Summary.Skipped++

		case schema.OutcomeFailed:
			if outcome.Error == nil {
				return nil, &FatalError{RuleID: outcome.ID, Reason: "failed outcome carries no error"}
			}
			statusCode := failureStatus(outcome.Error.StatusCode)
			key := errorKey{message: outcome.Error.Message, statusCode: statusCode, errCode: outcome.Error.ErrCode}
			idx, seen := errorIndex[key]
			if !seen {
				idx = len(report.Errors)
				errorIndex[key] = idx
				report.Errors = append(report.Errors, schema.NormalizedRuleError{
					Message:    key.message,
					StatusCode: key.statusCode,
					ErrCode:    key.errCode,
					Rules:      []schema.RuleErrorRef{},
				})
			}
			report.Errors[idx].Rules = append(report.Errors[idx].Rules, schema.RuleErrorRef{ID: outcome.ID, Name: outcome.Name})

			// Strictly greater keeps the first occurrence on ties.
			if severity := failureSeverity(statusCode); severity > worstSeverity {
				worstSeverity = severity
				report.StatusCode = statusCode
			}
			report.Summary.Failed++

		default:
			return nil, &FatalError{RuleID: outcome.ID, Reason: fmt.Sprintf("unknown outcome status '%s'", outcome.Status)}
		}
	}

	report.Summary.Total = report.Summary.Failed + report.Summary.Skipped + report.Summary.Succeeded
	return report, nil
}

// failureStatus maps codes outside the HTTP error range, including a missing
// code, to 500.
func failureStatus(statusCode int) int {
	if statusCode < http.StatusBadRequest || statusCode > 599 {
		return http.StatusInternalServerError
	}
	return statusCode
}

// failureSeverity ranks server errors above authorization failures above
// every other client error.
func failureSeverity(statusCode int) int {
	switch {
	case statusCode >= http.StatusInternalServerError:
		return 3
	case statusCode == http.StatusForbidden:
		return 2
	default:
		return 1
	}
}

func ruleOf(outcome schema.RuleOutcome) schema.RuleResponse {
	if outcome.Rule != nil {
		return *outcome.Rule
	}
	return schema.RuleResponse{ID: outcome.ID, Name: outcome.Name}
}
