package service

import (
	"errors"
	"net/http"
	"testing"

	"github.com/anmicius0/rule-bulk-actions/internal/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func failed(id string, statusCode int, message, errCode string) schema.RuleOutcome {
	return schema.RuleOutcome{
		ID:     id,
		Status: schema.OutcomeFailed,
		Error:  &schema.RuleError{Message: message, StatusCode: statusCode, ErrCode: errCode},
	}
}

func assertSummaryConsistent(t *testing.T, report *BulkActionReport) {
	t.Helper()
	s := report.Summary
	assert.Equal(t, s.Failed+s.Skipped+s.Succeeded, s.Total)
	assert.Equal(t, len(report.Results.Updated)+len(report.Results.Created)+len(report.Results.Deleted), s.Succeeded)
	assert.Equal(t, len(report.Results.Skipped), s.Skipped)
	failedRules := 0
	for _, e := range report.Errors {
		failedRules += len(e.Rules)
	}
	assert.Equal(t, failedRules, s.Failed)
}

func TestAggregate_Empty(t *testing.T) {
	report, err := Aggregate(nil, false)
	require.NoError(t, err)

	assert.True(t, report.Succeeded())
	assert.Equal(t, http.StatusOK, report.StatusCode)
	assert.Equal(t, schema.BulkEditActionSummary{}, report.Summary)
	assert.NotNil(t, report.Results.Updated)
	assert.NotNil(t, report.Results.Skipped)
	assert.Nil(t, report.Errors)
}

func TestAggregate_PartialFailure(t *testing.T) {
	outcomes := []schema.RuleOutcome{
		{ID: "r1", Status: schema.OutcomeUpdated},
		failed("r2", http.StatusForbidden, "forbidden", ""),
	}

	report, err := Aggregate(outcomes, false)
	require.NoError(t, err)

	assert.False(t, report.Succeeded())
	assert.Equal(t, schema.BulkEditActionSummary{Failed: 1, Skipped: 0, Succeeded: 1, Total: 2}, report.Summary)
	assert.Equal(t, http.StatusForbidden, report.StatusCode)
	assert.Equal(t, []schema.NormalizedRuleError{{
		Message:    "forbidden",
		StatusCode: http.StatusForbidden,
		Rules:      []schema.RuleErrorRef{{ID: "r2"}},
	}}, report.Errors)
	assert.Equal(t, []schema.RuleResponse{{ID: "r1"}}, report.Results.Updated)
	assertSummaryConsistent(t, report)
}

func TestAggregate_PartitionsByStatus(t *testing.T) {
	rule := &schema.RuleResponse{ID: "r1", Name: "Full rule", Enabled: true, Version: 3}
	outcomes := []schema.RuleOutcome{
		{ID: "r1", Status: schema.OutcomeUpdated, Rule: rule},
		{ID: "r2", Name: "Copy", Status: schema.OutcomeCreated},
		{ID: "r3", Status: schema.OutcomeDeleted},
		{ID: "r4", Name: "Same", Status: schema.OutcomeSkipped},
		{ID: "r5", Status: schema.OutcomeSkipped, SkipReason: schema.SkipRuleNotModified},
	}

	report, err := Aggregate(outcomes, false)
	require.NoError(t, err)

	assert.True(t, report.Succeeded())
	assert.Equal(t, []schema.RuleResponse{*rule}, report.Results.Updated)
	assert.Equal(t, []schema.RuleResponse{{ID: "r2", Name: "Copy"}}, report.Results.Created)
	assert.Equal(t, []schema.RuleResponse{{ID: "r3"}}, report.Results.Deleted)
	assert.Equal(t, []schema.BulkActionSkipResult{
		{ID: "r4", Name: "Same", SkipReason: schema.SkipRuleNotModified},
		{ID: "r5", SkipReason: schema.SkipRuleNotModified},
	}, report.Results.Skipped)
	assert.Equal(t, 3, report.Summary.Succeeded)
	assertSummaryConsistent(t, report)
}

func TestAggregate_GroupsErrors(t *testing.T) {
	outcomes := []schema.RuleOutcome{
		failed("r1", http.StatusConflict, "conflict", "VERSION_CONFLICT"),
		failed("r2", http.StatusForbidden, "forbidden", ""),
		failed("r3", http.StatusConflict, "conflict", "VERSION_CONFLICT"),
		failed("r4", http.StatusConflict, "conflict", "OTHER"),
	}
	outcomes[1].Name = "Second"

	report, err := Aggregate(outcomes, false)
	require.NoError(t, err)

	require.Len(t, report.Errors, 3)
	assert.Equal(t, "VERSION_CONFLICT", report.Errors[0].ErrCode)
	assert.Equal(t, []schema.RuleErrorRef{{ID: "r1"}, {ID: "r3"}}, report.Errors[0].Rules)
	assert.Equal(t, []schema.RuleErrorRef{{ID: "r2", Name: "Second"}}, report.Errors[1].Rules)
	assert.Equal(t, "OTHER", report.Errors[2].ErrCode)
	assertSummaryConsistent(t, report)
}

func TestAggregate_StatusSeverity(t *testing.T) {
	tests := []struct {
		name     string
		outcomes []schema.RuleOutcome
		want     int
	}{
		{
			name: "server error wins",
			outcomes: []schema.RuleOutcome{
				failed("r1", http.StatusBadRequest, "bad", ""),
				failed("r2", http.StatusForbidden, "forbidden", ""),
				failed("r3", http.StatusBadGateway, "upstream", ""),
			},
			want: http.StatusBadGateway,
		},
		{
			name: "forbidden beats other client errors",
			outcomes: []schema.RuleOutcome{
				failed("r1", http.StatusConflict, "conflict", ""),
				failed("r2", http.StatusForbidden, "forbidden", ""),
			},
			want: http.StatusForbidden,
		},
		{
			name: "ties keep first occurrence",
			outcomes: []schema.RuleOutcome{
				failed("r1", http.StatusConflict, "conflict", ""),
				failed("r2", http.StatusBadRequest, "bad", ""),
			},
			want: http.StatusConflict,
		},
		{
			name: "server error ties keep first occurrence",
			outcomes: []schema.RuleOutcome{
				failed("r1", http.StatusServiceUnavailable, "down", ""),
				failed("r2", http.StatusInternalServerError, "boom", ""),
			},
			want: http.StatusServiceUnavailable,
		},
		{
			name: "missing status code counts as internal error",
			outcomes: []schema.RuleOutcome{
				failed("r1", http.StatusForbidden, "forbidden", ""),
				failed("r2", 0, "unknown", ""),
			},
			want: http.StatusInternalServerError,
		},
		{
			name: "success code on a failure counts as internal error",
			outcomes: []schema.RuleOutcome{
				failed("r1", http.StatusForbidden, "forbidden", ""),
				failed("r2", http.StatusOK, "odd", ""),
			},
			want: http.StatusInternalServerError,
		},
		{
			name: "code beyond the http range counts as internal error",
			outcomes: []schema.RuleOutcome{
				failed("r1", 1000, "odd", ""),
				failed("r2", http.StatusForbidden, "forbidden", ""),
			},
			want: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report, err := Aggregate(tt.outcomes, false)
			require.NoError(t, err)
			assert.Equal(t, tt.want, report.StatusCode)
		})
	}
}

func TestAggregate_ClampsErrorStatus(t *testing.T) {
	report, err := Aggregate([]schema.RuleOutcome{
		failed("r1", http.StatusOK, "odd", ""),
		failed("r2", 1000, "odd", ""),
		failed("r3", 399, "odd", ""),
		failed("r4", 599, "edge", ""),
	}, false)
	require.NoError(t, err)

	require.Len(t, report.Errors, 2)
	assert.Equal(t, http.StatusInternalServerError, report.Errors[0].StatusCode)
	assert.Equal(t, []schema.RuleErrorRef{{ID: "r1"}, {ID: "r2"}, {ID: "r3"}}, report.Errors[0].Rules)
	assert.Equal(t, 599, report.Errors[1].StatusCode)
	assert.Equal(t, http.StatusInternalServerError, report.StatusCode)
}

func TestAggregate_DryRun(t *testing.T) {
	t.Run("skips default to dry run reason", func(t *testing.T) {
		report, err := Aggregate([]schema.RuleOutcome{
			{ID: "r1", Status: schema.OutcomeSkipped},
			{ID: "r2", Status: schema.OutcomeSkipped, SkipReason: schema.SkipRuleNotModified},
			failed("r3", http.StatusForbidden, "forbidden", ""),
		}, true)
		require.NoError(t, err)

		assert.Equal(t, schema.SkipDryRun, report.Results.Skipped[0].SkipReason)
		assert.Equal(t, schema.SkipRuleNotModified, report.Results.Skipped[1].SkipReason)
		assert.Equal(t, 0, report.Summary.Succeeded)
		assertSummaryConsistent(t, report)
	})

	for _, status := range []schema.OutcomeStatus{schema.OutcomeUpdated, schema.OutcomeCreated, schema.OutcomeDeleted} {
		t.Run("rejects "+string(status), func(t *testing.T) {
			report, err := Aggregate([]schema.RuleOutcome{
				{ID: "r1", Status: schema.OutcomeSkipped},
				{ID: "r2", Status: status},
			}, true)
			assert.Nil(t, report)

			var fatal *FatalError
			require.ErrorAs(t, err, &fatal)
			assert.Equal(t, "r2", fatal.RuleID)
			assert.True(t, errors.Is(err, ErrInvariantViolation))
		})
	}
}

func TestAggregate_InvalidOutcomes(t *testing.T) {
	t.Run("failed without error", func(t *testing.T) {
		_, err := Aggregate([]schema.RuleOutcome{{ID: "r1", Status: schema.OutcomeFailed}}, false)
		assert.ErrorIs(t, err, ErrInvariantViolation)
	})

	t.Run("unknown status", func(t *testing.T) {
		_, err := Aggregate([]schema.RuleOutcome{{ID: "r1", Status: "archived"}}, false)
		var fatal *FatalError
		require.ErrorAs(t, err, &fatal)
		assert.Contains(t, fatal.Reason, "archived")
	})
}
