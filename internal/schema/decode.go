package schema

import (
	"bytes"
	"cmp"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed bulk_action.schema.json
var requestSchemaJSON string

var requestSchema = jsonschema.MustCompileString("bulk_action.schema.json", requestSchemaJSON)

// DecodeBulkActionRequest parses and validates a bulk action request body.
//
// On failure it returns a *ValidationError listing every issue found. When the
// body is a JSON object the returned request also carries whatever selector
// fields could be read, so boundary checks can be reported alongside the
// schema issues.
func DecodeBulkActionRequest(body []byte) (*BulkActionRequest, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, singleIssue("", "Request body is required")
	}
	if !json.Valid(body) {
		return nil, singleIssue("", "Malformed JSON body")
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, singleIssue("", "Malformed JSON body")
	}

	if issues := schemaIssues(requestSchema.Validate(doc)); len(issues) > 0 {
		return selectorOf(doc), issues.err()
	}

	req, err := decodeRequest(body)
	if err != nil {
		return nil, singleIssue("", fmt.Sprintf("Malformed request: %v", err))
	}
	return req, nil
}

type rawRequest struct {
	Query     *string         `json:"query"`
	IDs       []string        `json:"ids"`
	Action    BulkActionType  `json:"action"`
	Duplicate json.RawMessage `json:"duplicate"`
	Edit      json.RawMessage `json:"edit"`
}

// decodeRequest maps a body that already passed the schema onto the typed
// request.
func decodeRequest(body []byte) (*BulkActionRequest, error) {
	var raw rawRequest
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, err
	}
	req := &BulkActionRequest{Query: raw.Query, IDs: raw.IDs, Action: raw.Action}

	// Payload keys belonging to other actions are dropped, not rejected.
	switch req.Action {
	case BulkActionDuplicate:
		if len(raw.Duplicate) > 0 {
			req.Duplicate = &DuplicatePayload{}
			if err := json.Unmarshal(raw.Duplicate, req.Duplicate); err != nil {
				return nil, fmt.Errorf("duplicate: %w", err)
			}
		}
	case BulkActionEdit:
		var items []json.RawMessage
		if err := json.Unmarshal(raw.Edit, &items); err != nil {
			return nil, fmt.Errorf("edit: %w", err)
		}
		req.Edit = make([]EditOperation, 0, len(items))
		for i, item := range items {
			op, err := decodeEditOperation(item)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", indexPath("edit", i), err)
			}
			req.Edit = append(req.Edit, op)
		}
	}
	return req, nil
}

func decodeEditOperation(raw json.RawMessage) (EditOperation, error) {
	var head struct {
		Type EditOperationType `json:"type"`
	}
	if err := json.Unmarshal(raw, &head); err != nil {
		return nil, err
	}

	var op EditOperation
	switch head.Type {
	case EditAddTags, EditDeleteTags, EditSetTags:
		op = &TagsOperation{}
	case EditAddIndexPatterns, EditDeleteIndexPatterns, EditSetIndexPatterns:
		op = &IndexPatternsOperation{}
	case EditSetTimeline:
		op = &TimelineOperation{}
	case EditAddRuleActions, EditSetRuleActions:
		op = &RuleActionsOperation{}
	case EditSetSchedule:
		op = &ScheduleOperation{}
	default:
		return nil, fmt.Errorf("unknown edit operation type '%s'", head.Type)
	}
	if err := json.Unmarshal(raw, op); err != nil {
		return nil, err
	}

	// An empty alerts filter means no filter.
	if actions, ok := op.(*RuleActionsOperation); ok {
		for i := range actions.Value.Actions {
			if len(actions.Value.Actions[i].AlertsFilter) == 0 {
				actions.Value.Actions[i].AlertsFilter = nil
			}
		}
	}
	return op, nil
}

// selectorOf reads the selector and action of a rejected body, skipping values
// of the wrong type. It returns nil when the body is not an object.
func selectorOf(doc any) *BulkActionRequest {
	obj, ok := doc.(map[string]any)
	if !ok {
		return nil
	}
	req := &BulkActionRequest{}
	if query, ok := obj["query"].(string); ok {
		req.Query = &query
	}
	if ids, ok := obj["ids"].([]any); ok {
		for _, id := range ids {
			if s, ok := id.(string); ok {
				req.IDs = append(req.IDs, s)
			}
		}
	}
	if action, ok := obj["action"].(string); ok {
		req.Action = BulkActionType(action)
	}
	return req
}

// schemaIssues flattens a schema validation error into one issue per failing
// keyword, ordered by path.
func schemaIssues(err error) issueList {
	if err == nil {
		return nil
	}
	var issues issueList
	var validationErr *jsonschema.ValidationError
	if !errors.As(err, &validationErr) {
		issues.add("", "%v", err)
		return issues
	}
	collectLeaves(validationErr, &issues)

	slices.SortStableFunc(issues, func(a, b Issue) int {
		return cmp.Or(
			cmp.Compare(pathSortKey(a.Path), pathSortKey(b.Path)),
			cmp.Compare(a.Message, b.Message),
		)
	})
	return slices.Compact(issues)
}

func collectLeaves(err *jsonschema.ValidationError, issues *issueList) {
	if len(err.Causes) == 0 {
		issues.add(pointerPath(err.InstanceLocation), "%s", err.Message)
		return
	}
	for _, cause := range err.Causes {
		collectLeaves(cause, issues)
	}
}

var pointerEscapes = strings.NewReplacer("~1", "/", "~0", "~")

// pointerPath turns a JSON pointer such as "/edit/0/value" into "edit[0].value".
func pointerPath(pointer string) string {
	var path string
	for _, token := range strings.Split(pointer, "/") {
		if token == "" {
			continue
		}
		if unescaped, err := url.PathUnescape(token); err == nil {
			token = unescaped
		}
		token = pointerEscapes.Replace(token)
		if i, err := strconv.Atoi(token); err == nil {
			path = indexPath(path, i)
			continue
		}
		path = joinPath(path, token)
	}
	return path
}

var indexPattern = regexp.MustCompile(`\[(\d+)\]`)

// pathSortKey pads array indexes so that edit[2] sorts before edit[10].
func pathSortKey(path string) string {
	return indexPattern.ReplaceAllStringFunc(path, func(index string) string {
		n, _ := strconv.Atoi(index[1 : len(index)-1])
		return fmt.Sprintf("[%010d]", n)
	})
}

func singleIssue(path, message string) error {
	return &ValidationError{Issues: []Issue{{Path: path, Message: message}}}
}
