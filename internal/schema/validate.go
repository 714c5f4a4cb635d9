package schema

import "fmt"

// ParseDryRun reads the dry_run query flag. An empty value means false.
func ParseDryRun(raw string) (bool, error) {
	switch raw {
	case "", "false":
		return false, nil
	case "true":
		return true, nil
	default:
		return false, &ValidationError{Issues: []Issue{{
			Path:    "dry_run",
			Message: fmt.Sprintf("Invalid enum value. Expected 'true' | 'false', received '%s'", raw),
		}}}
	}
}

// CheckBoundary enforces the request invariants that the payload schema leaves
// open: ids and query are mutually exclusive, ids are capped at maxIDs, and
// export cannot be simulated. A maxIDs of zero disables the cap.
func CheckBoundary(req *BulkActionRequest, dryRun bool, maxIDs int) error {
	var issues issueList
	if req.Query != nil && len(req.IDs) > 0 {
		issues.add("", "Both query and ids are sent. Define either ids or query in request payload.")
	}
	if maxIDs > 0 && len(req.IDs) > maxIDs {
		issues.add("ids", "More than %d ids sent for bulk %s action.", maxIDs, req.Action)
	}
	if dryRun && req.Action == BulkActionExport {
		issues.add("dry_run", "Export action doesn't support dry_run mode")
	}
	return issues.err()
}
