package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/anmicius0/rule-bulk-actions/internal/config"
	"github.com/anmicius0/rule-bulk-actions/internal/schema"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newValidateCmd() *cobra.Command {
	var (
		file   string
		dryRun bool
		maxIDs int
	)

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a bulk action request file without calling the rule engine",
		Long: `Validate a bulk action request stored as JSON or YAML.

Every issue is reported, not just the first. On success the normalized
request is printed as JSON.`,
		Example: `  rule-bulk-actions validate --file edit.yaml
  rule-bulk-actions validate --file enable.json --dry-run`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("max-ids") {
				maxIDs = config.MaxIDsFromEnv()
			}
			return runValidate(cmd.OutOrStdout(), file, dryRun, maxIDs)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "Path to the request file (.json, .yaml or .yml)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Validate the request as a dry run")
	cmd.Flags().IntVar(&maxIDs, "max-ids", config.DefaultMaxIDs, "Maximum number of ids per request, 0 disables the cap (defaults to BULK_MAX_IDS)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func runValidate(out io.Writer, file string, dryRun bool, maxIDs int) error {
	body, err := readRequestFile(file)
	if err != nil {
		return err
	}

	req, err := schema.DecodeBulkActionRequest(body)
	issues, err := appendIssues(nil, err)
	if err != nil {
		return err
	}
	if req != nil {
		if issues, err = appendIssues(issues, schema.CheckBoundary(req, dryRun, maxIDs)); err != nil {
			return err
		}
	}
	if len(issues) > 0 {
		for _, issue := range issues {
			fmt.Fprintf(out, "  - %s\n", issue)
		}
		return fmt.Errorf("%s is invalid: %d issue(s)", file, len(issues))
	}

	normalized, err := json.MarshalIndent(req, "", "  ")
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	fmt.Fprintln(out, string(normalized))
	return nil
}

// appendIssues adds the issues of a *schema.ValidationError. Any other error
// is returned as is.
func appendIssues(issues []schema.Issue, err error) ([]schema.Issue, error) {
	var validationErr *schema.ValidationError
	if errors.As(err, &validationErr) {
		return append(issues, validationErr.Issues...), nil
	}
	return issues, err
}

// readRequestFile returns the request as JSON. YAML files are converted.
func readRequestFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read request file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		var doc any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		if doc == nil {
			return nil, nil
		}
		converted, err := json.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("convert %s to JSON: %w", path, err)
		}
		return converted, nil
	default:
		return data, nil
	}
}
