package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mercator-hq/meridian/pkg/config"
)

var lintFlags struct {
	file   string
	format string
}

var lintCmd = &cobra.Command{
	Use:   "lint",
	Short: "Validate a descriptor table",
	Long: `Validate a locations YAML file for syntax and structural errors.

The lint command parses the descriptor table and checks:
  - YAML syntax
  - required descriptor fields (locationType, uri)
  - alias expressions
  - datacenter equivalence records

Examples:
  # Lint a descriptor table
  meridian lint --file locations.yaml

  # JSON output for CI/CD
  meridian lint --file locations.yaml --format json`,
	RunE: lintLocations,
}

func init() {
	rootCmd.AddCommand(lintCmd)

	lintCmd.Flags().StringVarP(&lintFlags.file, "file", "f", "", "locations file to validate")
	lintCmd.Flags().StringVar(&lintFlags.format, "format", "text", "output format: text, json")
}

func lintLocations(cmd *cobra.Command, args []string) error {
	if lintFlags.file == "" {
		return fmt.Errorf("--file must be specified")
	}

	lf, err := config.LoadLocations(lintFlags.file)

	if lintFlags.format == "json" {
		out := map[string]any{
			"file":  lintFlags.file,
			"valid": err == nil,
		}
		var verr config.ValidationError
		if errors.As(err, &verr) {
			issues := make([]map[string]string, 0, len(verr.Errors))
			for _, fe := range verr.Errors {
				issues = append(issues, map[string]string{
					"field":   fe.Field,
					"message": fe.Message,
				})
			}
			out["issues"] = issues
		} else if err != nil {
			out["error"] = err.Error()
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if encErr := enc.Encode(out); encErr != nil {
			return encErr
		}
		if err != nil {
			os.Exit(1)
		}
		return nil
	}

	if err != nil {
		return err
	}

	fmt.Printf("✓ %s is valid (%d locations, %d datacenters)\n",
		lintFlags.file, len(lf.Locations), len(lf.Datacenters))
	return nil
}
