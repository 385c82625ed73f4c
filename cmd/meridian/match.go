package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var matchCmd = &cobra.Command{
	Use:   "match <url>",
	Short: "Reverse-lookup a URL against the descriptor table",
	Long: `Match a URL against registered URIs and alias patterns and print the
descriptor it belongs to.

The matched descriptor reflects rebinding: when the URL differs from the
descriptor's registered base, the printed descriptor carries the observed
base as its URI and the registered one as originalUri.

Examples:
  meridian match https://eu1.api.example.com/health --locations locations.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: matchURL,
}

func init() {
	rootCmd.AddCommand(matchCmd)

	// Shares the context flags with resolve.
	matchCmd.Flags().StringVar(&resolveFlags.locationsFile, "locations", "", "descriptor table file (defaults to the config's locations file)")
	matchCmd.Flags().StringVar(&resolveFlags.environment, "environment", "", "context environment")
	matchCmd.Flags().StringVar(&resolveFlags.residency, "residency", "", "context residency")
}

func matchURL(cmd *cobra.Command, args []string) error {
	resolver, err := oneShotResolver()
	if err != nil {
		return err
	}

	d := resolver.GetNodeByURI(args[0])
	if d == nil {
		return fmt.Errorf("no descriptor matches %q", args[0])
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(d)
}
