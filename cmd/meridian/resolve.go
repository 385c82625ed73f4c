package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mercator-hq/meridian/pkg/config"
	"mercator-hq/meridian/pkg/location"
)

var resolveFlags struct {
	locationsFile string
	path          string
	environment   string
	residency     string
	locationID    string
	format        string
}

var resolveCmd = &cobra.Command{
	Use:   "resolve <location-type>",
	Short: "Resolve a location type to a URL",
	Long: `Resolve a location type against a descriptor table from the command line.

The command loads the descriptor table, builds a one-shot resolver with the
given context, and prints the resolved URL. Useful for verifying a table
before deploying it.

Examples:
  # Resolve with the default production/US context
  meridian resolve svc --locations locations.yaml

  # Resolve with a path and explicit context
  meridian resolve svc --locations locations.yaml --path /users \
    --environment integration --residency EU

  # Full descriptor as JSON
  meridian resolve svc --locations locations.yaml --format json`,
	Args: cobra.ExactArgs(1),
	RunE: resolveLocation,
}

func init() {
	rootCmd.AddCommand(resolveCmd)

	resolveCmd.Flags().StringVar(&resolveFlags.locationsFile, "locations", "", "descriptor table file (defaults to the config's locations file)")
	resolveCmd.Flags().StringVar(&resolveFlags.path, "path", "", "path to append to the resolved base URL")
	resolveCmd.Flags().StringVar(&resolveFlags.environment, "environment", "", "context environment")
	resolveCmd.Flags().StringVar(&resolveFlags.residency, "residency", "", "context residency")
	resolveCmd.Flags().StringVar(&resolveFlags.locationID, "location-id", "", "context datacenter id")
	resolveCmd.Flags().StringVar(&resolveFlags.format, "format", "text", "output format: text, json")
}

// oneShotResolver builds a resolver over the table named by --locations,
// falling back to the config file's locations section.
func oneShotResolver() (*location.Resolver, error) {
	file := resolveFlags.locationsFile
	if file == "" {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return nil, fmt.Errorf("no --locations given and config load failed: %w", err)
		}
		file = cfg.Locations.File
	}

	locs, err := config.LoadLocations(file)
	if err != nil {
		return nil, fmt.Errorf("failed to load locations: %w", err)
	}

	resolver := location.NewResolver(location.ResolverConfig{
		Environment:  resolveFlags.environment,
		Residency:    resolveFlags.residency,
		Equivalences: locs.Datacenters,
	})
	if err := resolver.SetLocations(locs.Locations); err != nil {
		return nil, fmt.Errorf("failed to register locations: %w", err)
	}

	if resolveFlags.locationID != "" {
		if err := resolver.SetContext(location.ContextPatch{LocationID: resolveFlags.locationID}); err != nil {
			return nil, fmt.Errorf("failed to apply context: %w", err)
		}
	}
	return resolver, nil
}

func resolveLocation(cmd *cobra.Command, args []string) error {
	resolver, err := oneShotResolver()
	if err != nil {
		return err
	}

	locationType := args[0]
	url := resolver.ResolveURL(locationType, resolveFlags.path, nil)

	if resolveFlags.format == "json" {
		out := map[string]any{"url": url}
		if d := resolver.GetNode(locationType, nil); d != nil {
			out["node"] = d
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	fmt.Println(url)
	return nil
}
