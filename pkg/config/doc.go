// Package config provides configuration management for Meridian.
//
// Two kinds of external data are loaded here:
//
//   - the engine configuration (Config): resolver context defaults, admin
//     server settings, telemetry and audit options, loaded from YAML with
//     MERIDIAN_* environment variable overrides;
//   - the location descriptor table (LocationsFile): the list of location
//     descriptors and the datacenter equivalence table consumed by the
//     resolution engine. The table is input data; Meridian never
//     generates it.
//
// # Loading
//
//	cfg, err := config.Load("config.yaml")
//	table, err := config.LoadLocations(cfg.Locations.File)
//
// Environment variables follow the naming convention MERIDIAN_SECTION_FIELD
// (e.g., MERIDIAN_SERVER_LISTEN_ADDRESS overrides server.listen_address)
// and always take precedence over file values.
//
// # Hot reload
//
// When locations.watch is enabled, a Watcher re-reads the descriptor table
// on file changes (debounced) and hands the fresh table to a reload
// callback, which feeds it to Resolver.SetLocations. The watcher is the
// single writer into the registry; callbacks run serialized.
package config
