// Package config loads runtime configuration for the filesctl CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON or YAML file selected with --config/-c.
//  3. Global command-line flags, which override earlier values.
//
// Global flags must precede the subcommand:
//
//	filesctl --server http://files.local:5000 --timeout 5s ls
//
// Supported flags
//
//	-s, --server string     base URL of the files server
//	    --timeout duration  per-request timeout
//	    --state string      path of the local session database
//	-c, --config string     path of a config file
//
// # File schema
//
// Durations are decoded with timex.Duration, so "5s" and integer
// nanoseconds are both accepted:
//
//	{
//	  "server": "http://127.0.0.1:5000",
//	  "timeout": "10s",
//	  "state_file": "filesctl.db"
//	}
package config
