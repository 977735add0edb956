package config

import (
	"io"

	"github.com/spf13/pflag"
)

// newFlagSet binds the global flags to cfg. Parsing stops at the first
// non-flag argument so subcommand flags are left alone.
func newFlagSet(cfg *Config) (*pflag.FlagSet, *string) {
	fs := pflag.NewFlagSet("filesctl", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.SetInterspersed(false)

	fs.StringVarP(&cfg.ServerURL, "server", "s", cfg.ServerURL, "base URL of the files server")
	fs.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "per-request timeout")
	fs.StringVar(&cfg.StateFile, "state", cfg.StateFile, "path of the local session database")
	path := fs.StringP("config", "c", "", "path of a config file")

	return fs, path
}

// overlayChanged copies into cfg the values of flags set explicitly on the
// command line; flagged holds the values parsed from them.
func overlayChanged(fs *pflag.FlagSet, cfg, flagged *Config) {
	if fs.Changed("server") {
		cfg.ServerURL = flagged.ServerURL
	}
	if fs.Changed("timeout") {
		cfg.Timeout = flagged.Timeout
	}
	if fs.Changed("state") {
		cfg.StateFile = flagged.StateFile
	}
}
