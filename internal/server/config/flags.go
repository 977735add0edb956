package config

import (
	"flag"
	"fmt"
	"io"

	"github.com/dmitrijs2005/filesmanager/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string     HTTP bind address (e.g. ":5000")
//	-g string     gRPC health bind address, empty disables it
//	-d string     PostgreSQL DSN
//	-t duration   session token lifetime (e.g. "24h")
//	-s string     session backend: memory, redis or badger
//	-r string     redis address
//	-f string     content folder path
//	-q string     thumbnail queue backend: memory or redis
//	-w int        thumbnail worker count
//	-l string     log level
//
// The function first filters args to only the flags it recognizes using
// flagx.FilterArgs, so -c/-config and unknown flags never reach the flag set.
func parseFlags(config *Config, args []string) error {
	filtered := flagx.FilterArgs(args, []string{"-a", "-g", "-d", "-t", "-s", "-r", "-f", "-q", "-w", "-l"})

	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.HTTPAddr, "a", config.HTTPAddr, "address and port to run the HTTP API")
	fs.StringVar(&config.GRPCHealthAddr, "g", config.GRPCHealthAddr, "address and port for the gRPC health endpoint")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.DurationVar(&config.TokenTTL, "t", config.TokenTTL, "session token lifetime")
	fs.StringVar(&config.SessionBackend, "s", config.SessionBackend, "session backend")
	fs.StringVar(&config.RedisAddr, "r", config.RedisAddr, "redis address")
	fs.StringVar(&config.FolderPath, "f", config.FolderPath, "content folder path")
	fs.StringVar(&config.QueueBackend, "q", config.QueueBackend, "thumbnail queue backend")
	fs.IntVar(&config.Workers, "w", config.Workers, "thumbnail worker count")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	if err := fs.Parse(filtered); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}

	return nil
}
