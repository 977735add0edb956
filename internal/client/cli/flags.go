package cli

import (
	"fmt"
	"io"

	"github.com/spf13/pflag"
)

func newFlagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

// parse parses args and checks that exactly positional arguments remain.
func parse(fs *pflag.FlagSet, args []string, positional int) error {
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrUsage, fs.Name(), err)
	}
	if fs.NArg() != positional {
		return fmt.Errorf("%w: %s expects %d argument(s), got %d", ErrUsage, fs.Name(), positional, fs.NArg())
	}
	return nil
}
