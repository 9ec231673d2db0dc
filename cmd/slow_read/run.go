// Command slow_read prints a file to standard output in bounded chunks
// with a fixed pause between reads, simulating a slow producer for I/O
// timing tests.
//
// Usage:
//
//	slow_read FILE
//
// Exit status is 0 on completion (a mid-stream read error is reported as
// "read eof" and still exits 0), 1 if the file cannot be opened, and 2 on
// invalid arguments. Concurrent access to FILE by other processes is
// governed by the filesystem, not coordinated here.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-git/go-billy/v5"
	log "github.com/sirupsen/logrus"

	"slowio/internal/fsio"
	"slowio/internal/pace"
	"slowio/internal/slowio"
)

// cliConfig captures parsed command-line arguments.
type cliConfig struct {
	path string
}

type cliError struct {
	exitCode int
	msg      string
	printed  bool
}

func (e *cliError) Error() string {
	return e.msg
}

// runDeps lets tests run the command against an in-memory filesystem and
// without wall-clock pacing.
type runDeps struct {
	fsys  billy.Filesystem
	out   io.Writer
	pacer pace.Pacer // nil selects the default 250ms interval
}

func defaultDeps() runDeps {
	return runDeps{
		fsys: fsio.OSRoot(),
		out:  os.Stdout,
	}
}

func parseArgs(args []string) (cliConfig, error) {
	var cfg cliConfig
	if len(args) == 0 {
		return cfg, &cliError{exitCode: 2, msg: "invalid arguments\nusage: slow_read FILE"}
	}

	fs := flag.NewFlagSet(args[0], flag.ContinueOnError)
	if err := fs.Parse(args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return cfg, &cliError{exitCode: 0, printed: true}
		}
		return cfg, &cliError{exitCode: 2, msg: err.Error(), printed: true}
	}

	if fs.NArg() != 1 {
		return cfg, &cliError{exitCode: 2, msg: fmt.Sprintf("invalid arguments\nusage: %s FILE", args[0])}
	}
	cfg.path = fs.Arg(0)
	return cfg, nil
}

func run(args []string, deps runDeps) error {
	cfg, err := parseArgs(args)
	if err != nil {
		return err
	}

	path, err := filepath.Abs(cfg.path)
	if err != nil {
		return fmt.Errorf("resolve %q: %w", cfg.path, err)
	}

	f, err := fsio.OpenRead(deps.fsys, path)
	if err != nil {
		return err
	}

	reader := &slowio.Reader{File: f, Out: deps.out, Pacer: deps.pacer}
	runErr := reader.Run(context.Background())

	// The handle is released unconditionally once the loop is done,
	// whether it ended at end-of-file or on a read error.
	fmt.Fprintln(deps.out, slowio.MsgClosing)
	if cerr := f.Close(); cerr != nil {
		log.WithError(cerr).Warn("closing file failed")
	}
	return runErr
}
