// Command slow_write overwrites 1 MiB of an existing file with the ASCII
// character '0', starting at a byte offset, with a fixed pause between
// writes. It simulates a slow consumer for I/O timing tests.
//
// Usage:
//
//	slow_write FILE OFFSET
//
// OFFSET is a base-10 byte offset from the start of FILE. The file is
// never created and may be extended if offset+1MiB exceeds its size,
// subject to the filesystem's extend semantics. Exit status is 0 on
// completion (a mid-stream write error is reported as "write eof", leaves
// the file partially written and still exits 0), 1 if the open or the
// seek fails, and 2 on invalid arguments, including an offset that does
// not parse.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-git/go-billy/v5"
	log "github.com/sirupsen/logrus"

	"slowio/internal/fsio"
	"slowio/internal/pace"
	"slowio/internal/slowio"
)

// cliConfig captures parsed command-line arguments.
type cliConfig struct {
	path   string
	offset int64
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
	pacer pace.Pacer // nil selects the default 100ms interval
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
		return cfg, &cliError{exitCode: 2, msg: "invalid arguments\nusage: slow_write FILE OFFSET"}
	}

	fs := flag.NewFlagSet(args[0], flag.ContinueOnError)
	if err := fs.Parse(args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return cfg, &cliError{exitCode: 0, printed: true}
		}
		return cfg, &cliError{exitCode: 2, msg: err.Error(), printed: true}
	}

	if fs.NArg() != 2 {
		return cfg, &cliError{exitCode: 2, msg: fmt.Sprintf("invalid arguments\nusage: %s FILE OFFSET", args[0])}
	}
	cfg.path = fs.Arg(0)

	// An unparsable offset fails fast instead of silently becoming 0.
	// Negative offsets parse fine and are left for the seek to reject.
	offset, err := strconv.ParseInt(fs.Arg(1), 10, 64)
	if err != nil {
		return cfg, &cliError{
			exitCode: 2,
			msg:      fmt.Sprintf("invalid arguments: offset %q must be a base-10 integer", fs.Arg(1)),
		}
	}
	cfg.offset = offset
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

	f, err := fsio.OpenWrite(deps.fsys, path)
	if err != nil {
		return err
	}

	if _, err := f.Seek(cfg.offset, io.SeekStart); err != nil {
		if cerr := f.Close(); cerr != nil {
			log.WithError(cerr).Warn("closing file failed")
		}
		return fmt.Errorf("seek %q to offset %d: %w", path, cfg.offset, err)
	}

	writer := &slowio.Writer{File: f, Out: deps.out, Pacer: deps.pacer}
	written, runErr := writer.Run(context.Background())
	log.WithField("written", written).Debug("write loop finished")

	// The handle is released unconditionally once the loop is done,
	// whether the full payload landed or a write error cut it short.
	fmt.Fprintln(deps.out, slowio.MsgClosing)
	if cerr := f.Close(); cerr != nil {
		log.WithError(cerr).Warn("closing file failed")
	}
	return runErr
}
