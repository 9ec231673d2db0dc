package main

import (
	"errors"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
)

func main() {
	if err := run(os.Args, defaultDeps()); err != nil {
		var cliErr *cliError
		if errors.As(err, &cliErr) {
			if !cliErr.printed && cliErr.msg != "" {
				fmt.Fprintln(os.Stderr, cliErr.msg)
			}
			os.Exit(cliErr.exitCode)
		}
		log.Error(err)
		os.Exit(1)
	}
}
