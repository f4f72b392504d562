package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/kurkanduk/gigabroom/cmd"
)

// Populated at build time via -ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cmd.SetVersionInfo(version, commit, date)

	if err := cmd.Execute(); err != nil {
		var exit *cmd.ExitError
		if errors.As(err, &exit) {
			fmt.Fprintln(os.Stderr, "gigabroom:", exit.Msg)
			os.Exit(exit.Code)
		}
		fmt.Fprintln(os.Stderr, "gigabroom:", err)
		os.Exit(1)
	}
}
