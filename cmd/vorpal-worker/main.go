// Command vorpal-worker runs the Vorpal Worker daemon: it executes
// artifact build steps in sandboxed environments and publishes their
// outputs to a Registry.
package main

import (
	"fmt"
	"os"

	"github.com/vorpal-sh/vorpal/internal/cli"
)

func main() {
	if err := cli.NewWorkerCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
