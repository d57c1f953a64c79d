// Command vorpal is the build driver CLI: it spawns a config program,
// resolves the artifacts it declares, and builds them in dependency
// order via the Agent, Worker, and Registry daemons.
package main

import (
	"fmt"
	"os"

	"github.com/vorpal-sh/vorpal/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
