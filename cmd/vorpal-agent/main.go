// Command vorpal-agent runs the Vorpal Agent daemon: it resolves
// artifact sources on behalf of config programs and pushes their
// archives to a Registry.
package main

import (
	"fmt"
	"os"

	"github.com/vorpal-sh/vorpal/internal/cli"
)

func main() {
	if err := cli.NewAgentCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
