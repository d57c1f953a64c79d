// Command vorpal-registry runs the Vorpal Registry daemon: the
// content-addressed artifact and archive store every other component
// reads from and writes to.
package main

import (
	"fmt"
	"os"

	"github.com/vorpal-sh/vorpal/internal/cli"
)

func main() {
	if err := cli.NewRegistryCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
