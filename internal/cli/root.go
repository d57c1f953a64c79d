package cli

import "github.com/spf13/cobra"

// NewRootCommand builds the `vorpal` driver CLI's root command.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "vorpal",
		Short: "Vorpal build driver",
	}

	root.AddCommand(NewBuildCommand())

	return root
}
