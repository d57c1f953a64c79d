package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/vorpal-sh/vorpal/internal/registry"
	"github.com/vorpal-sh/vorpal/internal/transport"
	wirearchive "github.com/vorpal-sh/vorpal/rpcapi/archive"
	wireartifact "github.com/vorpal-sh/vorpal/rpcapi/artifact"
)

// NewRegistryCommand builds the vorpal-registry daemon's root command.
func NewRegistryCommand() *cobra.Command {
	var flags daemonFlags
	var storeRoot string
	var cacheTTL time.Duration

	cmd := &cobra.Command{
		Use:   "vorpal-registry",
		Short: "Run the Vorpal Registry daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDaemon(cmd.Context(), flags, "vorpal.registry", func(srv *transport.Server) {
				store := registry.NewFSBlobStore(storeRoot)
				reg := registry.New(store, cacheTTL)

				wireartifact.RegisterArtifactServiceServer(srv.Registrar(), registry.NewArtifactServer(reg))
				wirearchive.RegisterArchiveServiceServer(srv.Registrar(), registry.NewArchiveServer(reg))
			})
		},
	}

	bindDaemonFlags(cmd, &flags, "127.0.0.1:23152", "127.0.0.1:23252")
	cmd.Flags().StringVar(&storeRoot, "store-root", "/var/lib/vorpal/registry", "BlobStore root directory")
	cmd.Flags().DurationVar(&cacheTTL, "archive-cache-ttl", 300*time.Second, "archive-check cache TTL (0 disables caching)")

	return cmd
}
