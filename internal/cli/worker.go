package cli

import (
	"crypto/ecdh"

	"github.com/spf13/cobra"

	"github.com/vorpal-sh/vorpal/internal/transport"
	"github.com/vorpal-sh/vorpal/internal/worker"
	"github.com/vorpal-sh/vorpal/pkg/secret"
	wireworker "github.com/vorpal-sh/vorpal/rpcapi/worker"
)

// NewWorkerCommand builds the vorpal-worker daemon's root command.
func NewWorkerCommand() *cobra.Command {
	var flags daemonFlags
	var secretKeyPath string

	cmd := &cobra.Command{
		Use:   "vorpal-worker",
		Short: "Run the Vorpal Worker daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			var secretKey *ecdh.PrivateKey
			if secretKeyPath != "" {
				key, err := secret.LoadPrivateKeyFile(secretKeyPath)
				if err != nil {
					return err
				}
				secretKey = key
			}

			return runDaemon(cmd.Context(), flags, "vorpal.worker.WorkerService", func(srv *transport.Server) {
				server := worker.NewServer(transport.Dial, secretKey)
				wireworker.RegisterWorkerServiceServer(srv.Registrar(), server)
			})
		},
	}

	bindDaemonFlags(cmd, &flags, "127.0.0.1:23153", "127.0.0.1:23253")
	cmd.Flags().StringVar(&secretKeyPath, "secret-key", "", "path to this worker's X25519 secret-decryption private key")

	return cmd
}
