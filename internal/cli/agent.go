package cli

import (
	"github.com/spf13/cobra"

	"github.com/vorpal-sh/vorpal/internal/agent"
	"github.com/vorpal-sh/vorpal/internal/transport"
	wireagent "github.com/vorpal-sh/vorpal/rpcapi/agent"
)

// NewAgentCommand builds the vorpal-agent daemon's root command.
func NewAgentCommand() *cobra.Command {
	var flags daemonFlags

	cmd := &cobra.Command{
		Use:   "vorpal-agent",
		Short: "Run the Vorpal Agent daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDaemon(cmd.Context(), flags, "vorpal.agent.AgentService", func(srv *transport.Server) {
				server := agent.NewServer(transport.Dial)
				wireagent.RegisterAgentServiceServer(srv.Registrar(), server)
			})
		},
	}

	bindDaemonFlags(cmd, &flags, "127.0.0.1:23151", "127.0.0.1:23251")

	return cmd
}
