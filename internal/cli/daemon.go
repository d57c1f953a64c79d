// Package cli assembles the cobra command trees for Vorpal's daemon
// binaries (vorpal-agent, vorpal-registry, vorpal-worker) and the
// vorpal driver CLI. Grounded on theRebelliousNerd-codenerd's
// cmd/nerd/main.go root-command/PersistentPreRunE shape for zap logger
// construction, and mcptrust-mcptrust's internal/cli package layout
// (one file per command, flags bound in the command's constructor).
package cli

import (
	"context"
	"crypto/tls"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/vorpal-sh/vorpal/internal/transport"
)

// daemonFlags is the flag set every long-running daemon command shares:
// how to listen, and how verbosely to log.
type daemonFlags struct {
	socket        string
	address       string
	healthAddress string
	tlsCert       string
	tlsKey        string
	logLevel      string
}

func bindDaemonFlags(cmd *cobra.Command, f *daemonFlags, defaultAddress, defaultHealthAddress string) {
	cmd.Flags().StringVar(&f.socket, "socket", "", "unix socket path to listen on (overrides --address)")
	cmd.Flags().StringVar(&f.address, "address", defaultAddress, "TCP address to listen on")
	cmd.Flags().StringVar(&f.healthAddress, "health-address", defaultHealthAddress, "plaintext TCP address to serve gRPC health probes on, separate from --address")
	cmd.Flags().StringVar(&f.tlsCert, "tls-cert", "", "TLS certificate path (enables TLS)")
	cmd.Flags().StringVar(&f.tlsKey, "tls-key", "", "TLS key path (required with --tls-cert)")
	cmd.Flags().StringVar(&f.logLevel, "log-level", "info", "log level: debug, info, warn, error")
}

func buildLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	switch level {
	case "debug":
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	case "warn":
		cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	case "error":
		cfg.Level = zap.NewAtomicLevelAt(zapcore.ErrorLevel)
	case "info", "":
		cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	default:
		return nil, fmt.Errorf("unknown log level %q", level)
	}
	return cfg.Build()
}

func buildTransportConfig(f daemonFlags, logger *zap.Logger) (transport.Config, error) {
	if f.socket != "" {
		return transport.Config{Mode: transport.ModeUDS, SocketPath: f.socket, HealthAddress: f.healthAddress, Logger: logger}, nil
	}

	if f.tlsCert != "" {
		if f.tlsKey == "" {
			return transport.Config{}, fmt.Errorf("--tls-key is required with --tls-cert")
		}
		cert, err := tls.LoadX509KeyPair(f.tlsCert, f.tlsKey)
		if err != nil {
			return transport.Config{}, fmt.Errorf("load TLS keypair: %w", err)
		}
		return transport.Config{
			Mode:          transport.ModeTLS,
			Address:       f.address,
			HealthAddress: f.healthAddress,
			TLS:           &tls.Config{Certificates: []tls.Certificate{cert}},
			Logger:        logger,
		}, nil
	}

	return transport.Config{Mode: transport.ModeTCP, Address: f.address, HealthAddress: f.healthAddress, Logger: logger}, nil
}

// runDaemon builds a transport.Server from f, lets register attach its
// service(s), and blocks serving until the process receives SIGINT/
// SIGTERM.
func runDaemon(ctx context.Context, f daemonFlags, serviceName string, register func(*transport.Server)) error {
	logger, err := buildLogger(f.logLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	tcfg, err := buildTransportConfig(f, logger)
	if err != nil {
		return err
	}

	srv, err := transport.New(tcfg)
	if err != nil {
		return err
	}

	register(srv)

	if err := srv.Listen(); err != nil {
		return err
	}

	srv.SetServing(serviceName)
	logger.Info("daemon listening", zap.String("service", serviceName))

	return srv.Serve(ctx)
}
