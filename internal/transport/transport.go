// Package transport builds the shared gRPC listener every Vorpal
// daemon (Agent, Registry, Worker) runs: UDS by default, or plaintext/
// TLS TCP, plus an advisory single-instance lock, health checks, and
// graceful shutdown on SIGINT/SIGTERM. Generalized from a single
// hardcoded server bootstrap into a reusable listener builder any of
// the three daemons can register their own grpc.ServiceRegistrar calls
// against.
package transport

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	ourcodec "github.com/vorpal-sh/vorpal/codec"
)

// Mode selects the listener's transport.
type Mode int

const (
	ModeUDS Mode = iota
	ModeTCP
	ModeTLS
)

// Config configures a Server.
type Config struct {
	Mode Mode

	// UDS
	SocketPath string

	// TCP / TLS
	Address string
	TLS     *tls.Config

	// HealthAddress, if set, serves gRPC health probes on their own
	// plaintext TCP listener instead of alongside the main service
	// listener — required when Mode is ModeTLS so a probe doesn't need
	// a client certificate, and kept for TCP/UDS modes too so the probe
	// contract doesn't depend on which mode a daemon happens to run in.
	HealthAddress string

	// ShutdownGrace bounds how long in-flight streams are given to
	// drain once a shutdown signal arrives.
	ShutdownGrace time.Duration

	Logger *zap.Logger
}

// Server wraps a grpc.Server plus lifecycle glue (listener, advisory
// lock, health service, signal handling).
type Server struct {
	cfg            Config
	grpc           *grpc.Server
	health         *health.Server
	healthGRPC     *grpc.Server
	listener       net.Listener
	healthListener net.Listener
	lock           *SocketLock
}

// New builds a Server. Callers register their services against
// Server.Registrar() before calling Serve.
func New(cfg Config) (*Server, error) {
	if cfg.ShutdownGrace == 0 {
		cfg.ShutdownGrace = 10 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	ourcodec.Register()

	var opts []grpc.ServerOption
	if cfg.Mode == ModeTLS {
		if cfg.TLS == nil {
			return nil, fmt.Errorf("transport: TLS mode requires a tls.Config")
		}
		opts = append(opts, grpc.Creds(credentials.NewTLS(cfg.TLS)))
	}

	grpcServer := grpc.NewServer(opts...)
	healthServer := health.NewServer()

	srv := &Server{cfg: cfg, grpc: grpcServer, health: healthServer}

	if cfg.HealthAddress != "" {
		srv.healthGRPC = grpc.NewServer()
		healthpb.RegisterHealthServer(srv.healthGRPC, healthServer)
	} else {
		healthpb.RegisterHealthServer(grpcServer, healthServer)
	}

	return srv, nil
}

// Registrar exposes the underlying grpc.ServiceRegistrar for callers to
// register AgentService/ArtifactService/etc. servers against.
func (s *Server) Registrar() grpc.ServiceRegistrar {
	return s.grpc
}

// SetServing marks the named service (or "" for the overall server)
// healthy, for callers to flip once startup has finished.
func (s *Server) SetServing(service string) {
	s.health.SetServingStatus(service, healthpb.HealthCheckResponse_SERVING)
}

// Listen opens the configured listener and, for UDS mode, acquires the
// single-instance advisory lock. Call before Serve.
func (s *Server) Listen() error {
	switch s.cfg.Mode {
	case ModeUDS:
		lock, err := AcquireSocketLock(s.cfg.SocketPath)
		if err != nil {
			return fmt.Errorf("acquire socket lock: %w", err)
		}
		s.lock = lock

		if err := removeStaleSocket(s.cfg.SocketPath); err != nil {
			lock.Release()
			return err
		}

		listener, err := net.Listen("unix", s.cfg.SocketPath)
		if err != nil {
			lock.Release()
			return fmt.Errorf("listen on %s: %w", s.cfg.SocketPath, err)
		}
		if err := os.Chmod(s.cfg.SocketPath, 0o660); err != nil {
			listener.Close()
			lock.Release()
			return err
		}
		s.listener = listener

	case ModeTCP, ModeTLS:
		listener, err := net.Listen("tcp", s.cfg.Address)
		if err != nil {
			return fmt.Errorf("listen on %s: %w", s.cfg.Address, err)
		}
		s.listener = listener

	default:
		return fmt.Errorf("transport: unknown mode %d", s.cfg.Mode)
	}

	if s.cfg.HealthAddress != "" {
		listener, err := net.Listen("tcp", s.cfg.HealthAddress)
		if err != nil {
			return fmt.Errorf("listen on health address %s: %w", s.cfg.HealthAddress, err)
		}
		s.healthListener = listener
	}

	return nil
}

// Serve blocks, serving RPCs until ctx is cancelled or a SIGINT/SIGTERM
// is received, then drains in-flight streams within ShutdownGrace.
func (s *Server) Serve(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- s.grpc.Serve(s.listener)
	}()
	if s.healthGRPC != nil {
		go func() {
			if err := s.healthGRPC.Serve(s.healthListener); err != nil {
				s.cfg.Logger.Warn("health listener stopped", zap.Error(err))
			}
		}()
	}

	select {
	case err := <-serveErr:
		s.cleanup()
		return err
	case <-ctx.Done():
		s.cfg.Logger.Info("shutdown signal received, draining in-flight RPCs")
		s.health.Shutdown()

		done := make(chan struct{})
		go func() {
			s.grpc.GracefulStop()
			if s.healthGRPC != nil {
				s.healthGRPC.GracefulStop()
			}
			close(done)
		}()

		select {
		case <-done:
		case <-time.After(s.cfg.ShutdownGrace):
			s.cfg.Logger.Warn("shutdown grace period elapsed, forcing stop")
			s.grpc.Stop()
			if s.healthGRPC != nil {
				s.healthGRPC.Stop()
			}
		}

		s.cleanup()
		return nil
	}
}

func (s *Server) cleanup() {
	if s.lock != nil {
		s.lock.Release()
	}
}

func removeStaleSocket(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	conn, err := net.DialTimeout("unix", path, 200*time.Millisecond)
	if err == nil {
		conn.Close()
		return fmt.Errorf("transport: socket %s is already live", path)
	}

	return os.Remove(path)
}
