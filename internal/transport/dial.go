package transport

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	ourcodec "github.com/vorpal-sh/vorpal/codec"
)

// Dial opens a client connection to address, which may be a bare
// "host:port" or a "unix:///path/to/socket" target — grpc-go's builtin
// resolvers handle both. Internal callers (Driver, Agent, Worker) all
// run on a trusted loopback or UDS path, so plaintext transport
// credentials are the deliberate posture here, not a shortcut.
func Dial(ctx context.Context, address string) (*grpc.ClientConn, error) {
	ourcodec.Register()
	return grpc.NewClient(address, grpc.WithTransportCredentials(insecure.NewCredentials()))
}
