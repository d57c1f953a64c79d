package transport

import (
	"context"
	"testing"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

func TestServer_HealthAddressServesOnSeparateListener(t *testing.T) {
	srv, err := New(Config{Mode: ModeTCP, Address: "127.0.0.1:0", HealthAddress: "127.0.0.1:0"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := srv.Listen(); err != nil {
		t.Fatalf("Listen: %v", err)
	}

	mainAddr := srv.listener.Addr().String()
	healthAddr := srv.healthListener.Addr().String()
	if mainAddr == healthAddr {
		t.Fatalf("expected distinct listeners, both bound to %s", mainAddr)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go srv.Serve(ctx)

	conn, err := grpc.NewClient(healthAddr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		t.Fatalf("dial health listener: %v", err)
	}
	defer conn.Close()

	srv.SetServing("")
	client := healthpb.NewHealthClient(conn)

	var resp *healthpb.HealthCheckResponse
	for i := 0; i < 20; i++ {
		resp, err = client.Check(ctx, &healthpb.HealthCheckRequest{})
		if err == nil && resp.Status == healthpb.HealthCheckResponse_SERVING {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	if err != nil {
		t.Fatalf("Check on health listener: %v", err)
	}
	if resp.Status != healthpb.HealthCheckResponse_SERVING {
		t.Fatalf("status = %v, want SERVING", resp.Status)
	}
}

func TestServer_NoHealthAddressColocatesOnMainListener(t *testing.T) {
	srv, err := New(Config{Mode: ModeTCP, Address: "127.0.0.1:0"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := srv.Listen(); err != nil {
		t.Fatalf("Listen: %v", err)
	}
	if srv.healthGRPC != nil {
		t.Fatal("expected no separate health server when HealthAddress is unset")
	}
	if srv.healthListener != nil {
		t.Fatal("expected no separate health listener when HealthAddress is unset")
	}
}
