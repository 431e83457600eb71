package tcnats

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/nats-io/nats.go"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// SetupTestNats returns a connection to a jetstream enabled nats server.
// NATS_URL is used if set, otherwise a container is started.
// The test is skipped if neither is available.
//
//nolint:thelper // setup
func SetupTestNats(t *testing.T) *nats.Conn {
	url := os.Getenv("NATS_URL")
	if url == "" {
		url = startContainer(t)
	}
	nc, err := nats.Connect(url)
	if err != nil {
		t.Fatalf("connect to %s: %v", url, err)
	}
	t.Cleanup(nc.Close)
	return nc
}

//nolint:thelper // setup
func startContainer(t *testing.T) string {
	testcontainers.SkipIfProviderIsNotHealthy(t)
	ctx := context.Background()
	port, err := nat.NewPort("tcp", "4222")
	if err != nil {
		t.Fatal(err)
	}
	container, err := SetupNats(ctx,
		WithPort(port.Port()),
		WithWaitStrategy(
			wait.ForLog("Server is ready").
				WithStartupTimeout(10*time.Second)),
		WithName("iracelog-gap-analysis-nats-test"),
	)
	if err != nil {
		t.Fatal(err)
	}
	containerPort, _ := container.MappedPort(ctx, port)
	host, _ := container.Host(ctx)
	return fmt.Sprintf("nats://%s:%s", host, containerPort.Port())
}
