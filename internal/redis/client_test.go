package redis

import (
	"context"
	"net"
	"os"
	"testing"
	"time"

	"github.com/mossy-p/livestream-gateway/config"
)

// newTestClient connects to the Redis at REDIS_ADDR, skipping when unset.
func newTestClient(t *testing.T) *Client {
	t.Helper()

	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		t.Fatalf("invalid REDIS_ADDR %q: %v", addr, err)
	}

	c, err := Connect(context.Background(), config.RedisConfig{Host: host, Port: port})
	if err != nil {
		t.Fatalf("Connect() error: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestAcquireRelease(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()
	name := "test-" + t.Name()

	token, ok, err := c.Acquire(ctx, name, 5*time.Second)
	if err != nil || !ok {
		t.Fatalf("first Acquire() = %v, %v", ok, err)
	}

	if _, ok, err := c.Acquire(ctx, name, 5*time.Second); err != nil || ok {
		t.Fatalf("second Acquire() = %v, %v; want held", ok, err)
	}

	if err := c.Release(ctx, name, "not-the-owner"); err != nil {
		t.Fatalf("Release(foreign) error: %v", err)
	}
	if _, ok, _ := c.Acquire(ctx, name, 5*time.Second); ok {
		t.Fatal("foreign release dropped the lock")
	}

	if err := c.Release(ctx, name, token); err != nil {
		t.Fatalf("Release() error: %v", err)
	}
	token, ok, err = c.Acquire(ctx, name, 5*time.Second)
	if err != nil || !ok {
		t.Fatalf("Acquire() after release = %v, %v", ok, err)
	}
	_ = c.Release(ctx, name, token)
}

func TestCloseNil(t *testing.T) {
	var c *Client
	if err := c.Close(); err != nil {
		t.Errorf("Close() on nil = %v", err)
	}
}
