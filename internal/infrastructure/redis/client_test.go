package redis

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"

	"github.com/fastygo/todo/internal/config"
)

func TestCacheOptionsBoundEveryRoundTrip(t *testing.T) {
	opts, err := cacheOptions(config.RedisConfig{URL: "redis://localhost:6379/2", DB: 4, Password: "secret"})
	if err != nil {
		t.Fatalf("options: %v", err)
	}
	if opts.DialTimeout != defaultTimeout || opts.ReadTimeout != defaultTimeout || opts.WriteTimeout != defaultTimeout {
		t.Fatalf("expected %v timeouts, got dial=%v read=%v write=%v", defaultTimeout, opts.DialTimeout, opts.ReadTimeout, opts.WriteTimeout)
	}
	if opts.DB != 4 || opts.Password != "secret" || opts.ClientName != clientName || opts.MaxRetries != 1 {
		t.Fatalf("unexpected options %+v", opts)
	}

	opts, err = cacheOptions(config.RedisConfig{URL: "redis://localhost:6379/2", Timeout: 75 * time.Millisecond})
	if err != nil {
		t.Fatalf("options: %v", err)
	}
	if opts.ReadTimeout != 75*time.Millisecond || opts.DB != 2 {
		t.Fatalf("configured timeout or url db ignored: %+v", opts)
	}

	if _, err := cacheOptions(config.RedisConfig{URL: "http://localhost"}); err == nil {
		t.Fatalf("expected invalid scheme to be rejected")
	}
}

func TestNewClientConnects(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	defer mr.Close()

	client, err := NewClient(context.Background(), config.RedisConfig{URL: "redis://" + mr.Addr() + "/0"}, nil)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer client.Close()

	if err := client.Set(context.Background(), "k", "v", 0).Err(); err != nil {
		t.Fatalf("set: %v", err)
	}
	if got, _ := mr.Get("k"); got != "v" {
		t.Fatalf("unexpected value %q", got)
	}
}

func TestNewClientFailsWhenUnreachable(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	addr := mr.Addr()
	mr.Close()

	if _, err := NewClient(context.Background(), config.RedisConfig{URL: "redis://" + addr + "/0", Timeout: 50 * time.Millisecond}, nil); err == nil {
		t.Fatalf("expected connection error")
	}
}
