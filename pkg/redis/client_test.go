package redis

import (
	"testing"

	"github.com/mvidales/storefront-backend/pkg/config"
)

func TestOptionsFromConfigRequiresTarget(t *testing.T) {
	t.Parallel()

	if _, err := optionsFromConfig(config.RedisConfig{}); err == nil {
		t.Fatal("expected error when no url or address provided")
	}
}

func TestOptionsFromConfigParsesURL(t *testing.T) {
	t.Parallel()

	opts, err := optionsFromConfig(config.RedisConfig{URL: "redis://:secret@localhost:6380/2", PoolSize: 7})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.Addr != "localhost:6380" {
		t.Fatalf("unexpected addr %q", opts.Addr)
	}
	if opts.DB != 2 {
		t.Fatalf("unexpected db %d", opts.DB)
	}
	if opts.PoolSize != 7 {
		t.Fatalf("pool size not applied: %d", opts.PoolSize)
	}
}

func TestCouponKeyNamespaced(t *testing.T) {
	t.Parallel()

	c := &Client{}
	if got := c.CouponKey("SUMMER10"); got != "sf:coupon:SUMMER10" {
		t.Fatalf("unexpected key %q", got)
	}
}
