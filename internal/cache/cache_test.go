package cache_test

import (
	"path/filepath"
	"testing"

	"github.com/sigtools/sig/internal/ancestors"
	"github.com/sigtools/sig/internal/cache"
)

func TestCacheRoundTripsAncestorList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")
	c, err := cache.Open(path)
	if err != nil {
		t.Fatalf("unexpected error opening cache: %v", err)
	}
	defer c.Close()

	hash := cache.ContentHash(map[string][]byte{"a.sig": []byte("class A\nend")})
	list := []ancestors.Ancestor{
		{Variant: ancestors.VariantInstance, Name: "::Dog"},
		{Variant: ancestors.VariantInstance, Name: "::Animal"},
		{Variant: ancestors.VariantInstance, Name: "::Object"},
	}

	if err := c.Put("::Dog", ancestors.Instance, hash, list); err != nil {
		t.Fatalf("unexpected error on Put: %v", err)
	}

	got, ok, err := c.Get("::Dog", ancestors.Instance, hash)
	if err != nil {
		t.Fatalf("unexpected error on Get: %v", err)
	}
	if !ok {
		t.Fatalf("expected a cache hit")
	}
	if len(got) != 3 || got[1].Name != "::Animal" {
		t.Fatalf("unexpected ancestor list: %v", got)
	}
}

func TestCacheMissOnDifferentHash(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")
	c, err := cache.Open(path)
	if err != nil {
		t.Fatalf("unexpected error opening cache: %v", err)
	}
	defer c.Close()

	_, ok, err := c.Get("::Missing", ancestors.Instance, "deadbeef")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatalf("expected a cache miss")
	}
}
