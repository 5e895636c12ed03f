package cache

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// Every helper must degrade to a no-op without Redis; a cache outage can
// never take the API down.
func TestHelpersDegradeWithoutRedis(t *testing.T) {
	ctx := context.Background()

	locked, release := AcquireContainerLock(ctx, "MSKU1234567")
	assert.True(t, locked)
	release()

	_, ok := GetCachedYardMap(ctx)
	assert.False(t, ok)
	CacheYardMap(ctx, []byte("{}"))

	_, ok = GetCachedResolution(ctx, "MSKU1234567")
	assert.False(t, ok)
	CacheResolution(ctx, "MSKU1234567", []byte("{}"))
	InvalidateResolution(ctx, "MSKU1234567")
	InvalidateYardCaches(ctx)
}

// The single-container invalidation and the wildcard sweep must address
// the same key space, or a status change would leave a stale entry behind.
func TestResolutionKeyMatchesSweepPattern(t *testing.T) {
	key := fmt.Sprintf(ResolutionKeyFmt, "TGHU7654321")
	assert.Equal(t, "resolution:TGHU7654321", key)
}
