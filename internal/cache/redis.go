package cache

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache keys
const (
	YardMapKey       = "yard:map"
	ContainerLockFmt = "reconcile:lock:%s"
	ResolutionKeyFmt = "resolution:%s"
	defaultLockTTL   = 30 * time.Second
)

var client *redis.Client

// Init initializes the Redis connection
func Init() error {
	host := os.Getenv("REDIS_HOST")
	if host == "" {
		host = "localhost"
	}
	port := os.Getenv("REDIS_PORT")
	if port == "" {
		port = "6379"
	}

	client = redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		// Close the failed client and set to nil for graceful degradation
		client.Close()
		client = nil
		return err
	}
	return nil
}

// GetClient returns the Redis client (nil when unavailable)
func GetClient() *redis.Client {
	return client
}

// AcquireContainerLock serializes corrections for one container. Two racing
// corrections could both act on a stale read and double-apply a transition;
// the SET NX key prevents that. Different containers never contend.
//
// Returns ok=false when another holder owns the lock. Without Redis the
// lock degrades to a no-op, which is acceptable for a single-instance
// deployment.
func AcquireContainerLock(ctx context.Context, containerNo string) (bool, func()) {
	if client == nil {
		return true, func() {}
	}
	key := fmt.Sprintf(ContainerLockFmt, containerNo)
	ok, err := client.SetNX(ctx, key, 1, defaultLockTTL).Result()
	if err != nil || !ok {
		return false, func() {}
	}
	return true, func() {
		client.Del(context.Background(), key)
	}
}

// GetCachedYardMap returns the cached occupancy map if available
func GetCachedYardMap(ctx context.Context) ([]byte, bool) {
	if client == nil {
		return nil, false
	}
	data, err := client.Get(ctx, YardMapKey).Bytes()
	if err != nil {
		return nil, false
	}
	return data, true
}

// CacheYardMap caches the occupancy map for 2 minutes
func CacheYardMap(ctx context.Context, data []byte) {
	if client == nil {
		return
	}
	client.Set(ctx, YardMapKey, data, 2*time.Minute)
}

// InvalidateYardCaches clears yard occupancy caches.
// Called when: Place, Remove, ApplyCorrection, RebuildSlotCache
func InvalidateYardCaches(ctx context.Context) {
	if client == nil {
		return
	}
	client.Del(ctx, YardMapKey)
	keys, err := client.Keys(ctx, "resolution:*").Result()
	if err == nil && len(keys) > 0 {
		client.Del(ctx, keys...)
	}
}

// InvalidateResolution drops one container's cached resolution. Called on
// every status change so the consistency view never lags a gate event.
func InvalidateResolution(ctx context.Context, containerNo string) {
	if client == nil {
		return
	}
	client.Del(ctx, fmt.Sprintf(ResolutionKeyFmt, containerNo))
}

// GetCachedResolution returns a cached state resolution for a container
func GetCachedResolution(ctx context.Context, containerNo string) ([]byte, bool) {
	if client == nil {
		return nil, false
	}
	data, err := client.Get(ctx, fmt.Sprintf(ResolutionKeyFmt, containerNo)).Bytes()
	if err != nil {
		return nil, false
	}
	return data, true
}

// CacheResolution caches one container's resolution for 60 seconds
func CacheResolution(ctx context.Context, containerNo string, data []byte) {
	if client == nil {
		return
	}
	client.Set(ctx, fmt.Sprintf(ResolutionKeyFmt, containerNo), data, time.Minute)
}
