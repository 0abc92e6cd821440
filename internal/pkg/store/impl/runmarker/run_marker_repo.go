package runmarker

import (
	"context"
	"time"

	"loanbook-worker/internal/pkg/db/redis"

	goredis "github.com/redis/go-redis/v9"
)

// Cmdable is the slice of the go-redis API the marker needs.
type Cmdable interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *goredis.BoolCmd
}

// RunMarkerRepository records advisory "this quarter was already
// triggered" flags in Redis. Callers treat it as a hint for log
// visibility; losing Redis loses nothing but the hint.
type RunMarkerRepository struct {
	client Cmdable
}

func NewRunMarkerRepository(client *redis.RedisClient) *RunMarkerRepository {
	return &RunMarkerRepository{client: client.Client}
}

func NewRunMarkerRepositoryWithClient(client Cmdable) *RunMarkerRepository {
	return &RunMarkerRepository{client: client}
}

// TryMarkRun sets the key if absent. Returns true when this call was
// the first to mark the run.
func (r *RunMarkerRepository) TryMarkRun(ctx context.Context, key string,
	ttl time.Duration) (bool, error) {
	return r.client.SetNX(ctx, key, time.Now().UTC().Format(time.RFC3339), ttl).Result()
}
