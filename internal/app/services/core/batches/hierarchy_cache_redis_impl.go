package batches

import (
	"context"
	"fmt"
	"oncobilling-service/internal/app/contracts"
	"oncobilling-service/internal/app/services/billing/hierarchy"
	"oncobilling-service/internal/pkg/constvars"
	"oncobilling-service/internal/pkg/exceptions"
	"time"

	"github.com/goccy/go-json"
)

// hierarchyRedisCache stores reconstructed hierarchies, and with them the
// claim-number index, as JSON under one key per batch.
type hierarchyRedisCache struct {
	redisRepo contracts.RedisRepository
	ttl       time.Duration
}

func NewHierarchyRedisCache(redisRepo contracts.RedisRepository, ttl time.Duration) contracts.HierarchyCache {
	return &hierarchyRedisCache{
		redisRepo: redisRepo,
		ttl:       ttl,
	}
}

func (c *hierarchyRedisCache) Get(ctx context.Context, batchID string) (*hierarchy.Result, error) {
	data, err := c.redisRepo.Get(ctx, claimIndexKey(batchID))
	if err != nil {
		return nil, err
	}
	if data == "" {
		return nil, nil
	}

	var result hierarchy.Result
	if err := json.Unmarshal([]byte(data), &result); err != nil {
		return nil, exceptions.ErrCannotParseJSON(err)
	}
	return &result, nil
}

func (c *hierarchyRedisCache) Set(ctx context.Context, result *hierarchy.Result) error {
	if result == nil {
		return nil
	}
	return c.redisRepo.Set(ctx, claimIndexKey(result.BatchID), result, c.ttl)
}

func (c *hierarchyRedisCache) Invalidate(ctx context.Context, batchID string) error {
	return c.redisRepo.Delete(ctx, claimIndexKey(batchID))
}

func claimIndexKey(batchID string) string {
	return fmt.Sprintf(constvars.RedisKeyClaimIndexFormat, batchID)
}
