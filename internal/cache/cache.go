package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sysu-ecnc-dev/roster-board/backend/internal/config"
	"github.com/sysu-ecnc-dev/roster-board/backend/internal/domain"
)

// SnapshotCache 是副本数据的降级缓存。
// 只在数据库读取失败时读取，带 TTL 作为显式的过期策略，从不作为权威数据源
type SnapshotCache struct {
	cfg *config.Config
	rdb *redis.Client
}

func NewSnapshotCache(cfg *config.Config, rdb *redis.Client) *SnapshotCache {
	return &SnapshotCache{
		cfg: cfg,
		rdb: rdb,
	}
}

func snapshotKey(id string) string {
	return fmt.Sprintf("roster_snapshot_%s", id)
}

func (c *SnapshotCache) GetSnapshot(ctx context.Context, id string) (*domain.RosterSnapshot, error) {
	data, err := c.rdb.Get(ctx, snapshotKey(id)).Bytes()
	if err != nil {
		return nil, err
	}

	snapshot := &domain.RosterSnapshot{}
	if err := json.Unmarshal(data, snapshot); err != nil {
		return nil, err
	}

	return snapshot, nil
}

func (c *SnapshotCache) SetSnapshot(ctx context.Context, snapshot *domain.RosterSnapshot) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}

	ttl := time.Duration(c.cfg.Cache.SnapshotTTL) * time.Second
	return c.rdb.Set(ctx, snapshotKey(snapshot.ID), data, ttl).Err()
}

func (c *SnapshotCache) DeleteSnapshot(ctx context.Context, id string) error {
	return c.rdb.Del(ctx, snapshotKey(id)).Err()
}
