package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/comitanigiacomo/readtrack-engine/internal/core/domain"
)

const ReportTTL = 10 * time.Minute

var (
	_ domain.ReportCache = (*RedisReportCache)(nil)
	_ domain.ReportCache = (*MemoryReportCache)(nil)
)

// putIfNewer stores the report and its timestamp unless the stored timestamp is later.
// KEYS: report, stamp. ARGV: payload, computed_at in ms, ttl in ms.
var putIfNewer = redis.NewScript(`
local current = redis.call('GET', KEYS[2])
if current and tonumber(current) > tonumber(ARGV[2]) then
	return 0
end
redis.call('SET', KEYS[1], ARGV[1], 'PX', ARGV[3])
redis.call('SET', KEYS[2], ARGV[2], 'PX', ARGV[3])
return 1
`)

type RedisReportCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisReportCache(client *redis.Client, ttl time.Duration) *RedisReportCache {
	if ttl <= 0 {
		ttl = ReportTTL
	}
	return &RedisReportCache{client: client, ttl: ttl}
}

func reportKey(userID string) string { return fmt.Sprintf("progress:%s", userID) }
func stampKey(userID string) string  { return fmt.Sprintf("progress:%s:computed_at", userID) }

func (c *RedisReportCache) Get(ctx context.Context, userID string) (*domain.ProgressReport, error) {
	data, err := c.client.Get(ctx, reportKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrReportNotCached
	}
	if err != nil {
		return nil, fmt.Errorf("redis get report: %w", err)
	}

	var report domain.ProgressReport
	if err := json.Unmarshal(data, &report); err != nil {
		c.client.Del(ctx, reportKey(userID), stampKey(userID))
		return nil, domain.ErrReportNotCached
	}
	return &report, nil
}

func (c *RedisReportCache) Put(ctx context.Context, report *domain.ProgressReport) error {
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	keys := []string{reportKey(report.UserID), stampKey(report.UserID)}
	err = putIfNewer.Run(ctx, c.client, keys, data, report.ComputedAt.UnixMilli(), c.ttl.Milliseconds()).Err()
	if err != nil {
		return fmt.Errorf("redis put report: %w", err)
	}
	return nil
}

func (c *RedisReportCache) Invalidate(ctx context.Context, userID string) error {
	return c.client.Del(ctx, reportKey(userID), stampKey(userID)).Err()
}

type memoryEntry struct {
	report    *domain.ProgressReport
	expiresAt time.Time
}

// MemoryReportCache is used when Redis is not configured.
type MemoryReportCache struct {
	ttl   time.Duration
	now   func() time.Time
	items map[string]memoryEntry

	mu sync.Mutex
}

func NewMemoryReportCache(ttl time.Duration) *MemoryReportCache {
	if ttl <= 0 {
		ttl = ReportTTL
	}
	return &MemoryReportCache{
		ttl:   ttl,
		now:   time.Now,
		items: make(map[string]memoryEntry),
	}
}

func (c *MemoryReportCache) Get(ctx context.Context, userID string) (*domain.ProgressReport, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.items[userID]
	if !ok {
		return nil, domain.ErrReportNotCached
	}
	if c.now().After(entry.expiresAt) {
		delete(c.items, userID)
		return nil, domain.ErrReportNotCached
	}

	return cloneReport(entry.report), nil
}

func (c *MemoryReportCache) Put(ctx context.Context, report *domain.ProgressReport) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if entry, ok := c.items[report.UserID]; ok && c.now().Before(entry.expiresAt) &&
		entry.report.ComputedAt.After(report.ComputedAt) {
		return nil
	}

	c.items[report.UserID] = memoryEntry{report: cloneReport(report), expiresAt: c.now().Add(c.ttl)}
	return nil
}

func (c *MemoryReportCache) Invalidate(ctx context.Context, userID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.items, userID)
	return nil
}

func cloneReport(report *domain.ProgressReport) *domain.ProgressReport {
	r := *report
	r.Goals = slices.Clone(report.Goals)
	return &r
}
