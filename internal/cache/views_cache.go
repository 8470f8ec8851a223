package cache

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultViewsTTL = 30 * time.Second

// RedisViewsCacheManager 以短 TTL 快取每個 URI 的瀏覽數，擋在統計服務前面。
// 只回傳命中的 key；未命中或 Redis 失敗時由呼叫端回頭查統計服務。
type RedisViewsCacheManager interface {
	// 獲取：一批 URI 的快取瀏覽數，未命中的 URI 不會出現在結果中
	GetViews(ctx context.Context, uris []string) (map[string]int64, error)
	// 寫入：一批 URI 的瀏覽數
	SetViews(ctx context.Context, views map[string]int64) error
}

type RedisViewsCacheManagerImpl struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisViewsCacheManager(client *redis.Client, ttl time.Duration) RedisViewsCacheManager {
	if ttl <= 0 {
		ttl = defaultViewsTTL
	}
	return &RedisViewsCacheManagerImpl{
		client: client,
		ttl:    ttl,
	}
}

// 瀏覽數 key
func (m *RedisViewsCacheManagerImpl) getViewsKey(uri string) string {
	return "views:" + uri
}

func (m *RedisViewsCacheManagerImpl) GetViews(ctx context.Context, uris []string) (map[string]int64, error) {
	if len(uris) == 0 {
		return map[string]int64{}, nil
	}

	keys := make([]string, len(uris))
	for i, uri := range uris {
		keys[i] = m.getViewsKey(uri)
	}

	values, err := m.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	result := make(map[string]int64, len(uris))
	for i, val := range values {
		s, ok := val.(string)
		if !ok {
			continue // cache miss
		}
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			continue
		}
		result[uris[i]] = n
	}
	return result, nil
}

func (m *RedisViewsCacheManagerImpl) SetViews(ctx context.Context, views map[string]int64) error {
	if len(views) == 0 {
		return nil
	}

	pipe := m.client.Pipeline()
	for uri, hits := range views {
		pipe.Set(ctx, m.getViewsKey(uri), strconv.FormatInt(hits, 10), m.ttl)
	}
	_, err := pipe.Exec(ctx)
	return err
}
