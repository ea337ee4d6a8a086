package cache

import (
	"fmt"
	"time"

	"github.com/dgraph-io/ristretto"
)

// GeneralCache 本地缓存，条目按个数计成本，支持 TTL
type GeneralCache struct {
	cache *ristretto.Cache
	ttl   time.Duration
}

// NewGeneralCache 创建缓存
// maxItems: 最多保留的条目数
// ttl: 默认过期时间，0 表示不过期
func NewGeneralCache(maxItems int64, ttl time.Duration) (*GeneralCache, error) {
	if maxItems <= 0 {
		return nil, fmt.Errorf("缓存容量必须为正数: %d", maxItems)
	}
	// 成本只按条目个数计，不叠加 ristretto 的内部元数据
	c, err := ristretto.NewCache(&ristretto.Config{
		NumCounters:        maxItems * 10, // 计数器取容量的 10 倍
		MaxCost:            maxItems,
		BufferItems:        64,
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, fmt.Errorf("创建 ristretto 缓存失败: %w", err)
	}
	return &GeneralCache{cache: c, ttl: ttl}, nil
}

// Set 写入，使用默认 TTL；写入是异步的，返回 false 表示被丢弃
func (c *GeneralCache) Set(key string, value any) bool {
	return c.SetWithTTL(key, value, c.ttl)
}

// SetWithTTL 写入，指定 TTL
func (c *GeneralCache) SetWithTTL(key string, value any, ttl time.Duration) bool {
	return c.cache.SetWithTTL(key, value, 1, ttl)
}

func (c *GeneralCache) Get(key string) (any, bool) {
	return c.cache.Get(key)
}

// GetBool 读取布尔值，类型不符视为未命中
func (c *GeneralCache) GetBool(key string) (value bool, ok bool) {
	v, found := c.cache.Get(key)
	if !found {
		return false, false
	}
	value, ok = v.(bool)
	return value, ok
}

// GetInts 读取 []int，调用方不得修改返回的切片
func (c *GeneralCache) GetInts(key string) ([]int, bool) {
	v, found := c.cache.Get(key)
	if !found {
		return nil, false
	}
	ints, ok := v.([]int)
	return ints, ok
}

func (c *GeneralCache) Delete(key string) {
	c.cache.Del(key)
}

// Wait 等待缓冲区中的写入生效
func (c *GeneralCache) Wait() {
	c.cache.Wait()
}

func (c *GeneralCache) Close() {
	c.cache.Close()
}
