package cache

import (
	"context"
	"strconv"
	"sync"
	"time"
)

type item struct {
	value      string
	expiration int64
}

// Cache is an in-memory TTL key-value store implementing store.KV. It is
// the stand-in for the Redis store in tests and redis-less development.
// Expired entries are rejected on read and swept by a background GC.
type Cache struct {
	items map[string]item
	mu    sync.RWMutex
}

func NewCache() *Cache {
	cache := &Cache{
		items: make(map[string]item),
	}
	go cache.startGC()
	return cache
}

func (c *Cache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[key] = item{
		value:      value,
		expiration: time.Now().Add(ttl).UnixNano(),
	}
	return nil
}

func (c *Cache) Get(ctx context.Context, key string) (string, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	it, found := c.items[key]
	if !found {
		return "", false, nil
	}

	if time.Now().UnixNano() > it.expiration {
		return "", false, nil
	}

	return it.value, true, nil
}

func (c *Cache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
	return nil
}

func (c *Cache) Incr(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	it, found := c.items[key]
	if !found || now.UnixNano() > it.expiration {
		c.items[key] = item{value: "1", expiration: now.Add(ttl).UnixNano()}
		return 1, nil
	}

	count, _ := strconv.ParseInt(it.value, 10, 64)
	count++
	c.items[key] = item{value: strconv.FormatInt(count, 10), expiration: it.expiration}
	return count, nil
}

func (c *Cache) startGC() {
	ticker := time.NewTicker(time.Minute)
	for {
		<-ticker.C
		c.mu.Lock()
		for k, v := range c.items {
			if time.Now().UnixNano() > v.expiration {
				delete(c.items, k)
			}
		}
		c.mu.Unlock()
	}
}
