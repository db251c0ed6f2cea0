package repositories

import (
	"canteen-pos/models"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrCacheMiss = errors.New("cache miss")

// CatalogCache stores one catalog snapshot per branch. Entries carry their
// own capture timestamp and are never expired by the store itself.
type CatalogCache interface {
	Get(ctx context.Context, branchID int64) (*models.CatalogSnapshot, error)
	Set(ctx context.Context, snapshot *models.CatalogSnapshot) error
}

type cacheEntry struct {
	Timestamp int64     `json:"timestamp"`
	Data      cacheData `json:"data"`
}

type cacheData struct {
	Categories []models.Category `json:"categories"`
	Products   []models.Product  `json:"products"`
}

func CacheKey(branchID int64) string {
	return fmt.Sprintf("pos_cache_data_%d", branchID)
}

func encodeEntry(snapshot *models.CatalogSnapshot) ([]byte, error) {
	return json.Marshal(cacheEntry{
		Timestamp: snapshot.CapturedAt.UnixMilli(),
		Data: cacheData{
			Categories: snapshot.Categories,
			Products:   snapshot.Products,
		},
	})
}

func decodeEntry(branchID int64, raw []byte) (*models.CatalogSnapshot, error) {
	var entry cacheEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return nil, fmt.Errorf("unmarshal catalog failed: %w", err)
	}
	categories := entry.Data.Categories
	if categories == nil {
		categories = []models.Category{}
	}
	products := entry.Data.Products
	if products == nil {
		products = []models.Product{}
	}
	return &models.CatalogSnapshot{
		BranchID:   branchID,
		Categories: categories,
		Products:   products,
		CapturedAt: time.UnixMilli(entry.Timestamp),
	}, nil
}

type RedisCatalogCache struct {
	client *redis.Client
}

func NewRedisCatalogCache(client *redis.Client) *RedisCatalogCache {
	return &RedisCatalogCache{client: client}
}

func (r *RedisCatalogCache) Get(ctx context.Context, branchID int64) (*models.CatalogSnapshot, error) {
	data, err := r.client.Get(ctx, CacheKey(branchID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}
	return decodeEntry(branchID, data)
}

func (r *RedisCatalogCache) Set(ctx context.Context, snapshot *models.CatalogSnapshot) error {
	data, err := encodeEntry(snapshot)
	if err != nil {
		return fmt.Errorf("marshal catalog failed: %w", err)
	}
	if err := r.client.Set(ctx, CacheKey(snapshot.BranchID), data, 0).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

// MemoryCatalogCache is used when Redis is unavailable.
type MemoryCatalogCache struct {
	mu      sync.RWMutex
	entries map[string][]byte
}

func NewMemoryCatalogCache() *MemoryCatalogCache {
	return &MemoryCatalogCache{entries: make(map[string][]byte)}
}

func (m *MemoryCatalogCache) Get(_ context.Context, branchID int64) (*models.CatalogSnapshot, error) {
	m.mu.RLock()
	raw, ok := m.entries[CacheKey(branchID)]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrCacheMiss
	}
	return decodeEntry(branchID, raw)
}

func (m *MemoryCatalogCache) Set(_ context.Context, snapshot *models.CatalogSnapshot) error {
	data, err := encodeEntry(snapshot)
	if err != nil {
		return fmt.Errorf("marshal catalog failed: %w", err)
	}
	m.mu.Lock()
	m.entries[CacheKey(snapshot.BranchID)] = data
	m.mu.Unlock()
	return nil
}
