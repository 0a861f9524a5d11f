package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/AadilJabar19/ERP-sub002/internal/domain"
)

const departmentKeyPrefix = "erp:department:"

// tombstone marks an invalidated key. It reads as a miss and blocks Fill until it expires.
const tombstone = "-"

// DepartmentCache stores department documents by id.
//
// Readers populate it with Fill, which never overwrites an existing entry. Writers
// use Set with the committed document, or Invalidate when there is none. A reader
// that loaded a document before a concurrent write therefore cannot put the old
// snapshot back.
type DepartmentCache interface {
	Get(ctx context.Context, id string) (*domain.Department, bool, error)
	Fill(ctx context.Context, dept *domain.Department) error
	Set(ctx context.Context, dept *domain.Department) error
	Invalidate(ctx context.Context, id string) error
}

type redisDepartmentCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewDepartmentCache returns a Redis-backed cache. A nil client or a zero ttl
// yields a cache that stores nothing.
func NewDepartmentCache(client redis.Cmdable, ttl time.Duration) DepartmentCache {
	if client == nil || ttl <= 0 {
		return noopDepartmentCache{}
	}
	return &redisDepartmentCache{client: client, ttl: ttl}
}

// DepartmentKey is the Redis key for a department id.
func DepartmentKey(id string) string {
	return departmentKeyPrefix + id
}

func (c *redisDepartmentCache) Get(ctx context.Context, id string) (*domain.Department, bool, error) {
	raw, err := c.client.Get(ctx, DepartmentKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache get: %w", err)
	}
	if string(raw) == tombstone {
		return nil, false, nil
	}

	var dept domain.Department
	if err := json.Unmarshal(raw, &dept); err != nil {
		return nil, false, fmt.Errorf("cache decode: %w", err)
	}
	return &dept, true, nil
}

// Fill stores dept only when its key is absent, tombstones included.
func (c *redisDepartmentCache) Fill(ctx context.Context, dept *domain.Department) error {
	payload, err := json.Marshal(dept)
	if err != nil {
		return fmt.Errorf("cache encode: %w", err)
	}
	if err := c.client.SetNX(ctx, DepartmentKey(dept.ID.Hex()), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache fill: %w", err)
	}
	return nil
}

// Set overwrites the entry with a freshly written document.
func (c *redisDepartmentCache) Set(ctx context.Context, dept *domain.Department) error {
	payload, err := json.Marshal(dept)
	if err != nil {
		return fmt.Errorf("cache encode: %w", err)
	}
	if err := c.client.Set(ctx, DepartmentKey(dept.ID.Hex()), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

// Invalidate replaces the entry with a tombstone for one ttl.
func (c *redisDepartmentCache) Invalidate(ctx context.Context, id string) error {
	if err := c.client.Set(ctx, DepartmentKey(id), tombstone, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache invalidate: %w", err)
	}
	return nil
}

type noopDepartmentCache struct{}

func (noopDepartmentCache) Get(context.Context, string) (*domain.Department, bool, error) {
	return nil, false, nil
}

func (noopDepartmentCache) Fill(context.Context, *domain.Department) error { return nil }

func (noopDepartmentCache) Set(context.Context, *domain.Department) error { return nil }

func (noopDepartmentCache) Invalidate(context.Context, string) error { return nil }
