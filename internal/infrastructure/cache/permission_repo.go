package cache

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/bnema/geoprompt/internal/application/port"
	"github.com/bnema/geoprompt/internal/domain/entity"
	"github.com/bnema/geoprompt/internal/domain/repository"
	"github.com/bnema/geoprompt/internal/logging"
	"golang.org/x/sync/singleflight"
)

// DefaultPermissionCacheSize is used when no size is configured.
const DefaultPermissionCacheSize = 256

type permissionKey struct {
	origin   string
	permType entity.PermissionType
}

// String is the singleflight key. The separator can't appear in a serialized origin.
func (k permissionKey) String() string {
	return string(k.permType) + " " + k.origin
}

// cachedPermission is a lookup result; a nil record caches "no decision".
type cachedPermission struct {
	record *entity.PermissionRecord
}

// CacheStats counts lookups served by CachedPermissionRepository.
type CacheStats struct {
	Hits      int64
	Misses    int64
	Evictions int64 // entries dropped to make room
}

// CachedPermissionRepository is a read-through LRU in front of another store.
// Concurrent misses for the same key share one store lookup. Writes go to the
// store first and then invalidate the cached entry.
type CachedPermissionRepository struct {
	inner repository.PermissionRepository
	lru   port.Cache[permissionKey, cachedPermission]
	group singleflight.Group

	// gen is bumped on every write so an in-flight load can't cache a stale
	// result. fillMu orders the check-and-fill of a load against invalidation.
	fillMu    sync.Mutex
	gen       atomic.Uint64
	hits      atomic.Int64
	misses    atomic.Int64
	evictions atomic.Int64
}

var _ repository.PermissionRepository = (*CachedPermissionRepository)(nil)

// NewCachedPermissionRepository wraps inner with an LRU of size entries.
func NewCachedPermissionRepository(inner repository.PermissionRepository, size int) *CachedPermissionRepository {
	if size <= 0 {
		size = DefaultPermissionCacheSize
	}
	r := &CachedPermissionRepository{inner: inner}
	r.lru = NewLRU[permissionKey, cachedPermission](size).OnEvict(func(permissionKey, cachedPermission) {
		r.evictions.Add(1)
	})
	return r
}

func (r *CachedPermissionRepository) Get(ctx context.Context, origin string, permType entity.PermissionType) (*entity.PermissionRecord, error) {
	key := permissionKey{origin: origin, permType: permType}

	if cached, ok := r.lru.Get(key); ok {
		r.hits.Add(1)
		return copyRecord(cached.record), nil
	}
	r.misses.Add(1)

	v, err, shared := r.group.Do(key.String(), func() (any, error) {
		gen := r.gen.Load()
		record, err := r.inner.Get(ctx, origin, permType)
		if err != nil {
			return nil, err
		}
		r.fill(key, gen, record)
		return record, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		logging.FromContext(ctx).Trace().Str("origin", origin).Msg("shared permission lookup")
	}
	return copyRecord(v.(*entity.PermissionRecord)), nil
}

func (r *CachedPermissionRepository) Set(ctx context.Context, record *entity.PermissionRecord) error {
	if err := r.inner.Set(ctx, record); err != nil {
		return err
	}
	r.invalidate(permissionKey{origin: record.Origin, permType: record.Type})
	return nil
}

func (r *CachedPermissionRepository) Delete(ctx context.Context, origin string, permType entity.PermissionType) error {
	if err := r.inner.Delete(ctx, origin, permType); err != nil {
		return err
	}
	r.invalidate(permissionKey{origin: origin, permType: permType})
	return nil
}

func (r *CachedPermissionRepository) GetAll(ctx context.Context, origin string) ([]*entity.PermissionRecord, error) {
	return r.inner.GetAll(ctx, origin)
}

func (r *CachedPermissionRepository) List(ctx context.Context) ([]*entity.PermissionRecord, error) {
	return r.inner.List(ctx)
}

func (r *CachedPermissionRepository) DeleteAll(ctx context.Context) (int64, error) {
	n, err := r.inner.DeleteAll(ctx)
	r.fillMu.Lock()
	r.gen.Add(1)
	r.lru.Clear()
	r.fillMu.Unlock()
	return n, err
}

// Stats returns the counters since creation.
func (r *CachedPermissionRepository) Stats() CacheStats {
	return CacheStats{
		Hits:      r.hits.Load(),
		Misses:    r.misses.Load(),
		Evictions: r.evictions.Load(),
	}
}

func (r *CachedPermissionRepository) fill(key permissionKey, gen uint64, record *entity.PermissionRecord) {
	r.fillMu.Lock()
	defer r.fillMu.Unlock()
	if r.gen.Load() == gen {
		r.lru.Set(key, cachedPermission{record: copyRecord(record)})
	}
}

func (r *CachedPermissionRepository) invalidate(key permissionKey) {
	r.fillMu.Lock()
	defer r.fillMu.Unlock()
	r.gen.Add(1)
	r.lru.Remove(key)
}

func copyRecord(record *entity.PermissionRecord) *entity.PermissionRecord {
	if record == nil {
		return nil
	}
	cp := *record
	return &cp
}
