// Package memory provides an in-process permission store for sessions that
// must not write to disk.
package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/bnema/geoprompt/internal/domain/entity"
	"github.com/bnema/geoprompt/internal/domain/repository"
	"github.com/bnema/geoprompt/internal/logging"
)

type permissionKey struct {
	origin   string
	permType entity.PermissionType
}

// PermissionRepository keeps retained decisions in a map.
// Records are copied on the way in and out.
type PermissionRepository struct {
	mu      sync.RWMutex
	records map[permissionKey]entity.PermissionRecord
	now     func() time.Time
}

var _ repository.PermissionRepository = (*PermissionRepository)(nil)

// NewPermissionRepository returns an empty store.
func NewPermissionRepository() *PermissionRepository {
	return &PermissionRepository{
		records: make(map[permissionKey]entity.PermissionRecord),
		now:     time.Now,
	}
}

func (r *PermissionRepository) Get(_ context.Context, origin string, permType entity.PermissionType) (*entity.PermissionRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.records[permissionKey{origin, permType}]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (r *PermissionRepository) Set(ctx context.Context, record *entity.PermissionRecord) error {
	if record == nil {
		return errors.New("cannot set nil permission record")
	}

	rec := *record
	if rec.UpdatedAt == 0 {
		rec.UpdatedAt = r.now().Unix()
	}

	r.mu.Lock()
	r.records[permissionKey{rec.Origin, rec.Type}] = rec
	r.mu.Unlock()

	logging.FromContext(ctx).Debug().
		Str("origin", rec.Origin).
		Str("decision", string(rec.State)).
		Msg("stored permission in memory")
	return nil
}

func (r *PermissionRepository) Delete(_ context.Context, origin string, permType entity.PermissionType) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.records, permissionKey{origin, permType})
	return nil
}

func (r *PermissionRepository) GetAll(_ context.Context, origin string) ([]*entity.PermissionRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*entity.PermissionRecord
	for key, rec := range r.records {
		if key.origin == origin {
			rec := rec
			out = append(out, &rec)
		}
	}
	sortRecords(out)
	return out, nil
}

func (r *PermissionRepository) List(context.Context) ([]*entity.PermissionRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*entity.PermissionRecord, 0, len(r.records))
	for _, rec := range r.records {
		rec := rec
		out = append(out, &rec)
	}
	sortRecords(out)
	return out, nil
}

func (r *PermissionRepository) DeleteAll(context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := int64(len(r.records))
	clear(r.records)
	return n, nil
}

// sortRecords matches the SQLite store's ORDER BY origin, permission_type.
func sortRecords(records []*entity.PermissionRecord) {
	sort.Slice(records, func(i, j int) bool {
		if records[i].Origin != records[j].Origin {
			return records[i].Origin < records[j].Origin
		}
		return records[i].Type < records[j].Type
	})
}
