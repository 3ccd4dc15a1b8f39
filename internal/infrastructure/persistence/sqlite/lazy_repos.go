// Package sqlite provides the SQLite implementation of the permission store.
//
// The lazy wrapper in this file implements the same repository interface as its
// eager counterpart and defers opening the database until the first call.
package sqlite

import (
	"context"
	"sync"

	"github.com/bnema/geoprompt/internal/application/port"
	"github.com/bnema/geoprompt/internal/domain/entity"
	"github.com/bnema/geoprompt/internal/domain/repository"
)

// LazyPermissionRepository wraps a permission repository with lazy database initialization.
type LazyPermissionRepository struct {
	provider port.DatabaseProvider
	repo     repository.PermissionRepository
	once     sync.Once
	initErr  error
}

// NewLazyPermissionRepository creates a lazy-loading permission repository.
func NewLazyPermissionRepository(provider port.DatabaseProvider) repository.PermissionRepository {
	return &LazyPermissionRepository{provider: provider}
}

func (r *LazyPermissionRepository) init(ctx context.Context) error {
	r.once.Do(func() {
		db, err := r.provider.DB(ctx)
		if err != nil {
			r.initErr = err
			return
		}
		r.repo = NewPermissionRepository(db)
	})
	return r.initErr
}

func (r *LazyPermissionRepository) Get(ctx context.Context, origin string, permType entity.PermissionType) (*entity.PermissionRecord, error) {
	if err := r.init(ctx); err != nil {
		return nil, err
	}
	return r.repo.Get(ctx, origin, permType)
}

func (r *LazyPermissionRepository) Set(ctx context.Context, record *entity.PermissionRecord) error {
	if err := r.init(ctx); err != nil {
		return err
	}
	return r.repo.Set(ctx, record)
}

func (r *LazyPermissionRepository) Delete(ctx context.Context, origin string, permType entity.PermissionType) error {
	if err := r.init(ctx); err != nil {
		return err
	}
	return r.repo.Delete(ctx, origin, permType)
}

func (r *LazyPermissionRepository) GetAll(ctx context.Context, origin string) ([]*entity.PermissionRecord, error) {
	if err := r.init(ctx); err != nil {
		return nil, err
	}
	return r.repo.GetAll(ctx, origin)
}

func (r *LazyPermissionRepository) List(ctx context.Context) ([]*entity.PermissionRecord, error) {
	if err := r.init(ctx); err != nil {
		return nil, err
	}
	return r.repo.List(ctx)
}

func (r *LazyPermissionRepository) DeleteAll(ctx context.Context) (int64, error) {
	if err := r.init(ctx); err != nil {
		return 0, err
	}
	return r.repo.DeleteAll(ctx)
}
