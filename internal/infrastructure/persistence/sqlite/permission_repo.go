package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/bnema/geoprompt/internal/domain/entity"
	"github.com/bnema/geoprompt/internal/domain/repository"
	"github.com/bnema/geoprompt/internal/infrastructure/persistence/sqlite/sqlc"
	"github.com/bnema/geoprompt/internal/logging"
)

type permissionRepo struct {
	queries *sqlc.Queries
}

// NewPermissionRepository creates a new SQLite-backed permission repository.
func NewPermissionRepository(db *sql.DB) repository.PermissionRepository {
	return &permissionRepo{queries: sqlc.New(db)}
}

func (r *permissionRepo) Get(ctx context.Context, origin string, permType entity.PermissionType) (*entity.PermissionRecord, error) {
	log := logging.FromContext(ctx)
	log.Debug().Str("origin", origin).Str("type", string(permType)).Msg("getting permission")

	row, err := r.queries.GetPermission(ctx, sqlc.GetPermissionParams{
		Origin:         origin,
		PermissionType: string(permType),
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get permission: %w", err)
	}

	return permissionFromRow(row), nil
}

func (r *permissionRepo) Set(ctx context.Context, record *entity.PermissionRecord) error {
	log := logging.FromContext(ctx)

	if record == nil {
		log.Error().Msg("cannot set nil permission record")
		return errors.New("cannot set nil permission record")
	}

	updatedAt := record.UpdatedAt
	if updatedAt == 0 {
		updatedAt = time.Now().Unix()
	}

	log.Debug().
		Str("origin", record.Origin).
		Str("type", string(record.Type)).
		Str("decision", string(record.State)).
		Msg("setting permission")

	if err := r.queries.SetPermission(ctx, sqlc.SetPermissionParams{
		Origin:         record.Origin,
		PermissionType: string(record.Type),
		Decision:       string(record.State),
		UpdatedAt:      updatedAt,
	}); err != nil {
		return fmt.Errorf("set permission: %w", err)
	}
	return nil
}

func (r *permissionRepo) Delete(ctx context.Context, origin string, permType entity.PermissionType) error {
	log := logging.FromContext(ctx)
	log.Debug().Str("origin", origin).Str("type", string(permType)).Msg("deleting permission")

	return r.queries.DeletePermission(ctx, sqlc.DeletePermissionParams{
		Origin:         origin,
		PermissionType: string(permType),
	})
}

func (r *permissionRepo) GetAll(ctx context.Context, origin string) ([]*entity.PermissionRecord, error) {
	log := logging.FromContext(ctx)
	log.Debug().Str("origin", origin).Msg("getting all permissions for origin")

	rows, err := r.queries.ListPermissionsByOrigin(ctx, origin)
	if err != nil {
		return nil, err
	}
	return permissionsFromRows(rows), nil
}

func (r *permissionRepo) List(ctx context.Context) ([]*entity.PermissionRecord, error) {
	rows, err := r.queries.ListPermissions(ctx)
	if err != nil {
		return nil, err
	}
	return permissionsFromRows(rows), nil
}

func (r *permissionRepo) DeleteAll(ctx context.Context) (int64, error) {
	return r.queries.DeleteAllPermissions(ctx)
}

func permissionsFromRows(rows []sqlc.Permission) []*entity.PermissionRecord {
	records := make([]*entity.PermissionRecord, len(rows))
	for i, row := range rows {
		records[i] = permissionFromRow(row)
	}
	return records
}

func permissionFromRow(row sqlc.Permission) *entity.PermissionRecord {
	return &entity.PermissionRecord{
		Origin:    row.Origin,
		Type:      entity.PermissionType(row.PermissionType),
		State:     entity.ParsePermissionState(row.Decision),
		UpdatedAt: row.UpdatedAt,
	}
}
