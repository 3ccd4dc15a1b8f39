package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bnema/geoprompt/internal/domain/entity"
	"github.com/bnema/geoprompt/internal/domain/repository"
	"github.com/bnema/geoprompt/internal/logging"
)

// ErrInvalidRecord is returned by Import for records that cannot be stored.
var ErrInvalidRecord = errors.New("invalid permission record")

// ManagePermissionsUseCase inspects and edits retained permission decisions.
type ManagePermissionsUseCase struct {
	permRepo repository.PermissionRepository
	now      func() time.Time
}

// NewManagePermissionsUseCase creates a new permission management use case.
func NewManagePermissionsUseCase(permRepo repository.PermissionRepository) *ManagePermissionsUseCase {
	return &ManagePermissionsUseCase{
		permRepo: permRepo,
		now:      time.Now,
	}
}

// List returns every retained decision, or only those for origin when
// filterByOrigin is true.
func (uc *ManagePermissionsUseCase) List(
	ctx context.Context,
	origin string,
	filterByOrigin bool,
) ([]*entity.PermissionRecord, error) {
	if filterByOrigin {
		records, err := uc.permRepo.GetAll(ctx, origin)
		if err != nil {
			return nil, fmt.Errorf("list permissions for origin: %w", err)
		}
		return records, nil
	}

	records, err := uc.permRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list permissions: %w", err)
	}
	return records, nil
}

// Revoke forgets the retained geolocation decision for origin so the next
// request prompts again. It returns false if nothing was retained.
func (uc *ManagePermissionsUseCase) Revoke(ctx context.Context, origin string) (bool, error) {
	log := logging.FromContext(logging.WithOrigin(ctx, origin))

	record, err := uc.permRepo.Get(ctx, origin, entity.PermissionTypeGeolocation)
	if err != nil {
		return false, fmt.Errorf("get permission: %w", err)
	}
	if record == nil {
		return false, nil
	}

	if err := uc.permRepo.Delete(ctx, origin, entity.PermissionTypeGeolocation); err != nil {
		return false, fmt.Errorf("delete permission: %w", err)
	}
	log.Info().Str("state", string(record.State)).Msg("revoked retained permission")
	return true, nil
}

// Clear forgets every retained decision.
func (uc *ManagePermissionsUseCase) Clear(ctx context.Context) (int64, error) {
	n, err := uc.permRepo.DeleteAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("clear permissions: %w", err)
	}
	logging.FromContext(ctx).Info().Int64("removed", n).Msg("cleared retained permissions")
	return n, nil
}

// Import stores records, overwriting existing decisions for the same origin
// and type. Records in the "prompt" state delete any retained decision.
// Invalid records abort the import before anything is written.
func (uc *ManagePermissionsUseCase) Import(ctx context.Context, records []*entity.PermissionRecord) (int, error) {
	for i, r := range records {
		if err := validateRecord(r); err != nil {
			return 0, fmt.Errorf("record %d: %w", i, err)
		}
	}

	imported := 0
	for _, r := range records {
		var err error
		if r.State == entity.PermissionPrompt {
			err = uc.permRepo.Delete(ctx, r.Origin, r.Type)
		} else {
			rec := *r
			if rec.UpdatedAt == 0 {
				rec.UpdatedAt = uc.now().Unix()
			}
			err = uc.permRepo.Set(ctx, &rec)
		}
		if err != nil {
			return imported, fmt.Errorf("import %q: %w", r.Origin, err)
		}
		imported++
	}

	logging.FromContext(ctx).Info().Int("imported", imported).Msg("imported permissions")
	return imported, nil
}

func validateRecord(r *entity.PermissionRecord) error {
	if r == nil {
		return fmt.Errorf("%w: nil record", ErrInvalidRecord)
	}
	if r.Type == "" {
		return fmt.Errorf("%w: missing type", ErrInvalidRecord)
	}
	if !entity.CanPersist(r.Type) {
		return fmt.Errorf("%w: %s cannot be persisted", ErrInvalidRecord, r.Type)
	}
	switch r.State {
	case entity.PermissionGranted, entity.PermissionDenied, entity.PermissionPrompt:
	default:
		return fmt.Errorf("%w: unknown state %q", ErrInvalidRecord, r.State)
	}
	return nil
}
