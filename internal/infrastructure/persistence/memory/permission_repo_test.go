package memory_test

import (
	"context"
	"testing"

	"github.com/bnema/geoprompt/internal/domain/entity"
	"github.com/bnema/geoprompt/internal/infrastructure/persistence/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPermissionRepository_RoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewPermissionRepository()

	rec, err := repo.Get(ctx, "", entity.PermissionTypeGeolocation)
	require.NoError(t, err)
	assert.Nil(t, rec)

	in := &entity.PermissionRecord{Origin: "", Type: entity.PermissionTypeGeolocation, State: entity.PermissionGranted}
	require.NoError(t, repo.Set(ctx, in))
	assert.Zero(t, in.UpdatedAt, "caller's record is not modified")

	rec, err = repo.Get(ctx, "", entity.PermissionTypeGeolocation)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.True(t, rec.IsGranted())
	assert.NotZero(t, rec.UpdatedAt)

	rec.State = entity.PermissionDenied
	again, _ := repo.Get(ctx, "", entity.PermissionTypeGeolocation)
	assert.True(t, again.IsGranted(), "returned records are copies")
}

func TestPermissionRepository_ListDeleteClear(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewPermissionRepository()

	require.NoError(t, repo.Set(ctx, &entity.PermissionRecord{Origin: "https://b.example", Type: entity.PermissionTypeGeolocation, State: entity.PermissionDenied}))
	require.NoError(t, repo.Set(ctx, &entity.PermissionRecord{Origin: "https://a.example", Type: entity.PermissionTypeNotification, State: entity.PermissionGranted}))
	require.NoError(t, repo.Set(ctx, &entity.PermissionRecord{Origin: "https://a.example", Type: entity.PermissionTypeGeolocation, State: entity.PermissionGranted}))

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "https://a.example", all[0].Origin)
	assert.Equal(t, entity.PermissionTypeGeolocation, all[0].Type)
	assert.Equal(t, "https://b.example", all[2].Origin)

	byOrigin, err := repo.GetAll(ctx, "https://a.example")
	require.NoError(t, err)
	assert.Len(t, byOrigin, 2)

	require.NoError(t, repo.Delete(ctx, "https://b.example", entity.PermissionTypeGeolocation))
	n, err := repo.DeleteAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	all, err = repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestPermissionRepository_SetNil(t *testing.T) {
	assert.Error(t, memory.NewPermissionRepository().Set(context.Background(), nil))
}
