//go:build integration

package company

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"registrar/internal/company/models"
	id "registrar/pkg/domain"
	"registrar/pkg/platform/sentinel"
	"registrar/pkg/testutil/containers"
)

func TestPostgresCompanyStore(t *testing.T) {
	pg := containers.NewPostgresContainer(t)
	store := NewPostgres(pg.Pool)
	ctx := context.Background()

	t.Run("round-trip preserves the snapshot", func(t *testing.T) {
		companyID := id.CompanyID(uuid.New())
		require.NoError(t, store.Create(ctx, sampleState(companyID)))

		got, err := store.FindByID(ctx, companyID)
		require.NoError(t, err)
		require.Equal(t, "Sample Co., Ltd.", got.Name)
		require.True(t, got.RegisteredCapital.Equal(decimal.NewFromInt(1_000_000)))
		require.Len(t, got.Shareholders, 1)
	})

	t.Run("duplicate create conflicts", func(t *testing.T) {
		companyID := id.CompanyID(uuid.New())
		require.NoError(t, store.Create(ctx, sampleState(companyID)))
		require.ErrorIs(t, store.Create(ctx, sampleState(companyID)), sentinel.ErrConflict)
	})

	t.Run("update is atomic and durable", func(t *testing.T) {
		companyID := id.CompanyID(uuid.New())
		require.NoError(t, store.Create(ctx, sampleState(companyID)))

		_, err := store.Update(ctx, companyID, func(current *models.CompanyState) (*models.CompanyState, error) {
			current.Name = "Renamed Co., Ltd."
			return current, nil
		})
		require.NoError(t, err)

		got, err := store.FindByID(ctx, companyID)
		require.NoError(t, err)
		require.Equal(t, "Renamed Co., Ltd.", got.Name)
	})

	t.Run("update of unknown company", func(t *testing.T) {
		_, err := store.Update(ctx, id.CompanyID(uuid.New()), func(current *models.CompanyState) (*models.CompanyState, error) {
			return current, nil
		})
		require.ErrorIs(t, err, sentinel.ErrNotFound)
	})
}
