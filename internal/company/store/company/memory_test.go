package company

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"registrar/internal/company/models"
	id "registrar/pkg/domain"
	"registrar/pkg/platform/sentinel"
)

func sampleState(companyID id.CompanyID) *models.CompanyState {
	return &models.CompanyState{
		CompanyID:         companyID,
		Name:              "Sample Co., Ltd.",
		RegisteredCapital: decimal.NewFromInt(1_000_000),
		Term:              models.Indefinite(),
		Shareholders: models.ShareholderSet{
			{Party: models.NewPersonReference("P-1"), CapitalRatio: decimal.NewFromInt(100)},
		},
		VotingMode: models.VotingByCapitalRatio,
		Roster: models.GovernanceRoster{
			DirectorIDs:           []string{"P-1"},
			LegalRepresentativeID: "P-1",
		},
	}
}

func TestInMemoryCompanyStore(t *testing.T) {
	ctx := context.Background()

	t.Run("create and find round-trip", func(t *testing.T) {
		store := NewInMemory()
		companyID := id.CompanyID(uuid.New())
		require.NoError(t, store.Create(ctx, sampleState(companyID)))

		got, err := store.FindByID(ctx, companyID)
		require.NoError(t, err)
		require.Equal(t, "Sample Co., Ltd.", got.Name)
	})

	t.Run("duplicate create conflicts", func(t *testing.T) {
		store := NewInMemory()
		companyID := id.CompanyID(uuid.New())
		require.NoError(t, store.Create(ctx, sampleState(companyID)))
		require.ErrorIs(t, store.Create(ctx, sampleState(companyID)), sentinel.ErrConflict)
	})

	t.Run("find unknown returns not found", func(t *testing.T) {
		store := NewInMemory()
		_, err := store.FindByID(ctx, id.CompanyID(uuid.New()))
		require.ErrorIs(t, err, sentinel.ErrNotFound)
	})

	t.Run("update replaces the snapshot atomically", func(t *testing.T) {
		store := NewInMemory()
		companyID := id.CompanyID(uuid.New())
		require.NoError(t, store.Create(ctx, sampleState(companyID)))

		next, err := store.Update(ctx, companyID, func(current *models.CompanyState) (*models.CompanyState, error) {
			current.Name = "Renamed Co., Ltd."
			return current, nil
		})
		require.NoError(t, err)
		require.Equal(t, "Renamed Co., Ltd.", next.Name)

		got, err := store.FindByID(ctx, companyID)
		require.NoError(t, err)
		require.Equal(t, "Renamed Co., Ltd.", got.Name)
	})

	t.Run("update callback error aborts", func(t *testing.T) {
		store := NewInMemory()
		companyID := id.CompanyID(uuid.New())
		require.NoError(t, store.Create(ctx, sampleState(companyID)))

		boom := errors.New("boom")
		_, err := store.Update(ctx, companyID, func(*models.CompanyState) (*models.CompanyState, error) {
			return nil, boom
		})
		require.ErrorIs(t, err, boom)

		got, err := store.FindByID(ctx, companyID)
		require.NoError(t, err)
		require.Equal(t, "Sample Co., Ltd.", got.Name)
	})

	t.Run("returned snapshots never alias stored state", func(t *testing.T) {
		store := NewInMemory()
		companyID := id.CompanyID(uuid.New())
		require.NoError(t, store.Create(ctx, sampleState(companyID)))

		got, err := store.FindByID(ctx, companyID)
		require.NoError(t, err)
		got.Shareholders[0].CapitalRatio = decimal.NewFromInt(1)

		fresh, err := store.FindByID(ctx, companyID)
		require.NoError(t, err)
		require.True(t, fresh.Shareholders[0].CapitalRatio.Equal(decimal.NewFromInt(100)))
	})
}
