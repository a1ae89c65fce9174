//go:build integration

package application

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"registrar/internal/company/models"
	id "registrar/pkg/domain"
	"registrar/pkg/platform/sentinel"
	"registrar/pkg/testutil/containers"
)

func TestPostgresApplicationStore(t *testing.T) {
	pg := containers.NewPostgresContainer(t)
	store := NewPostgres(pg.Pool)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)

	t.Run("round-trip preserves the payload", func(t *testing.T) {
		app := sampleApp(id.CompanyID(uuid.New()), models.StatusSubmitted, now)
		require.NoError(t, store.CreateIfNonePending(ctx, app))

		got, err := store.FindByID(ctx, app.ID)
		require.NoError(t, err)
		require.Equal(t, app.Kind, got.Kind)
		require.Equal(t, models.StatusSubmitted, got.Status)
		require.NotNil(t, got.ProfileChange)
		require.Equal(t, "Renamed Co., Ltd.", *got.ProfileChange.Name)
	})

	t.Run("partial unique index blocks a second pending application", func(t *testing.T) {
		companyID := id.CompanyID(uuid.New())
		require.NoError(t, store.CreateIfNonePending(ctx, sampleApp(companyID, models.StatusSubmitted, now)))

		err := store.CreateIfNonePending(ctx, sampleApp(companyID, models.StatusSubmitted, now))
		require.ErrorIs(t, err, sentinel.ErrConflict)
	})

	t.Run("transition enforces the expected status", func(t *testing.T) {
		app := sampleApp(id.CompanyID(uuid.New()), models.StatusSubmitted, now)
		require.NoError(t, store.CreateIfNonePending(ctx, app))

		got, err := store.Transition(ctx, app.ID, models.StatusSubmitted, models.StatusApproved)
		require.NoError(t, err)
		require.Equal(t, models.StatusApproved, got.Status)

		_, err = store.Transition(ctx, app.ID, models.StatusSubmitted, models.StatusRejected)
		require.ErrorIs(t, err, sentinel.ErrInvalidState)
	})

	t.Run("list by company is ordered oldest first", func(t *testing.T) {
		companyID := id.CompanyID(uuid.New())
		older := sampleApp(companyID, models.StatusApproved, now.Add(-time.Hour))
		newer := sampleApp(companyID, models.StatusSubmitted, now)
		require.NoError(t, store.CreateIfNonePending(ctx, newer))
		require.NoError(t, store.CreateIfNonePending(ctx, older))

		apps, err := store.ListByCompany(ctx, companyID)
		require.NoError(t, err)
		require.Len(t, apps, 2)
		require.Equal(t, older.ID, apps[0].ID)
	})
}
