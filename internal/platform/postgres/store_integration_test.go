//go:build integration

package postgres_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/attendance-api/internal/domain"
	"github.com/phrazzld/attendance-api/internal/platform/postgres"
	"github.com/phrazzld/attendance-api/internal/store"
	"github.com/phrazzld/attendance-api/internal/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStores_UserLifecycle(t *testing.T) {
	db := testdb.GetTestDBWithT(t)

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		ctx := context.Background()
		users := postgres.NewPostgresUserStore(tx, nil)
		creds := postgres.NewPostgresCredentialStore(tx, nil)

		email := "it-" + uuid.NewString()[:8] + "@example.com"
		user, err := domain.NewUser(email, "Integration User")
		require.NoError(t, err)

		// Credential first: the foreign key is deferred to commit.
		require.NoError(t, creds.Create(ctx, &domain.Credential{
			UserID: user.ID, Email: email, PasswordHash: "hash", CreatedAt: time.Now().UTC(),
		}))
		require.NoError(t, users.Create(ctx, user))

		exists, err := users.ExistsByEmail(ctx, "IT-"+email[3:])
		require.NoError(t, err)
		assert.True(t, exists)

		dup, err := domain.NewUser(email, "Someone Else")
		require.NoError(t, err)
		assert.ErrorIs(t, users.Create(ctx, dup), store.ErrEmailExists)
	})
}

func TestStores_LicenseCounter(t *testing.T) {
	db := testdb.GetTestDBWithT(t)

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		ctx := context.Background()
		license := postgres.NewPostgresLicenseStore(tx, nil)

		before, err := license.GetForUpdate(ctx)
		require.NoError(t, err)

		require.NoError(t, license.SetCurrentUsers(ctx, before.CurrentUsers+1))

		after, err := license.GetForUpdate(ctx)
		require.NoError(t, err)
		assert.Equal(t, before.CurrentUsers+1, after.CurrentUsers)
		assert.False(t, after.LastUpdated.Before(before.LastUpdated))
	})
}

func TestStores_AttendanceWithAudit(t *testing.T) {
	db := testdb.GetTestDBWithT(t)

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		ctx := context.Background()
		users := postgres.NewPostgresUserStore(tx, nil)
		attendance := postgres.NewPostgresAttendanceStore(tx, nil)

		user, err := domain.NewUser("att-"+uuid.NewString()[:8]+"@example.com", "Ann")
		require.NoError(t, err)
		require.NoError(t, users.Create(ctx, user))

		start := time.Date(2024, 5, 6, 9, 0, 0, 0, time.UTC)
		a := &domain.AttendanceLog{
			ID:            uuid.New(),
			Type:          domain.RemoteWork,
			StartDateTime: start,
			EndDateTime:   start.Add(8 * time.Hour),
			Hours:         8,
			Reason:        "focus day",
			Status:        domain.AttendanceStatusPending,
			UserID:        user.ID,
			UserName:      user.Name,
			CreatedAt:     time.Now().UTC(),
		}
		require.NoError(t, attendance.Create(ctx, a))

		entry := domain.NewAuditEntry(a.ID, domain.AuditActionCreate, user.Name)
		require.NoError(t, attendance.AppendAudit(ctx, entry))
		assert.False(t, entry.ActionDateTime.IsZero())

		got, err := attendance.GetByID(ctx, a.ID)
		require.NoError(t, err)
		require.Len(t, got.AuditTrail, 1)
		assert.Equal(t, user.Name, got.AuditTrail[0].ActionBy)

		inRange, err := attendance.ListRange(ctx, start.Add(-time.Hour), start.Add(time.Hour))
		require.NoError(t, err)
		assert.NotEmpty(t, inRange)

		missing := domain.NewAuditEntry(uuid.New(), domain.AuditActionCreate, user.Name)
		assert.ErrorIs(t, attendance.AppendAudit(ctx, missing), store.ErrAttendanceNotFound)
	})
}
