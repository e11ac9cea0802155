package store

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"pfdb/models"
	"pfdb/pkg/parse"
	"pfdb/pkg/weapon"
)

func testID(t *testing.T) weapon.ID {
	t.Helper()
	id, err := weapon.ParseID("10.0.1/AssaultRifles/11/3")
	require.NoError(t, err)
	return id
}

func TestTextRowRoundTrip(t *testing.T) {
	id := testID(t)
	row := textRow(id, "RANK 11")
	assert.Equal(t, id.Number(), row.Number)
	assert.Equal(t, "10.0.1/AssaultRifles/11/3", row.Weapon)
	back, err := rowID(row)
	require.NoError(t, err)
	assert.Equal(t, id, back)
}

func TestStatisticRowRoundTrip(t *testing.T) {
	id := testID(t)
	st := parse.NewStatistic(id, parse.FirerateStat, false, "600A", "1800B")
	row := statisticRow(7, st)
	assert.Equal(t, uint(7), row.WeaponTextID)
	assert.Equal(t, "Firerate", row.Kind)
	back, err := fromRow(row)
	require.NoError(t, err)
	assert.Equal(t, st, back)

	_, err = fromRow(models.Statistic{Weapon: row.Weapon, Kind: "Nonsense"})
	assert.Error(t, err)
	_, err = fromRows([]models.Statistic{{Weapon: "garbage", Kind: "Rank"}})
	assert.Error(t, err)
}

func TestOpenRequiresDSN(t *testing.T) {
	_, err := Open("")
	assert.Error(t, err)
	_, err = OpenSQL(" ")
	assert.Error(t, err)
}

func TestMarkExtractedLeavesUpdatedAt(t *testing.T) {
	db, err := gorm.Open(postgres.New(postgres.Config{DSN: "host=localhost user=pfdb dbname=pfdb sslmode=disable"}),
		&gorm.Config{DryRun: true, DisableAutomaticPing: true})
	require.NoError(t, err)

	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	tx := markExtracted(db, &models.WeaponText{ID: 7}, at)
	require.NoError(t, tx.Error)
	sql := tx.Statement.SQL.String()
	assert.Contains(t, sql, `"extracted_at"`)
	assert.NotContains(t, sql, "updated_at")
	assert.Contains(t, tx.Statement.Vars, at)
}

// openTestDB connects to DB_DSN when integration tests are enabled.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	if os.Getenv("DB_DSN_TEST") != "1" {
		t.Skip("integration tests are disabled; set DB_DSN_TEST=1 to enable")
	}
	db, err := Open(os.Getenv("DB_DSN"))
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	return db
}

func TestTextStoreFlow(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	s := NewTextStore(db)
	id := testID(t)

	text := "RANK 11\nAMMO CAPAClTY 30/120\n"
	_, err := s.Put(ctx, id, text, nil)
	require.NoError(t, err)

	pending, err := s.Pending(ctx)
	require.NoError(t, err)
	assert.Contains(t, pending, id)

	rs, err := s.Extract(ctx, id, parse.DefaultParams())
	require.NoError(t, err)
	assert.Equal(t, 4, rs.Len())

	repaired, err := s.LoadText(ctx, id)
	require.NoError(t, err)
	assert.Contains(t, repaired, "CAPACITY ")

	stats, err := s.LoadStatistics(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, rs.Statistics(), stats)

	pending, err = s.Pending(ctx)
	require.NoError(t, err)
	assert.NotContains(t, pending, id)

	other, err := weapon.ParseID("10.0.1/AssaultRifles/9999/99")
	require.NoError(t, err)
	assert.ErrorIs(t, s.Save(ctx, other, "x"), ErrNotFound)
	_, err = s.LoadText(ctx, other)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUsersFlow(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	u := NewUsers(db)
	db.Where("username = ?", "store-test").Delete(&models.User{})

	_, err := u.Create(ctx, "store-test", "short", models.RoleUser)
	assert.Error(t, err)
	created, err := u.Create(ctx, "store-test", "secret1", models.RoleUser)
	require.NoError(t, err)
	_, err = u.Create(ctx, "store-test", "secret1", models.RoleUser)
	assert.ErrorIs(t, err, ErrUserExists)

	got, err := u.Authenticate(ctx, "store-test", "secret1")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, models.RoleUser, got.Role.Name)
	_, err = u.Authenticate(ctx, "store-test", "wrong!")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	token, err := u.IssueRefreshToken(ctx, got.ID)
	require.NoError(t, err)
	_, next, err := u.RotateRefreshToken(ctx, token)
	require.NoError(t, err)
	_, _, err = u.RotateRefreshToken(ctx, token)
	assert.ErrorIs(t, err, ErrInvalidCredentials, "rotated token is spent")
	require.NoError(t, u.RevokeRefreshToken(ctx, next))
	assert.ErrorIs(t, u.RevokeRefreshToken(ctx, next), ErrNotFound)

	last, err := u.IssueRefreshToken(ctx, got.ID)
	require.NoError(t, err)
	require.NoError(t, u.SetPassword(ctx, "store-test", "secret2"))
	_, err = u.Authenticate(ctx, "store-test", "secret1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = u.Authenticate(ctx, "store-test", "secret2")
	assert.NoError(t, err)
	assert.ErrorIs(t, u.RevokeRefreshToken(ctx, last), ErrNotFound, "password change revokes tokens")
	assert.ErrorIs(t, u.SetPassword(ctx, "nobody-here", "secret2"), ErrNotFound)
}
