package preferences

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ngandinhtk/tripwise/internal/app/models"
)

// upsertPattern pins the smoothing arithmetic of the preference upsert: a new
// sample must blend 70/30 into the stored score and bump the frequency.
const upsertPattern = `(?s)INSERT INTO user_preferences.*ON CONFLICT \(user_id, pref_key\) DO UPDATE.*score \* 0\.7 \+ EXCLUDED\.score \* 0\.3.*frequency \+ 1`

func newRepoWithMock(t *testing.T) (*RepositoryImpl, pgxmock.PgxPoolIface) {
	t.Helper()
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mockPool.Close)
	return NewRepositoryImpl(mockPool, zap.NewNop()), mockPool
}

func TestUpsert(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	prefID := uuid.New()
	now := time.Now()

	t.Run("returns the smoothed row", func(t *testing.T) {
		repo, mockPool := newRepoWithMock(t)

		mockPool.ExpectQuery(upsertPattern).
			WithArgs(userID, "place_food", 100.0).
			WillReturnRows(pgxmock.NewRows([]string{"id", "user_id", "pref_key", "score", "frequency", "last_updated"}).
				AddRow(prefID, userID, "place_food", 79.0, 3, now))

		pref, err := repo.Upsert(ctx, userID, "place_food", 100.0)
		require.NoError(t, err)
		assert.Equal(t, prefID, pref.ID)
		assert.Equal(t, "place_food", pref.Key)
		assert.InDelta(t, 79.0, pref.Score, 0.001)
		assert.Equal(t, 3, pref.Frequency)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("empty key is rejected before the query", func(t *testing.T) {
		repo, mockPool := newRepoWithMock(t)

		pref, err := repo.Upsert(ctx, userID, "", 80.0)
		assert.Nil(t, pref)
		assert.ErrorIs(t, err, models.ErrBadRequest)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("database error", func(t *testing.T) {
		repo, mockPool := newRepoWithMock(t)

		mockPool.ExpectQuery(upsertPattern).
			WithArgs(userID, "place_food", 100.0).
			WillReturnError(errors.New("connection reset"))

		pref, err := repo.Upsert(ctx, userID, "place_food", 100.0)
		assert.Nil(t, pref)
		assert.Error(t, err)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})
}

func TestGetByKey(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("missing row maps to not found", func(t *testing.T) {
		repo, mockPool := newRepoWithMock(t)

		mockPool.ExpectQuery("SELECT (.+) FROM user_preferences").
			WithArgs(userID, "place_museums").
			WillReturnError(errors.New("no rows in result set"))

		pref, err := repo.GetByKey(ctx, userID, "place_museums")
		assert.Nil(t, pref)
		assert.ErrorIs(t, err, models.ErrNotFound)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})
}

func TestListForUserQueries(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	now := time.Now()

	t.Run("scans every row", func(t *testing.T) {
		repo, mockPool := newRepoWithMock(t)

		mockPool.ExpectQuery("SELECT (.+) FROM user_preferences").
			WithArgs(userID).
			WillReturnRows(pgxmock.NewRows([]string{"id", "user_id", "pref_key", "score", "frequency", "last_updated"}).
				AddRow(uuid.New(), userID, "place_food", 92.0, 8, now).
				AddRow(uuid.New(), userID, "place_museums", 41.0, 2, now))

		prefs, err := repo.ListForUser(ctx, userID)
		require.NoError(t, err)
		require.Len(t, prefs, 2)
		assert.Equal(t, "place_food", prefs[0].Key)
		assert.Equal(t, "place_museums", prefs[1].Key)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("query error", func(t *testing.T) {
		repo, mockPool := newRepoWithMock(t)

		mockPool.ExpectQuery("SELECT (.+) FROM user_preferences").
			WithArgs(userID).
			WillReturnError(errors.New("db down"))

		prefs, err := repo.ListForUser(ctx, userID)
		assert.Nil(t, prefs)
		assert.Error(t, err)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})
}
