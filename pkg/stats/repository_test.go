package stats

import (
	"context"
	"testing"
	"time"

	"github.com/klokku/ledger/internal/test_utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepositoryImpl(t *testing.T) {
	db := test_utils.TestWithDB(t)
	repo := NewRepository(db, time.UTC)
	ctx := context.Background()
	userId := test_utils.InsertUser(t, db, "anna")

	require.NoError(t, repo.Upsert(ctx, Stats{UserId: userId, Date: day(5), Total: time.Hour}))
	require.NoError(t, repo.Upsert(ctx, Stats{UserId: userId, Date: day(4), Total: 8 * time.Hour, Billable: 90 * time.Minute, BillableSum: 135}))
	require.NoError(t, repo.Upsert(ctx, Stats{UserId: userId, Date: day(5), Total: 3 * time.Hour}))

	result, err := repo.StatsForUserInRange(ctx, userId, day(1), day(31))

	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.Equal(t, day(4), result[0].Date)
	assert.Equal(t, 90*time.Minute, result[0].Billable)
	assert.Equal(t, 135.0, result[0].BillableSum)
	assert.Equal(t, 3*time.Hour, result[1].Total)
}
