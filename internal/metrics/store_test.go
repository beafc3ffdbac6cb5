package metrics_test

import (
	"testing"

	"github.com/rallydesk/rallydesk/internal/database"
	"github.com/rallydesk/rallydesk/internal/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIncrementAndGetAll(t *testing.T) {
	db, teardown, err := database.InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)
	defer teardown()

	store := metrics.New(db)

	store.Increment(metrics.KeySetsRecorded)
	store.Increment(metrics.KeySetsRecorded)
	store.Increment(metrics.KeyOverridesApplied)

	counters, err := store.GetAll()
	require.NoError(t, err)
	assert.Equal(t, 2, counters[metrics.KeySetsRecorded])
	assert.Equal(t, 1, counters[metrics.KeyOverridesApplied])
	assert.NotContains(t, counters, metrics.KeyMatchesCompleted)
}
