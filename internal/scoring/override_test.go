package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completedSweep() MatchState {
	return MatchState{
		Status:       StatusCompleted,
		Participant1: "alice",
		Participant2: "bob",
		WinnerID:     "alice",
		Sets: []SetScore{
			{SetNumber: 1, Score1: 11, Score2: 5},
			{SetNumber: 2, Score1: 11, Score2: 7},
			{SetNumber: 3, Score1: 11, Score2: 9},
		},
	}
}

func TestApplyOverride(t *testing.T) {
	t.Run("reverts a completed match when the deciding set flips", func(t *testing.T) {
		state := completedSweep()

		out, err := ApplyOverride(state, 2, 9, 11, tableTennisRules)
		require.NoError(t, err)

		assert.Equal(t, StatusLive, out.Status)
		assert.Empty(t, out.WinnerID)
		assert.Equal(t, 2, SetsWon(out.Sets, Side1))
		assert.Equal(t, 1, SetsWon(out.Sets, Side2))
	})

	t.Run("keeps a completed match completed when the correction is cosmetic", func(t *testing.T) {
		state := completedSweep()

		out, err := ApplyOverride(state, 3, 12, 10, tableTennisRules)
		require.NoError(t, err)

		assert.Equal(t, StatusCompleted, out.Status)
		assert.Equal(t, "alice", out.WinnerID)
		assert.Equal(t, 12, out.Sets[2].Score1)
	})

	t.Run("completes a live match when the correction decides it", func(t *testing.T) {
		state := MatchState{
			Status:       StatusLive,
			Participant1: "alice",
			Participant2: "bob",
			Sets: []SetScore{
				{SetNumber: 1, Score1: 5, Score2: 11},
				{SetNumber: 2, Score1: 7, Score2: 11},
				{SetNumber: 3, Score1: 11, Score2: 9},
			},
		}

		out, err := ApplyOverride(state, 3, 9, 11, tableTennisRules)
		require.NoError(t, err)

		assert.Equal(t, StatusCompleted, out.Status)
		assert.Equal(t, "bob", out.WinnerID)
	})

	t.Run("is idempotent", func(t *testing.T) {
		state := completedSweep()

		once, err := ApplyOverride(state, 2, 9, 11, tableTennisRules)
		require.NoError(t, err)
		twice, err := ApplyOverride(once, 2, 9, 11, tableTennisRules)
		require.NoError(t, err)

		assert.Equal(t, once, twice)
	})

	t.Run("does not touch the input state", func(t *testing.T) {
		state := completedSweep()

		_, err := ApplyOverride(state, 1, 5, 11, tableTennisRules)
		require.NoError(t, err)

		assert.Equal(t, 11, state.Sets[0].Score1)
		assert.Equal(t, StatusCompleted, state.Status)
	})

	t.Run("rejects ties and negatives", func(t *testing.T) {
		state := completedSweep()

		_, err := ApplyOverride(state, 1, 10, 10, tableTennisRules)
		assert.ErrorIs(t, err, ErrInvalidScore)

		_, err = ApplyOverride(state, 1, -1, 11, tableTennisRules)
		assert.ErrorIs(t, err, ErrInvalidScore)
	})

	t.Run("rejects out of range set numbers", func(t *testing.T) {
		state := completedSweep()

		_, err := ApplyOverride(state, 0, 11, 9, tableTennisRules)
		assert.ErrorIs(t, err, ErrInvalidScore)

		_, err = ApplyOverride(state, 4, 11, 9, tableTennisRules)
		assert.ErrorIs(t, err, ErrInvalidScore)
	})
}

func TestSetsEqual(t *testing.T) {
	a := []SetScore{{SetNumber: 1, Score1: 11, Score2: 5}}
	b := []SetScore{{SetNumber: 1, Score1: 11, Score2: 5}}
	c := []SetScore{{SetNumber: 1, Score1: 11, Score2: 6}}

	assert.True(t, SetsEqual(a, b))
	assert.False(t, SetsEqual(a, c))
	assert.False(t, SetsEqual(a, nil))
	assert.True(t, SetsEqual(nil, nil))
}
