package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var tableTennisRules = Rules{SetsToWin: 3, PointsPerSet: 11, WinByTwo: true}

func TestIsSetComplete(t *testing.T) {
	t.Run("win by two required", func(t *testing.T) {
		cases := []struct {
			s1, s2 int
			want   bool
		}{
			{11, 5, true},
			{11, 9, true},
			{11, 10, false},
			{12, 10, true},
			{10, 12, true},
			{15, 14, false},
			{10, 8, false},
			{0, 0, false},
		}
		for _, c := range cases {
			got, err := IsSetComplete(c.s1, c.s2, tableTennisRules)
			require.NoError(t, err)
			assert.Equal(t, c.want, got, "score %d-%d", c.s1, c.s2)
		}
	})

	t.Run("matches the win-by-two formula for all small scores", func(t *testing.T) {
		for a := 0; a <= 20; a++ {
			for b := 0; b <= 20; b++ {
				if a == b {
					continue
				}
				got, err := IsSetComplete(a, b, tableTennisRules)
				require.NoError(t, err)
				maxScore, diff := a, a-b
				if b > a {
					maxScore, diff = b, b-a
				}
				assert.Equal(t, maxScore >= 11 && diff >= 2, got, "score %d-%d", a, b)
			}
		}
	})

	t.Run("without win by two the cap decides", func(t *testing.T) {
		rules := Rules{SetsToWin: 2, PointsPerSet: 21, WinByTwo: false}
		got, err := IsSetComplete(21, 20, rules)
		require.NoError(t, err)
		assert.True(t, got)

		got, err = IsSetComplete(20, 19, rules)
		require.NoError(t, err)
		assert.False(t, got)
	})

	t.Run("rejects negative points", func(t *testing.T) {
		_, err := IsSetComplete(-1, 5, tableTennisRules)
		assert.ErrorIs(t, err, ErrInvalidScore)
	})
}

func TestSetsWon(t *testing.T) {
	sets := []SetScore{
		{SetNumber: 1, Score1: 11, Score2: 5},
		{SetNumber: 2, Score1: 9, Score2: 11},
		{SetNumber: 3, Score1: 11, Score2: 8},
	}
	assert.Equal(t, 2, SetsWon(sets, Side1))
	assert.Equal(t, 1, SetsWon(sets, Side2))
	assert.Equal(t, 0, SetsWon(sets, SideNone))

	t.Run("tally is order independent", func(t *testing.T) {
		reordered := []SetScore{sets[2], sets[0], sets[1]}
		assert.Equal(t, SetsWon(sets, Side1), SetsWon(reordered, Side1))
		assert.Equal(t, SetsWon(sets, Side2), SetsWon(reordered, Side2))
	})
}

func TestIsMatchComplete(t *testing.T) {
	t.Run("two of three sets is not enough at best of five", func(t *testing.T) {
		sets := []SetScore{
			{SetNumber: 1, Score1: 11, Score2: 5},
			{SetNumber: 2, Score1: 9, Score2: 11},
			{SetNumber: 3, Score1: 11, Score2: 8},
		}
		assert.False(t, IsMatchComplete(sets, tableTennisRules))
		assert.Equal(t, SideNone, WinnerSide(sets, tableTennisRules))
	})

	t.Run("straight sets decide the series", func(t *testing.T) {
		sets := []SetScore{
			{SetNumber: 1, Score1: 11, Score2: 5},
			{SetNumber: 2, Score1: 11, Score2: 7},
			{SetNumber: 3, Score1: 11, Score2: 9},
		}
		assert.True(t, IsMatchComplete(sets, tableTennisRules))
		assert.Equal(t, Side1, WinnerSide(sets, tableTennisRules))
	})
}

func TestAppendSet(t *testing.T) {
	base := []SetScore{
		{SetNumber: 1, Score1: 11, Score2: 5},
	}

	t.Run("appends the next set", func(t *testing.T) {
		out, err := AppendSet(base, SetScore{SetNumber: 2, Score1: 9, Score2: 11}, tableTennisRules)
		require.NoError(t, err)
		require.Len(t, out, 2)
		assert.Equal(t, 11, out[1].Score2)
		// original untouched
		assert.Len(t, base, 1)
	})

	t.Run("replaces an existing set in place", func(t *testing.T) {
		out, err := AppendSet(base, SetScore{SetNumber: 1, Score1: 12, Score2: 10}, tableTennisRules)
		require.NoError(t, err)
		require.Len(t, out, 1)
		assert.Equal(t, 12, out[0].Score1)
	})

	t.Run("rejects ties for any equal score", func(t *testing.T) {
		for v := 0; v <= 15; v++ {
			_, err := AppendSet(base, SetScore{SetNumber: 2, Score1: v, Score2: v}, tableTennisRules)
			assert.ErrorIs(t, err, ErrInvalidScore, "score %d-%d", v, v)
		}
	})

	t.Run("rejects negative scores", func(t *testing.T) {
		_, err := AppendSet(base, SetScore{SetNumber: 2, Score1: -3, Score2: 11}, tableTennisRules)
		assert.ErrorIs(t, err, ErrInvalidScore)
	})

	t.Run("rejects gaps in set numbers", func(t *testing.T) {
		_, err := AppendSet(base, SetScore{SetNumber: 4, Score1: 11, Score2: 2}, tableTennisRules)
		assert.ErrorIs(t, err, ErrInvalidScore)
	})

	t.Run("rejects a dead set once the series is decided", func(t *testing.T) {
		decided := []SetScore{
			{SetNumber: 1, Score1: 11, Score2: 5},
			{SetNumber: 2, Score1: 11, Score2: 7},
			{SetNumber: 3, Score1: 11, Score2: 9},
		}
		_, err := AppendSet(decided, SetScore{SetNumber: 4, Score1: 11, Score2: 1}, tableTennisRules)
		assert.ErrorIs(t, err, ErrMatchDecided)

		// Correcting a recorded set is still allowed.
		out, err := AppendSet(decided, SetScore{SetNumber: 3, Score1: 9, Score2: 11}, tableTennisRules)
		require.NoError(t, err)
		assert.Equal(t, 9, out[2].Score1)
	})
}

func TestEvaluate(t *testing.T) {
	sets := []SetScore{
		{SetNumber: 1, Score1: 11, Score2: 5},
		{SetNumber: 2, Score1: 11, Score2: 7},
	}

	eval, err := Evaluate(sets, 11, 9, tableTennisRules)
	require.NoError(t, err)
	assert.True(t, eval.SetComplete)
	assert.False(t, eval.MatchComplete)
	assert.Equal(t, SideNone, eval.Winner)

	_, err = Evaluate(sets, -1, 0, tableTennisRules)
	assert.ErrorIs(t, err, ErrInvalidScore)
}

func TestResolve(t *testing.T) {
	state := MatchState{
		Status:       StatusLive,
		Participant1: "p1",
		Participant2: "p2",
		Sets: []SetScore{
			{SetNumber: 1, Score1: 11, Score2: 5},
			{SetNumber: 2, Score1: 11, Score2: 7},
			{SetNumber: 3, Score1: 11, Score2: 9},
		},
	}

	resolved := Resolve(state, tableTennisRules)
	assert.Equal(t, StatusCompleted, resolved.Status)
	assert.Equal(t, "p1", resolved.WinnerID)

	t.Run("idempotent", func(t *testing.T) {
		again := Resolve(resolved, tableTennisRules)
		assert.Equal(t, resolved, again)
	})

	t.Run("leaves an undecided live match alone", func(t *testing.T) {
		live := MatchState{
			Status:       StatusLive,
			Participant1: "p1",
			Participant2: "p2",
			Sets:         []SetScore{{SetNumber: 1, Score1: 11, Score2: 5}},
		}
		assert.Equal(t, live, Resolve(live, tableTennisRules))
	})
}
