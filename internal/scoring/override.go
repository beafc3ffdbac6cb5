package scoring

import "fmt"

// ApplyOverride replaces the score of one historical set and recomputes the
// downstream match state over the entire corrected sequence. setNumber is
// 1-based and must reference an existing set.
//
// Applying the same override twice yields the same MatchState.
func ApplyOverride(state MatchState, setNumber, score1, score2 int, rules Rules) (MatchState, error) {
	if score1 < 0 || score2 < 0 {
		return MatchState{}, fmt.Errorf("%w: negative points (%d, %d)", ErrInvalidScore, score1, score2)
	}
	if score1 == score2 {
		return MatchState{}, fmt.Errorf("%w: set %d cannot end tied at %d", ErrInvalidScore, setNumber, score1)
	}
	if setNumber < 1 || setNumber > len(state.Sets) {
		return MatchState{}, fmt.Errorf("%w: no set %d to override (have %d sets)", ErrInvalidScore, setNumber, len(state.Sets))
	}

	corrected := make([]SetScore, len(state.Sets))
	copy(corrected, state.Sets)
	corrected[setNumber-1] = SetScore{SetNumber: setNumber, Score1: score1, Score2: score2}
	state.Sets = corrected

	return Resolve(state, rules), nil
}

// SetsEqual reports structural equality of two set sequences. Used by the
// live sync layer to detect remote changes.
func SetsEqual(a, b []SetScore) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
