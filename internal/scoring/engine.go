package scoring

import "fmt"

// IsSetComplete reports whether a set at the given score is over under the
// rules. With WinByTwo the leader must reach PointsPerSet AND lead by two,
// otherwise reaching PointsPerSet is enough.
func IsSetComplete(score1, score2 int, rules Rules) (bool, error) {
	if score1 < 0 || score2 < 0 {
		return false, fmt.Errorf("%w: negative points (%d, %d)", ErrInvalidScore, score1, score2)
	}
	leader, trailer := score1, score2
	if score2 > score1 {
		leader, trailer = score2, score1
	}
	if rules.WinByTwo {
		return leader >= rules.PointsPerSet && leader-trailer >= 2, nil
	}
	return leader >= rules.PointsPerSet, nil
}

// SetsWon counts the sets the given side has won. The tally only depends on
// which entries exist, not on their order.
func SetsWon(sets []SetScore, side Side) int {
	won := 0
	for _, s := range sets {
		switch side {
		case Side1:
			if s.Score1 > s.Score2 {
				won++
			}
		case Side2:
			if s.Score2 > s.Score1 {
				won++
			}
		}
	}
	return won
}

// IsMatchComplete reports whether either side has reached SetsToWin.
func IsMatchComplete(sets []SetScore, rules Rules) bool {
	return SetsWon(sets, Side1) >= rules.SetsToWin || SetsWon(sets, Side2) >= rules.SetsToWin
}

// WinnerSide returns the side that has reached SetsToWin, or SideNone. Only
// the final tally matters; the engine does not care in which order the sets
// were played.
func WinnerSide(sets []SetScore, rules Rules) Side {
	if SetsWon(sets, Side1) >= rules.SetsToWin {
		return Side1
	}
	if SetsWon(sets, Side2) >= rules.SetsToWin {
		return Side2
	}
	return SideNone
}

// AppendSet records newSet at position newSet.SetNumber, replacing an
// existing entry or extending the sequence by exactly one. Appending a brand
// new set to an already decided series is rejected; correcting an existing
// set is allowed (see ApplyOverride for the full recompute).
//
// The input slice is not mutated.
func AppendSet(sets []SetScore, newSet SetScore, rules Rules) ([]SetScore, error) {
	if newSet.Score1 < 0 || newSet.Score2 < 0 {
		return nil, fmt.Errorf("%w: negative points (%d, %d)", ErrInvalidScore, newSet.Score1, newSet.Score2)
	}
	if newSet.Score1 == newSet.Score2 {
		return nil, fmt.Errorf("%w: set %d cannot end tied at %d", ErrInvalidScore, newSet.SetNumber, newSet.Score1)
	}
	if newSet.SetNumber < 1 || newSet.SetNumber > len(sets)+1 {
		return nil, fmt.Errorf("%w: set number %d out of range (have %d sets)", ErrInvalidScore, newSet.SetNumber, len(sets))
	}
	if newSet.SetNumber == len(sets)+1 && IsMatchComplete(sets, rules) {
		return nil, fmt.Errorf("%w: cannot record set %d", ErrMatchDecided, newSet.SetNumber)
	}

	out := make([]SetScore, len(sets), len(sets)+1)
	copy(out, sets)
	if newSet.SetNumber == len(sets)+1 {
		out = append(out, newSet)
	} else {
		out[newSet.SetNumber-1] = newSet
	}
	return out, nil
}

// Evaluate answers set and match completion for the current point score on
// top of the already recorded sets.
func Evaluate(sets []SetScore, score1, score2 int, rules Rules) (Evaluation, error) {
	setDone, err := IsSetComplete(score1, score2, rules)
	if err != nil {
		return Evaluation{}, err
	}
	return Evaluation{
		SetComplete:   setDone,
		MatchComplete: IsMatchComplete(sets, rules),
		Winner:        WinnerSide(sets, rules),
	}, nil
}

// Resolve recomputes status and winner from the recorded sets. A match is
// completed iff exactly one side has reached SetsToWin; a previously
// completed match whose deciding set was corrected away reverts to live with
// the winner cleared. Resolve is idempotent.
func Resolve(state MatchState, rules Rules) MatchState {
	won1 := SetsWon(state.Sets, Side1) >= rules.SetsToWin
	won2 := SetsWon(state.Sets, Side2) >= rules.SetsToWin

	switch {
	case won1 != won2:
		state.Status = StatusCompleted
		if won1 {
			state.WinnerID = state.Participant1
		} else {
			state.WinnerID = state.Participant2
		}
	case state.Status == StatusCompleted:
		// The deciding condition no longer holds.
		state.Status = StatusLive
		state.WinnerID = ""
	}
	return state
}
