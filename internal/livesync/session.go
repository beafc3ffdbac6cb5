package livesync

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/rallydesk/rallydesk/internal/platform"
	"github.com/rallydesk/rallydesk/internal/scoring"
)

const defaultPollInterval = 5 * time.Second

// Session keeps one match's local scoring state reconciled against the
// authoritative platform record. Local point edits are optimistic; whenever a
// poll shows the remote set history diverged, the remote record wins and any
// unsaved edits are discarded.
type Session struct {
	service        MatchService
	matchID        string
	pollInterval   time.Duration
	onRemoteUpdate func(RemoteUpdate)

	mu             sync.Mutex
	rules          scoring.Rules
	record         platform.MatchRecord
	score1, score2 int
	state          SessionState
	// Latest poll result that arrived while a save was in flight. Applied
	// once the save resolves, so a poll response cannot clobber the write it
	// raced with.
	pendingRemote *platform.MatchRecord
}

// NewSession creates a scoring session for a single match. onRemoteUpdate may
// be nil; a zero pollInterval selects the default.
func NewSession(service MatchService, matchID string, pollInterval time.Duration, onRemoteUpdate func(RemoteUpdate)) *Session {
	if pollInterval <= 0 {
		pollInterval = defaultPollInterval
	}
	return &Session{
		service:        service,
		matchID:        matchID,
		pollInterval:   pollInterval,
		onRemoteUpdate: onRemoteUpdate,
		state:          StateIdle,
	}
}

// Load fetches the authoritative match record and its tournament's scoring
// rules, resetting any local edits.
func (s *Session) Load(ctx context.Context) error {
	record, err := s.service.GetMatch(ctx, s.matchID)
	if err != nil {
		return fmt.Errorf("failed to fetch match: %w", err)
	}
	rules, err := s.service.GetScoringRules(ctx, record.TournamentID)
	if err != nil {
		return fmt.Errorf("failed to fetch scoring rules: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.record = record
	s.rules = rules
	s.score1, s.score2 = 0, 0
	s.state = StateIdle
	s.pendingRemote = nil
	log.Info("Loaded match", "matchID", s.matchID, "status", record.State.Status, "version", record.Version)
	return nil
}

// Run polls the platform at a fixed interval until ctx is cancelled or the
// match completes. Poll failures are logged and retried on the next tick.
func (s *Session) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	log.Info("Starting live sync", "matchID", s.matchID, "interval", s.pollInterval)
	for {
		select {
		case <-ctx.Done():
			log.Info("Live sync stopped", "matchID", s.matchID)
			return nil
		case <-ticker.C:
			s.poll(ctx)
			if s.Status() == scoring.StatusCompleted {
				log.Info("Match completed, stopping live sync", "matchID", s.matchID)
				return nil
			}
		}
	}
}

func (s *Session) poll(ctx context.Context) {
	record, err := s.service.GetMatch(ctx, s.matchID)
	if err != nil {
		log.Warn("Poll failed, keeping local state", "matchID", s.matchID, "error", err)
		return
	}
	s.applyRemote(record)
}

// applyRemote reconciles a freshly polled record with the local session.
func (s *Session) applyRemote(record platform.MatchRecord) {
	s.mu.Lock()
	notify := s.applyRemoteLocked(record)
	s.mu.Unlock()
	s.fire(notify)
}

// applyRemoteLocked must be called with s.mu held. It returns a notification
// to fire after the lock is released, or nil.
func (s *Session) applyRemoteLocked(record platform.MatchRecord) *RemoteUpdate {
	switch {
	case s.state == StateSaving:
		// Gate remote application while a save is in flight; stash the
		// newest record and re-reconcile once the save resolves.
		if s.pendingRemote == nil || record.Version > s.pendingRemote.Version {
			s.pendingRemote = &record
		}
		return nil
	case record.Version < s.record.Version:
		// Stale response from an older request. Discard.
		log.Debug("Discarding stale poll response", "matchID", s.matchID, "got", record.Version, "have", s.record.Version)
		return nil
	case !scoring.SetsEqual(record.State.Sets, s.record.State.Sets):
		// Last writer wins at the set-history level: unsaved point edits for
		// the current set are dropped along with the old snapshot.
		s.record = record
		s.score1, s.score2 = 0, 0
		s.state = StateIdle
		log.Info("Remote set history changed, replacing local state", "matchID", s.matchID, "version", record.Version)
		return &RemoteUpdate{MatchID: s.matchID, Record: record}
	default:
		s.record = record
		return nil
	}
}

func (s *Session) fire(notify *RemoteUpdate) {
	if notify != nil && s.onRemoteUpdate != nil {
		s.onRemoteUpdate(*notify)
	}
}

// AddPoint adjusts the unsaved points of one side by delta, clamped to
// [MinPoints, MaxPoints].
func (s *Session) AddPoint(side scoring.Side, delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateSaving {
		return ErrSaveInFlight
	}
	if s.record.State.Status != scoring.StatusLive {
		return ErrMatchNotLive
	}
	switch side {
	case scoring.Side1:
		s.score1 = clampPoints(s.score1 + delta)
	case scoring.Side2:
		s.score2 = clampPoints(s.score2 + delta)
	default:
		return fmt.Errorf("%w: unknown side %d", scoring.ErrInvalidScore, side)
	}
	s.state = StateEditing
	return nil
}

// SetPoints replaces the unsaved points for the current set, clamped to
// [MinPoints, MaxPoints].
func (s *Session) SetPoints(score1, score2 int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateSaving {
		return ErrSaveInFlight
	}
	if s.record.State.Status != scoring.StatusLive {
		return ErrMatchNotLive
	}
	s.score1 = clampPoints(score1)
	s.score2 = clampPoints(score2)
	s.state = StateEditing
	return nil
}

// EndSet submits the current set's points to the platform. Submissions are
// serialized: a second call while one is in flight fails with
// ErrSaveInFlight. On failure the local edits are kept so the user can retry.
func (s *Session) EndSet(ctx context.Context) (platform.MatchRecord, error) {
	s.mu.Lock()
	if s.state == StateSaving {
		s.mu.Unlock()
		return platform.MatchRecord{}, ErrSaveInFlight
	}
	set := scoring.SetScore{SetNumber: s.record.CurrentSet, Score1: s.score1, Score2: s.score2}
	if _, err := scoring.AppendSet(s.record.State.Sets, set, s.rules); err != nil {
		s.mu.Unlock()
		return platform.MatchRecord{}, err
	}
	s.state = StateSaving
	s.mu.Unlock()

	record, err := s.service.SubmitSet(ctx, s.matchID, set)

	s.mu.Lock()
	if err != nil {
		// Local optimistic state stays the source of truth until a
		// successful save or a reconciling poll.
		s.state = StateEditing
		notify := s.takePendingLocked()
		s.mu.Unlock()
		s.fire(notify)
		return platform.MatchRecord{}, fmt.Errorf("failed to save set: %w", err)
	}

	if record.Version >= s.record.Version {
		s.record = record
	}
	s.score1, s.score2 = 0, 0
	s.state = StateIdle
	notify := s.takePendingLocked()
	s.mu.Unlock()
	s.fire(notify)
	return record, nil
}

// takePendingLocked re-reconciles a poll result that arrived mid-save. Must
// be called with s.mu held and s.state no longer StateSaving.
func (s *Session) takePendingLocked() *RemoteUpdate {
	if s.pendingRemote == nil {
		return nil
	}
	record := *s.pendingRemote
	s.pendingRemote = nil
	return s.applyRemoteLocked(record)
}

// Evaluate reports whether the current unsaved points would complete the set
// under the loaded rules. MatchComplete and Winner cover the recorded sets
// only; the unsaved points count toward them once EndSet commits the set.
func (s *Session) Evaluate() (scoring.Evaluation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return scoring.Evaluate(s.record.State.Sets, s.score1, s.score2, s.rules)
}

// State returns the session's lifecycle state.
func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Status returns the match status from the last accepted record.
func (s *Session) Status() scoring.MatchStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.record.State.Status
}

// Points returns the unsaved points for the current set.
func (s *Session) Points() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.score1, s.score2
}

// Rules returns the scoring rules loaded for the match's tournament.
func (s *Session) Rules() scoring.Rules {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rules
}

// Snapshot returns a copy of the last accepted authoritative record.
func (s *Session) Snapshot() platform.MatchRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	record := s.record
	record.State.Sets = append([]scoring.SetScore(nil), s.record.State.Sets...)
	return record
}

func clampPoints(v int) int {
	if v < MinPoints {
		return MinPoints
	}
	if v > MaxPoints {
		return MaxPoints
	}
	return v
}
