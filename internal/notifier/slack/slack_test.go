package slack

import (
	"context"
	"errors"
	"testing"

	"github.com/rallydesk/rallydesk/internal/metrics"
	"github.com/rallydesk/rallydesk/internal/scoring"
	"github.com/rallydesk/rallydesk/internal/tournament"
	slackapi "github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockSlackAPI is a mock implementation of the parts of the slack.Client that we use.
type mockSlackAPI struct {
	postMessageContextFunc func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error)
}

func (m *mockSlackAPI) PostMessageContext(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
	if m.postMessageContextFunc != nil {
		return m.postMessageContextFunc(ctx, channelID, options...)
	}
	return "C12345", "123456789.12345", nil
}

func completedMatch() *tournament.Match {
	return &tournament.Match{
		ID:           "match-1",
		TournamentID: "tourn-1",
		RoundNumber:  1,
		MatchNumber:  2,
		Participant1: "player-alice",
		Participant2: "player-bob",
		Status:       scoring.StatusCompleted,
		Sets: []scoring.SetScore{
			{SetNumber: 1, Score1: 11, Score2: 5},
			{SetNumber: 2, Score1: 11, Score2: 7},
			{SetNumber: 3, Score1: 11, Score2: 9},
		},
		WinnerID: "player-alice",
	}
}

var testNames = map[string]string{"player-alice": "Alice", "player-bob": "Bob"}

func TestSendMessage_DryRun(t *testing.T) {
	metrics := metrics.NewMock()
	// Pass nil for the api, as it shouldn't be called in dry-run mode.
	notifier := NewNotifierWithAPI(nil, "C123", metrics)

	err := notifier.SendResultNotification(completedMatch(), testNames, true)
	require.NoError(t, err)
	assert.Equal(t, 0, metrics.SlackNotifSent())
}

func TestSendMessage_Success(t *testing.T) {
	postMessageCalled := false
	api := &mockSlackAPI{
		postMessageContextFunc: func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
			postMessageCalled = true
			assert.Equal(t, "C123", channelID)
			return "C123", "ts123", nil
		},
	}

	metrics := metrics.NewMock()
	notifier := NewNotifierWithAPI(api, "C123", metrics)

	err := notifier.SendResultNotification(completedMatch(), testNames, false)

	require.NoError(t, err)
	assert.True(t, postMessageCalled, "PostMessageContext should have been called")
	assert.Equal(t, 1, metrics.SlackNotifSent())
	assert.Equal(t, 0, metrics.SlackNotifFailed())
}

func TestSendMessage_Failure(t *testing.T) {
	api := &mockSlackAPI{
		postMessageContextFunc: func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
			return "", "", errors.New("slack is down")
		},
	}

	metrics := metrics.NewMock()
	notifier := NewNotifierWithAPI(api, "C123", metrics)

	err := notifier.SendResultNotification(completedMatch(), testNames, false)

	require.Error(t, err)
	assert.Equal(t, 0, metrics.SlackNotifSent())
	assert.Equal(t, 1, metrics.SlackNotifFailed())
}

func TestFormatResultNotification(t *testing.T) {
	notifier := NewNotifierWithAPI(nil, "C123", metrics.NewMock())

	msg := notifier.formatResultNotification(completedMatch(), testNames, "🏓 Match finished! 🏓")

	require.NotEmpty(t, msg.Blocks.BlockSet)
	header, ok := msg.Blocks.BlockSet[0].(*slackapi.HeaderBlock)
	require.True(t, ok, "first block should be a header")
	assert.Contains(t, header.Text.Text, "Match finished")

	section, ok := msg.Blocks.BlockSet[1].(*slackapi.SectionBlock)
	require.True(t, ok, "second block should be a section")
	assert.Contains(t, section.Text.Text, "Alice won!")
	require.Len(t, section.Fields, 1)
	assert.Contains(t, section.Fields[0].Text, "Set 1: 11-5")
}

func TestFormatLeaderboard_Empty(t *testing.T) {
	notifier := NewNotifierWithAPI(nil, "C123", metrics.NewMock())

	msg := notifier.formatLeaderboard(nil)

	require.Len(t, msg.Blocks.BlockSet, 2)
	section, ok := msg.Blocks.BlockSet[1].(*slackapi.SectionBlock)
	require.True(t, ok)
	assert.Contains(t, section.Text.Text, "No stats available")
}

func TestFormatLeaderboard_Medals(t *testing.T) {
	notifier := NewNotifierWithAPI(nil, "C123", metrics.NewMock())

	entries := []tournament.LeaderboardEntry{
		{PlayerID: "p1", PlayerName: "Alice", MatchesPlayed: 2, MatchesWon: 2, WinPercentage: 100, SetsWon: 6},
		{PlayerID: "p2", PlayerName: "Bob", MatchesPlayed: 2, MatchesWon: 1, MatchesLost: 1, WinPercentage: 50, SetsWon: 4},
	}
	msg := notifier.formatLeaderboard(entries)

	require.Len(t, msg.Blocks.BlockSet, 3)
	first, ok := msg.Blocks.BlockSet[1].(*slackapi.SectionBlock)
	require.True(t, ok)
	assert.Contains(t, first.Text.Text, "🥇 Alice")
	second, ok := msg.Blocks.BlockSet[2].(*slackapi.SectionBlock)
	require.True(t, ok)
	assert.Contains(t, second.Text.Text, "🥈 Bob")
}
