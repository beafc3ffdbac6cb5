package slack

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/rallydesk/rallydesk/internal/metrics"
	"github.com/rallydesk/rallydesk/internal/notifier"
	"github.com/rallydesk/rallydesk/internal/tournament"
	"github.com/slack-go/slack"
)

// slackClient is an interface that contains the methods from the slack.Client that we use.
// This allows for easy mocking in tests.
type slackClient interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

var _ notifier.Notifier = &Notifier{}

// Notifier handles sending notifications to Slack.
type Notifier struct {
	api       slackClient
	channelID string
	metrics   metrics.Metrics
}

// NewNotifier creates a new Notifier.
func NewNotifier(token, channelID string, metrics metrics.Metrics) *Notifier {
	api := slack.New(token)
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

// NewNotifierWithAPI creates a new Notifier with a specific slack.Client instance.
// Useful for tests that need to intercept API calls.
func NewNotifierWithAPI(api slackClient, channelID string, metrics metrics.Metrics) *Notifier {
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

func (s *Notifier) sendMessage(message slack.Message, dryRun bool) (string, string, error) {
	if dryRun {
		jsonMsg, _ := json.MarshalIndent(message, "", "  ")
		log.Info("[Dry Run] Would send Slack message", "channel", s.channelID, "message", string(jsonMsg))
		return "dry-run-ts", "dry-run-thread-ts", nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	channelID, timestamp, err := s.api.PostMessageContext(
		ctx,
		s.channelID,
		slack.MsgOptionBlocks(message.Blocks.BlockSet...),
		slack.MsgOptionAsUser(true),
	)

	if err != nil {
		s.metrics.IncSlackNotifFailed()
		log.Error("Failed to send Slack message", "error", err, "channel", channelID)
		return "", "", fmt.Errorf("failed to post message: %w", err)
	}

	s.metrics.IncSlackNotifSent()
	log.Info("Successfully sent Slack message", "channel", channelID, "timestamp", timestamp)
	return channelID, timestamp, nil
}

// Implement the Notifier interface
func (s *Notifier) SendMatchStartedNotification(match *tournament.Match, names map[string]string, dryRun bool) error {
	msg := s.formatMatchStartedNotification(match, names)
	_, _, err := s.sendMessage(msg, dryRun)
	return err
}

func (s *Notifier) SendResultNotification(match *tournament.Match, names map[string]string, dryRun bool) error {
	msg := s.formatResultNotification(match, names, "🏓 Match finished! 🏓")
	_, _, err := s.sendMessage(msg, dryRun)
	return err
}

func (s *Notifier) SendOverrideNotification(match *tournament.Match, names map[string]string, dryRun bool) error {
	msg := s.formatResultNotification(match, names, "✏️ Result corrected")
	_, _, err := s.sendMessage(msg, dryRun)
	return err
}

func (s *Notifier) SendLeaderboard(entries []tournament.LeaderboardEntry, dryRun bool) error {
	msg := s.formatLeaderboard(entries)
	_, _, err := s.sendMessage(msg, dryRun)
	return err
}

// FormatLeaderboardResponse formats a leaderboard message for a slash command response.
func (s *Notifier) FormatLeaderboardResponse(entries []tournament.LeaderboardEntry) (any, error) {
	return s.formatLeaderboard(entries), nil
}

func displayName(names map[string]string, id string) string {
	if name, ok := names[id]; ok && name != "" {
		return name
	}
	return id
}

// formatMatchStartedNotification creates the Slack message for a match going live using Block Kit.
func (s *Notifier) formatMatchStartedNotification(match *tournament.Match, names map[string]string) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", "🏓 Match is live! 🏓", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	detailsText := fmt.Sprintf("%s vs %s\nRound %d, match %d",
		displayName(names, match.Participant1),
		displayName(names, match.Participant2),
		match.RoundNumber,
		match.MatchNumber,
	)
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", detailsText, true, false), nil, nil))

	return slack.NewBlockMessage(blocks...)
}

// formatResultNotification creates the Slack message for a finished or corrected match.
func (s *Notifier) formatResultNotification(match *tournament.Match, names map[string]string, header string) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", header, true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	name1 := displayName(names, match.Participant1)
	name2 := displayName(names, match.Participant2)

	resultHeaderText := fmt.Sprintf("%s vs %s", name1, name2)
	if match.WinnerID != "" {
		resultHeaderText = fmt.Sprintf("%s won! 🏆", displayName(names, match.WinnerID))
	}

	if len(match.Sets) > 0 {
		var setLines []string
		for _, set := range match.Sets {
			setLines = append(setLines, fmt.Sprintf("Set %d: %d-%d", set.SetNumber, set.Score1, set.Score2))
		}
		resultsField := slack.NewTextBlockObject("plain_text", strings.Join(setLines, "\n"), true, false)
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", resultHeaderText, true, false), []*slack.TextBlockObject{resultsField}, nil))
	} else {
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", "No scores reported.", true, false), nil, nil))
	}

	return slack.NewBlockMessage(blocks...)
}

// formatLeaderboard creates a Slack message to display the player leaderboard.
func (s *Notifier) formatLeaderboard(entries []tournament.LeaderboardEntry) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", "🏆 Player Leaderboard 🏆", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	if len(entries) == 0 {
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", "No stats available yet. Go play some matches!", true, false), nil, nil))
		return slack.NewBlockMessage(blocks...)
	}

	for i, entry := range entries {
		rank := i + 1
		var medal string
		switch rank {
		case 1:
			medal = "🥇"
		case 2:
			medal = "🥈"
		case 3:
			medal = "🥉"
		default:
			medal = fmt.Sprintf("%d.", rank)
		}

		line := fmt.Sprintf("%s %s: %d-%d (%.0f%% wins, %d sets)",
			medal,
			entry.PlayerName,
			entry.MatchesWon,
			entry.MatchesLost,
			entry.WinPercentage,
			entry.SetsWon,
		)
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", line, true, false), nil, nil))
	}

	return slack.NewBlockMessage(blocks...)
}
