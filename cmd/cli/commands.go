package main

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(tournamentsCmd)
	rootCmd.AddCommand(matchesCmd)
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(scoreCmd)
	rootCmd.AddCommand(overrideCmd)
	rootCmd.AddCommand(leaderboardCmd)
	rootCmd.AddCommand(metricsCmd)

	scoreCmd.Flags().IntVar(&setNumber, "set", 0, "The set number to record (defaults to the next set)")
	overrideCmd.Flags().IntVar(&setNumber, "set", 0, "The set number to correct")
	overrideCmd.MarkFlagRequired("set")
}

var setNumber int

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/health")
	},
}

var tournamentsCmd = &cobra.Command{
	Use:   "tournaments",
	Short: "List all tournaments",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/tournaments")
	},
}

var matchesCmd = &cobra.Command{
	Use:   "matches <tournament-id>",
	Short: "List the matches of a tournament",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/tournaments/" + args[0] + "/matches")
	},
}

var startCmd = &cobra.Command{
	Use:   "start <match-id>",
	Short: "Move a scheduled match to live",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performPostRequest("/matches/"+args[0]+"/start", "")
	},
}

var scoreCmd = &cobra.Command{
	Use:   "score <match-id> <score1> <score2>",
	Short: "Record a completed set on a live match",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		body := fmt.Sprintf(`{"set_number": %d, "score1": %s, "score2": %s}`, setNumber, args[1], args[2])
		return performPostRequest("/matches/"+args[0]+"/score", body)
	},
}

var overrideCmd = &cobra.Command{
	Use:   "override <match-id> <score1> <score2>",
	Short: "Correct a previously recorded set",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		body := fmt.Sprintf(`{"set_number": %d, "score1": %s, "score2": %s}`, setNumber, args[1], args[2])
		return performPostRequest("/matches/"+args[0]+"/override", body)
	},
}

var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard <sport>",
	Short: "Show the leaderboard for a sport",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/leaderboard/" + args[0])
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Get application metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/metrics")
	},
}

func performGetRequest(endpoint string) error {
	url := host + endpoint
	fmt.Printf("Making request to %s\n", url)

	resp, err := http.Get(url)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	return printResponse(resp)
}

func performPostRequest(endpoint, body string) error {
	url := host + endpoint
	fmt.Printf("Making request to %s\n", url)

	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	return printResponse(resp)
}

func printResponse(resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	fmt.Printf("Status Code: %d\n", resp.StatusCode)
	fmt.Println("Response Body:")
	fmt.Println(string(body))

	return nil
}
