package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/rallydesk/rallydesk/internal/livesync"
	"github.com/rallydesk/rallydesk/internal/platform"
	"github.com/rallydesk/rallydesk/internal/scoring"
)

// scoreboard is an interactive console client for scoring a single live
// match. It keeps the local view in sync with the server by polling in the
// background while the operator enters points.
func main() {
	var (
		host         = flag.String("host", "http://localhost:8080", "The host address of the server")
		matchID      = flag.String("match", "", "The ID of the match to score")
		pollInterval = flag.Duration("poll", 5*time.Second, "How often to poll the server for remote changes")
	)
	flag.Parse()

	if *matchID == "" {
		log.Fatal("Missing required flag: -match")
	}

	client := platform.NewClient(*host)
	session := livesync.NewSession(client, *matchID, *pollInterval, func(update livesync.RemoteUpdate) {
		log.Info("Match updated remotely, local edits replaced",
			"matchID", update.MatchID,
			"version", update.Record.Version,
			"status", update.Record.State.Status)
		printRecord(update.Record)
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := session.Load(ctx); err != nil {
		log.Fatalf("Failed to load match: %s", err)
	}
	printRecord(session.Snapshot())

	go func() {
		if err := session.Run(ctx); err != nil {
			log.Error("Polling stopped", "error", err)
		}
	}()

	fmt.Println("Commands: 1 / 2 add a point, u1 / u2 remove a point, end finishes the set, show prints the match, quit exits.")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		score1, score2 := session.Points()
		fmt.Printf("[set %d | %d-%d] > ", session.Snapshot().CurrentSet, score1, score2)
		if !scanner.Scan() {
			return
		}

		switch strings.TrimSpace(scanner.Text()) {
		case "1":
			handle(session.AddPoint(scoring.Side1, 1))
			promptIfSetComplete(session)
		case "2":
			handle(session.AddPoint(scoring.Side2, 1))
			promptIfSetComplete(session)
		case "u1":
			handle(session.AddPoint(scoring.Side1, -1))
		case "u2":
			handle(session.AddPoint(scoring.Side2, -1))
		case "end":
			record, err := session.EndSet(ctx)
			if err != nil {
				handle(err)
				continue
			}
			printRecord(record)
			if record.State.Status == scoring.StatusCompleted {
				log.Info("Match completed", "winner", record.State.WinnerID)
				return
			}
		case "show":
			printRecord(session.Snapshot())
		case "quit", "q":
			return
		case "":
		default:
			fmt.Println("Unknown command")
		}
	}
}

// promptIfSetComplete tells the operator when the points on the board are
// enough to close the set.
func promptIfSetComplete(session *livesync.Session) {
	eval, err := session.Evaluate()
	if err != nil {
		return
	}
	if eval.SetComplete {
		fmt.Println("Set point reached, type end to record the set.")
	}
}

func handle(err error) {
	if err != nil {
		log.Error("Command failed", "error", err)
	}
}

func printRecord(record platform.MatchRecord) {
	fmt.Printf("Match %s (%s) v%d: %s vs %s\n",
		record.MatchID,
		record.State.Status,
		record.Version,
		record.State.Participant1,
		record.State.Participant2)
	for _, set := range record.State.Sets {
		fmt.Printf("  Set %d: %d-%d\n", set.SetNumber, set.Score1, set.Score2)
	}
}
