package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"screening-backend/internal/calls"
	"screening-backend/pkg/logger"
	"screening-backend/pkg/utils"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var seedCallCmd = &cobra.Command{
	Use:   "seed-call",
	Short: "Replay a mock completed-call notification through the webhook ingestor",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return seedCall(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(seedCallCmd)

	seedCallCmd.Flags().String("call-id", "", "provider call id (default: random uuid)")
	seedCallCmd.Flags().String("to", "+380664374069", "callee phone")
	seedCallCmd.Flags().String("from", "+15126437743", "caller phone")
	seedCallCmd.Flags().String("campaign", "cold_call_test_campaign", "campaign id placed in metadata")
	seedCallCmd.Flags().String("transcript", "Test transcript text", "concatenated transcript")
	seedCallCmd.Flags().Int("duration", 14, "corrected duration in seconds")
	seedCallCmd.Flags().Bool("dry-run", false, "map and print the record without touching the database")

	for _, f := range []string{"call-id", "to", "from", "campaign", "transcript", "duration", "dry-run"} {
		viper.BindPFlag("seed."+f, seedCallCmd.Flags().Lookup(f))
	}
}

type seedOptions struct {
	CallID     string
	To         string
	From       string
	Campaign   string
	Transcript string
	Duration   int
}

func seedOptionsFromViper() seedOptions {
	return seedOptions{
		CallID:     viper.GetString("seed.call-id"),
		To:         viper.GetString("seed.to"),
		From:       viper.GetString("seed.from"),
		Campaign:   viper.GetString("seed.campaign"),
		Transcript: viper.GetString("seed.transcript"),
		Duration:   viper.GetInt("seed.duration"),
	}
}

// mockNotification mirrors what the voice provider posts on call completion.
func mockNotification(o seedOptions, now time.Time) map[string]any {
	if o.CallID == "" {
		o.CallID = uuid.NewString()
	}
	return map[string]any{
		"call_id":                 o.CallID,
		"to":                      o.To,
		"from":                    o.From,
		"created_at":              now.UTC().Format(time.RFC3339Nano),
		"status":                  calls.StatusCompleted,
		"corrected_duration":      strconv.Itoa(o.Duration),
		"recording_url":           "https://example.com/test.mp3",
		"concatenated_transcript": o.Transcript,
		"summary":                 "This is a test call summary.",
		"pathway_id":              "a0446c50-6479-4cf3-9536-686da92a6148",
		"disposition_tag":         "NO_CONTACT_MADE",
		"metadata": map[string]any{
			"campaign_id": o.Campaign,
			"source":      "manual-test",
		},
		"variables": map[string]any{
			"name":     "Test User",
			"metadata": map[string]any{"campaign_id": o.Campaign},
		},
	}
}

func seedCall(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	log := newLogger()
	ctx = logger.With(ctx, log)

	body, err := json.Marshal(mockNotification(seedOptionsFromViper(), time.Now()))
	if err != nil {
		return err
	}

	var repo calls.Repository
	mem := calls.NewMemoryRepo()
	if viper.GetBool("seed.dry-run") {
		repo = mem
	} else {
		dsn := viper.GetString("db-url")
		if dsn == "" {
			return errors.New("DB_URL (or --db-url) is required unless --dry-run is set")
		}
		db, err := utils.OpenPostgres(ctx, "pgx", dsn, utils.PostgresPoolConfig{MaxOpenConns: 1, MaxIdleConns: 1})
		if err != nil {
			return err
		}
		defer db.Close()
		repo = calls.NewSQLRepository(db)
	}

	outcome, err := calls.NewIngestor(repo, nil).Ingest(ctx, body)
	if err != nil {
		return fmt.Errorf("ingest (%s): %w", outcome, err)
	}
	log.Info("mock call ingested", "outcome", outcome)

	if recs := mem.Records(); len(recs) > 0 {
		pretty, _ := json.MarshalIndent(recs[0], "", "  ")
		fmt.Println(string(pretty))
	}
	return nil
}
