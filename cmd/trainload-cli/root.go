package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/meltforce/trainload/internal/client"
	"github.com/spf13/cobra"
)

var (
	serverURL string
	apiKey    string
	draftDir  string
	verbose   bool

	api *client.HTTPClient
	log *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "trainload-cli",
	Short: "Log training sessions and chart training load per body part",
	Long: `trainload-cli talks to a trainload server.

DRAFT SESSIONS:

  A session is built locally and saved after every change, so it survives
  restarts. Sets are addressed by exercise code and 1-based set number.

  $ trainload-cli session add-set STR_BENCH
  $ trainload-cli session set STR_BENCH 1 weight 100
  $ trainload-cli session set STR_BENCH 1 reps 10
  $ trainload-cli session rpe STR_BENCH 1 8
  $ trainload-cli session done STR_BENCH 1
  $ trainload-cli session submit

CHARTS:

  $ trainload-cli chart volume --profile 1 --category strength
  $ trainload-cli chart wellness pain --profile 1 --aggregation daily

ENVIRONMENT:

  TRAINLOAD_SERVER_URL  server base URL (default http://localhost:8080)
  TRAINLOAD_API_KEY     API key for writes
  TRAINLOAD_DRAFT_DIR   directory of the local draft database`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		log = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
		if serverURL == "" {
			return fmt.Errorf("no server URL: set --server or TRAINLOAD_SERVER_URL")
		}
		api = client.NewHTTPClient(serverURL, apiKey)
		return nil
	},
}

func envOr(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}

func defaultDraftDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "trainload")
	}
	return ".trainload"
}

// parseTime accepts RFC 3339, "2006-01-02 15:04", "2006-01-02T15:04" and bare dates.
func parseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04", "2006-01-02T15:04", "2006-01-02"} {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised time %q", s)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", envOr("TRAINLOAD_SERVER_URL", "http://localhost:8080"), "trainload server URL")
	rootCmd.PersistentFlags().StringVar(&apiKey, "api-key", os.Getenv("TRAINLOAD_API_KEY"), "API key for write requests")
	rootCmd.PersistentFlags().StringVar(&draftDir, "draft-dir", envOr("TRAINLOAD_DRAFT_DIR", defaultDraftDir()), "directory of the local draft database")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging to stderr")
	rootCmd.Version = Version
}
