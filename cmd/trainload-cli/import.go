package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/meltforce/trainload/internal/draft"
	"github.com/meltforce/trainload/internal/importer"
	"github.com/spf13/cobra"
)

var (
	importProfile int
	importDryRun  bool
	importForce   bool
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import sessions from other apps",
}

var importAlphaCmd = &cobra.Command{
	Use:   "alpha <file|dir>...",
	Short: "Import an Alpha Progression CSV export",
	Long: `Import Alpha Progression CSV exports. Each exported workout becomes one
session dated at midday UTC of the workout's day.

Exercises are matched to the catalog by name, ignoring case. Warm-up sets are
skipped and RPE is derived as 10 - RIR. Files already imported with the same
content are skipped unless --force is given.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cat, err := api.FetchCatalog(ctx)
		if err != nil {
			return err
		}
		store, err := draft.Open(draftDir)
		if err != nil {
			return err
		}
		defer store.Close()

		opts := importer.Options{DryRun: importDryRun, Force: importForce}
		if importProfile > 0 {
			opts.ProfileID = &importProfile
		}
		stats, err := importer.New(cat, api, store, log, opts).Import(ctx, args...)
		printImportStats(cmd, stats)
		return err
	},
}

func printImportStats(cmd *cobra.Command, s *importer.Stats) {
	w := cmd.OutOrStdout()
	verb := "created"
	if importDryRun {
		verb = "would create"
	}
	fmt.Fprintf(w, "files: %d imported, %d skipped, %d failed\n", s.FilesProcessed, s.FilesSkipped, s.FilesErrored)
	fmt.Fprintf(w, "sessions: %d %s (%d sets, %d warm-ups skipped)\n", s.SessionsCreated, verb, s.SetsImported, s.WarmupsSkipped)
	if len(s.Unmatched) > 0 {
		color.New(color.FgYellow).Fprintf(w, "not in catalog: %s\n", strings.Join(s.Unmatched, ", "))
	}
}

func init() {
	importAlphaCmd.Flags().IntVar(&importProfile, "profile", 0, "assign every set to this body-part profile")
	importAlphaCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "parse and convert without creating sessions")
	importAlphaCmd.Flags().BoolVar(&importForce, "force", false, "re-import files already imported")
	importCmd.AddCommand(importAlphaCmd)
	rootCmd.AddCommand(importCmd)
}
