package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/meltforce/trainload/internal/models"
	"github.com/spf13/cobra"
)

var (
	wellnessProfile int
	wellnessPain    float64
	wellnessFatigue float64
	wellnessAt      string
	wellnessLimit   int
)

var wellnessCmd = &cobra.Command{
	Use:   "wellness",
	Short: "Record and list pain and fatigue scores",
}

var wellnessLogCmd = &cobra.Command{
	Use:   "log",
	Short: "Record a pain/fatigue score (0-10) against a profile",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		in := models.WellnessInput{
			BodyPartProfileID: wellnessProfile,
			PainScore:         wellnessPain,
			FatigueScore:      wellnessFatigue,
		}
		if wellnessAt != "" {
			t, err := parseTime(wellnessAt)
			if err != nil {
				return err
			}
			in.LoggedAt = &t
		}
		l, err := api.CreateWellnessLog(cmd.Context(), in)
		if err != nil {
			return err
		}
		color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "logged #%d for %s (%s) at %s\n",
			l.ID, l.BodyPartProfile.BodyPartName, l.BodyPartProfile.Side, l.LoggedAt.Local().Format("2006-01-02 15:04"))
		return nil
	},
}

var wellnessListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent wellness logs, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		f := models.WellnessFilter{Limit: wellnessLimit}
		if wellnessProfile > 0 {
			f.BodyPartProfileID = &wellnessProfile
		}
		logs, err := api.ListWellnessLogs(cmd.Context(), f)
		if err != nil {
			return err
		}
		renderWellness(cmd.OutOrStdout(), logs)
		return nil
	},
}

func renderWellness(w io.Writer, logs []models.WellnessLog) {
	if len(logs) == 0 {
		color.New(color.Faint).Fprintln(w, "no wellness logs")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tLOGGED\tPROFILE\tPAIN\tFATIGUE")
	for _, l := range logs {
		fmt.Fprintf(tw, "%d\t%s\t%s (%s)\t%.0f\t%.0f\n",
			l.ID, l.LoggedAt.Local().Format("2006-01-02 15:04"),
			l.BodyPartProfile.BodyPartName, l.BodyPartProfile.Side,
			l.PainScore, l.FatigueScore)
	}
	tw.Flush()
}

func init() {
	wellnessLogCmd.Flags().IntVar(&wellnessProfile, "profile", 0, "body-part profile id")
	wellnessLogCmd.Flags().Float64Var(&wellnessPain, "pain", 0, "pain score 0-10")
	wellnessLogCmd.Flags().Float64Var(&wellnessFatigue, "fatigue", 0, "fatigue score 0-10")
	wellnessLogCmd.Flags().StringVar(&wellnessAt, "at", "", "time of the report (default now)")
	_ = wellnessLogCmd.MarkFlagRequired("profile")

	wellnessListCmd.Flags().IntVar(&wellnessProfile, "profile", 0, "only this profile")
	wellnessListCmd.Flags().IntVar(&wellnessLimit, "limit", 20, "max logs")

	wellnessCmd.AddCommand(wellnessLogCmd, wellnessListCmd)
	rootCmd.AddCommand(wellnessCmd)
}
