package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/meltforce/trainload/internal/bucket"
	"github.com/meltforce/trainload/internal/category"
	"github.com/meltforce/trainload/internal/format"
	"github.com/meltforce/trainload/internal/models"
	"github.com/spf13/cobra"
)

var (
	chartProfile     int
	chartCategory    string
	chartAggregation string
	chartFrom        string
	chartTo          string
)

var chartCmd = &cobra.Command{
	Use:   "chart",
	Short: "Print training-load and wellness series",
}

var chartVolumeCmd = &cobra.Command{
	Use:   "volume",
	Short: "Volume and intensity per bucket for one load category",
	Long: `Print the volume and intensity series of one load category for the
exercises that target the profile's body part.

Volume per set depends on the category:

  strength    weight x reps
  plyometric  reps
  isometric   durationSeconds
  cardio      durationSeconds

Intensity is the average RPE of the sets in the bucket.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if chartProfile <= 0 {
			return fmt.Errorf("--profile is required")
		}
		cat, err := category.Parse(chartCategory)
		if err != nil {
			return err
		}
		g, err := bucket.ParseGranularity(chartAggregation)
		if err != nil {
			return err
		}
		points, err := api.VolumeSeries(cmd.Context(), chartProfile, cat, g)
		if err != nil {
			return err
		}
		renderVolume(cmd.OutOrStdout(), points, g)
		return nil
	},
}

var chartWellnessCmd = &cobra.Command{
	Use:       "wellness <pain|fatigue>",
	Short:     "Average pain or fatigue score per bucket",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"pain", "fatigue"},
	RunE: func(cmd *cobra.Command, args []string) error {
		g, err := bucket.ParseGranularity(chartAggregation)
		if err != nil {
			return err
		}
		var f models.WellnessFilter
		if chartProfile > 0 {
			f.BodyPartProfileID = &chartProfile
		}
		if chartFrom != "" {
			t, err := parseTime(chartFrom)
			if err != nil {
				return err
			}
			f.From = &t
		}
		if chartTo != "" {
			t, err := parseTime(chartTo)
			if err != nil {
				return err
			}
			f.To = &t
		}
		points, err := api.WellnessSeries(cmd.Context(), args[0], f, g)
		if err != nil {
			return err
		}
		renderChart(cmd.OutOrStdout(), args[0], points, g)
		return nil
	},
}

func renderVolume(w io.Writer, points []models.VolumeIntensityPoint, g bucket.Granularity) {
	if len(points) == 0 {
		color.New(color.Faint).Fprintln(w, "no data")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "DATE\tVOLUME\tINTENSITY\t")
	for _, p := range points {
		v := p.Volume
		fmt.Fprintf(tw, "%s\t%s\t%s\t\n", format.ChartDate(p.Date, g), format.Number(&v), format.Number(p.Intensity))
	}
	tw.Flush()
}

func renderChart(w io.Writer, metric string, points []models.ChartPoint, g bucket.Granularity) {
	if len(points) == 0 {
		color.New(color.Faint).Fprintln(w, "no data")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tw, "DATE\t%s\t\n", metricHeader(metric))
	for _, p := range points {
		v := p.Value
		fmt.Fprintf(tw, "%s\t%s\t\n", format.ChartDate(p.Date, g), format.Number(&v))
	}
	tw.Flush()
}

func metricHeader(metric string) string {
	switch metric {
	case "pain":
		return "PAIN"
	case "fatigue":
		return "FATIGUE"
	}
	return metric
}

func init() {
	chartCmd.PersistentFlags().IntVar(&chartProfile, "profile", 0, "body-part profile id")
	chartCmd.PersistentFlags().StringVar(&chartAggregation, "aggregation", string(bucket.Weekly), "daily, weekly or monthly")

	chartVolumeCmd.Flags().StringVar(&chartCategory, "category", string(category.Strength), "strength, plyometric, isometric or cardio")

	chartWellnessCmd.Flags().StringVar(&chartFrom, "from", "", "start time (inclusive)")
	chartWellnessCmd.Flags().StringVar(&chartTo, "to", "", "end time (exclusive; a bare date includes that day)")

	chartCmd.AddCommand(chartVolumeCmd, chartWellnessCmd)
	rootCmd.AddCommand(chartCmd)
}
