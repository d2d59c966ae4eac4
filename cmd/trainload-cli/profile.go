package main

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/meltforce/trainload/internal/models"
	"github.com/spf13/cobra"
)

var profileArchived bool

var profileCmd = &cobra.Command{
	Use:     "profile",
	Aliases: []string{"p"},
	Short:   "Manage body-part profiles",
}

var profileListCmd = &cobra.Command{
	Use:   "list",
	Short: "List active profiles (or archived ones with --archived)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		archived := profileArchived
		profiles, err := api.ListBodyPartProfiles(cmd.Context(), &archived)
		if err != nil {
			return err
		}
		renderProfiles(cmd.OutOrStdout(), profiles)
		return nil
	},
}

var profileCreateCmd = &cobra.Command{
	Use:   "create <body-part> <left|right>",
	Short: "Create a profile",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		side, err := models.ParseSide(args[1])
		if err != nil {
			return err
		}
		p, err := api.CreateProfile(cmd.Context(), models.ProfileInput{BodyPartName: args[0], Side: side})
		if err != nil {
			return err
		}
		color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "created profile %d: %s (%s)\n", p.ID, p.BodyPartName, p.Side)
		return nil
	},
}

func archiveCmd(use string, archive bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id>",
		Short: use + " a profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid profile id %q", args[0])
			}
			var p models.BodyPartProfile
			if archive {
				p, err = api.ArchiveProfile(cmd.Context(), id)
			} else {
				p, err = api.UnarchiveProfile(cmd.Context(), id)
			}
			if err != nil {
				return err
			}
			renderProfiles(cmd.OutOrStdout(), []models.BodyPartProfile{p})
			return nil
		},
	}
}

func renderProfiles(w io.Writer, profiles []models.BodyPartProfile) {
	if len(profiles) == 0 {
		color.New(color.Faint).Fprintln(w, "no profiles")
		return
	}
	faint := color.New(color.Faint)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tBODY PART\tSIDE\t")
	for _, p := range profiles {
		status := ""
		if p.Archived {
			status = faint.Sprint("archived")
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", p.ID, p.BodyPartName, p.Side, status)
	}
	tw.Flush()
}

func init() {
	profileListCmd.Flags().BoolVar(&profileArchived, "archived", false, "list archived profiles instead")
	profileCmd.AddCommand(profileListCmd, profileCreateCmd, archiveCmd("archive", true), archiveCmd("unarchive", false))
	rootCmd.AddCommand(profileCmd)
}
