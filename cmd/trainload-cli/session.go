package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/meltforce/trainload/internal/catalog"
	"github.com/meltforce/trainload/internal/draft"
	"github.com/meltforce/trainload/internal/format"
	"github.com/meltforce/trainload/internal/session"
	"github.com/spf13/cobra"
)

var sessionCmd = &cobra.Command{
	Use:     "session",
	Aliases: []string{"s"},
	Short:   "Build and submit the draft session",
}

// withBuilder restores the saved draft, runs fn and prints the result.
func withBuilder(cmd *cobra.Command, fn func(ctx context.Context, b *session.Builder) error) error {
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

	b := session.NewBuilder(cat, draft.SessionDraft{Store: store}, api, log)
	if _, err := b.Restore(ctx); err != nil {
		return err
	}
	if err := fn(ctx, b); err != nil {
		return err
	}
	renderDraft(cmd.OutOrStdout(), b, cat)
	return nil
}

// setRef resolves "<CODE> <n>" to the id of the n-th set (1-based) of an exercise.
func setRef(b *session.Builder, code, n string) (string, error) {
	idx, err := strconv.Atoi(n)
	if err != nil || idx < 1 {
		return "", fmt.Errorf("invalid set number %q", n)
	}
	sets := b.State().SetsByExercise[code]
	if idx > len(sets) {
		return "", fmt.Errorf("%s has %d sets, no set %d", code, len(sets), idx)
	}
	return sets[idx-1].ID, nil
}

// parseValue reads a field or RPE value. "-" clears it.
func parseValue(s string) (*float64, error) {
	if s == "-" {
		return nil, nil
	}
	v := session.ParseNumber(s)
	if v == nil {
		return nil, fmt.Errorf("invalid number %q", s)
	}
	return v, nil
}

// renderDraft prints the draft grouped by exercise, one line per set.
func renderDraft(w io.Writer, b *session.Builder, cat *catalog.Catalog) {
	state := b.State()
	bold := color.New(color.Bold)
	faint := color.New(color.Faint)
	ok := color.New(color.FgGreen)
	pending := color.New(color.FgYellow)

	bold.Fprintf(w, "Session %s\n", state.Date)
	codes := state.ExerciseCodes()
	if len(codes) == 0 {
		faint.Fprintln(w, "  (no exercises)")
		return
	}

	for _, code := range codes {
		name := code
		if ex, found := cat.Exercise(code); found {
			name = ex.Name
		}
		fmt.Fprintf(w, "  %s %s\n", name, faint.Sprintf("[%s]", code))

		st, _ := cat.SetTypeFor(code)
		for i, set := range state.SetsByExercise[code] {
			var parts []string
			for _, field := range st.FieldNames() {
				parts = append(parts, field+"="+format.Number(set.Fields[field]))
			}
			parts = append(parts, "rpe="+format.Number(set.RPE))
			if set.BodyPartProfileID != nil {
				parts = append(parts, fmt.Sprintf("profile=%d", *set.BodyPartProfileID))
			}
			mark := pending.Sprint("·")
			if b.IsSetComplete(code, set) {
				mark = ok.Sprint("✓")
			}
			fmt.Fprintf(w, "    %s %d  %s\n", mark, i+1, strings.Join(parts, "  "))
		}
	}

	if b.CanCompleteSession() {
		ok.Fprintln(w, "ready to submit")
	} else {
		pending.Fprintln(w, "incomplete: every set needs its fields, an RPE and done")
	}
}

var sessionShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the draft",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withBuilder(cmd, func(context.Context, *session.Builder) error { return nil })
	},
}

var sessionDateCmd = &cobra.Command{
	Use:   "date <YYYY-MM-DD>",
	Short: "Change the session date",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withBuilder(cmd, func(ctx context.Context, b *session.Builder) error {
			return b.SetDate(ctx, args[0])
		})
	},
}

var sessionAddExerciseCmd = &cobra.Command{
	Use:   "add-exercise <CODE>",
	Short: "Add an exercise without sets",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withBuilder(cmd, func(ctx context.Context, b *session.Builder) error {
			return b.AddExercise(ctx, args[0])
		})
	},
}

var sessionRemoveExerciseCmd = &cobra.Command{
	Use:   "remove-exercise <CODE>",
	Short: "Remove an exercise and all its sets",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withBuilder(cmd, func(ctx context.Context, b *session.Builder) error {
			return b.RemoveExercise(ctx, args[0])
		})
	},
}

var sessionAddSetCmd = &cobra.Command{
	Use:   "add-set <CODE>",
	Short: "Append an empty set to an exercise",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withBuilder(cmd, func(ctx context.Context, b *session.Builder) error {
			_, err := b.AddSet(ctx, args[0])
			return err
		})
	},
}

var sessionSetCmd = &cobra.Command{
	Use:   "set <CODE> <n> <field> <value|->",
	Short: "Set a field of a set (weight, reps, durationSeconds ...)",
	Args:  cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withBuilder(cmd, func(ctx context.Context, b *session.Builder) error {
			id, err := setRef(b, args[0], args[1])
			if err != nil {
				return err
			}
			v, err := parseValue(args[3])
			if err != nil {
				return err
			}
			return b.UpdateField(ctx, args[0], id, args[2], v)
		})
	},
}

var sessionRPECmd = &cobra.Command{
	Use:   "rpe <CODE> <n> <value|->",
	Short: "Set the RPE (1-10) of a set",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withBuilder(cmd, func(ctx context.Context, b *session.Builder) error {
			id, err := setRef(b, args[0], args[1])
			if err != nil {
				return err
			}
			v, err := parseValue(args[2])
			if err != nil {
				return err
			}
			return b.UpdateRPE(ctx, args[0], id, v)
		})
	},
}

func toggleCmd(use, short string, completed bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <CODE> <n>",
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withBuilder(cmd, func(ctx context.Context, b *session.Builder) error {
				id, err := setRef(b, args[0], args[1])
				if err != nil {
					return err
				}
				return b.ToggleSetComplete(ctx, args[0], id, completed)
			})
		},
	}
}

var sessionRemoveSetCmd = &cobra.Command{
	Use:   "remove-set <CODE> <n>",
	Short: "Remove a set",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withBuilder(cmd, func(ctx context.Context, b *session.Builder) error {
			id, err := setRef(b, args[0], args[1])
			if err != nil {
				return err
			}
			return b.RemoveSet(ctx, args[0], id)
		})
	},
}

var sessionProfileCmd = &cobra.Command{
	Use:   "profile <CODE> <n> <profile-id|none>",
	Short: "Assign a set to a body-part profile",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withBuilder(cmd, func(ctx context.Context, b *session.Builder) error {
			id, err := setRef(b, args[0], args[1])
			if err != nil {
				return err
			}
			var profileID *int
			if args[2] != "none" {
				n, err := strconv.Atoi(args[2])
				if err != nil {
					return fmt.Errorf("invalid profile id %q", args[2])
				}
				profileID = &n
			}
			return b.AssignProfile(ctx, args[0], id, profileID)
		})
	},
}

var sessionSubmitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Submit the draft once every set is complete",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withBuilder(cmd, func(ctx context.Context, b *session.Builder) error {
			created, err := b.CompleteSession(ctx)
			var subErr *session.SubmissionError
			switch {
			case errors.Is(err, session.ErrSessionIncomplete):
				return fmt.Errorf("cannot submit: %w", err)
			case errors.As(err, &subErr):
				return fmt.Errorf("%w (draft kept, retry later)", subErr)
			case err != nil:
				return err
			}
			color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "session %s saved with %d sets\n", created.ID, len(created.Sets))
			return nil
		})
	},
}

var sessionDiscardCmd = &cobra.Command{
	Use:   "discard",
	Short: "Throw the draft away",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withBuilder(cmd, func(ctx context.Context, b *session.Builder) error {
			return b.Discard(ctx)
		})
	},
}

func init() {
	sessionCmd.AddCommand(
		sessionShowCmd,
		sessionDateCmd,
		sessionAddExerciseCmd,
		sessionRemoveExerciseCmd,
		sessionAddSetCmd,
		sessionSetCmd,
		sessionRPECmd,
		toggleCmd("done", "Mark a set as done", true),
		toggleCmd("undo", "Mark a set as not done", false),
		sessionRemoveSetCmd,
		sessionProfileCmd,
		sessionSubmitCmd,
		sessionDiscardCmd,
	)
	rootCmd.AddCommand(sessionCmd)
}
