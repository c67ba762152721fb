package cli

import (
	"errors"
	"fmt"

	"github.com/sadopc/studyplan/internal/timemath"
	"github.com/spf13/cobra"
)

func newExamCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "exam",
		Short: "Show or change the exam date",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:     "set <YYYY-MM-DD>",
			Short:   "Set the exam date",
			Example: "  studyplan exam set 2026-12-14",
			Args:    cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				day, err := timemath.ParseDate(args[0])
				if err != nil {
					return err
				}
				if timemath.IsPast(a.now(), day) {
					return errors.New("exam date is in the past")
				}
				if err := a.store.SetExamDate(&day); err != nil {
					return err
				}
				if err := a.replan(); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Exam set for %s (%d days to study)\n",
					timemath.FormatDate(day), timemath.DaysAvailable(a.now(), day))
				return nil
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Remove the exam date",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				if err := a.store.SetExamDate(nil); err != nil {
					return err
				}
				if err := a.replan(); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Exam date cleared")
				return nil
			},
		},
		&cobra.Command{
			Use:   "show",
			Short: "Print the exam date and days left",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				exam, err := a.store.ExamDate()
				if err != nil {
					return err
				}
				w := cmd.OutOrStdout()
				if exam == nil {
					fmt.Fprintln(w, "No exam date set")
					return nil
				}
				now := a.now()
				if timemath.IsPast(now, *exam) {
					fmt.Fprintf(w, "%s (%s) has passed\n", timemath.FormatDate(*exam), timemath.DayName(*exam))
					return nil
				}
				fmt.Fprintf(w, "%s (%s), %d days left\n",
					timemath.FormatDate(*exam), timemath.DayName(*exam), timemath.DaysUntil(now, *exam))
				return nil
			},
		},
	)
	return cmd
}
