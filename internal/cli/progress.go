package cli

import (
	"fmt"
	"strings"

	"github.com/sadopc/studyplan/internal/progress"
	"github.com/sadopc/studyplan/internal/store"
	"github.com/sadopc/studyplan/internal/timemath"
	"github.com/spf13/cobra"
)

func newDoneCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "done <task-id>",
		Short: "Toggle a task between done and not done",
		Long:  "Toggle a task between done and not done. Task ids are printed by `studyplan plan`.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			timetable, err := a.store.Plan(a.now())
			if err != nil {
				return err
			}
			if !timetable.Contains(id) {
				return fmt.Errorf("task %q is not in the current plan: %w", id, store.ErrNotFound)
			}
			done, err := a.store.ToggleCompleted(id)
			if err != nil {
				return err
			}
			state := "not done"
			if done {
				state = "done"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Marked %s %s\n", id, state)
			return nil
		},
	}
}

func newProgressCmd(a *app) *cobra.Command {
	var reset bool

	cmd := &cobra.Command{
		Use:   "progress",
		Short: "Show completion figures and study tips",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if reset {
				done, err := a.store.CompletedSet()
				if err != nil {
					return err
				}
				if err := a.store.ClearCompleted(); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d completion marks\n", done.Len())
				return nil
			}

			now := a.now()
			timetable, err := a.store.Plan(now)
			if err != nil {
				return err
			}
			done, err := a.store.CompletedSet()
			if err != nil {
				return err
			}
			exam, err := a.store.ExamDate()
			if err != nil {
				return err
			}

			sum := progress.Summarize(timetable, done)
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Progress     %d%% (%s)\n", sum.Percent, progress.TierFor(sum.Percent))
			fmt.Fprintf(w, "Tasks        %d / %d done, %d remaining\n", sum.Completed, sum.Total, sum.Remaining)
			fmt.Fprintf(w, "Study time   %s of %s\n", timemath.FormatDuration(sum.CompletedMinutes), timemath.FormatDuration(sum.PlannedMinutes))
			fmt.Fprintf(w, "Streak       %d days\n", sum.StreakDays)
			fmt.Fprintf(w, "Est. left    %d days\n", sum.EstimatedDaysLeft)

			var daysLeft *int
			if exam != nil {
				d := timemath.StudyDays(now, exam)
				daysLeft = &d
				fmt.Fprintf(w, "Exam in      %d days\n", d)
			}

			fmt.Fprintln(w)
			fmt.Fprintln(w, strings.Join(progress.Tips(sum.Percent, daysLeft), "\n"))
			return nil
		},
	}
	cmd.Flags().BoolVar(&reset, "reset", false, "clear every completion mark")
	return cmd
}

func newStatsCmd(a *app) *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show Pomodoro statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if days < 1 {
				return fmt.Errorf("--days must be positive, got %d", days)
			}
			now := a.now()
			stats, err := a.store.LoadStats(now)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Today      %d sessions, %s\n", stats.TodayCompleted, timemath.FormatDuration(stats.TodayMinutes))
			fmt.Fprintf(w, "All time   %d sessions, %s\n", stats.TotalCompleted, timemath.FormatDuration(stats.TotalMinutes))

			from := timemath.StartOfDay(now).AddDate(0, 0, 1-days)
			to := timemath.StartOfDay(now).AddDate(0, 0, 1)
			focus, err := a.store.GetDailyFocus(from, to)
			if err != nil {
				return err
			}
			if len(focus) > 0 {
				fmt.Fprintf(w, "\nLast %d days\n", days)
				for _, f := range focus {
					fmt.Fprintf(w, "  %s  %2d sessions  %s\n", f.Date, f.Sessions, timemath.FormatDuration(f.Minutes))
				}
			}

			logs, err := a.store.ListSessions(from, to)
			if err != nil {
				return err
			}
			if len(logs) > 0 {
				fmt.Fprintln(w, "\nRecent")
				for _, l := range logs[:min(len(logs), 5)] {
					fmt.Fprintf(w, "  %s  %-5s %s\n", l.CompletedAt.Local().Format("Jan 2 15:04"), l.Kind, timemath.FormatDuration(l.Minutes))
				}
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&days, "days", 7, "days of history to show")
	return cmd
}
