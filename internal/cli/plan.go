package cli

import (
	"fmt"
	"io"

	"github.com/sadopc/studyplan/internal/export"
	"github.com/sadopc/studyplan/internal/planner"
	"github.com/sadopc/studyplan/internal/progress"
	"github.com/sadopc/studyplan/internal/timemath"
	"github.com/spf13/cobra"
)

func newPlanCmd(a *app) *cobra.Command {
	var (
		format, out string
		today       bool
	)

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Print or export the study timetable",
		Example: `  studyplan plan
  studyplan plan --today
  studyplan plan --format csv --out plan.csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			timetable, err := a.store.Plan(a.now())
			if err != nil {
				return err
			}
			done, err := a.store.CompletedSet()
			if err != nil {
				return err
			}
			if today {
				timetable = timetable.ForDay(a.now())
			}

			switch format {
			case "text":
				printPlan(cmd.OutOrStdout(), timetable, done)
				return nil
			case "csv", "json":
				if out == "" {
					return fmt.Errorf("--out is required for %s output", format)
				}
				write := export.ToCSV
				if format == "json" {
					write = export.ToJSON
				}
				if err := write(timetable, done, out); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d tasks to %s\n", len(timetable), out)
				return nil
			}
			return fmt.Errorf("unknown format %q (want text, csv or json)", format)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format: text, csv, json")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file for csv and json")
	cmd.Flags().BoolVar(&today, "today", false, "only today's tasks")
	return cmd
}

func printPlan(w io.Writer, timetable planner.Timetable, done progress.CompletedSet) {
	if len(timetable) == 0 {
		fmt.Fprintln(w, "No plan yet. Add subjects and set a future exam date.")
		return
	}

	for i, day := range timetable.Days() {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s  (%s, %d%% done)\n",
			day.Date.Format("Monday, Jan 2"), timemath.FormatDuration(day.Minutes()), progress.DayPercent(day.Tasks, done))
		for _, t := range day.Tasks {
			mark := " "
			if done.Has(t.ID) {
				mark = "x"
			}
			fmt.Fprintf(w, "  [%s] %-8s %s  %s\n", mark, timemath.FormatDuration(t.Duration), t.Topic, t.ID)
		}
	}

	sum := progress.Summarize(timetable, done)
	fmt.Fprintf(w, "\n%d tasks, %s planned, %d%% complete\n",
		sum.Total, timemath.FormatDuration(sum.PlannedMinutes), sum.Percent)
}
