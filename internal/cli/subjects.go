package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/sadopc/studyplan/internal/export"
	"github.com/sadopc/studyplan/internal/planner"
	"github.com/sadopc/studyplan/internal/store"
	"github.com/spf13/cobra"
)

func newSubjectsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "subjects",
		Aliases: []string{"subject", "sub"},
		Short:   "Manage the subjects to study",
	}
	cmd.AddCommand(
		newSubjectsListCmd(a),
		newSubjectsAddCmd(a),
		newSubjectsRmCmd(a),
		newSubjectsImportCmd(a),
		newSubjectsExportCmd(a),
	)
	return cmd
}

func newSubjectsListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List subjects",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			subjects, err := a.store.ListSubjects()
			if err != nil {
				return err
			}
			if len(subjects) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No subjects yet. Add one with: studyplan subjects add <name>")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), subjectTable(subjects))
			return nil
		},
	}
}

func subjectTable(subjects []planner.Subject) string {
	header := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cell := lipgloss.NewStyle().Padding(0, 1)

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("#", "Name", "Priority", "Difficulty", "ID").
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return cell
		})
	for i, s := range subjects {
		p, d := s.EffectivePriority(), s.EffectiveDifficulty()
		t.Row(
			strconv.Itoa(i+1),
			s.Name,
			fmt.Sprintf("%d %s", p, planner.PriorityLabel(p)),
			fmt.Sprintf("%d %s", d, planner.DifficultyLabel(d)),
			s.ID,
		)
	}
	return t.Render()
}

func newSubjectsAddCmd(a *app) *cobra.Command {
	var priority, difficulty int

	cmd := &cobra.Command{
		Use:     "add <name>",
		Short:   "Add a subject",
		Example: `  studyplan subjects add "Linear Algebra" --priority 4 --difficulty 5`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.Join(args, " ")
			sub, err := a.store.CreateSubject(name, priority, difficulty)
			if err != nil {
				return err
			}
			if err := a.replan(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s (%s)\n", sub.Name, sub.ID)
			return nil
		},
	}
	cmd.Flags().IntVarP(&priority, "priority", "p", planner.DefaultPriority, "priority 1-5")
	cmd.Flags().IntVarP(&difficulty, "difficulty", "d", 3, "difficulty 1-5")
	return cmd
}

func newSubjectsRmCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id|name>",
		Aliases: []string{"remove", "delete"},
		Short:   "Remove a subject by id or name",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sub, err := a.findSubject(args[0])
			if err != nil {
				return err
			}
			if err := a.store.DeleteSubject(sub.ID); err != nil {
				return err
			}
			if err := a.replan(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", sub.Name)
			return nil
		},
	}
}

// findSubject matches an id exactly or a name case-insensitively.
func (a *app) findSubject(ref string) (*planner.Subject, error) {
	sub, err := a.store.GetSubject(ref)
	if err == nil {
		return sub, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	subjects, err := a.store.ListSubjects()
	if err != nil {
		return nil, err
	}
	for i := range subjects {
		if strings.EqualFold(subjects[i].Name, ref) {
			return &subjects[i], nil
		}
	}
	return nil, fmt.Errorf("subject %q: %w", ref, store.ErrNotFound)
}

func newSubjectsImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace all subjects with a YAML or JSON list",
		Long: `Replace all subjects with the ones in a YAML (or JSON) file. The file is
either a list of subjects or a mapping with a "subjects" key:

  subjects:
    - name: Physics
      priority: 5
      difficulty: 4`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			subjects, err := export.ReadSubjects(args[0])
			if err != nil {
				return err
			}
			saved, err := a.store.ReplaceSubjects(subjects)
			if err != nil {
				return err
			}
			if err := a.replan(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d subjects\n", len(saved))
			return nil
		},
	}
}

func newSubjectsExportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "export <file>",
		Short: "Write subjects to a YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			subjects, err := a.store.ListSubjects()
			if err != nil {
				return err
			}
			if err := export.WriteSubjects(subjects, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d subjects to %s\n", len(subjects), args[0])
			return nil
		},
	}
}

// replan regenerates the plan after an edit and drops stale completions.
func (a *app) replan() error {
	_, err := a.store.Replan(a.now())
	return err
}
