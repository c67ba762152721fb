package cli

import (
	"fmt"
	"path/filepath"

	"github.com/sadopc/studyplan/internal/config"
	"github.com/sadopc/studyplan/internal/export"
	"github.com/spf13/cobra"
)

func newBackupCmd(a *app) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Write the whole planner state to a JSON file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			now := a.now()
			if out == "" {
				out = fmt.Sprintf("studyplan-backup-%s.json", now.Format("2006-01-02"))
			}
			snap, err := a.store.Snapshot(now)
			if err != nil {
				return err
			}
			if err := export.WriteSnapshot(snap, out); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Backup written to %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default studyplan-backup-<date>.json)")
	return cmd
}

func newConfigCmd(a *app) *cobra.Command {
	var write bool

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := cmd.OutOrStdout()
			source := a.cfg.ConfigFile
			if source == "" {
				source = "(defaults)"
			}
			fmt.Fprintf(w, "config_file: %s\n", source)
			fmt.Fprintf(w, "db_path:     %s\n", a.cfg.DBPath)
			fmt.Fprintf(w, "log_file:    %s\n", a.cfg.LogFile)
			fmt.Fprintf(w, "log_level:   %s\n", a.cfg.LogLevel)

			if !write {
				return nil
			}
			path := a.configPath
			if path == "" {
				dir, err := config.Dir()
				if err != nil {
					return err
				}
				path = filepath.Join(dir, "config.yaml")
			}
			if err := config.Save(a.cfg, path); err != nil {
				return err
			}
			fmt.Fprintf(w, "\nWrote %s\n", path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&write, "write", false, "save the effective configuration to the config file")
	return cmd
}
