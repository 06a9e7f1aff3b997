package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/nao1215/enumdir/internal/config"
	"github.com/nao1215/enumdir/internal/database"
)

// defaultHistoryLimit is the number of runs listed without --limit.
const defaultHistoryLimit = 20

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [run-id]",
		Short: "List recorded scans or show the findings of one scan",
		Long: `History reads the run database written by "enumdir scan".

Without arguments the most recent runs are listed. With a run ID the run
and every path it found are shown.

Examples:
  # List the last 20 runs
  enumdir history

  # List every run of one target as Markdown
  enumdir history --target example.com --limit 0 --markdown

  # Show the findings of a run as JSON
  enumdir history --json 2f1c5a3e-6a0b-4c59-9c1e-4f7a1d2b3c4d

  # Remove a run
  enumdir history --delete 2f1c5a3e-6a0b-4c59-9c1e-4f7a1d2b3c4d`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}

	cmd.Flags().BoolP("json", "j", false,
		"Output JSON (mutually exclusive with --markdown)")
	cmd.Flags().Bool("markdown", false,
		"Output Markdown (mutually exclusive with --json)")
	cmd.Flags().IntP("limit", "n", defaultHistoryLimit,
		"Number of runs to list, 0 lists all")
	cmd.Flags().String("target", "",
		"Only list runs of this target")
	cmd.Flags().String("db-dir", config.XDGDataDir(),
		"Directory of the run history database")
	cmd.Flags().Bool("delete", false,
		"Delete the given run")

	return cmd
}

func runHistoryCmd(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	jsonFormat, err := flags.GetBool("json")
	if err != nil {
		return err
	}
	markdownFormat, err := flags.GetBool("markdown")
	if err != nil {
		return err
	}
	if jsonFormat && markdownFormat {
		return config.ErrConflictingReportFormats
	}
	limit, err := flags.GetInt("limit")
	if err != nil {
		return err
	}
	target, err := flags.GetString("target")
	if err != nil {
		return err
	}
	if target != "" {
		if target, err = config.NormalizeTarget(target); err != nil {
			return err
		}
	}
	dbDir, err := flags.GetString("db-dir")
	if err != nil {
		return err
	}
	del, err := flags.GetBool("delete")
	if err != nil {
		return err
	}
	if del && len(args) == 0 {
		return errors.New("--delete needs a run ID")
	}

	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	w := newReportWriter(jsonFormat, markdownFormat, out)

	if _, err := os.Stat(filepath.Join(dbDir, database.FileName)); errors.Is(err, os.ErrNotExist) {
		if len(args) == 1 {
			return fmt.Errorf("%w: %s", database.ErrRunNotFound, args[0])
		}
		_, err := w.WriteRuns(nil)
		return err
	}

	db, err := database.Open(dbDir, database.Options{EnableWAL: true})
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if len(args) == 0 {
		runs, err := db.ListRuns(ctx, target, limit)
		if err != nil {
			return err
		}
		_, err = w.WriteRuns(runs)
		return err
	}

	id := args[0]
	if del {
		if err := db.DeleteRun(ctx, id); err != nil {
			return err
		}
		fmt.Fprintf(out, "Deleted run %s\n", id)
		return nil
	}

	run, err := db.GetRun(ctx, id)
	if err != nil {
		return err
	}
	findings, err := db.GetFindings(ctx, id)
	if err != nil {
		return err
	}
	_, err = w.WriteFindings(run, findings)
	return err
}
