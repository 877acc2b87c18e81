package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"ocrprep/internal/catalog"
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
)

func newStatusCommand(cctx *commandContext) *cobra.Command {
	var limit int
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show recent prep runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := cctx.newOperationEnv()
			if err != nil {
				return err
			}
			defer env.Close()

			runs, err := env.store.RecentRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				return writeRunsJSON(out, runs)
			}
			if len(runs) == 0 {
				fmt.Fprintln(out, "No recorded runs")
				return nil
			}
			fmt.Fprintln(out, renderRunsTable(runs, shouldColorize(out)))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Maximum number of runs to show")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit machine-readable JSON")
	return cmd
}

func renderRunsTable(runs []catalog.Run, colorize bool) string {
	headers := []string{"Started", "Kind", "Status", "Rows", "Eval", "Chars", "Missing", "Duration"}
	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		rows = append(rows, []string{
			run.StartedAt.Local().Format("2006-01-02 15:04:05"),
			run.Kind,
			renderStatus(run.Status, colorize),
			fmt.Sprintf("%d", run.Rows),
			fmt.Sprintf("%d", run.EvalRows),
			fmt.Sprintf("%d", run.Characters),
			fmt.Sprintf("%d", run.MissingImages),
			renderDuration(run),
		})
	}
	return renderTable(headers, rows, 4, 5, 6, 7)
}

func renderStatus(status catalog.Status, colorize bool) string {
	if !colorize {
		return string(status)
	}
	switch status {
	case catalog.StatusCompleted:
		return ansiGreen + string(status) + ansiReset
	case catalog.StatusFailed:
		return ansiRed + string(status) + ansiReset
	case catalog.StatusRunning:
		return ansiYellow + string(status) + ansiReset
	default:
		return string(status)
	}
}

func renderDuration(run catalog.Run) string {
	if run.FinishedAt.IsZero() {
		return "-"
	}
	return run.Duration().Round(time.Second).String()
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

type runJSON struct {
	RunID         string `json:"run_id"`
	Kind          string `json:"kind"`
	Status        string `json:"status"`
	StartedAt     string `json:"started_at"`
	FinishedAt    string `json:"finished_at,omitempty"`
	Rows          int    `json:"rows"`
	TrainRows     int    `json:"train_rows"`
	EvalRows      int    `json:"eval_rows"`
	Characters    int    `json:"characters"`
	MissingImages int    `json:"missing_images"`
	Error         string `json:"error,omitempty"`
}

func writeRunsJSON(out io.Writer, runs []catalog.Run) error {
	payload := make([]runJSON, 0, len(runs))
	for _, run := range runs {
		entry := runJSON{
			RunID:         run.RunID,
			Kind:          run.Kind,
			Status:        string(run.Status),
			StartedAt:     run.StartedAt.Format(time.RFC3339),
			Rows:          run.Rows,
			TrainRows:     run.TrainRows,
			EvalRows:      run.EvalRows,
			Characters:    run.Characters,
			MissingImages: run.MissingImages,
			Error:         run.Error,
		}
		if !run.FinishedAt.IsZero() {
			entry.FinishedAt = run.FinishedAt.Format(time.RFC3339)
		}
		payload = append(payload, entry)
	}
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(payload)
}
