package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"ocrprep/internal/catalog"
	"ocrprep/internal/labels"
	"ocrprep/internal/preflight"
)

func newConvertCommand(cctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "convert",
		Short: "Convert the labels CSV into label files and a character dictionary",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOperation(cmd, cctx, catalog.KindConvert, func(env *operationEnv, run *catalog.Run) error {
				summary, err := executeConvert(cmd.Context(), env, run)
				if err != nil {
					return err
				}
				printConvertSummary(cmd, env, summary)
				return nil
			})
		},
	}
}

// executeConvert runs the CSV conversion and records its counters on the run.
func executeConvert(ctx context.Context, env *operationEnv, run *catalog.Run) (*labels.Summary, error) {
	if err := preflight.FirstFailure(preflight.ForConvert(env.cfg)); err != nil {
		return nil, err
	}

	summary, err := labels.Convert(labels.Options{
		CSVPath:            env.cfg.CSVPath(),
		ImageRoot:          env.cfg.ExtractPath(),
		LabelPath:          env.cfg.LabelPath(),
		EvalLabelPath:      env.cfg.EvalLabelPath(),
		DictPath:           env.cfg.DictPath(),
		EvalEveryN:         env.cfg.Dataset.EvalEveryN,
		MissingImagePolicy: env.cfg.Dataset.MissingImagePolicy,
	}, env.logger)
	if err != nil {
		return nil, err
	}

	run.Rows = summary.Rows
	run.TrainRows = summary.TrainRows
	run.EvalRows = summary.EvalRows
	run.Characters = summary.Characters
	run.MissingImages = len(summary.Missing)
	if err := env.store.RecordMissing(ctx, run.RunID, summary.Missing); err != nil {
		return nil, err
	}
	return summary, nil
}

func printConvertSummary(cmd *cobra.Command, env *operationEnv, summary *labels.Summary) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "CSV encoding:        %s\n", summary.Encoding)
	fmt.Fprintf(out, "Rows converted:      %d\n", summary.Rows)
	if summary.EvalRows > 0 {
		fmt.Fprintf(out, "Training rows:       %d (%s)\n", summary.TrainRows, env.cfg.LabelPath())
		fmt.Fprintf(out, "Eval rows:           %d (%s)\n", summary.EvalRows, env.cfg.EvalLabelPath())
	} else {
		fmt.Fprintf(out, "Label file:          %s\n", env.cfg.LabelPath())
	}
	fmt.Fprintf(out, "Dictionary:          %d characters (%s)\n", summary.Characters, env.cfg.DictPath())
	if len(summary.Missing) > 0 {
		fmt.Fprintf(out, "Rows skipped:        %d (images missing on disk)\n", len(summary.Missing))
	}
}
