package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"ocrprep/internal/catalog"
	"ocrprep/internal/verify"
)

func newVerifyCommand(cctx *commandContext) *cobra.Command {
	var listMissing bool

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check that every CSV row has a matching image on disk",
		RunE: func(cmd *cobra.Command, args []string) error {
			var report verify.Report
			err := runOperation(cmd, cctx, catalog.KindVerify, func(env *operationEnv, run *catalog.Run) error {
				var runErr error
				report, runErr = executeVerify(cmd.Context(), env, run)
				if runErr != nil {
					return runErr
				}
				printVerifyReport(cmd, report, listMissing)
				return nil
			})
			if err != nil {
				return err
			}
			// Incompleteness is not a run failure, but callers scripting
			// around the exit code still need to see it.
			if !report.OK() {
				return fmt.Errorf("%d of %d csv rows reference images missing on disk", len(report.Missing), report.Total)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&listMissing, "list-missing", false, "Print every missing image path")
	return cmd
}

func executeVerify(ctx context.Context, env *operationEnv, run *catalog.Run) (verify.Report, error) {
	report, err := verify.Run(env.cfg.CSVPath(), env.cfg.ExtractPath(), env.logger)
	if err != nil {
		return report, err
	}
	run.Rows = report.Total
	run.MissingImages = len(report.Missing)
	if err := env.store.RecordMissing(ctx, run.RunID, report.Missing); err != nil {
		return report, err
	}
	return report, nil
}

func printVerifyReport(cmd *cobra.Command, report verify.Report, listMissing bool) {
	out := cmd.OutOrStdout()
	if report.OK() {
		fmt.Fprintf(out, "All %d csv rows match the extracted images\n", report.Total)
		return
	}
	fmt.Fprintf(out, "Missing images:      %d of %d rows\n", len(report.Missing), report.Total)
	if listMissing {
		for _, path := range report.Missing {
			fmt.Fprintf(out, "  %s\n", path)
		}
	}
}
