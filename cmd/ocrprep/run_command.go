package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"ocrprep/internal/catalog"
	"ocrprep/internal/logging"
	"ocrprep/internal/verify"
)

func newRunCommand(cctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Fetch, convert, and verify in one pass",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOperation(cmd, cctx, catalog.KindRun, func(env *operationEnv, run *catalog.Run) error {
				ctx := cmd.Context()

				env.logger.Info("starting stage", logging.String(logging.FieldStage, "fetch"))
				fetchSummary, err := executeFetch(ctx, env)
				if err != nil {
					return fmt.Errorf("fetch: %w", err)
				}
				printFetchSummary(cmd, fetchSummary)

				env.logger.Info("starting stage", logging.String(logging.FieldStage, "convert"))
				convertSummary, err := executeConvert(ctx, env, run)
				if err != nil {
					return fmt.Errorf("convert: %w", err)
				}
				printConvertSummary(cmd, env, convertSummary)

				// Convert already recorded the missing rows, so verify runs
				// without touching the run counters again.
				env.logger.Info("starting stage", logging.String(logging.FieldStage, "verify"))
				report, err := verify.Run(env.cfg.CSVPath(), env.cfg.ExtractPath(), env.logger)
				if err != nil {
					return fmt.Errorf("verify: %w", err)
				}
				printVerifyReport(cmd, report, false)
				return nil
			})
		},
	}
}
