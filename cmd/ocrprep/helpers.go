package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"ocrprep/internal/catalog"
	"ocrprep/internal/logging"
	"ocrprep/internal/runlock"
)

// runOperation wraps a dataset operation with the shared bookkeeping: the
// single-instance lock, a catalog run record, and completion or failure
// notifications. fn fills the run counters before returning.
func runOperation(cmd *cobra.Command, cctx *commandContext, kind string, fn func(env *operationEnv, run *catalog.Run) error) error {
	env, err := cctx.newOperationEnv()
	if err != nil {
		return err
	}
	defer env.Close()

	lock, err := runlock.Acquire(env.cfg.Paths.DataDir)
	if err != nil {
		if errors.Is(err, runlock.ErrHeld) {
			return fmt.Errorf("another ocrprep invocation is already working in %s", env.cfg.Paths.DataDir)
		}
		return err
	}
	defer func() {
		_ = lock.Release()
	}()

	ctx := cmd.Context()
	run, err := env.store.StartRun(ctx, kind)
	if err != nil {
		return err
	}
	env.logger = logging.NewComponentLogger(env.logger, kind).
		With(logging.String(logging.FieldRunID, run.RunID))

	if err := fn(env, run); err != nil {
		if failErr := env.store.FailRun(ctx, run, err); failErr != nil {
			env.logger.Warn("failed to record run failure", logging.Error(failErr))
		}
		if notifyErr := env.notifier.NotifyRunFailed(ctx, kind, err); notifyErr != nil {
			env.logger.Warn("failure notification not sent", logging.Error(notifyErr))
		}
		return err
	}

	if err := env.store.FinishRun(ctx, run); err != nil {
		return err
	}
	if notifyErr := env.notifier.NotifyRunCompleted(ctx, kind, run.Rows, run.Characters, run.Duration()); notifyErr != nil {
		env.logger.Warn("completion notification not sent", logging.Error(notifyErr))
	}
	return nil
}
