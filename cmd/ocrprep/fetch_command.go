package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"ocrprep/internal/catalog"
	"ocrprep/internal/fetch"
	"ocrprep/internal/logging"
	"ocrprep/internal/preflight"
	"ocrprep/internal/textnorm"
)

func newFetchCommand(cctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "fetch",
		Short: "Download and extract the dataset archive and labels CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOperation(cmd, cctx, catalog.KindFetch, func(env *operationEnv, run *catalog.Run) error {
				summary, err := executeFetch(cmd.Context(), env)
				if err != nil {
					return err
				}
				printFetchSummary(cmd, summary)
				return nil
			})
		},
	}
}

type fetchSummary struct {
	ArchiveDownloaded bool
	CSVDownloaded     bool
	Extracted         int
	Renamed           int
}

// executeFetch downloads the archive and CSV, extracts the archive, and
// normalizes the extracted filenames to NFC. Downloads are skipped when the
// target file already exists; extraction is skipped when nothing new was
// downloaded and the image directory is already populated.
func executeFetch(ctx context.Context, env *operationEnv) (*fetchSummary, error) {
	if err := preflight.FirstFailure(preflight.ForFetch(env.cfg)); err != nil {
		return nil, err
	}

	fetcher := fetch.New(env.logger, time.Duration(env.cfg.Source.DownloadTimeout)*time.Second)
	summary := &fetchSummary{}

	var err error
	summary.ArchiveDownloaded, err = fetcher.Download(ctx, env.cfg.Source.ArchiveURL, env.cfg.ArchivePath())
	if err != nil {
		return nil, err
	}
	summary.CSVDownloaded, err = fetcher.Download(ctx, env.cfg.Source.CSVURL, env.cfg.CSVPath())
	if err != nil {
		return nil, err
	}

	if !summary.ArchiveDownloaded && directoryPopulated(env.cfg.ExtractPath()) {
		env.logger.Info("archive unchanged and image directory populated, skipping extraction",
			logging.String(logging.FieldPath, env.cfg.ExtractPath()))
	} else {
		if names, peekErr := fetch.Peek(env.cfg.ArchivePath(), 5); peekErr == nil {
			env.logger.Debug("archive head", logging.Any("entries", names))
		}
		summary.Extracted, err = fetch.ExtractTarGz(env.cfg.ArchivePath(), env.cfg.ExtractPath())
		if err != nil {
			return nil, err
		}
	}

	summary.Renamed, err = textnorm.NormalizeTree(env.cfg.ExtractPath())
	if err != nil {
		return nil, err
	}

	env.logger.Info("fetch complete",
		logging.Bool("archive_downloaded", summary.ArchiveDownloaded),
		logging.Bool("csv_downloaded", summary.CSVDownloaded),
		logging.Int("extracted", summary.Extracted),
		logging.Int("renamed", summary.Renamed))
	return summary, nil
}

func directoryPopulated(path string) bool {
	entries, err := os.ReadDir(path)
	return err == nil && len(entries) > 0
}

func printFetchSummary(cmd *cobra.Command, summary *fetchSummary) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Archive downloaded:  %s\n", yesNo(summary.ArchiveDownloaded))
	fmt.Fprintf(out, "CSV downloaded:      %s\n", yesNo(summary.CSVDownloaded))
	if summary.Extracted > 0 {
		fmt.Fprintf(out, "Files extracted:     %d\n", summary.Extracted)
	} else {
		fmt.Fprintln(out, "Extraction skipped (image directory already populated)")
	}
	fmt.Fprintf(out, "Filenames renamed:   %d\n", summary.Renamed)
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
