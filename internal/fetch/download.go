package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"ocrprep/internal/logging"
)

const defaultDownloadTimeout = 5 * time.Minute

// Fetcher downloads dataset inputs over HTTP.
type Fetcher struct {
	client *http.Client
	logger *slog.Logger
}

// New creates a Fetcher. A non-positive timeout falls back to five minutes.
func New(logger *slog.Logger, timeout time.Duration) *Fetcher {
	if logger == nil {
		logger = logging.NewNop()
	}
	if timeout <= 0 {
		timeout = defaultDownloadTimeout
	}
	return &Fetcher{
		client: &http.Client{Timeout: timeout},
		logger: logger,
	}
}

// Download fetches url into dest unless dest already exists. It reports
// whether a download actually happened. The body is streamed to a temporary
// file and renamed into place so an interrupted download never leaves a
// truncated dest behind.
func (f *Fetcher) Download(ctx context.Context, url, dest string) (bool, error) {
	if _, err := os.Stat(dest); err == nil {
		f.logger.Info("download target already exists, skipping",
			logging.String(logging.FieldPath, dest))
		return false, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return false, fmt.Errorf("stat %s: %w", dest, err)
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return false, fmt.Errorf("create download directory: %w", err)
	}

	f.logger.Info("downloading",
		logging.String("url", url),
		logging.String(logging.FieldPath, dest))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, fmt.Errorf("build download request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("download %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("download %s: unexpected status %d", url, resp.StatusCode)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dest), filepath.Base(dest)+".partial-*")
	if err != nil {
		return false, fmt.Errorf("create partial file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		_ = os.Remove(tmpPath)
	}()

	written, err := io.Copy(tmp, resp.Body)
	if err != nil {
		_ = tmp.Close()
		return false, fmt.Errorf("download %s: %w", url, err)
	}
	if err := tmp.Close(); err != nil {
		return false, fmt.Errorf("close partial file: %w", err)
	}
	if err := os.Rename(tmpPath, dest); err != nil {
		return false, fmt.Errorf("finalize download: %w", err)
	}

	f.logger.Info("download complete",
		logging.String(logging.FieldPath, dest),
		logging.Int64("bytes", written))
	return true, nil
}
