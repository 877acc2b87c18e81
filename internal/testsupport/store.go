package testsupport

import (
	"testing"

	"ocrprep/internal/catalog"
	"ocrprep/internal/config"
)

// MustOpenStore opens a catalog store for the test config and closes it on cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *catalog.Store {
	t.Helper()

	store, err := catalog.Open(cfg)
	if err != nil {
		t.Fatalf("open catalog store: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}
