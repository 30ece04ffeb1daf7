package sqlite

import (
	"path/filepath"
	"testing"

	"github.com/famlog/famlog/internal/store"
	"github.com/famlog/famlog/internal/store/storetest"
)

func TestSQLiteStoreCompliance(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store {
		t.Helper()
		path := filepath.Join(t.TempDir(), "famlog.db")
		s, err := New(path)
		if err != nil {
			t.Fatalf("open sqlite store: %v", err)
		}
		return s
	})
}
