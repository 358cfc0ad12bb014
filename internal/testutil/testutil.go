// Package testutil provides shared test helpers for setting up installations,
// output trees and manifests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/starford/dokuwiki2wikijs/internal/index"
	"github.com/starford/dokuwiki2wikijs/internal/storage"
)

// TestDB creates a temporary SQLite manifest that is automatically cleaned up.
func TestDB(t *testing.T) *index.DB {
	t.Helper()
	dbFile, err := os.CreateTemp("", "d2w-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := index.Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestTree creates a temporary directory with a storage.Provider.
func TestTree(t *testing.T) (string, storage.Provider) {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.NewFS(dir)
	if err != nil {
		t.Fatal(err)
	}
	return dir, store
}

// TestInstallation creates a DokuWiki installation holding files, keyed by
// slash separated path relative to the installation root. data/pages always
// exists.
func TestInstallation(t *testing.T, files map[string]string) (string, storage.Provider) {
	t.Helper()
	root, store := TestTree(t)
	if err := os.MkdirAll(filepath.Join(root, "data", "pages"), 0o755); err != nil {
		t.Fatal(err)
	}
	for rel, content := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return root, store
}
