// Package archive bundles a converted tree into a zip file for Wiki.js.
package archive

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zip"

	"github.com/starford/dokuwiki2wikijs/internal/storage"
)

// DefaultName is the archive file name Wiki.js imports are shipped as.
const DefaultName = "dokuwiki2wikijs.zip"

// Write packs every file of tree into a deflate-compressed zip at dst.
// Entry names are relative to the tree root and slash separated. It returns
// the number of files written.
func Write(dst string, tree storage.Provider) (int, error) {
	entries, err := tree.List("", "")
	if err != nil {
		return 0, err
	}

	if dir := filepath.Dir(dst); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return 0, fmt.Errorf("archive: mkdir: %w", err)
		}
	}
	f, err := os.Create(dst)
	if err != nil {
		return 0, fmt.Errorf("archive: create %s: %w", dst, err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	for _, e := range entries {
		data, err := tree.Read(e.Path)
		if err != nil {
			return 0, err
		}
		w, err := zw.CreateHeader(&zip.FileHeader{
			Name:     e.Path,
			Method:   zip.Deflate,
			Modified: e.UpdatedAt,
		})
		if err != nil {
			return 0, fmt.Errorf("archive: add %s: %w", e.Path, err)
		}
		if _, err := w.Write(data); err != nil {
			return 0, fmt.Errorf("archive: write %s: %w", e.Path, err)
		}
	}
	if err := zw.Close(); err != nil {
		return 0, fmt.Errorf("archive: finalize: %w", err)
	}
	if err := f.Close(); err != nil {
		return 0, fmt.Errorf("archive: close: %w", err)
	}
	return len(entries), nil
}

// Entries lists the names stored in the zip at path.
func Entries(path string) ([]string, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("archive: open %s: %w", path, err)
	}
	defer r.Close()
	names := make([]string, 0, len(r.File))
	for _, f := range r.File {
		names = append(names, f.Name)
	}
	return names, nil
}

// ReadEntry returns the content of one entry of the zip at path.
func ReadEntry(path, name string) ([]byte, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("archive: open %s: %w", path, err)
	}
	defer r.Close()
	for _, f := range r.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("archive: open entry %s: %w", name, err)
		}
		defer rc.Close()
		return io.ReadAll(rc)
	}
	return nil, fmt.Errorf("archive: entry %s: %w", name, os.ErrNotExist)
}
