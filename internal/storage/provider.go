// Package storage provides rooted, traversal-safe access to a file tree.
package storage

import "github.com/starford/dokuwiki2wikijs/internal/models"

// Provider is the interface for tree file operations. All paths are
// slash or OS separated and relative to the tree root.
type Provider interface {
	// Root returns the absolute path of the tree root.
	Root() string
	// List returns every file under dir whose name ends in ext ("" for all),
	// with paths relative to dir.
	List(dir, ext string) ([]models.FileEntry, error)
	// Read returns the raw bytes of the file at path.
	Read(path string) ([]byte, error)
	// Write atomically writes content to path, creating parent directories.
	Write(path string, content []byte) error
	// Delete removes the file at path.
	Delete(path string) error
}
