package index

import "github.com/starford/dokuwiki2wikijs/internal/models"

// Manifest records what a conversion produced.
// Consumers should depend on this interface rather than the concrete *DB type
// to facilitate testing with mocks.
type Manifest interface {
	BeginRun(source string) (string, error)
	UpsertEntry(e EntryRow, links []string) error
	DeleteEntry(source string) error
	GetChecksum(source string) (string, error)
	ReplaceUsers(users []models.User) error
	Users() ([]models.User, error)
	DanglingLinks() ([]models.Link, error)
	Summary() (Summary, error)
	Close() error
}

// Verify *DB satisfies Manifest at compile time.
var _ Manifest = (*DB)(nil)
