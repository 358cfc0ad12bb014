// Package dokuwiki knows the on-disk layout of a DokuWiki installation and
// how its pages and media map onto a Wiki.js tree.
package dokuwiki

import (
	"os"
	"path/filepath"
)

// Directories and files relative to the installation root.
const (
	PagesDir  = "data/pages"
	MediaDir  = "data/media"
	UsersFile = "conf/users.auth.php"
)

// PageExt is the extension of DokuWiki page sources.
const PageExt = ".txt"

// IsInstallation reports whether root looks like a DokuWiki installation
// (or a copy of one), i.e. it has a data/pages directory.
func IsInstallation(root string) bool {
	info, err := os.Stat(filepath.Join(root, filepath.FromSlash(PagesDir)))
	return err == nil && info.IsDir()
}
