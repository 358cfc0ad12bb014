package dokuwiki

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/starford/dokuwiki2wikijs/internal/apperr"
	"github.com/starford/dokuwiki2wikijs/internal/models"
)

// userFields is the field count of a users.auth.php line:
// login:passhash:real name:email:groups.
const userFields = 5

// Users is a read-only registry of DokuWiki accounts keyed by login.
type Users map[string]models.User

// Lookup returns the user registered under login.
func (u Users) Lookup(login string) (models.User, bool) {
	user, ok := u[login]
	return user, ok
}

// Sorted returns the users ordered by login.
func (u Users) Sorted() []models.User {
	out := make([]models.User, 0, len(u))
	for _, user := range u {
		out = append(out, user)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Login < out[j].Login })
	return out
}

// ParseUsers reads the plain auth backend format. Comment and blank lines
// are ignored; any other line must have exactly five fields.
func ParseUsers(r io.Reader) (Users, error) {
	users := make(Users)
	sc := bufio.NewScanner(r)
	n := 0
	for sc.Scan() {
		n++
		line := strings.TrimRight(sc.Text(), "\r")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.Split(line, ":")
		if len(parts) != userFields {
			return nil, fmt.Errorf("dokuwiki: users line %d has %d fields: %w", n, len(parts), apperr.ErrMalformedUser)
		}
		users[parts[0]] = models.User{
			Login: parts[0],
			Name:  parts[2],
			Email: parts[3],
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("dokuwiki: read users: %w", err)
	}
	return users, nil
}

// ReadUsers loads conf/users.auth.php from the installation at root. A
// missing file yields an empty registry since copies of data/ alone are
// accepted too.
func ReadUsers(root string) (Users, error) {
	f, err := os.Open(filepath.Join(root, filepath.FromSlash(UsersFile)))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Users{}, nil
		}
		return nil, fmt.Errorf("dokuwiki: open users: %w", err)
	}
	defer f.Close()
	return ParseUsers(f)
}
