// Package apperr holds the sentinel errors shared across packages.
package apperr

import "errors"

var (
	ErrNotFound      = errors.New("not found")
	ErrNotDokuWiki   = errors.New("not a dokuwiki installation")
	ErrSyntax        = errors.New("markup syntax error")
	ErrMalformedUser = errors.New("malformed user entry")
	ErrSkipped       = errors.New("skipped")
)
