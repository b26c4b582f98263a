package epub

import (
	"errors"
	"fmt"
)

// Fatal errors returned by OpenBook. No Book is produced when any of these
// is returned.
var (
	ErrInvalidArchive           = errors.New("not a zip archive")
	ErrMissingContainer         = errors.New("META-INF/container.xml not found")
	ErrMalformedContainer       = errors.New("container.xml has no rootfile full-path")
	ErrMissingPackageDocument   = errors.New("package document not found")
	ErrMalformedPackageDocument = errors.New("package document is not valid XML")
)

// ErrFileNotFound is returned by Archive.ReadFile for unknown entries.
var ErrFileNotFound = errors.New("file not found in archive")

// WarningKind classifies a recoverable load problem.
type WarningKind string

const (
	ChapterLoadWarning    WarningKind = "chapter"
	NavigationLoadWarning WarningKind = "navigation"
)

// Warning records a problem that was recovered from while loading a book.
type Warning struct {
	Kind WarningKind
	Path string
	Err  error
}

func (w Warning) Error() string {
	return fmt.Sprintf("%s %s: %v", w.Kind, w.Path, w.Err)
}

func (w Warning) Unwrap() error {
	return w.Err
}
