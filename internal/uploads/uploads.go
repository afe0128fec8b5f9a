package uploads

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
)

var ErrNotFound = errors.New("verification document not found")

// Object is a stored verification document opened for reading.
type Object struct {
	Body    io.ReadCloser
	Size    int64
	ModTime time.Time
}

// Store is the area holding uploaded verification documents.
type Store interface {
	Save(ctx context.Context, name string, r io.Reader) error
	Open(ctx context.Context, name string) (*Object, error)
	Remove(ctx context.Context, name string) error
}

// SanitizeFilename reduces name to ASCII letters, digits, '_', '.' and '-'.
// Path separators become word breaks, runs of whitespace collapse to a single
// '_', and leading or trailing '.' and '_' are stripped.
func SanitizeFilename(name string) string {
	name = norm.NFKD.String(name)

	var ascii strings.Builder
	for _, r := range name {
		if r > unicode.MaxASCII {
			continue
		}
		if r == '/' || r == '\\' {
			r = ' '
		}
		ascii.WriteRune(r)
	}

	joined := strings.Join(strings.Fields(ascii.String()), "_")

	var out strings.Builder
	for _, r := range joined {
		if isSafeRune(r) {
			out.WriteRune(r)
		}
	}
	return strings.Trim(out.String(), "._")
}

// StoredName builds the on-disk name for an account's document.
func StoredName(email, original string) string {
	name := SanitizeFilename(email + "_" + original)
	if name == "" {
		return uuid.New().String() + path.Ext(SanitizeFilename(original))
	}
	return name
}

// validName rejects anything that could resolve outside the upload area.
// Without separators only "." and ".." are special, so "scan..v2.pdf" is fine.
func validName(name string) bool {
	switch name {
	case "", ".", "..":
		return false
	}
	return !strings.ContainsAny(name, `/\`)
}

func isSafeRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case r == '_', r == '.', r == '-':
		return true
	}
	return false
}
