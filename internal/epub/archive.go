package epub

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// Archive provides named-entry access to an in-memory EPUB container
type Archive struct {
	files map[string]*zip.File
}

// OpenArchive validates that data is a zip container and indexes its entries
func OpenArchive(data []byte) (*Archive, error) {
	if mtype := mimetype.Detect(data); !isZip(mtype) {
		return nil, fmt.Errorf("%w: detected %s", ErrInvalidArchive, mtype.String())
	}

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArchive, err)
	}

	a := &Archive{files: make(map[string]*zip.File, len(zr.File))}
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		a.files[normalizePath(f.Name)] = f
	}
	return a, nil
}

// isZip walks the detected type up to its root; epub, docx and friends all
// descend from application/zip.
func isZip(mtype *mimetype.MIME) bool {
	for m := mtype; m != nil; m = m.Parent() {
		if m.Is("application/zip") {
			return true
		}
	}
	return false
}

// Has reports whether the archive contains the named entry
func (a *Archive) Has(name string) bool {
	_, ok := a.lookup(name)
	return ok
}

// Names returns the normalized names of every file entry
func (a *Archive) Names() []string {
	names := make([]string, 0, len(a.files))
	for name := range a.files {
		names = append(names, name)
	}
	return names
}

// ReadFile decompresses the named entry
func (a *Archive) ReadFile(name string) ([]byte, error) {
	f, ok := a.lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, name)
	}

	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", name, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", name, err)
	}
	return data, nil
}

// ReadText decompresses the named entry as text, dropping a UTF-8 BOM
func (a *Archive) ReadText(name string) (string, error) {
	data, err := a.ReadFile(name)
	if err != nil {
		return "", err
	}
	return string(bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))), nil
}

func (a *Archive) lookup(name string) (*zip.File, bool) {
	name = normalizePath(name)
	if f, ok := a.files[name]; ok {
		return f, true
	}
	// hrefs are URLs; entry names are not
	if unescaped, err := url.PathUnescape(name); err == nil && unescaped != name {
		f, ok := a.files[unescaped]
		return f, ok
	}
	return nil, false
}

// normalizePath removes ./ prefixes and resolves .. segments
func normalizePath(p string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	p = strings.TrimPrefix(p, "./")
	if p == "" {
		return ""
	}
	cleaned := path.Clean(p)
	return strings.TrimPrefix(cleaned, "/")
}
