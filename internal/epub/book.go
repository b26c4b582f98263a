package epub

import (
	"fmt"
	"log/slog"
	"os"
)

// Options configures book loading.
type Options struct {
	Logger *slog.Logger
}

// OpenBook resolves an EPUB blob into a Book. Any of the package errors is
// fatal and yields no Book; per-chapter and navigation problems are recovered
// and recorded in Book.Warnings.
func OpenBook(data []byte, opts Options) (*Book, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	archive, err := OpenArchive(data)
	if err != nil {
		return nil, err
	}

	pkg, err := ResolvePackage(archive)
	if err != nil {
		return nil, err
	}
	logger.Debug("resolved package document",
		"path", pkg.Path,
		"manifest", len(pkg.Manifest),
		"spine", len(pkg.Spine))

	chapters, warnings := LoadChapters(archive, pkg, logger)

	toc, navWarning := LoadTOC(archive, pkg, chapters, logger)
	if navWarning != nil {
		warnings = append(warnings, *navWarning)
	}

	logger.Debug("loaded book",
		"title", pkg.Metadata.Title,
		"chapters", len(chapters),
		"toc", len(toc),
		"warnings", len(warnings))

	return &Book{
		Metadata: pkg.Metadata,
		Chapters: chapters,
		TOC:      toc,
		Warnings: warnings,
	}, nil
}

// Open reads an EPUB file from disk and resolves it
func Open(path string, opts Options) (*Book, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open EPUB: %w", err)
	}
	return OpenBook(data, opts)
}
