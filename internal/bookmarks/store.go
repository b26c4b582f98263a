package bookmarks

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/httpfs"

	// Registers the sqlite3 driver with database/sql.
	_ "github.com/mattn/go-sqlite3"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Progress is the last reading position saved for a book.
type Progress struct {
	BookTitle string
	Chapter   int
	Page      int
	UpdatedAt time.Time
}

// Store persists bookmarks and reading progress in SQLite.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (creating if needed) the database at path and applies migrations
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// SQLite allows a single writer.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db, now: time.Now}, nil
}

func runMigrations(db *sql.DB) error {
	source, err := httpfs.New(http.FS(migrationsFS), "migrations")
	if err != nil {
		return fmt.Errorf("could not create migration source: %w", err)
	}

	driver, err := sqlite3.WithInstance(db, &sqlite3.Config{})
	if err != nil {
		return fmt.Errorf("could not create sqlite3 migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("httpfs", source, "sqlite3", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}

// Close closes the underlying database
func (s *Store) Close() error {
	return s.db.Close()
}

// LoadIndex reads every bookmark in insertion order
func (s *Store) LoadIndex(ctx context.Context) (*Index, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT book_title, chapter, chapter_title, created_at FROM bookmarks ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to query bookmarks: %w", err)
	}
	defer rows.Close()

	var items []Bookmark
	for rows.Next() {
		var b Bookmark
		if err := rows.Scan(&b.BookTitle, &b.Chapter, &b.ChapterTitle, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan bookmark: %w", err)
		}
		items = append(items, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read bookmarks: %w", err)
	}

	return NewIndex(items), nil
}

// SaveIndex replaces the stored bookmarks with the contents of idx
func (s *Store) SaveIndex(ctx context.Context, idx *Index) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, "DELETE FROM bookmarks"); err != nil {
		return fmt.Errorf("failed to clear bookmarks: %w", err)
	}

	for _, b := range idx.List() {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO bookmarks (book_title, chapter, chapter_title, created_at) VALUES (?, ?, ?, ?)",
			b.BookTitle, b.Chapter, b.ChapterTitle, b.CreatedAt.UTC())
		if err != nil {
			return fmt.Errorf("failed to insert bookmark %s/%d: %w", b.BookTitle, b.Chapter, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit bookmarks: %w", err)
	}
	return nil
}

// SaveProgress records the reading position for a book
func (s *Store) SaveProgress(ctx context.Context, bookTitle string, chapter, page int) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO reading_progress (book_title, chapter, page, updated_at) VALUES (?, ?, ?, ?)",
		bookTitle, chapter, page, s.now().UTC())
	if err != nil {
		return fmt.Errorf("failed to save progress: %w", err)
	}
	return nil
}

// Progress returns the saved position for a book; ok is false when none exists
func (s *Store) Progress(ctx context.Context, bookTitle string) (p Progress, ok bool, err error) {
	err = s.db.QueryRowContext(ctx,
		"SELECT book_title, chapter, page, updated_at FROM reading_progress WHERE book_title = ?",
		bookTitle).Scan(&p.BookTitle, &p.Chapter, &p.Page, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Progress{}, false, nil
	}
	if err != nil {
		return Progress{}, false, fmt.Errorf("failed to load progress: %w", err)
	}
	return p, true, nil
}
