// Package reader holds the linear reading model over a loaded book:
// chapter and page position, reading statistics and bookmarks.
package reader

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/yuanying/epubreader/internal/bookmarks"
	"github.com/yuanying/epubreader/internal/epub"
)

var (
	ErrEmptyBook         = errors.New("book has no readable chapters")
	ErrChapterOutOfRange = errors.New("chapter index out of range")
	ErrPageOutOfRange    = errors.New("page out of range")
	ErrInvalidLayout     = errors.New("invalid layout parameter")
)

// BookmarkIndex is the bookmark set a session reads and toggles.
type BookmarkIndex interface {
	Toggle(bookTitle string, chapter int, chapterTitle string) bool
	Contains(bookTitle string, chapter int) bool
}

// Options configures a reading session. Zero values fall back to defaults.
type Options struct {
	WordsPerPage int
	ReadingWPM   int
	FontSize     float64
	LineHeight   float64
	Bookmarks    BookmarkIndex
	Logger       *slog.Logger
}

// State is the derived pagination position.
type State struct {
	Chapter    int // 0-based
	Page       int // 1-based
	TotalPages int
}

// Stats are the reading statistics for the current chapter.
type Stats struct {
	ChapterWords     int
	TotalWords       int
	WordsBefore      int
	ProgressPercent  int
	ReadingMinutes   int
	ChapterCount     int
	BookmarkedHere   bool
	CurrentChapterNo int // 1-based
}

// Session is one reader's view of a book. It is not safe for concurrent use.
type Session struct {
	book       *epub.Book
	wordCounts []int
	bookmarks  BookmarkIndex
	logger     *slog.Logger

	wordsPerPage int
	readingWPM   int
	fontSize     float64
	lineHeight   float64

	state State
}

// NewSession opens a session positioned at the first page of the first chapter
func NewSession(book *epub.Book, opts Options) (*Session, error) {
	if book == nil || len(book.Chapters) == 0 {
		return nil, ErrEmptyBook
	}

	s := &Session{
		book:         book,
		wordCounts:   make([]int, len(book.Chapters)),
		bookmarks:    opts.Bookmarks,
		logger:       opts.Logger,
		wordsPerPage: opts.WordsPerPage,
		readingWPM:   opts.ReadingWPM,
		fontSize:     opts.FontSize,
		lineHeight:   opts.LineHeight,
	}
	for i, ch := range book.Chapters {
		s.wordCounts[i] = ch.WordCount
	}
	if s.bookmarks == nil {
		s.bookmarks = bookmarks.NewIndex(nil)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.wordsPerPage < 1 {
		s.wordsPerPage = DefaultWordsPerPage
	}
	if s.readingWPM < 1 {
		s.readingWPM = DefaultReadingWPM
	}
	if s.fontSize <= 0 {
		s.fontSize = DefaultFontSize
	}
	if s.lineHeight <= 0 {
		s.lineHeight = DefaultLineHeight
	}

	s.setChapter(0)
	return s, nil
}

// Book returns the book being read
func (s *Session) Book() *epub.Book {
	return s.book
}

// State returns the current pagination position
func (s *Session) State() State {
	return s.state
}

// Chapter returns the current chapter
func (s *Session) Chapter() epub.Chapter {
	return s.book.Chapters[s.state.Chapter]
}

// WordsPerPage returns the current pagination rate
func (s *Session) WordsPerPage() int {
	return s.wordsPerPage
}

// Layout returns the current font size and line height
func (s *Session) Layout() (fontSize, lineHeight float64) {
	return s.fontSize, s.lineHeight
}

// Stats computes the reading statistics for the current chapter
func (s *Session) Stats() Stats {
	current := s.state.Chapter
	words := s.wordCounts[current]
	return Stats{
		ChapterWords:     words,
		TotalWords:       s.book.TotalWords(),
		WordsBefore:      WordsBefore(s.wordCounts, current),
		ProgressPercent:  ProgressPercent(s.wordCounts, current),
		ReadingMinutes:   ReadingTimeMinutes(words, s.readingWPM),
		ChapterCount:     len(s.wordCounts),
		BookmarkedHere:   s.IsBookmarked(),
		CurrentChapterNo: current + 1,
	}
}

// PositionLabel describes the chapter position, e.g. "Chapter 2 of 10"
func (s *Session) PositionLabel() string {
	return fmt.Sprintf("Chapter %d of %d", s.state.Chapter+1, len(s.book.Chapters))
}

// PageLabel describes the page position, e.g. "Page 1 of 3"
func (s *Session) PageLabel() string {
	return fmt.Sprintf("Page %d of %d", s.state.Page, s.state.TotalPages)
}

// GotoChapter moves to chapter index and resets to its first page
func (s *Session) GotoChapter(index int) error {
	if index < 0 || index >= len(s.book.Chapters) {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrChapterOutOfRange, index, len(s.book.Chapters))
	}
	s.setChapter(index)
	return nil
}

// NextChapter advances one chapter; it is a no-op on the last chapter
func (s *Session) NextChapter() bool {
	if s.state.Chapter >= len(s.book.Chapters)-1 {
		return false
	}
	s.setChapter(s.state.Chapter + 1)
	return true
}

// PreviousChapter goes back one chapter; it is a no-op on the first chapter
func (s *Session) PreviousChapter() bool {
	if s.state.Chapter == 0 {
		return false
	}
	s.setChapter(s.state.Chapter - 1)
	return true
}

// HasNextChapter reports whether NextChapter would move
func (s *Session) HasNextChapter() bool {
	return s.state.Chapter < len(s.book.Chapters)-1
}

// HasPreviousChapter reports whether PreviousChapter would move
func (s *Session) HasPreviousChapter() bool {
	return s.state.Chapter > 0
}

// NextPage turns one page within the chapter; no-op on the last page
func (s *Session) NextPage() bool {
	if s.state.Page >= s.state.TotalPages {
		return false
	}
	s.state.Page++
	return true
}

// PreviousPage turns back one page within the chapter; no-op on page 1
func (s *Session) PreviousPage() bool {
	if s.state.Page <= 1 {
		return false
	}
	s.state.Page--
	return true
}

// GotoPage moves to a 1-based page of the current chapter
func (s *Session) GotoPage(page int) error {
	if page < 1 || page > s.state.TotalPages {
		return fmt.Errorf("%w: %d not in [1, %d]", ErrPageOutOfRange, page, s.state.TotalPages)
	}
	s.state.Page = page
	return nil
}

// SetWordsPerPage changes the pagination rate; the page resets to 1
func (s *Session) SetWordsPerPage(n int) error {
	if n < 1 {
		return fmt.Errorf("%w: words per page must be >= 1, got %d", ErrInvalidLayout, n)
	}
	s.wordsPerPage = n
	s.repaginate()
	return nil
}

// SetLayout changes font size and line height; the page resets to 1
func (s *Session) SetLayout(fontSize, lineHeight float64) error {
	if fontSize <= 0 || lineHeight <= 0 {
		return fmt.Errorf("%w: font size %v, line height %v", ErrInvalidLayout, fontSize, lineHeight)
	}
	s.fontSize = fontSize
	s.lineHeight = lineHeight
	s.repaginate()
	return nil
}

// ToggleBookmark bookmarks or un-bookmarks the current chapter and reports
// whether it is now bookmarked.
func (s *Session) ToggleBookmark() bool {
	ch := s.Chapter()
	added := s.bookmarks.Toggle(s.book.Metadata.Title, s.state.Chapter, ch.Title)
	s.logger.Debug("toggled bookmark",
		"book", s.book.Metadata.Title,
		"chapter", s.state.Chapter,
		"added", added)
	return added
}

// IsBookmarked reports whether the current chapter is bookmarked
func (s *Session) IsBookmarked() bool {
	return s.bookmarks.Contains(s.book.Metadata.Title, s.state.Chapter)
}

// GotoTocEntry jumps to the chapter at the TOC entry's position. TOC entries
// and chapters are matched by index only; an entry past the last chapter is
// inert and reports false.
func (s *Session) GotoTocEntry(i int) bool {
	if i < 0 || i >= len(s.book.TOC) || i >= len(s.book.Chapters) {
		return false
	}
	s.setChapter(i)
	return true
}

// GotoBookmark jumps to a bookmarked chapter. Bookmarks of other books and
// indices the book no longer has are ignored.
func (s *Session) GotoBookmark(bookTitle string, chapter int) bool {
	if bookTitle != s.book.Metadata.Title {
		return false
	}
	if chapter < 0 || chapter >= len(s.book.Chapters) {
		return false
	}
	s.setChapter(chapter)
	return true
}

func (s *Session) setChapter(index int) {
	s.state.Chapter = index
	s.repaginate()
}

func (s *Session) repaginate() {
	s.state.Page = 1
	s.state.TotalPages = PageCount(s.wordCounts[s.state.Chapter], s.wordsPerPage)
}
