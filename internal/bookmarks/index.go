// Package bookmarks keeps per-chapter bookmarks and persists them with the
// reader's last position.
package bookmarks

import "time"

// Bookmark marks a chapter of a book. At most one exists per
// (BookTitle, Chapter) pair.
type Bookmark struct {
	BookTitle    string    `json:"book"`
	Chapter      int       `json:"chapter"`
	ChapterTitle string    `json:"chapterTitle"`
	CreatedAt    time.Time `json:"timestamp"`
}

// Index is an insertion-ordered set of bookmarks keyed by book title and
// chapter index. It is not safe for concurrent use.
type Index struct {
	items []Bookmark
	now   func() time.Time
}

// NewIndex returns an index holding items in the given order. Later
// duplicates of a (book, chapter) pair are dropped.
func NewIndex(items []Bookmark) *Index {
	idx := &Index{now: time.Now}
	for _, b := range items {
		if idx.find(b.BookTitle, b.Chapter) < 0 {
			idx.items = append(idx.items, b)
		}
	}
	return idx
}

// Toggle removes the bookmark for (bookTitle, chapter) if present, otherwise
// appends a new one stamped with the current time. It reports whether a
// bookmark was added.
func (idx *Index) Toggle(bookTitle string, chapter int, chapterTitle string) bool {
	if i := idx.find(bookTitle, chapter); i >= 0 {
		idx.items = append(idx.items[:i], idx.items[i+1:]...)
		return false
	}

	idx.items = append(idx.items, Bookmark{
		BookTitle:    bookTitle,
		Chapter:      chapter,
		ChapterTitle: chapterTitle,
		CreatedAt:    idx.now(),
	})
	return true
}

// Contains reports whether (bookTitle, chapter) is bookmarked
func (idx *Index) Contains(bookTitle string, chapter int) bool {
	return idx.find(bookTitle, chapter) >= 0
}

// List returns a copy of every bookmark in insertion order
func (idx *Index) List() []Bookmark {
	out := make([]Bookmark, len(idx.items))
	copy(out, idx.items)
	return out
}

// ForBook returns the bookmarks of one book in insertion order
func (idx *Index) ForBook(bookTitle string) []Bookmark {
	var out []Bookmark
	for _, b := range idx.items {
		if b.BookTitle == bookTitle {
			out = append(out, b)
		}
	}
	return out
}

// Len returns the number of bookmarks
func (idx *Index) Len() int {
	return len(idx.items)
}

func (idx *Index) find(bookTitle string, chapter int) int {
	for i, b := range idx.items {
		if b.BookTitle == bookTitle && b.Chapter == chapter {
			return i
		}
	}
	return -1
}
