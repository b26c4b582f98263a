package epub

// Media types that drive chapter and navigation discovery.
const (
	MediaTypeXHTML = "application/xhtml+xml"
	MediaTypeNCX   = "application/x-dtbncx+xml"
)

// Defaults applied when the package metadata omits a field.
const (
	DefaultTitle    = "Unknown Title"
	DefaultCreator  = "Unknown Author"
	DefaultLanguage = "en"
)

// Book is a fully resolved e-book package.
type Book struct {
	Metadata Metadata
	Chapters []Chapter
	TOC      []TocEntry
	Warnings []Warning
}

// TotalWords returns the sum of all chapter word counts.
func (b *Book) TotalWords() int {
	total := 0
	for _, ch := range b.Chapters {
		total += ch.WordCount
	}
	return total
}

// Metadata represents the metadata section of the package document
type Metadata struct {
	Title     string
	Creator   string
	Language  string
	Publisher string
}

// ManifestItem represents an item in the manifest
type ManifestItem struct {
	ID        string
	Href      string
	MediaType string
}

// Package holds everything resolved from the package document.
// BasePath is the directory of the package document including the trailing
// slash, or empty when the document sits at the archive root.
type Package struct {
	Path          string
	BasePath      string
	Metadata      Metadata
	Manifest      map[string]ManifestItem // id -> item
	ManifestOrder []string                // manifest ids in document order
	Spine         []string                // manifest ids in reading order
}

// Chapter is one readable content document in spine order.
type Chapter struct {
	ID        string
	Title     string
	Content   string // sanitized body markup
	Href      string // manifest href, relative to the package base path
	WordCount int
}

// TocEntry is one table-of-contents line.
type TocEntry struct {
	Title string
	Href  string
	Index int
}
