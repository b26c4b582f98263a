package epub

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// DefaultChapterTitle is used when a content document has no title or heading
const DefaultChapterTitle = "Chapter"

// titleSources lists the elements consulted for a chapter title, highest
// priority first.
var titleSources = []string{"title", "h1", "h2"}

// tagPattern matches markup tags including self-closing tags.
var tagPattern = regexp.MustCompile(`<[^>]*>`)

// bodyTagPattern matches an opening body tag. The HTML parser synthesizes a
// body for fragments, so the raw markup decides whether one exists.
var bodyTagPattern = regexp.MustCompile(`(?i)<body[\s>/]`)

// Document is a parsed content document
type Document struct {
	doc *goquery.Document
}

// ParseDocument parses XHTML content leniently as HTML
func ParseDocument(content string) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("failed to parse XHTML: %w", err)
	}
	return &Document{doc: doc}, nil
}

// FirstText returns the trimmed text of the first element with the given tag.
// Elements whose text is blank count as absent.
func (d *Document) FirstText(tag string) (string, bool) {
	sel := d.doc.Find(tag).First()
	if sel.Length() == 0 {
		return "", false
	}
	text := strings.TrimSpace(sel.Text())
	return text, text != ""
}

// Body returns the body element, if the document has one
func (d *Document) Body() (*goquery.Selection, bool) {
	body := d.doc.Find("body").First()
	return body, body.Length() > 0
}

// Title returns the first present title source, or DefaultChapterTitle
func (d *Document) Title() string {
	for _, tag := range titleSources {
		if text, ok := d.FirstText(tag); ok {
			return text
		}
	}
	return DefaultChapterTitle
}

// LoadChapters resolves each spine id through the manifest and loads the
// readable documents in spine order. Entries that are missing, not XHTML or
// unreadable are skipped; read failures are reported as warnings.
func LoadChapters(a *Archive, pkg *Package, logger *slog.Logger) ([]Chapter, []Warning) {
	if logger == nil {
		logger = slog.Default()
	}

	var (
		chapters []Chapter
		warnings []Warning
	)
	for _, id := range pkg.Spine {
		item, ok := pkg.Manifest[id]
		if !ok {
			logger.Debug("spine item not in manifest, skipping", "idref", id)
			continue
		}
		if item.MediaType != MediaTypeXHTML {
			continue
		}

		contentPath := pkg.ResolveHref(item.Href)
		raw, err := a.ReadText(contentPath)
		if err != nil {
			w := Warning{Kind: ChapterLoadWarning, Path: contentPath, Err: err}
			logger.Warn("could not load chapter, skipping", "path", contentPath, "error", err)
			warnings = append(warnings, w)
			continue
		}

		ch, err := loadChapter(id, item.Href, raw)
		if err != nil {
			w := Warning{Kind: ChapterLoadWarning, Path: contentPath, Err: err}
			logger.Warn("could not parse chapter, skipping", "path", contentPath, "error", err)
			warnings = append(warnings, w)
			continue
		}
		chapters = append(chapters, ch)
	}

	return chapters, warnings
}

func loadChapter(id, href, raw string) (Chapter, error) {
	doc, err := ParseDocument(raw)
	if err != nil {
		return Chapter{}, err
	}

	content, err := sanitizeBody(doc, raw)
	if err != nil {
		return Chapter{}, err
	}

	return Chapter{
		ID:        id,
		Title:     doc.Title(),
		Content:   content,
		Href:      href,
		WordCount: CountWords(raw),
	}, nil
}

// sanitizeBody strips script elements from the body and returns its inner
// markup. Without a body tag in raw the content is used verbatim.
func sanitizeBody(doc *Document, raw string) (string, error) {
	body, ok := doc.Body()
	if !ok || !bodyTagPattern.MatchString(raw) {
		return raw, nil
	}
	body.Find("script").Remove()

	html, err := body.Html()
	if err != nil {
		return "", fmt.Errorf("failed to render body: %w", err)
	}
	return html, nil
}

// CountWords strips markup tags and counts whitespace-separated tokens
func CountWords(markup string) int {
	return len(strings.Fields(tagPattern.ReplaceAllString(markup, "")))
}

// PlainText renders chapter markup as text with collapsed blank lines
func PlainText(markup string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return tagPattern.ReplaceAllString(markup, "")
	}

	var lines []string
	for _, line := range strings.Split(doc.Text(), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}
