package epub

import (
	"encoding/xml"
	"fmt"
	"log/slog"
	"strings"
)

// ncxDocument is the subset of an NCX document the table of contents needs
type ncxDocument struct {
	XMLName xml.Name `xml:"ncx"`
	NavMap  struct {
		NavPoints []ncxNavPoint `xml:"navPoint"`
	} `xml:"navMap"`
}

type ncxNavPoint struct {
	Label struct {
		Text []string `xml:"text"`
	} `xml:"navLabel"`
	Content struct {
		Src string `xml:"src,attr"`
	} `xml:"content"`
	Children []ncxNavPoint `xml:"navPoint"`
}

// ParseNCX returns one TocEntry per navPoint in document order. Nested
// navPoints are flattened; a parent precedes its children.
func ParseNCX(content []byte) ([]TocEntry, error) {
	var doc ncxDocument
	if err := unmarshalXML(content, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse NCX: %w", err)
	}

	entries := make([]TocEntry, 0, len(doc.NavMap.NavPoints))
	var walk func(points []ncxNavPoint)
	walk = func(points []ncxNavPoint) {
		for _, np := range points {
			entries = append(entries, TocEntry{
				Title: navLabel(np, len(entries)),
				Href:  strings.TrimSpace(np.Content.Src),
				Index: len(entries),
			})
			walk(np.Children)
		}
	}
	walk(doc.NavMap.NavPoints)

	return entries, nil
}

// navLabel returns the first label text or a positional fallback
func navLabel(np ncxNavPoint, index int) string {
	if len(np.Label.Text) > 0 {
		if label := strings.TrimSpace(np.Label.Text[0]); label != "" {
			return label
		}
	}
	return fmt.Sprintf("Chapter %d", index+1)
}

// SynthesizeTOC derives a table of contents 1:1 from the chapters
func SynthesizeTOC(chapters []Chapter) []TocEntry {
	entries := make([]TocEntry, len(chapters))
	for i, ch := range chapters {
		entries[i] = TocEntry{Title: ch.Title, Href: ch.Href, Index: i}
	}
	return entries
}

// LoadTOC parses the NCX declared in the manifest. When there is none, or it
// cannot be read or parsed, the TOC is synthesized from the chapters; a
// failure is returned as a warning, never as an error.
func LoadTOC(a *Archive, pkg *Package, chapters []Chapter, logger *slog.Logger) ([]TocEntry, *Warning) {
	if logger == nil {
		logger = slog.Default()
	}

	item, ok := pkg.FindByMediaType(MediaTypeNCX)
	if !ok {
		return SynthesizeTOC(chapters), nil
	}

	ncxPath := pkg.ResolveHref(item.Href)
	entries, err := loadNCX(a, ncxPath)
	if err != nil {
		logger.Warn("could not load NCX, using spine order", "path", ncxPath, "error", err)
		return SynthesizeTOC(chapters), &Warning{Kind: NavigationLoadWarning, Path: ncxPath, Err: err}
	}
	return entries, nil
}

func loadNCX(a *Archive, ncxPath string) ([]TocEntry, error) {
	content, err := a.ReadFile(ncxPath)
	if err != nil {
		return nil, err
	}
	return ParseNCX(content)
}
