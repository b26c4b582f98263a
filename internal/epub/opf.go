package epub

import (
	"encoding/xml"
	"errors"
	"fmt"
	"strings"
)

// opfPackage represents the OPF XML structure. Element names are matched by
// local name so both dc:-prefixed and unprefixed metadata are accepted.
type opfPackage struct {
	XMLName  xml.Name    `xml:"package"`
	Metadata opfMetadata `xml:"metadata"`
	Manifest opfManifest `xml:"manifest"`
	Spine    opfSpine    `xml:"spine"`
}

// opfMetadata represents the metadata section
type opfMetadata struct {
	Title     []string `xml:"title"`
	Creator   []string `xml:"creator"`
	Language  []string `xml:"language"`
	Publisher []string `xml:"publisher"`
}

// opfManifest represents the manifest section
type opfManifest struct {
	Items []opfManifestItem `xml:"item"`
}

// opfManifestItem represents an item in the manifest
type opfManifestItem struct {
	ID        string `xml:"id,attr"`
	Href      string `xml:"href,attr"`
	MediaType string `xml:"media-type,attr"`
}

// opfSpine represents the spine section
type opfSpine struct {
	ItemRefs []opfItemRef `xml:"itemref"`
}

// opfItemRef represents an itemref in the spine
type opfItemRef struct {
	IDRef string `xml:"idref,attr"`
}

// ResolvePackage follows the container pointer to the package document and
// parses it.
func ResolvePackage(a *Archive) (*Package, error) {
	containerXML, err := a.ReadFile(ContainerPath)
	if err != nil {
		if errors.Is(err, ErrFileNotFound) {
			return nil, ErrMissingContainer
		}
		return nil, fmt.Errorf("%w: %v", ErrMissingContainer, err)
	}

	opfPath, err := ParseContainer(containerXML)
	if err != nil {
		return nil, err
	}

	content, err := a.ReadFile(opfPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMissingPackageDocument, opfPath)
	}

	return ParseOPF(content, opfPath)
}

// ParseOPF parses package document content located at opfPath in the archive
func ParseOPF(content []byte, opfPath string) (*Package, error) {
	var pkg opfPackage
	if err := unmarshalXML(content, &pkg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPackageDocument, err)
	}

	p := &Package{
		Path:     opfPath,
		BasePath: basePath(opfPath),
		Metadata: parseMetadata(&pkg.Metadata),
		Manifest: make(map[string]ManifestItem, len(pkg.Manifest.Items)),
		Spine:    make([]string, 0, len(pkg.Spine.ItemRefs)),
	}

	for _, item := range pkg.Manifest.Items {
		if _, seen := p.Manifest[item.ID]; !seen {
			p.ManifestOrder = append(p.ManifestOrder, item.ID)
		}
		p.Manifest[item.ID] = ManifestItem{
			ID:        item.ID,
			Href:      item.Href,
			MediaType: strings.TrimSpace(item.MediaType),
		}
	}

	// Duplicates are kept; the spine is replayed as written.
	for _, ref := range pkg.Spine.ItemRefs {
		p.Spine = append(p.Spine, ref.IDRef)
	}

	return p, nil
}

// parseMetadata takes the first value of each field, falling back to defaults
func parseMetadata(meta *opfMetadata) Metadata {
	return Metadata{
		Title:     firstOr(meta.Title, DefaultTitle),
		Creator:   firstOr(meta.Creator, DefaultCreator),
		Language:  firstOr(meta.Language, DefaultLanguage),
		Publisher: firstOr(meta.Publisher, ""),
	}
}

func firstOr(values []string, fallback string) string {
	if len(values) == 0 {
		return fallback
	}
	if v := strings.TrimSpace(values[0]); v != "" {
		return v
	}
	return fallback
}

// basePath returns the directory portion of p including the trailing slash
func basePath(p string) string {
	i := strings.LastIndex(p, "/")
	if i < 0 {
		return ""
	}
	return p[:i+1]
}

// FindByMediaType returns the first manifest item in document order whose
// media type matches.
func (p *Package) FindByMediaType(mediaType string) (ManifestItem, bool) {
	for _, id := range p.ManifestOrder {
		if item := p.Manifest[id]; item.MediaType == mediaType {
			return item, true
		}
	}
	return ManifestItem{}, false
}

// ResolveHref joins a manifest href onto the package base path
func (p *Package) ResolveHref(href string) string {
	return p.BasePath + href
}
