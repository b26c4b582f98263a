package epub

import (
	"fmt"
	"strings"
)

// ContainerPath is the fixed location of the container pointer
const ContainerPath = "META-INF/container.xml"

// container.xml structure
type container struct {
	Rootfiles struct {
		Rootfile []struct {
			FullPath  string `xml:"full-path,attr"`
			MediaType string `xml:"media-type,attr"`
		} `xml:"rootfile"`
	} `xml:"rootfiles"`
}

// ParseContainer returns the full-path of the first rootfile reference
func ParseContainer(content []byte) (string, error) {
	var c container
	if err := unmarshalXML(content, &c); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedContainer, err)
	}

	if len(c.Rootfiles.Rootfile) == 0 {
		return "", ErrMalformedContainer
	}

	fullPath := strings.TrimSpace(c.Rootfiles.Rootfile[0].FullPath)
	if fullPath == "" {
		return "", ErrMalformedContainer
	}
	return normalizePath(fullPath), nil
}
