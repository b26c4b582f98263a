package epub

import (
	"bytes"
	"encoding/xml"
	"io"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// unmarshalXML decodes content into v, honoring the encoding named in the
// XML declaration (ISO-8859-1, windows-1252 and so on). UTF-16 documents are
// recognized by their byte order mark and transcoded before decoding.
func unmarshalXML(content []byte, v any) error {
	var r io.Reader = bytes.NewReader(content)
	transcoded := hasUTF16BOM(content)
	if transcoded {
		r = transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
	}

	d := xml.NewDecoder(r)
	d.CharsetReader = func(label string, input io.Reader) (io.Reader, error) {
		// already UTF-8; the declaration still names the source encoding
		if transcoded {
			return input, nil
		}
		return charset.NewReaderLabel(label, input)
	}
	return d.Decode(v)
}

func hasUTF16BOM(content []byte) bool {
	return bytes.HasPrefix(content, []byte{0xFF, 0xFE}) || bytes.HasPrefix(content, []byte{0xFE, 0xFF})
}
