package epub

import (
	"archive/zip"
	"bytes"
	"sort"
	"testing"
)

const testContainerXML = `<?xml version="1.0" encoding="UTF-8"?>
<container version="1.0" xmlns="urn:oasis:names:tc:opendocument:xmlns:container">
  <rootfiles>
    <rootfile full-path="OEBPS/content.opf" media-type="application/oebps-package+xml"/>
  </rootfiles>
</container>`

const testOPF = `<?xml version="1.0" encoding="UTF-8"?>
<package xmlns="http://www.idpf.org/2007/opf" version="2.0" unique-identifier="uid">
  <metadata xmlns:dc="http://purl.org/dc/elements/1.1/">
    <dc:title>Test Book</dc:title>
    <dc:creator>Jane Writer</dc:creator>
    <dc:language>ja</dc:language>
    <dc:publisher>Example Press</dc:publisher>
  </metadata>
  <manifest>
    <item id="ncx" href="toc.ncx" media-type="application/x-dtbncx+xml"/>
    <item id="c1" href="text/ch1.xhtml" media-type="application/xhtml+xml"/>
    <item id="c2" href="text/ch2.xhtml" media-type="application/xhtml+xml"/>
    <item id="c3" href="text/ch3.xhtml" media-type="application/xhtml+xml"/>
    <item id="css" href="style.css" media-type="text/css"/>
  </manifest>
  <spine toc="ncx">
    <itemref idref="c1"/>
    <itemref idref="c2"/>
    <itemref idref="missing"/>
    <itemref idref="c3"/>
  </spine>
</package>`

const testNCX = `<?xml version="1.0" encoding="UTF-8"?>
<ncx xmlns="http://www.daisy.org/z3986/2005/ncx/" version="2005-1">
  <head><meta name="dtb:uid" content="uid"/></head>
  <docTitle><text>Test Book</text></docTitle>
  <navMap>
    <navPoint id="np1" playOrder="1">
      <navLabel><text>Opening</text></navLabel>
      <content src="text/ch1.xhtml"/>
    </navPoint>
    <navPoint id="np2" playOrder="2">
      <navLabel><text>Middle</text></navLabel>
      <content src="text/ch2.xhtml#part"/>
    </navPoint>
  </navMap>
</ncx>`

// xhtml wraps a body fragment in a minimal XHTML document
func xhtml(title, body string) string {
	head := ""
	if title != "" {
		head = "<title>" + title + "</title>"
	}
	return `<?xml version="1.0" encoding="UTF-8"?>
<html xmlns="http://www.w3.org/1999/xhtml">
<head>` + head + `</head>
<body>` + body + `</body>
</html>`
}

// testBookFiles returns the entries of a small but complete EPUB
func testBookFiles() map[string]string {
	return map[string]string{
		"META-INF/container.xml": testContainerXML,
		"OEBPS/content.opf":      testOPF,
		"OEBPS/toc.ncx":          testNCX,
		"OEBPS/text/ch1.xhtml":   xhtml("One", "<h1>First</h1><p>alpha beta gamma</p>"),
		"OEBPS/text/ch2.xhtml":   xhtml("", "<h1>Second</h1><p>delta epsilon</p><script>var x = 1;</script>"),
		"OEBPS/text/ch3.xhtml":   xhtml("", "<p>zeta</p>"),
		"OEBPS/style.css":        "body { margin: 0; }",
	}
}

// buildEPUB writes files into an in-memory zip. The mimetype entry, when
// requested, is written first and stored.
func buildEPUB(t *testing.T, files map[string]string, withMimetype bool) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)

	if withMimetype {
		mw, err := w.CreateHeader(&zip.FileHeader{
			Name:   "mimetype",
			Method: zip.Store,
		})
		if err != nil {
			t.Fatalf("failed to create mimetype: %v", err)
		}
		mw.Write([]byte("application/epub+zip"))
	}

	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		fw, err := w.Create(name)
		if err != nil {
			t.Fatalf("failed to create %s: %v", name, err)
		}
		fw.Write([]byte(files[name]))
	}

	if err := w.Close(); err != nil {
		t.Fatalf("failed to close zip: %v", err)
	}
	return buf.Bytes()
}

func openTestArchive(t *testing.T, files map[string]string) *Archive {
	t.Helper()
	a, err := OpenArchive(buildEPUB(t, files, true))
	if err != nil {
		t.Fatalf("OpenArchive() error = %v", err)
	}
	return a
}
