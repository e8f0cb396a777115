package reader

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/taylorskalyo/goreader/epub"
	"golang.org/x/net/html"
)

// EPUBFormat implements Format for EPUB files.
type EPUBFormat struct{}

func init() {
	Register(&EPUBFormat{})
}

func (f *EPUBFormat) Name() string         { return "EPUB" }
func (f *EPUBFormat) Extensions() []string { return []string{".epub"} }

// Load reads the spine in order. Each spine item with text becomes a
// section titled from the NCX navigation map when one matches.
func (f *EPUBFormat) Load(filename string) (*Document, error) {
	rc, err := epub.OpenReader(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open epub: %w", err)
	}
	defer rc.Close()

	if len(rc.Rootfiles) == 0 {
		return nil, fmt.Errorf("no rootfiles found in epub")
	}

	book := rc.Rootfiles[0]
	doc := &Document{Title: titleFromPath(filename)}
	titles := map[string]string{}
	if data, err := findAndReadNCX(filename, book); err == nil {
		var toc ncx
		if xml.Unmarshal(data, &toc) == nil {
			if t := strings.TrimSpace(toc.DocTitle.Text); t != "" {
				doc.Title = t
			}
			titles = navTitles(toc.NavMap.NavPoints)
		}
	}

	var text strings.Builder
	var words int
	for i, ref := range book.Spine.Itemrefs {
		if ref.Item == nil {
			continue
		}
		r, err := ref.Item.Open()
		if err != nil {
			continue
		}
		data, err := io.ReadAll(r)
		r.Close()
		if err != nil {
			continue
		}

		body := extractParagraphs(string(data))
		n := len(strings.Fields(body))
		if n == 0 {
			continue
		}

		title := fmt.Sprintf("Section %d", i+1)
		if t, ok := titles[ref.Item.HREF]; ok {
			title = t
		} else if t, ok := titles[path.Base(ref.Item.HREF)]; ok {
			title = t
		}
		doc.Sections = append(doc.Sections, Section{Title: title, WordStart: words})

		text.WriteString(body)
		text.WriteString("\n\n")
		words += n
	}

	doc.Text = strings.TrimRight(text.String(), "\n")
	doc.finalize(words)
	return doc, nil
}

// blockElements end a paragraph in extracted text.
var blockElements = map[string]bool{
	"p": true, "div": true, "br": true, "li": true, "tr": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"blockquote": true, "pre": true, "section": true, "title": true,
}

// extractParagraphs flattens HTML into paragraphs separated by blank lines.
func extractParagraphs(s string) string {
	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		return ""
	}

	var paras []string
	var cur strings.Builder
	flush := func() {
		if p := strings.Join(strings.Fields(cur.String()), " "); p != "" {
			paras = append(paras, p)
		}
		cur.Reset()
	}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}
		if n.Type == html.TextNode {
			cur.WriteString(n.Data)
			cur.WriteString(" ")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if n.Type == html.ElementNode && blockElements[n.Data] {
			flush()
		}
	}
	walk(doc)
	flush()
	return strings.Join(paras, "\n\n")
}

// NCX XML structures for parsing toc.ncx
type ncx struct {
	DocTitle navLabel `xml:"docTitle"`
	NavMap   navMap   `xml:"navMap"`
}

type navMap struct {
	NavPoints []navPoint `xml:"navPoint"`
}

type navPoint struct {
	Label    navLabel   `xml:"navLabel"`
	Content  navContent `xml:"content"`
	Children []navPoint `xml:"navPoint"`
}

type navLabel struct {
	Text string `xml:"text"`
}

type navContent struct {
	Src string `xml:"src,attr"`
}

// navTitles maps every href in the navigation map (with and without
// fragment, full and base name) to its first label.
func navTitles(points []navPoint) map[string]string {
	result := make(map[string]string)

	add := func(href, title string) {
		if _, exists := result[href]; !exists {
			result[href] = title
		}
	}

	var extract func(points []navPoint)
	extract = func(points []navPoint) {
		for _, np := range points {
			href := np.Content.Src
			title := strings.TrimSpace(np.Label.Text)

			add(href, title)
			base := href
			if idx := strings.Index(base, "#"); idx != -1 {
				base = base[:idx]
				add(base, title)
			}
			add(path.Base(base), title)

			extract(np.Children)
		}
	}
	extract(points)

	return result
}

func findAndReadNCX(filename string, book *epub.Rootfile) ([]byte, error) {
	zr, err := zip.OpenReader(filename)
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	var ncxPath string
	for _, item := range book.Manifest.Items {
		if item.MediaType == "application/x-dtbncx+xml" {
			ncxPath = item.HREF
			break
		}
	}
	if ncxPath == "" {
		for _, f := range zr.File {
			if strings.HasSuffix(strings.ToLower(f.Name), ".ncx") {
				ncxPath = f.Name
				break
			}
		}
	}

	if ncxPath == "" {
		return nil, fmt.Errorf("no NCX file found in EPUB")
	}

	for _, f := range zr.File {
		if f.Name == ncxPath || strings.HasSuffix(f.Name, "/"+ncxPath) || path.Base(f.Name) == path.Base(ncxPath) {
			rc, err := f.Open()
			if err != nil {
				return nil, err
			}
			defer rc.Close()
			return io.ReadAll(rc)
		}
	}

	return nil, fmt.Errorf("NCX file %s not found in archive", ncxPath)
}
