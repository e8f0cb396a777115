package reader

import (
	"bufio"
	"os"
	"regexp"
	"strings"
)

// MarkdownFormat implements Format for Markdown files.
type MarkdownFormat struct{}

func init() {
	Register(&MarkdownFormat{})
}

func (f *MarkdownFormat) Name() string         { return "Markdown" }
func (f *MarkdownFormat) Extensions() []string { return []string{".md", ".markdown"} }

// headerRegex matches markdown headers (# to ######)
var headerRegex = regexp.MustCompile(`^(#{1,6})\s+(.+)$`)

// Load reads a Markdown file; ATX headers become sections.
func (f *MarkdownFormat) Load(filename string) (*Document, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	doc := &Document{Title: titleFromPath(filename), Markdown: true}

	var text strings.Builder
	var words int
	inFence := false

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		text.WriteString(line)
		text.WriteString("\n")

		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			inFence = !inFence
		}

		if match := headerRegex.FindStringSubmatch(line); match != nil && !inFence {
			doc.Sections = append(doc.Sections, Section{
				Title:     strings.TrimSpace(match[2]),
				Level:     len(match[1]) - 1, // h1 = level 0
				WordStart: words,
			})
		}

		words += len(strings.Fields(line))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if len(doc.Sections) > 0 && doc.Sections[0].Level == 0 {
		doc.Title = doc.Sections[0].Title
	}
	if len(doc.Sections) == 0 && words > 0 {
		doc.Sections = append(doc.Sections, Section{Title: "Document"})
	}

	doc.Text = text.String()
	doc.finalize(words)
	return doc, nil
}
