package reader

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Format defines a file format reader for loading documents.
type Format interface {
	Name() string
	Extensions() []string
	Load(filename string) (*Document, error)
}

var registry []Format

// Register adds a format reader to the registry.
func Register(f Format) {
	registry = append(registry, f)
}

// Load reads a file using a registered format or plain text fallback.
func Load(filename string) (*Document, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, f := range registry {
		for _, e := range f.Extensions() {
			if ext == e {
				doc, err := f.Load(filename)
				if err != nil {
					return nil, fmt.Errorf("load %s as %s: %w", filename, f.Name(), err)
				}
				doc.Source = filename
				return doc, nil
			}
		}
	}
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	doc := FromText(titleFromPath(filename), string(data))
	doc.Source = filename
	return doc, nil
}

// SupportedFormats returns registered format names with their extensions.
func SupportedFormats() []string {
	var out []string
	for _, f := range registry {
		out = append(out, f.Name()+" ("+strings.Join(f.Extensions(), ", ")+")")
	}
	return out
}
