package reader

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoad(t *testing.T) {
	tmpDir := t.TempDir()

	t.Run("plain text", func(t *testing.T) {
		content := "Hello world this is a test."
		path := filepath.Join(tmpDir, "test.txt")
		os.WriteFile(path, []byte(content), 0644)

		doc, err := Load(path)
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if doc.Text != content {
			t.Errorf("got %q, want %q", doc.Text, content)
		}
		if doc.Title != "test" || doc.Source != path {
			t.Errorf("title %q source %q", doc.Title, doc.Source)
		}
		if doc.Words != 6 || len(doc.Sections) != 1 {
			t.Errorf("words %d sections %d, want 6 and 1", doc.Words, len(doc.Sections))
		}
	})

	t.Run("markdown", func(t *testing.T) {
		path := filepath.Join(tmpDir, "notes.MD")
		os.WriteFile(path, []byte("# Notes\nSome markdown content\n"), 0644)

		doc, err := Load(path)
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if !doc.Markdown {
			t.Error("expected Markdown document")
		}
		if doc.Title != "Notes" {
			t.Errorf("Title = %q, want Notes", doc.Title)
		}
	})

	t.Run("nonexistent file", func(t *testing.T) {
		_, err := Load(filepath.Join(tmpDir, "nonexistent.txt"))
		if err == nil {
			t.Error("expected error")
		}
	})

	t.Run("broken epub", func(t *testing.T) {
		path := filepath.Join(tmpDir, "broken.epub")
		os.WriteFile(path, []byte("not a zip"), 0644)

		_, err := Load(path)
		if err == nil || !strings.Contains(err.Error(), "as EPUB") {
			t.Errorf("expected wrapped EPUB error, got %v", err)
		}
	})
}

func TestSupportedFormats(t *testing.T) {
	got := strings.Join(SupportedFormats(), "; ")
	for _, want := range []string{"EPUB (.epub)", "Markdown (.md, .markdown)"} {
		if !strings.Contains(got, want) {
			t.Errorf("SupportedFormats() = %q, missing %q", got, want)
		}
	}
}

func TestEPUBFormat(t *testing.T) {
	f := &EPUBFormat{}
	if f.Name() != "EPUB" {
		t.Errorf("Name() = %q, want EPUB", f.Name())
	}
	if exts := f.Extensions(); len(exts) != 1 || exts[0] != ".epub" {
		t.Errorf("Extensions() = %v, want [.epub]", exts)
	}
}
