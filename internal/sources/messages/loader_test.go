package messages

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/MrSnakeDoc/verse/internal/domain"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "messages.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to create test YAML file: %v", err)
	}
	return path
}

func TestLoaderLoad(t *testing.T) {
	path := writeFile(t, `---
greeting: Hello! This is a Bible navigator.
not_found: Nothing found.
help: |
  Send a reference such as Mt. 5:3-12
  /books lists the books
`)

	f, err := NewLoader(path).Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if f.Greeting != "Hello! This is a Bible navigator." {
		t.Errorf("Greeting = %q", f.Greeting)
	}
	if f.NotFound != "Nothing found." {
		t.Errorf("NotFound = %q", f.NotFound)
	}
	if f.Help != "Send a reference such as Mt. 5:3-12\n/books lists the books\n" {
		t.Errorf("Help = %q", f.Help)
	}
}

func TestLoaderLoadEmptyFile(t *testing.T) {
	f, err := NewLoader(writeFile(t, "")).Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if f != (File{}) {
		t.Errorf("Load() = %+v, want zero File", f)
	}
}

func TestLoaderLoadUnknownKey(t *testing.T) {
	_, err := NewLoader(writeFile(t, "greting: typo\n")).Load()
	if err == nil {
		t.Error("Load() with unknown key should return error")
	}
}

func TestLoaderLoadInvalidYAML(t *testing.T) {
	_, err := NewLoader(writeFile(t, "greeting: [unterminated\n")).Load()
	if err == nil {
		t.Error("Load() with invalid yaml should return error")
	}
}

func TestLoaderLoadFileNotFound(t *testing.T) {
	_, err := NewLoader("/nonexistent/path/messages.yaml").Load()
	if err == nil {
		t.Error("Load() with non-existent file should return error")
	}
}

func TestToTexts(t *testing.T) {
	defaults := domain.DefaultTexts()

	texts := ToTexts(File{
		Greeting:    "Hi",
		Help:        "line one\nline two\n",
		NotFound:    "   ",
		StatsHeader: "*Chapters of %s:*",
	}, defaults)

	tests := []struct {
		name string
		got  string
		want string
	}{
		{name: "overridden", got: texts.Greeting, want: "Hi"},
		{name: "block scalar trimmed", got: texts.Help, want: "line one\nline two"},
		{name: "blank keeps default", got: texts.NotFound, want: defaults.NotFound},
		{name: "absent keeps default", got: texts.BadReference, want: defaults.BadReference},
		{name: "header override", got: texts.StatsHeader, want: "*Chapters of %s:*"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}
