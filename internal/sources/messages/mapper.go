package messages

import (
	"strings"

	"github.com/MrSnakeDoc/verse/internal/domain"
)

// ToTexts converts a parsed file into reply texts, filling every blank key
// from fallback.
func ToTexts(f File, fallback domain.Texts) domain.Texts {
	t := domain.Texts{
		Greeting:     clean(f.Greeting),
		Help:         clean(f.Help),
		NotFound:     clean(f.NotFound),
		BadReference: clean(f.BadReference),
		StatsUsage:   clean(f.StatsUsage),
		Unavailable:  clean(f.Unavailable),
		BooksHeader:  clean(f.BooksHeader),
		StatsHeader:  clean(f.StatsHeader),
	}
	return t.Merge(fallback)
}

// clean drops the trailing newline left by YAML block scalars.
// Whitespace-only values count as blank.
func clean(s string) string {
	s = strings.TrimRight(s, "\n")
	if strings.TrimSpace(s) == "" {
		return ""
	}
	return s
}
