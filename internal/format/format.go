// Package format renders pipeline results as chat-ready text.
package format

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/MrSnakeDoc/verse/internal/domain"
)

const (
	// MaxPassageRunes is the longest passage body sent before truncation.
	MaxPassageRunes = 4000
	// Ellipsis marks a truncated passage.
	Ellipsis = "..."

	// ParseModeMarkdown enables lightweight emphasis/bold markup.
	ParseModeMarkdown = "Markdown"
)

// Message is the final reply text.
type Message struct {
	Text      string
	ParseMode string // "" for plain text
	Empty     bool   // true when Text is the not-found notice
}

// Formatter builds replies from fetched data.
// It holds no mutable state and is safe for concurrent use.
type Formatter struct {
	texts domain.Texts
}

// New returns a Formatter using texts for fixed notices and headers.
func New(texts domain.Texts) *Formatter {
	return &Formatter{texts: texts}
}

// Passage renders verse text followed by an emphasized attribution line
// built from the user's query. An empty passage renders the not-found notice.
func (f *Formatter) Passage(p domain.Passage, query string) Message {
	if p.Empty() {
		return f.notFound()
	}

	// Cut before escaping so the limit counts verse text and no escape is split.
	body := escapeMarkdown(Truncate(strings.Join(p.Fragments, "\n"), MaxPassageRunes))

	return Message{
		Text:      body + "\n_" + escapeMarkdown(f.Attribution(query)) + "_",
		ParseMode: ParseModeMarkdown,
	}
}

// Attribution normalizes a query for display: whitespace collapsed, title-cased.
// Example: "  мф.   5:3 " -> "Мф. 5:3"
func (f *Formatter) Attribution(query string) string {
	collapsed := strings.Join(strings.Fields(query), " ")
	// A Caser keeps state between calls, so each call gets its own.
	return cases.Title(language.Russian).String(collapsed)
}

// Books renders the book listing.
func (f *Formatter) Books(books []domain.BookEntry) Message {
	if len(books) == 0 {
		return f.notFound()
	}

	lines := make([]string, 0, len(books)+1)
	lines = append(lines, f.texts.BooksHeader)
	for _, b := range books {
		if b.Title == "" {
			lines = append(lines, escapeMarkdown(b.Abbr))
			continue
		}
		lines = append(lines, escapeMarkdown(b.Abbr)+" — "+escapeMarkdown(b.Title))
	}

	return Message{Text: strings.Join(lines, "\n"), ParseMode: ParseModeMarkdown}
}

// Stats renders verse counts per chapter of one book.
func (f *Formatter) Stats(abbr string, stats []domain.ChapterStat) Message {
	if len(stats) == 0 {
		return f.notFound()
	}

	lines := make([]string, 0, len(stats)+1)
	lines = append(lines, statsHeader(f.texts.StatsHeader, escapeMarkdown(abbr)))
	for _, s := range stats {
		lines = append(lines, strconv.Itoa(s.Number)+": "+strconv.Itoa(s.Verses))
	}

	return Message{Text: strings.Join(lines, "\n"), ParseMode: ParseModeMarkdown}
}

// Notice renders a fixed plain-text notice.
func (f *Formatter) Notice(text string) Message {
	return Message{Text: text}
}

// Texts returns the catalogue the formatter was built with.
func (f *Formatter) Texts() domain.Texts {
	return f.texts
}

func (f *Formatter) notFound() Message {
	return Message{Text: f.texts.NotFound, Empty: true}
}

// statsHeader fills the header template when it carries a verb.
func statsHeader(tmpl, abbr string) string {
	if strings.Contains(tmpl, "%s") {
		return fmt.Sprintf(tmpl, abbr)
	}
	return tmpl
}

var markdownEscaper = strings.NewReplacer(
	"_", `\_`,
	"*", `\*`,
	"`", "\\`",
	"[", `\[`,
)

// escapeMarkdown backslash-escapes the characters that open legacy Markdown
// entities, so store and user text renders literally inside a reply.
func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}

// Truncate cuts s to its first limit runes and appends Ellipsis when it was longer.
// Strings at or under the limit are returned unchanged.
func Truncate(s string, limit int) string {
	if limit <= 0 {
		return s
	}
	count := 0
	for i := range s {
		if count == limit {
			return s[:i] + Ellipsis
		}
		count++
	}
	return s
}
