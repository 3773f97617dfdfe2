package domain

import (
	"errors"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// ErrNoMatch is returned when the input does not follow the reference grammar.
var ErrNoMatch = errors.New("text is not a scripture reference")

// Reference represents a parsed scripture address.
//
// It is only ever built by ParseReference and must be treated as a value:
// nothing in the codebase mutates a Reference after it is returned.
type Reference struct {
	// Book is the lower-cased book abbreviation.
	// Example: "мф"
	Book string

	// Chapter is the 1-based chapter number.
	Chapter int

	// VerseFrom is the 1-based first verse.
	VerseFrom int

	// VerseTo is the inclusive last verse of a range, nil for a single verse.
	// It is not checked against VerseFrom.
	VerseTo *int
}

// HasRange reports whether the reference addresses a verse range.
func (r Reference) HasRange() bool {
	return r.VerseTo != nil
}

// String renders the reference in its canonical lower-case form.
// Example: "мф. 5:3-12"
func (r Reference) String() string {
	var sb strings.Builder
	sb.WriteString(r.Book)
	sb.WriteString(". ")
	sb.WriteString(strconv.Itoa(r.Chapter))
	sb.WriteByte(':')
	sb.WriteString(strconv.Itoa(r.VerseFrom))
	if r.VerseTo != nil {
		sb.WriteByte('-')
		sb.WriteString(strconv.Itoa(*r.VerseTo))
	}
	return sb.String()
}

// referenceGrammar is the participle AST for "<book>.<chapter>:<from>[-<to>]".
// Numbers are captured as words so that digit validation stays in one place.
type referenceGrammar struct {
	Book      string  `@Word "."`
	Chapter   string  `@Word ":"`
	VerseFrom string  `@Word`
	VerseTo   *string `( "-" @Word )?`
}

// referenceLexer tokenizes references. Words are Unicode-aware so Cyrillic
// abbreviations ("Мф", "1Кор") lex as a single token.
var referenceLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Word", Pattern: `[\p{L}\p{N}_]+`},
	{Name: "Punct", Pattern: `[.:\-]`},
	{Name: "Whitespace", Pattern: `[\s\p{Zs}]+`},
})

var referenceParser = participle.MustBuild[referenceGrammar](
	participle.Lexer(referenceLexer),
	participle.Elide("Whitespace"),
)

// ParseReference parses user input into a Reference.
// Examples:
//   - "Мф. 5:3"     -> {мф 5 3 nil}
//   - "Мф. 5:3-12"  -> {мф 5 3 12}
//   - "Matthew 5 3" -> ErrNoMatch
//
// Only syntax is checked: unknown books or out of range chapters are left
// for the remote store to reject.
func ParseReference(text string) (Reference, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Reference{}, ErrNoMatch
	}

	ast, err := referenceParser.ParseString("", text)
	if err != nil {
		return Reference{}, ErrNoMatch
	}

	chapter, ok := parsePositive(ast.Chapter)
	if !ok {
		return Reference{}, ErrNoMatch
	}
	from, ok := parsePositive(ast.VerseFrom)
	if !ok {
		return Reference{}, ErrNoMatch
	}

	ref := Reference{
		Book:      strings.ToLower(ast.Book),
		Chapter:   chapter,
		VerseFrom: from,
	}

	if ast.VerseTo != nil {
		to, ok := parsePositive(*ast.VerseTo)
		if !ok {
			return Reference{}, ErrNoMatch
		}
		ref.VerseTo = &to
	}

	return ref, nil
}

// parsePositive accepts ASCII digit sequences with a value >= 1.
func parsePositive(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}
