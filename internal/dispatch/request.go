package dispatch

import (
	"fmt"
	"strings"
	"unicode"
)

// Surface is where a request came from and where its reply goes.
type Surface string

const (
	SurfaceMessage Surface = "message" // direct message, always answered
	SurfaceInline  Surface = "inline"  // inline query, answered with suggestions only
)

// ParseSurface maps a transport label onto a Surface. Empty means message.
func ParseSurface(s string) (Surface, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(SurfaceMessage):
		return SurfaceMessage, nil
	case string(SurfaceInline):
		return SurfaceInline, nil
	default:
		return "", fmt.Errorf("unknown surface %q", s)
	}
}

// Intent is what the dispatcher decided a request asks for.
type Intent string

const (
	IntentGreeting Intent = "greeting"
	IntentHelp     Intent = "help"
	IntentBooks    Intent = "books"
	IntentStats    Intent = "stats"
	IntentLookup   Intent = "lookup"
)

// Request is one incoming update, already stripped of transport encoding.
type Request struct {
	Surface Surface `json:"surface"`
	Text    string  `json:"text"`
}

// Reply is the single answer to a Request.
// Message surface replies carry Text; inline replies carry Results (possibly none).
type Reply struct {
	Surface   Surface        `json:"surface"`
	Intent    Intent         `json:"intent"`
	Text      string         `json:"text,omitempty"`
	ParseMode string         `json:"parse_mode,omitempty"`
	Results   []InlineResult `json:"results,omitempty"`
}

// InlineResult is one selectable inline suggestion.
type InlineResult struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Text        string `json:"text"`
	ParseMode   string `json:"parse_mode,omitempty"`
}

// command is a parsed "/name[@bot] args" message.
type command struct {
	name string
	args string
}

// parseCommand splits a slash command. ok is false for free text.
// Example: "/stats@versebot  Мф " -> {stats, Мф}
func parseCommand(text string) (command, bool) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return command{}, false
	}

	body := text[1:]
	head, args := body, ""
	if i := strings.IndexFunc(body, unicode.IsSpace); i >= 0 {
		head, args = body[:i], body[i:]
	}
	if at := strings.IndexByte(head, '@'); at >= 0 {
		head = head[:at]
	}
	if head == "" {
		return command{}, false
	}

	return command{
		name: strings.ToLower(head),
		args: strings.TrimSpace(args),
	}, true
}
