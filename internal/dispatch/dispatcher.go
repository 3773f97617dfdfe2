package dispatch

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MrSnakeDoc/verse/internal/domain"
	"github.com/MrSnakeDoc/verse/internal/format"
	"github.com/MrSnakeDoc/verse/internal/logger"
	"github.com/MrSnakeDoc/verse/internal/metrics"
)

const (
	outcomeOK           = "ok"
	outcomeNotFound     = "not_found"
	outcomeBadReference = "bad_reference"
	outcomeUsage        = "usage"
	outcomeTimeout      = "timeout"
	outcomeUnavailable  = "unavailable"

	// inlinePreviewRunes bounds the description shown under an inline suggestion.
	inlinePreviewRunes = 100
)

// inlineNamespace seeds the UUIDv5 ids of inline suggestions.
var inlineNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/MrSnakeDoc/verse/inline"))

// Store is the remote scripture store as seen by the dispatcher.
type Store interface {
	FetchPassage(ctx context.Context, sel domain.Selector) (domain.Passage, error)
	FetchBooks(ctx context.Context) ([]domain.BookEntry, error)
	FetchChapterStats(ctx context.Context, abbr string) ([]domain.ChapterStat, error)
}

// TextSource provides the message catalogue in effect for a request.
type TextSource interface {
	Texts() domain.Texts
}

// StaticTexts is a TextSource that never changes.
type StaticTexts domain.Texts

func (s StaticTexts) Texts() domain.Texts { return domain.Texts(s) }

// Dispatcher routes a request to its pipeline and builds the reply.
// It keeps no state between requests and is safe for concurrent use.
type Dispatcher struct {
	store   Store
	texts   TextSource
	logger  logger.Logger
	metrics *metrics.Metrics
}

// New creates a Dispatcher. texts may be nil (built-in catalogue), m may be nil.
func New(store Store, texts TextSource, log logger.Logger, m *metrics.Metrics) *Dispatcher {
	if texts == nil {
		texts = StaticTexts(domain.DefaultTexts())
	}
	return &Dispatcher{
		store:   store,
		texts:   texts,
		logger:  log,
		metrics: m,
	}
}

// Dispatch handles one request and returns its only reply.
func (d *Dispatcher) Dispatch(ctx context.Context, req Request) Reply {
	start := time.Now()
	f := format.New(d.texts.Texts())

	var (
		reply   Reply
		outcome string
	)
	switch {
	case req.Surface == SurfaceInline:
		reply, outcome = d.inline(ctx, f, req.Text)
	default:
		if cmd, ok := parseCommand(req.Text); ok {
			reply, outcome = d.command(ctx, f, cmd)
		} else {
			reply, outcome = d.lookup(ctx, f, req.Text)
		}
	}

	d.metrics.IncrementOutcome(string(reply.Intent), outcome)
	d.logger.Info("dispatched request",
		logger.String("surface", string(reply.Surface)),
		logger.String("intent", string(reply.Intent)),
		logger.String("outcome", outcome),
		logger.Duration("duration", time.Since(start)))

	return reply
}

func (d *Dispatcher) command(ctx context.Context, f *format.Formatter, cmd command) (Reply, string) {
	texts := f.Texts()

	switch cmd.name {
	case "start":
		return messageReply(IntentGreeting, f.Notice(texts.Greeting)), outcomeOK

	case "books":
		books, err := d.store.FetchBooks(ctx)
		if err != nil {
			msg, outcome := d.failure(f, IntentBooks, err)
			return messageReply(IntentBooks, msg), outcome
		}
		msg := f.Books(books)
		return messageReply(IntentBooks, msg), emptyOutcome(msg)

	case "stats":
		abbr := normalizeAbbr(cmd.args)
		if abbr == "" {
			return messageReply(IntentStats, f.Notice(texts.StatsUsage)), outcomeUsage
		}
		stats, err := d.store.FetchChapterStats(ctx, abbr)
		if err != nil {
			msg, outcome := d.failure(f, IntentStats, err)
			return messageReply(IntentStats, msg), outcome
		}
		msg := f.Stats(abbr, stats)
		return messageReply(IntentStats, msg), emptyOutcome(msg)

	default:
		// "/help" and any command we do not know
		return messageReply(IntentHelp, f.Notice(texts.Help)), outcomeOK
	}
}

func (d *Dispatcher) lookup(ctx context.Context, f *format.Formatter, text string) (Reply, string) {
	ref, err := domain.ParseReference(text)
	if err != nil {
		d.logger.Debug("text is not a reference", logger.String("text", text))
		return messageReply(IntentLookup, f.Notice(f.Texts().BadReference)), outcomeBadReference
	}

	passage, err := d.store.FetchPassage(ctx, ref.Selector())
	if err != nil {
		msg, outcome := d.failure(f, IntentLookup, err)
		return messageReply(IntentLookup, msg), outcome
	}

	return messageReply(IntentLookup, f.Passage(passage, text)), outcomeOK
}

// inline answers an inline query with at most one suggestion and never with
// an error notice: a half-typed reference must not produce noise.
func (d *Dispatcher) inline(ctx context.Context, f *format.Formatter, text string) (Reply, string) {
	reply := Reply{Surface: SurfaceInline, Intent: IntentLookup}

	ref, err := domain.ParseReference(text)
	if err != nil {
		return reply, outcomeBadReference
	}

	passage, err := d.store.FetchPassage(ctx, ref.Selector())
	if err != nil {
		_, outcome := d.failure(f, IntentLookup, err)
		return reply, outcome
	}

	msg := f.Passage(passage, text)
	if msg.Empty {
		return reply, outcomeNotFound
	}

	reply.Results = []InlineResult{{
		ID:          uuid.NewSHA1(inlineNamespace, []byte(ref.String())).String(),
		Title:       f.Attribution(text),
		Description: format.Truncate(passage.Fragments[0], inlinePreviewRunes),
		Text:        msg.Text,
		ParseMode:   msg.ParseMode,
	}}
	return reply, outcomeOK
}

// failure turns a store error into the notice shown on the message surface.
// A timeout reads as "nothing found"; any other transport failure as "unavailable".
func (d *Dispatcher) failure(f *format.Formatter, intent Intent, err error) (format.Message, string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return f.Passage(domain.Passage{}, ""), outcomeNotFound
	case isTimeout(err):
		d.logger.Warn("store request timed out",
			logger.String("intent", string(intent)),
			logger.Error(err))
		return f.Passage(domain.Passage{}, ""), outcomeTimeout
	default:
		d.logger.Error("store request failed",
			logger.String("intent", string(intent)),
			logger.Error(err))
		return f.Notice(f.Texts().Unavailable), outcomeUnavailable
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var t interface{ Timeout() bool }
	return errors.As(err, &t) && t.Timeout()
}

func messageReply(intent Intent, msg format.Message) Reply {
	return Reply{
		Surface:   SurfaceMessage,
		Intent:    intent,
		Text:      msg.Text,
		ParseMode: msg.ParseMode,
	}
}

func emptyOutcome(msg format.Message) string {
	if msg.Empty {
		return outcomeNotFound
	}
	return outcomeOK
}

// normalizeAbbr keeps the first argument, lower-cased, without a trailing dot.
// Example: "Мф." -> "мф"
func normalizeAbbr(args string) string {
	fields := strings.Fields(args)
	if len(fields) == 0 {
		return ""
	}
	return strings.TrimSuffix(strings.ToLower(fields[0]), ".")
}
