package exist

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// Kind classifies a failed store round trip.
type Kind string

const (
	KindTimeout     Kind = "timeout"     // deadline exceeded or request canceled
	KindUnavailable Kind = "unavailable" // connection failure or non-2xx status
	KindMalformed   Kind = "malformed"   // unreadable or unexpected response body
)

// Sentinels matched by errors.Is against any *Error of the same kind.
var (
	ErrTimeout     = errors.New("store timed out")
	ErrUnavailable = errors.New("store unavailable")
	ErrMalformed   = errors.New("store response malformed")
)

// Error is a transport failure talking to the remote store.
// It never stands for "nothing matched": that is domain.ErrNotFound.
type Error struct {
	Kind Kind
	Op   string // endpoint: "query", "books", "stats"
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("store %s %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() []error {
	return []error{e.Kind.sentinel(), e.Err}
}

// Timeout reports whether the round trip ran out of time.
func (e *Error) Timeout() bool {
	return e.Kind == KindTimeout
}

func (k Kind) sentinel() error {
	switch k {
	case KindTimeout:
		return ErrTimeout
	case KindMalformed:
		return ErrMalformed
	default:
		return ErrUnavailable
	}
}

// KindOf returns the failure kind carried by err, or "" if err is not a store error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// classify maps an http.Client error onto a Kind.
func classify(err error) Kind {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return KindTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return KindTimeout
	}
	return KindUnavailable
}
