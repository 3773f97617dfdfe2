package domain

import "errors"

// ErrNotFound is returned by the store when a selector matches nothing.
// Unknown books, chapters out of range and reversed verse ranges all end here.
var ErrNotFound = errors.New("no passage matches the reference")

// Passage holds verse text fragments in document order.
type Passage struct {
	Fragments []string
}

// Empty reports whether the passage carries no text.
func (p Passage) Empty() bool {
	return len(p.Fragments) == 0
}

// BookEntry is one row of the remote book listing.
type BookEntry struct {
	Abbr  string // Example: "мф"
	Title string // Example: "От Матфея святое благовествование"
}

// ChapterStat is one row of the remote chapter statistics for a book.
type ChapterStat struct {
	Number int
	Verses int
}
