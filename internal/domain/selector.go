package domain

import (
	"strconv"
	"strings"
)

// Selector is a query expression in the remote store's query language.
// It is opaque outside of BuildSelector and the store client.
type Selector string

// BuildSelector maps a reference to the store selector addressing it.
// Examples:
//   - мф. 5:3    -> //book[short-title="мф"]/chapter[5]/verse[position()=3]
//   - мф. 5:3-12 -> //book[short-title="мф"]/chapter[5]/verse[position()=3 to 12]
//
// Positions are 1-based. The book is quoted verbatim: ParseReference only
// lets word characters through, so it cannot close the string literal.
func BuildSelector(ref Reference) Selector {
	var sb strings.Builder
	sb.WriteString(`//book[short-title="`)
	sb.WriteString(ref.Book)
	sb.WriteString(`"]/chapter[`)
	sb.WriteString(strconv.Itoa(ref.Chapter))
	sb.WriteString(`]/verse[position()=`)
	sb.WriteString(strconv.Itoa(ref.VerseFrom))
	if ref.VerseTo != nil {
		sb.WriteString(" to ")
		sb.WriteString(strconv.Itoa(*ref.VerseTo))
	}
	sb.WriteByte(']')
	return Selector(sb.String())
}

// Selector is a shorthand for BuildSelector(r).
func (r Reference) Selector() Selector {
	return BuildSelector(r)
}

func (s Selector) String() string { return string(s) }
