// Package library orders the user's saved songs and words.
package library

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

var (
	// ErrUnknownField is returned when parsing an unsupported sort field.
	ErrUnknownField = errors.New("unknown sort field")
	// ErrUnknownOrder is returned when parsing an unsupported sort order.
	ErrUnknownOrder = errors.New("unknown sort order")
)

// Field names a sortable field of a saved item.
type Field string

const (
	FieldTitle     Field = "title"
	FieldArtist    Field = "artist"
	FieldAuthor    Field = "author" // Alias of FieldArtist
	FieldWord      Field = "word"
	FieldCreatedAt Field = "createdAt"
	FieldLearned   Field = "learned"
)

// Order is a sort direction.
type Order string

const (
	Asc  Order = "asc"
	Desc Order = "desc"
)

// Flip returns the opposite direction.
func (o Order) Flip() Order {
	if o == Asc {
		return Desc
	}
	return Asc
}

// Item is anything that can be placed in the library.
type Item interface {
	SortValue(field string) (any, bool)
}

// Sort returns a new slice holding items ordered by the given field.
//
// Dates sort chronologically and strings with locale-aware collation. The
// learned flag is inverted: ascending puts learned items first. Any order
// other than Asc sorts descending. An unknown field keeps the input order.
// Equal keys keep their relative order. items is not modified.
func Sort[T Item](items []T, by Field, order Order) []T {
	out := slices.Clone(items)
	if len(out) < 2 || !known(by) {
		return out
	}

	cmp := comparer(by)
	slices.SortStableFunc(out, func(a, b T) int {
		c := cmp(a, b)
		if order != Asc {
			return -c
		}
		return c
	})
	return out
}

func known(f Field) bool {
	switch f {
	case FieldTitle, FieldArtist, FieldAuthor, FieldWord, FieldCreatedAt, FieldLearned:
		return true
	}
	return false
}

// comparer builds an ascending comparison for field. The collator is not
// safe for concurrent use, so each Sort call gets its own.
func comparer(field Field) func(a, b Item) int {
	col := collate.New(language.Und)
	return func(a, b Item) int {
		av, aok := a.SortValue(string(field))
		bv, bok := b.SortValue(string(field))
		if !aok || !bok {
			return 0
		}
		switch x := av.(type) {
		case time.Time:
			y, ok := bv.(time.Time)
			if !ok {
				return 0
			}
			return x.Compare(y)
		case string:
			y, ok := bv.(string)
			if !ok {
				return 0
			}
			return col.CompareString(x, y)
		case bool:
			y, ok := bv.(bool)
			if !ok || x == y {
				return 0
			}
			// learned first
			if x {
				return -1
			}
			return 1
		}
		return 0
	}
}

// ParseField resolves user input to a sort field.
func ParseField(s string) (Field, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "title":
		return FieldTitle, nil
	case "artist":
		return FieldArtist, nil
	case "author":
		return FieldAuthor, nil
	case "word":
		return FieldWord, nil
	case "createdat", "created_at", "created", "date":
		return FieldCreatedAt, nil
	case "learned":
		return FieldLearned, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownField, s)
}

// ParseOrder resolves user input to a sort order.
func ParseOrder(s string) (Order, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "asc", "ascending":
		return Asc, nil
	case "desc", "descending":
		return Desc, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownOrder, s)
}

// Toggle applies a click on a sort selector. Picking the active field flips
// the direction; picking another field starts ascending.
func Toggle(current Field, order Order, picked Field) (Field, Order) {
	if picked == current {
		return current, order.Flip()
	}
	return picked, Asc
}

// SongFields and WordFields list the selectors offered for each collection.
var (
	SongFields = []Field{FieldTitle, FieldArtist, FieldCreatedAt}
	WordFields = []Field{FieldWord, FieldLearned, FieldCreatedAt}
)

// DateLayout is how creation dates are shown in the library.
const DateLayout = "January 02, 2006"

// FormatDate renders t for display, or an empty string for the zero time.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}
