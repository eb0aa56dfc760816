package freedb

import (
	"fmt"

	"platter/internal/fault"
)

// Category is one of the eleven freedb genre buckets.
type Category string

const (
	Blues      Category = "blues"
	Classical  Category = "classical"
	Country    Category = "country"
	Data       Category = "data"
	Folk       Category = "folk"
	Jazz       Category = "jazz"
	NewAge     Category = "newage"
	Reggae     Category = "reggae"
	Rock       Category = "rock"
	Soundtrack Category = "soundtrack"
	Misc       Category = "misc"
)

var categories = []Category{Blues, Classical, Country, Data, Folk, Jazz, NewAge, Reggae, Rock, Soundtrack, Misc}

// Categories returns every valid category in protocol order.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// Valid reports whether c is one of the eleven protocol tokens. Matching is
// case-sensitive.
func (c Category) Valid() bool {
	for _, known := range categories {
		if c == known {
			return true
		}
	}
	return false
}

func (c Category) String() string {
	return string(c)
}

// ParseCategory validates a category token.
func ParseCategory(value string) (Category, error) {
	c := Category(value)
	if !c.Valid() {
		return "", fault.Invalid("freedb", "category", fmt.Sprintf("unknown category %q", value))
	}
	return c, nil
}
