// Package ident provides a case-insensitive identifier used throughout
// procsim for unit, capability, and register names.
//
// Two identifiers compare equal, hash equally, and order the same when
// their lower-case forms match. The spelling used at construction time
// is retained verbatim and is what gets printed in output; only
// comparisons fold case.
//
//	a := ident.New("ALU")
//	b := ident.New("alu")
//	a.Equal(b)     // true
//	a.String()     // "ALU"
package ident

import "strings"

// ID is a case-insensitive identifier.
type ID struct {
	original string
	lower    string
}

// New wraps s as an ID, folding case for comparisons but keeping s as
// the display spelling.
func New(s string) ID {
	return ID{original: s, lower: strings.ToLower(s)}
}

// String returns the original spelling.
func (i ID) String() string {
	return i.original
}

// Lower returns the case-folded form used for comparisons and as a map
// key.
func (i ID) Lower() string {
	return i.lower
}

// Equal reports whether i and o name the same identifier, ignoring
// case.
func (i ID) Equal(o ID) bool {
	return i.lower == o.lower
}

// Less orders i before o lexicographically on the case-folded form.
func (i ID) Less(o ID) bool {
	return i.lower < o.lower
}

// IsZero reports whether i is the zero value.
func (i ID) IsZero() bool {
	return i.original == "" && i.lower == ""
}

// ByLower sorts a slice of IDs lexicographically on their case-folded
// spelling.
type ByLower []ID

func (s ByLower) Len() int           { return len(s) }
func (s ByLower) Less(i, j int) bool { return s[i].Less(s[j]) }
func (s ByLower) Swap(i, j int)      { s[i], s[j] = s[j], s[i] }
