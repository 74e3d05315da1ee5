// Package varset implements the "definitely initialized" set that
// initialization analysis threads through the AST. Entries are
// addressed by stable arena index, so the set is a bitset
// (github.com/bits-and-blooms/bitset) rather than a map — O(1)
// membership and fast union/intersect, grounded on the same dependency
// Consensys-go-corset uses for its constraint bitsets.
package varset

import (
	"github.com/bits-and-blooms/bitset"

	"github.com/cwbudde/go-minic/internal/env"
)

// Set is an immutable-after-construction collection of entries deemed
// initialized at a program point. Every operation returns a new Set;
// none mutate their receiver in place.
type Set struct {
	bits *bitset.BitSet
}

// Empty returns the set containing no entries.
func Empty() Set {
	return Set{bits: bitset.New(0)}
}

// Add returns a new set equal to s with entry additionally marked
// initialized.
func (s Set) Add(e *env.Entry) Set {
	next := s.clone()
	next.bits.Set(uint(e.ID))
	return next
}

// Contains reports whether entry is a member of s.
func (s Set) Contains(e *env.Entry) bool {
	if s.bits == nil {
		return false
	}
	return s.bits.Test(uint(e.ID))
}

// Union returns the set of entries initialized in either s or other.
func Union(s, other Set) Set {
	return Set{bits: s.bitsOrEmpty().Union(other.bitsOrEmpty())}
}

// Intersect returns the set of entries initialized in both s and other.
func Intersect(s, other Set) Set {
	return Set{bits: s.bitsOrEmpty().Intersection(other.bitsOrEmpty())}
}

// Trim removes every entry in baseline from s. Used by If's merge rule
// to isolate what a branch added beyond the set it started from.
func Trim(s, baseline Set) Set {
	next := s.clone()
	next.bits.InPlaceDifference(baseline.bitsOrEmpty())
	return next
}

func (s Set) clone() Set {
	if s.bits == nil {
		return Set{bits: bitset.New(0)}
	}
	return Set{bits: s.bits.Clone()}
}

func (s Set) bitsOrEmpty() *bitset.BitSet {
	if s.bits == nil {
		return bitset.New(0)
	}
	return s.bits
}
