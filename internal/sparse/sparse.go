// Package sparse provides the hybrid instruction set used for NFA subset
// tracking: a dense list of instruction indices for iteration paired with
// a bit vector for membership and identity.
//
// The bit vector doubles as the subset's identity: two sets are the same
// DFA state exactly when their bit vectors are equal, and Key() exposes
// the bits as a map key for the lazy-DFA cache.
package sparse

import "github.com/2win9s/simpleregex/internal/bitvec"

// Set is an ordered membership set of uint32 instruction indices.
//
// Invariants: the dense list holds no duplicates, and bit i of the vector
// is set iff i is in the list. Iteration order is insertion order.
type Set struct {
	dense []uint32
	bits  bitvec.Vec
}

// NewSet returns an empty set with capacity for n elements.
func NewSet(n int) *Set {
	return &Set{dense: make([]uint32, 0, n)}
}

// Insert adds v to the set. Inserting an existing element is a no-op.
func (s *Set) Insert(v uint32) {
	if s.bits.Test(v) {
		return
	}
	s.bits.Set(v)
	s.dense = append(s.dense, v)
}

// Contains reports whether v is in the set.
func (s *Set) Contains(v uint32) bool {
	return s.bits.Test(v)
}

// Len returns the number of elements.
func (s *Set) Len() int {
	return len(s.dense)
}

// Values returns the elements in insertion order. The slice is valid
// until the next mutation.
func (s *Set) Values() []uint32 {
	return s.dense
}

// Clear empties the set, keeping allocations.
func (s *Set) Clear() {
	s.dense = s.dense[:0]
	s.bits.Clear()
}

// Union inserts every element of other into s.
func (s *Set) Union(other *Set) {
	for _, v := range other.dense {
		s.Insert(v)
	}
}

// CopyFrom replaces s's contents with other's.
func (s *Set) CopyFrom(other *Set) {
	s.Clear()
	s.Union(other)
}

// Clone returns an independent copy.
func (s *Set) Clone() *Set {
	c := NewSet(len(s.dense))
	c.Union(s)
	return c
}

// Equal reports whether the two sets have the same members, regardless of
// insertion order.
func (s *Set) Equal(other *Set) bool {
	return len(s.dense) == len(other.dense) && s.bits.Equal(&other.bits)
}

// Key returns a string key identifying the member set, independent of
// insertion order. Equal sets produce equal keys.
func (s *Set) Key() string {
	return s.bits.Key()
}
