// Package bitvec provides the two bit-set flavors the engine is built on:
// a fixed-width Bitmap used as the tier storage of the UTF-8 membership
// structures, and a growable Vec used to mirror instruction subsets.
//
// Both are plain word slices with no internal locking; the engine confines
// them to per-call scratch or build-time state.
package bitvec

import "math/bits"

// Bitmap is a fixed-size bit set. The size is fixed at construction and
// rounded up to a multiple of 64 bits, matching the word-at-a-time union
// and intersection the tiered UTF-8 sets rely on.
type Bitmap struct {
	words []uint64
}

// NewBitmap returns a zeroed bitmap able to hold n bits.
func NewBitmap(n int) *Bitmap {
	return &Bitmap{words: make([]uint64, (n+63)/64)}
}

// Set sets bit i.
func (m *Bitmap) Set(i uint32) {
	m.words[i>>6] |= 1 << (i & 63)
}

// Reset clears bit i.
func (m *Bitmap) Reset(i uint32) {
	m.words[i>>6] &^= 1 << (i & 63)
}

// Test reports whether bit i is set.
func (m *Bitmap) Test(i uint32) bool {
	return m.words[i>>6]&(1<<(i&63)) != 0
}

// Count returns the number of set bits.
func (m *Bitmap) Count() int {
	n := 0
	for _, w := range m.words {
		n += bits.OnesCount64(w)
	}
	return n
}

// Or unions other into m. The two bitmaps must have the same size.
func (m *Bitmap) Or(other *Bitmap) {
	for i, w := range other.words {
		m.words[i] |= w
	}
}

// And intersects m with other in place. The two bitmaps must have the
// same size.
func (m *Bitmap) And(other *Bitmap) {
	for i, w := range other.words {
		m.words[i] &= w
	}
}

// Equal reports whether the two bitmaps hold the same bits.
func (m *Bitmap) Equal(other *Bitmap) bool {
	if len(m.words) != len(other.words) {
		return false
	}
	for i, w := range m.words {
		if w != other.words[i] {
			return false
		}
	}
	return true
}

// Clear zeroes every bit, keeping the allocation.
func (m *Bitmap) Clear() {
	for i := range m.words {
		m.words[i] = 0
	}
}

// CopyFrom overwrites m with other's bits. The two bitmaps must have the
// same size.
func (m *Bitmap) CopyFrom(other *Bitmap) {
	copy(m.words, other.words)
}

// Clone returns an independent copy.
func (m *Bitmap) Clone() *Bitmap {
	c := &Bitmap{words: make([]uint64, len(m.words))}
	copy(c.words, m.words)
	return c
}

// Vec is a growable bit vector. Unlike Bitmap it extends itself on Set,
// and it supports ordering and a stable byte key so a set of instruction
// indices can index a map.
type Vec struct {
	words []uint64
}

// Set sets bit i, growing the vector as needed.
func (v *Vec) Set(i uint32) {
	w := int(i >> 6)
	for w >= len(v.words) {
		v.words = append(v.words, 0)
	}
	v.words[w] |= 1 << (i & 63)
}

// Test reports whether bit i is set. Bits beyond the current length read
// as zero.
func (v *Vec) Test(i uint32) bool {
	w := int(i >> 6)
	if w >= len(v.words) {
		return false
	}
	return v.words[w]&(1<<(i&63)) != 0
}

// Count returns the number of set bits.
func (v *Vec) Count() int {
	n := 0
	for _, w := range v.words {
		n += bits.OnesCount64(w)
	}
	return n
}

// Clear zeroes the vector, keeping its capacity.
func (v *Vec) Clear() {
	for i := range v.words {
		v.words[i] = 0
	}
}

// Equal reports whether the two vectors hold the same bits. Trailing zero
// words are insignificant.
func (v *Vec) Equal(other *Vec) bool {
	long, short := v.words, other.words
	if len(long) < len(short) {
		long, short = short, long
	}
	for i, w := range short {
		if w != long[i] {
			return false
		}
	}
	for _, w := range long[len(short):] {
		if w != 0 {
			return false
		}
	}
	return true
}

// Compare orders two vectors lexicographically by word, low word first,
// treating missing trailing words as zero. It returns -1, 0 or 1.
func (v *Vec) Compare(other *Vec) int {
	n := len(v.words)
	if len(other.words) > n {
		n = len(other.words)
	}
	for i := 0; i < n; i++ {
		var a, b uint64
		if i < len(v.words) {
			a = v.words[i]
		}
		if i < len(other.words) {
			b = other.words[i]
		}
		if a != b {
			if a < b {
				return -1
			}
			return 1
		}
	}
	return 0
}

// Key returns the vector's bits as a string usable as a map key. Trailing
// zero words are trimmed first so equal sets produce equal keys.
func (v *Vec) Key() string {
	n := len(v.words)
	for n > 0 && v.words[n-1] == 0 {
		n--
	}
	b := make([]byte, 0, n*8)
	for _, w := range v.words[:n] {
		b = append(b,
			byte(w), byte(w>>8), byte(w>>16), byte(w>>24),
			byte(w>>32), byte(w>>40), byte(w>>48), byte(w>>56))
	}
	return string(b)
}
