// Package u8set implements sparse membership structures keyed by the bits
// of a UTF-8 encoded codepoint.
//
// Both structures share the same four-tier layout, selected by the
// sequence length of the packed codepoint (see internal/u8):
//
//	tier 1: 256 bits, indexed by the byte value
//	tier 2: 2048 bits, indexed by ((a & 0x1F) << 6) | (b & 0x3F)
//	tier 3: 65536 bits, indexed by ((a & 0x0F) << 12) | ((b & 0x3F) << 6) | (c & 0x3F)
//	tier 4: 512 optional 4096-bit maps; the outer index is
//	        ((a & 7) << 6) | (b & 0x1F), the inner ((c & 0x1F) << 6) | (d & 0x1F)
//
// The continuation bits form a perfect hash within tiers 2 and 3, so the
// common ASCII and BMP paths are single branch-free bitmap probes. Tiers
// other than the first are allocated on first insertion and stay nil
// otherwise, which keeps ASCII-only classes at a few words of memory.
package u8set

import (
	"github.com/2win9s/simpleregex/internal/bitvec"
	"github.com/2win9s/simpleregex/internal/u8"
)

const (
	tier2Bits = 2048
	tier3Bits = 65536
	tier4Maps = 512
	tier4Bits = 4096
)

func idx2(a, b byte) uint32 {
	return uint32(a&0x1F)<<6 | uint32(b&0x3F)
}

func idx3(a, b, c byte) uint32 {
	return uint32(a&0x0F)<<12 | uint32(b&0x3F)<<6 | uint32(c&0x3F)
}

func idx4(a, b, c, d byte) (outer, inner uint32) {
	return uint32(a&7)<<6 | uint32(b&0x1F), uint32(c&0x1F)<<6 | uint32(d&0x1F)
}

// Set is a membership set over packed UTF-8 codepoints. The zero value is
// not ready for use; call NewSet.
type Set struct {
	one   *bitvec.Bitmap // always present
	two   *bitvec.Bitmap
	three *bitvec.Bitmap
	four  []*bitvec.Bitmap // tier4Maps entries once allocated
}

// NewSet returns an empty set with only the single-byte tier allocated.
func NewSet() *Set {
	return &Set{one: bitvec.NewBitmap(256)}
}

// NewSetFromString builds a set from the codepoints of a UTF-8 string.
//
// Errors: u8.ErrInvalidUTF8 if s truncates inside a multi-byte sequence.
func NewSetFromString(s []byte) (*Set, error) {
	set := NewSet()
	for i := 0; i < len(s); {
		c, n, err := u8.Decode(s, i)
		if err != nil {
			return nil, err
		}
		set.Insert(c)
		i += n
	}
	return set, nil
}

// Insert adds a packed codepoint, allocating its tier on first use.
func (s *Set) Insert(c uint32) {
	a, b, cc, d := u8.Bytes(c)
	switch u8.SeqLen(a) {
	case 1:
		s.one.Set(uint32(a))
	case 2:
		if s.two == nil {
			s.two = bitvec.NewBitmap(tier2Bits)
		}
		s.two.Set(idx2(a, b))
	case 3:
		if s.three == nil {
			s.three = bitvec.NewBitmap(tier3Bits)
		}
		s.three.Set(idx3(a, b, cc))
	default:
		if s.four == nil {
			s.four = make([]*bitvec.Bitmap, tier4Maps)
		}
		outer, inner := idx4(a, b, cc, d)
		if s.four[outer] == nil {
			s.four[outer] = bitvec.NewBitmap(tier4Bits)
		}
		s.four[outer].Set(inner)
	}
}

// InsertByteRange adds every single-byte codepoint in [lo, hi].
func (s *Set) InsertByteRange(lo, hi byte) {
	for v := uint32(lo); v <= uint32(hi); v++ {
		s.one.Set(v)
	}
}

// Remove deletes a packed codepoint. Removing an absent codepoint is a
// no-op; tiers are not freed (see Shrink).
func (s *Set) Remove(c uint32) {
	a, b, cc, d := u8.Bytes(c)
	switch u8.SeqLen(a) {
	case 1:
		s.one.Reset(uint32(a))
	case 2:
		if s.two != nil {
			s.two.Reset(idx2(a, b))
		}
	case 3:
		if s.three != nil {
			s.three.Reset(idx3(a, b, cc))
		}
	default:
		if s.four != nil {
			outer, inner := idx4(a, b, cc, d)
			if s.four[outer] != nil {
				s.four[outer].Reset(inner)
			}
		}
	}
}

// Contains reports whether the packed codepoint is in the set.
func (s *Set) Contains(c uint32) bool {
	a, b, cc, d := u8.Bytes(c)
	switch u8.SeqLen(a) {
	case 1:
		return s.one.Test(uint32(a))
	case 2:
		return s.two != nil && s.two.Test(idx2(a, b))
	case 3:
		return s.three != nil && s.three.Test(idx3(a, b, cc))
	default:
		if s.four == nil {
			return false
		}
		outer, inner := idx4(a, b, cc, d)
		return s.four[outer] != nil && s.four[outer].Test(inner)
	}
}

// Count returns the number of members across all tiers.
func (s *Set) Count() int {
	n := s.one.Count()
	if s.two != nil {
		n += s.two.Count()
	}
	if s.three != nil {
		n += s.three.Count()
	}
	for _, m := range s.four {
		if m != nil {
			n += m.Count()
		}
	}
	return n
}

// Union adds every member of other to s, allocating tiers in s as needed.
func (s *Set) Union(other *Set) {
	s.one.Or(other.one)
	if other.two != nil {
		if s.two == nil {
			s.two = bitvec.NewBitmap(tier2Bits)
		}
		s.two.Or(other.two)
	}
	if other.three != nil {
		if s.three == nil {
			s.three = bitvec.NewBitmap(tier3Bits)
		}
		s.three.Or(other.three)
	}
	if other.four != nil {
		if s.four == nil {
			s.four = make([]*bitvec.Bitmap, tier4Maps)
		}
		for i, m := range other.four {
			if m == nil {
				continue
			}
			if s.four[i] == nil {
				s.four[i] = bitvec.NewBitmap(tier4Bits)
			}
			s.four[i].Or(m)
		}
	}
}

// Intersect keeps only members present in both sets. Tiers missing from
// either side simply mask to empty; no tier is allocated.
func (s *Set) Intersect(other *Set) {
	s.one.And(other.one)
	if s.two != nil {
		if other.two != nil {
			s.two.And(other.two)
		} else {
			s.two.Clear()
		}
	}
	if s.three != nil {
		if other.three != nil {
			s.three.And(other.three)
		} else {
			s.three.Clear()
		}
	}
	for i, m := range s.four {
		if m == nil {
			continue
		}
		if other.four != nil && other.four[i] != nil {
			m.And(other.four[i])
		} else {
			m.Clear()
		}
	}
}

// Equal reports whether the two sets have the same members. A missing
// tier compares equal to an allocated empty one.
func (s *Set) Equal(other *Set) bool {
	if !s.one.Equal(other.one) {
		return false
	}
	if !tierEqual(s.two, other.two) || !tierEqual(s.three, other.three) {
		return false
	}
	for i := 0; i < tier4Maps; i++ {
		var a, b *bitvec.Bitmap
		if s.four != nil {
			a = s.four[i]
		}
		if other.four != nil {
			b = other.four[i]
		}
		if !tierEqual(a, b) {
			return false
		}
	}
	return true
}

func tierEqual(a, b *bitvec.Bitmap) bool {
	switch {
	case a == nil && b == nil:
		return true
	case a == nil:
		return b.Count() == 0
	case b == nil:
		return a.Count() == 0
	default:
		return a.Equal(b)
	}
}

// Shrink releases tiers that have become empty.
func (s *Set) Shrink() {
	if s.two != nil && s.two.Count() == 0 {
		s.two = nil
	}
	if s.three != nil && s.three.Count() == 0 {
		s.three = nil
	}
	if s.four != nil {
		live := false
		for i, m := range s.four {
			if m == nil {
				continue
			}
			if m.Count() == 0 {
				s.four[i] = nil
			} else {
				live = true
			}
		}
		if !live {
			s.four = nil
		}
	}
}

// String renders the member set as UTF-8 text, tier by tier in codepoint
// order within each tier. Useful for class-table dumps.
func (s *Set) String() string {
	var out []byte
	for i := uint32(0); i < 256; i++ {
		if s.one.Test(i) {
			out = append(out, byte(i))
		}
	}
	if s.two != nil {
		for i := uint32(0); i < tier2Bits; i++ {
			if s.two.Test(i) {
				out = append(out, 0xC0|byte(i>>6), 0x80|byte(i&0x3F))
			}
		}
	}
	if s.three != nil {
		for i := uint32(0); i < tier3Bits; i++ {
			if s.three.Test(i) {
				out = append(out, 0xE0|byte(i>>12), 0x80|byte((i>>6)&0x3F), 0x80|byte(i&0x3F))
			}
		}
	}
	for outer, m := range s.four {
		if m == nil {
			continue
		}
		for j := uint32(0); j < tier4Bits; j++ {
			if m.Test(j) {
				out = append(out,
					0xF0|byte(outer>>6),
					0x80|byte(outer&0x1F),
					0x80|byte((j>>6)&0x1F),
					0x80|byte(j&0x1F))
			}
		}
	}
	return string(out)
}
