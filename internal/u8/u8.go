// Package u8 implements the UTF-8 codec used throughout the engine.
//
// The engine's canonical codepoint representation is not a rune: it is the
// 1-4 UTF-8 bytes of the codepoint packed little-endian into a uint32, so
// the leading byte sits in bits 0-7, the first continuation byte in bits
// 8-15, and so on. This layout makes the leading byte (and therefore the
// sequence length) recoverable from the low byte alone, and it is the key
// the tiered membership structures in internal/u8set are built around.
//
// Ill-formed input is an error, never silently substituted.
package u8

import "errors"

// ErrInvalidUTF8 indicates a truncated or ill-formed UTF-8 sequence in a
// pattern or haystack.
var ErrInvalidUTF8 = errors.New("invalid UTF-8 input")

// SeqLen returns the encoded length of a UTF-8 sequence given its leading
// byte: <0xC0 is one byte (ASCII or a lone continuation byte, which a later
// decode rejects), <0xE0 two, <0xF0 three, otherwise four.
func SeqLen(lead byte) int {
	if lead < 0xC0 {
		return 1
	}
	return 4 - b2i(lead < 0xE0) - b2i(lead < 0xF0)
}

func b2i(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Width returns the byte width of a packed codepoint, read from its low
// (leading) byte.
func Width(c uint32) int {
	return SeqLen(byte(c))
}

// Decode reads one codepoint from s starting at position i and returns the
// packed codepoint and its byte width.
//
// Errors: ErrInvalidUTF8 if the sequence starts on a lone continuation
// byte, is truncated at the end of s, or a continuation byte is missing
// its high bits.
func Decode(s []byte, i int) (uint32, int, error) {
	lead := s[i]
	if lead&0xC0 == 0x80 {
		return 0, 0, ErrInvalidUTF8
	}
	n := SeqLen(lead)
	if i+n > len(s) {
		return 0, 0, ErrInvalidUTF8
	}
	c := uint32(lead)
	for k := 1; k < n; k++ {
		b := s[i+k]
		if b&0xC0 != 0x80 {
			return 0, 0, ErrInvalidUTF8
		}
		c |= uint32(b) << (8 * k)
	}
	return c, n, nil
}

// Validate reports the first encoding error in s, or nil when s is
// well-formed UTF-8 end to end.
func Validate(s []byte) error {
	for i := 0; i < len(s); {
		_, n, err := Decode(s, i)
		if err != nil {
			return err
		}
		i += n
	}
	return nil
}

// Append appends the packed codepoint c to dst as its UTF-8 bytes and
// returns the extended slice.
func Append(dst []byte, c uint32) []byte {
	n := Width(c)
	for k := 0; k < n; k++ {
		dst = append(dst, byte(c>>(8*k)))
	}
	return dst
}

// Pack packs up to four raw UTF-8 bytes little-endian. Unused trailing
// bytes must be zero.
func Pack(a, b, c, d byte) uint32 {
	return uint32(a) | uint32(b)<<8 | uint32(c)<<16 | uint32(d)<<24
}

// Bytes returns the individual bytes of a packed codepoint. Bytes beyond
// the codepoint's width are zero.
func Bytes(c uint32) (a, b, cc, d byte) {
	return byte(c), byte(c >> 8), byte(c >> 16), byte(c >> 24)
}
