// internal/color/codec.go
//
// Hex color codec for the Color Trainer core.
// Responsibilities:
//   - Decode a 6-digit hex color (optional leading '#') into an RGB triple.
//   - Encode an RGB triple back into canonical lowercase hex.
//   - Guard untyped boundaries (JSON `any` values) against non-string input.
//   - Generate uniformly random target colors.
//
// Notes:
//   - Decode does not pre-validate the charset; a bad pair surfaces as
//     ErrInvalidHexDigit straight from the base-16 parse.
//   - No 3-digit shorthand and no alpha channel.
package color

import (
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Codec errors. Callers match them with errors.Is.
var (
	ErrInvalidInputType = errors.New("color: expected a hex color string")
	ErrMalformedLength  = errors.New("color: hex color must be exactly 6 digits")
	ErrInvalidHexDigit  = errors.New("color: invalid hex digit")
	ErrChannelRange     = errors.New("color: channel out of range [0,255]")
)

// hexLen is the number of digits in a normalized hex color.
const hexLen = 6

// Hex is a color written as 6 hexadecimal digits, optionally prefixed by '#'.
type Hex string

// RGB is a red/green/blue triple with each channel in [0,255].
type RGB struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

// Array returns the channels in fixed (r, g, b) order.
func (c RGB) Array() [3]int { return [3]int{c.R, c.G, c.B} }

// Normalize strips a single leading '#' and lowercases the digits.
// It does not validate.
func (h Hex) Normalize() Hex {
	return Hex(strings.ToLower(strings.TrimPrefix(string(h), "#")))
}

// Display returns the color as "#rrggbb" for rendering.
func (h Hex) Display() string { return "#" + string(h.Normalize()) }

// Decode converts a hex color into its RGB triple.
//
// The input is split at offsets 0, 2 and 4 and each pair is parsed base-16.
// A normalized length other than 6 fails with ErrMalformedLength; a pair
// that does not parse fails with ErrInvalidHexDigit. No partial result is
// ever returned.
func Decode(h Hex) (RGB, error) {
	s := strings.TrimPrefix(string(h), "#")
	if len(s) != hexLen {
		return RGB{}, fmt.Errorf("%w: got %d characters in %q", ErrMalformedLength, len(s), string(h))
	}
	var ch [3]int
	for i, off := range [3]int{0, 2, 4} {
		pair := s[off : off+2]
		v, err := strconv.ParseUint(pair, 16, 8)
		if err != nil {
			return RGB{}, fmt.Errorf("%w: %q in %q", ErrInvalidHexDigit, pair, string(h))
		}
		ch[i] = int(v)
	}
	return RGB{R: ch[0], G: ch[1], B: ch[2]}, nil
}

// ParseValue accepts a value from an untyped boundary and returns it as a Hex.
// Only strings (or Hex) are accepted; anything else, including an already
// decoded RGB or a JSON array, fails with ErrInvalidInputType.
func ParseValue(v any) (Hex, error) {
	switch x := v.(type) {
	case Hex:
		return x, nil
	case string:
		return Hex(x), nil
	default:
		return "", fmt.Errorf("%w, received %T", ErrInvalidInputType, v)
	}
}

// DecodeValue is Decode behind the ParseValue type guard.
func DecodeValue(v any) (RGB, error) {
	h, err := ParseValue(v)
	if err != nil {
		return RGB{}, err
	}
	return Decode(h)
}

// Encode formats c as 6 lowercase hex digits without a '#'.
// A channel outside [0,255] fails with ErrChannelRange.
func Encode(c RGB) (Hex, error) {
	for _, v := range c.Array() {
		if v < 0 || v > 255 {
			return "", fmt.Errorf("%w: %+v", ErrChannelRange, c)
		}
	}
	return FromBytes(byte(c.R), byte(c.G), byte(c.B)), nil
}

// FromBytes formats three channel bytes as 6 lowercase hex digits.
func FromBytes(r, g, b byte) Hex {
	return Hex(fmt.Sprintf("%02x%02x%02x", r, g, b))
}

// Random returns a uniformly random 24-bit color as 6 lowercase hex digits.
func Random() Hex {
	var b [4]byte
	_, _ = rand.Read(b[1:])
	return Hex(fmt.Sprintf("%06x", binary.BigEndian.Uint32(b[:])))
}
