// Package eddystone encodes URLs into Eddystone-URL service data frames,
// following https://github.com/google/eddystone/tree/master/eddystone-url.
package eddystone

import (
	"encoding/hex"
	"fmt"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/darkhz/bluezero/api/errorkinds"
)

const (
	// FrameTypeURL is the frame type byte of an Eddystone-URL frame.
	FrameTypeURL = 0x10

	// MaxURLFrameLength is the largest frame that fits in the
	// Eddystone service data of a single advertisement.
	MaxURLFrameLength = 20
)

// ServiceUUID is the Eddystone service UUID (0xFEAA).
var ServiceUUID = uuid.MustParse("0000feaa-0000-1000-8000-00805f9b34fb")

// Frame is an encoded Eddystone-URL frame:
// frame type, tx power, scheme prefix and the compressed URL.
type Frame []byte

// Hex returns the frame as a hexadecimal string.
func (f Frame) Hex() string {
	return hex.EncodeToString(f)
}

// String returns the frame as a list of hexadecimal bytes.
func (f Frame) String() string {
	return fmt.Sprintf("% x", []byte(f))
}

// Encoder encodes URLs into Eddystone-URL frames.
type Encoder struct {
	// Strict rejects URLs without a recognized scheme prefix, and URLs with
	// characters that do not fit in a byte. Without it, the prefix code is
	// left out of the frame and such characters are truncated to their low byte.
	//
	// Bytes of url that are not valid UTF-8 are taken as characters of their own,
	// so a Latin-1 encoded url keeps its raw byte values in either mode.
	Strict bool
}

// EncodeURL encodes url into a frame, using the permissive encoder.
// It never fails.
func EncodeURL(url string, frameType, txPower byte) Frame {
	frame, _ := Encoder{}.Encode(url, frameType, txPower)

	return frame
}

// Encode encodes url into a frame that starts with frameType and txPower.
//
// The first prefix and the first suffix (in table order) that occur anywhere
// in url are compressed to their codes. The characters between the prefix and
// the suffix follow the prefix code, and the suffix code is followed by any
// characters after the suffix.
func (e Encoder) Encode(url string, frameType, txPower byte) (Frame, error) {
	prefix := findScheme(Prefixes, url)
	if !prefix.found && e.Strict {
		return nil, fmt.Errorf("%w: %q has no known prefix", errorkinds.ErrUnrecognizedScheme, url)
	}

	chars := splitChars(url)
	if e.Strict {
		for _, c := range chars {
			if c > 0xFF {
				return nil, fmt.Errorf("%w: %q in %q", errorkinds.ErrInvalidCharacter, c, url)
			}
		}
	}

	suffix := findScheme(Suffixes, url)
	bodyEnd := len(chars)
	if suffix.found {
		bodyEnd = suffix.start
	}

	frame := make(Frame, 0, 3+utf8.RuneCountInString(url))
	frame = append(frame, frameType, txPower)

	if prefix.found {
		frame = append(frame, prefix.code)
	}

	frame = appendChars(frame, chars, prefix.end, bodyEnd)

	if suffix.found {
		frame = append(frame, suffix.code)
		frame = appendChars(frame, chars, suffix.end, len(chars))
	}

	return frame, nil
}

// splitChars splits s into its characters. Unlike a rune conversion, an
// invalid UTF-8 byte becomes the character with the same value, not U+FFFD.
func splitChars(s string) []rune {
	chars := make([]rune, 0, utf8.RuneCountInString(s))
	for len(s) > 0 {
		c, size := utf8.DecodeRuneInString(s)
		if c == utf8.RuneError && size == 1 {
			c = rune(s[0])
		}

		chars = append(chars, c)
		s = s[size:]
	}

	return chars
}

// appendChars appends one byte per character of chars[from:to].
// An empty or inverted range appends nothing.
func appendChars(frame Frame, chars []rune, from, to int) Frame {
	for i := from; i < to; i++ {
		frame = append(frame, byte(chars[i]))
	}

	return frame
}

// DecodeURL expands a frame that carries a scheme prefix back into its URL.
//
// Body bytes that are valid expansion codes are replaced by their suffix, every
// other byte is taken as a single character.
func DecodeURL(frame []byte) (url string, frameType, txPower byte, err error) {
	if len(frame) < 3 {
		return "", 0, 0, fmt.Errorf("%w: a URL frame needs at least 3 bytes, got %d", errorkinds.ErrInvalidLength, len(frame))
	}

	frameType, txPower = frame[0], frame[1]

	prefix, ok := lookupCode(Prefixes, frame[2])
	if !ok {
		return "", frameType, txPower, fmt.Errorf("%w: prefix code %#02x", errorkinds.ErrUnrecognizedScheme, frame[2])
	}

	chars := []rune(prefix)
	for _, b := range frame[3:] {
		if suffix, ok := lookupCode(Suffixes, b); ok {
			chars = append(chars, []rune(suffix)...)
			continue
		}

		chars = append(chars, rune(b))
	}

	return string(chars), frameType, txPower, nil
}
