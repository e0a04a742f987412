package datatypes

import (
	"fmt"

	"github.com/darkhz/bluezero/api/errorkinds"
)

// Width describes the size of a fixed-width unsigned integer, in bytes.
type Width int

// The supported unsigned integer widths.
const (
	Uint8  Width = 1
	Uint16 Width = 2
	Uint24 Width = 3
	Uint32 Width = 4
)

// maxDecodeBytes is the number of bytes a decoded value can occupy
// before it overflows a uint64.
const maxDecodeBytes = 8

// Max returns the largest value that can be encoded in the width.
func (w Width) Max() int64 {
	return int64(1)<<(8*uint(w)) - 1
}

// String returns the presentation format name of the width.
func (w Width) String() string {
	return fmt.Sprintf("uint%d", 8*int(w))
}

// Encode encodes value as a little-endian byte array that is exactly
// as long as the width. Negative values, and values that do not fit in
// the width, are rejected with errorkinds.ErrRange before anything is encoded.
func (w Width) Encode(value int) ([]byte, error) {
	if value < 0 {
		return nil, fmt.Errorf("%w: %d can't be negative for %s", errorkinds.ErrRange, value, w)
	}
	if int64(value) > w.Max() {
		return nil, fmt.Errorf("%w: %d is too large for %s", errorkinds.ErrRange, value, w)
	}

	b := make([]byte, w)
	for i := range b {
		b[i] = byte(value >> (8 * i))
	}

	return b, nil
}

// Decode interprets value as a little-endian unsigned integer.
//
// Every provided byte takes part in the result, so arrays longer than the
// width are not truncated to it. The only failure is a value that cannot
// be represented in 64 bits, which returns errorkinds.ErrRange.
func (w Width) Decode(value []byte) (uint64, error) {
	var n uint64

	for i, b := range value {
		if i >= maxDecodeBytes {
			if b != 0 {
				return 0, fmt.Errorf("%w: %d bytes overflow a 64-bit value", errorkinds.ErrRange, len(value))
			}

			continue
		}

		n |= uint64(b) << (8 * i)
	}

	return n, nil
}

// DecodeStrict is like Decode, but rejects arrays whose length is not
// exactly the width with errorkinds.ErrInvalidLength.
func (w Width) DecodeStrict(value []byte) (uint64, error) {
	if len(value) != int(w) {
		return 0, fmt.Errorf("%w: %s needs %d bytes, got %d", errorkinds.ErrInvalidLength, w, w, len(value))
	}

	return w.Decode(value)
}

// EncodeUint16 encodes value as a 2-byte little-endian array.
func EncodeUint16(value int) ([]byte, error) {
	return Uint16.Encode(value)
}

// DecodeUint16 decodes a little-endian array of 2 or more bytes.
func DecodeUint16(value []byte) (uint64, error) {
	return Uint16.Decode(value)
}

// DecodeUint16Strict decodes a little-endian array of exactly 2 bytes.
func DecodeUint16Strict(value []byte) (uint16, error) {
	n, err := Uint16.DecodeStrict(value)

	return uint16(n), err
}
