package bluez

import (
	"strings"

	"github.com/darkhz/bluezero/api/errorkinds"
)

// Address represents a Bluetooth device address, most significant byte first.
type Address [6]byte

// ParseAddress parses an address in the AA:BB:CC:DD:EE:FF form.
// Both upper and lower case hexadecimal digits are accepted.
func ParseAddress(s string) (Address, error) {
	var addr Address

	parts := strings.Split(s, ":")
	if len(parts) != len(addr) {
		return addr, errorkinds.ErrInvalidAddress
	}

	for i, part := range parts {
		if len(part) != 2 {
			return addr, errorkinds.ErrInvalidAddress
		}

		hi, ok := nibble(part[0])
		if !ok {
			return addr, errorkinds.ErrInvalidAddress
		}

		lo, ok := nibble(part[1])
		if !ok {
			return addr, errorkinds.ErrInvalidAddress
		}

		addr[i] = hi<<4 | lo
	}

	return addr, nil
}

// String returns the address in the AA:BB:CC:DD:EE:FF form, as Bluez reports it.
func (a Address) String() string {
	const digits = "0123456789ABCDEF"

	var sb strings.Builder
	sb.Grow(17)

	for i, b := range a {
		if i > 0 {
			sb.WriteByte(':')
		}

		sb.WriteByte(digits[b>>4])
		sb.WriteByte(digits[b&0x0f])
	}

	return sb.String()
}

// nibble returns the value of a hexadecimal digit.
func nibble(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 0xA, true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 0xA, true
	}

	return 0, false
}
