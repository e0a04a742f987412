package eddystone

import (
	"strings"
	"unicode/utf8"
)

// Scheme is an entry of the Eddystone-URL expansion tables: a literal
// and the single byte it is compressed to.
type Scheme struct {
	Literal string
	Code    byte
}

// Prefixes holds the URL scheme prefixes, in match priority order.
var Prefixes = []Scheme{
	{"http://www.", 0x00},
	{"https://www.", 0x01},
	{"http://", 0x02},
	{"https://", 0x03},
}

// Suffixes holds the URL expansion codes, in match priority order.
// The forms with a trailing slash are listed before the bare forms.
var Suffixes = []Scheme{
	{".com/", 0x00},
	{".org/", 0x01},
	{".edu/", 0x02},
	{".net/", 0x03},
	{".info/", 0x04},
	{".biz/", 0x05},
	{".gov/", 0x06},
	{".com", 0x07},
	{".org", 0x08},
	{".edu", 0x09},
	{".net", 0x0A},
	{".info", 0x0B},
	{".biz", 0x0C},
	{".gov", 0x0D},
}

// match holds the position of a matched scheme within a URL.
// The offsets are counted in characters, not bytes.
type match struct {
	code       byte
	start, end int
	found      bool
}

// findScheme returns the first scheme in table order whose literal occurs in url,
// positioned at the leftmost occurrence of that literal.
func findScheme(table []Scheme, url string) match {
	for _, s := range table {
		i := strings.Index(url, s.Literal)
		if i < 0 {
			continue
		}

		// Offsets count characters the way splitChars does.
		start := utf8.RuneCountInString(url[:i])

		return match{
			code:  s.Code,
			start: start,
			end:   start + utf8.RuneCountInString(s.Literal),
			found: true,
		}
	}

	return match{}
}

// lookupCode returns the literal that code expands to in table.
func lookupCode(table []Scheme, code byte) (string, bool) {
	for _, s := range table {
		if s.Code == code {
			return s.Literal, true
		}
	}

	return "", false
}
