package sink

import (
	"strings"

	"golang.org/x/text/encoding/unicode"
)

// DecodeLossy converts b to a string, replacing each maximal ill-formed
// subsequence with U+FFFD.
func DecodeLossy(b []byte) string {
	out, err := unicode.UTF8.NewDecoder().Bytes(b)
	if err != nil {
		return strings.ToValidUTF8(string(b), "\uFFFD")
	}
	return string(out)
}
