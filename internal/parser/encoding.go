package parser

import (
	"bytes"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/unicode/norm"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// DecodeText turns raw bytes of a plain-text statute into NFC UTF-8.
// Input that is not valid UTF-8 is assumed to be Windows-1254, the legacy
// Turkish code page most older statute exports use.
func DecodeText(data []byte) (string, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if !utf8.Valid(data) {
		decoded, err := charmap.Windows1254.NewDecoder().Bytes(data)
		if err != nil {
			return "", err
		}
		data = decoded
	}
	return norm.NFC.String(string(data)), nil
}

// normalize composes decomposed characters (e.g. "s" + U+0327 from some PDF
// producers) so that later pattern matching sees the precomposed letters.
func normalize(s string) string {
	return norm.NFC.String(s)
}
