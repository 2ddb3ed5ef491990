package parser

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// DecodeText normalizes uploaded bytes to UTF-8. It strips BOMs, decodes
// UTF-16 exports (common from SAP GUI downloads) and falls back to Latin-1
// for byte sequences that are not valid UTF-8.
func DecodeText(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return data, nil
	}

	if bytes.HasPrefix(data, bomUTF8) {
		return data[len(bomUTF8):], nil
	}

	if bytes.HasPrefix(data, bomUTF16LE) {
		dec := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder()
		out, err := dec.Bytes(data[len(bomUTF16LE):])
		if err != nil {
			return nil, fmt.Errorf("utf-16le decode failed: %w", err)
		}
		return out, nil
	}

	if bytes.HasPrefix(data, bomUTF16BE) {
		dec := unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewDecoder()
		out, err := dec.Bytes(data[len(bomUTF16BE):])
		if err != nil {
			return nil, fmt.Errorf("utf-16be decode failed: %w", err)
		}
		return out, nil
	}

	if utf8.Valid(data) {
		return data, nil
	}

	out, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return nil, fmt.Errorf("latin-1 decode failed: %w", err)
	}
	return out, nil
}
