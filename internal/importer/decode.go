package importer

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// Encoding names a text encoding tried when decoding a bank export.
type Encoding string

const (
	EncodingUTF8     Encoding = "utf-8"
	EncodingLatin1   Encoding = "latin-1"
	EncodingCP1252   Encoding = "cp1252"
	EncodingISO88591 Encoding = "iso-8859-1"
	// EncodingNone marks spreadsheet input, which carries no text encoding.
	EncodingNone Encoding = "none"
)

// Encodings is the decode order for CSV exports.
var Encodings = []Encoding{EncodingUTF8, EncodingLatin1, EncodingCP1252, EncodingISO88591}

// errUndecodable is returned by a single decoder that rejects the input.
var errUndecodable = errors.New("undecodable")

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Decode converts data to a string using the first encoding in Encodings that accepts it.
func Decode(data []byte) (string, Encoding, error) {
	var errs []error
	for _, enc := range Encodings {
		s, err := decodeAs(enc, data)
		if err == nil {
			return s, enc, nil
		}
		errs = append(errs, fmt.Errorf("%s: %w", enc, err))
	}
	return "", "", fmt.Errorf("no encoding matched: %w", errors.Join(errs...))
}

func decodeAs(enc Encoding, data []byte) (string, error) {
	switch enc {
	case EncodingUTF8:
		data = bytes.TrimPrefix(data, utf8BOM)
		if !utf8.Valid(data) {
			return "", errUndecodable
		}
		return string(data), nil
	case EncodingLatin1:
		return strictDecode(charmap.ISO8859_1, data)
	case EncodingCP1252:
		return strictDecode(charmap.Windows1252, data)
	case EncodingISO88591:
		// Last resort: every byte maps to a code point.
		out, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
		if err != nil {
			return "", err
		}
		return string(out), nil
	default:
		return "", fmt.Errorf("unsupported encoding %q", enc)
	}
}

// strictDecode rejects output containing C1 control characters or replacement
// characters: in a bank export those only appear when the guess is wrong.
func strictDecode(cm *charmap.Charmap, data []byte) (string, error) {
	out, err := cm.NewDecoder().Bytes(data)
	if err != nil {
		return "", err
	}
	s := string(out)
	if strings.ContainsFunc(s, func(r rune) bool {
		return r == utf8.RuneError || (r >= 0x80 && r <= 0x9F)
	}) {
		return "", errUndecodable
	}
	return s, nil
}
