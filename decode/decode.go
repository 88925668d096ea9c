// Package decode converts MIME body parts fetched over IMAP into usable
// bytes: content-transfer-encoding decoding plus charset conversion to
// UTF-8.
package decode

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/emersion/go-message/charset"
	"golang.org/x/text/encoding/charmap"

	"github.com/tidemail/imap"
)

// ErrInvalidBase64 reports base64 part data that cannot be decoded.
var ErrInvalidBase64 = errors.New("decode: invalid base64 data")

// ErrUnknownEncoding reports a content-transfer-encoding this package does
// not handle.
var ErrUnknownEncoding = errors.New("decode: unknown content-transfer-encoding")

// Transfer decodes a content-transfer-encoding. The empty encoding, 7bit,
// 8bit and binary pass data through unchanged. Encoding names are matched
// case-insensitively.
func Transfer(encoding string, data []byte) ([]byte, error) {
	switch strings.ToLower(encoding) {
	case "", "7bit", "8bit", "binary":
		return data, nil
	case "base64":
		return transferBase64(data)
	case "quoted-printable":
		return transferQuotedPrintable(data), nil
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownEncoding, encoding)
	}
}

func transferBase64(data []byte) ([]byte, error) {
	// Mail base64 is wrapped into lines; strip all whitespace first.
	clean := make([]byte, 0, len(data))
	for _, ch := range data {
		switch ch {
		case '\r', '\n', ' ', '\t':
		default:
			clean = append(clean, ch)
		}
	}
	out := make([]byte, base64.StdEncoding.DecodedLen(len(clean)))
	n, err := base64.StdEncoding.Decode(out, clean)
	if err != nil {
		return nil, ErrInvalidBase64
	}
	return out[:n], nil
}

// transferQuotedPrintable is deliberately lenient, per RFC 2045's robustness
// guidance: soft line breaks ("=\r\n" and "=\n") are removed, "=XX" hex
// pairs are decoded case-insensitively, and any other "=" is passed through
// as a literal byte.
func transferQuotedPrintable(data []byte) []byte {
	out := make([]byte, 0, len(data))
	for i := 0; i < len(data); {
		ch := data[i]
		if ch != '=' {
			out = append(out, ch)
			i++
			continue
		}
		if i+1 < len(data) && data[i+1] == '\n' {
			i += 2
			continue
		}
		if i+2 < len(data) && data[i+1] == '\r' && data[i+2] == '\n' {
			i += 3
			continue
		}
		if i+2 < len(data) {
			hi, ok1 := unhex(data[i+1])
			lo, ok2 := unhex(data[i+2])
			if ok1 && ok2 {
				out = append(out, hi<<4|lo)
				i += 3
				continue
			}
		}
		out = append(out, '=')
		i++
	}
	return out
}

func unhex(ch byte) (byte, bool) {
	switch {
	case ch >= '0' && ch <= '9':
		return ch - '0', true
	case ch >= 'A' && ch <= 'F':
		return ch - 'A' + 10, true
	case ch >= 'a' && ch <= 'f':
		return ch - 'a' + 10, true
	}
	return 0, false
}

// Charset converts data from the named charset to UTF-8. UTF-8 and US-ASCII
// pass through. An unknown charset also passes the data through unchanged
// rather than failing, so that callers still get something displayable.
func Charset(name string, data []byte) ([]byte, error) {
	lower := strings.ToLower(name)
	switch lower {
	case "", "utf-8", "us-ascii", "ascii":
		return data, nil
	case "iso-8859-1", "latin1":
		return charmapBytes(charmap.ISO8859_1, data), nil
	case "windows-1252", "cp1252":
		return charmapBytes(charmap.Windows1252, data), nil
	}
	r, err := charset.Reader(lower, bytes.NewReader(data))
	if err != nil {
		return data, nil
	}
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("decode: charset %q: %v", name, err)
	}
	return out, nil
}

func charmapBytes(cm *charmap.Charmap, data []byte) []byte {
	out, err := cm.NewDecoder().Bytes(data)
	if err != nil {
		return data
	}
	return out
}

// Part decodes a fetched body part using its body structure: the transfer
// encoding first, then the charset parameter for text parts.
func Part(bs *imap.BodyStructure, data []byte) ([]byte, error) {
	out, err := Transfer(bs.Encoding, data)
	if err != nil {
		return nil, err
	}
	if strings.EqualFold(bs.Type, "text") {
		return Charset(bs.Params["charset"], out)
	}
	return out, nil
}
