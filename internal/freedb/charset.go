package freedb

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"platter/internal/fault"
)

// DefaultCharset is 8-bit clean: every byte sequence decodes.
const DefaultCharset = "ISO-8859-1"

// Decoder turns raw response bytes into lines and decoded results using one
// text encoding. A Decoder holds no mutable state and is safe for concurrent
// use.
type Decoder struct {
	charset string
	enc     encoding.Encoding
	utf8    bool
}

// NewDecoder resolves an IANA charset name; empty selects DefaultCharset.
func NewDecoder(charset string) (*Decoder, error) {
	name := strings.TrimSpace(charset)
	if name == "" {
		name = DefaultCharset
	}
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil {
		return nil, fault.Wrap(fault.ErrInvalidInput, "freedb", "charset", fmt.Sprintf("unknown charset %q", name), err)
	}
	if enc == nil {
		return nil, fault.Invalid("freedb", "charset", fmt.Sprintf("charset %q is not supported", name))
	}
	canonical := canonicalName(enc, name)
	return &Decoder{
		charset: canonical,
		enc:     enc,
		utf8:    enc == unicode.UTF8 || strings.EqualFold(canonical, "UTF-8"),
	}, nil
}

// canonicalName prefers the MIME name ("ISO-8859-1") over the IANA one
// ("ISO_8859-1:1987").
func canonicalName(enc encoding.Encoding, fallback string) string {
	if name, err := ianaindex.MIME.Name(enc); err == nil && name != "" {
		return name
	}
	if name, err := ianaindex.IANA.Name(enc); err == nil && name != "" {
		return name
	}
	return fallback
}

// Charset returns the canonical name of the decoder's encoding.
func (d *Decoder) Charset() string {
	return d.charset
}

// Text decodes raw into a string. Invalid byte sequences fail with
// fault.ErrEncoding instead of being replaced.
func (d *Decoder) Text(raw []byte) (string, error) {
	if d.utf8 {
		out, _, err := transform.Bytes(encoding.UTF8Validator, raw)
		if err != nil {
			return "", fault.Wrap(fault.ErrEncoding, "freedb", "decode", d.charset, err)
		}
		return string(out), nil
	}
	out, err := d.enc.NewDecoder().Bytes(raw)
	if err != nil {
		return "", fault.Wrap(fault.ErrEncoding, "freedb", "decode", d.charset, err)
	}
	if err := d.checkReplacements(raw, out); err != nil {
		return "", err
	}
	return string(out), nil
}

// checkReplacements fails when the decoder substituted U+FFFD for bytes it
// could not map. A U+FFFD is genuine only if raw carries its encoded form.
func (d *Decoder) checkReplacements(raw, decoded []byte) error {
	found := bytes.Count(decoded, replacementUTF8)
	if found == 0 {
		return nil
	}
	encoded, err := d.enc.NewEncoder().Bytes(replacementUTF8)
	if err == nil && len(encoded) > 0 && bytes.Count(raw, encoded) >= found {
		return nil
	}
	return fault.Wrap(fault.ErrEncoding, "freedb", "decode", d.charset,
		fmt.Errorf("%d byte sequences are not valid %s", found, d.charset))
}

var replacementUTF8 = []byte(string(utf8.RuneError))

// Lines decodes raw and splits it into lines without line terminators.
func (d *Decoder) Lines(raw []byte) ([]string, error) {
	text, err := d.Text(raw)
	if err != nil {
		return nil, err
	}
	return SplitLines(text), nil
}

// Query decodes a raw query response.
func (d *Decoder) Query(raw []byte) (QueryResult, error) {
	lines, err := d.Lines(raw)
	if err != nil {
		return QueryResult{}, err
	}
	return ParseQueryLines(lines), nil
}

// Read decodes a raw read response.
func (d *Decoder) Read(raw []byte) (ReadResult, error) {
	lines, err := d.Lines(raw)
	if err != nil {
		return ReadResult{}, err
	}
	return ParseReadLines(lines), nil
}

// SplitLines splits text on newlines, trimming carriage returns and a
// trailing empty line.
func SplitLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, "\r")
	}
	return lines
}
