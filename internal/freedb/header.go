package freedb

import (
	"strconv"
	"strings"
)

// Status codes a freedb server commonly returns. The decoders never act on
// them; they are exported for callers.
const (
	StatusExactMatch     = 200
	StatusNoMatch        = 202
	StatusExactMatches   = 210
	StatusInexactMatches = 211
	StatusEntryNotFound  = 401
	StatusServerError    = 402
	StatusEntryCorrupt   = 403
	StatusNoHandshake    = 409
)

// Header is the first response line: a numeric status code and free text.
// Valid is false when the line does not start with a status code.
type Header struct {
	Code  int    `json:"code"`
	Text  string `json:"text"`
	Valid bool   `json:"valid"`
}

// ParseHeader splits line on its first space into status code and text.
func ParseHeader(line string) Header {
	line = strings.TrimRight(line, "\r\n")
	code, text, _ := strings.Cut(line, " ")
	if code == "" || !isDigits(code) {
		return Header{Text: line}
	}
	n, err := strconv.Atoi(code)
	if err != nil {
		return Header{Text: line}
	}
	return Header{Code: n, Text: text, Valid: true}
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return s != ""
}
