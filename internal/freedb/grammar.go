package freedb

import "strings"

const terminator = "."

// lineRule is one entry of a decoder's grammar. apply reports whether the line
// matched; a matching rule has already folded the line into acc.
type lineRule[T any] struct {
	name  string
	apply func(line string, acc *T) bool
}

// dispatch feeds every line to the first rule that accepts it. Lines no rule
// accepts are skipped.
func dispatch[T any](rules []lineRule[T], lines []string, acc *T) {
	for _, line := range lines {
		for _, rule := range rules {
			if rule.apply(line, acc) {
				break
			}
		}
	}
}

// splitResponse separates the header line from the body and drops a final
// terminator line. Carriage returns are trimmed from every line.
func splitResponse(lines []string) (string, []string) {
	if len(lines) == 0 {
		return "", nil
	}
	body := make([]string, 0, len(lines)-1)
	for _, line := range lines[1:] {
		body = append(body, strings.TrimRight(line, "\r"))
	}
	if n := len(body); n > 0 && strings.TrimSpace(body[n-1]) == terminator {
		body = body[:n-1]
	}
	return strings.TrimRight(lines[0], "\r"), body
}

// splitArtistTitle applies the "<artist> / <title>" sub-grammar. The first
// separator splits; the title is the remainder of the value.
func splitArtistTitle(value string) (artist, title string, ok bool) {
	artist, title, found := strings.Cut(value, " / ")
	if !found || artist == "" {
		return "", "", false
	}
	return artist, title, true
}

// cutTag matches "<tag>=<value>" and returns the value.
func cutTag(line, tag string) (string, bool) {
	if !strings.HasPrefix(line, tag) || len(line) <= len(tag) || line[len(tag)] != '=' {
		return "", false
	}
	return line[len(tag)+1:], true
}

// cutIndexedTag matches "<prefix><digits>=<value>" and returns the value.
func cutIndexedTag(line, prefix string) (string, bool) {
	if !strings.HasPrefix(line, prefix) {
		return "", false
	}
	rest := line[len(prefix):]
	eq := strings.IndexByte(rest, '=')
	if eq <= 0 || !isDigits(rest[:eq]) {
		return "", false
	}
	return rest[eq+1:], true
}
