package freedb

import (
	"strings"

	"platter/internal/discid"
)

// Match is one candidate release returned by a query.
type Match struct {
	Category Category  `json:"category"`
	DiscID   discid.ID `json:"disc_id"`
	Artist   string    `json:"artist"`
	Title    string    `json:"title"`
}

// QueryResult is a decoded query response. Matches keeps server order.
type QueryResult struct {
	Header  Header  `json:"header"`
	Matches []Match `json:"matches"`
}

// Candidates returns Matches, or the match carried in the header line of a
// 200 (single exact match) response when the body is empty.
func (r QueryResult) Candidates() []Match {
	if len(r.Matches) > 0 {
		return r.Matches
	}
	if r.Header.Valid && r.Header.Code == StatusExactMatch {
		if m, ok := parseMatch(r.Header.Text); ok {
			return []Match{m}
		}
	}
	return nil
}

var queryRules = []lineRule[QueryResult]{
	{
		name: "match",
		apply: func(line string, acc *QueryResult) bool {
			m, ok := parseMatch(line)
			if ok {
				acc.Matches = append(acc.Matches, m)
			}
			return ok
		},
	},
}

// ParseQueryLines decodes the lines of a query response.
func ParseQueryLines(lines []string) QueryResult {
	head, body := splitResponse(lines)
	result := QueryResult{Header: ParseHeader(head), Matches: []Match{}}
	if len(lines) == 0 {
		return result
	}
	dispatch(queryRules, body, &result)
	return result
}

// parseMatch applies "<category> <8 hex digits> <artist> / <title>".
func parseMatch(line string) (Match, bool) {
	token, rest, ok := strings.Cut(line, " ")
	if !ok {
		return Match{}, false
	}
	category := Category(token)
	if !category.Valid() {
		return Match{}, false
	}
	hex, rest, ok := strings.Cut(rest, " ")
	if !ok || len(hex) != 8 {
		return Match{}, false
	}
	id, err := discid.ParseID(hex)
	if err != nil {
		return Match{}, false
	}
	artist, title, ok := splitArtistTitle(rest)
	if !ok {
		return Match{}, false
	}
	return Match{Category: category, DiscID: id, Artist: artist, Title: title}, true
}
