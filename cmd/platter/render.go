package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/mattn/go-isatty"

	"platter/internal/album"
	"platter/internal/catalog"
	"platter/internal/freedb"
)

const (
	ansiBold  = "\033[1m"
	ansiBlue  = "\033[34m"
	ansiReset = "\033[0m"
)

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func heading(out io.Writer, format string, args ...any) {
	line := fmt.Sprintf(format, args...)
	if shouldColorize(out) {
		line = ansiBold + ansiBlue + line + ansiReset
	}
	fmt.Fprintln(out, line)
}

// renderAlbum prints the album header and its track table. Offsets are
// shown only when the album has timing.
func renderAlbum(out io.Writer, a album.Album) {
	title := a.Title
	if title == "" {
		title = "(untitled)"
	}
	if a.Artist != "" {
		heading(out, "%s - %s", a.Artist, title)
	} else {
		heading(out, "%s", title)
	}
	var meta []string
	if a.Year != "" {
		meta = append(meta, "Year: "+a.Year)
	}
	if a.Genre != "" {
		meta = append(meta, "Genre: "+a.Genre)
	}
	if len(meta) > 0 {
		fmt.Fprintln(out, strings.Join(meta, " | "))
	}
	if len(a.Tracks) == 0 {
		fmt.Fprintln(out, "No tracks")
		return
	}

	offsets, err := a.Offsets()
	timed := err == nil && hasTiming(a)
	columns := []column{{"#", true}, {"Artist", false}, {"Title", false}}
	if timed {
		columns = append(columns, column{"Length", true}, column{"Offset", true})
	}
	rows := make([][]string, 0, len(a.Tracks))
	for i, track := range a.Tracks {
		row := []string{strconv.Itoa(i + 1), track.Artist, track.Title}
		if timed {
			row = append(row, album.FormatLength(track.Seconds()), strconv.FormatUint(uint64(offsets[i]), 10))
		}
		rows = append(rows, row)
	}
	fmt.Fprintln(out, renderTable(columns, rows))
}

func hasTiming(a album.Album) bool {
	for _, track := range a.Tracks {
		if track.Sectors > 0 {
			return true
		}
	}
	return false
}

func renderMatches(out io.Writer, matches []freedb.Match) {
	if len(matches) == 0 {
		fmt.Fprintln(out, "No matches")
		return
	}
	rows := make([][]string, 0, len(matches))
	for i, m := range matches {
		rows = append(rows, []string{strconv.Itoa(i + 1), string(m.Category), m.DiscID.Hex(), m.Artist, m.Title})
	}
	fmt.Fprintln(out, renderTable([]column{
		{"#", true}, {"Category", false}, {"Disc ID", false}, {"Artist", false}, {"Title", false},
	}, rows))
}

func renderEntries(out io.Writer, entries []catalog.Entry) {
	const stampLayout = "2006-01-02"
	rows := make([][]string, 0, len(entries))
	for i, e := range entries {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			e.DiscID.Hex(),
			string(e.Category),
			e.Album.Artist,
			e.Album.Title,
			e.Album.Year,
			strconv.Itoa(len(e.Album.Tracks)),
			e.UpdatedAt.Local().Format(stampLayout),
		})
	}
	fmt.Fprintln(out, renderTable([]column{
		{"#", true}, {"Disc ID", false}, {"Category", false}, {"Artist", false},
		{"Title", false}, {"Year", false}, {"Tracks", true}, {"Saved", false},
	}, rows))
}

func renderHeader(out io.Writer, h freedb.Header) {
	if !h.Valid {
		fmt.Fprintln(out, "Status: (no status line)")
		return
	}
	fmt.Fprintf(out, "Status: %d %s\n", h.Code, h.Text)
}
