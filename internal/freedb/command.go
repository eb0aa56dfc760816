package freedb

import (
	"fmt"
	"strconv"
	"strings"

	"platter/internal/album"
	"platter/internal/discid"
	"platter/internal/fault"
)

// Request carries the inputs of either command kind. Query uses Album; Read
// uses DiscID and Category.
type Request struct {
	Album    album.Album
	DiscID   discid.ID
	Category Category
}

// Command builds the command string for kind.
func Command(kind CommandKind, req Request, id Identity) (string, error) {
	switch kind {
	case Query:
		return QueryCommand(req.Album, id)
	case Read:
		return ReadCommand(req.Category, req.DiscID, id)
	default:
		return "", fault.Invalid("freedb", "command", fmt.Sprintf("unsupported command kind %d", int(kind)))
	}
}

// QueryCommand builds a "cddb query" command for a.
func QueryCommand(a album.Album, id Identity) (string, error) {
	offsets, err := a.Offsets()
	if err != nil {
		return "", err
	}
	disc, err := discid.Compute(offsets)
	if err != nil {
		return "", err
	}
	tracks := len(offsets) - 1
	starts := make([]string, tracks)
	for i := 0; i < tracks; i++ {
		starts[i] = strconv.FormatUint(uint64(offsets[i]), 10)
	}
	total := offsets[tracks] / discid.FramesPerSecond

	return fmt.Sprintf("cmd=cddb+query+%s+%d+%s+%d&hello=%s+%s+%s+%s&proto=%s",
		disc.Hex(), tracks, strings.Join(starts, "+"), total,
		id.User, id.UserEmail, id.App, id.Version, id.Protocol), nil
}

// ReadCommand builds a "cddb read" command.
func ReadCommand(category Category, disc discid.ID, id Identity) (string, error) {
	if !category.Valid() {
		return "", fault.Invalid("freedb", "read command", fmt.Sprintf("unknown category %q", string(category)))
	}
	return fmt.Sprintf("cmd=cddb+read+%s+%s&hello=%s+%s+%s+%s&proto=%s",
		category, disc.Hex(), id.User, id.Host, id.App, id.Version, id.Protocol), nil
}

// URL joins a server endpoint and a command.
func URL(server, command string) string {
	server = strings.TrimSpace(server)
	if strings.Contains(server, "?") {
		return server + "&" + command
	}
	return server + "?" + command
}
