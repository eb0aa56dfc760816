package freedb

import (
	"fmt"

	"platter/internal/album"
)

// Generator builds commands for many albums with one stored identity, using
// the identity's QueryType and Category as defaults.
type Generator struct {
	identity Identity
}

// NewGenerator stores a copy of id.
func NewGenerator(id Identity) *Generator {
	return &Generator{identity: id}
}

// Identity returns the stored identity.
func (g *Generator) Identity() Identity {
	return g.identity
}

// Command builds the default command kind for a. Read commands derive the
// disc id from a and use the default category.
func (g *Generator) Command(a album.Album) (string, error) {
	req := Request{Album: a, Category: g.identity.Category}
	if g.identity.QueryType == Read {
		disc, err := a.DiscID()
		if err != nil {
			return "", err
		}
		req.DiscID = disc
	}
	return Command(g.identity.QueryType, req, g.identity)
}

// Commands builds one command per album, stopping at the first failure.
func (g *Generator) Commands(albums []album.Album) ([]string, error) {
	out := make([]string, 0, len(albums))
	for i, a := range albums {
		cmd, err := g.Command(a)
		if err != nil {
			return nil, fmt.Errorf("album %d: %w", i+1, err)
		}
		out = append(out, cmd)
	}
	return out, nil
}

// URL builds the full request URL for a against server.
func (g *Generator) URL(server string, a album.Album) (string, error) {
	cmd, err := g.Command(a)
	if err != nil {
		return "", err
	}
	return URL(server, cmd), nil
}
