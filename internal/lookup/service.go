package lookup

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"platter/internal/album"
	"platter/internal/config"
	"platter/internal/discid"
	"platter/internal/fault"
	"platter/internal/freedb"
	"platter/internal/logging"
)

// Service identifies discs against a single freedb server.
type Service struct {
	client   *Client
	identity freedb.Identity
	logger   *slog.Logger
}

// Identification is the outcome of a full query plus read.
type Identification struct {
	RequestID string            `json:"request_id"`
	Server    string            `json:"server"`
	DiscID    discid.ID         `json:"disc_id"`
	Matches   []freedb.Match    `json:"matches"`
	Match     freedb.Match      `json:"match"`
	Entry     freedb.ReadResult `json:"entry"`
	Album     album.Album       `json:"album"`
}

// NewService wires a client and identity together.
func NewService(client *Client, identity freedb.Identity, logger *slog.Logger) *Service {
	return &Service{
		client:   client,
		identity: identity,
		logger:   logging.Component(logger, "lookup"),
	}
}

// NewFromConfig builds a Service from configuration. A non-empty server
// overrides the configured one.
func NewFromConfig(cfg *config.Config, server string, logger *slog.Logger, opts ...Option) (*Service, error) {
	if cfg == nil {
		return nil, fault.Wrap(fault.ErrConfiguration, "lookup", "init", "config required", nil)
	}
	decoder, err := freedb.NewDecoder(cfg.Freedb.Charset)
	if err != nil {
		return nil, fault.Wrap(fault.ErrConfiguration, "lookup", "init", "charset", err)
	}
	if server == "" {
		server = cfg.Server()
	}
	base := []Option{WithTimeout(cfg.Timeout()), WithLogger(logger)}
	client, err := NewClient(server, decoder, append(base, opts...)...)
	if err != nil {
		return nil, err
	}
	return NewService(client, cfg.Identity(), logger), nil
}

// Client exposes the underlying transport.
func (s *Service) Client() *Client {
	return s.client
}

// Identity returns the hello identity used for commands.
func (s *Service) Identity() freedb.Identity {
	return s.identity
}

// Query sends a query command for a.
func (s *Service) Query(ctx context.Context, a album.Album) (freedb.QueryResult, error) {
	ctx = ensureRequestID(ctx)
	result, err := s.client.Query(ctx, a, s.identity)
	if err != nil {
		return freedb.QueryResult{}, err
	}
	if err := headerError("query", result.Header); err != nil {
		return result, err
	}
	return result, nil
}

// Read fetches one entry.
func (s *Service) Read(ctx context.Context, category freedb.Category, disc discid.ID) (freedb.ReadResult, error) {
	ctx = ensureRequestID(ctx)
	result, err := s.client.Read(ctx, category, disc, s.identity)
	if err != nil {
		return freedb.ReadResult{}, err
	}
	if err := headerError("read", result.Header); err != nil {
		return result, err
	}
	return result, nil
}

// Identify queries a, reads the candidate at index pick, and returns the
// entry merged onto a's track lengths.
func (s *Service) Identify(ctx context.Context, a album.Album, pick int) (Identification, error) {
	ctx = ensureRequestID(ctx)
	requestID, _ := logging.RequestIDFromContext(ctx)
	logger := logging.WithContext(ctx, s.logger)

	disc, err := a.DiscID()
	if err != nil {
		return Identification{}, err
	}
	out := Identification{RequestID: requestID, Server: s.client.Server(), DiscID: disc}
	logger = logger.With(logging.String(logging.FieldDiscID, disc.Hex()))
	logger.Info("identifying disc",
		logging.String(logging.FieldEventType, "lookup_start"),
		logging.Int("tracks", len(a.Tracks)))

	query, err := s.Query(ctx, a)
	if err != nil && !errors.Is(err, fault.ErrNotFound) {
		return out, err
	}
	out.Matches = query.Candidates()
	if len(out.Matches) == 0 {
		logging.Warn(logger, "no freedb match", "lookup_no_match",
			logging.String(logging.FieldErrorHint, "try another server or submit the disc"),
			logging.String(logging.FieldImpact, "disc left unidentified"))
		return out, fault.Wrap(fault.ErrNotFound, "lookup", "query", "no match for "+disc.Hex(), nil)
	}
	if pick < 0 || pick >= len(out.Matches) {
		return out, fault.Invalid("lookup", "pick", fmt.Sprintf("match %d out of range, %d available", pick+1, len(out.Matches)))
	}
	out.Match = out.Matches[pick]
	if len(out.Matches) > 1 {
		logger.Info("multiple freedb matches",
			logging.String(logging.FieldEventType, "lookup_ambiguous"),
			logging.Int("matches", len(out.Matches)),
			logging.Int("picked", pick+1))
	}

	entry, err := s.Read(ctx, out.Match.Category, out.Match.DiscID)
	if err != nil {
		return out, err
	}
	if entry.Empty() {
		return out, fault.Wrap(fault.ErrNotFound, "lookup", "read", "empty entry for "+out.Match.DiscID.Hex(), nil)
	}
	out.Entry = entry
	out.Album = Merge(a, entry.Album)

	logger.Info("disc identified",
		logging.String(logging.FieldEventType, "lookup_complete"),
		logging.String("category", string(out.Match.Category)),
		logging.String("artist", out.Album.Artist),
		logging.String("title", out.Album.Title))
	return out, nil
}

// Merge copies names from entry onto probed's track layout. Tracks beyond
// the shorter of the two lists keep their probed values.
func Merge(probed, entry album.Album) album.Album {
	out := probed.WithMetadata(entry.Title, entry.Artist, entry.Year, entry.Genre)
	for i := range out.Tracks {
		if i >= len(entry.Tracks) {
			break
		}
		out.Tracks[i].Artist = entry.Tracks[i].Artist
		out.Tracks[i].Title = entry.Tracks[i].Title
	}
	return out
}

func ensureRequestID(ctx context.Context) context.Context {
	if _, ok := logging.RequestIDFromContext(ctx); ok {
		return ctx
	}
	return logging.WithRequestID(ctx, uuid.NewString())
}

// headerError maps freedb status codes to error categories.
func headerError(operation string, header freedb.Header) error {
	if !header.Valid {
		return fault.Wrap(fault.ErrTransport, "lookup", operation, "response has no status line", nil)
	}
	switch {
	case header.Code == freedb.StatusNoMatch, header.Code == freedb.StatusEntryNotFound:
		return fault.Wrap(fault.ErrNotFound, "lookup", operation, fmt.Sprintf("%d %s", header.Code, header.Text), nil)
	case header.Code >= 400:
		return fault.Wrap(fault.ErrTransport, "lookup", operation, fmt.Sprintf("server refused: %d %s", header.Code, header.Text), nil)
	}
	return nil
}
