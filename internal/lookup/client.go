package lookup

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"platter/internal/album"
	"platter/internal/discid"
	"platter/internal/fault"
	"platter/internal/freedb"
	"platter/internal/logging"
)

const maxResponseBytes = 1 << 20

// Client sends commands to one freedb server over HTTP GET. It performs a
// single attempt per call.
type Client struct {
	server     string
	decoder    *freedb.Decoder
	httpClient *http.Client
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logging.Component(logger, "freedb")
		}
	}
}

// WithTimeout sets the default HTTP client's timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient = &http.Client{Timeout: timeout}
		}
	}
}

// NewClient creates a client for server, decoding responses with decoder.
func NewClient(server string, decoder *freedb.Decoder, opts ...Option) (*Client, error) {
	server = strings.TrimSpace(server)
	if server == "" {
		return nil, fault.Invalid("freedb", "client", "server url required")
	}
	if decoder == nil {
		var err error
		if decoder, err = freedb.NewDecoder(freedb.DefaultCharset); err != nil {
			return nil, err
		}
	}
	c := &Client{
		server:     server,
		decoder:    decoder,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		logger:     logging.Component(nil, "freedb"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Server returns the endpoint the client talks to.
func (c *Client) Server() string {
	return c.server
}

// Decoder returns the response decoder.
func (c *Client) Decoder() *freedb.Decoder {
	return c.decoder
}

// Do sends command and returns the raw response body.
func (c *Client) Do(ctx context.Context, command string) ([]byte, error) {
	target := freedb.URL(c.server, command)
	logger := logging.WithContext(ctx, c.logger)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fault.Wrap(fault.ErrInvalidInput, "freedb", "build request", target, err)
	}
	req.Header.Set("Accept", "text/plain")

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fault.Wrap(fault.ErrTransport, "freedb", "get", c.server, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fault.Wrap(fault.ErrTransport, "freedb", "get",
			fmt.Sprintf("%s returned %s: %s", c.server, resp.Status, strings.TrimSpace(string(snippet))), nil)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes+1))
	if err != nil {
		return nil, fault.Wrap(fault.ErrTransport, "freedb", "read body", c.server, err)
	}
	if len(body) > maxResponseBytes {
		return nil, fault.Wrap(fault.ErrTransport, "freedb", "read body",
			fmt.Sprintf("%s sent more than %d bytes", c.server, maxResponseBytes), nil)
	}

	logger.Debug("freedb response received",
		logging.String(logging.FieldEventType, "freedb_response"),
		logging.String("server", c.server),
		logging.Int("bytes", len(body)),
		logging.Duration("elapsed", time.Since(started)))
	return body, nil
}

// Query sends a query command for a and decodes the response.
func (c *Client) Query(ctx context.Context, a album.Album, id freedb.Identity) (freedb.QueryResult, error) {
	cmd, err := freedb.QueryCommand(a, id)
	if err != nil {
		return freedb.QueryResult{}, err
	}
	raw, err := c.Do(ctx, cmd)
	if err != nil {
		return freedb.QueryResult{}, err
	}
	return c.decoder.Query(raw)
}

// Read sends a read command and decodes the response.
func (c *Client) Read(ctx context.Context, category freedb.Category, disc discid.ID, id freedb.Identity) (freedb.ReadResult, error) {
	cmd, err := freedb.ReadCommand(category, disc, id)
	if err != nil {
		return freedb.ReadResult{}, err
	}
	raw, err := c.Do(ctx, cmd)
	if err != nil {
		return freedb.ReadResult{}, err
	}
	return c.decoder.Read(raw)
}
