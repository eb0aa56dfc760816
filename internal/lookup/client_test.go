package lookup

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"platter/internal/fault"
	"platter/internal/freedb"
)

func TestClientQueryAndRead(t *testing.T) {
	var commands []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		commands = append(commands, r.URL.RawQuery)
		switch {
		case strings.HasPrefix(r.URL.RawQuery, "cmd=cddb+query+"):
			_, _ = w.Write([]byte(multiMatch))
		case strings.HasPrefix(r.URL.RawQuery, "cmd=cddb+read+"):
			_, _ = w.Write([]byte(readResponse))
		default:
			http.Error(w, "bad command", http.StatusBadRequest)
		}
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL+"/~cddb/cddb.cgi", nil)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	ctx := context.Background()
	id := freedb.DefaultIdentity()

	q, err := client.Query(ctx, canonicalAlbum(), id)
	if err != nil {
		t.Fatalf("Query returned error: %v", err)
	}
	if len(q.Matches) != 2 {
		t.Fatalf("expected 2 matches, got %+v", q.Matches)
	}

	r, err := client.Read(ctx, q.Matches[0].Category, q.Matches[0].DiscID, id)
	if err != nil {
		t.Fatalf("Read returned error: %v", err)
	}
	if r.Album.Title != "Live at Home" {
		t.Fatalf("unexpected album %+v", r.Album)
	}

	wantQuery := "cmd=cddb+query+0d023e02+2+150+21814+576&hello=emailname+emailhost.com+platter+0.0.3&proto=5"
	if len(commands) != 2 || commands[0] != wantQuery {
		t.Fatalf("unexpected commands sent: %q", commands)
	}
	if !strings.HasPrefix(commands[1], "cmd=cddb+read+rock+0d023e02&hello=") {
		t.Fatalf("unexpected read command: %q", commands[1])
	}
}

func TestClientHTTPErrorIsTransport(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down for maintenance", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL, nil)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	_, err = client.Do(context.Background(), "cmd=cddb+query")
	if !errors.Is(err, fault.ErrTransport) {
		t.Fatalf("expected transport error, got %v", err)
	}
	if !strings.Contains(err.Error(), "down for maintenance") {
		t.Fatalf("expected body snippet in error, got %v", err)
	}
}

func TestClientCanceledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("200 ok\n.\n"))
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL, nil)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := client.Do(ctx, "cmd=x"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context cancellation, got %v", err)
	}
}

func TestClientEncodingErrorPropagates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("210 ok\nDTITLE=\xff\xfe / x\n.\n"))
	}))
	defer srv.Close()

	dec, err := freedb.NewDecoder("utf-8")
	if err != nil {
		t.Fatalf("NewDecoder returned error: %v", err)
	}
	client, err := NewClient(srv.URL, dec)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	if _, err := client.Read(context.Background(), freedb.Rock, 1, freedb.DefaultIdentity()); !errors.Is(err, fault.ErrEncoding) {
		t.Fatalf("expected encoding error, got %v", err)
	}
}

func TestNewClientRequiresServer(t *testing.T) {
	if _, err := NewClient("  ", nil); !errors.Is(err, fault.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestClientRejectsOversizedBody(t *testing.T) {
	tests := []struct {
		name    string
		size    int
		wantErr bool
	}{
		{"at limit", maxResponseBytes, false},
		{"over limit", maxResponseBytes + 1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := strings.Repeat("x", tt.size)
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(body))
			}))
			defer srv.Close()

			client, err := NewClient(srv.URL, nil)
			if err != nil {
				t.Fatalf("NewClient returned error: %v", err)
			}
			raw, err := client.Do(context.Background(), "cmd=cddb+stat")
			if tt.wantErr {
				if !errors.Is(err, fault.ErrTransport) {
					t.Fatalf("expected transport error, got %d bytes, %v", len(raw), err)
				}
				return
			}
			if err != nil || len(raw) != tt.size {
				t.Fatalf("Do = %d bytes, %v", len(raw), err)
			}
		})
	}
}
