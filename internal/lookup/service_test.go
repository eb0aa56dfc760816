package lookup

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"platter/internal/album"
	"platter/internal/config"
	"platter/internal/fault"
	"platter/internal/freedb"
	"platter/internal/logging"
)

type fakeServer struct {
	mu       sync.Mutex
	query    string
	read     string
	commands []string
}

func (f *fakeServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.commands = append(f.commands, r.URL.RawQuery)
	f.mu.Unlock()
	switch {
	case strings.HasPrefix(r.URL.RawQuery, "cmd=cddb+query+"):
		_, _ = w.Write([]byte(f.query))
	case strings.HasPrefix(r.URL.RawQuery, "cmd=cddb+read+"):
		_, _ = w.Write([]byte(f.read))
	default:
		http.Error(w, "bad command", http.StatusBadRequest)
	}
}

func newTestService(t *testing.T, fake *fakeServer) *Service {
	t.Helper()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	cfg := config.Default()
	svc, err := NewFromConfig(&cfg, srv.URL+"/~cddb/cddb.cgi", logging.Nop())
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	return svc
}

func TestIdentifyMergesEntryOntoProbedTracks(t *testing.T) {
	fake := &fakeServer{query: multiMatch, read: readResponse}
	svc := newTestService(t, fake)

	got, err := svc.Identify(context.Background(), canonicalAlbum(), 0)
	if err != nil {
		t.Fatalf("Identify returned error: %v", err)
	}
	if got.RequestID == "" {
		t.Fatal("expected a request id")
	}
	if got.DiscID != 0x0d023e02 || got.Match.Category != freedb.Rock {
		t.Fatalf("unexpected match %+v", got.Match)
	}
	if len(got.Matches) != 2 {
		t.Fatalf("expected both matches retained, got %d", len(got.Matches))
	}
	a := got.Album
	if a.Artist != "Some Band" || a.Title != "Live at Home" || a.Year != "1999" {
		t.Fatalf("unexpected album metadata %+v", a)
	}
	if a.Tracks[0].Sectors != 21664 || a.Tracks[0].Title != "Opening" || a.Tracks[0].Artist != "Guest" {
		t.Fatalf("unexpected first track %+v", a.Tracks[0])
	}
	if a.Tracks[1].Sectors != 21405 || a.Tracks[1].Title != "Closing" {
		t.Fatalf("unexpected second track %+v", a.Tracks[1])
	}
	if len(fake.commands) != 2 || !strings.HasPrefix(fake.commands[1], "cmd=cddb+read+rock+0d023e02") {
		t.Fatalf("unexpected commands %q", fake.commands)
	}
}

func TestIdentifyPicksRequestedMatch(t *testing.T) {
	fake := &fakeServer{query: multiMatch, read: readResponse}
	svc := newTestService(t, fake)

	got, err := svc.Identify(context.Background(), canonicalAlbum(), 1)
	if err != nil {
		t.Fatalf("Identify returned error: %v", err)
	}
	if got.Match.Category != freedb.Misc {
		t.Fatalf("expected misc match, got %+v", got.Match)
	}

	if _, err := svc.Identify(context.Background(), canonicalAlbum(), 5); !errors.Is(err, fault.ErrInvalidInput) {
		t.Fatalf("expected invalid pick, got %v", err)
	}
}

func TestIdentifySingleExactMatchFromHeader(t *testing.T) {
	fake := &fakeServer{query: "200 rock 0d023e02 Some Band / Live at Home\r\n", read: readResponse}
	svc := newTestService(t, fake)

	got, err := svc.Identify(context.Background(), canonicalAlbum(), 0)
	if err != nil {
		t.Fatalf("Identify returned error: %v", err)
	}
	if got.Album.Title != "Live at Home" {
		t.Fatalf("unexpected album %+v", got.Album)
	}
}

func TestIdentifyNoMatch(t *testing.T) {
	fake := &fakeServer{query: "202 No match found\r\n"}
	svc := newTestService(t, fake)

	if _, err := svc.Identify(context.Background(), canonicalAlbum(), 0); !errors.Is(err, fault.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestReadServerErrorIsTransport(t *testing.T) {
	fake := &fakeServer{read: "402 Server error.\r\n"}
	svc := newTestService(t, fake)

	if _, err := svc.Read(context.Background(), freedb.Rock, 0x0d023e02); !errors.Is(err, fault.ErrTransport) {
		t.Fatalf("expected transport error, got %v", err)
	}
}

func TestReadEntryNotFound(t *testing.T) {
	fake := &fakeServer{read: "401 rock 0d023e02 No such CD entry in database.\r\n"}
	svc := newTestService(t, fake)

	if _, err := svc.Read(context.Background(), freedb.Rock, 0x0d023e02); !errors.Is(err, fault.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestIdentifyRejectsEmptyAlbum(t *testing.T) {
	svc := newTestService(t, &fakeServer{})
	if _, err := svc.Identify(context.Background(), album.Album{}, 0); !errors.Is(err, fault.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestEnsureRequestIDKeepsExisting(t *testing.T) {
	ctx := logging.WithRequestID(context.Background(), "fixed")
	id, _ := logging.RequestIDFromContext(ensureRequestID(ctx))
	if id != "fixed" {
		t.Fatalf("request id replaced: %q", id)
	}
	fresh, ok := logging.RequestIDFromContext(ensureRequestID(context.Background()))
	if !ok || fresh == "" {
		t.Fatal("expected generated request id")
	}
}

func TestMergeKeepsExtraProbedTracks(t *testing.T) {
	probed := album.FromSectors([]uint32{100, 200, 300})
	entry := album.New([]album.Track{{Title: "One"}})
	entry.Title = "Disc"

	got := Merge(probed, entry)
	if got.Title != "Disc" || got.Tracks[0].Title != "One" || got.Tracks[2].Sectors != 300 || got.Tracks[2].Title != "" {
		t.Fatalf("unexpected merge %+v", got)
	}
	if probed.Tracks[0].Title != "" {
		t.Fatal("Merge mutated its input")
	}
}
