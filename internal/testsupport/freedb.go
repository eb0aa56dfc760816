package testsupport

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// CanonicalQuery is a two-match query response for disc 0d023e02.
const CanonicalQuery = "210 Found exact matches, list follows (until terminating `.')\r\n" +
	"rock 0d023e02 Some Band / Live at Home\r\n" +
	"misc 0d023e02 Some Band / Live at Home (bootleg)\r\n" +
	".\r\n"

// CanonicalRead is the read response for rock/0d023e02.
const CanonicalRead = "210 rock 0d023e02 CD database entry follows (until terminating `.')\n" +
	"# xmcd\n" +
	"DISCID=0d023e02\n" +
	"DTITLE=Some Band / Live at Home\n" +
	"DYEAR=1999\n" +
	"DGENRE=Rock\n" +
	"TTITLE0=Guest / Opening\n" +
	"TTITLE1=Closing\n" +
	".\n"

// FreedbServer is a canned freedb endpoint recording every command.
type FreedbServer struct {
	*httptest.Server
	Query string
	Read  string

	mu       sync.Mutex
	commands []string
}

// NewFreedbServer starts a server answering with the canonical responses.
func NewFreedbServer(t testing.TB) *FreedbServer {
	t.Helper()
	fs := &FreedbServer{Query: CanonicalQuery, Read: CanonicalRead}
	fs.Server = httptest.NewServer(http.HandlerFunc(fs.handle))
	t.Cleanup(fs.Close)
	return fs
}

// Endpoint returns the cddb.cgi URL of the server.
func (fs *FreedbServer) Endpoint() string {
	return fs.URL + "/~cddb/cddb.cgi"
}

// Commands returns the raw query strings received so far.
func (fs *FreedbServer) Commands() []string {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	out := make([]string, len(fs.commands))
	copy(out, fs.commands)
	return out
}

func (fs *FreedbServer) handle(w http.ResponseWriter, r *http.Request) {
	fs.mu.Lock()
	fs.commands = append(fs.commands, r.URL.RawQuery)
	fs.mu.Unlock()

	switch {
	case strings.HasPrefix(r.URL.RawQuery, "cmd=cddb+query+"):
		_, _ = w.Write([]byte(fs.Query))
	case strings.HasPrefix(r.URL.RawQuery, "cmd=cddb+read+"):
		_, _ = w.Write([]byte(fs.Read))
	default:
		http.Error(w, "500 Unrecognized command", http.StatusBadRequest)
	}
}
