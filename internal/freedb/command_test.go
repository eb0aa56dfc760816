package freedb

import (
	"errors"
	"strings"
	"testing"

	"platter/internal/album"
	"platter/internal/discid"
	"platter/internal/fault"
)

func canonicalAlbum() album.Album {
	return album.FromSectors([]uint32{21664, 21405})
}

func TestQueryCommandCanonical(t *testing.T) {
	got, err := QueryCommand(canonicalAlbum(), DefaultIdentity())
	if err != nil {
		t.Fatalf("QueryCommand returned error: %v", err)
	}
	want := "cmd=cddb+query+0d023e02+2+150+21814+576&hello=emailname+emailhost.com+platter+0.0.3&proto=5"
	if got != want {
		t.Fatalf("QueryCommand = %q, want %q", got, want)
	}
}

func TestReadCommand(t *testing.T) {
	id := DefaultIdentity()
	got, err := ReadCommand(Rock, 0x0d023e02, id)
	if err != nil {
		t.Fatalf("ReadCommand returned error: %v", err)
	}
	want := "cmd=cddb+read+rock+0d023e02&hello=emailname+platter_instance1+platter+0.0.3&proto=5"
	if got != want {
		t.Fatalf("ReadCommand = %q, want %q", got, want)
	}
}

func TestReadCommandRejectsUnknownCategory(t *testing.T) {
	for _, c := range []Category{"", "Rock", "pop", "rock "} {
		if _, err := ReadCommand(c, 1, DefaultIdentity()); !errors.Is(err, fault.ErrInvalidInput) {
			t.Fatalf("ReadCommand(%q) expected invalid input, got %v", c, err)
		}
	}
}

func TestCommandDispatch(t *testing.T) {
	id := DefaultIdentity()
	q, err := Command(Query, Request{Album: canonicalAlbum()}, id)
	if err != nil || !strings.HasPrefix(q, "cmd=cddb+query+") {
		t.Fatalf("Command(Query) = %q, %v", q, err)
	}
	r, err := Command(Read, Request{DiscID: 0x0d023e02, Category: Jazz}, id)
	if err != nil || !strings.HasPrefix(r, "cmd=cddb+read+jazz+0d023e02") {
		t.Fatalf("Command(Read) = %q, %v", r, err)
	}
	if _, err := Command(CommandKind(0), Request{}, id); !errors.Is(err, fault.ErrInvalidInput) {
		t.Fatalf("Command(0) expected invalid input, got %v", err)
	}
	if _, err := Command(CommandKind(7), Request{}, id); !errors.Is(err, fault.ErrInvalidInput) {
		t.Fatalf("Command(7) expected invalid input, got %v", err)
	}
}

func TestQueryCommandEmptyAlbum(t *testing.T) {
	if _, err := QueryCommand(album.Album{}, DefaultIdentity()); !errors.Is(err, fault.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestQueryCommandDoesNotEscapeIdentity(t *testing.T) {
	id := DefaultIdentity()
	id.User = "a b"
	got, err := QueryCommand(canonicalAlbum(), id)
	if err != nil {
		t.Fatalf("QueryCommand returned error: %v", err)
	}
	if !strings.Contains(got, "hello=a b+") {
		t.Fatalf("expected identity to be written verbatim, got %q", got)
	}
}

func TestURL(t *testing.T) {
	if got := URL("http://x/cddb.cgi", "cmd=a"); got != "http://x/cddb.cgi?cmd=a" {
		t.Fatalf("URL = %q", got)
	}
	if got := URL("http://x/cddb.cgi?k=v", "cmd=a"); got != "http://x/cddb.cgi?k=v&cmd=a" {
		t.Fatalf("URL = %q", got)
	}
}

func TestGenerator(t *testing.T) {
	id := DefaultIdentity()
	gen := NewGenerator(id)
	cmds, err := gen.Commands([]album.Album{canonicalAlbum(), album.FromSectors([]uint32{7500})})
	if err != nil {
		t.Fatalf("Commands returned error: %v", err)
	}
	if len(cmds) != 2 || !strings.HasPrefix(cmds[1], "cmd=cddb+query+") {
		t.Fatalf("unexpected commands %v", cmds)
	}

	id.QueryType = Read
	id.Category = Classical
	gen = NewGenerator(id)
	u, err := gen.URL("http://x/cddb.cgi", canonicalAlbum())
	if err != nil {
		t.Fatalf("URL returned error: %v", err)
	}
	if !strings.HasPrefix(u, "http://x/cddb.cgi?cmd=cddb+read+classical+0d023e02&") {
		t.Fatalf("unexpected url %q", u)
	}

	if _, err := gen.Commands([]album.Album{{}}); !errors.Is(err, fault.ErrInvalidInput) {
		t.Fatalf("expected invalid input for empty album, got %v", err)
	}

	id.Category = "pop"
	if _, err := NewGenerator(id).Command(canonicalAlbum()); !errors.Is(err, fault.ErrInvalidInput) {
		t.Fatalf("expected invalid input for bad default category, got %v", err)
	}
}

func TestCategories(t *testing.T) {
	all := Categories()
	if len(all) != 11 {
		t.Fatalf("expected 11 categories, got %d", len(all))
	}
	for _, c := range all {
		parsed, err := ParseCategory(string(c))
		if err != nil || parsed != c {
			t.Fatalf("ParseCategory(%q) = %q, %v", c, parsed, err)
		}
	}
	if _, err := ParseCategory("ROCK"); !errors.Is(err, fault.ErrInvalidInput) {
		t.Fatalf("expected case-sensitive rejection, got %v", err)
	}
	all[0] = "mutated"
	if Categories()[0] != Blues {
		t.Fatal("Categories exposes its backing array")
	}
}

func TestParseCommandKind(t *testing.T) {
	if k, err := ParseCommandKind("Query"); err != nil || k != Query {
		t.Fatalf("ParseCommandKind(Query) = %v, %v", k, err)
	}
	if k, err := ParseCommandKind("read"); err != nil || k != Read {
		t.Fatalf("ParseCommandKind(read) = %v, %v", k, err)
	}
	if _, err := ParseCommandKind("write"); !errors.Is(err, fault.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestReadCommandUsesPaddedHex(t *testing.T) {
	got, err := ReadCommand(Misc, discid.ID(0x1f), DefaultIdentity())
	if err != nil {
		t.Fatalf("ReadCommand returned error: %v", err)
	}
	if !strings.HasPrefix(got, "cmd=cddb+read+misc+0000001f&") {
		t.Fatalf("unexpected command %q", got)
	}
}
