package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"platter/internal/fault"
	"platter/internal/testsupport"
)

const canonicalSectors = "21664,21405"

func TestDiscIDFromSectors(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, env.configPath, "", "discid", "--sectors", canonicalSectors)
	if err != nil {
		t.Fatalf("discid: %v", err)
	}
	requireContains(t, out, "Disc ID: 0d023e02")
	requireContains(t, out, "Tracks: 2")
	requireContains(t, out, "21814")
}

func TestDiscIDJSON(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, env.configPath, "", "--json", "discid", "--sectors", canonicalSectors, "--lead-in", "182")
	if err != nil {
		t.Fatalf("discid: %v", err)
	}
	var report struct {
		DiscID  string   `json:"disc_id"`
		Offsets []uint32 `json:"offsets"`
	}
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("decode json: %v\n%s", err, out)
	}
	if len(report.Offsets) != 3 || report.Offsets[0] != 182 || report.Offsets[2] != 43251 {
		t.Fatalf("unexpected offsets %v", report.Offsets)
	}
	if report.DiscID == "0d023e02" {
		t.Fatal("lead-in did not change the disc id")
	}
}

func TestDiscIDRejectsTwoSources(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, env.configPath, "", "discid", "--sectors", canonicalSectors, "--files", t.TempDir())
	if code := fault.ExitCode(err); code != fault.ExitInvalidInput {
		t.Fatalf("exit code = %d, want %d (err %v)", code, fault.ExitInvalidInput, err)
	}
}

func TestDiscIDRejectsBadSectors(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, env.configPath, "", "discid", "--sectors", "12,abc")
	if code := fault.ExitCode(err); code != fault.ExitInvalidInput {
		t.Fatalf("exit code = %d, want %d (err %v)", code, fault.ExitInvalidInput, err)
	}
}

func TestQueryPrintsCommand(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, env.configPath, "", "query", "--sectors", canonicalSectors)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	want := "cmd=cddb+query+0d023e02+2+150+21814+576&hello=emailname+emailhost.com+platter+0.0.3&proto=5"
	if strings.TrimSpace(out) != want {
		t.Fatalf("query output = %q, want %q", strings.TrimSpace(out), want)
	}
	if got := len(env.server.Commands()); got != 0 {
		t.Fatalf("expected no request without --send, got %d", got)
	}
}

func TestQuerySendListsMatches(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, env.configPath, "", "query", "--sectors", canonicalSectors, "--send")
	if err != nil {
		t.Fatalf("query --send: %v", err)
	}
	requireContains(t, out, "Status: 210")
	requireContains(t, out, "Live at Home (bootleg)")
	requireContains(t, out, "rock")
}

func TestQuerySendNoMatchExitsNotFound(t *testing.T) {
	env := setupCLITestEnv(t)
	env.server.Query = "202 No match for disc ID 0d023e02.\r\n"

	out, _, err := runCLI(t, env.configPath, "", "query", "--sectors", canonicalSectors, "--send")
	if code := fault.ExitCode(err); code != fault.ExitNotFound {
		t.Fatalf("exit code = %d, want %d (err %v)", code, fault.ExitNotFound, err)
	}
	requireContains(t, out, "No matches")
}

func TestReadSaveThenCatalog(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, env.configPath, "", "read", "rock", "0d023e02", "--save")
	if err != nil {
		t.Fatalf("read --save: %v", err)
	}
	requireContains(t, out, "cmd=cddb+read+rock+0d023e02&hello=emailname+platter_instance1+platter+0.0.3&proto=5")
	requireContains(t, out, "Some Band - Live at Home")
	requireContains(t, out, "Saved to catalog as rock/0d023e02")

	out, _, err = runCLI(t, env.configPath, "", "catalog", "list")
	if err != nil {
		t.Fatalf("catalog list: %v", err)
	}
	requireContains(t, out, "Catalog: 1 albums")
	requireContains(t, out, "Live at Home")

	out, _, err = runCLI(t, env.configPath, "", "catalog", "show", "1")
	if err != nil {
		t.Fatalf("catalog show: %v", err)
	}
	requireContains(t, out, "Disc ID: 0d023e02 (rock)")
	requireContains(t, out, "Opening")

	out, _, err = runCLI(t, env.configPath, "", "catalog", "remove", "1")
	if err != nil {
		t.Fatalf("catalog remove: %v", err)
	}
	requireContains(t, out, "Removed catalog entry 1")

	_, _, err = runCLI(t, env.configPath, "", "catalog", "show", "1")
	if code := fault.ExitCode(err); code != fault.ExitNotFound {
		t.Fatalf("exit code = %d, want %d (err %v)", code, fault.ExitNotFound, err)
	}
}

func TestReadRejectsUnknownCategory(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, env.configPath, "", "read", "polka", "0d023e02")
	if code := fault.ExitCode(err); code != fault.ExitInvalidInput {
		t.Fatalf("exit code = %d, want %d (err %v)", code, fault.ExitInvalidInput, err)
	}
}

func TestLookupPicksSecondMatch(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, env.configPath, "", "lookup", "--sectors", canonicalSectors, "--pick", "2", "--save")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	requireContains(t, out, "Using match 2 (misc)")
	requireContains(t, out, "Saved to catalog as misc/0d023e02")

	var sawRead bool
	for _, c := range env.server.Commands() {
		if strings.HasPrefix(c, "cmd=cddb+read+misc+0d023e02") {
			sawRead = true
		}
	}
	if !sawRead {
		t.Fatalf("expected a misc read, got %v", env.server.Commands())
	}
}

func TestLookupPickOutOfRange(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, env.configPath, "", "lookup", "--sectors", canonicalSectors, "--pick", "3")
	if code := fault.ExitCode(err); code != fault.ExitInvalidInput {
		t.Fatalf("exit code = %d, want %d (err %v)", code, fault.ExitInvalidInput, err)
	}
}

func TestLookupServerErrorIsTransport(t *testing.T) {
	env := setupCLITestEnv(t)
	env.server.Query = "402 Server error.\r\n"

	_, _, err := runCLI(t, env.configPath, "", "lookup", "--sectors", canonicalSectors)
	if code := fault.ExitCode(err); code != fault.ExitTransport {
		t.Fatalf("exit code = %d, want %d (err %v)", code, fault.ExitTransport, err)
	}
}

func TestDecodeFromStdinAndFile(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, env.configPath, testsupport.CanonicalQuery, "decode", "query")
	if err != nil {
		t.Fatalf("decode query: %v", err)
	}
	requireContains(t, out, "Status: 210 Found exact matches")
	requireContains(t, out, "misc")

	path := filepath.Join(t.TempDir(), "read.txt")
	if err := os.WriteFile(path, []byte(testsupport.CanonicalRead), 0o644); err != nil {
		t.Fatalf("write response: %v", err)
	}
	out, _, err = runCLI(t, env.configPath, "", "--json", "decode", "read", path)
	if err != nil {
		t.Fatalf("decode read: %v", err)
	}
	var result struct {
		DiscID string `json:"disc_id"`
		Album  struct {
			Title  string `json:"title"`
			Tracks []struct {
				Title string `json:"title"`
			} `json:"tracks"`
		} `json:"album"`
	}
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("decode json: %v\n%s", err, out)
	}
	if result.DiscID != "0d023e02" || result.Album.Title != "Live at Home" || len(result.Album.Tracks) != 2 {
		t.Fatalf("unexpected read result %+v", result)
	}
}

func TestDecodeRejectsUnknownKind(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, env.configPath, "", "decode", "submit")
	if code := fault.ExitCode(err); code != fault.ExitInvalidInput {
		t.Fatalf("exit code = %d, want %d (err %v)", code, fault.ExitInvalidInput, err)
	}
}

func TestCatalogClearEmpty(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, env.configPath, "", "catalog", "clear")
	if err != nil {
		t.Fatalf("catalog clear: %v", err)
	}
	requireContains(t, out, "Cleared 0 catalog entries")

	out, _, err = runCLI(t, env.configPath, "", "--json", "catalog", "list")
	if err != nil {
		t.Fatalf("catalog list: %v", err)
	}
	if strings.TrimSpace(out) != "[]" {
		t.Fatalf("expected empty JSON list, got %q", out)
	}
}

func TestConfigInitAndShow(t *testing.T) {
	env := setupCLITestEnv(t)

	target := filepath.Join(t.TempDir(), "platter.toml")
	out, _, err := runCLI(t, "", "", "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	_, _, err = runCLI(t, "", "", "config", "init", "--path", target)
	if code := fault.ExitCode(err); code != fault.ExitConfiguration {
		t.Fatalf("second init exit code = %d, want %d (err %v)", code, fault.ExitConfiguration, err)
	}

	out, _, err = runCLI(t, env.configPath, "", "config", "show")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	requireContains(t, out, "# Config path: "+env.configPath)
	requireContains(t, out, env.server.Endpoint())
}

func TestInvalidConfigExitsConfiguration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(path, []byte("[freedb]\ncategory = \"polka\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	_, _, err := runCLI(t, path, "", "discid", "--sectors", canonicalSectors)
	if code := fault.ExitCode(err); code != fault.ExitConfiguration {
		t.Fatalf("exit code = %d, want %d (err %v)", code, fault.ExitConfiguration, err)
	}
}

func TestLogsShowsTail(t *testing.T) {
	env := setupCLITestEnv(t)

	if err := os.MkdirAll(env.cfg.Logging.Dir, 0o755); err != nil {
		t.Fatalf("mkdir logs: %v", err)
	}
	if err := os.WriteFile(env.cfg.LogPath(), []byte("one\ntwo\nthree\n"), 0o644); err != nil {
		t.Fatalf("write log: %v", err)
	}
	out, _, err := runCLI(t, env.configPath, "", "logs", "-n", "2")
	if err != nil {
		t.Fatalf("logs: %v", err)
	}
	if out != "two\nthree\n" {
		t.Fatalf("logs output = %q", out)
	}
}

func TestCheckReportsServer(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, env.configPath, "", "check")
	requireContains(t, out, "freedb "+env.server.Endpoint()+": reachable")
	// The default drive is absent in the test environment.
	if err != nil && fault.ExitCode(err) != fault.ExitConfiguration {
		t.Fatalf("unexpected error: %v", err)
	}
}
