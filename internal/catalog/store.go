package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"platter/internal/album"
	"platter/internal/config"
	"platter/internal/discid"
	"platter/internal/fault"
	"platter/internal/freedb"
)

// Entry is one saved album.
type Entry struct {
	ID        string          `json:"id"`
	DiscID    discid.ID       `json:"disc_id"`
	Category  freedb.Category `json:"category"`
	Server    string          `json:"server,omitempty"`
	Album     album.Album     `json:"album"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Store manages catalog persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens the catalog at the configured path.
func Open(cfg *config.Config) (*Store, error) {
	if cfg == nil {
		return nil, fault.Wrap(fault.ErrConfiguration, "catalog", "open", "config required", nil)
	}
	return OpenPath(cfg.Catalog.Path)
}

// OpenPath initializes or connects to the catalog database at path.
func OpenPath(path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fault.Wrap(fault.ErrConfiguration, "catalog", "open", "catalog.path is empty", nil)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fault.Wrap(fault.ErrStorage, "catalog", "open", "create directory", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fault.Wrap(fault.ErrStorage, "catalog", "open", path, err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fault.Wrap(fault.ErrStorage, "catalog", "open", fmt.Sprintf("apply pragma %q", pragma), execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, fault.Wrap(fault.ErrStorage, "catalog", "open", path, err)
	}
	return store, nil
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Save stores a under disc and category. Saving the same disc and category
// again replaces the album and keeps the original ID.
func (s *Store) Save(ctx context.Context, disc discid.ID, category freedb.Category, server string, a album.Album) (*Entry, error) {
	if !category.Valid() {
		return nil, fault.Invalid("catalog", "save", fmt.Sprintf("unknown category %q", string(category)))
	}
	if len(a.Tracks) == 0 {
		return nil, fault.Invalid("catalog", "save", "album has no tracks")
	}
	payload, err := json.Marshal(a)
	if err != nil {
		return nil, fault.Wrap(fault.ErrStorage, "catalog", "save", "marshal album", err)
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO albums (
            id, disc_id, category, artist, title, year, tracks, server, album_json, created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT (disc_id, category) DO UPDATE SET
            artist = excluded.artist,
            title = excluded.title,
            year = excluded.year,
            tracks = excluded.tracks,
            server = excluded.server,
            album_json = excluded.album_json,
            updated_at = excluded.updated_at`,
		uuid.NewString(),
		disc.Hex(),
		string(category),
		a.Artist,
		a.Title,
		a.Year,
		len(a.Tracks),
		server,
		string(payload),
		now,
		now,
	)
	if err != nil {
		return nil, fault.Wrap(fault.ErrStorage, "catalog", "save", disc.Hex(), err)
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT `+entryColumns+` FROM albums WHERE disc_id = ? AND category = ?`, disc.Hex(), string(category))
	entry, err := scanEntry(row)
	if err != nil {
		return nil, fault.Wrap(fault.ErrStorage, "catalog", "save", "reload entry", err)
	}
	return entry, nil
}

// List returns every entry, oldest first.
func (s *Store) List(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+entryColumns+` FROM albums ORDER BY created_at, id`)
	if err != nil {
		return nil, fault.Wrap(fault.ErrStorage, "catalog", "list", "", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fault.Wrap(fault.ErrStorage, "catalog", "list", "", err)
		}
		entries = append(entries, *entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fault.Wrap(fault.ErrStorage, "catalog", "list", "", err)
	}
	return entries, nil
}

// Get fetches an entry by ID.
func (s *Store) Get(ctx context.Context, id string) (*Entry, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+entryColumns+` FROM albums WHERE id = ?`, id)
	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fault.Wrap(fault.ErrNotFound, "catalog", "get", id, nil)
	}
	if err != nil {
		return nil, fault.Wrap(fault.ErrStorage, "catalog", "get", id, err)
	}
	return entry, nil
}

// FindByDiscID returns every saved category for disc.
func (s *Store) FindByDiscID(ctx context.Context, disc discid.ID) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+entryColumns+` FROM albums WHERE disc_id = ? ORDER BY category`, disc.Hex())
	if err != nil {
		return nil, fault.Wrap(fault.ErrStorage, "catalog", "find", disc.Hex(), err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fault.Wrap(fault.ErrStorage, "catalog", "find", disc.Hex(), err)
		}
		entries = append(entries, *entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fault.Wrap(fault.ErrStorage, "catalog", "find", disc.Hex(), err)
	}
	return entries, nil
}

// Remove deletes one entry.
func (s *Store) Remove(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM albums WHERE id = ?`, id)
	if err != nil {
		return fault.Wrap(fault.ErrStorage, "catalog", "remove", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fault.Wrap(fault.ErrStorage, "catalog", "remove", id, err)
	}
	if affected == 0 {
		return fault.Wrap(fault.ErrNotFound, "catalog", "remove", id, nil)
	}
	return nil
}

// Clear deletes every entry and returns how many were removed.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM albums`)
	if err != nil {
		return 0, fault.Wrap(fault.ErrStorage, "catalog", "clear", "", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fault.Wrap(fault.ErrStorage, "catalog", "clear", "", err)
	}
	return affected, nil
}

const entryColumns = `id, disc_id, category, server, album_json, created_at, updated_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (*Entry, error) {
	var (
		entry     Entry
		disc      string
		category  string
		albumJSON string
		created   string
		updated   string
	)
	if err := row.Scan(&entry.ID, &disc, &category, &entry.Server, &albumJSON, &created, &updated); err != nil {
		return nil, err
	}
	id, err := discid.ParseID(disc)
	if err != nil {
		return nil, fmt.Errorf("parse disc id %q: %w", disc, err)
	}
	entry.DiscID = id
	entry.Category = freedb.Category(category)
	if err := json.Unmarshal([]byte(albumJSON), &entry.Album); err != nil {
		return nil, fmt.Errorf("unmarshal album: %w", err)
	}
	if entry.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	if entry.UpdatedAt, err = time.Parse(time.RFC3339Nano, updated); err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}
	return &entry, nil
}
