package testsupport

import (
	"context"
	"testing"

	"platter/internal/album"
	"platter/internal/catalog"
	"platter/internal/config"
	"platter/internal/freedb"
)

// MustOpenCatalog opens a catalog.Store for tests and registers cleanup.
func MustOpenCatalog(t testing.TB, cfg *config.Config) *catalog.Store {
	t.Helper()

	store, err := catalog.Open(cfg)
	if err != nil {
		t.Fatalf("catalog.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// SaveAlbum stores a under its computed disc ID.
func SaveAlbum(t testing.TB, store *catalog.Store, category freedb.Category, a album.Album) *catalog.Entry {
	t.Helper()

	id, err := a.DiscID()
	if err != nil {
		t.Fatalf("album.DiscID: %v", err)
	}
	entry, err := store.Save(context.Background(), id, category, "", a)
	if err != nil {
		t.Fatalf("store.Save: %v", err)
	}
	return entry
}
