package storage

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/KaushikeeBhatt/file-tracking-system/internal/common/apperr"
	"github.com/KaushikeeBhatt/file-tracking-system/internal/config"
)

func newTestStore(t *testing.T) BlobStore {
	t.Helper()
	store, err := NewLocalStore(&config.Config{FSPath: t.TempDir()})
	if err != nil {
		t.Fatalf("NewLocalStore: %v", err)
	}
	return store
}

func TestPutGetRoundTrip(t *testing.T) {
	store := newTestStore(t)
	content := []byte("hello world")

	key, err := store.Put("Quarterly Report.pdf", content)
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if strings.Contains(key, " ") {
		t.Errorf("key %q contains spaces", key)
	}
	if !strings.HasSuffix(key, ".pdf") {
		t.Errorf("key %q lost its extension", key)
	}

	got, err := store.Get(key)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !bytes.Equal(got, content) {
		t.Errorf("Get = %q, want %q", got, content)
	}
}

func TestPutKeysNeverCollide(t *testing.T) {
	store := newTestStore(t)

	k1, err := store.Put("same.txt", []byte("one"))
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	k2, err := store.Put("same.txt", []byte("two"))
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if k1 == k2 {
		t.Errorf("keys collided: %q", k1)
	}
}

func TestGetMissingKey(t *testing.T) {
	store := newTestStore(t)

	if _, err := store.Get("no-such-blob.bin"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestGetRejectsPathTraversal(t *testing.T) {
	store := newTestStore(t)

	for _, key := range []string{"../outside.txt", "a/b.txt", "..\\..\\etc"} {
		if _, err := store.Get(key); !errors.Is(err, apperr.ErrNotFound) {
			t.Errorf("Get(%q) err = %v, want ErrNotFound", key, err)
		}
	}
}

func TestRemove(t *testing.T) {
	store := newTestStore(t)

	key, err := store.Put("temp.txt", []byte("x"))
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := store.Remove(key); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, err := store.Get(key); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("blob still readable after Remove")
	}

	// Removing again is not an error
	if err := store.Remove(key); err != nil {
		t.Errorf("second Remove: %v", err)
	}
}
