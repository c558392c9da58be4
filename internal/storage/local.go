package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/KaushikeeBhatt/file-tracking-system/internal/common/apperr"
	"github.com/KaushikeeBhatt/file-tracking-system/internal/config"

	"github.com/google/uuid"
)

// LocalStore keeps blobs on the local filesystem under a single
// directory. Keys embed a uuid so uploads never collide.
type LocalStore struct {
	dir string
}

func NewLocalStore(cfg *config.Config) (BlobStore, error) {
	if err := os.MkdirAll(cfg.FSPath, 0o755); err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrStorageUnavailable, err)
	}
	return &LocalStore{dir: cfg.FSPath}, nil
}

func (s *LocalStore) Put(originalName string, data []byte) (string, error) {
	ext := filepath.Ext(originalName)
	base := strings.TrimSuffix(filepath.Base(originalName), ext)
	base = strings.ReplaceAll(base, " ", "_")
	key := fmt.Sprintf("%s_%s%s", base, uuid.NewString(), ext)

	if err := os.WriteFile(filepath.Join(s.dir, key), data, 0o644); err != nil {
		return "", fmt.Errorf("%w: %v", apperr.ErrStorageUnavailable, err)
	}
	return key, nil
}

func (s *LocalStore) Get(key string) ([]byte, error) {
	// Reject path traversal in keys read back from the database
	if filepath.Base(key) != key {
		return nil, apperr.ErrNotFound
	}
	data, err := os.ReadFile(filepath.Join(s.dir, key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrStorageUnavailable, err)
	}
	return data, nil
}

func (s *LocalStore) Remove(key string) error {
	if filepath.Base(key) != key {
		return nil
	}
	err := os.Remove(filepath.Join(s.dir, key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
