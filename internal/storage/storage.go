package storage

// BlobStore is the key -> bytes collaborator for file content. Content
// is immutable once written; keys are generated, never caller-supplied.
type BlobStore interface {
	// Put writes the blob and returns its generated storage key.
	Put(originalName string, data []byte) (key string, err error)
	// Get returns the blob for a key.
	Get(key string) ([]byte, error)
	// Remove deletes the blob. Missing blobs are not an error.
	Remove(key string) error
}
