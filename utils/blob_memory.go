package utils

import (
	"context"
	"io"
	"mime/multipart"
	"sync"
)

// MemoryBlobStore is the blob-store substitute for tests. It records saved
// objects and deleted keys, and can be told to fail.
type MemoryBlobStore struct {
	mu        sync.Mutex
	Objects   map[string][]byte
	Deleted   []string
	SaveErr   error
	DeleteErr error
}

func NewMemoryBlobStore() *MemoryBlobStore {
	return &MemoryBlobStore{Objects: map[string][]byte{}}
}

func (s *MemoryBlobStore) Save(ctx context.Context, key string, file *multipart.FileHeader) error {
	if s.SaveErr != nil {
		return s.SaveErr
	}
	src, err := file.Open()
	if err != nil {
		return err
	}
	defer src.Close()
	data, err := io.ReadAll(src)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Objects[key] = data
	return nil
}

func (s *MemoryBlobStore) Delete(ctx context.Context, key string) error {
	if s.DeleteErr != nil {
		return s.DeleteErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.Objects, key)
	s.Deleted = append(s.Deleted, key)
	return nil
}

func (s *MemoryBlobStore) URL(key string) string {
	return "/uploads/" + key
}
