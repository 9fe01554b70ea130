package utils

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"mime/multipart"
	"os"
	"path/filepath"
)

// LocalBlobStore keeps image blobs on disk under Dir. The directory is served
// statically at /uploads, so URLs are just /uploads/<key>.
type LocalBlobStore struct {
	Dir string
}

// NewLocalBlobStore ensures the upload directory exists.
func NewLocalBlobStore(dir string) (*LocalBlobStore, error) {
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return nil, err
	}
	return &LocalBlobStore{Dir: dir}, nil
}

// Save writes the uploaded file under the given key.
func (s *LocalBlobStore) Save(ctx context.Context, key string, file *multipart.FileHeader) error {
	src, err := file.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(s.Dir, key))
	if err != nil {
		return err
	}
	defer dst.Close()

	_, err = io.Copy(dst, src)
	return err
}

// Delete removes the blob. A blob that is already gone is not an error.
func (s *LocalBlobStore) Delete(ctx context.Context, key string) error {
	err := os.Remove(filepath.Join(s.Dir, key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

func (s *LocalBlobStore) URL(key string) string {
	return "/uploads/" + key
}
