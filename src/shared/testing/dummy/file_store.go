package dummy

import (
	"bytes"
	"context"
	"io"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/veedubyou/stem-remix/src/shared/filestore"
	"github.com/veedubyou/stem-remix/src/shared/lib/errors/mark"
)

var _ filestore.FileStore = &FileStore{}

type FileStore struct {
	Unavailable bool
	Files       map[string][]byte
	mutex       sync.RWMutex
}

func NewFileStore() *FileStore {
	return &FileStore{
		Files: map[string][]byte{},
	}
}

func (f *FileStore) WriteFile(ctx context.Context, objectPath string, content io.Reader) error {
	if f.Unavailable {
		return mark.Wrap(NetworkFailure, filestore.DefaultErrorMark, "Failed to write file")
	}

	data, err := io.ReadAll(content)
	if err != nil {
		return errors.Wrap(err, "Failed to read content")
	}

	f.mutex.Lock()
	defer f.mutex.Unlock()

	f.Files[objectPath] = data
	return nil
}

func (f *FileStore) ReadFile(ctx context.Context, objectPath string, dst io.Writer) error {
	if f.Unavailable {
		return mark.Wrap(NetworkFailure, filestore.DefaultErrorMark, "Failed to read file")
	}

	f.mutex.RLock()
	data, ok := f.Files[objectPath]
	f.mutex.RUnlock()

	if !ok {
		return mark.Wrap(NotFound, filestore.FileNotFound, "Object does not exist")
	}

	_, err := io.Copy(dst, bytes.NewReader(data))
	return err
}
