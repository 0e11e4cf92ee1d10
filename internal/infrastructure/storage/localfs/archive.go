package localfs

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Archive keeps original upload bytes on disk so processed records can drop
// their in-memory file buffer without losing the source document.
type Archive struct {
	basePath string
}

func New(basePath string) (*Archive, error) {
	if basePath == "" {
		basePath = "./data/archive"
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("create archive dir: %w", err)
	}
	return &Archive{basePath: basePath}, nil
}

func (a *Archive) Save(_ context.Context, key string, data io.Reader) error {
	path := filepath.Join(a.basePath, filepath.Base(key))
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create archive file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, data); err != nil {
		return fmt.Errorf("write archive file: %w", err)
	}
	return nil
}

func (a *Archive) Open(_ context.Context, key string) (io.ReadCloser, error) {
	path := filepath.Join(a.basePath, filepath.Base(key))
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open archive file: %w", err)
	}
	return f, nil
}
