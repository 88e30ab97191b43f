package storage

import (
	"context"
	"io"
	"path/filepath"
	"strings"

	"github.com/casdoor/oss"
	"github.com/google/uuid"

	"github.com/storefront/catalog-service/internal/core/ports"
)

var _ ports.ImageStore = (*ImageStore)(nil)

// ImageStore saves product images under random names on any oss backend.
type ImageStore struct {
	backend oss.StorageInterface
}

func NewImageStore(backend oss.StorageInterface) *ImageStore {
	return &ImageStore{backend: backend}
}

// Save stores r as <uuid><ext>, keeping the extension of originalName.
func (s *ImageStore) Save(ctx context.Context, originalName string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	name := uuid.NewString() + imageExt(originalName)
	obj, err := s.backend.Put(name, r)
	if err != nil {
		return "", err
	}
	return obj.Name, nil
}

// URL returns the public address of a stored image.
func (s *ImageStore) URL(name string) string {
	u, err := s.backend.GetURL(name)
	if err != nil {
		return name
	}
	return u
}

// imageExt returns the lowercased extension of name, or "" when it contains
// anything but letters and digits.
func imageExt(name string) string {
	ext := strings.ToLower(filepath.Ext(filepath.Base(name)))
	if len(ext) < 2 {
		return ""
	}
	for _, r := range ext[1:] {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return ""
		}
	}
	return ext
}
