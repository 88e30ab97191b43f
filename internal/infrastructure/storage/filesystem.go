package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/casdoor/oss"
)

var _ oss.StorageInterface = (*LocalFileSystem)(nil)

// LocalFileSystem stores objects below a base folder on local disk.
type LocalFileSystem struct {
	Folder   string
	Endpoint string
}

// NewFileSystem creates the base folder if needed. endpoint is the public URL
// prefix the folder is served under.
func NewFileSystem(folder, endpoint string) (*LocalFileSystem, error) {
	abs, err := filepath.Abs(folder)
	if err != nil {
		return nil, fmt.Errorf("resolve image folder: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create image folder: %w", err)
	}
	if endpoint == "" {
		endpoint = "/"
	}
	return &LocalFileSystem{Folder: abs, Endpoint: endpoint}, nil
}

// GetFullPath resolves p below the base folder. Paths that would escape the
// folder are clamped to its root.
func (fs *LocalFileSystem) GetFullPath(p string) string {
	clean := filepath.Clean("/" + p)
	return filepath.Join(fs.Folder, clean)
}

func (fs *LocalFileSystem) Get(p string) (*os.File, error) {
	return os.Open(fs.GetFullPath(p))
}

func (fs *LocalFileSystem) GetStream(p string) (io.ReadCloser, error) {
	return os.Open(fs.GetFullPath(p))
}

// Put writes r to p. A partially written file is removed on failure.
func (fs *LocalFileSystem) Put(p string, r io.Reader) (*oss.Object, error) {
	fp := fs.GetFullPath(p)
	if err := os.MkdirAll(filepath.Dir(fp), 0o755); err != nil {
		return nil, fmt.Errorf("create directories for %s: %w", p, err)
	}

	dst, err := os.Create(fp)
	if err != nil {
		return nil, fmt.Errorf("create file: %w", err)
	}
	if _, err := io.Copy(dst, r); err != nil {
		_ = dst.Close()
		_ = os.Remove(fp)
		return nil, fmt.Errorf("copy data to file: %w", err)
	}
	if err := dst.Close(); err != nil {
		_ = os.Remove(fp)
		return nil, fmt.Errorf("close file: %w", err)
	}

	return &oss.Object{Path: p, Name: filepath.Base(fp), StorageInterface: fs}, nil
}

func (fs *LocalFileSystem) Delete(p string) error {
	return os.Remove(fs.GetFullPath(p))
}

func (fs *LocalFileSystem) List(p string) ([]*oss.Object, error) {
	var (
		objects []*oss.Object
		root    = fs.GetFullPath(p)
	)

	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if path == root || info.IsDir() {
			return nil
		}
		mt := info.ModTime()
		objects = append(objects, &oss.Object{
			Path:             strings.TrimPrefix(path, fs.Folder),
			Name:             info.Name(),
			LastModified:     &mt,
			StorageInterface: fs,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	return objects, nil
}

func (fs *LocalFileSystem) GetEndpoint() string {
	return fs.Endpoint
}

// GetURL returns the public path of p under the endpoint.
func (fs *LocalFileSystem) GetURL(p string) (string, error) {
	return strings.TrimSuffix(fs.Endpoint, "/") + "/" + strings.TrimPrefix(p, "/"), nil
}
