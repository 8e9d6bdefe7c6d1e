package storage

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// ErrInvalidKey is returned for keys that are empty or escape the media root.
var ErrInvalidKey = errors.New("storage: invalid key")

// FileStore maps media storage names (relative, slash separated, e.g.
// "categories/cat.png") onto a directory on disk and a public base URL.
type FileStore struct {
	basePath string
	baseURL  string
}

// NewFileStore initializes a FileStore rooted at basePath. Relative paths are
// made absolute so the generator always works with stable file paths.
func NewFileStore(basePath, baseURL string) (*FileStore, error) {
	basePath = strings.TrimSpace(basePath)
	if basePath == "" {
		return nil, errors.New("storage: base path is required")
	}
	if !filepath.IsAbs(basePath) {
		if abs, err := filepath.Abs(basePath); err == nil {
			basePath = abs
		}
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("storage: ensure base path: %w", err)
	}
	return &FileStore{basePath: basePath, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// BasePath returns the configured root directory.
func (s *FileStore) BasePath() string {
	if s == nil {
		return ""
	}
	return s.basePath
}

// Path resolves a storage name to an absolute file path.
func (s *FileStore) Path(name string) (string, error) {
	if s == nil {
		return "", errors.New("storage: no store configured")
	}
	clean, err := sanitizeKey(name)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.basePath, filepath.FromSlash(clean)), nil
}

// Name converts an absolute path under the root back into a storage name.
func (s *FileStore) Name(path string) (string, error) {
	if s == nil {
		return "", errors.New("storage: no store configured")
	}
	rel, err := filepath.Rel(s.basePath, path)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrInvalidKey, path)
	}
	return sanitizeKey(filepath.ToSlash(rel))
}

// Exists reports whether name is a regular file. Any probe error counts as
// missing.
func (s *FileStore) Exists(name string) bool {
	path, err := s.Path(name)
	if err != nil {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// URL returns the public URL of name. Invalid names yield an empty string.
func (s *FileStore) URL(name string) string {
	if s == nil {
		return ""
	}
	clean, err := sanitizeKey(name)
	if err != nil {
		return ""
	}
	segments := strings.Split(clean, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return s.baseURL + "/" + strings.Join(segments, "/")
}

// sanitizeKey normalizes a key and prevents escaping the storage root.
func sanitizeKey(key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidKey)
	}
	key = strings.ReplaceAll(key, "\\", "/")
	key = strings.TrimPrefix(key, "./")
	key = strings.TrimLeft(key, "/")
	cleaned := filepath.ToSlash(filepath.Clean(key))
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return cleaned, nil
}
