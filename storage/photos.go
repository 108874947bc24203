package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"log/slog"

	"github.com/rshop/shopbot/config"
	"github.com/rshop/shopbot/logger"
)

// Photos stores product photos on the local filesystem and maps them to
// the public URL paths persisted in the catalog.
type Photos struct {
	dir       string
	urlPrefix string
}

// NewPhotos prepares the storage directory.
func NewPhotos(cfg config.StorageConfig) (*Photos, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create photo dir %s: %w", cfg.Dir, err)
	}
	return &Photos{dir: cfg.Dir, urlPrefix: cfg.URLPrefix}, nil
}

// Dir returns the filesystem directory served under the URL prefix.
func (p *Photos) Dir() string { return p.dir }

// URLPrefix returns the public path prefix photos are served from.
func (p *Photos) URLPrefix() string { return p.urlPrefix }

// Save writes the photo bytes under the given file name and returns the
// public URL path to persist. The name must be a bare file name.
func (p *Photos) Save(r io.Reader, name string) (string, error) {
	name = filepath.Base(name)
	if name == "." || name == string(filepath.Separator) || name == "" {
		return "", errors.New("storage: empty photo name")
	}

	dst := filepath.Join(p.dir, name)
	f, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return "", fmt.Errorf("create photo %s: %w", dst, err)
	}
	written, err := io.Copy(f, r)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(dst)
		return "", fmt.Errorf("write photo %s: %w", dst, err)
	}

	url := path.Join(p.urlPrefix, name)
	logger.SVCCatalog.Debug("photo saved",
		slog.String("event", "photo.save"),
		slog.String("photo", url),
		slog.Int64("bytes", written),
	)
	return url, nil
}

// Remove deletes the file behind a stored photo URL. A file that is
// already gone is not an error.
func (p *Photos) Remove(photoURL string) error {
	name := path.Base(photoURL)
	if name == "." || name == "/" || name == "" {
		return nil
	}
	err := os.Remove(filepath.Join(p.dir, name))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove photo %s: %w", name, err)
	}
	return nil
}

// RemoveAll deletes every file behind the given photo URLs, logging
// failures instead of aborting so one bad file does not strand the rest.
func (p *Photos) RemoveAll(photoURLs []string) {
	for _, url := range photoURLs {
		if err := p.Remove(url); err != nil {
			logger.SVCCatalog.Warn("photo remove failed",
				slog.String("event", "photo.remove"),
				slog.String("photo", url),
				slog.String("err", err.Error()),
			)
		}
	}
}

// Ext extracts a usable file extension from an uploaded file name,
// falling back to .jpg when none is present.
func Ext(fileName string) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	if ext == "" || len(ext) > 8 {
		return ".jpg"
	}
	return ext
}
