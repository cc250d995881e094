// Package blob stores uploaded image assets on the local filesystem
// behind an opaque locator so callers never touch paths directly
package blob

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	perr "piiquante/internal/platform/errors"
	"piiquante/internal/platform/logger"

	"github.com/google/uuid"
)

// extByType is the accepted upload allow-list
var extByType = map[string]string{
	"image/jpg":  "jpg",
	"image/jpeg": "jpg",
	"image/png":  "png",
}

// Store saves assets and removes them by locator
type Store interface {
	// Save persists data and returns an opaque locator for it
	Save(ctx context.Context, data []byte, contentType string) (string, error)

	// Remove deletes the asset behind locator
	Remove(ctx context.Context, locator string) error
}

// FS is a filesystem backed Store rooted at Dir
type FS struct {
	Dir string
	Log logger.Logger
}

// Config configures the filesystem store
type Config struct {
	Dir string
}

// Open ensures the root directory exists and returns the store
func Open(cfg Config, log logger.Logger) (*FS, error) {
	if cfg.Dir == "" {
		return nil, perr.InvalidArgf("blob dir must not be empty")
	}
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeUnavailable, "blob dir %q", cfg.Dir)
	}
	return &FS{Dir: cfg.Dir, Log: log}, nil
}

// Save writes data under a random name derived from contentType
// unsupported content types are rejected before anything touches disk
func (f *FS) Save(ctx context.Context, data []byte, contentType string) (string, error) {
	ext, ok := extByType[normalizeType(contentType)]
	if !ok {
		return "", perr.InvalidArgf("unsupported image type %q", contentType)
	}
	if len(data) == 0 {
		return "", perr.InvalidArgf("empty image payload")
	}

	name := uuid.NewString() + "." + ext
	path := filepath.Join(f.Dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", perr.Wrapf(err, perr.ErrorCodeUnavailable, "write asset %q", name)
	}
	f.Log.Debug().Str("locator", name).Int("bytes", len(data)).Msg("asset stored")
	return name, nil
}

// Remove deletes the asset behind locator
// a locator that escapes the root dir is rejected
func (f *FS) Remove(ctx context.Context, locator string) error {
	if locator == "" || locator != filepath.Base(locator) {
		return perr.InvalidArgf("bad asset locator %q", locator)
	}
	err := os.Remove(filepath.Join(f.Dir, locator))
	if err != nil {
		if os.IsNotExist(err) {
			return perr.NotFoundf("asset %q", locator)
		}
		return perr.Wrapf(err, perr.ErrorCodeUnavailable, "remove asset %q", locator)
	}
	return nil
}

func normalizeType(ct string) string {
	// strip any ;charset= style params and lowercase
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = ct[:i]
	}
	return strings.ToLower(strings.TrimSpace(ct))
}
