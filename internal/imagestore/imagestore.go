// Package imagestore persists imported item images as files on disk.
package imagestore

import (
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

var (
	// ErrDecode indicates the payload was not valid base64.
	ErrDecode = errors.New("invalid base64 image data")

	// ErrWrite indicates the decoded image could not be written to disk.
	ErrWrite = errors.New("writing image file")
)

// dataURLMarker separates the metadata prefix from the payload in data URLs
// ("data:image/png;base64,<payload>").
const dataURLMarker = "base64,"

// Dir manages a directory of imported images. The directory is created
// lazily on the first save.
type Dir struct {
	path string
}

// New returns a Dir rooted at path. Callers should pass an absolute path so
// stored image paths stay valid regardless of working directory.
func New(path string) *Dir {
	return &Dir{path: path}
}

// Path returns the directory images are stored in.
func (d *Dir) Path() string {
	return d.path
}

// Decode decodes a base64 image payload, tolerating a data-URL prefix.
func Decode(payload string) ([]byte, error) {
	if i := strings.LastIndex(payload, dataURLMarker); i >= 0 {
		payload = payload[i+len(dataURLMarker):]
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return data, nil
}

// Save writes image bytes to a new uniquely named file and returns its
// absolute path. Filenames derive from the current time in milliseconds;
// O_EXCL catches same-millisecond collisions and bumps the name.
func (d *Dir) Save(data []byte) (string, error) {
	if err := os.MkdirAll(d.path, 0o755); err != nil {
		return "", fmt.Errorf("%w: %v", ErrWrite, err)
	}

	millis := time.Now().UnixMilli()
	for offset := int64(0); ; offset++ {
		name := fmt.Sprintf("img_%d.png", millis+offset)
		path, err := filepath.Abs(filepath.Join(d.path, name))
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrWrite, err)
		}

		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if errors.Is(err, os.ErrExist) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrWrite, err)
		}

		if _, err := f.Write(data); err != nil {
			f.Close()
			os.Remove(path)
			return "", fmt.Errorf("%w: %v", ErrWrite, err)
		}
		if err := f.Close(); err != nil {
			return "", fmt.Errorf("%w: %v", ErrWrite, err)
		}
		return path, nil
	}
}

// Remove deletes an image file. Cleanup is best-effort as a matter of
// policy: failures are logged, never returned, so a missing or locked file
// cannot fail the operation that triggered the cleanup.
func Remove(path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("could not remove image file", "path", path, "error", err)
	}
}
