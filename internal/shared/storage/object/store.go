package object

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/google/uuid"

	"resume-assistant/internal/shared/util"
)

// ObjectStore saves and retrieves resume files. Keys are namespaced by a hash
// of the owner's email so raw addresses never appear in object paths.
type ObjectStore interface {
	Save(ctx context.Context, owner string, fileName string, r io.Reader) (storageKey string, sizeBytes int64, mimeType string, err error)
	SaveWithKey(ctx context.Context, storageKey string, contentType string, r io.Reader) (int64, error)
	Open(ctx context.Context, storageKey string) (io.ReadCloser, error)
}

// Key builds the storage key for a new upload: <owner hash>/<random>_<sanitized name>.
func Key(owner, fileName string) (string, error) {
	sanitized, err := util.SanitizeFileName(fileName)
	if err != nil {
		return "", fmt.Errorf("sanitize file name: %w", err)
	}
	if strings.TrimSpace(owner) == "" {
		return "", errors.New("owner is required")
	}
	random := strings.ReplaceAll(uuid.NewString(), "-", "")
	return path.Join(util.HashOwnerKey(owner), random+"_"+sanitized), nil
}

// Sniff reads up to 512 bytes to detect the content type and returns a reader
// that replays them ahead of the remainder of r.
func Sniff(r io.Reader) (string, io.Reader, error) {
	var head [512]byte
	n, err := io.ReadFull(r, head[:])
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return "", nil, fmt.Errorf("read sniff: %w", err)
	}
	mimeType := http.DetectContentType(head[:n])
	return mimeType, io.MultiReader(bytes.NewReader(head[:n]), r), nil
}

var (
	// ErrInvalidKey is returned for keys that are empty or escape the store root.
	ErrInvalidKey = errors.New("invalid storage key")
	// ErrNotFound is returned by Open when no object exists at the key.
	ErrNotFound = errors.New("object not found")
)

// Upload is a new object ready to be written: its key, sniffed content type
// and a body that still yields every byte of the original reader.
type Upload struct {
	Key      string
	MimeType string
	Body     io.Reader
}

// PrepareUpload derives the key and content type shared by every store's Save.
func PrepareUpload(ctx context.Context, owner, fileName string, r io.Reader) (Upload, error) {
	key, err := Key(owner, fileName)
	if err != nil {
		return Upload{}, err
	}
	if err := ctx.Err(); err != nil {
		return Upload{}, err
	}
	mimeType, body, err := Sniff(r)
	if err != nil {
		return Upload{}, err
	}
	return Upload{Key: key, MimeType: mimeType, Body: body}, nil
}

// CheckKey validates a caller-supplied key before a store touches it.
func CheckKey(ctx context.Context, storageKey string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !ValidKey(storageKey) {
		return fmt.Errorf("%w: %q", ErrInvalidKey, storageKey)
	}
	return nil
}

// ValidKey rejects keys that escape the store root.
func ValidKey(storageKey string) bool {
	clean := path.Clean(strings.ReplaceAll(storageKey, "\\", "/"))
	return clean != "." && !strings.HasPrefix(clean, "..") && !strings.HasPrefix(clean, "/")
}
