package utils

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

var ErrUnsafePath = errors.New("path escapes the upload root")

// GenerateFilename names a stored upload as image-<unix ms>-<8 hex><ext>,
// keeping the lower-cased extension of the client's filename.
func GenerateFilename(original string, fallbackExt string) string {
	ext := strings.ToLower(filepath.Ext(original))
	if ext == "" || len(ext) > 6 {
		ext = fallbackExt
	}
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("image-%d-%s%s", time.Now().UnixMilli(), suffix, ext)
}

// TrimStaticPrefix reduces a stored local reference to a path relative to
// the upload root. "/uploads/a.jpg", "uploads/a.jpg" and "a.jpg" all
// become "a.jpg".
func TrimStaticPrefix(ref, staticPrefix string) string {
	rel := strings.ReplaceAll(ref, "\\", "/")
	rel = strings.TrimLeft(rel, "/")
	if seg := strings.Trim(staticPrefix, "/"); seg != "" {
		rel = strings.TrimPrefix(rel, seg+"/")
	}
	return rel
}

// SafeJoin joins a relative reference onto root and refuses anything that
// would resolve outside it.
func SafeJoin(root, rel string) (string, error) {
	cleaned := path.Clean("/" + rel)
	if cleaned == "/" {
		return "", ErrUnsafePath
	}
	full := filepath.Join(root, filepath.FromSlash(cleaned))

	within, err := filepath.Rel(root, full)
	if err != nil || within == "." || strings.HasPrefix(within, "..") {
		return "", ErrUnsafePath
	}
	return full, nil
}
