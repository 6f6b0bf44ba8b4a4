// Package media uploads user images (avatars, cover images) to durable
// storage and hands back a public URL. Uploaders always delete the local
// temp file once the attempt is over.
package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"strings"
	"time"

	"github.com/aussiebroadwan/tubetab/pkg/slogx"
	"github.com/google/uuid"
)

var (
	ErrUnsupportedMedia = errors.New("media: unsupported media type")
	ErrEmptyFile        = errors.New("media: empty file")
)

// DefaultPrefix is the key prefix used when none is configured.
const DefaultPrefix = "images"

// Asset describes an uploaded object.
type Asset struct {
	URL         string
	Key         string
	Bytes       int64
	ContentType string
}

// Uploader moves a local file to storage.
type Uploader interface {
	Upload(ctx context.Context, localPath string) (*Asset, error)
}

// extensions maps sniffed image types to the extension used in the key.
var extensions = map[string]string{
	"image/png":    ".png",
	"image/jpeg":   ".jpg",
	"image/gif":    ".gif",
	"image/webp":   ".webp",
	"image/bmp":    ".bmp",
	"image/x-icon": ".ico",
}

// sniff opens localPath, checks it is a non-empty image and returns the file
// rewound to the start along with its type, extension and size. The caller
// closes the file.
func sniff(localPath string) (*os.File, string, string, int64, error) {
	f, err := os.Open(localPath) // #nosec G304 - path comes from our own temp dir
	if err != nil {
		return nil, "", "", 0, fmt.Errorf("media: open: %w", err)
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, "", "", 0, fmt.Errorf("media: stat: %w", err)
	}
	if info.Size() == 0 {
		_ = f.Close()
		return nil, "", "", 0, ErrEmptyFile
	}

	head := make([]byte, 512)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		_ = f.Close()
		return nil, "", "", 0, fmt.Errorf("media: read: %w", err)
	}

	ct := http.DetectContentType(head[:n])
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = ct[:i]
	}
	if !strings.HasPrefix(ct, "image/") {
		_ = f.Close()
		return nil, "", "", 0, fmt.Errorf("%w: %s", ErrUnsupportedMedia, ct)
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		_ = f.Close()
		return nil, "", "", 0, fmt.Errorf("media: seek: %w", err)
	}

	ext, ok := extensions[ct]
	if !ok {
		ext = ".img"
	}
	return f, ct, ext, info.Size(), nil
}

// objectKey builds prefix/YYYY/MM/DD/<uuid><ext>.
func objectKey(prefix, ext string, now time.Time) string {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	now = now.UTC()
	return path.Join(
		strings.Trim(prefix, "/"),
		fmt.Sprintf("%04d/%02d/%02d", now.Year(), now.Month(), now.Day()),
		uuid.NewString()+ext,
	)
}

func joinURL(base, key string) string {
	return strings.TrimSuffix(base, "/") + "/" + key
}

// removeTemp deletes the spooled upload, a missing file is not an error.
func removeTemp(ctx context.Context, localPath string) {
	if err := os.Remove(localPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		slogx.FromContext(ctx).Warn("failed to remove temp upload", "path", localPath, "err", err)
	}
}
