package media

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// DiskUploader copies images into a local directory that the HTTP router
// serves under /media/. Meant for local development and single-node setups.
type DiskUploader struct {
	dir     string
	baseURL string
	prefix  string
	now     func() time.Time
}

// NewDiskUploader creates dir if needed. baseURL is the public prefix the
// directory is served under, e.g. http://localhost:8080/media.
func NewDiskUploader(dir, baseURL, prefix string) (*DiskUploader, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("media: create dir: %w", err)
	}
	return &DiskUploader{dir: dir, baseURL: baseURL, prefix: prefix, now: time.Now}, nil
}

// Upload implements Uploader.
func (d *DiskUploader) Upload(ctx context.Context, localPath string) (*Asset, error) {
	defer removeTemp(ctx, localPath)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	src, ct, ext, size, err := sniff(localPath)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	key := objectKey(d.prefix, ext, d.now())
	dst := filepath.Join(d.dir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(dst), 0o750); err != nil {
		return nil, fmt.Errorf("media: create dir: %w", err)
	}

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o640) // #nosec G304 - key is generated
	if err != nil {
		return nil, fmt.Errorf("media: create: %w", err)
	}

	if _, err := io.Copy(out, src); err != nil {
		_ = out.Close()
		_ = os.Remove(dst)
		return nil, fmt.Errorf("media: copy: %w", err)
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(dst)
		return nil, fmt.Errorf("media: close: %w", err)
	}

	return &Asset{
		URL:         joinURL(d.baseURL, key),
		Key:         key,
		Bytes:       size,
		ContentType: ct,
	}, nil
}

// Handler serves the stored files. Mount it with http.StripPrefix.
// Directories answer 404 so the uploads can't be enumerated.
func (d *DiskUploader) Handler() http.Handler {
	return http.FileServer(filesOnly{http.Dir(d.dir)})
}

type filesOnly struct {
	root http.FileSystem
}

func (f filesOnly) Open(name string) (http.File, error) {
	file, err := f.root.Open(name)
	if err != nil {
		return nil, err
	}
	info, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, err
	}
	if info.IsDir() {
		_ = file.Close()
		return nil, fs.ErrNotExist
	}
	return file, nil
}
