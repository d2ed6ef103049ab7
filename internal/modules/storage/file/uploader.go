package file

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/ministry-site/core/internal/pkg/validation"
)

// Backend persists an object and returns its public URL.
type Backend interface {
	Put(ctx context.Context, key string, body io.ReadSeeker, size int64, contentType string) (string, error)
}

// Uploader validates incoming files and hands them to a Backend.
type Uploader struct {
	backend Backend
	maxSize int64
}

func NewUploader(backend Backend, maxSize int64) *Uploader {
	return &Uploader{backend: backend, maxSize: maxSize}
}

// Store validates fh against kind and saves it. Rejections are returned as
// *validation.Error naming the kind as the field.
func (u *Uploader) Store(ctx context.Context, kind Kind, fh *multipart.FileHeader) (string, error) {
	r, ok := rules[kind]
	if !ok {
		return "", fmt.Errorf("unknown upload kind %q", kind)
	}
	field := string(kind)

	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(strings.TrimSpace(fh.Filename))), ".")
	if !r.allowsExt(ext) {
		return "", validation.New(field, "file type not allowed, expected one of: "+extList(r))
	}
	if u.maxSize > 0 && fh.Size > u.maxSize {
		return "", validation.New(field, fmt.Sprintf("file exceeds the %d byte limit", u.maxSize))
	}

	f, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	head := make([]byte, 512)
	n, err := io.ReadFull(f, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", err
	}
	if n == 0 {
		return "", validation.New(field, "file is empty")
	}
	sniffed := http.DetectContentType(head[:n])
	declared := fh.Header.Get("Content-Type")
	if !r.allowsType(kind, sniffed, declared) {
		return "", validation.New(field, "file content does not match an allowed "+field+" format")
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return "", err
	}

	contentType := sniffed
	if sniffed == "application/octet-stream" {
		contentType = declared
	}
	key := path.Join(field+"s", buildFileName(ext))
	return u.backend.Put(ctx, key, f, fh.Size, contentType)
}

// buildFileName returns a collision-resistant name keeping the extension.
func buildFileName(ext string) string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return id[:18] + "." + ext
}

// LocalBackend writes objects below a directory served as static files.
type LocalBackend struct {
	dir       string
	urlPrefix string
}

func NewLocalBackend(dir, urlPrefix string) *LocalBackend {
	return &LocalBackend{dir: dir, urlPrefix: "/" + strings.Trim(urlPrefix, "/")}
}

func (b *LocalBackend) Put(_ context.Context, key string, body io.ReadSeeker, _ int64, _ string) (string, error) {
	dest := filepath.Join(b.dir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return "", err
	}
	out, err := os.OpenFile(dest, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o644)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(out, body); err != nil {
		out.Close()
		_ = os.Remove(dest)
		return "", err
	}
	if err := out.Close(); err != nil {
		return "", err
	}
	return b.urlPrefix + "/" + key, nil
}
