package match

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/DhavalSuthar-24/arena/pkg/apperr"
	"github.com/google/uuid"
)

const maxResultImageBytes = 5 << 20

var allowedImageExt = map[string]bool{".png": true, ".jpg": true, ".jpeg": true, ".webp": true}

// ResultStore persists result screenshots and returns their public URL.
type ResultStore interface {
	Save(matchID uint, file *multipart.FileHeader) (string, error)
}

// DiskStore writes under Dir and serves from URLPrefix.
type DiskStore struct {
	Dir       string
	URLPrefix string
}

func NewDiskStore(dir, urlPrefix string) *DiskStore {
	return &DiskStore{Dir: dir, URLPrefix: strings.TrimRight(urlPrefix, "/")}
}

func (s *DiskStore) Save(matchID uint, fh *multipart.FileHeader) (string, error) {
	if fh.Size > maxResultImageBytes {
		return "", apperr.Validation("Result image must be 5MB or smaller")
	}
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !allowedImageExt[ext] {
		return "", apperr.Validation("Result image must be png, jpg or webp")
	}

	sub := fmt.Sprintf("results/%d", matchID)
	dir := filepath.Join(s.Dir, filepath.FromSlash(sub))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", apperr.Internal(err, "create upload dir")
	}
	name := uuid.NewString() + ext

	src, err := fh.Open()
	if err != nil {
		return "", apperr.Internal(err, "open upload")
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return "", apperr.Internal(err, "create result file")
	}
	defer dst.Close()

	if _, err := io.Copy(dst, io.LimitReader(src, maxResultImageBytes+1)); err != nil {
		return "", apperr.Internal(err, "write result file")
	}
	return path.Join(s.URLPrefix, sub, name), nil
}
