// Package storage persists uploaded file bytes on local disk under generated,
// collision-proof storage keys.
package storage

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"drivebox/backend/common"

	"github.com/google/uuid"
)

// allowedTypes mirrors the upload filter of the web client: both the file
// extension and the declared mimetype must contain one of these tokens.
const allowedTypes = `jpeg|jpg|png|gif|pdf|doc|docx|txt|csv|xls|xlsx`

var allowedTypesRe = regexp.MustCompile(allowedTypes)

// ErrFileTooLarge rejects uploads beyond common.MaxUploadSize before any byte
// reaches disk.
var ErrFileTooLarge = errors.New("File is larger than the 10 MiB upload limit")

// TypeNotAllowedError rejects uploads whose extension or mimetype is not on
// the allow list.
type TypeNotAllowedError struct {
	Filename string
	Mimetype string
}

func (e *TypeNotAllowedError) Error() string {
	return "File type not allowed. Allowed types: " + allowedTypes
}

// DiskStorage writes uploaded files into a single local directory.
type DiskStorage struct {
	root string
}

// NewDiskStorage creates the upload directory if needed and returns a storage
// rooted there.
func NewDiskStorage(root string) (*DiskStorage, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create upload directory %s: %w", root, err)
	}
	return &DiskStorage{root: root}, nil
}

func (s *DiskStorage) Root() string {
	return s.root
}

// CheckUpload validates size and type limits without touching disk.
func CheckUpload(fh *multipart.FileHeader) error {
	if fh.Size > common.MaxUploadSize {
		return ErrFileTooLarge
	}
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	mimetype := fh.Header.Get("Content-Type")
	if !allowedTypesRe.MatchString(ext) || !allowedTypesRe.MatchString(mimetype) {
		return &TypeNotAllowedError{Filename: fh.Filename, Mimetype: mimetype}
	}
	return nil
}

// Save validates the upload and writes it under a fresh storage key, which it
// returns. The original extension is preserved; the key never collides thanks
// to the timestamp plus random suffix.
func (s *DiskStorage) Save(fh *multipart.FileHeader) (string, error) {
	if err := CheckUpload(fh); err != nil {
		return "", err
	}

	key := GenerateStorageKey(fh.Filename)

	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open uploaded file %s: %w", fh.Filename, err)
	}
	defer src.Close()

	dst, err := os.OpenFile(filepath.Join(s.root, key), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create storage file %s: %w", key, err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		_ = os.Remove(dst.Name())
		return "", fmt.Errorf("write storage file %s: %w", key, err)
	}
	return key, nil
}

// Path resolves a storage key inside the root, rejecting anything that would
// escape it.
func (s *DiskStorage) Path(key string) (string, error) {
	fullPath := filepath.Join(s.root, key)
	if !strings.HasPrefix(filepath.Clean(fullPath), filepath.Clean(s.root)+string(os.PathSeparator)) {
		return "", fmt.Errorf("invalid storage key: %s", key)
	}
	return fullPath, nil
}

// Remove deletes the stored bytes for key. Used for best-effort cleanup when
// the metadata insert fails after a successful disk write.
func (s *DiskStorage) Remove(key string) error {
	fullPath, err := s.Path(key)
	if err != nil {
		return err
	}
	return os.Remove(fullPath)
}

// GenerateStorageKey builds a unique on-disk filename keeping the original
// extension, e.g. "file-1714406400000-<uuid>.pdf".
func GenerateStorageKey(originalName string) string {
	ext := strings.ToLower(filepath.Ext(originalName))
	return fmt.Sprintf("file-%d-%s%s", time.Now().UnixMilli(), uuid.NewString(), ext)
}
