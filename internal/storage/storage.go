// Package storage persists uploaded files under a public directory and removes
// them again when their owning row goes away.
package storage

import (
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/mozillazg/go-unidecode"
)

// DefaultMaxBytes is the upload size ceiling (50 MiB).
const DefaultMaxBytes int64 = 50 << 20

const maxStoredNameLen = 120

var (
	ErrNoFile          = errors.New("no file uploaded")
	ErrTooLarge        = errors.New("file exceeds the upload size limit")
	ErrUnsupportedType = errors.New("file type is not allowed")
	ErrFileMissing     = errors.New("stored file does not exist")
	ErrInvalidPath     = errors.New("path is outside the upload directory")
)

// StoredFile describes a file written to the upload directory.
type StoredFile struct {
	// Name is the file name on disk.
	Name string
	// OriginalName is the client supplied name, kept for display.
	OriginalName string
	// URL is the public path the file is served under, e.g. /uploads/<Name>.
	URL  string
	Size int64
	MIME string
}

// Remover deletes a stored file by its public path.
type Remover interface {
	Remove(publicPath string) error
}

// Manager writes uploads to Dir and serves them under URLPrefix.
type Manager struct {
	dir       string
	urlPrefix string
	maxBytes  int64
	now       func() time.Time
}

// NewManager creates the upload directory if needed.
func NewManager(dir, urlPrefix string, maxBytes int64) (*Manager, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		dir = "uploads"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}

	prefix := "/" + strings.Trim(strings.TrimSpace(urlPrefix), "/")
	if prefix == "/" {
		prefix = "/uploads"
	}

	return &Manager{dir: dir, urlPrefix: prefix, maxBytes: maxBytes, now: time.Now}, nil
}

// Dir returns the directory files are written to.
func (m *Manager) Dir() string { return m.dir }

// URLPrefix returns the public path prefix.
func (m *Manager) URLPrefix() string { return m.urlPrefix }

// MaxBytes returns the per-file size limit.
func (m *Manager) MaxBytes() int64 { return m.maxBytes }

// Save validates and writes an uploaded file. Nothing is written when the file
// is rejected by size or type.
func (m *Manager) Save(fh *multipart.FileHeader) (*StoredFile, error) {
	if fh == nil {
		return nil, ErrNoFile
	}
	if fh.Size > m.maxBytes {
		return nil, ErrTooLarge
	}

	src, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	detected, err := mimetype.DetectReader(src)
	if err != nil {
		return nil, fmt.Errorf("detect upload type: %w", err)
	}
	mime, ok := Allowed(fh.Filename, detected, fh.Header.Get("Content-Type"))
	if !ok {
		return nil, ErrUnsupportedType
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("rewind upload: %w", err)
	}

	dst, name, err := m.create(fh.Filename)
	if err != nil {
		return nil, err
	}

	written, err := io.Copy(dst, io.LimitReader(src, m.maxBytes+1))
	closeErr := dst.Close()
	if err == nil {
		err = closeErr
	}
	if err == nil && written > m.maxBytes {
		err = ErrTooLarge
	}
	if err != nil {
		if rmErr := os.Remove(filepath.Join(m.dir, name)); rmErr != nil && !os.IsNotExist(rmErr) {
			log.Printf("[WARN] failed to remove partial upload %s: %v", name, rmErr)
		}
		if errors.Is(err, ErrTooLarge) {
			return nil, err
		}
		return nil, fmt.Errorf("write upload: %w", err)
	}

	return &StoredFile{
		Name:         name,
		OriginalName: path.Base(strings.ReplaceAll(fh.Filename, "\\", "/")),
		URL:          m.urlPrefix + "/" + name,
		Size:         written,
		MIME:         mime,
	}, nil
}

// create opens a fresh file named after the upload time and the original name.
// A random suffix is added when the name is already taken.
func (m *Manager) create(original string) (*os.File, string, error) {
	safe := sanitizeName(original)
	stamp := m.now().UnixMilli()

	name := fmt.Sprintf("%d-%s", stamp, safe)
	for attempt := 0; attempt < 3; attempt++ {
		file, err := os.OpenFile(filepath.Join(m.dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil {
			return file, name, nil
		}
		if !os.IsExist(err) {
			return nil, "", fmt.Errorf("create upload file: %w", err)
		}
		name = fmt.Sprintf("%d-%s-%s", stamp, uuid.NewString()[:8], safe)
	}
	return nil, "", fmt.Errorf("create upload file: name collision for %s", safe)
}

// Remove deletes the file behind a public path such as /uploads/123-a.pdf.
// ErrFileMissing is returned when the file is already gone.
func (m *Manager) Remove(publicPath string) error {
	name, err := m.nameFor(publicPath)
	if err != nil {
		return err
	}
	if err := os.Remove(filepath.Join(m.dir, name)); err != nil {
		if os.IsNotExist(err) {
			return ErrFileMissing
		}
		return fmt.Errorf("remove upload: %w", err)
	}
	return nil
}

// Exists reports whether the file behind a public path is present on disk.
func (m *Manager) Exists(publicPath string) bool {
	name, err := m.nameFor(publicPath)
	if err != nil {
		return false
	}
	_, err = os.Stat(filepath.Join(m.dir, name))
	return err == nil
}

func (m *Manager) nameFor(publicPath string) (string, error) {
	trimmed := strings.TrimSpace(publicPath)
	name, ok := strings.CutPrefix(trimmed, m.urlPrefix+"/")
	if !ok || name == "" || name != path.Base(name) || name == ".." || strings.Contains(name, "\\") {
		return "", ErrInvalidPath
	}
	return name, nil
}

func sanitizeName(name string) string {
	base := unidecode.Unidecode(path.Base(strings.ReplaceAll(name, "\\", "/")))
	var b strings.Builder
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}

	safe := strings.TrimLeft(b.String(), ".")
	if safe == "" {
		safe = "file"
	}
	if len(safe) > maxStoredNameLen {
		ext := filepath.Ext(safe)
		if len(ext) > 10 {
			ext = ""
		}
		safe = safe[:maxStoredNameLen-len(ext)] + ext
	}
	return safe
}
