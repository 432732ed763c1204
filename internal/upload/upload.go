// Package upload stores photo files on local disk under sanitized names.
package upload

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
)

var (
	ErrExtensionNotAllowed = errors.New("file extension not allowed")
	ErrInvalidFilename     = errors.New("invalid filename")
)

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// SecureFilename folds name to a plain ASCII file name that is safe to use
// as a path element. It returns "" when nothing usable is left.
func SecureFilename(name string) string {
	name = norm.NFKD.String(name)
	var ascii strings.Builder
	for _, r := range name {
		if r < 0x80 {
			ascii.WriteRune(r)
		}
	}
	name = strings.NewReplacer("/", " ", `\`, " ").Replace(ascii.String())
	name = strings.Join(strings.Fields(name), "_")
	name = unsafeChars.ReplaceAllString(name, "")
	return strings.Trim(name, "._")
}

type Storage struct {
	dir     string
	allowed map[string]bool
}

// NewStorage creates dir if needed. Extensions are matched case-insensitively,
// with or without a leading dot.
func NewStorage(dir string, extensions []string) (*Storage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	allowed := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
		if ext != "" {
			allowed[ext] = true
		}
	}
	return &Storage{dir: dir, allowed: allowed}, nil
}

func (s *Storage) Dir() string {
	return s.dir
}

func (s *Storage) Allowed(name string) bool {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	return ext != "" && s.allowed[ext]
}

// Save writes r under the sanitized form of name and returns the stored
// file name. A name already in use gets a short random suffix.
func (s *Storage) Save(name string, r io.Reader) (string, error) {
	if !s.Allowed(name) {
		return "", fmt.Errorf("%s: %w", name, ErrExtensionNotAllowed)
	}
	clean := SecureFilename(name)
	if clean == "" || !s.Allowed(clean) {
		return "", fmt.Errorf("%q: %w", name, ErrInvalidFilename)
	}

	f, err := os.OpenFile(filepath.Join(s.dir, clean), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if errors.Is(err, fs.ErrExist) {
		clean = withSuffix(clean)
		f, err = os.OpenFile(filepath.Join(s.dir, clean), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	}
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return "", err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(f.Name())
		return "", err
	}
	return clean, nil
}

// Open returns the stored file. Names that are not already sanitized are
// rejected so a request can never reach outside the upload dir.
func (s *Storage) Open(name string) (*os.File, error) {
	path, err := s.path(name)
	if err != nil {
		return nil, err
	}
	return os.Open(path)
}

// Remove deletes the stored file. A file that is already gone is not an error.
func (s *Storage) Remove(name string) error {
	path, err := s.path(name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func (s *Storage) path(name string) (string, error) {
	if name == "" || SecureFilename(name) != name {
		return "", fmt.Errorf("%q: %w", name, ErrInvalidFilename)
	}
	return filepath.Join(s.dir, name), nil
}

func withSuffix(name string) string {
	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)
	return base + "_" + uuid.NewString()[:8] + ext
}
