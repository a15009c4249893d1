// Package media stores uploaded images on local disk.
package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// MaxImageSize is the largest accepted upload.
const MaxImageSize = 5 << 20

var (
	ErrMissing     = errors.New("media: file missing")
	ErrTooLarge    = errors.New("media: file exceeds 5 MiB")
	ErrNotAnImage  = errors.New("media: not a supported image")
	ErrInvalidPath = errors.New("media: invalid path")
)

// Store persists media and resolves references to public URLs.
type Store interface {
	// Save writes r under prefix and returns the stored reference.
	Save(ctx context.Context, prefix, filename string, r io.Reader) (string, error)

	// DeletePrefix removes everything stored under prefix.
	DeletePrefix(ctx context.Context, prefix string) error

	// URL returns the public URL of ref.
	URL(ref string) string
}

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// Upload is one received file, independent of how it was transported.
type Upload struct {
	Filename string
	Size     int64
	Open     func() (io.ReadCloser, error)
}

// FromFileHeader wraps a multipart file part.
func FromFileHeader(h *multipart.FileHeader) *Upload {
	if h == nil {
		return nil
	}
	return &Upload{
		Filename: h.Filename,
		Size:     h.Size,
		Open:     func() (io.ReadCloser, error) { return h.Open() },
	}
}

// FromBytes wraps an in-memory file.
func FromBytes(filename string, data []byte) *Upload {
	return &Upload{
		Filename: filename,
		Size:     int64(len(data)),
		Open:     func() (io.ReadCloser, error) { return io.NopCloser(bytes.NewReader(data)), nil },
	}
}

// ValidateImage checks the size ceiling and sniffs the content type of an
// upload. It returns the extension matching the sniffed type.
func ValidateImage(u *Upload) (string, error) {
	if u == nil || u.Size == 0 || u.Open == nil {
		return "", ErrMissing
	}
	if u.Size > MaxImageSize {
		return "", ErrTooLarge
	}

	f, err := u.Open()
	if err != nil {
		return "", fmt.Errorf("media: open upload: %w", err)
	}
	defer f.Close()

	return SniffImage(f)
}

// SaveImage validates u and stores it under prefix with the sniffed
// extension.
func SaveImage(ctx context.Context, s Store, prefix string, u *Upload) (string, error) {
	ext, err := ValidateImage(u)
	if err != nil {
		return "", err
	}
	f, err := u.Open()
	if err != nil {
		return "", fmt.Errorf("media: open upload: %w", err)
	}
	defer f.Close()

	return s.Save(ctx, prefix, "image"+ext, f)
}

// SniffImage reads the first 512 bytes of r and reports the image extension.
func SniffImage(r io.Reader) (string, error) {
	buf := make([]byte, 512)
	n, err := io.ReadFull(r, buf)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("media: read upload: %w", err)
	}
	if n == 0 {
		return "", ErrMissing
	}

	ext, ok := imageExtensions[http.DetectContentType(buf[:n])]
	if !ok {
		return "", ErrNotAnImage
	}
	return ext, nil
}

// LocalStore keeps files under Root and serves them from BaseURL.
type LocalStore struct {
	Root    string
	BaseURL string
}

func NewLocalStore(root, baseURL string) (*LocalStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("media: create root: %w", err)
	}
	if baseURL == "" {
		baseURL = "/media"
	}
	return &LocalStore{Root: root, BaseURL: strings.TrimSuffix(baseURL, "/")}, nil
}

func (s *LocalStore) Save(ctx context.Context, prefix, filename string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	dir, err := s.resolve(prefix)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("media: create dir: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(filename))
	name := uuid.New().String() + ext
	ref := path.Join(prefix, name)

	f, err := os.OpenFile(filepath.Join(dir, name), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("media: create file: %w", err)
	}

	// A reader longer than the ceiling is truncated into an error.
	written, err := io.Copy(f, io.LimitReader(r, MaxImageSize+1))
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err == nil && written > MaxImageSize {
		err = ErrTooLarge
	}
	if err != nil {
		_ = os.Remove(filepath.Join(dir, name))
		return "", fmt.Errorf("media: write file: %w", err)
	}
	return ref, nil
}

func (s *LocalStore) DeletePrefix(ctx context.Context, prefix string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	dir, err := s.resolve(prefix)
	if err != nil {
		return err
	}
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("media: delete %s: %w", prefix, err)
	}
	return nil
}

func (s *LocalStore) URL(ref string) string {
	if ref == "" {
		return ""
	}
	return s.BaseURL + "/" + strings.TrimPrefix(ref, "/")
}

// Ping reports whether Root is still a writable directory.
func (s *LocalStore) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f, err := os.CreateTemp(s.Root, ".ping-*")
	if err != nil {
		return fmt.Errorf("media: root not writable: %w", err)
	}
	name := f.Name()
	_ = f.Close()
	return os.Remove(name)
}

// MountPath is where the HTTP surface serves stored files.
const MountPath = "/media/"

// Handler serves stored files read-only under MountPath. Directory listings
// are refused.
func (s *LocalStore) Handler() http.Handler {
	fs := http.FileServer(http.Dir(s.Root))
	return http.StripPrefix(MountPath, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "" || strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("X-Content-Type-Options", "nosniff")
		fs.ServeHTTP(w, r)
	}))
}

// resolve maps a prefix to a directory under Root, rejecting escapes.
func (s *LocalStore) resolve(prefix string) (string, error) {
	clean := path.Clean("/" + prefix)
	if clean == "/" || strings.Contains(prefix, "..") {
		return "", ErrInvalidPath
	}
	return filepath.Join(s.Root, filepath.FromSlash(strings.TrimPrefix(clean, "/"))), nil
}

// MemberPrefix is where a member's signup documents live.
func MemberPrefix(memberID string) string { return "members/" + memberID }

func PostPrefix(postID string) string { return "posts/" + postID }

func AchievementPrefix(achievementID string) string { return "achievements/" + achievementID }
