package imagestore

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/png"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
)

const (
	// Ext is the file extension of every stored image.
	Ext = ".jpg"

	DefaultQuality      = 80
	DefaultMaxDimension = 2048
)

var (
	// ErrNotFound is returned by Load when no file exists for the id.
	ErrNotFound = errors.New("image not found")

	// ErrInvalidImage is returned by Save when the bytes cannot be decoded.
	ErrInvalidImage = errors.New("invalid image data")

	// ErrInvalidID is returned for ids that cannot be used as a file name.
	ErrInvalidID = errors.New("invalid image id")

	// ErrWrite wraps any filesystem failure during Save.
	ErrWrite = errors.New("image write failed")
)

// Store is a directory of per-item images.
type Store struct {
	dir     string
	quality int
	maxDim  int
}

// Option configures a Store.
type Option func(*Store)

// WithQuality sets the JPEG quality (1-100) used when normalizing.
func WithQuality(q int) Option {
	return func(s *Store) {
		if q >= 1 && q <= 100 {
			s.quality = q
		}
	}
}

// WithMaxDimension bounds the longer edge of stored images. Zero disables scaling.
func WithMaxDimension(px int) Option {
	return func(s *Store) {
		if px >= 0 {
			s.maxDim = px
		}
	}
}

// New returns a store rooted at dir. The directory is not touched until the first Save.
func New(dir string, opts ...Option) *Store {
	s := &Store{
		dir:     dir,
		quality: DefaultQuality,
		maxDim:  DefaultMaxDimension,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dir returns the backing directory.
func (s *Store) Dir() string {
	return s.dir
}

// Path returns the file path for id.
func (s *Store) Path(id string) string {
	return filepath.Join(s.dir, id+Ext)
}

// Save normalizes data and writes it as the image for id, replacing any existing file.
func (s *Store) Save(id string, data []byte) error {
	if err := checkID(id); err != nil {
		return err
	}

	encoded, err := s.normalize(data)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("%w: mkdir %s: %v", ErrWrite, s.dir, err)
	}

	tmp, err := os.CreateTemp(s.dir, "."+id+"-*.tmp")
	if err != nil {
		return fmt.Errorf("%w: create temp: %v", ErrWrite, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if _, err := tmp.Write(encoded); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: write %s: %v", ErrWrite, id, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: close %s: %v", ErrWrite, id, err)
	}
	if err := os.Rename(tmpName, s.Path(id)); err != nil {
		return fmt.Errorf("%w: rename %s: %v", ErrWrite, id, err)
	}
	return nil
}

// Load returns the stored bytes for id, or ErrNotFound.
func (s *Store) Load(id string) ([]byte, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.Path(id))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load image %s: %w", id, err)
	}
	return data, nil
}

// Exists reports whether a file is stored for id without reading it.
func (s *Store) Exists(id string) bool {
	if checkID(id) != nil {
		return false
	}
	info, err := os.Stat(s.Path(id))
	return err == nil && info.Mode().IsRegular()
}

// Delete removes the file for id. Deleting a missing file succeeds.
func (s *Store) Delete(id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	err := os.Remove(s.Path(id))
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("delete image %s: %w", id, err)
}

// IDs lists the ids that currently have a stored file, in directory order.
// A missing directory yields an empty list.
func (s *Store) IDs() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list images: %w", err)
	}
	ids := []string{}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") || filepath.Ext(name) != Ext {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, Ext))
	}
	return ids, nil
}

func (s *Store) normalize(data []byte) ([]byte, error) {
	img, err := Decode(data)
	if err != nil {
		return nil, err
	}
	if s.maxDim > 0 {
		b := img.Bounds()
		if b.Dx() > s.maxDim || b.Dy() > s.maxDim {
			img = imaging.Fit(img, s.maxDim, s.maxDim, imaging.Lanczos)
		}
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(s.quality)); err != nil {
		return nil, fmt.Errorf("%w: encode: %v", ErrInvalidImage, err)
	}
	return buf.Bytes(), nil
}

// Decode turns stored or uploaded bytes into an image, honouring EXIF orientation.
func Decode(data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty", ErrInvalidImage)
	}
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	return img, nil
}

func checkID(id string) error {
	if id == "" || id == "." || id == ".." || strings.ContainsAny(id, `/\`) || strings.ContainsRune(id, 0) {
		return fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return nil
}
