package images

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// ErrNoSource is returned for an <img> without a usable src.
var ErrNoSource = errors.New("images: no source")

// Sizer reports the intrinsic pixel size of an image source.
type Sizer interface {
	IntrinsicSize(src string) (width, height int, err error)
}

type size struct{ w, h int }

// Loader resolves image sources (file paths relative to BaseDir, or data
// URIs) and caches decoded images and sizes. It is safe for concurrent use.
type Loader struct {
	BaseDir string

	mu     sync.RWMutex
	images map[string]image.Image
	sizes  map[string]size
}

func NewLoader(baseDir string) *Loader {
	return &Loader{
		BaseDir: baseDir,
		images:  make(map[string]image.Image),
		sizes:   make(map[string]size),
	}
}

// IsDataURI reports whether src is an inline data: URI.
func IsDataURI(src string) bool {
	return strings.HasPrefix(src, "data:")
}

// decodeDataURI returns the payload of a base64 or percent-encoded data URI.
func decodeDataURI(uri string) ([]byte, error) {
	comma := strings.IndexByte(uri, ',')
	if !IsDataURI(uri) || comma < 0 {
		return nil, fmt.Errorf("malformed data uri")
	}
	meta, payload := uri[len("data:"):comma], uri[comma+1:]
	if strings.HasSuffix(meta, ";base64") {
		data, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, fmt.Errorf("decoding data uri: %w", err)
		}
		return data, nil
	}
	s, err := url.PathUnescape(payload)
	if err != nil {
		return nil, fmt.Errorf("decoding data uri: %w", err)
	}
	return []byte(s), nil
}

func (l *Loader) open(src string) (io.ReadCloser, error) {
	src = strings.TrimSpace(src)
	if src == "" {
		return nil, ErrNoSource
	}
	if IsDataURI(src) {
		data, err := decodeDataURI(src)
		if err != nil {
			return nil, err
		}
		return io.NopCloser(bytes.NewReader(data)), nil
	}
	path := strings.TrimPrefix(src, "file://")
	if !filepath.IsAbs(path) && l.BaseDir != "" {
		path = filepath.Join(l.BaseDir, path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening image: %w", err)
	}
	return f, nil
}

// IntrinsicSize decodes only the image header.
func (l *Loader) IntrinsicSize(src string) (int, int, error) {
	l.mu.RLock()
	if s, ok := l.sizes[src]; ok {
		l.mu.RUnlock()
		return s.w, s.h, nil
	}
	l.mu.RUnlock()

	r, err := l.open(src)
	if err != nil {
		return 0, 0, err
	}
	defer r.Close()
	cfg, _, err := image.DecodeConfig(r)
	if err != nil {
		return 0, 0, fmt.Errorf("decoding image header: %w", err)
	}

	l.mu.Lock()
	l.sizes[src] = size{cfg.Width, cfg.Height}
	l.mu.Unlock()
	return cfg.Width, cfg.Height, nil
}

// LoadImage decodes the full image.
func (l *Loader) LoadImage(src string) (image.Image, error) {
	l.mu.RLock()
	if img, ok := l.images[src]; ok {
		l.mu.RUnlock()
		return img, nil
	}
	l.mu.RUnlock()

	r, err := l.open(src)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}

	b := img.Bounds()
	l.mu.Lock()
	l.images[src] = img
	l.sizes[src] = size{b.Dx(), b.Dy()}
	l.mu.Unlock()
	return img, nil
}

// StaticSizer serves sizes from a fixed table; unknown sources fail.
type StaticSizer map[string][2]int

func (s StaticSizer) IntrinsicSize(src string) (int, int, error) {
	if src == "" {
		return 0, 0, ErrNoSource
	}
	if wh, ok := s[src]; ok {
		return wh[0], wh[1], nil
	}
	return 0, 0, fmt.Errorf("image %q: %w", src, os.ErrNotExist)
}
