package figure

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/image/draw"
)

const (
	DefaultThumbnailWidth  = 200
	DefaultThumbnailHeight = 150
	defaultThumbnailCache  = 64
)

type ThumbnailConfig struct {
	MaxWidth  int
	MaxHeight int
	CacheSize int
}

// Thumbnailer produces downscaled previews of records and keeps the most
// recently used ones in memory.
type Thumbnailer struct {
	maxWidth  int
	maxHeight int
	cache     *lru.Cache[uuid.UUID, []byte]
}

func NewThumbnailer(cfg ThumbnailConfig) *Thumbnailer {
	if cfg.MaxWidth <= 0 {
		cfg.MaxWidth = DefaultThumbnailWidth
	}
	if cfg.MaxHeight <= 0 {
		cfg.MaxHeight = DefaultThumbnailHeight
	}
	if cfg.CacheSize <= 0 {
		cfg.CacheSize = defaultThumbnailCache
	}
	// lru.New only fails for a non-positive size.
	cache, _ := lru.New[uuid.UUID, []byte](cfg.CacheSize)
	return &Thumbnailer{
		maxWidth:  cfg.MaxWidth,
		maxHeight: cfg.MaxHeight,
		cache:     cache,
	}
}

// Thumbnail returns a PNG preview of r that fits the configured box. SVG
// figures scale on their own and are returned as-is, as are raster figures
// already small enough.
func (t *Thumbnailer) Thumbnail(r *Record) ([]byte, error) {
	if data, ok := t.cache.Get(r.id); ok {
		return bytes.Clone(data), nil
	}

	if r.mimeType.IsVector() {
		t.cache.Add(r.id, r.data)
		return bytes.Clone(r.data), nil
	}

	img, _, err := image.Decode(bytes.NewReader(r.data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width <= t.maxWidth && height <= t.maxHeight {
		t.cache.Add(r.id, r.data)
		return bytes.Clone(r.data), nil
	}

	newWidth, newHeight := fitBox(width, height, t.maxWidth, t.maxHeight)
	resized := image.NewRGBA(image.Rect(0, 0, newWidth, newHeight))
	draw.ApproxBiLinear.Scale(resized, resized.Bounds(), img, bounds, draw.Src, nil)

	var buf bytes.Buffer
	if err := png.Encode(&buf, resized); err != nil {
		return nil, fmt.Errorf("failed to encode thumbnail: %w", err)
	}
	thumb := buf.Bytes()
	t.cache.Add(r.id, thumb)
	return bytes.Clone(thumb), nil
}

// Forget drops the cached preview of a record.
func (t *Thumbnailer) Forget(id uuid.UUID) {
	t.cache.Remove(id)
}

func (t *Thumbnailer) Purge() {
	t.cache.Purge()
}

func (t *Thumbnailer) Len() int {
	return t.cache.Len()
}

// fitBox scales width x height down to fit inside maxWidth x maxHeight while
// keeping the aspect ratio. Each side is at least one pixel.
func fitBox(width, height, maxWidth, maxHeight int) (int, int) {
	w, h := maxWidth, height*maxWidth/width
	if width*maxHeight < height*maxWidth {
		w, h = width*maxHeight/height, maxHeight
	}
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return w, h
}
