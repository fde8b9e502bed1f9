package imaging

import (
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// ImageCache provides thread-safe caching of decoded images keyed by file path.
//
// Once an image is loaded, subsequent Load() calls for the same path return the
// cached copy without disk I/O. Cached images stay in memory until Evict() or
// Clear() is called.
//
// # Example Usage
//
//	cache := imaging.NewImageCache()
//	grid, err := imaging.LoadGrid(cache, "/path/to/seven.png", imaging.NormalizeOptions{})
//	if err != nil {
//	    log.Fatal(err)
//	}
type ImageCache struct {
	mu     sync.RWMutex
	images map[string]image.Image
}

// NewImageCache creates and initializes a new empty image cache.
func NewImageCache() *ImageCache {
	return &ImageCache{
		images: make(map[string]image.Image),
	}
}

// Load retrieves an image from the cache or decodes it from disk.
//
// Supported formats are PNG, JPEG and GIF. The image is cached under the exact
// path string provided.
func (c *ImageCache) Load(path string) (image.Image, error) {
	c.mu.RLock()
	if img, ok := c.images[path]; ok {
		c.mu.RUnlock()
		return img, nil
	}
	c.mu.RUnlock()

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	c.mu.Lock()
	c.images[path] = img
	c.mu.Unlock()

	return img, nil
}

// Clear removes all images from the cache.
func (c *ImageCache) Clear() {
	c.mu.Lock()
	c.images = make(map[string]image.Image)
	c.mu.Unlock()
}

// Evict removes a specific image from the cache. Unknown paths are ignored.
func (c *ImageCache) Evict(path string) {
	c.mu.Lock()
	delete(c.images, path)
	c.mu.Unlock()
}

// Len reports the number of cached images.
func (c *ImageCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.images)
}

// LoadGrid decodes an image through the cache and normalizes it into a digit grid.
func LoadGrid(cache *ImageCache, path string, opts NormalizeOptions) (Grid, error) {
	img, err := cache.Load(path)
	if err != nil {
		return Grid{}, err
	}
	return Normalize(img, opts), nil
}

// LoadGrids loads several files in order. It stops at the first failure and
// returns no partial result.
func LoadGrids(cache *ImageCache, paths []string, opts NormalizeOptions) ([]Grid, error) {
	grids := make([]Grid, 0, len(paths))
	for _, p := range paths {
		g, err := LoadGrid(cache, p, opts)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", p, err)
		}
		grids = append(grids, g)
	}
	return grids, nil
}

// DigitInfo describes a digit picture and the grid it normalizes to.
type DigitInfo struct {
	// SourceWidth and SourceHeight are the dimensions of the file on disk.
	SourceWidth  int `json:"source_width"`
	SourceHeight int `json:"source_height"`

	// Format is "png", "jpeg", "gif" or "unknown", derived from the extension.
	Format string `json:"format"`

	// GridWidth and GridHeight are the normalized grid dimensions.
	GridWidth  int `json:"grid_width"`
	GridHeight int `json:"grid_height"`

	// ForegroundPixels counts grid cells above the foreground threshold.
	ForegroundPixels int `json:"foreground_pixels"`

	// FileSizeBytes is the size of the image file on disk in bytes.
	FileSizeBytes int64 `json:"file_size_bytes"`
}

// LoadDigitInfo loads a digit picture and reports its source and grid metadata.
func LoadDigitInfo(cache *ImageCache, path string, opts NormalizeOptions, threshold float64) (*DigitInfo, Grid, error) {
	img, err := cache.Load(path)
	if err != nil {
		return nil, Grid{}, err
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, Grid{}, fmt.Errorf("failed to stat file: %w", err)
	}

	g := Normalize(img, opts)
	bounds := img.Bounds()
	return &DigitInfo{
		SourceWidth:      bounds.Dx(),
		SourceHeight:     bounds.Dy(),
		Format:           FormatFromExt(path),
		GridWidth:        g.Width,
		GridHeight:       g.Height,
		ForegroundPixels: g.ForegroundCount(threshold),
		FileSizeBytes:    stat.Size(),
	}, g, nil
}

// FormatFromExt maps a file extension to a format name.
func FormatFromExt(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "png"
	case ".jpg", ".jpeg":
		return "jpeg"
	case ".gif":
		return "gif"
	}
	return "unknown"
}

// IsImageFile reports whether the path has a decodable extension.
func IsImageFile(path string) bool {
	return FormatFromExt(path) != "unknown"
}
