package pptxjson

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"net/http"
	"path"
	"sync"

	// Stdlib formats for DecodeConfig sniffing.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"golang.org/x/sync/semaphore"

	// OOXML media is not limited to the stdlib formats.
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ImageMode selects how picture fills reference their bytes.
const (
	ImageModeBase64 = "base64"
	ImageModeURL    = "url"
)

// defaultImageConcurrency bounds concurrent image decode/encode work per
// run. Decoding dominates blocking cost, so the bound is shared across the
// whole run regardless of which slide triggers it.
const defaultImageConcurrency = 3

// mediaAsset is one resolved embedded image.
type mediaAsset struct {
	src    string
	mime   string
	width  int
	height int
}

type mediaEntry struct {
	once  sync.Once
	asset mediaAsset
	err   error
}

// mediaCache is the run-scoped image cache, keyed by package part path.
// Concurrent first access to the same part coalesces into a single decode
// via the per-entry sync.Once; the semaphore bounds how many decodes run at
// once (callers wait for a slot, they never fail on contention).
type mediaCache struct {
	arch      *archive
	mode      string
	urlPrefix string

	sem *semaphore.Weighted

	mu      sync.Mutex
	entries map[string]*mediaEntry
}

func newMediaCache(arch *archive, mode, urlPrefix string, concurrency int64) *mediaCache {
	if concurrency <= 0 {
		concurrency = defaultImageConcurrency
	}
	if mode == "" {
		mode = ImageModeBase64
	}
	return &mediaCache{
		arch:      arch,
		mode:      mode,
		urlPrefix: urlPrefix,
		sem:       semaphore.NewWeighted(concurrency),
		entries:   make(map[string]*mediaEntry),
	}
}

// resolve returns the cached asset for a media part, decoding it on first
// use.
func (m *mediaCache) resolve(ctx context.Context, partPath string) (mediaAsset, error) {
	m.mu.Lock()
	entry, ok := m.entries[partPath]
	if !ok {
		entry = &mediaEntry{}
		m.entries[partPath] = entry
	}
	m.mu.Unlock()

	entry.once.Do(func() {
		if err := m.sem.Acquire(ctx, 1); err != nil {
			entry.err = fmt.Errorf("%w: %s: %v", ErrImageDecode, partPath, err)
			return
		}
		defer m.sem.Release(1)
		entry.asset, entry.err = m.load(partPath)
	})
	return entry.asset, entry.err
}

func (m *mediaCache) load(partPath string) (mediaAsset, error) {
	data, err := m.arch.part(partPath)
	if err != nil {
		return mediaAsset{}, fmt.Errorf("%w: %v", ErrImageDecode, err)
	}
	if len(data) == 0 {
		return mediaAsset{}, fmt.Errorf("%w: %s is empty", ErrImageDecode, partPath)
	}

	asset := mediaAsset{mime: sniffMime(data)}
	if cfg, _, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
		asset.width = cfg.Width
		asset.height = cfg.Height
	}

	switch m.mode {
	case ImageModeURL:
		asset.src = m.urlPrefix + path.Base(partPath)
	default:
		asset.src = "data:" + asset.mime + ";base64," + base64.StdEncoding.EncodeToString(data)
	}
	return asset, nil
}

// sniffMime identifies the media type from magic bytes. DecodeConfig's
// registered format name takes priority since it covers the OOXML media
// formats (png/jpeg/gif/bmp/tiff/webp); everything else falls back to
// content sniffing.
func sniffMime(data []byte) string {
	if _, format, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
		return "image/" + format
	}
	return http.DetectContentType(data)
}
