package render

import (
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"sync"

	"github.com/julianstephens/logsheet/internal/logger"
)

// Asset is a template image that decodes in the background. Every draw
// entry point waits for it, so callers may start rendering immediately.
type Asset struct {
	path string
	done chan struct{}
	once sync.Once

	img image.Image
	err error
}

// LoadAsset starts decoding the image at path and returns without blocking.
func LoadAsset(path string) *Asset {
	a := &Asset{path: path, done: make(chan struct{})}
	go func() {
		img, err := decodeFile(path)
		a.finish(img, err)
	}()
	return a
}

// NewAsset wraps an already decoded image.
func NewAsset(img image.Image) *Asset {
	a := &Asset{done: make(chan struct{})}
	a.finish(img, nil)
	return a
}

// FailedAsset returns an asset that is ready with err. Renders against it use
// the blank fallback sheet.
func FailedAsset(err error) *Asset {
	a := &Asset{done: make(chan struct{})}
	a.finish(nil, err)
	return a
}

func (a *Asset) finish(img image.Image, err error) {
	a.once.Do(func() {
		a.img, a.err = img, err
		if err != nil {
			logger.Warn("template failed to load", "path", a.path, "error", err)
		} else {
			logger.Debug("template loaded", "path", a.path, "bounds", img.Bounds())
		}
		close(a.done)
	})
}

func (a *Asset) Path() string {
	return a.path
}

// Ready reports whether decoding has finished, successfully or not.
func (a *Asset) Ready() bool {
	select {
	case <-a.done:
		return true
	default:
		return false
	}
}

// Wait blocks until the asset is decoded or ctx is done. A decode failure is
// returned as the error; ctx errors are returned unwrapped.
func (a *Asset) Wait(ctx context.Context) (image.Image, error) {
	select {
	case <-a.done:
		return a.img, a.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func decodeFile(path string) (image.Image, error) {
	if path == "" {
		return nil, fmt.Errorf("no template configured")
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open template: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode template %s: %w", path, err)
	}
	return img, nil
}
