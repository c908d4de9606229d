package ports

import (
	"context"

	"go.trai.ch/chartcache/internal/core/domain"
)

//go:generate mockgen -source=rasterizer.go -destination=mocks/mock_rasterizer.go -package=mocks

// Rasterizer converts a live vector scene into a raster snapshot.
type Rasterizer interface {
	// Rasterize draws scene at the requested size and returns a PNG data URI.
	// The scene is never mutated. Failures are returned as-is and are not retried.
	Rasterize(ctx context.Context, scene *domain.Scene, opts domain.RasterOptions) (string, error)
}

// FontBarrier blocks until every font a scene may reference is loaded.
type FontBarrier interface {
	// Ready returns once all fonts are available, or with the first load error.
	Ready(ctx context.Context) error
}

// FontFace is one font made available to rasterized scenes.
type FontFace struct {
	// Family is the font-family name scenes reference.
	Family string
	// MediaType is the font MIME type, e.g. "font/ttf".
	MediaType string
	// Data is the raw font file.
	Data []byte
}

// FontSource exposes the loaded font faces for inlining into snapshots.
type FontSource interface {
	FontBarrier
	// Faces returns the loaded faces. It must only be called after Ready succeeded.
	Faces() []FontFace
}

// SceneSource gives the coordinator access to the live scene of a display instance.
type SceneSource interface {
	// Scene returns the current live scene, or nil if it has not rendered yet.
	Scene() *domain.Scene
}

// SceneFunc adapts a function to SceneSource.
type SceneFunc func() *domain.Scene

// Scene implements SceneSource.
func (f SceneFunc) Scene() *domain.Scene {
	return f()
}
