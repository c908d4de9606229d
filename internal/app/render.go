package app

import (
	"context"
	"encoding/base64"
	"errors"
	"os"
	"strings"
	"sync/atomic"

	"go.trai.ch/chartcache/internal/adapters/guard"
	"go.trai.ch/chartcache/internal/adapters/raster"
	"go.trai.ch/chartcache/internal/adapters/svg"
	"go.trai.ch/chartcache/internal/adapters/watcher"
	"go.trai.ch/chartcache/internal/core/domain"
	"go.trai.ch/chartcache/internal/core/ports"
	"go.trai.ch/chartcache/internal/engine/coordinator"
	"go.trai.ch/chartcache/internal/engine/display"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// RenderRequest describes one chart to present.
type RenderRequest struct {
	// ScenePath is the SVG file holding the rendered live scene.
	ScenePath string
	// DataPath is the subject data file (JSON or YAML) the chart was drawn from.
	// Its estimates and confidence level make up the content hash.
	DataPath string
	// SubjectID defaults to the base name of DataPath.
	SubjectID string
	Variant   string
	Width     int
	Height    int
	Theme     domain.ThemeFlags
	Device    display.DeviceClass
	// OutputPath, when set, receives the PNG snapshot.
	OutputPath string
}

// RenderResult is the outcome of a render.
type RenderResult struct {
	Key domain.CacheKey
	// DataURL is the snapshot, empty when the chart fell back to its live scene.
	DataURL string
	// FromCache reports whether the snapshot was served without rasterizing.
	FromCache    bool
	Presentation display.Presentation
}

// Render runs one coordinator end to end for the chart in req and reports what
// its display would present. A failed rasterization still returns a result that
// presents the live scene, together with an error wrapping domain.ErrRenderFailed.
func (a *App) Render(ctx context.Context, req RenderRequest) (RenderResult, error) {
	scene, err := readScene(req.ScenePath)
	if err != nil {
		return RenderResult{}, err
	}

	key, err := a.buildKey(req)
	if err != nil {
		return RenderResult{}, err
	}

	var rasterized atomic.Bool
	coord := coordinator.New(
		guard.New(a.store, a.logger),
		a.rasterizer,
		coordinator.WithSettleDelay(a.config.SettleDelay),
		coordinator.WithScale(a.config.Scale),
		coordinator.WithTracer(a.tracer),
		coordinator.WithMetrics(a.metrics),
		coordinator.WithLogger(a.logger),
		coordinator.WithListener(func(st coordinator.State) {
			if st.Phase == coordinator.PhaseRasterizing {
				rasterized.Store(true)
			}
		}),
	)
	defer coord.Unmount()

	strategy := display.NewStrategy(req.Device)
	strategy.MarkSceneRendered()

	if err := coord.Update(ctx, key, ports.SceneFunc(func() *domain.Scene { return scene })); err != nil {
		return RenderResult{}, err
	}
	snapshot, err := coord.Wait(ctx)
	if err != nil {
		return RenderResult{}, err
	}
	strategy.Sync(snapshot)

	result := RenderResult{
		Key:          key,
		DataURL:      snapshot.DataURL,
		FromCache:    snapshot.HasSnapshot() && !rasterized.Load(),
		Presentation: strategy.Presentation(),
	}
	if snapshot.Err != nil {
		return result, errors.Join(domain.ErrRenderFailed, snapshot.Err)
	}

	if req.OutputPath != "" && snapshot.HasSnapshot() {
		if err := writePNG(req.OutputPath, snapshot.DataURL); err != nil {
			return result, err
		}
		a.logger.Info("wrote " + req.OutputPath)
	}
	return result, nil
}

func (a *App) buildKey(req RenderRequest) (domain.CacheKey, error) {
	var content domain.ContentInput
	if req.DataPath != "" {
		var err error
		if content, err = readContent(req.DataPath); err != nil {
			return domain.CacheKey{}, err
		}
	}

	subject := req.SubjectID
	if subject == "" && req.DataPath != "" {
		subject, _ = watcher.SubjectID(req.DataPath)
	}

	key := domain.NewCacheKey(subject, req.Variant, req.Width, req.Height, req.Theme, content)
	if err := key.Validate(); err != nil {
		return domain.CacheKey{}, err
	}
	return key, nil
}

func readScene(path string) (*domain.Scene, error) {
	f, err := os.Open(path) //nolint:gosec // path is provided by the operator
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrSceneParseFailed.Error()), "path", path)
	}
	defer func() { _ = f.Close() }()

	scene, err := svg.Parse(f)
	if err != nil {
		return nil, zerr.With(err, "path", path)
	}
	return scene, nil
}

// readContent decodes subject data. YAML is a superset of JSON, so one decoder serves both.
func readContent(path string) (domain.ContentInput, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is provided by the operator
	if err != nil {
		return domain.ContentInput{}, zerr.With(zerr.Wrap(err, domain.ErrDataReadFailed.Error()), "path", path)
	}

	var content domain.ContentInput
	if err := yaml.Unmarshal(data, &content); err != nil {
		return domain.ContentInput{}, zerr.With(zerr.Wrap(err, domain.ErrDataReadFailed.Error()), "path", path)
	}
	return content, nil
}

func writePNG(path, dataURL string) error {
	encoded, ok := strings.CutPrefix(dataURL, raster.DataURLPrefix)
	if !ok {
		return zerr.With(domain.ErrImageDecodeFailed, "path", path)
	}
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return zerr.Wrap(err, domain.ErrImageDecodeFailed.Error())
	}
	if err := os.WriteFile(path, data, domain.FilePerm); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to write snapshot"), "path", path)
	}
	return nil
}
