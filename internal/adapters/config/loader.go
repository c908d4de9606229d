// Package config provides the configuration loader for chartcache.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"go.trai.ch/chartcache/internal/core/domain"
	"go.trai.ch/chartcache/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "CHARTCACHE_"

// Loader implements ports.ConfigLoader using a YAML file plus environment overrides.
type Loader struct {
	Logger ports.Logger
	// Environ supplies the environment. Defaults to os.Environ.
	Environ func() []string
}

var _ ports.ConfigLoader = (*Loader)(nil)

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger, Environ: os.Environ}
}

// Load resolves the configuration for cwd.
// The nearest chartcache.yaml walking up from cwd is read first; environment
// variables then override individual fields. Relative paths resolve against
// the directory holding the file, or cwd when there is none.
func (l *Loader) Load(cwd string) (domain.Config, error) {
	absCwd, err := filepath.Abs(cwd)
	if err != nil {
		return domain.Config{}, zerr.With(zerr.Wrap(err, domain.ErrConfigReadFailed.Error()), "cwd", cwd)
	}

	var file File
	root := absCwd

	configPath, found := findConfigFile(absCwd)
	if found {
		if err := readAndUnmarshalYAML(configPath, &file); err != nil {
			return domain.Config{}, zerr.With(err, "path", configPath)
		}
		root = filepath.Dir(configPath)
	}

	if err := env.ParseWithOptions(&file, env.Options{
		Prefix:      EnvPrefix,
		Environment: l.environment(),
	}); err != nil {
		return domain.Config{}, zerr.Wrap(err, domain.ErrConfigEnvFailed.Error())
	}

	return l.resolve(root, file)
}

func (l *Loader) environment() map[string]string {
	environ := l.Environ
	if environ == nil {
		environ = os.Environ
	}
	out := make(map[string]string)
	for _, kv := range environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			out[k] = v
		}
	}
	return out
}

func (l *Loader) resolve(root string, file File) (domain.Config, error) {
	cfg := domain.DefaultConfig()
	cfg.Root = root
	cfg.JSONLogs = file.Log.JSON

	switch backend := domain.StoreBackend(strings.ToLower(strings.TrimSpace(file.Store.Backend))); backend {
	case "", domain.BackendSQLite:
		cfg.StoreBackend = domain.BackendSQLite
		cfg.StorePath = domain.DefaultSQLitePath()
	case domain.BackendFS:
		cfg.StoreBackend = domain.BackendFS
		cfg.StorePath = domain.DefaultSnapshotDir()
	default:
		return domain.Config{}, zerr.With(domain.ErrUnknownStoreBackend, "backend", file.Store.Backend)
	}
	if file.Store.Path != "" {
		cfg.StorePath = file.Store.Path
	}
	cfg.StorePath = resolvePath(root, cfg.StorePath)

	if file.Raster.Scale != 0 {
		cfg.Scale = file.Raster.Scale
	}
	if cfg.Scale < domain.MinScale {
		l.warn(fmt.Sprintf("raster scale %g is below the minimum, using %g", cfg.Scale, domain.MinScale))
		cfg.Scale = domain.MinScale
	}

	if file.Raster.SettleDelay > 0 {
		cfg.SettleDelay = file.Raster.SettleDelay
	}

	for _, font := range file.Fonts {
		font = strings.TrimSpace(font)
		if font == "" {
			continue
		}
		cfg.Fonts = append(cfg.Fonts, resolvePath(root, font))
	}

	return cfg, nil
}

func (l *Loader) warn(msg string) {
	if l.Logger != nil {
		l.Logger.Warn(msg)
	}
}

// findConfigFile walks up from dir looking for chartcache.yaml.
func findConfigFile(dir string) (string, bool) {
	for {
		candidate := filepath.Join(dir, domain.ConfigFileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

func resolvePath(root, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(root, p)
}

func readAndUnmarshalYAML[T any](configPath string, target *T) error {
	// #nosec G304 -- configPath is discovered by walking up from cwd
	data, err := os.ReadFile(configPath)
	if err != nil {
		return zerr.Wrap(err, domain.ErrConfigReadFailed.Error())
	}

	if err := yaml.Unmarshal(data, target); err != nil {
		return zerr.Wrap(err, domain.ErrConfigParseFailed.Error())
	}

	return nil
}
