package domain

import "go.trai.ch/zerr"

var (
	// ErrImageDecodeFailed is returned when the serialized scene cannot be decoded into a drawable image.
	ErrImageDecodeFailed = zerr.New("failed to decode scene image")

	// ErrDrawingContextUnavailable is returned when no drawing surface can be allocated for the requested size.
	ErrDrawingContextUnavailable = zerr.New("drawing context unavailable")

	// ErrSceneSerializationFailed is returned when a scene cannot be serialized to markup.
	ErrSceneSerializationFailed = zerr.New("failed to serialize scene")

	// ErrFontsUnavailable is returned when the font readiness barrier fails.
	ErrFontsUnavailable = zerr.New("fonts not ready")

	// ErrSceneParseFailed is returned when scene markup cannot be parsed.
	ErrSceneParseFailed = zerr.New("failed to parse scene markup")

	// ErrEmptyScene is returned when a scene has no root element.
	ErrEmptyScene = zerr.New("scene has no root element")

	// ErrStoreUnavailable is returned when the snapshot store cannot be opened or is closed.
	ErrStoreUnavailable = zerr.New("snapshot store unavailable")

	// ErrTransactionFailed is returned when a snapshot store operation fails.
	ErrTransactionFailed = zerr.New("snapshot store transaction failed")

	// ErrInvalidCacheKey is returned when a cache key is missing required fields.
	ErrInvalidCacheKey = zerr.New("invalid cache key")

	// ErrNotConfirmed is returned when a destructive maintenance action is not confirmed by the operator.
	ErrNotConfirmed = zerr.New("operation not confirmed")

	// ErrUnknownStoreBackend is returned when the configured store backend is not supported.
	ErrUnknownStoreBackend = zerr.New("unknown store backend, expected 'sqlite' or 'fs'")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrConfigEnvFailed is returned when environment overrides cannot be applied.
	ErrConfigEnvFailed = zerr.New("failed to apply environment overrides")

	// ErrFontLoadFailed is returned when a font file cannot be read or parsed.
	ErrFontLoadFailed = zerr.New("failed to load font")

	// ErrDataReadFailed is returned when subject data cannot be read.
	ErrDataReadFailed = zerr.New("failed to read subject data")

	// ErrRenderFailed is returned when a render request finishes without a snapshot.
	ErrRenderFailed = zerr.New("render failed")

	// ErrMaintenanceFailed is returned when a cache administration action fails after being reported.
	ErrMaintenanceFailed = zerr.New("cache maintenance failed")

	// ErrWatchFailed is returned when subject data files cannot be watched.
	ErrWatchFailed = zerr.New("failed to watch subject data")
)
