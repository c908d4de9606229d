package ports

import "go.trai.ch/chartcache/internal/core/domain"

// ConfigLoader defines the interface for resolving runtime configuration.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load resolves the configuration for the given working directory.
	// Defaults apply when no configuration file is found.
	Load(cwd string) (domain.Config, error)
}
