package ports

import "go.trai.ch/riot/internal/core/domain"

// ConfigLoader defines the interface for loading the project configuration.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load reads the configuration. When path is empty it searches upward from cwd
	// and returns an empty configuration if no file is found.
	Load(cwd, path string) (*domain.Config, error)
}
