package driven

import "github.com/variantlabs/annosync/internal/core/domain"

// ConfigStore persists the tool configuration.
type ConfigStore interface {
	// Load reads the stored configuration, returning defaults when no
	// configuration exists yet.
	Load() (*domain.Config, error)

	// Save writes the configuration.
	Save(cfg *domain.Config) error
}
