package config

import "github.com/footprint-tools/switchboard/internal/domain"

// Provider wraps configuration operations and implements domain.ConfigProvider.
type Provider struct{}

// NewProvider creates a new configuration provider.
func NewProvider() *Provider {
	return &Provider{}
}

// Get returns the value for a configuration key.
func (p *Provider) Get(key string) (string, bool) {
	return Get(key)
}

// GetAll returns all configuration values.
func (p *Provider) GetAll() (map[string]string, error) {
	return GetAll()
}

// Set stores value for key in the config file. Unknown keys are rejected
// with ErrUnknownKey.
func (p *Provider) Set(key, value string) error {
	return edit(func(lines []string) ([]string, error) {
		lines, _, err := Set(lines, key, value)
		return lines, err
	})
}

// Unset removes key from the config file so its default applies again.
func (p *Provider) Unset(key string) error {
	return edit(func(lines []string) ([]string, error) {
		lines, _, err := Unset(lines, key)
		return lines, err
	})
}

// Getter returns Get as a typed lookup.
func (p *Provider) Getter() Getter {
	return p.Get
}

// Verify Provider implements domain.ConfigProvider
var _ domain.ConfigProvider = (*Provider)(nil)
