package registry

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v2"

	"github.com/crossscan/crossscan/internal/core/domain"
)

// Registry is the read-only chain and asset lookup injected into the
// tracking core. It replaces any ambient shared cache: callers receive
// an instance and never mutate it.
type Registry struct {
	chains map[string]domain.ChainRef
	assets map[string]domain.AssetRef
}

// File is the on-disk registry shape.
type File struct {
	Chains []domain.ChainRef `yaml:"chains"`
	Assets []domain.AssetRef `yaml:"assets"`
}

// New builds a registry from explicit chain and asset lists.
func New(chains []domain.ChainRef, assets []domain.AssetRef) *Registry {
	r := &Registry{
		chains: make(map[string]domain.ChainRef, len(chains)),
		assets: make(map[string]domain.AssetRef, len(assets)),
	}
	for _, c := range chains {
		r.chains[strings.ToLower(c.ID)] = c
	}
	for _, a := range assets {
		r.assets[a.Denom] = a
	}
	return r
}

// LoadFile reads a registry YAML file, expanding environment variables.
func LoadFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read registry file: %w", err)
	}

	var f File
	expanded := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expanded), &f); err != nil {
		return nil, fmt.Errorf("failed to parse registry file: %w", err)
	}

	return New(f.Chains, f.Assets), nil
}

// Chain returns the ChainRef for a chain id, case-insensitively.
func (r *Registry) Chain(id string) (domain.ChainRef, bool) {
	c, ok := r.chains[strings.ToLower(id)]
	return c, ok
}

// ChainOrNil returns a pointer to the ChainRef, or nil when unknown.
// Step attribution uses this so unknown chains degrade to a link-less step.
func (r *Registry) ChainOrNil(id string) *domain.ChainRef {
	if c, ok := r.Chain(id); ok {
		return &c
	}
	return nil
}

// Axelarnet returns the hub chain descriptor. A registry without the hub
// still yields a usable ref so step attribution never panics.
func (r *Registry) Axelarnet() *domain.ChainRef {
	if c, ok := r.Chain(domain.Axelarnet); ok {
		return &c
	}
	return &domain.ChainRef{ID: domain.Axelarnet, Name: "Axelarnet", Type: domain.ChainTypeAxelarnet}
}

// Asset returns the asset registered for a denom.
func (r *Registry) Asset(denom string) (domain.AssetRef, bool) {
	a, ok := r.assets[denom]
	return a, ok
}

// Chains returns all registered chains.
func (r *Registry) Chains() []domain.ChainRef {
	out := make([]domain.ChainRef, 0, len(r.chains))
	for _, c := range r.chains {
		out = append(out, c)
	}
	return out
}
