package network

import (
	"fmt"
	"maps"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

// Manifest is the YAML representation of network configuration.
type Manifest struct {
	// A YAML array of networks.
	Networks []Network `yaml:"networks"`
}

// Config represents the configuration of a collection of networks. This is loaded from the YAML
// manifest file/s.
type Config struct {
	// networks is a map of networks by their name. This differs from the manifest
	// representation of the networks so that we can ensure uniqueness and quickly lookup a
	// network by its name.
	networks map[string]Network
}

// NewConfig creates a new config from a slice of networks. Any duplicate network names will
// be overwritten.
func NewConfig(networks []Network) *Config {
	nmap := make(map[string]Network)

	for _, network := range networks {
		nmap[network.Name] = network
	}

	return &Config{
		networks: nmap,
	}
}

// Validate ensures that all networks are valid.
func (c *Config) Validate() error {
	for _, network := range c.Networks() {
		if err := network.Validate(); err != nil {
			return fmt.Errorf("network %s: %w", network.Name, err)
		}
	}

	return nil
}

// Networks returns a slice of all networks in the config.
func (c *Config) Networks() []Network {
	return slices.Collect(maps.Values(c.networks))
}

// NetworkByName retrieves a network by its name. If the network is not found, an error is
// returned.
func (c *Config) NetworkByName(name string) (Network, error) {
	network, ok := c.networks[name]
	if !ok {
		return Network{}, fmt.Errorf("network %q not found in configuration", name)
	}

	return network, nil
}

// NetworkNames returns the sorted names of all networks in the config.
func (c *Config) NetworkNames() []string {
	return slices.Sorted(maps.Keys(c.networks))
}

// Merge merges another config into the current config.
// It overwrites any networks with the same name.
func (c *Config) Merge(other *Config) {
	maps.Copy(c.networks, other.networks)
}

// MarshalYAML implements the yaml.Marshaler interface for the Config struct.
// It converts the internal map structure to a YAML format with a top-level "networks" key.
func (c *Config) MarshalYAML() (any, error) {
	node := Manifest{
		Networks: c.Networks(),
	}

	return node, nil
}

// UnmarshalYAML implements the yaml.Unmarshaler interface for the Config struct.
func (c *Config) UnmarshalYAML(value *yaml.Node) error {
	node := Manifest{}

	if err := value.Decode(&node); err != nil {
		return err
	}

	*c = *NewConfig(node.Networks)

	return nil
}

// NetworkFilter defines a function type that filters networks based on certain criteria.
type NetworkFilter func(Network) bool

// FilterWith returns a new Config containing only Networks that pass all provided filter functions.
// Filters are applied in sequence (AND logic) - a network must pass all filters to be included.
func (c *Config) FilterWith(filters ...NetworkFilter) *Config {
	// Start with all networks from the current config
	networks := c.Networks()

	// Apply each filter sequentially, removing networks that don't pass
	for _, filter := range filters {
		networks = slices.DeleteFunc(networks, func(network Network) bool {
			return !filter(network) // Delete networks that don't pass the filter
		})
	}

	return NewConfig(networks)
}

// TypesFilter returns a filter function that matches networks with the specified network types.
func TypesFilter(networkTypes ...NetworkType) NetworkFilter {
	return func(network Network) bool {
		return slices.Contains(networkTypes, network.Type)
	}
}

// NameFilter returns a filter function that matches networks with the specified name.
func NameFilter(name string) NetworkFilter {
	return func(network Network) bool {
		return network.Name == name
	}
}

// FamilyFilter returns a filter function that matches networks with the specified chain family.
func FamilyFilter(family string) NetworkFilter {
	return func(network Network) bool {
		return network.Family == family
	}
}

// transformHTTPURLs transforms the HTTP URLs of the networks in the config.
func (c *Config) transformHTTPURLs(transform URLTransformer) {
	for k, n := range c.networks {
		for i, rpc := range n.RPCs {
			rpc.HTTPURL = transform(rpc.HTTPURL)

			n.RPCs[i] = rpc
		}

		// Update the network with the modifications. We need to do this because the network is
		// a value type, so we need to update the map with the new network.
		c.networks[k] = n
	}
}

// transformWSURLs transforms the websocket URLs of the networks in the config.
func (c *Config) transformWSURLs(transform URLTransformer) {
	for k, n := range c.networks {
		for i, rpc := range n.RPCs {
			rpc.WSURL = transform(rpc.WSURL)

			n.RPCs[i] = rpc
		}

		c.networks[k] = n
	}
}

// Load loads configuration from the specified file paths, and merges them into a single Config.
//
// It accepts load options to customize the loading behavior.
func Load(filePaths []string, opts ...LoadOption) (*Config, error) {
	cfg := NewConfig([]Network{})

	// Apply load options to populate the loading configuration.
	loadCfg := &loadConfig{}
	for _, opt := range opts {
		opt(loadCfg)
	}

	// Load each file path into the config.
	for _, fp := range filePaths {
		data, err := os.ReadFile(fp)
		if err != nil {
			return nil, fmt.Errorf("failed to read networks file: %w", err)
		}

		var fileCfg Config
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal networks YAML: %w", err)
		}

		cfg.Merge(&fileCfg)
	}

	// Apply the URL transformers if provided
	if loadCfg.HTTPURLTransformer != nil {
		cfg.transformHTTPURLs(loadCfg.HTTPURLTransformer)
	}

	if loadCfg.WSURLTransformer != nil {
		cfg.transformWSURLs(loadCfg.WSURLTransformer)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("failed to validate networks configuration: %w", err)
	}

	return cfg, nil
}

// LoadOption defines a function which modifies the load configuration.
type LoadOption func(*loadConfig)

// loadConfig holds the configuration for loading the config.
type loadConfig struct {
	HTTPURLTransformer URLTransformer
	WSURLTransformer   URLTransformer
}

// URLTransformer is a function that transforms a URL.
type URLTransformer func(string) string

// WithHTTPURLTransformer transforms the HTTP URLs of the networks RPCs after loading.
func WithHTTPURLTransformer(t URLTransformer) LoadOption {
	return func(opts *loadConfig) {
		opts.HTTPURLTransformer = t
	}
}

// WithWSURLTransformer transforms the websocket URLs of the networks RPCs after loading.
func WithWSURLTransformer(t URLTransformer) LoadOption {
	return func(opts *loadConfig) {
		opts.WSURLTransformer = t
	}
}
