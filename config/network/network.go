package network

import (
	"errors"
	"fmt"
	"slices"

	"github.com/smartcontractkit/interchain-deployments-framework/chain"
)

// NetworkType represents the type of network, which can either be mainnet or testnet.
type NetworkType string

const (
	NetworkTypeMainnet NetworkType = "mainnet"
	NetworkTypeTestnet NetworkType = "testnet"
)

// families lists the protocol families a network may declare.
var families = []string{chain.FamilyEVM, chain.FamilySolana, chain.FamilyCosmos}

// Network represents a network configuration. Networks are identified by name, which must be
// unique within an environment.
type Network struct {
	Name          string        `yaml:"name"`
	Family        string        `yaml:"family"`
	Type          NetworkType   `yaml:"type"`
	ChainID       string        `yaml:"chain_id"`
	Bech32Prefix  string        `yaml:"bech32_prefix,omitempty"` // Cosmos networks only
	BlockExplorer BlockExplorer `yaml:"block_explorer,omitempty"`
	RPCs          []RPC         `yaml:"rpcs"`
}

// Validate validates the network configuration to ensure that all required fields are set.
func (n *Network) Validate() error {
	if n.Name == "" {
		return errors.New("name is required")
	}

	if !slices.Contains(families, n.Family) {
		return fmt.Errorf("family must be one of %v, got %q", families, n.Family)
	}

	if n.Type != NetworkTypeMainnet && n.Type != NetworkTypeTestnet {
		return fmt.Errorf("type must be %q or %q, got %q", NetworkTypeMainnet, NetworkTypeTestnet, n.Type)
	}

	if n.ChainID == "" {
		return errors.New("chain id is required")
	}

	if n.Family == chain.FamilyCosmos && n.Bech32Prefix == "" {
		return errors.New("bech32 prefix is required for cosmos networks")
	}

	if len(n.RPCs) == 0 {
		return errors.New("at least one RPC is required")
	}

	return nil
}

// RPC represents an RPC endpoint of a network.
type RPC struct {
	RPCName            string `yaml:"rpc_name"`
	PreferredURLScheme string `yaml:"preferred_url_scheme"`
	HTTPURL            string `yaml:"http_url"`
	WSURL              string `yaml:"ws_url"`
}

// PreferredEndpoint returns the correct endpoint based on the preferred URL scheme. By default, it
// returns the HTTP URL.
func (rpc *RPC) PreferredEndpoint() string {
	if rpc.PreferredURLScheme == "ws" {
		return rpc.WSURL
	}

	return rpc.HTTPURL
}

// BlockExplorer represents a block explorer configuration for a network.
type BlockExplorer struct {
	Type   string `yaml:"type"`
	APIKey string `yaml:"api_key"`
	URL    string `yaml:"url"`
}
