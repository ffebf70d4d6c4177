package common //nolint:revive // var-naming: This is an internal package for common code that is shared between chains.

import (
	"fmt"
)

// ChainMetadata provides identifying metadata about a chain. Chains are
// identified by the name they carry in the network configuration rather than
// by a numeric id, since ids are only unique within a protocol family.
type ChainMetadata struct {
	ChainName   string
	ChainFamily string
}

// Name returns the configured name of the chain.
func (c ChainMetadata) Name() string {
	return c.ChainName
}

// Family returns the protocol family of the chain.
func (c ChainMetadata) Family() string {
	return c.ChainFamily
}

// String returns chain name and family "<name> (<family>)"
func (c ChainMetadata) String() string {
	return fmt.Sprintf("%s (%s)", c.ChainName, c.ChainFamily)
}
