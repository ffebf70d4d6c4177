/*
Package chain provides the core blockchain abstraction layer for the framework, supporting
multiple protocol families through a unified interface.

# Overview

The chain package is the foundation for onchain interactions in the framework. It defines the
core BlockChain interface that all chain implementations must satisfy, and provides a
collection type for managing and querying the chains bound into a deployment, keyed by chain
name.

# Architecture

The package consists of several key components:

 1. BlockChain Interface (blockchain.go) - Core abstraction for all chains
 2. BlockChains Collection (blockchain.go) - Container for managing multiple chains
 3. Provider Interface (provider.go) - Abstraction for chain providers
 4. Chain Family Support - Type-safe access to specific chain implementations

# Core BlockChain Interface

Every chain implementation satisfies the BlockChain interface:

	import "github.com/smartcontractkit/interchain-deployments-framework/chain"

	type BlockChain interface {
		String() string        // Human-readable chain info, "<name> (<family>)"
		Name() string          // Chain name
		Family() string        // Protocol family (evm, solana, cosmos)
		SignerAddress() string // Canonical address of the bound signer, if any
	}

# BlockChains Collection

BlockChains holds the chains of one deployment context and supports querying by name and
family:

	chains := chain.NewBlockChainsFromSlice(bound)

	// Type-safe access per family
	evmChains := chains.EVMChains()       // map[string]evm.Chain
	solanaChains := chains.SolanaChains() // map[string]solana.Chain
	cosmosChains := chains.CosmosChains() // map[string]cosmos.Chain

	// Existence checks
	if chains.ExistsN("alpha", "beta") {
		// both chains are bound
	}

	// Filtered name listing
	names := chains.ListChainNames(
		chain.WithFamily(chain.FamilyEVM),
		chain.WithChainNamesExclusion([]string{"alpha"}),
	)

# Supported Chain Families

  - EVM (chain/evm): geth-backed chains signing with *bind.TransactOpts
  - Solana (chain/solana): RPC client chains with ed25519 keys
  - Cosmos (chain/cosmos): gRPC-connected chains with secp256k1 keys and bech32 addresses

Each family has a provider package that constructs its chains from configuration; see the
Provider interface in provider.go and the provider packages under each family directory.
*/
package chain
