// Package config holds the environment registry and secret configuration for the framework.
//
// The registry side (environments, their chains, static owners, upgrade settings and agent
// contexts) is declarative and lives in YAML files. The secret side (deployer keys, KMS key
// configuration) is only ever read from environment variables or an untracked local file, and
// must not be logged.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"slices"
	"time"

	"github.com/spf13/viper"
)

// KMSConfig is the configuration for the AWS KMS backed key store.
//
// WARNING: This data type contains sensitive fields and should not be logged or set in file
// configuration.
type KMSConfig struct {
	KeyID     string `mapstructure:"key_id" yaml:"key_id"`         // Secret: AWS KMS Key ID
	KeyRegion string `mapstructure:"key_region" yaml:"key_region"` // Secret: AWS KMS Key Region (e.g. us-west-1)
}

// EVMConfig is the configuration for the EVM chains.
//
// WARNING: This data type contains sensitive fields and should not be logged or set in file
// configuration.
type EVMConfig struct {
	DeployerKey string `mapstructure:"deployer_key" yaml:"deployer_key"` // Secret: The hex private key of the deployer account. Prefer KMS keys instead.
}

// SolanaConfig is the configuration for the Solana chains.
//
// WARNING: This data type contains sensitive fields and should not be logged or set in file
// configuration.
type SolanaConfig struct {
	WalletKey string `mapstructure:"wallet_key" yaml:"wallet_key"` // Secret: The base58 private key of the wallet account.
}

// CosmosConfig is the configuration for the Cosmos chains.
//
// WARNING: This data type contains sensitive fields and should not be logged or set in file
// configuration.
type CosmosConfig struct {
	Mnemonic string `mapstructure:"mnemonic" yaml:"mnemonic"` // Secret: BIP-39 mnemonic phrase for the deployer account.
}

// OnchainConfig wraps the secret configuration for the onchain components.
type OnchainConfig struct {
	KMS    KMSConfig    `mapstructure:"kms" yaml:"kms"`
	EVM    EVMConfig    `mapstructure:"evm" yaml:"evm"`
	Solana SolanaConfig `mapstructure:"solana" yaml:"solana"`
	Cosmos CosmosConfig `mapstructure:"cosmos" yaml:"cosmos"`
}

// AgentContext is the per-context agent key configuration within an environment. A context
// names an agent deployment (for example the canonical one, or a fork run by another team)
// whose keys are held under a distinct KMS alias prefix.
type AgentContext struct {
	// AliasPrefix is the prefix of the KMS key aliases holding this context's agent keys.
	AliasPrefix string `mapstructure:"alias_prefix" yaml:"alias_prefix"`
	// AWSRegion is the region the context's KMS keys live in.
	AWSRegion string `mapstructure:"aws_region" yaml:"aws_region"`
}

// UpgradeConfig holds the per-chain upgrade settings.
type UpgradeConfig struct {
	// Timelock is the delay enforced between proposing and executing an upgrade on the chain.
	Timelock time.Duration `mapstructure:"timelock" yaml:"timelock"`
}

// ChainConfig holds the static per-chain settings of an environment.
type ChainConfig struct {
	// Owner is the statically configured owner address for contracts on this chain.
	Owner string `mapstructure:"owner" yaml:"owner"`
	// Upgrade holds the optional upgrade settings for this chain.
	Upgrade *UpgradeConfig `mapstructure:"upgrade" yaml:"upgrade,omitempty"`
}

// Environment is the registry entry for a single deployment environment.
type Environment struct {
	Name string `mapstructure:"name" yaml:"name"`
	// Chains holds the static per-chain settings, keyed by chain name.
	Chains map[string]ChainConfig `mapstructure:"chains" yaml:"chains"`
	// Contexts holds the agent contexts configured under this environment, keyed by
	// context name.
	Contexts map[string]AgentContext `mapstructure:"contexts" yaml:"contexts"`
}

// Context returns the agent context configuration for the given context name. It fails with
// ErrInvalidContext naming the valid contexts when the context is not configured.
func (e Environment) Context(name string) (AgentContext, error) {
	actx, ok := e.Contexts[name]
	if !ok {
		return AgentContext{}, fmt.Errorf("%w: %q has no agent configuration under environment %q, valid contexts: %v",
			ErrInvalidContext, name, e.Name, slices.Sorted(maps.Keys(e.Contexts)),
		)
	}

	return actx, nil
}

// ChainNames returns the sorted names of all chains configured in the environment.
func (e Environment) ChainNames() []string {
	return slices.Sorted(maps.Keys(e.Chains))
}

// Config wraps the entire configuration for the framework.
type Config struct {
	Onchain      OnchainConfig `mapstructure:"onchain" yaml:"onchain"`
	Environments []Environment `mapstructure:"environments" yaml:"environments"`
}

// Environment returns the environment registry entry for the given name. It fails with
// ErrInvalidEnvironment naming the valid environments when the name is unrecognized.
func (c *Config) Environment(name string) (Environment, error) {
	for _, env := range c.Environments {
		if env.Name == name {
			return env, nil
		}
	}

	names := make([]string, 0, len(c.Environments))
	for _, env := range c.Environments {
		names = append(names, env.Name)
	}
	slices.Sort(names)

	return Environment{}, fmt.Errorf("%w: %q, valid environments: %v", ErrInvalidEnvironment, name, names)
}

// Load loads the config from the file path, falling back to env vars if the file does not exist.
// If the file exists, any env vars that are set will override the values loaded from the file.
func Load(filePath string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(filePath)

	// Bind environment variables
	if err := bindEnvs(v); err != nil {
		return nil, err
	}

	// If the config file exists, we continue to read it, otherwise we fallback to using
	// environment variables
	if _, err := os.Stat(filePath); !errors.Is(err, fs.ErrNotExist) {
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	cfg := &Config{}
	err := v.Unmarshal(cfg)

	return cfg, err
}

// LoadEnv loads the config from the environment variables.
func LoadEnv() (*Config, error) {
	v := viper.New()

	// Bind environment variables
	if err := bindEnvs(v); err != nil {
		return nil, err
	}

	cfg := &Config{}
	err := v.Unmarshal(cfg)

	return cfg, err
}

// envBindings defines how environment variables map to configuration keys used by Viper.
// Each entry maps a config key (as used in the struct, e.g. "onchain.kms.key_id") to the
// environment variable names that can provide its value, in order of preference.
var envBindings = map[string][]string{
	"onchain.kms.key_id":        {"ONCHAIN_KMS_KEY_ID"},
	"onchain.kms.key_region":    {"ONCHAIN_KMS_KEY_REGION"},
	"onchain.evm.deployer_key":  {"ONCHAIN_EVM_DEPLOYER_KEY"},
	"onchain.solana.wallet_key": {"ONCHAIN_SOLANA_WALLET_KEY"},
	"onchain.cosmos.mnemonic":   {"ONCHAIN_COSMOS_MNEMONIC"},
}

// bindEnvs binds the environment variables to the viper instance.
func bindEnvs(v *viper.Viper) error {
	for key, envs := range envBindings {
		// Prepend the env key to the start of the arguments
		inputs := slices.Insert(envs, 0, key)

		if err := v.BindEnv(inputs...); err != nil {
			return err
		}
	}

	return nil
}
