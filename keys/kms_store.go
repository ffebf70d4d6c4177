package keys

import (
	"context"
	"fmt"

	"github.com/smartcontractkit/interchain-deployments-framework/chain"
	evmprov "github.com/smartcontractkit/interchain-deployments-framework/chain/evm/provider"
	"github.com/smartcontractkit/interchain-deployments-framework/config"
)

var _ Store = (*KMSStore)(nil)

// KMSStore is a non-extractable key store backed by AWS KMS. Keys never leave KMS; resolved
// agent keys only carry a signer bound to the remote key, and Raw fails with
// ErrKeyNotExtractable.
//
// The store operates in one of two modes. With a fixed key ID every request resolves to the
// same KMS key, mirroring a single shared deployer key. With an alias prefix the store
// addresses one KMS alias per request tuple, which is how per-role agent keys are held.
type KMSStore struct {
	cfg         config.KMSConfig
	aliasPrefix string
	awsProfile  string

	// newSigner is swapped for a fake in tests.
	newSigner signerFactory
}

// signerFactory resolves a KMS key ID to the key's EVM address and a signer generator bound
// to it.
type signerFactory func(keyID, keyRegion, awsProfile string) (string, evmprov.SignerGenerator, error)

// kmsSignerFactory is the production signerFactory. It fetches the key's public key from KMS
// to derive the address.
func kmsSignerFactory(keyID, keyRegion, awsProfile string) (string, evmprov.SignerGenerator, error) {
	signer, err := evmprov.NewKMSSigner(keyID, keyRegion, awsProfile)
	if err != nil {
		return "", nil, fmt.Errorf("failed to create KMS signer: %w", err)
	}

	address, err := signer.GetAddress()
	if err != nil {
		return "", nil, fmt.Errorf("failed to get address for KMS key %q: %w", keyID, err)
	}

	return address.Hex(), evmprov.TransactorFromKMSSigner(signer), nil
}

// KMSStoreOption is a function that configures a KMSStore.
type KMSStoreOption func(*KMSStore)

// WithAliasPrefix switches the store to per-tuple aliases. Each request resolves the KMS key
// aliased "alias/<prefix>-<environment>-key-<chain>-<role>-<index>".
func WithAliasPrefix(prefix string) KMSStoreOption {
	return func(s *KMSStore) {
		s.aliasPrefix = prefix
	}
}

// WithAWSProfile sets the AWS profile used for credentials. When empty, credentials are
// resolved from the environment.
func WithAWSProfile(profile string) KMSStoreOption {
	return func(s *KMSStore) {
		s.awsProfile = profile
	}
}

// NewKMSStore creates a new KMSStore from the secret KMS configuration.
func NewKMSStore(cfg config.KMSConfig, opts ...KMSStoreOption) *KMSStore {
	s := &KMSStore{
		cfg:       cfg,
		newSigner: kmsSignerFactory,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// GetKey resolves the KMS key for the request and returns a non-extractable agent key bound
// to it. Only EVM keys are held in KMS; requests for other families fail.
func (s *KMSStore) GetKey(_ context.Context, req KeyRequest) (AgentKey, error) {
	if req.ChainFamily != chain.FamilyEVM {
		return nil, fmt.Errorf("KMS store only holds secp256k1 keys bound to EVM signers, cannot resolve %s key for chain %q",
			req.ChainFamily, req.ChainName)
	}

	keyID := s.cfg.KeyID
	if s.aliasPrefix != "" {
		keyID = fmt.Sprintf("alias/%s-%s-key-%s-%s-%d",
			s.aliasPrefix, req.Environment, req.ChainName, req.Role, req.Index)
	}

	address, gen, err := s.newSigner(keyID, s.cfg.KeyRegion, s.awsProfile)
	if err != nil {
		return nil, err
	}

	return &kmsKey{keyID: keyID, address: address, gen: gen}, nil
}

var _ EVMKey = (*kmsKey)(nil)

// kmsKey is a non-extractable agent key held in AWS KMS.
type kmsKey struct {
	keyID   string
	address string
	gen     evmprov.SignerGenerator
}

func (k *kmsKey) Address() string { return k.address }

func (k *kmsKey) Family() string { return chain.FamilyEVM }

// Raw always fails: KMS never releases private key material.
func (k *kmsKey) Raw() ([]byte, error) {
	return nil, fmt.Errorf("%w: KMS key %q only permits signing operations", ErrKeyNotExtractable, k.keyID)
}

func (k *kmsKey) TransactorGenerator() evmprov.SignerGenerator {
	return k.gen
}
