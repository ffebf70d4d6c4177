package keys

import "errors"

var (
	// ErrKeyNotExtractable is returned when the raw private key material is requested from a
	// key store that only permits signing operations.
	ErrKeyNotExtractable = errors.New("key is not extractable")

	// ErrUnsupportedProtocol is returned when address derivation or signer construction is
	// requested for a protocol family this framework has no implementation for.
	ErrUnsupportedProtocol = errors.New("unsupported protocol family")
)
