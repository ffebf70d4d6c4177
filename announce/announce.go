// Package announce implements validator announcements: the signed statements through which
// validators publish where their checkpoint signatures are stored, and the onchain registry
// queries used to audit them.
package announce

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// announcementSalt distinguishes announcement digests from any other signed payload.
const announcementSalt = "HYPERLANE_ANNOUNCEMENT"

// ErrSignatureMismatch is returned when a signed announcement does not recover to the
// validator it declares.
var ErrSignatureMismatch = errors.New("announcement signature does not match declared validator")

// HashSigner signs a 32-byte hash and returns a 65-byte [R || S || V] signature. It is
// implemented by the EVM signer generators, including the KMS backed one.
type HashSigner interface {
	SignHash(hash []byte) ([]byte, error)
}

// Announcement states that a validator for the given mailbox stores its signatures at the
// storage location.
type Announcement struct {
	// Validator is the validator's secp256k1 address.
	Validator common.Address
	// Mailbox is the mailbox contract the validator attests for.
	Mailbox common.Address
	// Domain is the numeric domain of the mailbox's chain.
	Domain uint32
	// StorageLocation points at the validator's signature store, e.g. an s3:// URL.
	StorageLocation string
}

// domainHash binds the announcement to one mailbox on one chain.
func (a Announcement) domainHash() common.Hash {
	var buf bytes.Buffer

	var domain [4]byte
	binary.BigEndian.PutUint32(domain[:], a.Domain)
	buf.Write(domain[:])

	// The mailbox address is encoded as a left-padded 32-byte word.
	buf.Write(common.LeftPadBytes(a.Mailbox.Bytes(), 32))
	buf.WriteString(announcementSalt)

	return crypto.Keccak256Hash(buf.Bytes())
}

// Digest returns the announcement digest: the keccak256 hash of the domain hash and the
// storage location.
func (a Announcement) Digest() common.Hash {
	return crypto.Keccak256Hash(a.domainHash().Bytes(), []byte(a.StorageLocation))
}

// SigningHash returns the EIP-191 personal-message wrap of the digest. This is the hash
// validators actually sign.
func (a Announcement) SigningHash() common.Hash {
	digest := a.Digest()

	return crypto.Keccak256Hash(
		[]byte(fmt.Sprintf("\x19Ethereum Signed Message:\n%d", len(digest))),
		digest.Bytes(),
	)
}

// SignedAnnouncement is an announcement with the validator's signature over its signing
// hash.
type SignedAnnouncement struct {
	Announcement

	// Signature is the 65-byte [R || S || V] signature.
	Signature []byte
}

// Sign signs the announcement with the given signer.
func Sign(a Announcement, signer HashSigner) (SignedAnnouncement, error) {
	sig, err := signer.SignHash(a.SigningHash().Bytes())
	if err != nil {
		return SignedAnnouncement{}, fmt.Errorf("failed to sign announcement: %w", err)
	}

	return SignedAnnouncement{Announcement: a, Signature: sig}, nil
}

// Recover returns the address that produced the signature.
func (s SignedAnnouncement) Recover() (common.Address, error) {
	if len(s.Signature) != crypto.SignatureLength {
		return common.Address{}, fmt.Errorf("signature must be %d bytes, got %d",
			crypto.SignatureLength, len(s.Signature))
	}

	// Accept both recovery id conventions: 27/28 as emitted by eth_sign, 0/1 as emitted by
	// crypto.Sign.
	sig := make([]byte, crypto.SignatureLength)
	copy(sig, s.Signature)
	if sig[64] >= 27 {
		sig[64] -= 27
	}

	pubKey, err := crypto.SigToPub(s.SigningHash().Bytes(), sig)
	if err != nil {
		return common.Address{}, fmt.Errorf("failed to recover announcement signer: %w", err)
	}

	return crypto.PubkeyToAddress(*pubKey), nil
}

// Verify checks that the signature recovers to the declared validator.
func (s SignedAnnouncement) Verify() error {
	recovered, err := s.Recover()
	if err != nil {
		return err
	}

	if recovered != s.Validator {
		return fmt.Errorf("%w: declared %s, recovered %s",
			ErrSignatureMismatch, s.Validator.Hex(), recovered.Hex())
	}

	return nil
}
