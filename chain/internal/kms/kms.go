// Package kms provides a thin client for AWS KMS restricted to the signing
// operations the framework needs.
package kms

import (
	"encoding/asn1"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	kmslib "github.com/aws/aws-sdk-go/service/kms"
)

// Client is the subset of the AWS KMS API used for signing. It is satisfied by
// *kms.KMS and can be replaced with a fake in tests.
type Client interface {
	GetPublicKey(input *kmslib.GetPublicKeyInput) (*kmslib.GetPublicKeyOutput, error)
	Sign(input *kmslib.SignInput) (*kmslib.SignOutput, error)
}

// ClientConfig holds the configuration to construct a KMS client.
type ClientConfig struct {
	// Required: The ID of the KMS key.
	KeyID string
	// Required: The AWS region the key lives in.
	KeyRegion string
	// Optional: The AWS profile to use for credentials. When empty, credentials
	// are resolved from the environment.
	AWSProfile string
}

// validate checks that the required fields of the config are set.
func (c ClientConfig) validate() error {
	if c.KeyID == "" {
		return errors.New("KMS key ID is required")
	}
	if c.KeyRegion == "" {
		return errors.New("KMS key region is required")
	}

	return nil
}

// NewClient creates a new KMS client from the config. The AWS session is
// created from the profile when one is set, otherwise from environment
// variables.
func NewClient(cfg ClientConfig) (Client, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid KMS config: %w", err)
	}

	sessFn := sessionFromEnvVars
	if cfg.AWSProfile != "" {
		sessFn = sessionFromProfile
	}

	return kmslib.New(sessFn(cfg.KeyRegion, cfg.AWSProfile)), nil
}

// sessionFn creates an AWS session for the given region and profile.
type sessionFn func(keyRegion, profile string) *session.Session

var sessionFromEnvVars sessionFn = func(keyRegion, _ string) *session.Session {
	return session.Must(session.NewSession(&aws.Config{
		Region:                        aws.String(keyRegion),
		CredentialsChainVerboseErrors: aws.Bool(true),
	}))
}

var sessionFromProfile sessionFn = func(keyRegion, profile string) *session.Session {
	return session.Must(session.NewSessionWithOptions(session.Options{
		SharedConfigState: session.SharedConfigEnable,
		Profile:           profile,
		Config: aws.Config{
			Region: aws.String(keyRegion),
		},
	}))
}

// SPKI is the ASN.1 structure of a SubjectPublicKeyInfo block, which is the
// format KMS returns public keys in.
type SPKI struct {
	AlgorithmIdentifier struct {
		Algorithm  asn1.ObjectIdentifier
		Parameters asn1.ObjectIdentifier
	}
	SubjectPublicKey asn1.BitString
}

// ECDSASig is the ASN.1 structure of an ECDSA signature returned by KMS.
type ECDSASig struct {
	R asn1.RawValue
	S asn1.RawValue
}
