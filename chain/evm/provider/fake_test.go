package provider

import (
	"context"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	kmslib "github.com/aws/aws-sdk-go/service/kms"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"

	"github.com/smartcontractkit/interchain-deployments-framework/chain/evm"
)

// newFakeRPCServer returns a fake RPC server which always answers with a valid `eth_blockNumber“
// response.
//
// When the test is done, the server is closed automatically.
func newFakeRPCServer(t *testing.T) *httptest.Server {
	t.Helper()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		// Return a valid eth_blockNumber response
		_, _ = w.Write([]byte(`{"jsonrpc":"2.0","id":1,"result":"0x1"}`))
	})

	srv := httptest.NewServer(handler)

	t.Cleanup(func() {
		srv.Close()
	})

	return srv
}

// alwaysFailingSignerGenerator returns a SignerGenerator that always fails with an error.
type alwaysFailingSignerGenerator struct{}

// Generate implements the SignerGenerator interface and always returns an error.
func (a *alwaysFailingSignerGenerator) Generate(ctx context.Context, chainID *big.Int) (*bind.TransactOpts, error) {
	return nil, assert.AnError
}

// SignHash implements the SignerGenerator interface and always returns an error.
func (a *alwaysFailingSignerGenerator) SignHash(hash []byte) ([]byte, error) {
	return nil, assert.AnError
}

// alwaysFailingConfirmFunctor returns a ConfirmFunctor that always fails with an error.
type alwaysFailingConfirmFunctor struct{}

// Generate implements the ConfirmFunctor interface and always returns an error.
func (a *alwaysFailingConfirmFunctor) Generate(
	ctx context.Context, chainName string, client evm.OnchainClient, from common.Address,
) (evm.ConfirmFunc, error) {
	return nil, assert.AnError
}

// fakeKMSClient is a fake implementation of the kms.Client interface. Each method delegates to
// the corresponding func field, allowing tests to stub out KMS behavior. Calls and their inputs
// are recorded so tests can assert on them.
type fakeKMSClient struct {
	getPublicKeyFunc func(input *kmslib.GetPublicKeyInput) (*kmslib.GetPublicKeyOutput, error)
	signFunc         func(input *kmslib.SignInput) (*kmslib.SignOutput, error)

	getPublicKeyCalls     int
	signCalls             int
	lastGetPublicKeyInput *kmslib.GetPublicKeyInput
	lastSignInput         *kmslib.SignInput
}

func (f *fakeKMSClient) GetPublicKey(input *kmslib.GetPublicKeyInput) (*kmslib.GetPublicKeyOutput, error) {
	f.getPublicKeyCalls++
	f.lastGetPublicKeyInput = input

	return f.getPublicKeyFunc(input)
}

func (f *fakeKMSClient) Sign(input *kmslib.SignInput) (*kmslib.SignOutput, error) {
	f.signCalls++
	f.lastSignInput = input

	return f.signFunc(input)
}

// newFakeKMSClient returns a fakeKMSClient that serves the given public key and signature.
func newFakeKMSClient(publicKey, signature []byte) *fakeKMSClient {
	return &fakeKMSClient{
		getPublicKeyFunc: func(*kmslib.GetPublicKeyInput) (*kmslib.GetPublicKeyOutput, error) {
			return &kmslib.GetPublicKeyOutput{PublicKey: publicKey}, nil
		},
		signFunc: func(*kmslib.SignInput) (*kmslib.SignOutput, error) {
			return &kmslib.SignOutput{Signature: signature}, nil
		},
	}
}
