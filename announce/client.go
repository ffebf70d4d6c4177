package announce

import (
	"context"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"github.com/smartcontractkit/interchain-deployments-framework/chain/evm"
)

// validatorAnnounceABI is the read surface of the validator announce contract.
const validatorAnnounceABI = `[
	{
		"type": "function",
		"name": "getAnnouncedStorageLocations",
		"stateMutability": "view",
		"inputs": [{"name": "_validators", "type": "address[]"}],
		"outputs": [{"name": "", "type": "string[][]"}]
	},
	{
		"type": "function",
		"name": "getAnnouncedValidators",
		"stateMutability": "view",
		"inputs": [],
		"outputs": [{"name": "", "type": "address[]"}]
	}
]`

// Client reads a validator announce contract on an EVM chain. It is used to audit that the
// validators a chain's security modules require have announced where their signatures live.
type Client struct {
	client  evm.OnchainClient
	address common.Address
	abi     abi.ABI
}

// NewClient creates a client for the validator announce contract at the given address.
func NewClient(client evm.OnchainClient, address common.Address) (*Client, error) {
	parsed, err := abi.JSON(strings.NewReader(validatorAnnounceABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse validator announce ABI: %w", err)
	}

	return &Client{
		client:  client,
		address: address,
		abi:     parsed,
	}, nil
}

// StorageLocations returns, for each validator, every storage location it has announced, in
// announcement order. Validators that never announced yield an empty list.
func (c *Client) StorageLocations(
	ctx context.Context, validators []common.Address,
) ([][]string, error) {
	out, err := c.call(ctx, "getAnnouncedStorageLocations", validators)
	if err != nil {
		return nil, err
	}

	locations, ok := out[0].([][]string)
	if !ok {
		return nil, fmt.Errorf("unexpected storage locations type %T", out[0])
	}

	return locations, nil
}

// AnnouncedValidators returns every validator that has announced on this contract.
func (c *Client) AnnouncedValidators(ctx context.Context) ([]common.Address, error) {
	out, err := c.call(ctx, "getAnnouncedValidators")
	if err != nil {
		return nil, err
	}

	addrs, ok := out[0].([]common.Address)
	if !ok {
		return nil, fmt.Errorf("unexpected validators type %T", out[0])
	}

	return addrs, nil
}

// call performs a read-only contract call and unpacks the result.
func (c *Client) call(ctx context.Context, method string, args ...any) ([]any, error) {
	data, err := c.abi.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to pack %s call: %w", method, err)
	}

	ret, err := c.client.CallContract(ctx, ethereum.CallMsg{
		To:   &c.address,
		Data: data,
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("%s call failed: %w", method, err)
	}

	out, err := c.abi.Unpack(method, ret)
	if err != nil {
		return nil, fmt.Errorf("failed to unpack %s result: %w", method, err)
	}
	if len(out) != 1 {
		return nil, fmt.Errorf("unexpected %s result arity %d", method, len(out))
	}

	return out, nil
}
