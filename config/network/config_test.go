package network_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartcontractkit/interchain-deployments-framework/chain"
	"github.com/smartcontractkit/interchain-deployments-framework/config/network"
)

var testNetworksYAML = `networks:
  - name: alpha
    family: evm
    type: testnet
    chain_id: "1337"
    rpcs:
      - rpc_name: default
        http_url: http://localhost:8545
        ws_url: ws://localhost:8546
  - name: beta
    family: cosmos
    type: testnet
    chain_id: beta-1
    bech32_prefix: neutron
    rpcs:
      - rpc_name: default
        http_url: localhost:9090
  - name: gamma
    family: solana
    type: mainnet
    chain_id: gamma-mainnet
    rpcs:
      - rpc_name: default
        http_url: http://localhost:8899
        ws_url: ws://localhost:8900
`

func writeNetworksFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "networks.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func Test_Load(t *testing.T) {
	t.Parallel()

	cfg, err := network.Load([]string{writeNetworksFile(t, testNetworksYAML)})
	require.NoError(t, err)

	assert.Equal(t, []string{"alpha", "beta", "gamma"}, cfg.NetworkNames())

	beta, err := cfg.NetworkByName("beta")
	require.NoError(t, err)
	assert.Equal(t, chain.FamilyCosmos, beta.Family)
	assert.Equal(t, "neutron", beta.Bech32Prefix)
	assert.Equal(t, "localhost:9090", beta.RPCs[0].HTTPURL)

	_, err = cfg.NetworkByName("unknown")
	require.ErrorContains(t, err, `network "unknown" not found`)
}

func Test_Load_Merge(t *testing.T) {
	t.Parallel()

	override := `networks:
  - name: alpha
    family: evm
    type: testnet
    chain_id: "1337"
    rpcs:
      - rpc_name: override
        http_url: http://localhost:9545
`

	// Later files win on name conflicts
	cfg, err := network.Load([]string{
		writeNetworksFile(t, testNetworksYAML),
		writeNetworksFile(t, override),
	})
	require.NoError(t, err)

	alpha, err := cfg.NetworkByName("alpha")
	require.NoError(t, err)
	require.Len(t, alpha.RPCs, 1)
	assert.Equal(t, "override", alpha.RPCs[0].RPCName)
	assert.Equal(t, []string{"alpha", "beta", "gamma"}, cfg.NetworkNames())
}

func Test_Load_URLTransformers(t *testing.T) {
	t.Parallel()

	cfg, err := network.Load(
		[]string{writeNetworksFile(t, testNetworksYAML)},
		network.WithHTTPURLTransformer(func(u string) string { return u + "/http" }),
		network.WithWSURLTransformer(func(u string) string { return u + "/ws" }),
	)
	require.NoError(t, err)

	alpha, err := cfg.NetworkByName("alpha")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8545/http", alpha.RPCs[0].HTTPURL)
	assert.Equal(t, "ws://localhost:8546/ws", alpha.RPCs[0].WSURL)
}

func Test_Load_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		give    string
		wantErr string
	}{
		{
			name: "missing bech32 prefix on cosmos network",
			give: `networks:
  - name: beta
    family: cosmos
    type: testnet
    chain_id: beta-1
    rpcs:
      - rpc_name: default
        http_url: localhost:9090
`,
			wantErr: "bech32 prefix is required for cosmos networks",
		},
		{
			name: "unknown family",
			give: `networks:
  - name: moveland
    family: move
    type: testnet
    chain_id: "1"
    rpcs:
      - rpc_name: default
        http_url: http://localhost:8080
`,
			wantErr: "family must be one of",
		},
		{
			name: "missing rpcs",
			give: `networks:
  - name: alpha
    family: evm
    type: testnet
    chain_id: "1337"
`,
			wantErr: "at least one RPC is required",
		},
		{
			name: "invalid type",
			give: `networks:
  - name: alpha
    family: evm
    type: devnet
    chain_id: "1337"
    rpcs:
      - rpc_name: default
        http_url: http://localhost:8545
`,
			wantErr: `type must be "mainnet" or "testnet"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := network.Load([]string{writeNetworksFile(t, tt.give)})
			require.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func Test_Config_FilterWith(t *testing.T) {
	t.Parallel()

	cfg, err := network.Load([]string{writeNetworksFile(t, testNetworksYAML)})
	require.NoError(t, err)

	testnets := cfg.FilterWith(network.TypesFilter(network.NetworkTypeTestnet))
	assert.Equal(t, []string{"alpha", "beta"}, testnets.NetworkNames())

	evmTestnets := cfg.FilterWith(
		network.TypesFilter(network.NetworkTypeTestnet),
		network.FamilyFilter(chain.FamilyEVM),
	)
	assert.Equal(t, []string{"alpha"}, evmTestnets.NetworkNames())

	named := cfg.FilterWith(network.NameFilter("gamma"))
	assert.Equal(t, []string{"gamma"}, named.NetworkNames())
}

func Test_RPC_PreferredEndpoint(t *testing.T) {
	t.Parallel()

	rpc := network.RPC{
		PreferredURLScheme: "ws",
		HTTPURL:            "http://localhost:8545",
		WSURL:              "ws://localhost:8546",
	}
	assert.Equal(t, "ws://localhost:8546", rpc.PreferredEndpoint())

	rpc.PreferredURLScheme = ""
	assert.Equal(t, "http://localhost:8545", rpc.PreferredEndpoint())
}
