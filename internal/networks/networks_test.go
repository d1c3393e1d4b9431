package networks

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTable(t *testing.T) {
	table := Default()

	assert.Equal(t, []string{Mainnet, Testnet}, table.Keys())
	assert.Equal(t, []string{"celo-mainnet", "celo-testnet"}, table.Aliases())

	mainnet, ok := table.Get(Mainnet)
	require.True(t, ok)
	assert.Equal(t, int64(42220), mainnet.ChainID)
	assert.Equal(t, common.HexToAddress("0x77117D60eaB7C044e785D68edB6C7E0e134970Ea"), mainnet.Hub())

	testnet, ok := table.Get("celo-testnet")
	require.True(t, ok)
	assert.Equal(t, Testnet, testnet.Key)
	assert.Equal(t, int64(44787), testnet.ChainID)
	_, ok = testnet.Contract(ContractRegistryIDCard)
	assert.True(t, ok)

	_, ok = table.Get("ethereum")
	assert.False(t, ok)
}

func TestWithRPCOverrides(t *testing.T) {
	base := Default()
	overridden := base.WithRPCOverrides(map[string]string{
		Testnet:   "http://localhost:8545",
		Mainnet:   "  ",
		"unknown": "http://example",
	})

	testnet, _ := overridden.Get(Testnet)
	assert.Equal(t, "http://localhost:8545", testnet.RPCURL)

	mainnet, _ := overridden.Get(Mainnet)
	assert.Equal(t, "https://forno.celo.org", mainnet.RPCURL)

	original, _ := base.Get(Testnet)
	assert.Equal(t, "https://alfajores-forno.celo-testnet.org", original.RPCURL)
}

func TestAddressURL(t *testing.T) {
	n, _ := Default().Get(Mainnet)
	assert.Equal(t, "https://celoscan.io/address/0x77117D60eaB7C044e785D68edB6C7E0e134970Ea", n.AddressURL(n.Hub()))
}

func TestAllReturnsCopy(t *testing.T) {
	table := Default()
	all := table.All()
	all[0].Contracts[0].Name = "mutated"

	n, _ := table.Get(Mainnet)
	assert.Equal(t, ContractHub, n.Contracts[0].Name)
}
