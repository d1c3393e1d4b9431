// Package networks describes the Celo deployments of the Self protocol.
package networks

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// Well-known network keys.
const (
	Mainnet = "mainnet"
	Testnet = "testnet"
)

// Contract names used in the deployment tables.
const (
	ContractHub            = "hub"
	ContractRegistry       = "registry"
	ContractVerifyAll      = "verifyAll"
	ContractRegistryIDCard = "registryIdCard"
	ContractCustomVerifier = "customVerifier"
	ContractTestContract   = "testContract"
)

// Contract is a named deployed contract.
type Contract struct {
	Name    string         `json:"name"`
	Address common.Address `json:"address"`
}

// Network is one Celo deployment.
type Network struct {
	Key       string     `json:"key"`
	Alias     string     `json:"alias"`
	Name      string     `json:"name"`
	RPCURL    string     `json:"rpc_url"`
	ChainID   int64      `json:"chain_id"`
	Explorer  string     `json:"explorer"`
	APIURL    string     `json:"api_url"`
	Currency  string     `json:"currency"`
	Contracts []Contract `json:"contracts"`
}

// Contract returns the address registered under name.
func (n Network) Contract(name string) (common.Address, bool) {
	for _, c := range n.Contracts {
		if c.Name == name {
			return c.Address, true
		}
	}
	return common.Address{}, false
}

// Hub returns the IdentityVerificationHub address.
func (n Network) Hub() common.Address {
	addr, _ := n.Contract(ContractHub)
	return addr
}

// Registry returns the IdentityRegistry address.
func (n Network) Registry() common.Address {
	addr, _ := n.Contract(ContractRegistry)
	return addr
}

// AddressURL links addr on the network's block explorer.
func (n Network) AddressURL(addr common.Address) string {
	return fmt.Sprintf("%s/address/%s", strings.TrimRight(n.Explorer, "/"), addr.Hex())
}

var builtin = []Network{
	{
		Key:      Mainnet,
		Alias:    "celo-mainnet",
		Name:     "Celo Mainnet",
		RPCURL:   "https://forno.celo.org",
		ChainID:  42220,
		Explorer: "https://celoscan.io",
		APIURL:   "https://api.celoscan.io/api",
		Currency: "CELO",
		Contracts: []Contract{
			{Name: ContractHub, Address: common.HexToAddress("0x77117D60eaB7C044e785D68edB6C7E0e134970Ea")},
			{Name: ContractRegistry, Address: common.HexToAddress("0x37F5CB8cB1f6B00aa768D8aA99F1A9289802A968")},
			{Name: ContractVerifyAll, Address: common.HexToAddress("0xe6D61680A6ED381bb5A0dB5cF4E9Cc933cF43915")},
		},
	},
	{
		Key:      Testnet,
		Alias:    "celo-testnet",
		Name:     "Celo Alfajores Testnet",
		RPCURL:   "https://alfajores-forno.celo-testnet.org",
		ChainID:  44787,
		Explorer: "https://alfajores.celoscan.io",
		APIURL:   "https://api-alfajores.celoscan.io/api",
		Currency: "CELO",
		Contracts: []Contract{
			{Name: ContractHub, Address: common.HexToAddress("0x68c931C9a534D37aa78094877F46fE46a49F1A51")},
			{Name: ContractRegistry, Address: common.HexToAddress("0xE1A05bbee7D8DF2ee2A81dEE8FB22e07B07D1084")},
			{Name: ContractRegistryIDCard, Address: common.HexToAddress("0xF77Be82318F11392Efb5F1062D954911d6086537")},
			{Name: ContractCustomVerifier, Address: common.HexToAddress("0xC95e53bB0d26295c5814F4cE1d72fB4c2df0Fd4f")},
			{Name: ContractTestContract, Address: common.HexToAddress("0x9633b661082BaB295Ff4883bc47E175e06afB5Bf")},
		},
	},
}

// Table is a read-only set of networks.
type Table struct {
	networks []Network
}

// Default returns the built-in network table.
func Default() *Table {
	return &Table{networks: clone(builtin)}
}

// WithRPCOverrides returns a copy of the table with the RPC URL of each keyed
// network replaced. Empty values and unknown keys are ignored.
func (t *Table) WithRPCOverrides(overrides map[string]string) *Table {
	out := &Table{networks: clone(t.networks)}
	for i := range out.networks {
		if url := strings.TrimSpace(overrides[out.networks[i].Key]); url != "" {
			out.networks[i].RPCURL = url
		}
	}
	return out
}

// All returns every network in table order.
func (t *Table) All() []Network {
	return clone(t.networks)
}

// Keys returns the network keys in table order.
func (t *Table) Keys() []string {
	keys := make([]string, 0, len(t.networks))
	for _, n := range t.networks {
		keys = append(keys, n.Key)
	}
	return keys
}

// Aliases returns the long-form network names in table order.
func (t *Table) Aliases() []string {
	aliases := make([]string, 0, len(t.networks))
	for _, n := range t.networks {
		aliases = append(aliases, n.Alias)
	}
	return aliases
}

// Get resolves a network by key or alias.
func (t *Table) Get(name string) (Network, bool) {
	for _, n := range t.networks {
		if n.Key == name || n.Alias == name {
			return n, true
		}
	}
	return Network{}, false
}

// SortedContracts returns the network contracts ordered by name.
func SortedContracts(n Network) []Contract {
	out := make([]Contract, len(n.Contracts))
	copy(out, n.Contracts)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func clone(in []Network) []Network {
	out := make([]Network, len(in))
	for i, n := range in {
		n.Contracts = append([]Contract(nil), n.Contracts...)
		out[i] = n
	}
	return out
}
