package chain

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"

	"github.com/selfxyz/self-mcp/internal/identity"
)

// Hub contract methods used by the reader.
const (
	MethodConfigExists = "verificationConfigV2Exists"
	MethodGetConfig    = "getVerificationConfigV2"
)

// HubABI is the read-only subset of the IdentityVerificationHub ABI.
const HubABI = `[
  {
    "type": "function",
    "name": "verificationConfigV2Exists",
    "stateMutability": "view",
    "inputs": [{"name": "configId", "type": "bytes32"}],
    "outputs": [{"name": "exists", "type": "bool"}]
  },
  {
    "type": "function",
    "name": "getVerificationConfigV2",
    "stateMutability": "view",
    "inputs": [{"name": "configId", "type": "bytes32"}],
    "outputs": [{
      "name": "",
      "type": "tuple",
      "internalType": "struct SelfStructs.VerificationConfigV2",
      "components": [
        {"name": "olderThanEnabled", "type": "bool"},
        {"name": "olderThan", "type": "uint256"},
        {"name": "forbiddenCountriesEnabled", "type": "bool"},
        {"name": "forbiddenCountriesListPacked", "type": "uint256[4]"},
        {"name": "ofacEnabled", "type": "bool[3]"}
      ]
    }]
  }
]`

// Hub is a read-only binding to the IdentityVerificationHub contract.
type Hub struct {
	address  common.Address
	contract *bind.BoundContract
}

// NewHub binds the hub deployed at address.
func NewHub(address common.Address, caller bind.ContractCaller) (*Hub, error) {
	parsed, err := abi.JSON(strings.NewReader(HubABI))
	if err != nil {
		return nil, fmt.Errorf("parse hub abi: %w", err)
	}
	return &Hub{
		address:  address,
		contract: bind.NewBoundContract(address, parsed, caller, nil, nil),
	}, nil
}

// Address returns the bound contract address.
func (h *Hub) Address() common.Address {
	return h.address
}

// VerificationConfigV2Exists reports whether configID is registered.
func (h *Hub) VerificationConfigV2Exists(opts *bind.CallOpts, configID [32]byte) (bool, error) {
	var out []interface{}
	if err := h.contract.Call(opts, &out, MethodConfigExists, configID); err != nil {
		return false, err
	}
	if len(out) != 1 {
		return false, fmt.Errorf("%s: unexpected output count %d", MethodConfigExists, len(out))
	}
	return *abi.ConvertType(out[0], new(bool)).(*bool), nil
}

// GetVerificationConfigV2 returns the stored config for configID.
func (h *Hub) GetVerificationConfigV2(opts *bind.CallOpts, configID [32]byte) (identity.VerificationConfig, error) {
	var out []interface{}
	if err := h.contract.Call(opts, &out, MethodGetConfig, configID); err != nil {
		return identity.VerificationConfig{}, err
	}
	if len(out) != 1 {
		return identity.VerificationConfig{}, fmt.Errorf("%s: unexpected output count %d", MethodGetConfig, len(out))
	}
	return *abi.ConvertType(out[0], new(identity.VerificationConfig)).(*identity.VerificationConfig), nil
}
