// Package identity derives Self protocol identifiers: scope hashes, verification
// config IDs and the packed country lists stored by the hub contract.
package identity

import (
	"errors"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/crypto/sha3"

	"github.com/selfxyz/self-mcp/internal/apperr"
)

// Input kinds accepted as a scope endpoint.
const (
	InputAddress = "address"
	InputURL     = "url"
)

const (
	MaxSeedLength = 20
	seedAlphabet  = "abcdefghijklmnopqrstuvwxyz0123456789 -_.,!?"
)

// ScopeResult is the outcome of a scope hash derivation.
type ScopeResult struct {
	ScopeHash    string `json:"scope_hash"`
	Validation   string `json:"validation"`
	InputType    string `json:"input_type"`
	AddressOrURL string `json:"address_or_url"`
	ScopeSeed    string `json:"scope_seed"`
	ToolsURL     string `json:"tools_url"`
}

// ClassifyEndpoint reports whether s is a hex address or an https URL.
func ClassifyEndpoint(s string) (string, error) {
	switch {
	case strings.HasPrefix(s, "0x"):
		if !common.IsHexAddress(s) {
			return "", apperr.InvalidParameter("address_or_url", s, nil, "invalid Ethereum address format")
		}
		return InputAddress, nil
	case strings.HasPrefix(s, "https://"):
		if len(s) <= len("https://") {
			return "", apperr.InvalidParameter("address_or_url", s, nil, "invalid HTTPS URL")
		}
		return InputURL, nil
	default:
		return "", apperr.InvalidParameter("address_or_url", s, nil, "must be an Ethereum address (0x...) or HTTPS URL")
	}
}

// ValidateSeed checks the scope seed length and alphabet.
func ValidateSeed(seed string) error {
	switch {
	case seed == "":
		return apperr.InvalidParameter("scope_seed", seed, nil, "cannot be empty")
	case len(seed) > MaxSeedLength:
		return apperr.InvalidParameter("scope_seed", seed, nil, "must be %d characters or less", MaxSeedLength)
	}
	for _, r := range seed {
		if !strings.ContainsRune(seedAlphabet, r) {
			return apperr.InvalidParameter("scope_seed", seed, nil, "must contain only lowercase ASCII letters, digits or %q", " -_.,!?")
		}
	}
	return nil
}

// ScopeHash hashes the lowercased endpoint concatenated with seed.
func ScopeHash(addressOrURL, seed string) (ScopeResult, error) {
	inputType, endpointErr := ClassifyEndpoint(addressOrURL)
	seedErr := ValidateSeed(seed)
	if endpointErr != nil || seedErr != nil {
		return ScopeResult{}, errors.Join(endpointErr, seedErr)
	}

	hash := keccak256([]byte(strings.ToLower(addressOrURL) + seed))
	return ScopeResult{
		ScopeHash:    hash.Hex(),
		Validation:   "valid",
		InputType:    inputType,
		AddressOrURL: addressOrURL,
		ScopeSeed:    seed,
		ToolsURL:     ToolsBaseURL + "/#scope-generator",
	}, nil
}

func keccak256(data ...[]byte) common.Hash {
	h := sha3.NewLegacyKeccak256()
	for _, b := range data {
		h.Write(b)
	}
	var out common.Hash
	h.Sum(out[:0])
	return out
}
