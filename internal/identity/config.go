package identity

import (
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"github.com/selfxyz/self-mcp/internal/apperr"
)

// ToolsBaseURL is the hosted Self developer tools site.
const ToolsBaseURL = "https://tools.self.xyz"

const (
	MaxAge           = 150
	MaxCountries     = 40
	countryCodeLen   = 3
	bytesPerWord     = 30
	countriesPerWord = bytesPerWord / countryCodeLen
	packedWords      = 4
	ofacFlags        = 3
)

// VerificationConfig mirrors the hub contract's VerificationConfigV2 struct.
type VerificationConfig struct {
	OlderThanEnabled             bool        `json:"olderThanEnabled"`
	OlderThan                    *big.Int    `json:"olderThan"`
	ForbiddenCountriesEnabled    bool        `json:"forbiddenCountriesEnabled"`
	ForbiddenCountriesListPacked [4]*big.Int `json:"forbiddenCountriesListPacked"`
	OfacEnabled                  [3]bool     `json:"ofacEnabled"`
}

// NewConfig builds a verification config from user-facing requirements.
// An ofac slice of any length other than three is treated as all disabled.
func NewConfig(minimumAge int, excludedCountries []string, ofac []bool) (VerificationConfig, error) {
	if minimumAge < 0 || minimumAge > MaxAge {
		return VerificationConfig{}, apperr.InvalidParameter("minimum_age", minimumAge, nil, "must be between 0 and %d", MaxAge)
	}

	packed, err := PackCountries(excludedCountries)
	if err != nil {
		return VerificationConfig{}, err
	}

	cfg := VerificationConfig{
		OlderThanEnabled:             minimumAge > 0,
		OlderThan:                    big.NewInt(int64(minimumAge)),
		ForbiddenCountriesEnabled:    len(excludedCountries) > 0,
		ForbiddenCountriesListPacked: packed,
		OfacEnabled:                  NormalizeOFAC(ofac),
	}
	return cfg, nil
}

// NormalizeOFAC returns the three OFAC flags, or all false when ofac does not
// have exactly three entries.
func NormalizeOFAC(ofac []bool) [3]bool {
	var out [3]bool
	if len(ofac) != ofacFlags {
		return out
	}
	copy(out[:], ofac)
	return out
}

// PackCountries packs up to forty 3-byte codes into four words of 30 bytes,
// least significant byte first.
func PackCountries(codes []string) ([4]*big.Int, error) {
	var packed [4]*big.Int
	for i := range packed {
		packed[i] = new(big.Int)
	}

	if len(codes) > MaxCountries {
		return packed, apperr.InvalidParameter("excluded_countries", len(codes), nil, "maximum %d countries allowed", MaxCountries)
	}

	raw := make([]byte, MaxCountries*countryCodeLen)
	for i, code := range codes {
		if len(code) != countryCodeLen {
			return packed, apperr.InvalidParameter("excluded_countries", code, nil, "invalid country code, must be %d characters", countryCodeLen)
		}
		copy(raw[i*countryCodeLen:], code)
	}

	for w := 0; w < packedWords; w++ {
		// Word bytes are little-endian: byte j lands at bit offset j*8.
		word := make([]byte, bytesPerWord)
		for j := 0; j < bytesPerWord; j++ {
			word[bytesPerWord-1-j] = raw[w*bytesPerWord+j]
		}
		packed[w].SetBytes(word)
	}
	return packed, nil
}

// UnpackCountries reverses PackCountries. Each code ends at its first zero byte.
func UnpackCountries(packed [4]*big.Int) []string {
	var out []string
	for _, word := range packed {
		if word == nil {
			continue
		}
		var buf [32]byte
		word.FillBytes(buf[:])
		for i := 0; i < countriesPerWord; i++ {
			var code []byte
			for j := 0; j < countryCodeLen; j++ {
				b := buf[31-(i*countryCodeLen+j)]
				if b == 0 {
					break
				}
				code = append(code, b)
			}
			if len(code) > 0 {
				out = append(out, string(code))
			}
		}
	}
	return out
}

// ConfigID hashes the tightly packed encoding of cfg:
// bool | uint256 | bool | uint256[4] | bool[3].
func ConfigID(cfg VerificationConfig) (common.Hash, error) {
	buf := make([]byte, 0, 1+32+1+packedWords*32+ofacFlags)
	buf = append(buf, boolByte(cfg.OlderThanEnabled))

	word, err := uint256Bytes(cfg.OlderThan)
	if err != nil {
		return common.Hash{}, fmt.Errorf("olderThan: %w", err)
	}
	buf = append(buf, word...)
	buf = append(buf, boolByte(cfg.ForbiddenCountriesEnabled))

	for i, packed := range cfg.ForbiddenCountriesListPacked {
		word, err := uint256Bytes(packed)
		if err != nil {
			return common.Hash{}, fmt.Errorf("forbiddenCountriesListPacked[%d]: %w", i, err)
		}
		buf = append(buf, word...)
	}
	for _, flag := range cfg.OfacEnabled {
		buf = append(buf, boolByte(flag))
	}

	return keccak256(buf), nil
}

// ParseConfigID parses a 0x-prefixed 32-byte hex identifier.
func ParseConfigID(s string) (common.Hash, error) {
	if !strings.HasPrefix(s, "0x") || len(s) != 66 {
		return common.Hash{}, apperr.InvalidParameter("config_id", s, nil, "must be 0x followed by 64 hex characters")
	}
	for _, r := range s[2:] {
		if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
			return common.Hash{}, apperr.InvalidParameter("config_id", s, nil, "must be 0x followed by 64 hex characters")
		}
	}
	return common.HexToHash(s), nil
}

// DeployURL links the tools site with the config prefilled. Zero values are omitted.
func DeployURL(minimumAge int, excludedCountries []string, ofac []bool) string {
	var params []string
	if minimumAge > 0 {
		params = append(params, "age="+strconv.Itoa(minimumAge))
	}
	if len(excludedCountries) > 0 {
		params = append(params, "countries="+strings.Join(excludedCountries, ","))
	}
	if anyTrue(ofac) {
		params = append(params, "ofac="+FormatBools(ofac, ","))
	}
	return ToolsBaseURL + "/?" + strings.Join(params, "&")
}

// FormatBools renders flags as lowercase true/false joined by sep.
func FormatBools(flags []bool, sep string) string {
	parts := make([]string, len(flags))
	for i, f := range flags {
		parts[i] = strconv.FormatBool(f)
	}
	return strings.Join(parts, sep)
}

func anyTrue(flags []bool) bool {
	for _, f := range flags {
		if f {
			return true
		}
	}
	return false
}

var errUint256Range = errors.New("value does not fit in uint256")

func uint256Bytes(v *big.Int) ([]byte, error) {
	out := make([]byte, 32)
	if v == nil {
		return out, nil
	}
	if v.Sign() < 0 || v.BitLen() > 256 {
		return nil, errUint256Range
	}
	return v.FillBytes(out), nil
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}
