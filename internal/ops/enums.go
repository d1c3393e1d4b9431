package ops

// Closed value sets for enumerated parameters.
var (
	useCases      = []string{"airdrop", "age-verification", "humanity-check"}
	components    = []string{"frontend-qr", "backend-verify", "smart-contract"}
	languages     = []string{"typescript", "javascript", "solidity"}
	euidParts     = []string{"frontend", "backend", "smart-contract"}
	sdkTopics     = []string{"config-storage", "user-id-type", "attestation-ids", "full-setup"}
	errorContexts = []string{"", "scope-mismatch", "proof-invalid", "age-verification", "nullifier-reuse", "network-error", "config-mismatch"}
	toolActions   = []string{"deploy-config", "connect-wallet", "select-countries", "generate-scope", "read-config"}
	exampleTypes  = []string{"airdrop", "age-gate"}
)

// Languages supported per component; the first entry is the default.
var (
	componentLanguages = map[string][]string{
		"frontend-qr":    {"typescript", "javascript"},
		"backend-verify": {"typescript", "javascript"},
		"smart-contract": {"solidity"},
	}
	euidLanguages = map[string][]string{
		"frontend":       {"typescript", "javascript"},
		"backend":        {"typescript", "javascript"},
		"smart-contract": {"solidity"},
	}
)

var componentContext = map[string]string{
	"frontend-qr":    "Self verification QR code",
	"backend-verify": "Self proof verification",
	"smart-contract": "on-chain Self verification",
}

// errorContextKeys maps a debug context hint to an error catalog key.
var errorContextKeys = map[string]string{
	"scope-mismatch":   "scope",
	"proof-invalid":    "proof",
	"age-verification": "age",
	"nullifier-reuse":  "nullifier",
	"network-error":    "network",
	"config-mismatch":  "config",
}

// ExampleTypes returns the example walkthrough keys.
func ExampleTypes() []string {
	return append([]string(nil), exampleTypes...)
}
