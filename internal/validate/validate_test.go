package validate

import (
	"errors"
	"testing"

	"github.com/selfxyz/self-mcp/internal/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var useCases = []string{"airdrop", "age-verification", "humanity-check"}

func TestApplyEnumMembership(t *testing.T) {
	params := []Param{{Name: "use_case", Type: TypeString, Required: true, Enum: useCases}}

	for _, value := range useCases {
		t.Run(value, func(t *testing.T) {
			args, err := Apply(params, map[string]any{"use_case": value})
			require.NoError(t, err)
			assert.Equal(t, value, args.String("use_case"))
		})
	}

	for _, value := range []string{"kyc", "AIRDROP", "air-drop"} {
		t.Run("reject "+value, func(t *testing.T) {
			_, err := Apply(params, map[string]any{"use_case": value})
			var ipe *apperr.InvalidParameterError
			require.ErrorAs(t, err, &ipe)
			assert.Equal(t, "use_case", ipe.Param)
			assert.Equal(t, value, ipe.Value)
			assert.Equal(t, useCases, ipe.Allowed)
		})
	}
}

func TestApplyKeepsStringsVerbatim(t *testing.T) {
	params := []Param{
		{Name: "use_case", Type: TypeString, Required: true, Enum: useCases},
		{Name: "scope_seed", Type: TypeString, Required: true},
	}

	_, err := Apply(params, map[string]any{"use_case": "  airdrop ", "scope_seed": "x"})
	var ipe *apperr.InvalidParameterError
	require.ErrorAs(t, err, &ipe)
	assert.Equal(t, "use_case", ipe.Param)
	assert.Equal(t, "  airdrop ", ipe.Value)

	args, err := Apply(params, map[string]any{"use_case": "airdrop", "scope_seed": " my app "})
	require.NoError(t, err)
	assert.Equal(t, " my app ", args.String("scope_seed"))

	args, err = Apply(params, map[string]any{"use_case": "airdrop", "scope_seed": " "})
	require.NoError(t, err)
	assert.Equal(t, " ", args.String("scope_seed"))

	_, err = Apply(params, map[string]any{"use_case": "airdrop", "scope_seed": ""})
	require.ErrorAs(t, err, &ipe)
	assert.Equal(t, "scope_seed", ipe.Param)
}

func TestApplyRequiredAndDefaults(t *testing.T) {
	params := []Param{
		{Name: "network", Type: TypeString, Enum: []string{"mainnet", "testnet"}, Default: "mainnet"},
		{Name: "config_id", Type: TypeString, Required: true},
	}

	_, err := Apply(params, map[string]any{})
	var ipe *apperr.InvalidParameterError
	require.ErrorAs(t, err, &ipe)
	assert.Equal(t, "config_id", ipe.Param)

	args, err := Apply(params, map[string]any{"config_id": "0xabc"})
	require.NoError(t, err)
	assert.Equal(t, "mainnet", args.String("network"))

	args, err = Apply(params, map[string]any{"config_id": "0xabc", "network": nil})
	require.NoError(t, err)
	assert.Equal(t, "mainnet", args.String("network"), "null falls back to the default")

	_, err = Apply(params, map[string]any{"config_id": "0xabc", "network": ""})
	require.ErrorAs(t, err, &ipe)
	assert.Equal(t, "network", ipe.Param)
	assert.Equal(t, "", ipe.Value)
}

func TestApplyEmptyStringInEnum(t *testing.T) {
	params := []Param{{Name: "context", Type: TypeString, Enum: []string{"", "scope-mismatch"}, Default: ""}}

	args, err := Apply(params, map[string]any{"context": ""})
	require.NoError(t, err)
	assert.Equal(t, "", args.String("context"))
	assert.True(t, args.Has("context"))
}

func TestApplyCollectsAllViolations(t *testing.T) {
	params := []Param{
		{Name: "component", Type: TypeString, Required: true, Enum: []string{"frontend-qr"}},
		{Name: "language", Type: TypeString, Enum: []string{"typescript"}},
	}

	_, err := Apply(params, map[string]any{"component": "nope", "language": "cobol"})
	require.Error(t, err)

	var names []string
	for _, e := range err.(interface{ Unwrap() []error }).Unwrap() {
		var ipe *apperr.InvalidParameterError
		if errors.As(e, &ipe) {
			names = append(names, ipe.Param)
		}
	}
	assert.Equal(t, []string{"component", "language"}, names)
}

func TestApplyCoercion(t *testing.T) {
	min, max := 0, 150
	params := []Param{
		{Name: "minimum_age", Type: TypeInt, Min: &min, Max: &max, Default: 0},
		{Name: "excluded_countries", Type: TypeStringList},
		{Name: "ofac_enabled", Type: TypeBoolList},
		{Name: "check_onchain", Type: TypeBool, Default: true},
		{Name: "requirements", Type: TypeObject},
	}

	tests := []struct {
		name    string
		raw     map[string]any
		wantErr bool
		check   func(t *testing.T, a Args)
	}{
		{
			name: "json numbers",
			raw:  map[string]any{"minimum_age": float64(18)},
			check: func(t *testing.T, a Args) {
				assert.Equal(t, 18, a.Int("minimum_age"))
				assert.True(t, a.Bool("check_onchain"))
			},
		},
		{
			name: "cli strings",
			raw: map[string]any{
				"minimum_age":        "21",
				"excluded_countries": "IRN, PRK",
				"ofac_enabled":       "true,false,true",
				"check_onchain":      "false",
				"requirements":       `{"app_name":"Demo"}`,
			},
			check: func(t *testing.T, a Args) {
				assert.Equal(t, 21, a.Int("minimum_age"))
				assert.Equal(t, []string{"IRN", "PRK"}, a.Strings("excluded_countries"))
				assert.Equal(t, []bool{true, false, true}, a.Bools("ofac_enabled"))
				assert.False(t, a.Bool("check_onchain"))
				assert.Equal(t, "Demo", a.Object("requirements")["app_name"])
			},
		},
		{name: "fractional age", raw: map[string]any{"minimum_age": 18.5}, wantErr: true},
		{name: "age out of range", raw: map[string]any{"minimum_age": 151}, wantErr: true},
		{name: "negative age", raw: map[string]any{"minimum_age": -1}, wantErr: true},
		{name: "list of numbers", raw: map[string]any{"excluded_countries": []any{1, 2}}, wantErr: true},
		{name: "bad object", raw: map[string]any{"requirements": 12}, wantErr: true},
		{
			name: "empty cli list",
			raw:  map[string]any{"excluded_countries": ""},
			check: func(t *testing.T, a Args) {
				assert.Empty(t, a.Strings("excluded_countries"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args, err := Apply(params, tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, apperr.KindInvalidParameter, apperr.KindOf(err))
				return
			}
			require.NoError(t, err)
			tt.check(t, args)
		})
	}
}

func TestOneOf(t *testing.T) {
	assert.NoError(t, OneOf("language", "solidity", []string{"solidity"}))

	err := OneOf("language", "javascript", []string{"solidity"})
	var ipe *apperr.InvalidParameterError
	require.ErrorAs(t, err, &ipe)
	assert.Equal(t, []string{"solidity"}, ipe.Allowed)
}

func TestApplyStringOrBool(t *testing.T) {
	params := []Param{{Name: "nationality_check", Type: TypeStringOrBool}}

	args, err := Apply(params, map[string]any{"nationality_check": true})
	require.NoError(t, err)
	assert.True(t, args.Bool("nationality_check"))
	assert.Equal(t, "", args.String("nationality_check"))

	args, err = Apply(params, map[string]any{"nationality_check": "FRA"})
	require.NoError(t, err)
	assert.Equal(t, "FRA", args.String("nationality_check"))

	_, err = Apply(params, map[string]any{"nationality_check": 3})
	assert.Equal(t, apperr.KindInvalidParameter, apperr.KindOf(err))
}
