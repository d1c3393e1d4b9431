package ops

import (
	"context"
	"fmt"

	"github.com/selfxyz/self-mcp/internal/identity"
	"github.com/selfxyz/self-mcp/internal/networks"
	"github.com/selfxyz/self-mcp/internal/validate"
)

func (r *Router) chainOperations() []*Operation {
	chainNetworks := r.deps.Networks.Keys()
	return []*Operation{
		{
			Name:        "generate_scope_hash",
			Title:       "Generate scope hash for Self verification",
			Description: "Hash an address or HTTPS URL with a scope seed the way the hub contract does.",
			Params: []validate.Param{
				{Name: "address_or_url", Type: validate.TypeString, Required: true, Description: "Ethereum address (0x...) or HTTPS URL"},
				{Name: "scope_seed", Type: validate.TypeString, Required: true, Description: "Scope seed string (max 20 chars, lowercase)"},
			},
			Handler: r.generateScopeHash,
		},
		{
			Name:        "generate_config_id",
			Title:       "Generate a verification config ID",
			Description: "Derive the hub config ID for a set of requirements and check whether it is deployed.",
			Params: []validate.Param{
				{Name: "minimum_age", Type: validate.TypeInt, Default: 0, Min: intPtr(0), Max: intPtr(identity.MaxAge), Description: "Minimum age requirement (0 to disable)"},
				{Name: "excluded_countries", Type: validate.TypeStringList, Default: []string{}, Description: "Excluded 3-letter country codes"},
				{Name: "ofac_enabled", Type: validate.TypeBoolList, Default: []bool{false, false, false}, Description: "OFAC settings [basic, enhanced, comprehensive]"},
				{Name: "network", Type: validate.TypeString, Enum: chainNetworks, Default: networks.Mainnet, Description: "Network to check config existence"},
				{Name: "check_onchain", Type: validate.TypeBool, Default: true, Description: "Look the config up on the hub contract"},
			},
			Handler: r.generateConfigID,
		},
		{
			Name:        "read_hub_config",
			Title:       "Read a verification config from the hub",
			Description: "Read and decode a verification config stored on the Self hub contract.",
			Params: []validate.Param{
				{Name: "config_id", Type: validate.TypeString, Required: true, Description: "Configuration ID to read (0x...)"},
				{Name: "network", Type: validate.TypeString, Enum: chainNetworks, Default: networks.Mainnet, Description: "Network to read from"},
			},
			Handler: r.readHubConfig,
		},
		{
			Name:        "list_country_codes",
			Title:       "List country codes",
			Description: "List ISO 3166-1 alpha-3 country codes usable in exclusion lists.",
			Params: []validate.Param{
				{Name: "search", Type: validate.TypeString, Description: "Filter by code or name, ignoring case"},
			},
			Handler: r.listCountryCodes,
		},
	}
}

func (r *Router) generateScopeHash(_ context.Context, args validate.Args) (Result, error) {
	res, err := identity.ScopeHash(args.String("address_or_url"), args.String("scope_seed"))
	if err != nil {
		return Result{}, err
	}
	return jsonResult(res)
}

type ofacSettings struct {
	Basic         bool `json:"basic"`
	Enhanced      bool `json:"enhanced"`
	Comprehensive bool `json:"comprehensive"`
}

type configSummary struct {
	MinimumAge        any          `json:"minimum_age"`
	ExcludedCountries any          `json:"excluded_countries"`
	OFACSettings      ofacSettings `json:"ofac_settings"`
}

type configIDResult struct {
	ConfigID      string        `json:"config_id"`
	ExistsOnChain *bool         `json:"exists_on_chain,omitempty"`
	Network       string        `json:"network"`
	Configuration configSummary `json:"configuration"`
	DeployURL     string        `json:"deploy_url,omitempty"`
	Message       string        `json:"message"`
}

func (r *Router) generateConfigID(ctx context.Context, args validate.Args) (Result, error) {
	age := args.Int("minimum_age")
	countries := args.Strings("excluded_countries")
	ofac := identity.NormalizeOFAC(args.Bools("ofac_enabled"))
	network := args.String("network")

	cfg, err := identity.NewConfig(age, countries, ofac[:])
	if err != nil {
		return Result{}, err
	}
	id, err := identity.ConfigID(cfg)
	if err != nil {
		return Result{}, err
	}

	out := configIDResult{
		ConfigID: id.Hex(),
		Network:  network,
		Configuration: configSummary{
			MinimumAge:        "Disabled",
			ExcludedCountries: "None",
			OFACSettings:      ofacSettings{Basic: ofac[0], Enhanced: ofac[1], Comprehensive: ofac[2]},
		},
	}
	if age > 0 {
		out.Configuration.MinimumAge = age
	}
	if len(countries) > 0 {
		out.Configuration.ExcludedCountries = countries
	}

	deployURL := identity.DeployURL(age, countries, ofac[:])
	if !args.Bool("check_onchain") {
		out.DeployURL = deployURL
		out.Message = "On-chain check skipped, use deploy_url to create the config if it is not deployed yet"
		return jsonResult(out)
	}

	exists, err := r.deps.Chain.ConfigExists(ctx, network, id)
	if err != nil {
		return Result{}, err
	}
	out.ExistsOnChain = &exists
	if exists {
		out.Message = "Config already exists on-chain"
	} else {
		out.DeployURL = deployURL
		out.Message = "Config does not exist yet, use deploy_url to create it"
	}
	return jsonResult(out)
}

type hubConfigResult struct {
	ConfigID      string           `json:"config_id"`
	Network       string           `json:"network"`
	Exists        bool             `json:"exists"`
	Message       string           `json:"message,omitempty"`
	Configuration *hubConfigDetail `json:"configuration,omitempty"`
	HubAddress    string           `json:"hub_address"`
	ExplorerURL   string           `json:"explorer_url"`
}

type hubConfigDetail struct {
	MinimumAge struct {
		Enabled bool   `json:"enabled"`
		Value   *int64 `json:"value"`
		Display string `json:"display"`
	} `json:"minimum_age"`
	ExcludedCountries struct {
		Enabled  bool               `json:"enabled"`
		Codes    []string           `json:"codes"`
		Readable []identity.Country `json:"readable"`
		Count    int                `json:"count"`
		Display  string             `json:"display"`
	} `json:"excluded_countries"`
	OFACSettings struct {
		ofacSettings
		AnyEnabled bool   `json:"any_enabled"`
		Display    string `json:"display"`
	} `json:"ofac_settings"`
}

func (r *Router) readHubConfig(ctx context.Context, args validate.Args) (Result, error) {
	id, err := identity.ParseConfigID(args.String("config_id"))
	if err != nil {
		return Result{}, err
	}
	network := args.String("network")

	report, err := r.deps.Chain.ReadConfig(ctx, network, id)
	if err != nil {
		return Result{}, err
	}

	out := hubConfigResult{
		ConfigID:    args.String("config_id"),
		Network:     network,
		Exists:      report.Exists,
		HubAddress:  report.HubAddress.Hex(),
		ExplorerURL: report.Network.AddressURL(report.HubAddress),
	}
	if !report.Exists {
		out.Message = fmt.Sprintf("Configuration %s does not exist on %s", out.ConfigID, network)
		return jsonResult(out)
	}

	cfg := report.Config
	detail := &hubConfigDetail{}

	detail.MinimumAge.Enabled = cfg.OlderThanEnabled
	detail.MinimumAge.Display = "Disabled"
	if cfg.OlderThanEnabled && cfg.OlderThan != nil {
		// olderThan is a uint256; Value is only set when it fits an int64.
		if cfg.OlderThan.IsInt64() {
			v := cfg.OlderThan.Int64()
			detail.MinimumAge.Value = &v
		}
		detail.MinimumAge.Display = cfg.OlderThan.String() + " years"
	}

	detail.ExcludedCountries.Enabled = cfg.ForbiddenCountriesEnabled
	detail.ExcludedCountries.Codes = []string{}
	detail.ExcludedCountries.Readable = []identity.Country{}
	detail.ExcludedCountries.Display = "No restrictions"
	if cfg.ForbiddenCountriesEnabled {
		codes := identity.UnpackCountries(cfg.ForbiddenCountriesListPacked)
		for _, code := range codes {
			detail.ExcludedCountries.Readable = append(detail.ExcludedCountries.Readable, identity.Country{Code: code, Name: identity.CountryName(code)})
		}
		detail.ExcludedCountries.Codes = append(detail.ExcludedCountries.Codes, codes...)
		detail.ExcludedCountries.Count = len(codes)
		detail.ExcludedCountries.Display = fmt.Sprintf("%d countries excluded", len(codes))
	}

	ofac := cfg.OfacEnabled
	detail.OFACSettings.ofacSettings = ofacSettings{Basic: ofac[0], Enhanced: ofac[1], Comprehensive: ofac[2]}
	detail.OFACSettings.AnyEnabled = ofac[0] || ofac[1] || ofac[2]
	detail.OFACSettings.Display = "Disabled"
	if detail.OFACSettings.AnyEnabled {
		detail.OFACSettings.Display = "Enabled"
	}

	out.Configuration = detail
	return jsonResult(out)
}

func (r *Router) listCountryCodes(_ context.Context, args validate.Args) (Result, error) {
	return jsonResult(identity.Countries(args.String("search")))
}
