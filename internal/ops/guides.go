package ops

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/selfxyz/self-mcp/internal/apperr"
	"github.com/selfxyz/self-mcp/internal/catalog"
	"github.com/selfxyz/self-mcp/internal/identity"
	"github.com/selfxyz/self-mcp/internal/validate"
)

func (r *Router) guideOperations() []*Operation {
	return []*Operation{
		{
			Name:        "explain_self_integration",
			Title:       "Explain Self protocol integration for a use case",
			Description: "Explain how to integrate Self protocol for a specific use case.",
			Params: []validate.Param{
				{Name: "use_case", Type: validate.TypeString, Required: true, Enum: useCases, Description: "Integration use case"},
			},
			Handler: r.explainIntegration,
		},
		{
			Name:        "generate_verification_code",
			Title:       "Generate Self verification code",
			Description: "Generate Self verification code for a frontend, backend or smart contract component.",
			Params: []validate.Param{
				{Name: "component", Type: validate.TypeString, Required: true, Enum: components, Description: "Component to generate"},
				{Name: "language", Type: validate.TypeString, Enum: languages, Description: "Target language; defaults to the component's primary language"},
			},
			Normalize: languageFor("component", componentLanguages),
			Handler:   r.generateCode,
		},
		{
			Name:        "debug_verification_error",
			Title:       "Debug a Self verification error",
			Description: "Diagnose a Self verification error and suggest a fix.",
			Params: []validate.Param{
				{Name: "error_message", Type: validate.TypeString, Required: true, Description: "The error message you are seeing"},
				{Name: "context", Type: validate.TypeString, Enum: errorContexts, Default: "", Description: "Optional hint about the error type"},
			},
			Handler: r.debugError,
		},
		{
			Name:        "check_self_status",
			Title:       "Check Self protocol network status and contracts",
			Description: "Show Self protocol network configuration and core contract addresses.",
			Params: []validate.Param{
				{Name: "network", Type: validate.TypeString, Enum: r.deps.Networks.Aliases(), Default: "celo-mainnet", Description: "Network to describe"},
			},
			Handler: r.checkStatus,
		},
		{
			Name:        "generate_verification_config",
			Title:       "Generate a Self verification configuration",
			Description: "Generate matching frontend and backend verification configuration from requirements.",
			Params: []validate.Param{
				{Name: "requirements", Type: validate.TypeObject, Required: true, Description: "Keys: app_name, minimum_age, nationality_check, exclude_countries, ofac_check, endpoint, rpc_url"},
			},
			Handler: r.generateConfig,
		},
		{
			Name:        "explain_sdk_setup",
			Title:       "Explain Self SDK setup",
			Description: "Explain a Self backend SDK setup topic.",
			Params: []validate.Param{
				{Name: "topic", Type: validate.TypeString, Required: true, Enum: sdkTopics, Description: "SDK topic"},
			},
			Handler: r.explainSDK,
		},
		{
			Name:        "generate_eu_id_verification",
			Title:       "Generate EU ID card verification code",
			Description: "Generate code for verifying EU identity cards with Self.",
			Params: []validate.Param{
				{Name: "component", Type: validate.TypeString, Required: true, Enum: euidParts, Description: "Component to generate"},
				{Name: "language", Type: validate.TypeString, Enum: languages, Description: "Target language; defaults to the component's primary language"},
			},
			Normalize: languageFor("component", euidLanguages),
			Handler:   r.generateEUID,
		},
		{
			Name:        "guide_to_tools",
			Title:       "Guide users to tools.self.xyz features",
			Description: "Walk through write operations that are performed on tools.self.xyz.",
			Params: []validate.Param{
				{Name: "action", Type: validate.TypeString, Required: true, Enum: toolActions, Description: "What the user wants to do"},
				{Name: "parameters", Type: validate.TypeObject, Description: "Optional values used to prefill links"},
			},
			Handler: r.guideToTools,
		},
	}
}

// languageFor defaults the language argument to the component's first
// supported language and rejects unsupported pairs.
func languageFor(componentParam string, supported map[string][]string) func(validate.Args) error {
	return func(args validate.Args) error {
		component := args.String(componentParam)
		allowed, ok := supported[component]
		if !ok {
			return apperr.InternalConsistency("no languages registered for %s %q", componentParam, component)
		}
		if !args.Has("language") {
			args["language"] = allowed[0]
			return nil
		}
		language := args.String("language")
		if err := validate.OneOf("language", language, allowed); err != nil {
			return apperr.InvalidParameter("language", language, allowed, "not available for %s %q", componentParam, component)
		}
		return nil
	}
}

func (r *Router) render(category, key string, vars map[string]string) (Result, error) {
	text, err := r.deps.Catalog.Render(category, key, vars)
	if err != nil {
		return Result{}, err
	}
	return textResult(text), nil
}

func (r *Router) explainIntegration(_ context.Context, args validate.Args) (Result, error) {
	return r.render(catalog.Guides, args.String("use_case"), nil)
}

func (r *Router) generateCode(_ context.Context, args validate.Args) (Result, error) {
	component := args.String("component")
	return r.render(catalog.Code, component+"."+args.String("language"), map[string]string{
		"component_context": componentContext[component],
	})
}

func (r *Router) generateEUID(_ context.Context, args validate.Args) (Result, error) {
	return r.render(catalog.EUID, args.String("component")+"."+args.String("language"), nil)
}

func (r *Router) explainSDK(_ context.Context, args validate.Args) (Result, error) {
	return r.render(catalog.SDK, args.String("topic"), nil)
}

func (r *Router) debugError(_ context.Context, args validate.Args) (Result, error) {
	message := args.String("error_message")

	entry, err := r.matchError(message, args.String("context"))
	if err != nil {
		return Result{}, err
	}
	if entry == nil {
		return r.render(catalog.Errors, "generic", map[string]string{"error_message": message})
	}

	body, err := entry.Render(nil)
	if err != nil {
		return Result{}, err
	}
	return textResult(fmt.Sprintf("## Error: %s\n\n**Your error:** `%s`\n\n%s", entry.Problem, message, body)), nil
}

// matchError picks a known solution by context hint, then by scanning the
// message for a solution key or one of its related phrases. It returns nil
// when nothing matches.
func (r *Router) matchError(message, hint string) (*catalog.Entry, error) {
	if key, ok := errorContextKeys[hint]; ok {
		return r.deps.Catalog.Lookup(catalog.Errors, key)
	}

	entries, err := r.deps.Catalog.Entries(catalog.Errors)
	if err != nil {
		return nil, err
	}

	lower := strings.ToLower(message)
	for _, entry := range entries {
		if entry.Problem == "" {
			continue
		}
		if strings.Contains(lower, entry.Key) {
			return entry, nil
		}
		for _, related := range entry.Related {
			if strings.Contains(lower, strings.ToLower(related)) {
				return entry, nil
			}
		}
	}
	return nil, nil
}

func (r *Router) checkStatus(_ context.Context, args validate.Args) (Result, error) {
	n, ok := r.deps.Networks.Get(args.String("network"))
	if !ok {
		return Result{}, apperr.InternalConsistency("network %q passed validation but is not in the table", args.String("network"))
	}
	return r.render(catalog.Status, "report", map[string]string{
		"name":     n.Name,
		"rpc":      n.RPCURL,
		"chain_id": strconv.FormatInt(n.ChainID, 10),
		"explorer": n.Explorer,
		"api":      n.APIURL,
		"hub":      n.Hub().Hex(),
		"registry": n.Registry().Hex(),
		"currency": n.Currency,
	})
}

var requirementParams = []validate.Param{
	{Name: "app_name", Type: validate.TypeString},
	{Name: "minimum_age", Type: validate.TypeInt, Min: intPtr(0), Max: intPtr(identity.MaxAge)},
	{Name: "nationality_check", Type: validate.TypeStringOrBool},
	{Name: "exclude_countries", Type: validate.TypeStringList},
	{Name: "ofac_check", Type: validate.TypeBool},
	{Name: "endpoint", Type: validate.TypeString},
	{Name: "rpc_url", Type: validate.TypeString},
}

func (r *Router) generateConfig(_ context.Context, args validate.Args) (Result, error) {
	req, err := validate.Apply(requirementParams, args.Object("requirements"))
	if err != nil {
		return Result{}, err
	}

	scopeBase := "my-app"
	if name := req.String("app_name"); name != "" {
		scopeBase = name
	}
	scope := strings.ReplaceAll(strings.ToLower(scopeBase), " ", "-") + "-v1"

	var disclosures []disclosure
	var checks []string
	if age := req.Int("minimum_age"); age > 0 {
		disclosures = append(disclosures, disclosure{key: "minimumAge", value: strconv.Itoa(age)})
		checks = append(checks, fmt.Sprintf("verifier.setMinimumAge(%d)", age))
	}
	nationality := req.String("nationality_check")
	if req.Bool("nationality_check") {
		nationality = "true"
	}
	if nationality != "" {
		disclosures = append(disclosures, disclosure{key: "nationality", value: "true"})
		checks = append(checks, fmt.Sprintf("verifier.setNationality('%s')", nationality))
	}
	if countries := req.Strings("exclude_countries"); len(countries) > 0 {
		disclosures = append(disclosures, disclosure{key: "excludedCountries", list: countries})
		quoted := make([]string, len(countries))
		for i, c := range countries {
			quoted[i] = strconv.Quote(c)
		}
		checks = append(checks, fmt.Sprintf("verifier.excludeCountries(%s)", strings.Join(quoted, ", ")))
	}
	if req.Bool("ofac_check") {
		disclosures = append(disclosures, disclosure{key: "ofac", value: "true"})
		checks = append(checks, "verifier.enableNameAndDobOfacCheck()")
	}

	return r.render(catalog.Config, "verification", map[string]string{
		"app_name":    req.String("app_name"),
		"scope":       scope,
		"endpoint":    req.String("endpoint"),
		"disclosures": formatDisclosures(disclosures),
		"rpc_url":     req.String("rpc_url"),
		"checks":      strings.Join(checks, "\n"),
	})
}

type disclosure struct {
	key   string
	value string
	list  []string
}

// formatDisclosures renders disclosures as an indented, unquoted object
// literal suitable for pasting into SelfAppBuilder.
func formatDisclosures(ds []disclosure) string {
	if len(ds) == 0 {
		return "{}"
	}

	var b strings.Builder
	b.WriteString("{\n")
	for i, d := range ds {
		b.WriteString("  " + d.key + ": ")
		if d.list != nil {
			b.WriteString("[\n")
			for j, item := range d.list {
				b.WriteString("    " + item)
				if j < len(d.list)-1 {
					b.WriteString(",")
				}
				b.WriteString("\n")
			}
			b.WriteString("  ]")
		} else {
			b.WriteString(d.value)
		}
		if i < len(ds)-1 {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}
	b.WriteString("}")
	return b.String()
}

var toolParams = []validate.Param{
	{Name: "minimum_age", Type: validate.TypeInt, Min: intPtr(0), Max: intPtr(identity.MaxAge)},
	{Name: "excluded_countries", Type: validate.TypeStringList},
	{Name: "ofac_enabled", Type: validate.TypeBoolList},
	{Name: "config_id", Type: validate.TypeString},
}

func (r *Router) guideToTools(_ context.Context, args validate.Args) (Result, error) {
	action := args.String("action")
	raw := args.Object("parameters")

	params, err := validate.Apply(toolParams, raw)
	if err != nil {
		return Result{}, err
	}

	switch action {
	case "deploy-config":
		if len(raw) == 0 {
			return r.render(catalog.ToolsGuide, action, nil)
		}
		return r.render(catalog.ToolsGuide, "deploy-config-prefilled", deployVars(params))

	case "read-config":
		if id := params.String("config_id"); id != "" {
			return r.render(catalog.ToolsGuide, "read-config-id", map[string]string{"config_id": id})
		}
	}
	return r.render(catalog.ToolsGuide, action, nil)
}

func deployVars(params validate.Args) map[string]string {
	var query []string
	vars := map[string]string{}

	if params.Has("minimum_age") {
		age := strconv.Itoa(params.Int("minimum_age"))
		query = append(query, "age="+age)
		vars["minimum_age"] = age
	}
	if params.Has("excluded_countries") {
		countries := params.Strings("excluded_countries")
		query = append(query, "countries="+strings.Join(countries, ","))
		vars["excluded_countries"] = strings.Join(countries, ", ")
	}
	if params.Has("ofac_enabled") {
		ofac := params.Bools("ofac_enabled")
		query = append(query, "ofac="+identity.FormatBools(ofac, ","))
		vars["ofac"] = "[" + identity.FormatBools(ofac, ", ") + "]"
	}

	vars["url"] = identity.ToolsBaseURL
	if len(query) > 0 {
		vars["url"] = identity.ToolsBaseURL + "?" + strings.Join(query, "&")
	}
	return vars
}

func intPtr(v int) *int {
	return &v
}
