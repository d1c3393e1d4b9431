package ops

import (
	"errors"

	"github.com/selfxyz/self-mcp/internal/catalog"
)

// checkCatalog confirms that every key reachable from a validated request
// has a catalog entry, so a missing template fails at startup rather than
// on a caller's request.
func (r *Router) checkCatalog() error {
	var keys [][2]string
	for _, useCase := range useCases {
		keys = append(keys, [2]string{catalog.Guides, useCase})
	}
	for component, langs := range componentLanguages {
		for _, lang := range langs {
			keys = append(keys, [2]string{catalog.Code, component + "." + lang})
		}
	}
	for component, langs := range euidLanguages {
		for _, lang := range langs {
			keys = append(keys, [2]string{catalog.EUID, component + "." + lang})
		}
	}
	for _, topic := range sdkTopics {
		keys = append(keys, [2]string{catalog.SDK, topic})
	}
	for _, key := range errorContextKeys {
		keys = append(keys, [2]string{catalog.Errors, key})
	}
	keys = append(keys, [2]string{catalog.Errors, "generic"})
	for _, action := range toolActions {
		keys = append(keys, [2]string{catalog.ToolsGuide, action})
	}
	for _, t := range exampleTypes {
		keys = append(keys, [2]string{catalog.Examples, t})
	}
	keys = append(keys,
		[2]string{catalog.ToolsGuide, "deploy-config-prefilled"},
		[2]string{catalog.ToolsGuide, "read-config-id"},
		[2]string{catalog.Status, "report"},
		[2]string{catalog.Config, "verification"},
		[2]string{catalog.Resources, "contract-addresses"},
		[2]string{catalog.Resources, "best-practices"},
	)

	var errs []error
	for _, k := range keys {
		if _, err := r.deps.Catalog.Lookup(k[0], k[1]); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
