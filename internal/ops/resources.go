package ops

import (
	"strings"

	"github.com/selfxyz/self-mcp/internal/apperr"
	"github.com/selfxyz/self-mcp/internal/catalog"
)

// Resource URIs served verbatim.
const (
	ContractsURI        = "self://contracts/addresses"
	BestPracticesURI    = "self://docs/best-practices"
	ExamplesURIPrefix   = "self://examples/"
	ExamplesURITemplate = ExamplesURIPrefix + "{example_type}"
)

// Resource is a static document addressable by URI.
type Resource struct {
	URI         string
	Name        string
	Description string
	MIMEType    string
}

// Resources lists the fixed resources.
func (r *Router) Resources() []Resource {
	return []Resource{
		{URI: ContractsURI, Name: "Self contract addresses", Description: "Deployed Self protocol contract addresses", MIMEType: "text/markdown"},
		{URI: BestPracticesURI, Name: "Self best practices", Description: "Security, privacy and UX guidance for Self integrations", MIMEType: "text/markdown"},
	}
}

// ReadResource returns the text of a fixed or templated resource.
func (r *Router) ReadResource(uri string) (string, error) {
	switch uri {
	case ContractsURI:
		return r.deps.Catalog.Render(catalog.Resources, "contract-addresses", nil)
	case BestPracticesURI:
		return r.deps.Catalog.Render(catalog.Resources, "best-practices", nil)
	}

	if exampleType, ok := strings.CutPrefix(uri, ExamplesURIPrefix); ok {
		if err := validateExample(exampleType); err != nil {
			return "", err
		}
		return r.deps.Catalog.Render(catalog.Examples, exampleType, nil)
	}
	return "", apperr.InvalidParameter("uri", uri, []string{ContractsURI, BestPracticesURI, ExamplesURITemplate}, "unknown resource")
}

func validateExample(exampleType string) error {
	for _, t := range exampleTypes {
		if t == exampleType {
			return nil
		}
	}
	return apperr.InvalidParameter("example_type", exampleType, exampleTypes, "unknown example type")
}
