package catalog

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/selfxyz/self-mcp/internal/apperr"
)

func (e *Entry) compile() error {
	parsed, err := template.New(e.Category + "/" + e.Key).
		Option("missingkey=zero").
		Parse(e.Body)
	if err != nil {
		return fmt.Errorf("parse entry %q: %w", e.Key, err)
	}
	e.tmpl = parsed
	return nil
}

// Render substitutes vars into the entry body. Unset variables fall back to
// their declared defaults; a missing required variable is an error.
func (e *Entry) Render(vars map[string]string) (string, error) {
	if e.tmpl == nil {
		if err := e.compile(); err != nil {
			return "", apperr.InternalConsistency("%v", err)
		}
	}

	data := make(map[string]string, len(vars)+len(e.Variables))
	for key, value := range vars {
		data[key] = value
	}

	for _, variable := range e.Variables {
		value := strings.TrimSpace(data[variable.Name])
		if value != "" {
			continue
		}
		if variable.Default != "" {
			data[variable.Name] = variable.Default
			continue
		}
		if variable.Required {
			return "", apperr.InternalConsistency("entry %s/%s: missing required variable %q", e.Category, e.Key, variable.Name)
		}
		data[variable.Name] = ""
	}

	var out strings.Builder
	if err := e.tmpl.Execute(&out, data); err != nil {
		return "", apperr.InternalConsistency("render entry %s/%s: %v", e.Category, e.Key, err)
	}

	return strings.TrimRight(out.String(), "\n"), nil
}
