package prompts

import (
	"errors"
	"strings"
	"text/template"

	"github.com/selfxyz/self-mcp/internal/apperr"
)

// Render applies args to every step and joins the resulting blocks with a
// blank line. Conditional steps are skipped when their argument is empty.
func (p *Prompt) Render(args map[string]string) (string, error) {
	data := make(map[string]string, len(args))
	for key, value := range args {
		data[key] = value
	}

	var missing []error
	for _, arg := range p.Arguments {
		if strings.TrimSpace(data[arg.Name]) != "" {
			continue
		}
		if arg.Default != "" {
			data[arg.Name] = arg.Default
			continue
		}
		if arg.Required {
			missing = append(missing, apperr.InvalidParameter(arg.Name, nil, nil, "is required"))
			continue
		}
		data[arg.Name] = ""
	}
	if len(missing) > 0 {
		return "", errors.Join(missing...)
	}

	blocks := make([]string, 0, len(p.Steps))
	for i, step := range p.Steps {
		if step.Type == StepTypeConditional && strings.TrimSpace(data[step.When]) == "" {
			continue
		}
		text, err := renderText(p.Name, step.Content, data)
		if err != nil {
			return "", apperr.InternalConsistency("render prompt %q step %d: %v", p.Name, i+1, err)
		}
		blocks = append(blocks, text)
	}
	return strings.Join(blocks, "\n\n"), nil
}

func renderText(name, body string, data map[string]string) (string, error) {
	tmpl, err := template.New(name).Option("missingkey=zero").Parse(body)
	if err != nil {
		return "", err
	}
	var out strings.Builder
	if err := tmpl.Execute(&out, data); err != nil {
		return "", err
	}
	return out.String(), nil
}

