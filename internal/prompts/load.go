package prompts

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed builtin/*.yaml
var builtinFS embed.FS

// Set is an immutable collection of prompts keyed by name.
type Set struct {
	prompts []*Prompt
	byName  map[string]*Prompt
}

// Load returns the prompts bundled with the binary.
func Load() (*Set, error) {
	return LoadFS(builtinFS, "builtin")
}

// LoadFS parses every .yaml file in dir.
func LoadFS(fsys fs.FS, dir string) (*Set, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("read prompts dir: %w", err)
	}

	set := &Set{byName: make(map[string]*Prompt)}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		data, err := fs.ReadFile(fsys, path.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("read prompt %s: %w", entry.Name(), err)
		}
		p, err := parsePrompt(data)
		if err != nil {
			return nil, fmt.Errorf("parse prompt %s: %w", entry.Name(), err)
		}
		if _, exists := set.byName[p.Name]; exists {
			return nil, fmt.Errorf("duplicate prompt %q", p.Name)
		}
		set.byName[p.Name] = p
		set.prompts = append(set.prompts, p)
	}

	sort.Slice(set.prompts, func(i, j int) bool {
		return set.prompts[i].Name < set.prompts[j].Name
	})
	return set, nil
}

// All returns the prompts sorted by name.
func (s *Set) All() []*Prompt {
	out := make([]*Prompt, len(s.prompts))
	copy(out, s.prompts)
	return out
}

// Get returns the prompt with the given name.
func (s *Set) Get(name string) (*Prompt, bool) {
	p, ok := s.byName[name]
	return p, ok
}

// Names returns the prompt names sorted.
func (s *Set) Names() []string {
	names := make([]string, len(s.prompts))
	for i, p := range s.prompts {
		names[i] = p.Name
	}
	return names
}

func parsePrompt(data []byte) (*Prompt, error) {
	var p Prompt
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, err
	}

	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return nil, fmt.Errorf("prompt name is required")
	}
	p.Description = strings.TrimSpace(p.Description)
	if len(p.Steps) == 0 {
		return nil, fmt.Errorf("prompt steps are required")
	}

	seen := make(map[string]struct{})
	for i := range p.Arguments {
		name := strings.TrimSpace(p.Arguments[i].Name)
		if name == "" {
			return nil, fmt.Errorf("prompt argument name is required")
		}
		if _, exists := seen[name]; exists {
			return nil, fmt.Errorf("duplicate prompt argument %q", name)
		}
		seen[name] = struct{}{}
		p.Arguments[i].Name = name
	}

	for i := range p.Steps {
		if err := normalizeStep(&p.Steps[i], seen); err != nil {
			return nil, fmt.Errorf("prompt step %d: %w", i+1, err)
		}
	}
	return &p, nil
}

func normalizeStep(step *Step, args map[string]struct{}) error {
	step.Type = StepType(strings.ToLower(strings.TrimSpace(string(step.Type))))
	step.Content = strings.TrimSpace(step.Content)
	step.When = strings.TrimSpace(step.When)

	if step.Content == "" {
		return fmt.Errorf("step content is required")
	}

	switch step.Type {
	case StepTypeMessage:
	case StepTypeConditional:
		if step.When == "" {
			return fmt.Errorf("conditional when is required")
		}
		if _, ok := args[step.When]; !ok {
			return fmt.Errorf("conditional references unknown argument %q", step.When)
		}
	default:
		return fmt.Errorf("unknown step type %q", step.Type)
	}
	return nil
}
