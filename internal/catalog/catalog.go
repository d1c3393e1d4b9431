// Package catalog holds the static integration content served by the assistant:
// guides, code snippets, error solutions and the other keyed text bodies.
package catalog

import (
	"sort"
	"text/template"

	"github.com/selfxyz/self-mcp/internal/apperr"
)

// Category names bundled with the server.
const (
	Guides     = "guides"
	Code       = "code"
	EUID       = "euid"
	SDK        = "sdk"
	Errors     = "errors"
	Examples   = "examples"
	Resources  = "resources"
	ToolsGuide = "toolsguide"
	Status     = "status"
	Config     = "config"
)

// Entry is a single keyed body of text.
type Entry struct {
	Key         string     `yaml:"key"`
	Title       string     `yaml:"title"`
	Description string     `yaml:"description,omitempty"`
	Problem     string     `yaml:"problem,omitempty"`
	Related     []string   `yaml:"related,omitempty"`
	Variables   []Variable `yaml:"variables,omitempty"`
	Body        string     `yaml:"body"`
	Category    string     `yaml:"-"`

	tmpl *template.Template
}

// Variable describes a placeholder used in an entry body.
type Variable struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
	Default     string `yaml:"default,omitempty"`
	Required    bool   `yaml:"required"`
}

// Category groups entries loaded from one file. Entries keep file order.
type Category struct {
	Name        string   `yaml:"category"`
	Description string   `yaml:"description"`
	Entries     []*Entry `yaml:"entries"`

	byKey map[string]*Entry
}

// Catalog is an immutable set of categories. It is safe for concurrent use.
type Catalog struct {
	categories map[string]*Category
}

// Categories returns the category names in sorted order.
func (c *Catalog) Categories() []string {
	names := make([]string, 0, len(c.categories))
	for name := range c.categories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Category returns a category by name.
func (c *Catalog) Category(name string) (*Category, error) {
	cat, ok := c.categories[name]
	if !ok {
		return nil, apperr.InternalConsistency("catalog has no category %q", name)
	}
	return cat, nil
}

// Entries returns the entries of a category in file order.
func (c *Catalog) Entries(category string) ([]*Entry, error) {
	cat, err := c.Category(category)
	if err != nil {
		return nil, err
	}
	out := make([]*Entry, len(cat.Entries))
	copy(out, cat.Entries)
	return out, nil
}

// Lookup returns the entry stored under category/key. A missing entry means
// the router accepted a value the catalog cannot serve, which is reported as
// an internal consistency error rather than a caller mistake.
func (c *Catalog) Lookup(category, key string) (*Entry, error) {
	cat, err := c.Category(category)
	if err != nil {
		return nil, err
	}
	entry, ok := cat.byKey[key]
	if !ok {
		return nil, apperr.InternalConsistency("catalog %s has no entry %q", category, key)
	}
	return entry, nil
}

// Render looks up category/key and renders it with vars.
func (c *Catalog) Render(category, key string, vars map[string]string) (string, error) {
	entry, err := c.Lookup(category, key)
	if err != nil {
		return "", err
	}
	return entry.Render(vars)
}
