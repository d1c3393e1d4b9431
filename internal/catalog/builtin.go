package catalog

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed builtin/*.yaml
var builtinFS embed.FS

// Load returns the catalog bundled with the binary.
func Load() (*Catalog, error) {
	return LoadFS(builtinFS, "builtin")
}

// LoadFS reads every .yaml file in dir and builds a catalog from it.
func LoadFS(fsys fs.FS, dir string) (*Catalog, error) {
	files, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("read catalog dir: %w", err)
	}

	c := &Catalog{categories: make(map[string]*Category)}
	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(file.Name(), ".yaml") {
			continue
		}
		data, err := fs.ReadFile(fsys, path.Join(dir, file.Name()))
		if err != nil {
			return nil, fmt.Errorf("read catalog file %s: %w", file.Name(), err)
		}
		cat, err := parseCategory(data)
		if err != nil {
			return nil, fmt.Errorf("parse catalog file %s: %w", file.Name(), err)
		}
		if _, exists := c.categories[cat.Name]; exists {
			return nil, fmt.Errorf("catalog category %q defined twice", cat.Name)
		}
		c.categories[cat.Name] = cat
	}

	return c, nil
}

func parseCategory(data []byte) (*Category, error) {
	var cat Category
	if err := yaml.Unmarshal(data, &cat); err != nil {
		return nil, err
	}

	cat.Name = strings.TrimSpace(cat.Name)
	if cat.Name == "" {
		return nil, fmt.Errorf("category name is required")
	}
	if len(cat.Entries) == 0 {
		return nil, fmt.Errorf("category %q has no entries", cat.Name)
	}

	cat.byKey = make(map[string]*Entry, len(cat.Entries))
	for i, entry := range cat.Entries {
		if entry == nil {
			return nil, fmt.Errorf("entry %d is empty", i)
		}
		entry.Key = strings.TrimSpace(entry.Key)
		if entry.Key == "" {
			return nil, fmt.Errorf("entry %d: key is required", i)
		}
		if _, exists := cat.byKey[entry.Key]; exists {
			return nil, fmt.Errorf("entry %q defined twice", entry.Key)
		}
		if strings.TrimSpace(entry.Body) == "" {
			return nil, fmt.Errorf("entry %q: body is required", entry.Key)
		}
		entry.Category = cat.Name
		if err := entry.compile(); err != nil {
			return nil, err
		}
		cat.byKey[entry.Key] = entry
	}

	return &cat, nil
}
