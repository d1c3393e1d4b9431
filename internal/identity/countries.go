package identity

import (
	"sort"
	"strings"
)

// Country is a code and display name pair.
type Country struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// CountryName returns the display name for code, or code itself when unknown.
func CountryName(code string) string {
	if name, ok := countryNames[code]; ok {
		return name
	}
	return code
}

// Countries returns the known countries sorted by code. A non-empty search
// keeps only entries whose code or name contains it, ignoring case.
func Countries(search string) []Country {
	needle := strings.ToLower(strings.TrimSpace(search))

	out := make([]Country, 0, len(countryNames))
	for code, name := range countryNames {
		if needle != "" &&
			!strings.Contains(strings.ToLower(code), needle) &&
			!strings.Contains(strings.ToLower(name), needle) {
			continue
		}
		out = append(out, Country{Code: code, Name: name})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}
