package docs

import "strings"

// Topic maps a short name to a markdown file in the docs repository.
type Topic struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

var topics = []Topic{
	{Name: "quickstart", Path: "use-self/quickstart.md"},
	{Name: "overview", Path: "README.md"},
	{Name: "disclosures", Path: "use-self/disclosures.md"},
	{Name: "deeplinking", Path: "use-self/use-deeplinking.md"},
	{Name: "mock-passports", Path: "use-self/using-mock-passports.md"},

	{Name: "backend-sdk", Path: "sdk-reference/selfbackendverifier.md"},
	{Name: "frontend-sdk", Path: "sdk-reference/selfqrcodewrapper.md"},
	{Name: "self-app-builder", Path: "sdk-reference/selfappbuilder.md"},

	{Name: "contracts", Path: "contract-integration/basic-integration.md"},
	{Name: "deployed-contracts", Path: "contract-integration/deployed-contracts.md"},
	{Name: "airdrop-example", Path: "contract-integration/airdrop-example.md"},
	{Name: "happy-birthday-example", Path: "contract-integration/happy-birthday-example.md"},
	{Name: "passport-attributes", Path: "contract-integration/utilize-passport-attributes.md"},
	{Name: "frontend-configuration", Path: "contract-integration/frontend-configuration.md"},
}

// Topics returns the known documentation topics in display order.
func Topics() []Topic {
	out := make([]Topic, len(topics))
	copy(out, topics)
	return out
}

// TopicNames returns the topic names in display order.
func TopicNames() []string {
	names := make([]string, len(topics))
	for i, t := range topics {
		names[i] = t.Name
	}
	return names
}

// LookupTopic resolves a topic by name.
func LookupTopic(name string) (Topic, bool) {
	for _, t := range topics {
		if t.Name == name {
			return t, true
		}
	}
	return Topic{}, false
}

// Title renders the topic name for headings, e.g. "backend-sdk" -> "Backend Sdk".
func (t Topic) Title() string {
	return titleWords(t.Name)
}

// Category is the title-cased top-level directory of the topic path.
func (t Topic) Category() string {
	dir, _, found := strings.Cut(t.Path, "/")
	if !found {
		return "General"
	}
	return titleWords(dir)
}

func titleWords(s string) string {
	words := strings.Fields(strings.ReplaceAll(s, "-", " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}
