// Package prompts provides the guided prompt flows offered to MCP clients.
package prompts

// Prompt is a named flow rendered from an ordered list of steps.
type Prompt struct {
	Name        string     `yaml:"name"`
	Description string     `yaml:"description"`
	Arguments   []Argument `yaml:"arguments,omitempty"`
	Steps       []Step     `yaml:"steps"`
}

// Argument describes a caller-supplied prompt argument.
type Argument struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Default     string `yaml:"default,omitempty"`
	Required    bool   `yaml:"required"`
}

// Step is a single block of prompt text.
type Step struct {
	Type    StepType `yaml:"type"`
	Content string   `yaml:"content"`
	// When names an argument that must be non-empty for a conditional step.
	When string `yaml:"when,omitempty"`
}

// StepType defines the kind of step.
type StepType string

const (
	StepTypeMessage     StepType = "message"
	StepTypeConditional StepType = "conditional"
)
