// Package validate checks operation arguments against declared parameter
// schemas and closed enumeration sets.
package validate

import (
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/selfxyz/self-mcp/internal/apperr"
)

// Type is the primitive type of a parameter.
type Type string

const (
	TypeString     Type = "string"
	TypeInt        Type = "integer"
	TypeBool       Type = "boolean"
	TypeStringList Type = "string_list"
	TypeBoolList   Type = "boolean_list"
	TypeObject     Type = "object"
	// TypeStringOrBool accepts either a string or a boolean and keeps
	// whichever was supplied.
	TypeStringOrBool Type = "string_or_boolean"
)

// Param declares one operation parameter.
type Param struct {
	Name        string
	Type        Type
	Description string
	Required    bool
	Enum        []string // closed set, string params only
	Default     any
	Min         *int
	Max         *int
}

// Apply validates raw against params and returns normalized arguments with
// defaults filled in. Only a missing or null value counts as absent; strings
// are kept exactly as supplied. Every parameter is checked and all violations
// are joined. Arguments not declared in params are dropped.
func Apply(params []Param, raw map[string]any) (Args, error) {
	out := make(Args, len(params))
	var errs []error

	for _, p := range params {
		value, present := raw[p.Name]
		if !present || value == nil {
			if p.Required {
				errs = append(errs, apperr.InvalidParameter(p.Name, nil, p.Enum, "is required"))
				continue
			}
			if p.Default != nil {
				out[p.Name] = p.Default
			}
			continue
		}

		if p.Required && len(p.Enum) == 0 && value == "" {
			errs = append(errs, apperr.InvalidParameter(p.Name, nil, nil, "is required"))
			continue
		}

		normalized, err := coerce(p, value)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if err := checkConstraints(p, normalized); err != nil {
			errs = append(errs, err)
			continue
		}
		out[p.Name] = normalized
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return out, nil
}

// OneOf checks value against a closed set. It is used for cross-field checks
// where the allowed set depends on another argument.
func OneOf(param, value string, allowed []string) error {
	for _, v := range allowed {
		if v == value {
			return nil
		}
	}
	return apperr.InvalidParameter(param, value, allowed, "value is not in the allowed set")
}

func coerce(p Param, value any) (any, error) {
	switch p.Type {
	case TypeString:
		s, ok := value.(string)
		if !ok {
			return nil, typeError(p, value)
		}
		return s, nil

	case TypeStringOrBool:
		switch v := value.(type) {
		case string, bool:
			return v, nil
		default:
			return nil, typeError(p, value)
		}

	case TypeInt:
		n, ok := toInt(value)
		if !ok {
			return nil, typeError(p, value)
		}
		return n, nil

	case TypeBool:
		b, ok := toBool(value)
		if !ok {
			return nil, typeError(p, value)
		}
		return b, nil

	case TypeStringList:
		items, ok := toList(value)
		if !ok {
			return nil, typeError(p, value)
		}
		out := make([]string, 0, len(items))
		for _, item := range items {
			s, ok := item.(string)
			if !ok {
				return nil, typeError(p, value)
			}
			out = append(out, s)
		}
		return out, nil

	case TypeBoolList:
		items, ok := toList(value)
		if !ok {
			return nil, typeError(p, value)
		}
		out := make([]bool, 0, len(items))
		for _, item := range items {
			b, ok := toBool(item)
			if !ok {
				return nil, typeError(p, value)
			}
			out = append(out, b)
		}
		return out, nil

	case TypeObject:
		switch v := value.(type) {
		case map[string]any:
			return v, nil
		case string:
			var obj map[string]any
			if err := json.Unmarshal([]byte(v), &obj); err != nil {
				return nil, typeError(p, value)
			}
			return obj, nil
		default:
			return nil, typeError(p, value)
		}

	default:
		return nil, apperr.InternalConsistency("parameter %q has unknown type %q", p.Name, p.Type)
	}
}

func checkConstraints(p Param, value any) error {
	if len(p.Enum) > 0 {
		if s, ok := value.(string); ok {
			if err := OneOf(p.Name, s, p.Enum); err != nil {
				return err
			}
		}
	}
	if n, ok := value.(int); ok {
		if p.Min != nil && n < *p.Min {
			return apperr.InvalidParameter(p.Name, n, nil, "must be at least %d", *p.Min)
		}
		if p.Max != nil && n > *p.Max {
			return apperr.InvalidParameter(p.Name, n, nil, "must be at most %d", *p.Max)
		}
	}
	return nil
}

func typeError(p Param, value any) error {
	return apperr.InvalidParameter(p.Name, value, p.Enum, "expected %s", describeType(p.Type))
}

func describeType(t Type) string {
	switch t {
	case TypeStringList:
		return "a list of strings"
	case TypeBoolList:
		return "a list of booleans"
	case TypeObject:
		return "an object"
	case TypeInt:
		return "an integer"
	case TypeBool:
		return "a boolean"
	case TypeStringOrBool:
		return "a string or a boolean"
	default:
		return "a string"
	}
}

func toInt(value any) (int, bool) {
	switch v := value.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		if v != math.Trunc(v) || math.IsInf(v, 0) || math.IsNaN(v) {
			return 0, false
		}
		return int(v), true
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0, false
		}
		return int(n), true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

func toBool(value any) (bool, bool) {
	switch v := value.(type) {
	case bool:
		return v, true
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return false, false
		}
		return b, true
	default:
		return false, false
	}
}

// toList accepts JSON arrays and comma-separated strings from the CLI.
func toList(value any) ([]any, bool) {
	switch v := value.(type) {
	case []any:
		return v, true
	case []string:
		out := make([]any, len(v))
		for i, s := range v {
			out[i] = s
		}
		return out, true
	case []bool:
		out := make([]any, len(v))
		for i, b := range v {
			out[i] = b
		}
		return out, true
	case string:
		if strings.TrimSpace(v) == "" {
			return []any{}, true
		}
		parts := strings.Split(v, ",")
		out := make([]any, 0, len(parts))
		for _, part := range parts {
			out = append(out, strings.TrimSpace(part))
		}
		return out, true
	default:
		return nil, false
	}
}
