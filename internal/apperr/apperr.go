// Package apperr defines the error taxonomy surfaced to protocol callers.
package apperr

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies an error for callers.
type Kind string

const (
	KindInvalidParameter    Kind = "invalid_parameter"
	KindUnknownOperation    Kind = "unknown_operation"
	KindNetwork             Kind = "network_error"
	KindInternalConsistency Kind = "internal_consistency"
	KindUnknown             Kind = "unknown"
)

// InvalidParameterError is returned when a caller-supplied value is missing,
// has the wrong type, or falls outside its closed set.
type InvalidParameterError struct {
	Param   string
	Value   any
	Allowed []string
	Message string
}

func (e *InvalidParameterError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "invalid parameter %q", e.Param)
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Value != nil {
		fmt.Fprintf(&b, " (got %v)", e.Value)
	}
	if len(e.Allowed) > 0 {
		fmt.Fprintf(&b, "; allowed: %s", strings.Join(quoteAll(e.Allowed), ", "))
	}
	return b.String()
}

// Kind implements Kinded.
func (e *InvalidParameterError) Kind() Kind { return KindInvalidParameter }

// UnknownOperationError is returned by the router for unregistered names.
type UnknownOperationError struct {
	Name      string
	Available []string
}

func (e *UnknownOperationError) Error() string {
	if len(e.Available) == 0 {
		return fmt.Sprintf("unknown operation %q", e.Name)
	}
	return fmt.Sprintf("unknown operation %q; available: %s", e.Name, strings.Join(e.Available, ", "))
}

// Kind implements Kinded.
func (e *UnknownOperationError) Kind() Kind { return KindUnknownOperation }

// NetworkError wraps a failed read-only external call.
type NetworkError struct {
	Target string // network name or host
	Op     string // contract method or document path
	Err    error
}

func (e *NetworkError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("network error (%s %s): %v", e.Target, e.Op, e.Err)
	}
	return fmt.Sprintf("network error (%s): %v", e.Target, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// Kind implements Kinded.
func (e *NetworkError) Kind() Kind { return KindNetwork }

// InternalConsistencyError signals a validated key with no backing entry.
type InternalConsistencyError struct {
	Message string
}

func (e *InternalConsistencyError) Error() string {
	return "internal consistency error: " + e.Message
}

// Kind implements Kinded.
func (e *InternalConsistencyError) Kind() Kind { return KindInternalConsistency }

// Kinded is implemented by every error in the taxonomy.
type Kinded interface {
	error
	Kind() Kind
}

// InvalidParameter builds an InvalidParameterError.
func InvalidParameter(param string, value any, allowed []string, format string, args ...any) error {
	return &InvalidParameterError{
		Param:   param,
		Value:   value,
		Allowed: allowed,
		Message: fmt.Sprintf(format, args...),
	}
}

// Network wraps err as a NetworkError. A nil err stays nil.
func Network(target, op string, err error) error {
	if err == nil {
		return nil
	}
	var existing *NetworkError
	if errors.As(err, &existing) {
		return err
	}
	return &NetworkError{Target: target, Op: op, Err: err}
}

// InternalConsistency builds an InternalConsistencyError.
func InternalConsistency(format string, args ...any) error {
	return &InternalConsistencyError{Message: fmt.Sprintf(format, args...)}
}

// KindOf reports the taxonomy kind of err, searching wrapped and joined errors.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var kinded Kinded
	if errors.As(err, &kinded) {
		return kinded.Kind()
	}
	return KindUnknown
}

func quoteAll(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = fmt.Sprintf("%q", v)
	}
	return out
}
