package cli

import (
	"encoding/json"
	"io"
)

// WriteOutput encodes v as indented JSON, or as a single line with --jsonl.
func WriteOutput(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if !IsJSONLOutput() {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}
