package main

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"

	"gopkg.in/yaml.v3"
)

// Output formats shared by the non-interactive commands.
const (
	formatPlain = "plain"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

var outputFormats = []string{formatPlain, formatJSON, formatYAML}

// writeOutput writes v as JSON or YAML, or calls plain for the plain format.
func writeOutput(w io.Writer, format string, v any, plain func(io.Writer) error) error {
	switch format {
	case formatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(v)
	case formatYAML:
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(v); err != nil {
			return err
		}
		return encoder.Close()
	case formatPlain, "":
		return plain(w)
	default:
		return fmt.Errorf("unknown format %q, must be one of: %v", format, outputFormats)
	}
}

func validFormat(format string) bool {
	return slices.Contains(outputFormats, format)
}
