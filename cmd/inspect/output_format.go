package inspect

import "fmt"

// OutputFormat represents an output format type
type OutputFormat string

const (
	OutputFormatText OutputFormat = "text"
	OutputFormatJSON OutputFormat = "json"
	OutputFormatDOT  OutputFormat = "dot"
)

// String returns the string representation of the format
func (f OutputFormat) String() string {
	return string(f)
}

// ParseOutputFormat validates a --format value.
func ParseOutputFormat(value string) (OutputFormat, error) {
	switch f := OutputFormat(value); f {
	case OutputFormatText, OutputFormatJSON, OutputFormatDOT:
		return f, nil
	default:
		return "", fmt.Errorf("unknown format %q (want text, json or dot)", value)
	}
}
