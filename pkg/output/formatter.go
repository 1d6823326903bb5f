package output

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/RyanBlaney/songsim/internal/library"
	"github.com/RyanBlaney/songsim/internal/ranking"
)

// Formatter renders result data for terminal or file output
type Formatter interface {
	Format(data any) ([]byte, error)
}

// NewFormatter returns the formatter for the given output format name.
// Unknown names fall back to the table formatter.
func NewFormatter(format string) Formatter {
	switch format {
	case "json":
		return &JSONFormatter{}
	case "yaml":
		return &YAMLFormatter{}
	default:
		return &TableFormatter{}
	}
}

// JSONFormatter renders indented JSON
type JSONFormatter struct{}

func (f *JSONFormatter) Format(data any) ([]byte, error) {
	out, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON output: %w", err)
	}
	return append(out, '\n'), nil
}

// YAMLFormatter renders YAML
type YAMLFormatter struct{}

func (f *YAMLFormatter) Format(data any) ([]byte, error) {
	out, err := yaml.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal YAML output: %w", err)
	}
	return out, nil
}

// TableFormatter renders human-readable text for the known result types
type TableFormatter struct{}

func (f *TableFormatter) Format(data any) ([]byte, error) {
	var buf bytes.Buffer

	switch v := data.(type) {
	case []ranking.RankedMatch:
		if len(v) == 0 {
			buf.WriteString("No matches found.\n")
			break
		}
		buf.WriteString("Top similar songs:\n")
		for _, m := range v {
			fmt.Fprintf(&buf, "%s: Similarity = %.2f\n", m.Name, m.Score)
		}
	case *library.BuildReport:
		fmt.Fprintf(&buf, "Database built successfully in %.2f seconds!\n", v.Elapsed.Seconds())
		fmt.Fprintf(&buf, "Songs processed: %d", v.Processed)
		if v.Skipped > 0 {
			fmt.Fprintf(&buf, " (skipped: %d)", v.Skipped)
		}
		fmt.Fprintf(&buf, "\nDatabase: %s\n", v.DatabasePath)
	default:
		fmt.Fprintf(&buf, "%v\n", v)
	}

	return buf.Bytes(), nil
}
