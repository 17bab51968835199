package source

import (
	"fmt"
	"path"
	"strings"
)

// Format identifies the tabular file format of a source.
type Format string

const (
	FormatParquet Format = "parquet"
	FormatCSV     Format = "csv"
	FormatTSV     Format = "tsv"
	FormatJSON    Format = "json"
)

// ParseFormat validates a user-supplied format name. Empty input is
// allowed and returns the zero Format.
func ParseFormat(value string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "":
		return "", nil
	case "parquet", "pq":
		return FormatParquet, nil
	case "csv":
		return FormatCSV, nil
	case "tsv", "tab":
		return FormatTSV, nil
	case "json", "jsonl", "ndjson":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unsupported file format %q (expected parquet, csv, tsv, or json)", value)
	}
}

// compression suffixes DuckDB reads transparently; peeled before the
// format extension is inspected.
var compressionExts = map[string]bool{".gz": true, ".zst": true}

// InferFormat guesses the format from the locator's extension. Returns
// the zero Format when the extension is unknown.
func InferFormat(locator string) Format {
	name := path.Base(strings.TrimSuffix(locator, "/"))
	ext := strings.ToLower(path.Ext(name))
	if compressionExts[ext] {
		name = strings.TrimSuffix(name, ext)
		ext = strings.ToLower(path.Ext(name))
	}

	switch ext {
	case ".parquet", ".pq":
		return FormatParquet
	case ".csv":
		return FormatCSV
	case ".tsv", ".tab":
		return FormatTSV
	case ".json", ".jsonl", ".ndjson":
		return FormatJSON
	default:
		return ""
	}
}

// Extension returns the filename extension conventionally used for the
// format, without the leading dot.
func (f Format) Extension() string {
	switch f {
	case FormatParquet:
		return "parquet"
	case FormatCSV:
		return "csv"
	case FormatTSV:
		return "tsv"
	case FormatJSON:
		return "json"
	default:
		return ""
	}
}
