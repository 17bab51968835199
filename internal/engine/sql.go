package engine

import (
	"path/filepath"
	"strings"

	"qv/internal/source"
)

// tableName is the identifier the source is registered under. Quoted in
// DDL because TABLE is a reserved word.
const tableName = "table"

// DefaultQuery is the query used when the user supplies none.
const DefaultQuery = `SELECT * FROM "table"`

// quoteLiteral renders s as a SQL string literal.
func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// readerExpr returns the DuckDB table expression that reads the request's
// source: a format-specific reader function, or a bare path literal for
// single files of unknown format (DuckDB sniffs the content).
func readerExpr(req source.Request) string {
	pattern := sourcePattern(req)
	literal := quoteLiteral(pattern)

	switch req.Format {
	case source.FormatParquet:
		return "read_parquet(" + literal + ")"
	case source.FormatCSV:
		return "read_csv(" + literal + ")"
	case source.FormatTSV:
		return "read_csv(" + literal + ", delim='\t')"
	case source.FormatJSON:
		return "read_json_auto(" + literal + ")"
	default:
		return literal
	}
}

// sourcePattern expands folder locators into a glob over the expected
// extension. Locators that already carry a glob pass through verbatim.
func sourcePattern(req source.Request) string {
	if !req.Folder || strings.ContainsAny(req.Locator, "*?[") {
		return req.Locator
	}
	glob := "*." + req.Format.Extension()
	if req.Remote() {
		return strings.TrimSuffix(req.Locator, "/") + "/" + glob
	}
	return filepath.Join(req.Locator, glob)
}

// viewDDL registers the source under the canonical table name.
func viewDDL(req source.Request) string {
	return `CREATE OR REPLACE VIEW "` + tableName + `" AS SELECT * FROM ` + readerExpr(req)
}

// copySQL wraps the user query in a COPY that materializes the result as
// Parquet. Trailing semicolons are stripped so the query nests cleanly.
func copySQL(query, outPath string) string {
	trimmed := strings.TrimRight(strings.TrimSpace(query), "; \t\n")
	return "COPY (" + trimmed + ") TO " + quoteLiteral(outPath) + " (FORMAT parquet)"
}
