package source

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"qv/internal/config"
)

// ErrFormatRequired marks a folder source resolved without a file format
// hint. It is raised before any data access.
var ErrFormatRequired = errors.New("file format required")

// remoteSchemes are the URI schemes handled by the engine's object-store
// support rather than the local filesystem.
var remoteSchemes = map[string]bool{
	"s3": true, "gs": true, "http": true, "https": true,
}

// Request is the transient description of one invocation's data source.
// It exists only for the duration of a single run.
type Request struct {
	// Locator is the normalized source: an absolute path for local
	// sources, the verbatim URI for remote ones.
	Locator string
	// Scheme is the URI scheme for remote sources, empty for local.
	Scheme string
	// Folder reports whether the locator names a collection of files.
	Folder bool
	// Format is the resolved format hint; may be empty for single files,
	// in which case the engine lets DuckDB sniff the content.
	Format Format
	// Query is the SQL text to execute, untouched.
	Query string
}

// Remote reports whether the source lives behind an object store or HTTP.
func (r Request) Remote() bool { return r.Scheme != "" }

// Resolve normalizes the raw locator and builds the query request.
// formatHint comes from --file-format and wins over defaultFormat from
// the config; both may be empty.
func Resolve(raw, formatHint, defaultFormat, query string) (Request, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Request{}, errors.New("source locator is empty")
	}

	format, err := ParseFormat(formatHint)
	if err != nil {
		return Request{}, err
	}
	if format == "" {
		if format, err = ParseFormat(defaultFormat); err != nil {
			return Request{}, err
		}
	}

	req := Request{Query: query, Format: format}

	if scheme := uriScheme(raw); remoteSchemes[scheme] {
		req.Locator = raw
		req.Scheme = scheme
		req.Folder = strings.HasSuffix(raw, "/") || strings.ContainsAny(raw, "*?[")
	} else {
		abs, err := config.ExpandPath(raw)
		if err != nil {
			return Request{}, err
		}
		req.Locator = abs
		if info, err := os.Stat(abs); err == nil && info.IsDir() {
			req.Folder = true
		}
	}

	if req.Format == "" {
		req.Format = InferFormat(req.Locator)
	}
	if req.Folder && req.Format == "" {
		return Request{}, fmt.Errorf("%w: %q is a folder source; pass --file-format", ErrFormatRequired, raw)
	}

	return req, nil
}

func uriScheme(raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return strings.ToLower(parsed.Scheme)
}
