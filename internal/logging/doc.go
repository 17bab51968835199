// Package logging constructs the slog loggers used across qv.
//
// Diagnostics always go to stderr so stdout stays reserved for command
// output and the viewer hand-off. The console format is a compact
// key=value line prefixed with the component name; the json format is
// slog's JSON handler with normalized field names.
package logging
