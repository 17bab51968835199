package engine

import (
	"errors"
	"fmt"
)

// ErrExecution marks query failures: bad SQL, unreachable sources, and
// reader errors. The underlying engine message is preserved for the user.
var ErrExecution = errors.New("query execution error")

func wrapExec(operation string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrExecution, operation, err)
}
