package cashflow

import (
	"errors"
	"fmt"
)

var (
	// ErrNotAuthorized is returned when the user has no stored aggregator credential.
	ErrNotAuthorized = errors.New("user has not linked an institution")

	// ErrPaginationStalled is returned when paging stops making progress
	// before the reported total is reached.
	ErrPaginationStalled = errors.New("transaction pagination stalled")
)

// DataIntegrityError reports a transaction record the aggregator returned without a required field.
type DataIntegrityError struct {
	TransactionID string
	Field         string
}

func (e *DataIntegrityError) Error() string {
	return fmt.Sprintf("transaction %q is missing %s", e.TransactionID, e.Field)
}

// temporary is implemented by upstream errors that know whether a retry can succeed.
type temporary interface {
	Temporary() bool
}

func isTemporary(err error) bool {
	var t temporary
	return errors.As(err, &t) && t.Temporary()
}
