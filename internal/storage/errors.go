package storage

import (
	"errors"
	"fmt"
)

// ErrStoreClosed is wrapped by every operation attempted after Close.
var ErrStoreClosed = errors.New("store is closed")

// StoreError is the single failure kind of the ledger store. Op names the
// operation that failed; Err is the underlying engine error.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("ledger store: %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func storeErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StoreError{Op: op, Err: err}
}

// IsStoreError reports whether err carries a StoreError anywhere in its chain.
func IsStoreError(err error) bool {
	var se *StoreError
	return errors.As(err, &se)
}
