package usecase

import (
	"fmt"

	crerr "github.com/cockroachdb/errors"
)

var (
	ErrInvalidInput          = crerr.New("invalid input")
	ErrNotFound              = crerr.New("resource not found")
	ErrDependencyUnavailable = crerr.New("dependency unavailable")
	// ErrTransientFetch marks provider failures that survived the client's
	// bounded retries.
	ErrTransientFetch = crerr.New("transient fetch failure")
	// ErrPersistence marks storage failures; they abort a sync batch without
	// advancing the watermark.
	ErrPersistence = crerr.New("persistence failure")
)

// markTransient and markPersistence wrap both the class and the cause, so
// errors.Is matches either one.
func markTransient(err error) error {
	return classify(ErrTransientFetch, err)
}

func markPersistence(err error) error {
	return classify(ErrPersistence, err)
}

func classify(class, err error) error {
	if err == nil || crerr.Is(err, class) {
		return err
	}
	return fmt.Errorf("%w: %w", class, err)
}
