package secrets

import (
	"errors"
	"fmt"
	"strings"
)

// Domain-specific errors for the secrets package.
var (
	// ErrMissing is matched by *MissingError.
	ErrMissing = errors.New("secrets: unresolved secrets")

	// ErrInvalidTable is returned when the secret table cannot be parsed.
	ErrInvalidTable = errors.New("secrets: invalid secret table")

	// ErrDuplicateKey is returned when the table defines a key twice.
	ErrDuplicateKey = errors.New("secrets: duplicate key")

	// ErrNoIdentity is returned when an encrypted table is given without an identity.
	ErrNoIdentity = errors.New("secrets: encrypted table requires an identity file")
)

// MissingError reports every secret key that was requested but not resolved.
type MissingError struct {
	Keys []string
}

func (e *MissingError) Error() string {
	return fmt.Sprintf("%d unresolved secret(s): %s", len(e.Keys), strings.Join(e.Keys, ", "))
}

// Is lets errors.Is(err, ErrMissing) match.
func (e *MissingError) Is(target error) bool {
	return target == ErrMissing
}
