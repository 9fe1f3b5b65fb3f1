package crypto

import (
	"fmt"

	"github.com/pkg/errors"
)

// Sentinel errors returned by key generation and pipeline construction.
var (
	// ErrInvalidKeySpec is returned when a key spec violates a capability
	// constraint, e.g. a master key spec without the certify flag.
	ErrInvalidKeySpec = errors.New("pgpseal: invalid key spec")

	// ErrNoEncryptionKey is returned when a recipient key ring contains
	// no encryption-capable key.
	ErrNoEncryptionKey = errors.New("pgpseal: no encryption key found in key ring")

	// ErrUnsupportedAlgorithm is returned for unknown or unusable
	// algorithm codes.
	ErrUnsupportedAlgorithm = errors.New("pgpseal: unsupported algorithm")
)

// KeyGenerationError wraps a primitive-layer failure during key ring
// generation. Partial key rings are never returned alongside it.
type KeyGenerationError struct {
	Err error
}

func (e *KeyGenerationError) Error() string {
	return fmt.Sprintf("pgpseal: key generation failed: %v", e.Err)
}

func (e *KeyGenerationError) Unwrap() error {
	return e.Err
}

// SigningKeyNotFoundError is returned when no secret key ring matches
// the configured user id selector.
type SigningKeyNotFoundError struct {
	Selector string
}

func (e *SigningKeyNotFoundError) Error() string {
	return fmt.Sprintf("pgpseal: no secret key ring found for user id %q", e.Selector)
}

// AmbiguousSigningKeyError is returned when more than one secret key
// ring matches the configured user id selector. The first match is
// never silently chosen.
type AmbiguousSigningKeyError struct {
	Selector string
	Matches  int
}

func (e *AmbiguousSigningKeyError) Error() string {
	return fmt.Sprintf("pgpseal: %d secret key rings match user id %q", e.Matches, e.Selector)
}

// PassphraseError is returned when a passphrase cannot unlock a
// secret key.
type PassphraseError struct {
	Err error
}

func (e *PassphraseError) Error() string {
	return fmt.Sprintf("pgpseal: unable to unlock secret key: %v", e.Err)
}

func (e *PassphraseError) Unwrap() error {
	return e.Err
}
