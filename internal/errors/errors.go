package errors

import "errors"

// Source errors indicate the input file cannot provide the required data.
var (
	// ErrSourceNotFound indicates the input file could not be opened.
	ErrSourceNotFound = errors.New("source file not found")

	// ErrPrimaryMissing indicates the primary declaration could not be extracted.
	ErrPrimaryMissing = errors.New("primary declaration could not be extracted")
)

// Credential errors.
var (
	// ErrEmptyPassphrase indicates the operator entered an empty password.
	ErrEmptyPassphrase = errors.New("password cannot be empty")
)

// Cryptographic errors indicate failures during sealing or opening.
var (
	// ErrKeyDerivation indicates the password-based key could not be derived.
	ErrKeyDerivation = errors.New("failed to derive key")

	// ErrEncryptFailed indicates the cipher could not seal the payload.
	ErrEncryptFailed = errors.New("failed to encrypt payload")

	// ErrDecryptFailed indicates tag verification failed: wrong password or
	// tampered data.
	ErrDecryptFailed = errors.New("failed to decrypt payload")
)

// Format errors indicate malformed inputs to the tool itself.
var (
	// ErrInvalidContainer indicates the encrypted container is malformed.
	ErrInvalidContainer = errors.New("invalid encrypted container")

	// ErrInvalidConfig indicates the run configuration is malformed.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrInvalidParams indicates unusable cryptographic parameters.
	ErrInvalidParams = errors.New("invalid cryptographic parameters")
)
