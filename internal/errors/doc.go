// Package errors provides typed error values for cfgseal.
//
// Callers match conditions with errors.Is rather than comparing strings.
// Lower layers wrap these sentinels with context; the CLI maps them to
// user-facing messages.
//
// # Error Categories
//
//   - Source errors: the input file or its primary declaration is unusable
//     (ErrSourceNotFound, ErrPrimaryMissing)
//   - Credential errors: the operator cancelled the prompt (ErrEmptyPassphrase)
//   - Crypto errors: key derivation or cipher failures (ErrKeyDerivation,
//     ErrEncryptFailed, ErrDecryptFailed)
//   - Format errors: malformed containers or configuration
//     (ErrInvalidContainer, ErrInvalidConfig, ErrInvalidParams)
package errors
