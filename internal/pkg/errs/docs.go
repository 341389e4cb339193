// Package errs provides the typed error taxonomy shared by the receiving service.
//
// The package includes:
//   - ValueIsRequiredError, ValueIsInvalidError, ValueIsOutOfRangeError: structural validation failures
//   - ObjectNotFoundError, ObjectAlreadyExistsError: lookup and uniqueness failures
//   - AlreadyInStateError, TransitionDeniedError: state machine refusals
//   - CapturingConflictError: a capture request that cannot be booked
//   - NotApprovedError: a capture rejected by an approval policy
//
// Each error type follows the same pattern:
//   - A sentinel error variable (e.g., ErrValueIsRequired)
//   - A struct type with fields for error details
//   - Constructor functions with and without cause where a cause makes sense
//   - Error() for the message and Unwrap() returning the sentinel
//
// Adapters map the sentinels to transport status codes; the core never inspects
// error strings.
package errs
