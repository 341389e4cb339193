package errs

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors. Every typed error below unwraps to exactly one of them so that
// callers can classify failures with errors.Is.
var (
	ErrObjectNotFound      = errors.New("object not found")
	ErrObjectAlreadyExists = errors.New("object already exists")
	ErrValueIsInvalid      = errors.New("value is invalid")
	ErrValueIsOutOfRange   = errors.New("value is out of range")
	ErrValueIsRequired     = errors.New("value is required")
	ErrAlreadyInState      = errors.New("object is already in state")
	ErrTransitionDenied    = errors.New("transition denied")
	ErrCapturingConflict   = errors.New("capturing conflict")
	ErrNotApproved         = errors.New("not approved")
)

func sanitize(v any) string {
	return strings.ReplaceAll(fmt.Sprintf("%v", v), "\n", " ")
}

func withCause(msg string, cause error) string {
	if cause == nil {
		return msg
	}
	return fmt.Sprintf("%s (cause: %v)", msg, cause)
}

// ObjectNotFoundError reports that an object addressed by an identifier does not exist.
type ObjectNotFoundError struct {
	ParamName string
	ID        any
	Cause     error
}

func NewObjectNotFoundError(paramName string, id any) *ObjectNotFoundError {
	return &ObjectNotFoundError{ParamName: paramName, ID: id}
}

func NewObjectNotFoundErrorWithCause(paramName string, id any, cause error) *ObjectNotFoundError {
	return &ObjectNotFoundError{ParamName: paramName, ID: id, Cause: cause}
}

func (e *ObjectNotFoundError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: param is: %s, ID is: %v (cause: %v)",
			ErrObjectNotFound.Error(), e.ParamName, e.ID, e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrObjectNotFound.Error(), e.ID)
}

func (e *ObjectNotFoundError) Unwrap() error {
	return ErrObjectNotFound
}

// ObjectAlreadyExistsError reports a violated uniqueness constraint.
type ObjectAlreadyExistsError struct {
	ParamName string
	ID        any
}

func NewObjectAlreadyExistsError(paramName string, id any) *ObjectAlreadyExistsError {
	return &ObjectAlreadyExistsError{ParamName: paramName, ID: id}
}

func (e *ObjectAlreadyExistsError) Error() string {
	return fmt.Sprintf("%s: param is: %s, ID is: %v", ErrObjectAlreadyExists.Error(), e.ParamName, e.ID)
}

func (e *ObjectAlreadyExistsError) Unwrap() error {
	return ErrObjectAlreadyExists
}

// ValueIsInvalidError reports a value that is present but unacceptable.
type ValueIsInvalidError struct {
	ParamName string
	Cause     error
}

func NewValueIsInvalidError(paramName string) *ValueIsInvalidError {
	return &ValueIsInvalidError{ParamName: paramName}
}

func NewValueIsInvalidErrorWithCause(paramName string, cause error) *ValueIsInvalidError {
	return &ValueIsInvalidError{ParamName: paramName, Cause: cause}
}

func (e *ValueIsInvalidError) Error() string {
	return withCause(fmt.Sprintf("%s: %s", ErrValueIsInvalid.Error(), e.ParamName), e.Cause)
}

func (e *ValueIsInvalidError) Unwrap() error {
	return ErrValueIsInvalid
}

// ValueIsOutOfRangeError reports a value outside of [Min, Max].
type ValueIsOutOfRangeError struct {
	ParamName string
	Value     any
	Min       any
	Max       any
	Cause     error
}

func NewValueIsOutOfRangeError(paramName string, value, minValue, maxValue any) *ValueIsOutOfRangeError {
	return &ValueIsOutOfRangeError{ParamName: paramName, Value: value, Min: minValue, Max: maxValue}
}

func NewValueIsOutOfRangeErrorWithCause(
	paramName string,
	value, minValue, maxValue any,
	cause error,
) *ValueIsOutOfRangeError {
	return &ValueIsOutOfRangeError{ParamName: paramName, Value: value, Min: minValue, Max: maxValue, Cause: cause}
}

func (e *ValueIsOutOfRangeError) Error() string {
	msg := fmt.Sprintf("%s: %s is %s, min value is %s, max value is %s",
		ErrValueIsInvalid.Error(), sanitize(e.Value), e.ParamName, sanitize(e.Min), sanitize(e.Max))
	return withCause(msg, e.Cause)
}

func (e *ValueIsOutOfRangeError) Unwrap() error {
	return ErrValueIsOutOfRange
}

// ValueIsRequiredError reports a missing mandatory value.
type ValueIsRequiredError struct {
	ParamName string
	Cause     error
}

func NewValueIsRequiredError(paramName string) *ValueIsRequiredError {
	return &ValueIsRequiredError{ParamName: paramName}
}

func NewValueIsRequiredErrorWithCause(paramName string, cause error) *ValueIsRequiredError {
	return &ValueIsRequiredError{ParamName: paramName, Cause: cause}
}

func (e *ValueIsRequiredError) Error() string {
	return withCause(fmt.Sprintf("%s: %s", ErrValueIsRequired.Error(), e.ParamName), e.Cause)
}

func (e *ValueIsRequiredError) Unwrap() error {
	return ErrValueIsRequired
}

// AlreadyInStateError reports a request to move an object into the state it already has.
type AlreadyInStateError struct {
	Object string
	ID     any
	State  fmt.Stringer
}

func NewAlreadyInStateError(object string, id any, state fmt.Stringer) *AlreadyInStateError {
	return &AlreadyInStateError{Object: object, ID: id, State: state}
}

func (e *AlreadyInStateError) Error() string {
	return fmt.Sprintf("%s: %s %v is %s", ErrAlreadyInState.Error(), e.Object, e.ID, e.State)
}

func (e *AlreadyInStateError) Unwrap() error {
	return ErrAlreadyInState
}

// TransitionDeniedError reports an action that the current state of an object forbids.
type TransitionDeniedError struct {
	Action string
	Object string
	ID     any
	State  fmt.Stringer
}

func NewTransitionDeniedError(action, object string, id any, state fmt.Stringer) *TransitionDeniedError {
	return &TransitionDeniedError{Action: action, Object: object, ID: id, State: state}
}

func (e *TransitionDeniedError) Error() string {
	return fmt.Sprintf("%s: %s of %s %v in state %s", ErrTransitionDenied.Error(), e.Action, e.Object, e.ID, e.State)
}

func (e *TransitionDeniedError) Unwrap() error {
	return ErrTransitionDenied
}

// CapturingConflictError reports that a capture request cannot be booked.
type CapturingConflictError struct {
	Reason string
	Cause  error
}

func NewCapturingConflictError(reason string) *CapturingConflictError {
	return &CapturingConflictError{Reason: reason}
}

func NewCapturingConflictErrorWithCause(reason string, cause error) *CapturingConflictError {
	return &CapturingConflictError{Reason: reason, Cause: cause}
}

func (e *CapturingConflictError) Error() string {
	return withCause(fmt.Sprintf("%s: %s", ErrCapturingConflict.Error(), e.Reason), e.Cause)
}

func (e *CapturingConflictError) Unwrap() error {
	return ErrCapturingConflict
}

// NotApprovedError is raised by approval policies. Code and Payload are chosen by
// the rejecting policy and handed to the caller unchanged.
type NotApprovedError struct {
	Code    string
	Payload any
}

func NewNotApprovedError(code string, payload any) *NotApprovedError {
	return &NotApprovedError{Code: code, Payload: payload}
}

func (e *NotApprovedError) Error() string {
	if e.Payload == nil {
		return fmt.Sprintf("%s: %s", ErrNotApproved.Error(), e.Code)
	}
	return fmt.Sprintf("%s: %s (%s)", ErrNotApproved.Error(), e.Code, sanitize(e.Payload))
}

func (e *NotApprovedError) Unwrap() error {
	return ErrNotApproved
}
