package booking

import (
    "fmt"
    "net/http"
)

// Category classifies a failure for the API boundary.  Every error leaving
// the manager carries exactly one category; handlers map categories to HTTP
// statuses and clients use them to decide whether a retry makes sense.
type Category string

const (
    // CategoryValidation covers malformed input: bad date ordering,
    // missing fields, quantities out of bounds.  Rejected before any
    // mutation, with per-field detail.
    CategoryValidation Category = "validation"
    // CategoryDomain covers well-formed requests the business rules
    // reject: insufficient availability, unauthorized cancel, double
    // cancel, inactive room.
    CategoryDomain Category = "domain"
    // CategoryDependency covers identity/catalog collaborator failures.
    // The operation is rejected like a domain error, but the cause is
    // external service health, not user input.
    CategoryDependency Category = "dependency"
    // CategoryConflict covers lost capacity races: the availability
    // changed between check and reserve.  Safe to retry.
    CategoryConflict Category = "conflict"
)

// Error is the structured failure type surfaced at the API boundary.
type Error struct {
    Category Category          `json:"category"`
    Message  string            `json:"message"`
    Fields   map[string]string `json:"fields,omitempty"`
    status   int
    cause    error
}

func (e *Error) Error() string {
    if e.cause != nil {
        return fmt.Sprintf("%s: %s: %v", e.Category, e.Message, e.cause)
    }
    return fmt.Sprintf("%s: %s", e.Category, e.Message)
}

// Unwrap exposes the underlying cause for errors.Is chains.
func (e *Error) Unwrap() error { return e.cause }

// Retryable reports whether the caller may usefully repeat the operation.
func (e *Error) Retryable() bool { return e.Category == CategoryConflict }

// HTTPStatus picks the response code for this error.  Specific
// constructors override the per-category default.
func (e *Error) HTTPStatus() int {
    if e.status != 0 {
        return e.status
    }
    switch e.Category {
    case CategoryValidation:
        return http.StatusBadRequest
    case CategoryConflict:
        return http.StatusConflict
    case CategoryDependency:
        return http.StatusBadGateway
    default:
        return http.StatusBadRequest
    }
}

func validationErr(msg string, fields map[string]string) *Error {
    return &Error{Category: CategoryValidation, Message: msg, Fields: fields}
}

func domainErr(msg string) *Error {
    return &Error{Category: CategoryDomain, Message: msg}
}

func notFoundErr(msg string) *Error {
    return &Error{Category: CategoryDomain, Message: msg, status: http.StatusNotFound}
}

func forbiddenErr(msg string) *Error {
    return &Error{Category: CategoryDomain, Message: msg, status: http.StatusForbidden}
}

func stateErr(msg string) *Error {
    return &Error{Category: CategoryDomain, Message: msg, status: http.StatusConflict}
}

func dependencyErr(msg string, cause error) *Error {
    return &Error{Category: CategoryDependency, Message: msg, cause: cause}
}

func conflictErr(msg string, cause error) *Error {
    return &Error{Category: CategoryConflict, Message: msg, cause: cause}
}
