package booking

import (
    "errors"
    "net/http"
    "testing"
)

func TestErrorRetryable(t *testing.T) {
    if !conflictErr("race", nil).Retryable() {
        t.Fatal("conflicts must be retryable")
    }
    for _, e := range []*Error{
        validationErr("bad", nil),
        domainErr("no"),
        dependencyErr("down", errors.New("boom")),
    } {
        if e.Retryable() {
            t.Fatalf("%s must not be retryable", e.Category)
        }
    }
}

func TestErrorHTTPStatus(t *testing.T) {
    cases := []struct {
        err  *Error
        want int
    }{
        {validationErr("bad", nil), http.StatusBadRequest},
        {domainErr("no"), http.StatusBadRequest},
        {notFoundErr("missing"), http.StatusNotFound},
        {forbiddenErr("not yours"), http.StatusForbidden},
        {stateErr("already cancelled"), http.StatusConflict},
        {conflictErr("race", nil), http.StatusConflict},
        {dependencyErr("down", nil), http.StatusBadGateway},
    }
    for _, tc := range cases {
        if got := tc.err.HTTPStatus(); got != tc.want {
            t.Errorf("%s (%s): got %d want %d", tc.err.Category, tc.err.Message, got, tc.want)
        }
    }
}

func TestErrorUnwrap(t *testing.T) {
    cause := errors.New("root cause")
    e := dependencyErr("lookup failed", cause)
    if !errors.Is(e, cause) {
        t.Fatal("expected errors.Is to reach the cause")
    }
}
