package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failure so the HTTP layer can pick a status without
// inspecting error strings.
type Kind string

const (
	KindValidation  Kind = "validation"
	KindNotFound    Kind = "not_found"
	KindUpstream    Kind = "upstream"
	KindStorage     Kind = "storage"
	KindRateLimited Kind = "rate_limited"
	KindInternal    Kind = "internal"
)

type Error struct {
	Kind   Kind
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func Validation(code string, err error) *Error {
	return &Error{Kind: KindValidation, Status: http.StatusBadRequest, Code: code, Err: err}
}

func NotFound(code string, err error) *Error {
	return &Error{Kind: KindNotFound, Status: http.StatusNotFound, Code: code, Err: err}
}

func Upstream(code string, err error) *Error {
	return &Error{Kind: KindUpstream, Status: http.StatusInternalServerError, Code: code, Err: err}
}

func Storage(code string, err error) *Error {
	return &Error{Kind: KindStorage, Status: http.StatusInternalServerError, Code: code, Err: err}
}

func RateLimited(code string, err error) *Error {
	return &Error{Kind: KindRateLimited, Status: http.StatusTooManyRequests, Code: code, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) && ae != nil && ae.Kind != "" {
		return ae.Kind
	}
	return KindInternal
}

// StatusOf returns the HTTP status of the first *Error in err's chain, or 500.
func StatusOf(err error) int {
	var ae *Error
	if errors.As(err, &ae) && ae != nil && ae.Status != 0 {
		return ae.Status
	}
	return http.StatusInternalServerError
}

func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
