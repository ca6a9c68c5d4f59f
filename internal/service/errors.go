package service

import (
	"Bulletin/internal/repository"
	"errors"
)

const (
	BadRequest          = 400
	Unauthorized        = 401
	NotFound            = 404
	Conflict            = 409
	InternalServerError = 500
	ServiceUnavailable  = 503
)

var (
	ErrParamInvalid    = errors.New("invalid parameters")
	ErrLoginFailed     = errors.New("invalid email or password")
	ErrUnauthenticated = errors.New("login required")
	ErrAuthUnavailable = errors.New("auth service unavailable")
	ErrSessionStore    = errors.New("session storage unavailable")
	UnExpectedError    = errors.New("unexpected error, please try again later")
	ErrPostNotFound    = repository.ErrPostNotFound
	ErrPostRejected    = repository.ErrPostRejected
)

var ErrorMap = map[error]int{
	ErrParamInvalid:    BadRequest,
	ErrLoginFailed:     Unauthorized,
	ErrUnauthenticated: Unauthorized,
	ErrAuthUnavailable: ServiceUnavailable,
	ErrSessionStore:    ServiceUnavailable,
	ErrPostNotFound:    NotFound,
	ErrPostRejected:    Conflict,
	UnExpectedError:    InternalServerError,
}

// CodeOf 返回错误对应的业务码，未登记的错误返回 false
func CodeOf(err error) (int, bool) {
	for known, code := range ErrorMap {
		if errors.Is(err, known) {
			return code, true
		}
	}
	return InternalServerError, false
}
