package services

import (
	"errors"
	"net/http"
)

const (
	KindNotFound             = "NotFound"
	KindValidationFailed     = "ValidationFailed"
	KindUnauthorized         = "Unauthorized"
	KindUnsupportedMediaType = "UnsupportedMediaType"
	KindConflict             = "Conflict"
	KindIOFailure            = "IOFailure"
)

type ServiceError struct {
	Status  int
	Kind    string
	Message string
	Err     error
}

func (e ServiceError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e ServiceError) Unwrap() error {
	return e.Err
}

func ErrNotFound(msg string) error {
	return ServiceError{Status: http.StatusNotFound, Kind: KindNotFound, Message: msg}
}

func ErrValidation(msg string) error {
	return ServiceError{Status: http.StatusBadRequest, Kind: KindValidationFailed, Message: msg}
}

func ErrUnauthorized(msg string) error {
	return ServiceError{Status: http.StatusUnauthorized, Kind: KindUnauthorized, Message: msg}
}

func ErrUnsupportedMedia(msg string) error {
	return ServiceError{Status: http.StatusBadRequest, Kind: KindUnsupportedMediaType, Message: msg}
}

func ErrConflict(msg string) error {
	return ServiceError{Status: http.StatusConflict, Kind: KindConflict, Message: msg}
}

// ErrIO wraps a storage failure; msg is what the client sees.
func ErrIO(msg string, err error) error {
	return ServiceError{Status: http.StatusInternalServerError, Kind: KindIOFailure, Message: msg, Err: err}
}

// AsServiceError unwraps err into a ServiceError when it carries one.
func AsServiceError(err error) (ServiceError, bool) {
	var serr ServiceError
	if errors.As(err, &serr) {
		return serr, true
	}
	return ServiceError{}, false
}
