package exceptions

import (
	"errors"
	"fmt"
	"oncobilling-service/internal/pkg/constvars"
	"runtime"
)

type ErrorKind string

const (
	KindNotFound            ErrorKind = "NOT_FOUND"
	KindAmbiguousContext    ErrorKind = "AMBIGUOUS_CONTEXT"
	KindInvalidTransition   ErrorKind = "INVALID_TRANSITION"
	KindUpstreamUnavailable ErrorKind = "UPSTREAM_UNAVAILABLE"
	KindValidation          ErrorKind = "VALIDATION"
	KindInternal            ErrorKind = "INTERNAL"
)

type CustomError struct {
	StatusCode    int        `json:"status_code"`
	Success       bool       `json:"success"`
	Kind          ErrorKind  `json:"kind,omitempty"`
	ClientMessage string     `json:"message"`
	DevMessage    string     `json:"dev_message,omitempty"`
	Locations     []Location `json:"locations,omitempty"`
	cause         error
}

type Location struct {
	File         string `json:"file"`
	Line         int    `json:"line"`
	FunctionName string `json:"function_name"`
}

func (e *CustomError) Error() string {
	if len(e.Locations) == 0 {
		return e.DevMessage
	}
	location := e.Locations[0]
	return fmt.Sprintf("%s (%s:%d %s)", e.DevMessage, location.File, location.Line, location.FunctionName)
}

func (e *CustomError) Unwrap() error {
	return e.cause
}

// BuildNewCustomError wraps err (which may be nil) with the status code and
// messages, recording the caller's location.
func BuildNewCustomError(err error, statusCode int, clientMessage, devMessage string) *CustomError {
	return buildWithKind(err, kindForStatus(statusCode), statusCode, clientMessage, devMessage)
}

func buildWithKind(err error, kind ErrorKind, statusCode int, clientMessage, devMessage string) *CustomError {
	if err != nil {
		devMessage = fmt.Sprintf("%s: %s", devMessage, err.Error())
	}
	return &CustomError{
		StatusCode:    statusCode,
		Kind:          kind,
		ClientMessage: clientMessage,
		DevMessage:    devMessage,
		Locations:     []Location{getLocation(3)},
		cause:         err,
	}
}

// KindOf returns the kind of the first CustomError in err's chain.
func KindOf(err error) ErrorKind {
	var customErr *CustomError
	if errors.As(err, &customErr) {
		return customErr.Kind
	}
	return ""
}

func IsKind(err error, kind ErrorKind) bool {
	return err != nil && KindOf(err) == kind
}

func kindForStatus(statusCode int) ErrorKind {
	switch {
	case statusCode == constvars.StatusNotFound:
		return KindNotFound
	case statusCode == constvars.StatusBadGateway || statusCode == constvars.StatusServiceUnavailable || statusCode == constvars.StatusGatewayTimeout:
		return KindUpstreamUnavailable
	case statusCode >= 400 && statusCode < 500:
		return KindValidation
	default:
		return KindInternal
	}
}

func getLocation(skip int) Location {
	pc, file, line, ok := runtime.Caller(skip)
	if !ok {
		return Location{
			File:         constvars.ErrFileLocationUnknown,
			Line:         0,
			FunctionName: constvars.ErrFunctionNameUnknown,
		}
	}
	return Location{
		File:         file,
		Line:         line,
		FunctionName: runtime.FuncForPC(pc).Name(),
	}
}
