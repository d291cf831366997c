// Package errors defines coded errors that the CLI recognizes by code rather
// than by message, such as a spec file that doesn't exist.
package errors

import (
	stderrors "errors"
)

const (
	CodeSpecNotFound = "SPEC_NOT_FOUND"
)

// CodedError is an error carrying a stable code.
type CodedError interface {
	Code() string
}

type codedError struct {
	code string
	msg  string
}

func (e *codedError) Error() string {
	return e.msg
}

func (e *codedError) Code() string {
	return e.code
}

// SpecNotFound reports that the image spec file doesn't exist.
func SpecNotFound(msg string) error {
	return &codedError{
		code: CodeSpecNotFound,
		msg:  msg,
	}
}

func IsSpecNotFound(err error) bool {
	return Code(err) == CodeSpecNotFound
}

// Code returns the code of the first coded error in err's chain, or the empty
// string.
func Code(err error) string {
	var cerr CodedError
	if stderrors.As(err, &cerr) {
		return cerr.Code()
	}
	return ""
}
