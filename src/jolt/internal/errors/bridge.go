package errors

import (
	stderr "errors"
)

const (
	// CodeBadRequest is returned for malformed messages and client side problems.
	CodeBadRequest = 400
	// CodeInternal is returned for unsupported operations and unexpected failures.
	CodeInternal = 500
)

// BridgeErrorKind separates envelope problems from operation failures.
type BridgeErrorKind string

const (
	// BridgeErrorKindParse is used when the message itself could not be understood.
	BridgeErrorKindParse BridgeErrorKind = "parse"
	// BridgeErrorKindDispatch is used when a valid message failed while being handled.
	BridgeErrorKindDispatch BridgeErrorKind = "dispatch"
)

// BridgeError is the failure reply to a message sent by the embedded UI.
type BridgeError struct {
	Kind    BridgeErrorKind
	Code    int
	Message string
}

// Error is an implementation of the error interface.
func (b *BridgeError) Error() string {
	return b.Message
}

// NewBridgeParseError returns a 400 failure for a message that could not be parsed.
func NewBridgeParseError(msg string) *BridgeError {
	return &BridgeError{Kind: BridgeErrorKindParse, Code: CodeBadRequest, Message: msg}
}

// NewBridgeDispatchError returns a failure with the given code for a message that could not be handled.
func NewBridgeDispatchError(code int, msg string) *BridgeError {
	return &BridgeError{Kind: BridgeErrorKindDispatch, Code: code, Message: msg}
}

// AsBridgeError returns the BridgeError in the error chain, if any.
func AsBridgeError(e error) (*BridgeError, bool) {
	var b *BridgeError
	if !stderr.As(e, &b) {
		return nil, false
	}
	return b, true
}
