package errors

import stderr "errors"

// New returns an error that formats as the given text.
// Each call to New returns a distinct error value even if the text is identical.
func New(msg string) error {
	return stderr.New(msg)
}

// NoWorkspaceError reports that the session has no open workspace to operate on.
var NoWorkspaceError = New("no workspace is open for this session")

// IsBadRequest reports whether the error is a bad request from the caller.
func IsBadRequest(e error) bool {
	if stderr.Is(e, NoWorkspaceError) {
		return true
	}
	var nf *FileNotFoundError
	if stderr.As(e, &nf) {
		return true
	}
	var outside *PathOutsideWorkspaceError
	if stderr.As(e, &outside) {
		return true
	}
	if b, ok := AsBridgeError(e); ok {
		return b.Code == CodeBadRequest
	}
	return false
}
