// Package errs defines the error kinds used across the menu planner pipeline.
// Each stage wraps its failures in an *Error carrying a Kind, so callers can
// pick the right user-facing reply with errors.Is or KindOf.
package errs

import (
	"errors"
	"fmt"
)

// Kind classifies an error by the pipeline stage or startup check that produced it.
type Kind string

// Error kinds.
const (
	KindUnexpected         Kind = "unexpected"
	KindMissingCredentials Kind = "missing_credentials"
	KindNoAudioPayload     Kind = "no_audio_payload"
	KindTranscode          Kind = "transcode_failure"
	KindTranscription      Kind = "transcription_failure"
	KindGeneration         Kind = "generation_failure"
)

// Sentinels for errors.Is. Any *Error of the same kind matches its sentinel.
var (
	ErrMissingCredentials = &Error{kind: KindMissingCredentials}
	ErrNoAudioPayload     = &Error{kind: KindNoAudioPayload}
	ErrTranscode          = &Error{kind: KindTranscode}
	ErrTranscription      = &Error{kind: KindTranscription}
	ErrGeneration         = &Error{kind: KindGeneration}
)

// Error is a classified application error.
type Error struct {
	kind    Kind
	message string
	err     error
}

// New returns an error of the given kind. cause may be nil.
func New(kind Kind, message string, cause error) error {
	return &Error{kind: kind, message: message, err: cause}
}

// Errorf is like New without a cause, formatting the message.
func Errorf(kind Kind, format string, args ...any) error {
	return &Error{kind: kind, message: fmt.Sprintf(format, args...)}
}

func (e *Error) Error() string {
	msg := e.message
	if msg == "" {
		msg = string(e.kind)
	}
	if e.err != nil {
		return fmt.Sprintf("%s: %v", msg, e.err)
	}
	return msg
}

// Kind returns the error kind.
func (e *Error) Kind() Kind {
	return e.kind
}

func (e *Error) Unwrap() error {
	return e.err
}

// Is reports whether target is the bare sentinel for e's kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.message == "" && t.err == nil && t.kind == e.kind
}

// KindOf returns the kind of the first *Error in err's chain,
// KindUnexpected if there is none, or "" for a nil error.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.kind
	}
	return KindUnexpected
}
