// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"io"
)

var (
	ErrConfig         = errors.New("invalid decoder configuration")
	ErrBufferCapacity = errors.New("decode buffer cannot grow any further")
	ErrUnknownCodec   = errors.New("codec is not registered")
	ErrUnknownFormat  = errors.New("no registered format matched the source")
	ErrNoTrack        = errors.New("no track with a supported codec was found")
	ErrUnknownRate    = errors.New("track sample rate is unknown")
)

// ErrorKind is the category of a codec layer failure.
type ErrorKind int

const (
	KindIO ErrorKind = iota
	KindDecode
	KindSeek
	KindUnsupported
	KindLimit
	KindResetRequired
	KindConfig
)

func (k ErrorKind) String() string {
	switch k {
	case KindIO:
		return "io"
	case KindDecode:
		return "decode"
	case KindSeek:
		return "seek"
	case KindUnsupported:
		return "unsupported"
	case KindLimit:
		return "limit"
	case KindResetRequired:
		return "reset required"
	case KindConfig:
		return "config"
	default:
		return "unknown"
	}
}

// Error is a categorized failure returned by codecs and format readers.
type Error struct {
	Kind ErrorKind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	s := e.Kind.String()
	if e.Msg != "" {
		s += ": " + e.Msg
	}
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}

	return s
}

func (e *Error) Unwrap() error { return e.Err }

// ErrEndOfStream marks a reader that has no packets left.
var ErrEndOfStream error = &Error{Kind: KindIO, Msg: endOfStreamMsg, Err: io.ErrUnexpectedEOF}

const endOfStreamMsg = "end of stream"

// DecodeError reports a packet that could not be decoded.
func DecodeError(msg string) error {
	return &Error{Kind: KindDecode, Msg: msg}
}

// SeekError reports a failed seek.
func SeekError(msg string) error {
	return &Error{Kind: KindSeek, Msg: msg}
}

// Unsupported reports a stream or feature that cannot be handled.
func Unsupported(msg string) error {
	return &Error{Kind: KindUnsupported, Msg: msg}
}

// LimitError reports an exhausted resource limit.
func LimitError(msg string, err error) error {
	return &Error{Kind: KindLimit, Msg: msg, Err: err}
}

// ResetRequired asks the caller to drop the current packet and reset the decoder.
func ResetRequired() error {
	return &Error{Kind: KindResetRequired}
}

// IOError wraps err as an I/O failure.
func IOError(err error) error {
	return &Error{Kind: KindIO, Err: err}
}

// KindOf returns the category of err. A wrapped ErrConfig is KindConfig,
// anything else that is not an *Error counts as I/O.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	if errors.Is(err, ErrConfig) {
		return KindConfig
	}

	return KindIO
}

// Recovery is what a decode loop should do after an error.
type Recovery int

const (
	// Fatal stops the stream and hands the error to the caller.
	Fatal Recovery = iota
	// RecoverSkip drops the packet and moves on.
	RecoverSkip
	// RecoverReset drops the packet after the codec asked for a reset.
	RecoverReset
)

// Classify maps err onto a Recovery. Only decode and reset-required
// failures are recoverable.
func Classify(err error) Recovery {
	switch KindOf(err) {
	case KindDecode:
		return RecoverSkip
	case KindResetRequired:
		return RecoverReset
	default:
		return Fatal
	}
}

// IsEndOfStream reports whether err means the source ran out of packets.
//
// io.EOF and ErrEndOfStream are checked first. An I/O *Error carrying
// io.ErrUnexpectedEOF and the end of stream message is accepted as well,
// for readers that build their own copy of the marker.
func IsEndOfStream(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, io.EOF) || errors.Is(err, ErrEndOfStream) {
		return true
	}

	var e *Error
	return errors.As(err, &e) &&
		e.Kind == KindIO &&
		e.Msg == endOfStreamMsg &&
		errors.Is(e.Err, io.ErrUnexpectedEOF)
}

// FormatError groups every non I/O failure handed to the consumer.
type FormatError struct {
	Cause error
}

func (e *FormatError) Error() string { return "format error: " + e.Cause.Error() }

func (e *FormatError) Unwrap() error { return e.Cause }

// MapError converts a fatal codec error for the consumer.
// I/O errors pass through, the rest become a *FormatError.
func MapError(err error) error {
	if err == nil || KindOf(err) == KindIO {
		return err
	}

	return &FormatError{Cause: err}
}
