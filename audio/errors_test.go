// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
	"io"
	"testing"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want Recovery
	}{
		{name: "decode", err: DecodeError("bad crc"), want: RecoverSkip},
		{name: "wrapped decode", err: fmt.Errorf("opus: %w", DecodeError("x")), want: RecoverSkip},
		{name: "reset required", err: ResetRequired(), want: RecoverReset},
		{name: "io", err: IOError(io.ErrClosedPipe), want: Fatal},
		{name: "plain error", err: errors.New("boom"), want: Fatal},
		{name: "seek", err: SeekError("out of range"), want: Fatal},
		{name: "unsupported", err: Unsupported("qoa"), want: Fatal},
		{name: "limit", err: LimitError("scratch", ErrBufferCapacity), want: Fatal},
		{name: "unknown kind", err: &Error{Kind: ErrorKind(99)}, want: Fatal},
		{name: "config", err: fmt.Errorf("%w: rate 0", ErrConfig), want: Fatal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := Classify(tt.err); got != tt.want {
				t.Errorf("Classify(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestKindOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{name: "typed", err: SeekError("x"), want: KindSeek},
		{name: "wrapped typed", err: fmt.Errorf("flac: %w", DecodeError("x")), want: KindDecode},
		{name: "config", err: fmt.Errorf("%w: no channels", ErrConfig), want: KindConfig},
		{name: "typed wins over config", err: &Error{Kind: KindLimit, Err: ErrConfig}, want: KindLimit},
		{name: "plain", err: errors.New("disk gone"), want: KindIO},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}

	if KindConfig.String() != "config" {
		t.Errorf("KindConfig.String() = %q, want config", KindConfig.String())
	}
}

func TestMapError(t *testing.T) {
	t.Parallel()

	ioErr := IOError(io.ErrClosedPipe)
	if got := MapError(ioErr); got != ioErr {
		t.Errorf("MapError(io) = %v, want the same error", got)
	}

	plain := errors.New("disk gone")
	if got := MapError(plain); got != plain {
		t.Errorf("MapError(plain) = %v, want the same error", got)
	}

	if MapError(nil) != nil {
		t.Error("MapError(nil) != nil")
	}

	for _, cause := range []error{
		DecodeError("x"),
		SeekError("x"),
		Unsupported("x"),
		LimitError("x", ErrBufferCapacity),
		fmt.Errorf("%w: no channels", ErrConfig),
	} {
		got := MapError(cause)

		var fe *FormatError
		if !errors.As(got, &fe) {
			t.Errorf("MapError(%v) = %T, want *FormatError", cause, got)
			continue
		}
		if !errors.Is(got, cause) {
			t.Errorf("MapError(%v) lost its cause", cause)
		}
	}
}

func TestIsEndOfStream(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "marker", err: ErrEndOfStream, want: true},
		{name: "wrapped marker", err: fmt.Errorf("ogg: %w", ErrEndOfStream), want: true},
		{name: "io.EOF", err: io.EOF, want: true},
		{name: "rebuilt marker", err: &Error{Kind: KindIO, Msg: "end of stream", Err: io.ErrUnexpectedEOF}, want: true},
		{name: "other unexpected eof", err: IOError(io.ErrUnexpectedEOF), want: false},
		{name: "truncated file", err: &Error{Kind: KindIO, Msg: "short page", Err: io.ErrUnexpectedEOF}, want: false},
		{name: "decode", err: DecodeError("end of stream"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := IsEndOfStream(tt.err); got != tt.want {
				t.Errorf("IsEndOfStream(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestError_Message(t *testing.T) {
	t.Parallel()

	err := LimitError("opus scratch", ErrBufferCapacity)
	want := "limit: opus scratch: decode buffer cannot grow any further"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}

	if !errors.Is(err, ErrBufferCapacity) {
		t.Error("errors.Is() failed for wrapped ErrBufferCapacity")
	}
}
