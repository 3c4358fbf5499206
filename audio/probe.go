// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"sync"
)

// ProbeHeaderLen is how many leading bytes are handed to Sniff.
const ProbeHeaderLen = 64

// FormatDescriptor registers a container format with a Probe.
type FormatDescriptor struct {
	Name       string
	Extensions []string
	// Sniff reports whether header, the first bytes of a source, belongs to the format.
	Sniff func(header []byte) bool
	// Open builds a reader positioned at the start of rs.
	Open func(rs io.ReadSeeker) (FormatReader, error)
}

// Probe picks the FormatReader for a source.
type Probe struct {
	formats []FormatDescriptor

	mtx *sync.Mutex
}

func NewProbe() *Probe {
	return &Probe{mtx: &sync.Mutex{}}
}

// Register adds desc. Formats registered first win ties.
func (p *Probe) Register(desc FormatDescriptor) {
	p.mtx.Lock()
	defer p.mtx.Unlock()

	p.formats = append(p.formats, desc)
}

// Formats lists the registered formats in registration order.
func (p *Probe) Formats() []FormatDescriptor {
	p.mtx.Lock()
	defer p.mtx.Unlock()

	return slices.Clone(p.formats)
}

// Format sniffs rs and opens it with the first matching format.
//
// Formats listing hint.Extension are tried first. When no format
// recognises the header, the hinted formats are opened without sniffing.
func (p *Probe) Format(rs io.ReadSeeker, hint Hint) (FormatReader, error) {
	start, err := rs.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, IOError(err)
	}

	header := make([]byte, ProbeHeaderLen)
	n, err := io.ReadFull(rs, header)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, IOError(err)
	}
	header = header[:n]

	hinted, rest := p.partition(hint)

	for _, f := range append(hinted, rest...) {
		if f.Sniff == nil || !f.Sniff(header) {
			continue
		}
		if _, err := rs.Seek(start, io.SeekStart); err != nil {
			return nil, IOError(err)
		}

		src := &sourceReader{ReadSeeker: rs}
		r, err := f.Open(src)
		if err != nil {
			return nil, openError(f.Name, err, src.err)
		}

		return r, nil
	}

	var errs []error
	for _, f := range hinted {
		if _, err := rs.Seek(start, io.SeekStart); err != nil {
			return nil, IOError(err)
		}

		src := &sourceReader{ReadSeeker: rs}
		r, err := f.Open(src)
		if err == nil {
			return r, nil
		}
		if src.err != nil {
			return nil, openError(f.Name, err, src.err)
		}
		errs = append(errs, fmt.Errorf("%s: %w", f.Name, err))
	}

	return nil, &Error{
		Kind: KindUnsupported,
		Msg:  "probe",
		Err:  errors.Join(append([]error{ErrUnknownFormat}, errs...)...),
	}
}

// openError classifies a failed Open. Readers report bad headers with
// plain errors, so anything that is neither typed nor caused by the
// source failing is an unsupported stream.
func openError(name string, err, srcErr error) error {
	var e *Error
	switch {
	case errors.As(err, &e):
		return fmt.Errorf("%s: %w", name, err)
	case srcErr != nil:
		return &Error{Kind: KindIO, Msg: name, Err: err}
	default:
		return &Error{Kind: KindUnsupported, Msg: name, Err: err}
	}
}

// sourceReader remembers the first error of rs other than io.EOF.
type sourceReader struct {
	io.ReadSeeker

	err error
}

func (s *sourceReader) Read(p []byte) (int, error) {
	n, err := s.ReadSeeker.Read(p)
	s.record(err)

	return n, err
}

func (s *sourceReader) Seek(offset int64, whence int) (int64, error) {
	n, err := s.ReadSeeker.Seek(offset, whence)
	s.record(err)

	return n, err
}

func (s *sourceReader) record(err error) {
	if err != nil && s.err == nil && !errors.Is(err, io.EOF) {
		s.err = err
	}
}

func (p *Probe) partition(hint Hint) (hinted, rest []FormatDescriptor) {
	ext := strings.TrimPrefix(strings.ToLower(hint.Extension), ".")

	for _, f := range p.Formats() {
		if ext != "" && slices.Contains(f.Extensions, ext) {
			hinted = append(hinted, f)
			continue
		}
		rest = append(rest, f)
	}

	return hinted, rest
}
