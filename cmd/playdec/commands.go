// SPDX-License-Identifier: EPL-2.0

package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/ik5/playdec"
	"github.com/ik5/playdec/audio"
	"github.com/ik5/playdec/formats/wav"
	"go.uber.org/zap"
)

// chunkSamples is how many samples decode buffers before each write.
const chunkSamples = 8192

// CodecsCmd lists the codecs of the default registry.
type CodecsCmd struct {
	out io.Writer `kong:"-"`
}

func (c *CodecsCmd) Run() error {
	w := tabwriter.NewWriter(output(c.out), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TYPE\tNAME\tDESCRIPTION")
	for _, d := range playdec.DefaultRegistry().Supported() {
		fmt.Fprintf(w, "%s\t%s\t%s\n", d.Type, d.ShortName, d.LongName)
	}

	return w.Flush()
}

// InfoCmd prints what the decoder found in a file.
type InfoCmd struct {
	Input string `arg:"" type:"existingfile" help:"Audio file to inspect."`

	out io.Writer `kong:"-"`
}

func (c *InfoCmd) Run(logger *zap.Logger) error {
	f, err := playdec.OpenFile(c.Input, playdec.WithLogger(logger))
	if err != nil {
		return err
	}
	defer f.Close()

	params := f.Params()
	w := tabwriter.NewWriter(output(c.out), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "file:\t%s\n", c.Input)
	fmt.Fprintf(w, "codec:\t%s\n", params.Codec)
	fmt.Fprintf(w, "sample rate:\t%d Hz\n", f.SampleRate())
	fmt.Fprintf(w, "channels:\t%d\n", f.ChannelCount())
	if params.BitsPerSample > 0 {
		fmt.Fprintf(w, "bits per sample:\t%d\n", params.BitsPerSample)
	}
	if params.NFrames > 0 && !params.TimeBase.IsZero() {
		fmt.Fprintf(w, "frames:\t%d\n", params.NFrames)
		fmt.Fprintf(w, "duration:\t%s\n", params.TimeBase.CalcTime(params.NFrames).Round(time.Millisecond))
	} else {
		fmt.Fprintf(w, "duration:\tunknown\n")
	}

	if rev, ok := f.Metadata(); ok {
		if rev.Vendor != "" {
			fmt.Fprintf(w, "vendor:\t%s\n", rev.Vendor)
		}
		for _, tag := range rev.Tags {
			fmt.Fprintf(w, "%s:\t%s\n", tag.Key, tag.Value)
		}
	}

	return w.Flush()
}

// DecodeCmd renders a file to a 16-bit WAV file.
type DecodeCmd struct {
	Input  string        `arg:"" type:"existingfile" help:"Audio file to decode."`
	Output string        `arg:"" help:"WAV file to write, or - for stdout."`
	Gain   float32       `help:"Sample multiplier between 0 and 1." default:"1"`
	Start  time.Duration `help:"Position to start decoding from."`
	Length time.Duration `help:"Maximum duration to decode, 0 for everything."`

	out io.Writer `kong:"-"`
}

func (c *DecodeCmd) Run(logger *zap.Logger) error {
	f, err := playdec.OpenFile(c.Input, playdec.WithLogger(logger), playdec.WithGain(c.Gain))
	if err != nil {
		return err
	}
	defer f.Close()

	if c.Start > 0 {
		reached, err := f.Seek(c.Start)
		if err != nil {
			return fmt.Errorf("seek to %s: %w", c.Start, err)
		}
		logger.Info("seeked", zap.Duration("requested", c.Start), zap.Duration("reached", reached))
	}

	rate, channels := int(f.SampleRate()), f.ChannelCount()
	limit := 0
	if c.Length > 0 {
		limit = int(c.Length.Seconds()*float64(rate)) * channels
	}

	if c.Output == "-" {
		// stdout cannot seek back to patch the header, so collect first.
		samples, err := playdec.ReadAll(f, limit)
		if err != nil && !errors.Is(err, playdec.ErrLayoutChanged) {
			return err
		}
		if err != nil {
			logger.Warn("stopped at a layout change", zap.Int("samples", len(samples)))
		}

		return wav.WriteWAV16(output(c.out), rate, channels, samples)
	}

	out, err := os.Create(c.Output)
	if err != nil {
		return err
	}

	var meta *audio.MetadataRevision
	if rev, ok := f.Metadata(); ok {
		meta = &rev
	}

	written, err := c.render(f, out, rate, channels, meta, limit, logger)
	if err != nil {
		return errors.Join(err, out.Close())
	}
	if err := out.Close(); err != nil {
		return err
	}

	logger.Info("decoded",
		zap.String("output", c.Output),
		zap.Int("samples", written),
		zap.Int("rate", rate),
		zap.Int("channels", channels),
	)

	return nil
}

// render streams samples from s into a WAV writer on out.
func (c *DecodeCmd) render(s audio.Sound, out *os.File, rate, channels int, meta *audio.MetadataRevision, limit int, logger *zap.Logger) (int, error) {
	w, err := wav.NewWriter(out, rate, channels, meta)
	if err != nil {
		return 0, err
	}

	written := 0
	chunk := make([]int16, 0, chunkSamples)

loop:
	for limit <= 0 || written+len(chunk) < limit {
		next, err := s.NextSample()
		if err != nil {
			return written, errors.Join(err, w.Close())
		}

		switch next.Kind {
		case audio.SignalSample:
			chunk = append(chunk, next.Value)
			if len(chunk) == cap(chunk) {
				if err := w.WriteSamples(chunk); err != nil {
					return written, errors.Join(err, w.Close())
				}
				written += len(chunk)
				chunk = chunk[:0]
			}
		case audio.SignalMetadataChanged:
			logger.Warn("stopped at a layout change", zap.Int("samples", written+len(chunk)))
			break loop
		case audio.SignalFinished:
			break loop
		}
	}

	if len(chunk) > 0 {
		if err := w.WriteSamples(chunk); err != nil {
			return written, errors.Join(err, w.Close())
		}
		written += len(chunk)
	}

	return written, w.Close()
}
