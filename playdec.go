// SPDX-License-Identifier: EPL-2.0

package playdec

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/ik5/playdec/audio"
	"github.com/ik5/playdec/formats/aiff"
	"github.com/ik5/playdec/formats/flac"
	"github.com/ik5/playdec/formats/mp3"
	"github.com/ik5/playdec/formats/ogg"
	"github.com/ik5/playdec/formats/opus"
	"github.com/ik5/playdec/formats/pcm"
	"github.com/ik5/playdec/formats/vorbis"
	"github.com/ik5/playdec/formats/wav"
	"go.uber.org/zap"
)

// DefaultRegistry returns a new registry holding the PCM codecs and Opus.
func DefaultRegistry() *audio.Registry {
	reg := audio.NewRegistry()
	pcm.Register(reg)
	opus.Register(reg)

	return reg
}

// DefaultProbe returns a new probe holding every bundled container format.
// MP3 goes last since its frame sync sniff is the loosest.
func DefaultProbe() *audio.Probe {
	probe := audio.NewProbe()
	for _, desc := range []audio.FormatDescriptor{
		wav.Descriptor(),
		flac.Descriptor(),
		ogg.Descriptor(),
		vorbis.Descriptor(),
		aiff.Descriptor(),
		mp3.Descriptor(),
	} {
		probe.Register(desc)
	}

	return probe
}

type config struct {
	logger   *zap.Logger
	gain     float32
	registry *audio.Registry
	probe    *audio.Probe
}

// Option configures Open and OpenFile.
type Option func(*config)

// WithLogger sets the logger handed to the track decoder and its codec.
func WithLogger(l *zap.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithGain sets the initial gain, clamped to [0, 1].
func WithGain(g float32) Option {
	return func(c *config) { c.gain = g }
}

// WithRegistry replaces the default codec registry.
func WithRegistry(reg *audio.Registry) Option {
	return func(c *config) {
		if reg != nil {
			c.registry = reg
		}
	}
}

// WithProbe replaces the default format probe.
func WithProbe(p *audio.Probe) Option {
	return func(c *config) {
		if p != nil {
			c.probe = p
		}
	}
}

func newConfig(opts []Option) config {
	cfg := config{logger: zap.NewNop(), gain: 1}
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.registry == nil {
		cfg.registry = DefaultRegistry()
	}
	if cfg.probe == nil {
		cfg.probe = DefaultProbe()
	}

	return cfg
}

// Open probes rs and returns a decoder for its first playable track.
// The decoder does not close rs.
func Open(rs io.ReadSeeker, hint audio.Hint, opts ...Option) (*audio.TrackDecoder, error) {
	cfg := newConfig(opts)

	td, err := audio.OpenTrack(rs, hint, cfg.probe, cfg.registry,
		audio.WithLogger(cfg.logger),
		audio.WithGain(cfg.gain),
	)
	if err != nil {
		return nil, err
	}

	params := td.Params()
	cfg.logger.Debug("track opened",
		zap.String("codec", string(params.Codec)),
		zap.Uint32("rate", td.SampleRate()),
		zap.Int("channels", td.ChannelCount()),
		zap.Uint64("frames", params.NFrames),
	)

	return td, nil
}

// File is a TrackDecoder reading from a file it owns.
type File struct {
	*audio.TrackDecoder

	f *os.File
}

// OpenFile opens path and decodes its first playable track. The file
// extension is used as the probe hint.
func OpenFile(path string, opts ...Option) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	td, err := Open(f, audio.HintFromPath(path), opts...)
	if err != nil {
		return nil, errors.Join(fmt.Errorf("%s: %w", path, err), f.Close())
	}

	return &File{TrackDecoder: td, f: f}, nil
}

// Close releases the decoder and closes the file.
func (f *File) Close() error {
	return errors.Join(f.TrackDecoder.Close(), f.f.Close())
}
