// SPDX-License-Identifier: EPL-2.0

package main

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/ebitengine/oto/v3"
	"github.com/ik5/playdec"
	"github.com/ik5/playdec/audio"
	"go.uber.org/zap"
)

// pollInterval is how often play checks whether the player drained.
const pollInterval = 100 * time.Millisecond

// PlayCmd plays a file through oto.
type PlayCmd struct {
	Input string        `arg:"" type:"existingfile" help:"Audio file to play."`
	Gain  float32       `help:"Sample multiplier between 0 and 1." default:"1"`
	Start time.Duration `help:"Position to start playing from."`
}

func (c *PlayCmd) Run(logger *zap.Logger) error {
	f, err := playdec.OpenFile(c.Input, playdec.WithLogger(logger), playdec.WithGain(c.Gain))
	if err != nil {
		return err
	}
	defer f.Close()

	if c.Start > 0 {
		if _, err := f.Seek(c.Start); err != nil {
			return fmt.Errorf("seek to %s: %w", c.Start, err)
		}
	}

	otoCtx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   int(f.SampleRate()),
		ChannelCount: f.ChannelCount(),
		Format:       oto.FormatSignedInt16LE,
	})
	if err != nil {
		return fmt.Errorf("failed to create oto context: %w", err)
	}
	<-ready

	src := &soundReader{sound: f}
	player := otoCtx.NewPlayer(src)
	defer player.Close()

	logger.Info("playing",
		zap.String("file", c.Input),
		zap.Uint32("rate", f.SampleRate()),
		zap.Int("channels", f.ChannelCount()),
	)
	player.Play()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for player.IsPlaying() {
		select {
		case <-ctx.Done():
			logger.Info("interrupted")
			return nil
		case <-ticker.C:
		}
	}

	changed, err := src.result()
	if err != nil {
		return err
	}
	if changed {
		logger.Warn("stopped at a layout change")
	}

	return nil
}

// soundReader exposes a Sound as little endian int16 bytes. It ends at
// the end of the stream or at the first layout change, since the output
// device cannot follow a new rate or channel count.
type soundReader struct {
	sound audio.Sound

	mu      sync.Mutex
	pending []byte
	changed bool
	err     error
}

// result reports whether reading stopped at a layout change and the
// error that ended it, if any. io.EOF is not an error here.
func (r *soundReader) result() (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if errors.Is(r.err, io.EOF) {
		return r.changed, nil
	}

	return r.changed, r.err
}

func (r *soundReader) Read(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.err != nil {
		return 0, r.err
	}

	n := copy(p, r.pending)
	r.pending = r.pending[n:]

	var sample [2]byte
	for n < len(p) {
		next, err := r.sound.NextSample()
		if err != nil {
			r.err = err
			break
		}

		if next.Kind == audio.SignalMetadataChanged {
			r.changed = true
		}
		if next.Kind != audio.SignalSample {
			r.err = io.EOF
			break
		}

		binary.LittleEndian.PutUint16(sample[:], uint16(next.Value))
		c := copy(p[n:], sample[:])
		n += c
		if c < len(sample) {
			r.pending = append(r.pending[:0], sample[c:]...)
		}
	}

	if n > 0 {
		return n, nil
	}

	return 0, r.err
}
