// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"encoding/binary"
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
	gowav "github.com/go-audio/wav"
	"github.com/ik5/playdec/audio"
)

// WriteWAV16 writes interleaved 16-bit PCM as a complete WAV file.
// len(samples) should be a multiple of channels.
func WriteWAV16(w io.Writer, sampleRate, channels int, samples []int16) error {
	if channels < 1 || channels > 32 {
		return fmt.Errorf("%w: %d", ErrUnsupportedChannel, channels)
	}

	numChannels := uint16(channels)
	bitsPerSample := uint16(16)
	byteRate := uint32(sampleRate) * uint32(numChannels) * uint32(bitsPerSample/8)
	blockAlign := numChannels * (bitsPerSample / 8)
	dataSize := uint32(len(samples) * 2)
	riffSize := 36 + dataSize

	header := make([]byte, 44)

	copy(header[0:4], "RIFF")
	binary.LittleEndian.PutUint32(header[4:8], riffSize)
	copy(header[8:12], "WAVE")

	copy(header[12:16], "fmt ")
	binary.LittleEndian.PutUint32(header[16:20], 16)
	binary.LittleEndian.PutUint16(header[20:22], formatPCM)
	binary.LittleEndian.PutUint16(header[22:24], numChannels)
	binary.LittleEndian.PutUint32(header[24:28], uint32(sampleRate))
	binary.LittleEndian.PutUint32(header[28:32], byteRate)
	binary.LittleEndian.PutUint16(header[32:34], blockAlign)
	binary.LittleEndian.PutUint16(header[34:36], bitsPerSample)

	copy(header[36:40], "data")
	binary.LittleEndian.PutUint32(header[40:44], dataSize)

	if _, err := w.Write(header); err != nil {
		return fmt.Errorf("%w", err)
	}

	const chunkSize = 8192
	if len(samples) == 0 {
		return nil
	}

	buf := make([]byte, min(len(samples), chunkSize)*2)
	for i := 0; i < len(samples); i += chunkSize {
		chunk := samples[i:min(i+chunkSize, len(samples))]
		buf = buf[:len(chunk)*2]

		for j, s := range chunk {
			binary.LittleEndian.PutUint16(buf[j*2:], uint16(s))
		}

		if _, err := w.Write(buf); err != nil {
			return fmt.Errorf("%w", err)
		}
	}

	return nil
}

// Writer streams 16-bit PCM into a WAV file whose length is not known up
// front. The header sizes are patched by Close.
type Writer struct {
	enc     *gowav.Encoder
	buf     *goaudio.IntBuffer
	started bool
}

// NewWriter starts a WAV file on ws. Tags of meta that have a RIFF INFO
// field are written after the samples.
func NewWriter(ws io.WriteSeeker, sampleRate, channels int, meta *audio.MetadataRevision) (*Writer, error) {
	if channels < 1 || channels > 32 {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedChannel, channels)
	}

	enc := gowav.NewEncoder(ws, sampleRate, 16, channels, formatPCM)
	if meta != nil {
		enc.Metadata = infoFromRevision(*meta)
	}

	return &Writer{
		enc: enc,
		buf: &goaudio.IntBuffer{
			Format:         &goaudio.Format{NumChannels: channels, SampleRate: sampleRate},
			SourceBitDepth: 16,
		},
	}, nil
}

// WriteSamples appends interleaved samples.
func (w *Writer) WriteSamples(samples []int16) error {
	if len(samples) == 0 {
		return nil
	}

	w.buf.Data = w.buf.Data[:0]
	for _, s := range samples {
		w.buf.Data = append(w.buf.Data, int(s))
	}

	if err := w.enc.Write(w.buf); err != nil {
		return fmt.Errorf("wav: %w", err)
	}
	w.started = true

	return nil
}

// Close finishes the file. The underlying writer is not closed.
func (w *Writer) Close() error {
	if !w.started {
		// the encoder only writes headers along with the first samples
		w.buf.Data = w.buf.Data[:0]
		if err := w.enc.Write(w.buf); err != nil {
			return fmt.Errorf("wav: %w", err)
		}
	}

	if err := w.enc.Close(); err != nil {
		return fmt.Errorf("wav: %w", err)
	}

	return nil
}
