// SPDX-License-Identifier: EPL-2.0

package mp3

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/ik5/playdec/audio"
	"github.com/ik5/playdec/formats/pcm"
)

// mockMP3Reader simulates the gomp3.Decoder for testing
type mockMP3Reader struct {
	sampleRate int
	samples    []int16 // interleaved stereo
	offset     int     // in samples
	unknownLen bool
	readErr    error
	seekErr    error
}

func (m *mockMP3Reader) SampleRate() int { return m.sampleRate }

func (m *mockMP3Reader) Length() int64 {
	if m.unknownLen {
		return -1
	}

	return int64(len(m.samples) * 2)
}

func (m *mockMP3Reader) Read(buf []byte) (int, error) {
	if m.readErr != nil {
		return 0, m.readErr
	}
	if m.offset >= len(m.samples) {
		return 0, io.EOF
	}

	n := min(len(buf)/2, len(m.samples)-m.offset)
	for i := range n {
		binary.LittleEndian.PutUint16(buf[2*i:], uint16(m.samples[m.offset+i]))
	}
	m.offset += n

	return 2 * n, nil
}

func (m *mockMP3Reader) Seek(offset int64, whence int) (int64, error) {
	if m.seekErr != nil {
		return 0, m.seekErr
	}
	if whence != io.SeekStart {
		return 0, errors.New("only io.SeekStart is supported")
	}

	m.offset = int(offset / 2)
	return offset, nil
}

func stereoRamp(frames int) []int16 {
	samples := make([]int16, 2*frames)
	for i := range frames {
		samples[2*i] = int16(i)
		samples[2*i+1] = -int16(i)
	}

	return samples
}

func TestSniff(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		header []byte
		want   bool
	}{
		{"id3", []byte("ID3\x04\x00"), true},
		{"frame sync", []byte{0xFF, 0xFB, 0x90, 0x64}, true},
		{"wave", []byte("RIFF"), false},
		{"empty", nil, false},
		{"half sync", []byte{0xFF, 0x1F}, false},
	}

	for _, tt := range tests {
		if got := Sniff(tt.header); got != tt.want {
			t.Errorf("Sniff(%s) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestOpen_InvalidInput(t *testing.T) {
	t.Parallel()

	for _, data := range [][]byte{nil, []byte("This is not MP3 data")} {
		if _, err := Open(bytes.NewReader(data)); !errors.Is(err, ErrNotMP3) {
			t.Errorf("Open(%q) error = %v, want ErrNotMP3", data, err)
		}
	}
}

func TestReader_Track(t *testing.T) {
	t.Parallel()

	r := newReader(&mockMP3Reader{sampleRate: 44100, samples: stereoRamp(3000)})

	tracks := r.Tracks()
	if len(tracks) != 1 {
		t.Fatalf("len(Tracks()) = %d, want 1", len(tracks))
	}

	params := tracks[0].Params
	if params.Codec != audio.CodecPCMS16LE {
		t.Errorf("Codec = %s, want %s", params.Codec, audio.CodecPCMS16LE)
	}
	if params.SampleRate != 44100 || params.Channels != audio.LayoutStereo {
		t.Errorf("params = %d Hz %v, want 44100 Hz stereo", params.SampleRate, params.Channels)
	}
	if params.NFrames != 3000 {
		t.Errorf("NFrames = %d, want 3000", params.NFrames)
	}

	unknown := newReader(&mockMP3Reader{sampleRate: 44100, unknownLen: true})
	if n := unknown.Tracks()[0].Params.NFrames; n != 0 {
		t.Errorf("NFrames with unknown length = %d, want 0", n)
	}
}

func TestReader_NextPacket(t *testing.T) {
	t.Parallel()

	r := newReader(&mockMP3Reader{sampleRate: 44100, samples: stereoRamp(PacketFrames + 100)})

	first, err := r.NextPacket()
	if err != nil {
		t.Fatalf("NextPacket() error = %v, want nil", err)
	}
	if first.TS != 0 || first.Dur != PacketFrames || len(first.Data) != PacketFrames*frameBytes {
		t.Errorf("first packet ts=%d dur=%d bytes=%d, want 0, %d, %d", first.TS, first.Dur, len(first.Data), PacketFrames, PacketFrames*frameBytes)
	}

	second, err := r.NextPacket()
	if err != nil {
		t.Fatalf("NextPacket() error = %v, want nil", err)
	}
	if second.TS != PacketFrames || second.Dur != 100 {
		t.Errorf("second packet ts=%d dur=%d, want %d, 100", second.TS, second.Dur, PacketFrames)
	}

	if _, err := r.NextPacket(); !audio.IsEndOfStream(err) {
		t.Errorf("NextPacket() at end error = %v, want end of stream", err)
	}

	// Packets own their bytes.
	if first.Data[0] != 0 || first.Data[4] != 1 {
		t.Errorf("first packet was overwritten: % x", first.Data[:8])
	}
}

func TestReader_DecodesThroughPCM(t *testing.T) {
	t.Parallel()

	r := newReader(&mockMP3Reader{sampleRate: 22050, samples: stereoRamp(10)})

	registry := audio.NewRegistry()
	pcm.Register(registry)

	dec, err := registry.Make(r.Tracks()[0].Params, audio.DecoderOptions{})
	if err != nil {
		t.Fatalf("Make() error = %v, want nil", err)
	}

	pkt, err := r.NextPacket()
	if err != nil {
		t.Fatalf("NextPacket() error = %v, want nil", err)
	}

	buf, err := dec.Decode(pkt)
	if err != nil {
		t.Fatalf("Decode() error = %v, want nil", err)
	}
	if buf.Frames() != 10 {
		t.Fatalf("Frames() = %d, want 10", buf.Frames())
	}

	for i := range 10 {
		if l, rr := audio.ExtractSample(buf, 0, i), audio.ExtractSample(buf, 1, i); l != int16(i) || rr != -int16(i) {
			t.Errorf("frame %d = (%d, %d), want (%d, %d)", i, l, rr, i, -i)
		}
	}
}

func TestReader_ReadError(t *testing.T) {
	t.Parallel()

	boom := errors.New("bad frame")
	r := newReader(&mockMP3Reader{sampleRate: 44100, samples: stereoRamp(10), readErr: boom})

	_, err := r.NextPacket()
	if !errors.Is(err, boom) {
		t.Fatalf("NextPacket() error = %v, want %v", err, boom)
	}
	if audio.KindOf(err) != audio.KindIO {
		t.Errorf("KindOf() = %v, want %v", audio.KindOf(err), audio.KindIO)
	}
	if audio.IsEndOfStream(err) {
		t.Error("IsEndOfStream() = true, want false")
	}
}

func TestReader_Seek(t *testing.T) {
	t.Parallel()

	mock := &mockMP3Reader{sampleRate: 1000, samples: stereoRamp(5000)}
	r := newReader(mock)

	got, err := r.Seek(audio.SeekCoarse, audio.SeekToTS(trackID, 2500))
	if err != nil {
		t.Fatalf("Seek() error = %v, want nil", err)
	}
	if got.ActualTS != 2500 || got.RequiredTS != 2500 {
		t.Errorf("Seek() = %+v, want 2500/2500", got)
	}

	pkt, err := r.NextPacket()
	if err != nil {
		t.Fatalf("NextPacket() error = %v, want nil", err)
	}
	if pkt.TS != 2500 {
		t.Errorf("TS after seek = %d, want 2500", pkt.TS)
	}
	if v := int16(binary.LittleEndian.Uint16(pkt.Data)); v != int16(2500) {
		t.Errorf("first sample after seek = %d, want 2500", v)
	}

	got, err = r.Seek(audio.SeekCoarse, audio.SeekToTime(trackID, 1500*time.Millisecond))
	if err != nil {
		t.Fatalf("Seek() error = %v, want nil", err)
	}
	if got.ActualTS != 1500 {
		t.Errorf("ActualTS = %d, want 1500", got.ActualTS)
	}
}

func TestReader_SeekErrors(t *testing.T) {
	t.Parallel()

	r := newReader(&mockMP3Reader{sampleRate: 1000, samples: stereoRamp(100)})

	if _, err := r.Seek(audio.SeekCoarse, audio.SeekToTS(trackID, 100)); audio.KindOf(err) != audio.KindSeek {
		t.Errorf("Seek(past end) error = %v, want a seek error", err)
	}
	if _, err := r.Seek(audio.SeekCoarse, audio.SeekToTS(7, 0)); audio.KindOf(err) != audio.KindSeek {
		t.Errorf("Seek(unknown track) error = %v, want a seek error", err)
	}

	failing := newReader(&mockMP3Reader{sampleRate: 1000, samples: stereoRamp(100), seekErr: errors.New("not seekable")})
	if _, err := failing.Seek(audio.SeekCoarse, audio.SeekToTS(trackID, 10)); audio.KindOf(err) != audio.KindSeek {
		t.Errorf("Seek() error = %v, want a seek error", err)
	}
}

// BenchmarkReader_NextPacket benchmarks slicing decoded output into packets
func BenchmarkReader_NextPacket(b *testing.B) {
	samples := stereoRamp(44100 * 10)
	mock := &mockMP3Reader{sampleRate: 44100, samples: samples}
	r := newReader(mock)

	b.ReportAllocs()

	for b.Loop() {
		if _, err := r.NextPacket(); err != nil {
			mock.offset = 0
		}
	}
}
