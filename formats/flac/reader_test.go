// SPDX-License-Identifier: EPL-2.0

package flac

import (
	"bytes"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/ik5/playdec/audio"
	"github.com/ik5/playdec/formats/pcm"
	"github.com/mewkiz/flac/frame"
	"github.com/mewkiz/flac/meta"
)

// mockStream simulates flac.Stream with fixed size frames.
type mockStream struct {
	channels  int
	blockSize int
	samples   [][]int32 // per channel
	pos       int
	parseErr  error
	seekErr   error
	closed    bool
}

func (m *mockStream) ParseNext() (*frame.Frame, error) {
	if m.parseErr != nil {
		return nil, m.parseErr
	}
	if m.pos >= len(m.samples[0]) {
		return nil, io.EOF
	}

	end := min(m.pos+m.blockSize, len(m.samples[0]))
	f := &frame.Frame{}
	for ch := range m.channels {
		f.Subframes = append(f.Subframes, &frame.Subframe{Samples: m.samples[ch][m.pos:end]})
	}
	m.pos = end

	return f, nil
}

func (m *mockStream) Seek(sampleNum uint64) (uint64, error) {
	if m.seekErr != nil {
		return 0, m.seekErr
	}

	start := int(sampleNum) / m.blockSize * m.blockSize
	m.pos = start
	return uint64(start), nil
}

func (m *mockStream) Close() error {
	m.closed = true
	return nil
}

// newMockStream fills channel c of sample i with i*(c+1).
func newMockStream(channels, blockSize, samples int) *mockStream {
	m := &mockStream{channels: channels, blockSize: blockSize}
	for ch := range channels {
		data := make([]int32, samples)
		for i := range data {
			data[i] = int32(i * (ch + 1))
		}
		m.samples = append(m.samples, data)
	}

	return m
}

func mustReader(t *testing.T, m *mockStream, bits int) *reader {
	t.Helper()

	r, err := newReader(m, streamInfo{
		sampleRate: 1000,
		channels:   m.channels,
		bits:       bits,
		samples:    uint64(len(m.samples[0])),
		maxBlock:   m.blockSize,
	})
	if err != nil {
		t.Fatalf("newReader() error = %v, want nil", err)
	}

	return r
}

func TestSniff(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		header string
		want   bool
	}{
		{"flac", "fLaC\x00\x00\x00\x22", true},
		{"ogg flac", "OggS\x00\x02", false},
		{"id3", "ID3\x04", false},
		{"short", "fLa", false},
	}

	for _, tt := range tests {
		if got := Sniff([]byte(tt.header)); got != tt.want {
			t.Errorf("Sniff(%s) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestOpen_InvalidInput(t *testing.T) {
	t.Parallel()

	for _, data := range [][]byte{{}, []byte("This is not FLAC data")} {
		if _, err := Open(bytes.NewReader(data)); !errors.Is(err, ErrNotFLAC) {
			t.Errorf("Open(%q) error = %v, want ErrNotFLAC", data, err)
		}
	}
}

func TestNewReader_Params(t *testing.T) {
	t.Parallel()

	tests := []struct {
		bits  int
		codec audio.CodecType
	}{
		{8, audio.CodecPCMS8},
		{12, audio.CodecPCMS16LE},
		{16, audio.CodecPCMS16LE},
		{20, audio.CodecPCMS24LE},
		{24, audio.CodecPCMS24LE},
		{32, audio.CodecPCMS32LE},
	}

	for _, tt := range tests {
		r := mustReader(t, newMockStream(2, 4096, 10000), tt.bits)

		params := r.Tracks()[0].Params
		if params.Codec != tt.codec {
			t.Errorf("%d bits: Codec = %s, want %s", tt.bits, params.Codec, tt.codec)
		}
		if params.Channels != audio.LayoutStereo || params.NFrames != 10000 || params.MaxFramesPerPacket != 4096 {
			t.Errorf("%d bits: params = %+v", tt.bits, params)
		}
	}
}

func TestNewReader_Rejects(t *testing.T) {
	t.Parallel()

	tests := []streamInfo{
		{sampleRate: 44100, channels: 0, bits: 16},
		{sampleRate: 44100, channels: 9, bits: 16},
		{sampleRate: 0, channels: 2, bits: 16},
		{sampleRate: 44100, channels: 2, bits: 0},
		{sampleRate: 44100, channels: 2, bits: 33},
	}

	for _, info := range tests {
		if _, err := newReader(newMockStream(2, 16, 16), info); !errors.Is(err, ErrUnsupportedLayout) {
			t.Errorf("newReader(%+v) error = %v, want ErrUnsupportedLayout", info, err)
		}
	}
}

func TestRevisionFromComment(t *testing.T) {
	t.Parallel()

	rev := revisionFromComment(&meta.VorbisComment{
		Vendor: "reference libFLAC 1.4.3",
		Tags:   [][2]string{{"title", "Songs"}, {"ReplayGain_Track_Gain", "-3.2 dB"}},
	})

	if rev.Vendor != "reference libFLAC 1.4.3" {
		t.Errorf("Vendor = %q", rev.Vendor)
	}
	want := []audio.Tag{{Key: "TITLE", Value: "Songs"}, {Key: "REPLAYGAIN_TRACK_GAIN", Value: "-3.2 dB"}}
	if len(rev.Tags) != len(want) {
		t.Fatalf("Tags = %v, want %v", rev.Tags, want)
	}
	for i := range want {
		if rev.Tags[i] != want[i] {
			t.Errorf("Tags[%d] = %v, want %v", i, rev.Tags[i], want[i])
		}
	}
}

func TestReader_NextPacket(t *testing.T) {
	t.Parallel()

	r := mustReader(t, newMockStream(2, 4096, 4096+100), 16)

	first, err := r.NextPacket()
	if err != nil {
		t.Fatalf("NextPacket() error = %v, want nil", err)
	}
	if first.TS != 0 || first.Dur != 4096 || len(first.Data) != 4096*2*2 {
		t.Errorf("first packet ts=%d dur=%d bytes=%d", first.TS, first.Dur, len(first.Data))
	}

	// Frame 1 interleaves as L=1, R=2.
	if !bytes.Equal(first.Data[4:8], []byte{1, 0, 2, 0}) {
		t.Errorf("frame 1 bytes = % x, want 01 00 02 00", first.Data[4:8])
	}

	second, err := r.NextPacket()
	if err != nil {
		t.Fatalf("NextPacket() error = %v, want nil", err)
	}
	if second.TS != 4096 || second.Dur != 100 {
		t.Errorf("second packet ts=%d dur=%d, want 4096, 100", second.TS, second.Dur)
	}

	if _, err := r.NextPacket(); !audio.IsEndOfStream(err) {
		t.Errorf("NextPacket() at end error = %v, want end of stream", err)
	}
}

func TestReader_DecodesThroughPCM(t *testing.T) {
	t.Parallel()

	m := newMockStream(1, 16, 16)
	m.samples[0][3] = -0x800
	r := mustReader(t, m, 12)

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

	// 12-bit samples are scaled up to 16 bits.
	if got := audio.ExtractSample(buf, 0, 2); got != 2<<4 {
		t.Errorf("sample 2 = %d, want %d", got, 2<<4)
	}
	if got := audio.ExtractSample(buf, 0, 3); got != -0x8000 {
		t.Errorf("sample 3 = %d, want %d", got, -0x8000)
	}
}

func TestReader_ParseErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		kind audio.ErrorKind
	}{
		{errors.New("frame.Frame.parseHeader: CRC-8 mismatch"), audio.KindDecode},
		{io.ErrUnexpectedEOF, audio.KindIO},
	}

	for _, tt := range tests {
		m := newMockStream(1, 16, 16)
		m.parseErr = tt.err
		r := mustReader(t, m, 16)

		_, err := r.NextPacket()
		if !errors.Is(err, tt.err) || audio.KindOf(err) != tt.kind {
			t.Errorf("NextPacket() error = %v, want %v of kind %v", err, tt.err, tt.kind)
		}
		if audio.IsEndOfStream(err) {
			t.Errorf("IsEndOfStream(%v) = true, want false", err)
		}
	}
}

func TestReader_ChannelMismatch(t *testing.T) {
	t.Parallel()

	m := newMockStream(2, 16, 16)
	r := mustReader(t, m, 16)
	m.channels = 1

	if _, err := r.NextPacket(); audio.Classify(err) != audio.RecoverSkip {
		t.Errorf("NextPacket() error = %v, want a skippable decode error", err)
	}
}

func TestReader_Seek(t *testing.T) {
	t.Parallel()

	tests := []struct {
		mode     audio.SeekMode
		wantTS   uint64
		wantDur  uint64
		wantHead int32
	}{
		{audio.SeekCoarse, 4096, 4096, 4096},
		{audio.SeekAccurate, 5000, 4096 - 904, 5000},
	}

	for _, tt := range tests {
		r := mustReader(t, newMockStream(1, 4096, 20000), 16)

		got, err := r.Seek(tt.mode, audio.SeekToTS(trackID, 5000))
		if err != nil {
			t.Fatalf("Seek() error = %v, want nil", err)
		}
		if got.RequiredTS != 5000 || got.ActualTS != tt.wantTS {
			t.Errorf("Seek(%v) = %+v, want actual %d", tt.mode, got, tt.wantTS)
		}

		pkt, err := r.NextPacket()
		if err != nil {
			t.Fatalf("NextPacket() error = %v, want nil", err)
		}
		if pkt.TS != tt.wantTS || pkt.Dur != tt.wantDur {
			t.Errorf("Seek(%v): packet ts=%d dur=%d, want %d, %d", tt.mode, pkt.TS, pkt.Dur, tt.wantTS, tt.wantDur)
		}
		if head := int32(int16(uint16(pkt.Data[0]) | uint16(pkt.Data[1])<<8)); head != tt.wantHead {
			t.Errorf("Seek(%v): first sample = %d, want %d", tt.mode, head, tt.wantHead)
		}
	}
}

func TestReader_SeekByTime(t *testing.T) {
	t.Parallel()

	r := mustReader(t, newMockStream(1, 1000, 20000), 16)

	got, err := r.Seek(audio.SeekCoarse, audio.SeekToTime(trackID, 3500*time.Millisecond))
	if err != nil {
		t.Fatalf("Seek() error = %v, want nil", err)
	}
	if got.RequiredTS != 3500 || got.ActualTS != 3000 {
		t.Errorf("Seek() = %+v, want 3500 -> 3000", got)
	}
}

func TestReader_SeekErrors(t *testing.T) {
	t.Parallel()

	m := newMockStream(1, 16, 100)
	r := mustReader(t, m, 16)

	if _, err := r.Seek(audio.SeekCoarse, audio.SeekToTS(trackID, 100)); audio.KindOf(err) != audio.KindSeek {
		t.Errorf("Seek(past end) error = %v, want a seek error", err)
	}
	if _, err := r.Seek(audio.SeekCoarse, audio.SeekToTS(2, 0)); audio.KindOf(err) != audio.KindSeek {
		t.Errorf("Seek(unknown track) error = %v, want a seek error", err)
	}

	m.seekErr = errors.New("flac.Stream.Seek: no seek table")
	if _, err := r.Seek(audio.SeekCoarse, audio.SeekToTS(trackID, 10)); !errors.Is(err, m.seekErr) || audio.KindOf(err) != audio.KindSeek {
		t.Errorf("Seek() error = %v, want a seek error wrapping %v", err, m.seekErr)
	}
}

func TestReader_Close(t *testing.T) {
	t.Parallel()

	m := newMockStream(1, 16, 16)
	r := mustReader(t, m, 16)

	if err := r.Close(); err != nil {
		t.Fatalf("Close() error = %v, want nil", err)
	}
	if !m.closed {
		t.Error("Close() did not close the stream")
	}
}

// BenchmarkReader_NextPacket benchmarks interleaving 16-bit stereo frames
func BenchmarkReader_NextPacket(b *testing.B) {
	m := newMockStream(2, 4096, 44100*10)
	r, err := newReader(m, streamInfo{sampleRate: 44100, channels: 2, bits: 16, maxBlock: 4096})
	if err != nil {
		b.Fatal(err)
	}

	b.ReportAllocs()

	for b.Loop() {
		if _, err := r.NextPacket(); err != nil {
			m.pos = 0
		}
	}
}
