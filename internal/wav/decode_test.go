package wav

import (
	"bytes"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/audio"
	gowav "github.com/go-audio/wav"
	"github.com/stretchr/testify/require"
)

// buildWAV assembles a canonical 44-byte-header PCM WAV around raw frame bytes.
func buildWAV(t *testing.T, format, channels, bits uint16, rate uint32, frames []byte) []byte {
	t.Helper()
	var b bytes.Buffer
	blockAlign := channels * bits / 8
	w := func(v any) { require.NoError(t, binary.Write(&b, binary.LittleEndian, v)) }

	b.WriteString("RIFF")
	w(uint32(36 + len(frames)))
	b.WriteString("WAVE")
	b.WriteString("fmt ")
	w(uint32(16))
	w(format)
	w(channels)
	w(rate)
	w(rate * uint32(blockAlign))
	w(blockAlign)
	w(bits)
	b.WriteString("data")
	w(uint32(len(frames)))
	b.Write(frames)
	return b.Bytes()
}

func pcm16(values ...int16) []byte {
	out := make([]byte, 2*len(values))
	for i, v := range values {
		binary.LittleEndian.PutUint16(out[2*i:], uint16(v))
	}
	return out
}

// encodeWithLibrary writes a mono 16-bit WAV through go-audio's encoder.
func encodeWithLibrary(t *testing.T, rate int, values []int) []byte {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fixture.wav")
	f, err := os.Create(path)
	require.NoError(t, err)

	enc := gowav.NewEncoder(f, rate, 16, 1, 1)
	require.NoError(t, enc.Write(&audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: rate},
		Data:           values,
		SourceBitDepth: 16,
	}))
	require.NoError(t, enc.Close())
	require.NoError(t, f.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return data
}

func TestDecode_RoundTrip16Bit(t *testing.T) {
	data := encodeWithLibrary(t, 24000, []int{0, 16384, -16384, 32767, -32768})

	s, err := Decode(data)
	require.NoError(t, err)
	require.Equal(t, 1, s.Channels)
	require.Equal(t, 2, s.Width)
	require.Equal(t, 24000, s.FrameRate)
	require.Equal(t, 5, s.Len())

	want := []float64{0, 0.5, -0.5, 32767.0 / 32768.0, -1.0}
	for i := range want {
		require.InDelta(t, want[i], s.Data[i], 1e-9, "sample %d", i)
	}
}

func TestDecode_HandBuilt16Bit(t *testing.T) {
	data := buildWAV(t, 1, 1, 16, 8000, pcm16(0, 16384, -16384, 32767, -32768))

	s, err := Decode(data)
	require.NoError(t, err)
	require.Equal(t, 8000, s.FrameRate)
	require.InDeltaSlice(t, []float64{0, 0.5, -0.5, 32767.0 / 32768.0, -1.0}, s.Data, 1e-9)
}

func TestDecode_8BitIsSignedOver256(t *testing.T) {
	// 0x80 reads as -128, 0x7F as 127, 0xFF as -1.
	data := buildWAV(t, 1, 1, 8, 11025, []byte{0x00, 0x40, 0x7F, 0x80, 0xFF})

	s, err := Decode(data)
	require.NoError(t, err)
	require.Equal(t, 1, s.Width)
	require.InDeltaSlice(t, []float64{0, 0.25, 127.0 / 256.0, -0.5, -1.0 / 256.0}, s.Data, 1e-9)
}

func TestDecodeFrames_Bounded(t *testing.T) {
	data := buildWAV(t, 1, 1, 16, 8000, pcm16(1, 2, 3, 4, 5, 6))

	s, err := DecodeFrames(data, 4)
	require.NoError(t, err)
	require.Equal(t, 4, s.Len())
	require.InDelta(t, 4.0/32768.0, s.Data[3], 1e-12)
}

func TestDecodeFrames_BoundLargerThanPayload(t *testing.T) {
	data := buildWAV(t, 1, 1, 16, 8000, pcm16(7, 8, 9))

	s, err := DecodeFrames(data, 100)
	require.NoError(t, err)
	require.Equal(t, 3, s.Len())
}

func TestDecodeFrames_ZeroMeansAll(t *testing.T) {
	data := buildWAV(t, 1, 1, 16, 8000, pcm16(1, 2, 3, 4, 5, 6))

	s, err := DecodeFrames(data, 0)
	require.NoError(t, err)
	require.Equal(t, 6, s.Len())
}

func TestDecodeFrames_NegativeCount(t *testing.T) {
	data := buildWAV(t, 1, 1, 16, 8000, pcm16(1))

	_, err := DecodeFrames(data, -1)
	require.Error(t, err)
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name      string
		data      []byte
		wantWidth bool
	}{
		{"empty", nil, false},
		{"garbage", []byte("definitely not a wav file at all, nope"), false},
		{"stereo", buildWAV(t, 1, 2, 16, 8000, pcm16(1, 2, 3, 4)), false},
		{"float format", buildWAV(t, 3, 1, 32, 8000, make([]byte, 8)), false},
		{"24-bit", buildWAV(t, 1, 1, 24, 8000, make([]byte, 9)), true},
		{"32-bit", buildWAV(t, 1, 1, 32, 8000, make([]byte, 8)), true},
		{"truncated 16-bit data", truncate(buildWAV(t, 1, 1, 16, 8000, pcm16(1, 2, 3, 4)), 3), false},
		{"truncated on a frame boundary", truncate(buildWAV(t, 1, 1, 16, 8000, pcm16(1, 2, 3, 4)), 4), false},
		{"odd byte count for 16-bit", buildWAV(t, 1, 1, 16, 8000, []byte{1, 0, 2}), false},
		{"truncated 8-bit data", truncate(buildWAV(t, 1, 1, 8, 8000, []byte{1, 2, 3, 4}), 1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.data)
			require.Error(t, err)

			var widthErr *UnsupportedWidthError
			var formatErr *FormatError
			if tt.wantWidth {
				require.True(t, errors.As(err, &widthErr), "expected UnsupportedWidthError, got %T", err)
			} else {
				require.True(t, errors.As(err, &formatErr), "expected FormatError, got %T", err)
			}
		})
	}
}

// truncate drops the last n bytes, leaving the header's data size untouched.
func truncate(data []byte, n int) []byte {
	return data[:len(data)-n]
}

func TestDecode_LengthMatchesDeclaredFrames(t *testing.T) {
	s, err := Decode(buildWAV(t, 1, 1, 16, 8000, pcm16(1, 2, 3, 4)))
	require.NoError(t, err)
	require.Equal(t, 4, s.Len())

	_, err = Decode(truncate(buildWAV(t, 1, 1, 16, 8000, pcm16(1, 2, 3, 4)), 3))
	var formatErr *FormatError
	require.True(t, errors.As(err, &formatErr), "expected FormatError, got %v", err)
	require.Contains(t, formatErr.Error(), "truncated")
}

func TestDecodeFrames_BoundWithinTruncatedData(t *testing.T) {
	data := truncate(buildWAV(t, 1, 1, 16, 8000, pcm16(1, 2, 3, 4)), 3)

	s, err := DecodeFrames(data, 2)
	require.NoError(t, err)
	require.Equal(t, 2, s.Len())
	require.InDelta(t, 2.0/32768.0, s.Data[1], 1e-12)

	_, err = DecodeFrames(data, 3)
	require.Error(t, err, "the third frame is only half present")
}

func TestSamples_At(t *testing.T) {
	s := &Samples{Data: []float64{0.1, 0.2}}

	v, ok := s.At(1)
	require.True(t, ok)
	require.Equal(t, 0.2, v)

	_, ok = s.At(2)
	require.False(t, ok)
	_, ok = s.At(-1)
	require.False(t, ok)

	var empty *Samples
	require.Equal(t, 0, empty.Len())
	_, ok = empty.At(0)
	require.False(t, ok)
}

func TestErrorMessages(t *testing.T) {
	require.Equal(t, "invalid wav payload: 2 channels, want mono", (&FormatError{Reason: "2 channels, want mono"}).Error())
	require.Equal(t, "unsupported sample width: 24 bits", (&UnsupportedWidthError{Bits: 24}).Error())
}
