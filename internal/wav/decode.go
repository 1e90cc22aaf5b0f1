// Package wav decodes mono PCM8/PCM16 WAV payloads into normalized samples.
package wav

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/go-audio/wav"
)

// pcmFormat is the WAVE_FORMAT_PCM tag in the fmt chunk.
const pcmFormat = 1

// Samples is a fully decoded mono waveform.
type Samples struct {
	Channels  int
	Width     int // bytes per sample: 1 or 2
	FrameRate int
	Data      []float64 // normalized to roughly [-1, 1)
}

// Len returns the number of decoded frames.
func (s *Samples) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Data)
}

// At returns the sample at i and whether i was in range.
func (s *Samples) At(i int) (float64, bool) {
	if s == nil || i < 0 || i >= len(s.Data) {
		return 0, false
	}
	return s.Data[i], true
}

// Decode decodes every frame of a mono PCM WAV payload.
func Decode(data []byte) (*Samples, error) {
	return DecodeFrames(data, 0)
}

// DecodeFrames decodes at most n frames; n == 0 decodes all remaining frames.
func DecodeFrames(data []byte, n int) (*Samples, error) {
	if n < 0 {
		return nil, fmt.Errorf("negative frame count %d", n)
	}

	d := wav.NewDecoder(bytes.NewReader(data))
	if !d.IsValidFile() {
		reason := "not a RIFF/WAVE container"
		if err := d.Err(); err != nil {
			reason = err.Error()
		}
		return nil, &FormatError{Reason: reason}
	}
	if d.WavAudioFormat != pcmFormat {
		return nil, &FormatError{Reason: fmt.Sprintf("audio format %d is not PCM", d.WavAudioFormat)}
	}
	if d.NumChans != 1 {
		return nil, &FormatError{Reason: fmt.Sprintf("%d channels, want mono", d.NumChans)}
	}

	var scale float64
	switch d.BitDepth {
	case 8:
		scale = 1.0 / 256.0
	case 16:
		scale = 1.0 / 32768.0
	default:
		return nil, &UnsupportedWidthError{Bits: int(d.BitDepth)}
	}

	raw, err := readFrames(d, n, len(data))
	if err != nil {
		return nil, err
	}

	out := &Samples{
		Channels:  int(d.NumChans),
		Width:     int(d.BitDepth) / 8,
		FrameRate: int(d.SampleRate),
		Data:      make([]float64, len(raw)),
	}
	for i, v := range raw {
		out.Data[i] = float64(v) * scale
	}
	return out, nil
}

// readFrames reads min(n, declared) whole frames from the data chunk.
// A chunk that is not a whole number of frames, or that holds fewer
// bytes than its header declares, is rejected rather than padded.
func readFrames(d *wav.Decoder, n, available int) ([]int, error) {
	if err := d.FwdToPCM(); err != nil {
		return nil, &FormatError{Reason: fmt.Sprintf("locating pcm data: %v", err)}
	}

	width := int(d.BitDepth) / 8
	size := d.PCMLen()
	if size%int64(width) != 0 {
		return nil, &FormatError{Reason: fmt.Sprintf("pcm data length %d is not a multiple of %d", size, width)}
	}
	want := size / int64(width)
	if n > 0 && int64(n) < want {
		want = int64(n)
	}

	if want*int64(width) > int64(available) {
		return nil, &FormatError{Reason: fmt.Sprintf("truncated pcm data: header declares %d bytes", size)}
	}
	buf := make([]byte, want*int64(width))
	if _, err := io.ReadFull(d.PCMChunk, buf); err != nil {
		return nil, &FormatError{Reason: fmt.Sprintf("truncated pcm data: %v", err)}
	}

	out := make([]int, want)
	for i := range out {
		if width == 1 {
			// 8-bit frames are read back as signed bytes.
			out[i] = int(int8(buf[i])) //nolint:gosec // intentional wraparound
		} else {
			out[i] = int(int16(binary.LittleEndian.Uint16(buf[2*i:]))) //nolint:gosec // intentional wraparound
		}
	}
	return out, nil
}
