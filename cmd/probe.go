package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zjrosen/wavtouch/internal/scrub"
	"github.com/zjrosen/wavtouch/internal/voice"
	"github.com/zjrosen/wavtouch/internal/wav"
)

// probeLineWidth is the number of voices printed per line.
const probeLineWidth = 64

func newProbeCmd() *cobra.Command {
	var frames int
	cmd := &cobra.Command{
		Use:   "probe <file.wav>",
		Short: "Decode a sound and print its voice sequence",
		Long: `Decode a mono PCM WAV file and print its header fields followed by
the voice played at every scrub position (one every 5 samples).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProbe(cmd, args[0], frames)
		},
	}
	cmd.Flags().IntVarP(&frames, "frames", "n", 0, "decode at most this many frames (0 = all)")
	return cmd
}

func runProbe(cmd *cobra.Command, path string, frames int) error {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from the command line
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	s, err := wav.DecodeFrames(data, frames)
	if err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "File:       %s\n", path)
	_, _ = fmt.Fprintf(out, "Channels:   %d\n", s.Channels)
	_, _ = fmt.Fprintf(out, "Width:      %d bytes\n", s.Width)
	_, _ = fmt.Fprintf(out, "Frame rate: %d Hz\n", s.FrameRate)
	_, _ = fmt.Fprintf(out, "Frames:     %d\n", s.Len())

	seq := VoiceSequence(s)
	_, _ = fmt.Fprintf(out, "Positions:  %d\n", len(seq))
	if len(seq) == 0 {
		return nil
	}
	_, _ = fmt.Fprintln(out)
	for start := 0; start < len(seq); start += probeLineWidth {
		end := min(start+probeLineWidth, len(seq))
		_, _ = fmt.Fprintf(out, "%6d  %s\n", start, seq[start:end])
	}
	return nil
}

// VoiceSequence returns the voice digit for every scrub position of s.
func VoiceSequence(s *wav.Samples) string {
	var b strings.Builder
	for pos := 0; pos < s.Len(); pos += scrub.Stride {
		v, _ := s.At(pos)
		b.WriteString(voice.Quantize(v).String())
	}
	return b.String()
}
