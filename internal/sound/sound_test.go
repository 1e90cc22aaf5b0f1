package sound

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/wavtouch/internal/wav"
)

// newSleepingPlayer returns a player whose "audio command" is a shell that
// sleeps, so tests can observe and stop running processes without audio.
func newSleepingPlayer(t *testing.T, seconds string) *SystemPlayer {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell-based fake player needs a POSIX shell")
	}
	sh, err := exec.LookPath("sh")
	if err != nil {
		t.Skip("no sh available")
	}
	p := NewSystemPlayer(LoadCues(""))
	p.audioAvailable = true
	p.audioCommand = sh
	p.audioArgs = []string{"-c", "sleep " + seconds, "fake-player"}
	t.Cleanup(p.Close)
	return p
}

func TestNoopPlayer_ImplementsInterface(t *testing.T) {
	var _ Player = NoopPlayer{}
	var _ Player = &NoopPlayer{}
}

func TestNoopPlayer_DoesNotPanic(t *testing.T) {
	p := NoopPlayer{}
	require.NotPanics(t, func() {
		p.StopAll()
		p.PlayCue("")
		p.PlayCue(CueOpen)
		p.PlayData("x", nil)
	})
}

func TestSystemPlayer_ImplementsInterface(t *testing.T) {
	var _ Player = NewSystemPlayer(nil)
}

func TestCueNames(t *testing.T) {
	require.Equal(t, []string{
		"sound_open", "sound_close",
		"voice1", "voice2", "voice3", "voice4", "voice5", "voice6", "voice7",
	}, CueNames())
}

func TestLoadCues_BuiltInSetIsComplete(t *testing.T) {
	cues := LoadCues("")
	require.Len(t, cues, len(CueNames()))
	for name, data := range cues {
		s, err := wav.Decode(data)
		require.NoError(t, err, "built-in cue %s should be a mono PCM wav", name)
		require.Positive(t, s.Len())
	}
}

func TestLoadCues_DirectoryOverridesBuiltIn(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "voice3.wav"), []byte("custom"), 0644))

	cues := LoadCues(dir)
	require.Equal(t, []byte("custom"), cues["voice3"])
	require.NotEqual(t, []byte("custom"), cues["voice4"])
	require.Len(t, cues, len(CueNames()))
}

func TestLoadCues_MissingDirectoryFallsBack(t *testing.T) {
	cues := LoadCues(filepath.Join(t.TempDir(), "does-not-exist"))
	require.Len(t, cues, len(CueNames()))
}

func TestSystemPlayer_UnknownCue(t *testing.T) {
	p := NewSystemPlayer(map[string][]byte{})
	require.NotPanics(t, func() {
		p.PlayCue("nonexistent")
		p.PlayCue("")
	})
	require.Equal(t, 0, p.Playing())
}

func TestSystemPlayer_AudioNotAvailable(t *testing.T) {
	p := NewSystemPlayer(LoadCues(""))
	p.audioAvailable = false

	require.NotPanics(t, func() {
		p.PlayCue(CueOpen)
		p.PlayData("raw", []byte("RIFF"))
	})
	p.Close()
	require.Equal(t, 0, p.Playing())
	require.False(t, p.AudioAvailable())
}

func TestSystemPlayer_StopAllKillsRunning(t *testing.T) {
	p := newSleepingPlayer(t, "30")

	p.PlayCue(CueOpen)
	require.Eventually(t, func() bool { return p.Playing() == 1 }, 5*time.Second, 10*time.Millisecond)

	p.StopAll()
	require.Eventually(t, func() bool { return p.Playing() == 0 }, 5*time.Second, 10*time.Millisecond)
}

func TestSystemPlayer_StopThenPlayLeavesOne(t *testing.T) {
	p := newSleepingPlayer(t, "30")

	p.PlayCue("voice1")
	require.Eventually(t, func() bool { return p.Playing() == 1 }, 5*time.Second, 10*time.Millisecond)

	p.StopAll()
	require.Eventually(t, func() bool { return p.Playing() == 0 }, 5*time.Second, 10*time.Millisecond)
	p.PlayCue("voice2")
	require.Eventually(t, func() bool { return p.Playing() == 1 }, 5*time.Second, 10*time.Millisecond)
	require.Never(t, func() bool { return p.Playing() > 1 }, 200*time.Millisecond, 10*time.Millisecond)
}

func TestSystemPlayer_FinishedSoundsAreReaped(t *testing.T) {
	p := newSleepingPlayer(t, "0")

	p.PlayData("short", []byte("RIFF...."))
	p.wg.Wait()
	require.Equal(t, 0, p.Playing())
}

func TestSystemPlayer_EmptyDataIgnored(t *testing.T) {
	p := newSleepingPlayer(t, "30")
	p.PlayData("empty", nil)
	p.wg.Wait()
	require.Equal(t, 0, p.Playing())
}

func TestBuildArgs_DoesNotShareBackingArray(t *testing.T) {
	p := &SystemPlayer{audioArgs: make([]string, 1, 8)}
	p.audioArgs[0] = "-q"

	a := p.buildArgs("/tmp/a.wav")
	b := p.buildArgs("/tmp/b.wav")
	if runtime.GOOS != "windows" {
		require.Equal(t, []string{"-q", "/tmp/a.wav"}, a)
		require.Equal(t, []string{"-q", "/tmp/b.wav"}, b)
	}
}

func TestDetectAudioCommand(t *testing.T) {
	cmd, _ := detectAudioCommand()
	if cmd == "" {
		t.Log("No audio command available on this platform")
		return
	}
	_, err := exec.LookPath(cmd)
	require.NoError(t, err, "detected command should exist in PATH")
}
