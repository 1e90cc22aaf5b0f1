package sound

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"sync"

	"github.com/zjrosen/wavtouch/internal/log"
)

// Player plays cues and raw WAV buffers. Implementations handle all errors
// internally; playback is fire-and-forget.
type Player interface {
	// StopAll silences everything currently playing.
	StopAll()
	// PlayCue plays a named cue. Unknown cues are ignored.
	PlayCue(name string)
	// PlayData plays a raw WAV buffer. label is only used for logging.
	PlayData(label string, data []byte)
}

// NoopPlayer is a Player that does nothing.
// Use this as a safe default when audio is disabled or unavailable.
type NoopPlayer struct{}

// StopAll does nothing.
func (NoopPlayer) StopAll() {}

// PlayCue does nothing.
func (NoopPlayer) PlayCue(string) {}

// PlayData does nothing.
func (NoopPlayer) PlayData(string, []byte) {}

// SystemPlayer plays sounds via OS-native audio commands. Each sound runs
// in its own player process; StopAll kills every running process, so at
// most one sound is audible when callers stop before playing.
type SystemPlayer struct {
	cues           map[string][]byte
	audioAvailable bool
	audioCommand   string
	audioArgs      []string

	mu      sync.Mutex
	gen     uint64
	running map[*exec.Cmd]struct{}
	wg      sync.WaitGroup
}

// NewSystemPlayer creates a player for the given cue set (see LoadCues).
func NewSystemPlayer(cues map[string][]byte) *SystemPlayer {
	cmd, args := detectAudioCommand()
	available := cmd != ""

	log.Debug(log.CatAudio, "Sound player initialized",
		"audioAvailable", available,
		"audioCommand", cmd,
		"platform", runtime.GOOS,
		"cues", len(cues),
	)

	return &SystemPlayer{
		cues:           cues,
		audioAvailable: available,
		audioCommand:   cmd,
		audioArgs:      args,
		running:        make(map[*exec.Cmd]struct{}),
	}
}

// PlayCue plays a named cue asynchronously.
func (p *SystemPlayer) PlayCue(name string) {
	data, ok := p.cues[name]
	if !ok {
		log.Debug(log.CatAudio, "Unknown cue", "cue", name)
		return
	}
	p.PlayData(name, data)
}

// PlayData plays a raw WAV buffer asynchronously.
// Does nothing if no audio player is available or data is empty.
func (p *SystemPlayer) PlayData(label string, data []byte) {
	if !p.audioAvailable {
		log.Debug(log.CatAudio, "No audio player available", "sound", label)
		return
	}
	if len(data) == 0 {
		log.Debug(log.CatAudio, "Empty sound buffer", "sound", label)
		return
	}

	p.mu.Lock()
	gen := p.gen
	p.mu.Unlock()

	p.wg.Add(1)
	go p.playAsync(gen, label, data)
}

// StopAll kills every running player process and cancels sounds that
// have been requested but not started yet.
func (p *SystemPlayer) StopAll() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.gen++
	for cmd := range p.running {
		if cmd.Process == nil {
			continue
		}
		if err := cmd.Process.Kill(); err != nil {
			log.Debug(log.CatAudio, "Failed to stop player", "pid", cmd.Process.Pid, "error", err)
		}
	}
}

// Close stops all playback and waits for player processes to exit.
func (p *SystemPlayer) Close() {
	p.StopAll()
	p.wg.Wait()
}

// Playing returns the number of running player processes.
func (p *SystemPlayer) Playing() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.running)
}

// AudioAvailable returns true if an audio player was detected on this platform.
func (p *SystemPlayer) AudioAvailable() bool {
	return p.audioAvailable
}

// playAsync handles the actual playback in a goroutine.
func (p *SystemPlayer) playAsync(gen uint64, label string, data []byte) {
	defer p.wg.Done()

	tmpFile, err := os.CreateTemp("", "wavtouch-sound-*.wav")
	if err != nil {
		log.Debug(log.CatAudio, "Failed to create temp file", "sound", label, "error", err)
		return
	}
	tmpPath := tmpFile.Name()
	defer func() {
		if err := os.Remove(tmpPath); err != nil {
			log.Debug(log.CatAudio, "Failed to remove temp file", "sound", label, "error", err)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		if closeErr := tmpFile.Close(); closeErr != nil {
			log.Debug(log.CatAudio, "Failed to close temp file after write error", "sound", label, "error", closeErr)
		}
		log.Debug(log.CatAudio, "Failed to write temp file", "sound", label, "error", err)
		return
	}
	if err := tmpFile.Close(); err != nil {
		log.Debug(log.CatAudio, "Failed to close temp file", "sound", label, "error", err)
		return
	}

	cmd := exec.Command(p.audioCommand, p.buildArgs(tmpPath)...) //nolint:gosec // audioCommand validated at construction

	p.mu.Lock()
	if gen != p.gen {
		// StopAll ran while the temp file was being written.
		p.mu.Unlock()
		log.Debug(log.CatAudio, "Sound cancelled before start", "sound", label)
		return
	}
	if err := cmd.Start(); err != nil {
		p.mu.Unlock()
		log.Debug(log.CatAudio, "Audio playback failed to start", "sound", label, "error", err)
		return
	}
	p.running[cmd] = struct{}{}
	p.mu.Unlock()

	err = cmd.Wait()

	p.mu.Lock()
	delete(p.running, cmd)
	p.mu.Unlock()

	if err != nil {
		log.Debug(log.CatAudio, "Audio playback ended", "sound", label, "error", err)
	}
}

// buildArgs constructs command arguments for the audio player.
// Creates a new slice to avoid data races from shared backing arrays.
func (p *SystemPlayer) buildArgs(tmpPath string) []string {
	if runtime.GOOS == "windows" {
		return []string{"-c", fmt.Sprintf("(New-Object System.Media.SoundPlayer '%s').PlaySync()", tmpPath)}
	}

	args := make([]string, len(p.audioArgs)+1)
	copy(args, p.audioArgs)
	args[len(args)-1] = tmpPath
	return args
}

// detectAudioCommand returns the audio command and base arguments for the current platform.
// Returns empty string if no audio player is available.
func detectAudioCommand() (string, []string) {
	switch runtime.GOOS {
	case "darwin":
		if path, err := exec.LookPath("afplay"); err == nil {
			return path, nil
		}
	case "linux":
		// prefer paplay (PulseAudio), fall back to aplay (ALSA)
		if path, err := exec.LookPath("paplay"); err == nil {
			return path, nil
		}
		if path, err := exec.LookPath("aplay"); err == nil {
			return path, []string{"-q"}
		}
	case "windows":
		if path, err := exec.LookPath("powershell.exe"); err == nil {
			return path, nil
		}
	}
	return "", nil
}
