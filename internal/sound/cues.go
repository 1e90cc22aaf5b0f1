package sound

import (
	"os"
	"path/filepath"

	"github.com/zjrosen/wavtouch/internal/log"
	"github.com/zjrosen/wavtouch/internal/voice"
)

// Fixed cue names.
const (
	CueOpen  = "sound_open"
	CueClose = "sound_close"
)

// CueNames lists every cue loaded at startup.
func CueNames() []string {
	return append([]string{CueOpen, CueClose}, voice.Cues()...)
}

// LoadCues reads <dir>/<name>.wav for every cue name. Cues missing from
// dir fall back to the built-in set; a cue with neither is left out and
// logged.
func LoadCues(dir string) map[string][]byte {
	cues := make(map[string][]byte, len(CueNames()))
	for _, name := range CueNames() {
		if dir != "" {
			path := filepath.Join(dir, name+".wav")
			data, err := os.ReadFile(path) //nolint:gosec // sound directory is user-supplied
			if err == nil {
				cues[name] = data
				continue
			}
			log.Debug(log.CatAudio, "Cue not in sound directory, using built-in", "cue", name, "path", path, "error", err)
		}

		data, err := defaultCues.ReadFile("sounds/" + name + ".wav")
		if err != nil {
			log.Warn(log.CatAudio, "No cue available", "cue", name, "error", err)
			continue
		}
		cues[name] = data
	}
	return cues
}
