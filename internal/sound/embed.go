// Package sound plays kiosk cues and previews.
// It supports cross-platform playback via OS-native audio commands.
package sound

import "embed"

// defaultCues contains the built-in cue set used when the sound directory
// does not provide a cue.
//
//go:embed sounds/*.wav
var defaultCues embed.FS
