// Package cmd implements the wavtouch command line.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/zjrosen/wavtouch/internal/catalog"
	"github.com/zjrosen/wavtouch/internal/config"
	"github.com/zjrosen/wavtouch/internal/log"
	"github.com/zjrosen/wavtouch/internal/scrub"
	"github.com/zjrosen/wavtouch/internal/sound"
	"github.com/zjrosen/wavtouch/internal/tracing"
	"github.com/zjrosen/wavtouch/internal/ui/kiosk"
	"github.com/zjrosen/wavtouch/internal/ui/styles"
	"github.com/zjrosen/wavtouch/internal/watcher"
)

// debugLogFile is used when -d is given without --log.
const debugLogFile = "wavtouch-debug.log"

// app carries state shared by the root command and its subcommands.
type app struct {
	v     *viper.Viper
	cfg   config.Config
	debug int
}

// flagKeys maps config keys to the persistent flags that set them.
var flagKeys = map[string]string{
	"fullscreen":        "fullscreen",
	"width":             "width",
	"height":            "height",
	"sound_dir":         "sound-dir",
	"catalog.timeout":   "timeout",
	"watch":             "watch",
	"colors.foreground": "fg",
	"colors.background": "bg",
	"log.path":          "log",
	"trace.exporter":    "trace",
	"trace.endpoint":    "trace-endpoint",
	"trace.path":        "trace-path",
}

// NewRootCmd builds the wavtouch command tree.
func NewRootCmd() *cobra.Command {
	a := &app{v: config.NewViper()}

	root := &cobra.Command{
		Use:   "wavtouch [sources...]",
		Short: "Touch-screen sound kiosk",
		Long: `wavtouch shows a menu of sounds loaded from a local directory or a
LAN server and lets you scrub through a sound's waveform, playing one of
seven voice cues for the amplitude under the cursor.

Sources are tried in order; the first one that yields any sounds wins.
With no sources the LAN server (//wavtouch/) and then ./wavs/ are tried.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.loadConfig,
		RunE:              a.runKiosk,
	}

	d := config.Defaults()
	f := root.PersistentFlags()
	f.BoolP("fullscreen", "f", d.Fullscreen, "fill the whole terminal")
	f.Int("width", d.Width, "windowed canvas width in cells")
	f.Int("height", d.Height, "windowed canvas height in cells")
	f.String("sound-dir", d.SoundDir, "directory holding cue .wav files (default: built-in cues)")
	f.Duration("timeout", d.Catalog.Timeout, "per-source catalog load timeout")
	f.Bool("watch", d.Watch, "reload the menu when a local index.txt changes")
	f.String("fg", d.Colors.Foreground, "label color")
	f.String("bg", d.Colors.Background, "canvas color")
	f.String("log", d.Log.Path, "write logs to this file")
	f.CountVarP(&a.debug, "debug", "d", "enable debug logging (repeat for trace)")
	f.String("trace", d.Trace.Exporter, "span exporter: none, stdout, otlp")
	f.String("trace-endpoint", d.Trace.Endpoint, "OTLP gRPC collector address")
	f.String("trace-path", d.Trace.Path, "file for the stdout span exporter")
	bindFlags(a.v, f)

	root.AddCommand(newProbeCmd(), newCatalogCmd(a), newConfigCmd(a))
	return root
}

// Execute runs the root command.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return NewRootCmd().ExecuteContext(ctx)
}

func bindFlags(v *viper.Viper, f *pflag.FlagSet) {
	for key, name := range flagKeys {
		// Lookup cannot fail: every name is registered above.
		_ = v.BindPFlag(key, f.Lookup(name))
	}
}

func (a *app) loadConfig(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.v)
	if err != nil {
		return err
	}
	if a.debug > 0 {
		if cfg.Log.Path == "" {
			cfg.Log.Path = debugLogFile
		}
		cfg.Log.Level = "debug"
		if a.debug > 1 {
			cfg.Log.Level = "trace"
		}
	}
	a.cfg = cfg
	return nil
}

// useSources replaces the configured sources with positional arguments.
func (a *app) useSources(args []string) error {
	if len(args) == 0 {
		return nil
	}
	a.cfg.Sources = append([]string(nil), args...)
	return a.cfg.Validate()
}

// startLogging routes logs to the configured file. The returned func
// restores the discard logger and closes the file.
func (a *app) startLogging() (func(), error) {
	closeLog, err := log.Init(a.cfg.Log.Path, log.ParseLevel(a.cfg.Log.Level))
	if err != nil {
		return nil, err
	}
	return func() {
		log.Disable()
		_ = closeLog()
	}, nil
}

func (a *app) newLoader() *catalog.Loader {
	return catalog.NewLoader(catalog.Config{
		Sources:    a.cfg.Sources,
		Timeout:    a.cfg.Catalog.Timeout,
		Discoverer: catalog.NewDiscoverer(a.cfg.Catalog.DiscoveryTTL),
	})
}

func (a *app) runKiosk(cmd *cobra.Command, args []string) error {
	if err := a.useSources(args); err != nil {
		return err
	}
	stopLog, err := a.startLogging()
	if err != nil {
		return err
	}
	defer stopLog()

	ctx := cmd.Context()
	shutdown, err := tracing.Setup(ctx, a.cfg.Trace)
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			log.ErrorErr(log.CatTrace, "Trace shutdown failed", err)
		}
	}()

	if err := styles.ApplyColors(a.cfg.Colors); err != nil {
		return err
	}

	player := sound.NewSystemPlayer(sound.LoadCues(a.cfg.SoundDir))
	defer player.Close()
	if !player.AudioAvailable() {
		log.Warn(log.CatAudio, "No audio player found, running silent")
	}

	canvas := &kiosk.Canvas{}
	machine := scrub.New(a.newLoader(), player, canvas)
	machine.Start(ctx)

	var reloads <-chan struct{}
	if a.cfg.Watch {
		w, err := a.startWatcher()
		if err != nil {
			log.ErrorErr(log.CatCatalog, "Catalog watch disabled", err)
		} else {
			defer func() { _ = w.Stop() }()
			reloads = w.Events()
		}
	}

	model := kiosk.New(ctx, machine, canvas, kiosk.Options{
		Fullscreen: a.cfg.Fullscreen,
		Width:      a.cfg.Width,
		Height:     a.cfg.Height,
		Reloads:    reloads,
	})

	opts := []tea.ProgramOption{tea.WithContext(ctx), tea.WithMouseCellMotion()}
	if a.cfg.Fullscreen {
		opts = append(opts, tea.WithAltScreen())
	}
	if _, err := tea.NewProgram(model, opts...).Run(); err != nil {
		return fmt.Errorf("running kiosk: %w", err)
	}
	return nil
}

// startWatcher watches the local sources that exist.
func (a *app) startWatcher() (*watcher.Watcher, error) {
	var dirs []string
	for _, s := range a.cfg.LocalSources() {
		if info, err := os.Stat(s); err == nil && info.IsDir() {
			dirs = append(dirs, filepath.Clean(s))
		}
	}
	w, err := watcher.New(watcher.Config{Dirs: dirs, Debounce: a.cfg.WatchDebounce})
	if err != nil {
		return nil, err
	}
	if err := w.Start(); err != nil {
		_ = w.Stop()
		return nil, err
	}
	return w, nil
}
