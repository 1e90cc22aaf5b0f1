// Package scrub implements the kiosk's navigation and playback state
// machine: browsing the catalog menu, and scrubbing through the samples of
// one selected sound to trigger voice cues.
package scrub

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/zjrosen/wavtouch/internal/catalog"
	"github.com/zjrosen/wavtouch/internal/log"
	"github.com/zjrosen/wavtouch/internal/sound"
	"github.com/zjrosen/wavtouch/internal/voice"
	"github.com/zjrosen/wavtouch/internal/wav"
)

// Stride is the number of samples advanced per scrub step.
const Stride = 5

// Labels shown on mode entry.
const (
	LabelIndex = "INDEX"
	LabelFile  = "FILE"
)

var tracer = otel.Tracer("github.com/zjrosen/wavtouch/internal/scrub")

// Mode tags the machine's current state.
type Mode int

const (
	ModeMenu Mode = iota
	ModeScrub
)

// String returns the mode name.
func (m Mode) String() string {
	if m == ModeScrub {
		return "scrub"
	}
	return "menu"
}

// CatalogSource loads the current catalog. Implementations must not fail:
// unavailable sources degrade to an empty catalog.
type CatalogSource interface {
	Load(ctx context.Context) *catalog.Catalog
}

// Display shows one short text label.
type Display interface {
	Show(label string)
}

// Machine holds the navigation state. It is not safe for concurrent use;
// the UI event loop is its only caller.
type Machine struct {
	source  CatalogSource
	audio   sound.Player
	display Display

	mode    Mode
	cursor  Cursor
	catalog *catalog.Catalog
	samples *wav.Samples
	preview *catalog.Entry
	label   string
}

// New creates a machine in menu mode with an empty catalog. Call Start to
// perform the first catalog load.
func New(source CatalogSource, audio sound.Player, display Display) *Machine {
	if audio == nil {
		audio = sound.NoopPlayer{}
	}
	return &Machine{
		source:  source,
		audio:   audio,
		display: display,
		catalog: &catalog.Catalog{},
	}
}

// Start loads the catalog and enters the menu.
func (m *Machine) Start(ctx context.Context) {
	m.audio.StopAll()
	m.enterMenu(ctx)
}

// Handle applies one input. It returns false when the input ends the run.
func (m *Machine) Handle(ctx context.Context, a Action) bool {
	m.audio.StopAll()
	if a == ActionQuit {
		log.Info(log.CatUI, "Quit requested")
		return false
	}

	switch m.mode {
	case ModeMenu:
		m.handleMenu(ctx, a)
	case ModeScrub:
		m.handleScrub(ctx, a)
	}
	return true
}

func (m *Machine) handleMenu(ctx context.Context, a Action) {
	switch a {
	case ActionCancel:
		m.enterMenu(ctx)
	case ActionConfirm:
		if i, ok := m.cursor.Index(); ok {
			m.enterScrub(ctx, i)
		}
	default:
		d, ok := a.Direction()
		if !ok {
			return
		}
		m.cursor = m.cursor.Move(d, m.catalog.Len())
		i, ok := m.cursor.Index()
		if !ok {
			return
		}
		entry, ok := m.catalog.Entry(i)
		if !ok {
			return
		}
		m.preview = &entry
		m.audio.PlayData(entry.Name, entry.Data)
		m.show(entry.Name)
	}
}

func (m *Machine) handleScrub(ctx context.Context, a Action) {
	switch a {
	case ActionCancel:
		m.enterMenu(ctx)
	case ActionConfirm:
		if m.preview != nil {
			m.audio.PlayData(m.preview.Name, m.preview.Data)
		}
	default:
		d, ok := a.Direction()
		if !ok {
			return
		}
		m.cursor = m.cursor.Move(d, m.samples.Len())
		i, ok := m.cursor.Index()
		if !ok {
			return
		}
		pos := i * Stride
		sample, ok := m.samples.At(pos)
		if !ok {
			log.Debug(log.CatUI, "Scrub position past end", "cursor", i, "position", pos, "samples", m.samples.Len())
			return
		}
		v := voice.Quantize(sample)
		m.audio.PlayCue(v.Cue())
		m.show(v.String())
	}
}

// enterMenu reloads the catalog and resets navigation.
func (m *Machine) enterMenu(ctx context.Context) {
	log.Debug(log.CatUI, "Entering menu")

	c := m.source.Load(ctx)
	if c == nil {
		c = &catalog.Catalog{}
	}
	m.catalog = c
	m.samples = nil
	m.mode = ModeMenu
	m.cursor = Cursor{}
	m.show(LabelIndex)
	m.audio.PlayCue(sound.CueClose)
}

// enterScrub decodes entry i and switches to scrub mode. A payload that
// does not decode is skipped and the menu stays as it was.
func (m *Machine) enterScrub(ctx context.Context, i int) {
	entry, ok := m.catalog.Entry(i)
	if !ok {
		return
	}
	log.Debug(log.CatUI, "Entering file", "index", i, "name", entry.Name)

	samples, err := decode(ctx, entry)
	if err != nil {
		log.ErrorErr(log.CatDecode, "Skipping undecodable entry", err, "name", entry.Name)
		return
	}

	m.samples = samples
	m.preview = &entry
	m.mode = ModeScrub
	m.cursor = Cursor{}
	m.show(LabelFile)
	m.audio.PlayCue(sound.CueOpen)
}

func decode(ctx context.Context, entry catalog.Entry) (*wav.Samples, error) {
	_, span := tracer.Start(ctx, "scrub.decode")
	defer span.End()
	span.SetAttributes(attribute.String("entry.name", entry.Name), attribute.Int("entry.bytes", len(entry.Data)))

	samples, err := wav.Decode(entry.Data)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(
		attribute.Int("samples.frames", samples.Len()),
		attribute.Int("samples.width", samples.Width),
		attribute.Int("samples.rate", samples.FrameRate),
	)
	return samples, nil
}

func (m *Machine) show(label string) {
	m.label = label
	if m.display != nil {
		m.display.Show(label)
	}
}

// Mode returns the current mode.
func (m *Machine) Mode() Mode { return m.mode }

// Cursor returns the cursor for the active collection.
func (m *Machine) Cursor() Cursor { return m.cursor }

// Catalog returns the loaded catalog.
func (m *Machine) Catalog() *catalog.Catalog { return m.catalog }

// Samples returns the decoded samples in scrub mode, nil in menu mode.
func (m *Machine) Samples() *wav.Samples { return m.samples }

// Label returns the label most recently shown.
func (m *Machine) Label() string { return m.label }

// Preview returns the most recently previewed entry, if any.
func (m *Machine) Preview() (catalog.Entry, bool) {
	if m.preview == nil {
		return catalog.Entry{}, false
	}
	return *m.preview, true
}
