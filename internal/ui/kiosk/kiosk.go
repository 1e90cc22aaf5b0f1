// Package kiosk provides the full-screen bubbletea model: a solid canvas
// with one centered label, driven by key presses and touch (mouse) zones.
package kiosk

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	zone "github.com/lrstanley/bubblezone"

	"github.com/zjrosen/wavtouch/internal/keys"
	"github.com/zjrosen/wavtouch/internal/log"
	"github.com/zjrosen/wavtouch/internal/scrub"
	"github.com/zjrosen/wavtouch/internal/ui/styles"
)

// Default windowed canvas size in terminal cells.
const (
	DefaultWidth  = 48
	DefaultHeight = 14
)

// Touch zone ids. The canvas is split into bands: the top corners go back
// to the menu, the top middle jumps to the start, the sides step, the
// center confirms and the bottom band jumps to the end.
const (
	zoneCancelLeft  = "cancel-left"
	zoneUp          = "up"
	zoneCancelRight = "cancel-right"
	zoneLeft        = "left"
	zoneConfirm     = "confirm"
	zoneRight       = "right"
	zoneDown        = "down"
)

var zoneActions = []struct {
	id     string
	action scrub.Action
}{
	{zoneCancelLeft, scrub.ActionCancel},
	{zoneUp, scrub.ActionUp},
	{zoneCancelRight, scrub.ActionCancel},
	{zoneLeft, scrub.ActionLeft},
	{zoneConfirm, scrub.ActionConfirm},
	{zoneRight, scrub.ActionRight},
	{zoneDown, scrub.ActionDown},
}

// Canvas is the Display the state machine draws into.
type Canvas struct {
	label string
}

// Show replaces the label. The next View repaints it.
func (c *Canvas) Show(label string) {
	c.label = label
}

// Label returns the current label.
func (c *Canvas) Label() string {
	return c.label
}

// Options configures the model.
type Options struct {
	Fullscreen bool
	Width      int // windowed canvas size; ignored when Fullscreen
	Height     int
	Reloads    <-chan struct{} // optional: catalog changed on disk
}

// reloadMsg is delivered when the watched catalog changes.
type reloadMsg struct{}

// Model is the kiosk bubbletea model.
type Model struct {
	ctx        context.Context
	machine    *scrub.Machine
	canvas     *Canvas
	zones      *zone.Manager
	reloads    <-chan struct{}
	fullscreen bool
	width      int
	height     int
}

// New creates the kiosk model. The machine should already be started.
func New(ctx context.Context, machine *scrub.Machine, canvas *Canvas, opts Options) Model {
	m := Model{
		ctx:        ctx,
		machine:    machine,
		canvas:     canvas,
		zones:      zone.New(),
		reloads:    opts.Reloads,
		fullscreen: opts.Fullscreen,
	}
	if !opts.Fullscreen {
		m.width = opts.Width
		m.height = opts.Height
		if m.width <= 0 {
			m.width = DefaultWidth
		}
		if m.height <= 0 {
			m.height = DefaultHeight
		}
	}
	return m
}

// Init starts listening for catalog changes when a reload channel is set.
func (m Model) Init() tea.Cmd {
	return m.waitForReload()
}

func (m Model) waitForReload() tea.Cmd {
	if m.reloads == nil {
		return nil
	}
	ch := m.reloads
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return reloadMsg{}
	}
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		if m.fullscreen {
			m.width = msg.Width
			m.height = msg.Height
		}
		return m, nil

	case tea.KeyMsg:
		return m.dispatch(ActionForKey(msg))

	case tea.MouseMsg:
		if msg.Action != tea.MouseActionRelease || msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		return m.dispatch(m.actionForTouch(msg))

	case reloadMsg:
		if m.machine.Mode() == scrub.ModeMenu {
			log.Info(log.CatUI, "Catalog changed on disk, reloading")
			m.machine.Handle(m.ctx, scrub.ActionCancel)
		}
		return m, m.waitForReload()
	}
	return m, nil
}

func (m Model) dispatch(a scrub.Action) (tea.Model, tea.Cmd) {
	if a == scrub.ActionNone {
		return m, nil
	}
	log.Debug(log.CatUI, "Input", "action", a.String(), "mode", m.machine.Mode().String())
	if !m.machine.Handle(m.ctx, a) {
		return m, tea.Quit
	}
	return m, nil
}

// ActionForKey maps a key press to an abstract action.
func ActionForKey(msg tea.KeyMsg) scrub.Action {
	switch {
	case key.Matches(msg, keys.Kiosk.Quit):
		return scrub.ActionQuit
	case key.Matches(msg, keys.Kiosk.Cancel):
		return scrub.ActionCancel
	case key.Matches(msg, keys.Kiosk.Confirm):
		return scrub.ActionConfirm
	case key.Matches(msg, keys.Kiosk.Left):
		return scrub.ActionLeft
	case key.Matches(msg, keys.Kiosk.Right):
		return scrub.ActionRight
	case key.Matches(msg, keys.Kiosk.Up):
		return scrub.ActionUp
	case key.Matches(msg, keys.Kiosk.Down):
		return scrub.ActionDown
	}
	return scrub.ActionNone
}

func (m Model) actionForTouch(msg tea.MouseMsg) scrub.Action {
	for _, z := range zoneActions {
		if m.zones.Get(z.id).InBounds(msg) {
			return z.action
		}
	}
	return scrub.ActionNone
}

// View renders the canvas.
func (m Model) View() string {
	if m.width <= 0 || m.height <= 0 {
		return ""
	}

	sideW := m.width / 4
	centerW := m.width - 2*sideW
	bandH := m.height / 4
	middleH := m.height - 2*bandH

	cell := func(id string, w, h int, content string, style lipgloss.Style) string {
		if w <= 0 || h <= 0 {
			return ""
		}
		block := style.
			Width(w).
			Height(h).
			Align(lipgloss.Center, lipgloss.Center).
			Render(content)
		return m.zones.Mark(id, block)
	}

	base := styles.Canvas()
	label := ansi.Truncate(m.canvas.Label(), max(centerW, 1), "…")

	rows := []string{
		lipgloss.JoinHorizontal(lipgloss.Top,
			cell(zoneCancelLeft, sideW, bandH, "", base),
			cell(zoneUp, centerW, bandH, "", base),
			cell(zoneCancelRight, sideW, bandH, "", base),
		),
		lipgloss.JoinHorizontal(lipgloss.Top,
			cell(zoneLeft, sideW, middleH, "", base),
			cell(zoneConfirm, centerW, middleH, label, styles.Label()),
			cell(zoneRight, sideW, middleH, "", base),
		),
		cell(zoneDown, m.width, bandH, "", base),
	}

	return m.zones.Scan(lipgloss.JoinVertical(lipgloss.Left, nonEmpty(rows)...))
}

// SetSize updates the canvas dimensions.
func (m Model) SetSize(width, height int) Model {
	m.width = width
	m.height = height
	return m
}

// Machine returns the state machine driven by this model.
func (m Model) Machine() *scrub.Machine {
	return m.machine
}

func nonEmpty(rows []string) []string {
	out := rows[:0:0]
	for _, r := range rows {
		if r != "" {
			out = append(out, r)
		}
	}
	return out
}
