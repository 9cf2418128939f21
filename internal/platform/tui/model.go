package tui

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/cubefield/internal/config"
	"github.com/vovakirdan/cubefield/internal/core"
	"github.com/vovakirdan/cubefield/internal/render"
	"github.com/vovakirdan/cubefield/internal/sim"
	"github.com/vovakirdan/cubefield/internal/storage"
)

// GameOptions configures a game screen.
type GameOptions struct {
	Config     config.Config
	Difficulty config.Difficulty
	Runtime    core.RuntimeConfig
	Store      *storage.Store // Session scoreboard, may be nil
	Logger     *log.Logger
}

// Model is the Bubble Tea model for the game screen.
type Model struct {
	sim       *sim.Simulation
	renderer  *render.Renderer
	screen    *core.Screen
	store     *storage.Store
	config    core.RuntimeConfig
	keyMapper *KeyMapper
	help      help.Model
	latch     *core.SteerLatch
	clock     *core.FrameClock
	log       *log.Logger

	pendingRestart bool
	paused         bool
	quitting       bool
	goingBack      bool
}

// NewModel creates a game screen with a fresh simulation.
func NewModel(opts GameOptions) (Model, error) {
	cfg := opts.Runtime
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	store := opts.Store
	simOpts := []sim.Option{
		sim.WithLogger(logger),
		sim.WithObserver(func(r sim.RunResult) {
			if store == nil || r.Score <= 0 {
				return
			}
			_, err := store.SaveRun(storage.Run{
				RunID:      r.RunID,
				Difficulty: string(r.Difficulty),
				Score:      r.Score,
				Ticks:      r.Ticks,
			})
			if err != nil {
				logger.Warn("cannot record run", "err", err)
			}
		}),
	}
	// A pinned seed replays the same field on every restart; otherwise the
	// simulation seeds itself from the clock
	if cfg.Seed != 0 {
		simOpts = append(simOpts, sim.WithSeed(cfg.Seed))
	}
	s, err := sim.New(opts.Config, opts.Difficulty, simOpts...)
	if err != nil {
		return Model{}, fmt.Errorf("failed to start simulation: %w", err)
	}

	in := opts.Config.Input
	h := help.New()
	h.Width = cfg.ScreenW

	return Model{
		sim:       s,
		renderer:  render.New(cfg.ScreenW, playHeight(cfg.ScreenH), opts.Config.World.TetraScale),
		screen:    core.NewScreen(cfg.ScreenW, playHeight(cfg.ScreenH)),
		store:     store,
		config:    cfg,
		keyMapper: NewKeyMapper(),
		help:      h,
		latch: core.NewSteerLatch(
			time.Duration(in.HoldMs)*time.Millisecond,
			time.Duration(in.InitialHoldMs)*time.Millisecond,
		),
		clock: &core.FrameClock{},
		log:   logger,
	}, nil
}

// playHeight leaves the last row for the help bar.
func playHeight(screenH int) int {
	return core.Max(screenH-1, 0)
}

// Init starts the tick loop.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg, time.Now())

	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.screen.Resize(msg.Width, playHeight(msg.Height))
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		return m.handleTick(time.Time(msg))
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg, now time.Time) (tea.Model, tea.Cmd) {
	action := m.keyMapper.MapKey(msg)
	switch action {
	case GameActionQuit:
		m.quitting = true
		return m, tea.Quit

	case GameActionBack:
		m.goingBack = true
		return m, tea.Quit

	case GameActionSteerLeft, GameActionSteerRight:
		m.latch.Press(action.Intent(), now)

	case GameActionRestart:
		m.pendingRestart = true
		m.paused = false

	case GameActionPause:
		if m.sim.Status().Alive {
			m.paused = !m.paused
		}

	case GameActionDifficulty:
		next := m.sim.Difficulty().Next()
		if err := m.sim.SetDifficulty(next); err != nil {
			m.log.Warn("cannot change difficulty", "err", err)
		}
		m.latch.Release()
		m.paused = false
	}

	return m, nil
}

// handleTick feeds one frame to the simulation.
func (m Model) handleTick(now time.Time) (tea.Model, tea.Cmd) {
	if m.paused {
		// Paused time must not count as elapsed on resume
		m.clock.Reset()
		return m, tickCmd(m.config.TickRate)
	}

	intent := m.latch.Intent(now)
	if m.pendingRestart {
		intent = core.IntentRestart
		m.pendingRestart = false
		m.latch.Release()
		m.clock.Reset()
	}
	m.sim.Tick(m.clock.Elapsed(now), intent)

	return m, tickCmd(m.config.TickRate)
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	m.renderer.Draw(m.screen, m.sim.Snapshot())
	if m.paused {
		render.DrawMessage(m.screen, "PAUSED", "Press P to resume")
	}

	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	return RenderScreen(m.screen) + "\n" + helpStyle.Render(m.help.View(m.keyMapper.Keys()))
}

// Status returns the simulation status, for callers and tests.
func (m Model) Status() sim.Status {
	return m.sim.Status()
}

// Difficulty returns the level being played.
func (m Model) Difficulty() config.Difficulty {
	return m.sim.Difficulty()
}

// IsGoingBack returns true if user wants to go back to menu.
func (m Model) IsGoingBack() bool {
	return m.goingBack
}

// Run starts the game screen and blocks until it exits.
// Returns true if the user asked to go back to the menu.
func Run(opts GameOptions) (goBack bool, err error) {
	model, err := NewModel(opts)
	if err != nil {
		return false, err
	}

	p := tea.NewProgram(model, tea.WithAltScreen())
	finalModel, err := p.Run()
	if err != nil {
		return false, err
	}

	m, ok := finalModel.(Model)
	if !ok {
		return false, nil
	}
	return m.IsGoingBack(), nil
}
