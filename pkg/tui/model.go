// Package tui implements the interactive terminal front end: a live
// monitor screen polling engine stats once per second, a start dialog for
// tag and scale factor, and a report manager for browsing and deleting
// persisted sessions.
package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mkolge/apm-monitor/pkg/capture"
	"github.com/mkolge/apm-monitor/pkg/engine"
	"github.com/mkolge/apm-monitor/pkg/logger"
	"github.com/mkolge/apm-monitor/pkg/report"
)

// screen identifies which view is active.
type screen int

const (
	screenMonitor screen = iota
	screenStart
	screenManage
)

// Config contains TUI configuration.
type Config struct {
	// PollInterval is how often the engine is polled for a stats
	// snapshot. Default: 1s.
	PollInterval time.Duration

	// GraphHeight is the number of rows in the trend graph. Default: 8.
	GraphHeight int

	// DefaultScaleFactor pre-fills the start dialog. Default: 0.7.
	DefaultScaleFactor float64

	// DashboardPath is the rendered aggregate view, opened by the v key.
	DashboardPath string
}

// Model is the bubbletea application state.
type Model struct {
	config Config
	engine *engine.Engine
	store  report.Store
	logger logger.Logger

	// keys is set when terminal keystrokes feed the session. Every
	// unbound key press emits one occurrence event.
	keys *capture.ChannelSource

	screen  screen
	stats   engine.Stats
	message string
	width   int
	height  int

	// Start dialog state.
	tagInput   textinput.Model
	scaleInput textinput.Model
	focusScale bool

	// Report manager state.
	groups  []report.TagGroup
	skipped int
	cursor  int
	loadErr error
}

// Message types for the bubbletea update loop.
type tickMsg time.Time

type reportsMsg struct {
	groups  []report.TagGroup
	skipped int
	err     error
}

type actionMsg struct {
	message string
	err     error
}

// New creates the TUI model. The keys source may be nil when the session is
// fed by another capture source.
func New(cfg Config, eng *engine.Engine, store report.Store, keys *capture.ChannelSource, log logger.Logger) Model {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = time.Second
	}
	if cfg.GraphHeight <= 0 {
		cfg.GraphHeight = 8
	}
	if cfg.DefaultScaleFactor <= 0 || cfg.DefaultScaleFactor > 1 {
		cfg.DefaultScaleFactor = 0.7
	}

	tag := textinput.New()
	tag.Placeholder = "untagged"
	tag.CharLimit = 64
	tag.Focus()

	scale := textinput.New()
	scale.Placeholder = formatScale(cfg.DefaultScaleFactor)
	scale.CharLimit = 8

	return Model{
		config:     cfg,
		engine:     eng,
		store:      store,
		logger:     log,
		keys:       keys,
		stats:      eng.Stats(),
		tagInput:   tag,
		scaleInput: scale,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.config.PollInterval)
}
