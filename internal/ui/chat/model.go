// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/jeranaias/jarvis-tui/internal/config"
	"github.com/jeranaias/jarvis-tui/internal/jarvis"
	"github.com/jeranaias/jarvis-tui/internal/model"
	"github.com/jeranaias/jarvis-tui/internal/ui/components"
	"github.com/jeranaias/jarvis-tui/internal/ui/styles"
)

// =============================================================================
// BACKEND
// =============================================================================

// Backend is the part of jarvis.Client the chat screen talks to.
type Backend interface {
	Status(ctx context.Context) (*jarvis.StatusResponse, error)
	ExampleQuestions(ctx context.Context) ([]string, error)
	Chat(ctx context.Context, message string) (*jarvis.ChatResponse, error)
}

// =============================================================================
// PIPELINE STATE
// =============================================================================

// Phase is where the message pipeline currently is.
type Phase int

const (
	PhaseIdle      Phase = iota // Ready for input
	PhaseSending                // Waiting for /api/chat
	PhaseRendering              // Answer received, waiting out the response delay
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseSending:
		return "sending"
	case PhaseRendering:
		return "rendering"
	default:
		return "idle"
	}
}

// refreshEvery throttles the manual status refresh key.
const refreshEvery = 2 * time.Second

// =============================================================================
// CHAT MODEL
// =============================================================================

// Options configures New.
type Options struct {
	// Backend answers status, example and chat requests. Required.
	Backend Backend

	// Config supplies theme, renderer and timings (default: config.Default()).
	Config *config.Config

	// Logger receives poll and chat failures (default: disabled).
	Logger *zerolog.Logger

	// Clipboard writes text to the system clipboard (default: atotto/clipboard).
	Clipboard func(string) error
}

// Model is the Bubble Tea model for the chat screen.
type Model struct {
	backend   Backend
	cfg       *config.Config
	log       zerolog.Logger
	clipboard func(string) error
	keys      KeyMap

	// Styling
	theme *styles.Theme

	// Dimensions
	width  int
	height int

	// Conversation
	transcript *model.Transcript
	status     model.StatusView

	// Message pipeline
	phase Phase
	seq   int // bumped per submitted message
	epoch int // bumped per reset; stale results are dropped

	// UI Components
	header         *components.Header
	renderer       *components.MessageRenderer
	examples       components.ExampleList
	exampleSpinner components.Spinner
	typing         components.Spinner
	dialog         components.ErrorDialog
	toasts         *components.ToastManager
	toastTicking   bool
	input          textarea.Model
	viewport       viewport.Model
	help           help.Model

	// Overlays
	showExamples bool
	showHelp     bool

	refresh *rate.Limiter
}

// New creates the chat model. The examples spinner is already running;
// Init issues the first status poll and example fetch.
func New(opts Options) Model {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = opts.Logger.With().Str("component", "chat").Logger()
	}
	copyFn := opts.Clipboard
	if copyFn == nil {
		copyFn = copyToClipboard
	}

	theme := styles.NewTheme(cfg.UI.Theme)

	ta := textarea.New()
	ta.Placeholder = "Ask Jarvis about your documents..."
	ta.Prompt = "> "
	ta.ShowLineNumbers = false
	ta.CharLimit = 4000
	ta.SetHeight(2)
	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.KeyMap.InsertNewline = key.NewBinding(key.WithKeys("alt+enter", "ctrl+j"))
	ta.Focus()

	vp := viewport.New(80, 20)
	vp.KeyMap = viewport.KeyMap{
		PageDown: key.NewBinding(key.WithKeys("pgdown")),
		PageUp:   key.NewBinding(key.WithKeys("pgup")),
	}

	m := Model{
		backend:        opts.Backend,
		cfg:            cfg,
		log:            logger,
		clipboard:      copyFn,
		keys:           DefaultKeyMap(),
		theme:          theme,
		width:          80,
		height:         24,
		transcript:     model.NewTranscript(),
		status:         model.LoadingStatus(),
		header:         components.NewHeader(theme),
		renderer:       components.NewMessageRenderer(theme, cfg.UI.Renderer, 80),
		examples:       components.NewExampleList(),
		exampleSpinner: components.NewSpinner(components.ExamplesMessage),
		typing:         components.NewTypingIndicator(),
		toasts:         components.NewToastManager(),
		input:          ta,
		viewport:       vp,
		help:           help.New(),
		refresh:        rate.NewLimiter(rate.Every(refreshEvery), 1),
	}
	m.exampleSpinner.Start()
	m.layout()
	return m
}

// Init starts the status poller and the example loader.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textarea.Blink,
		m.checkStatusCmd(),
		m.statusTickCmd(),
		m.loadExamplesCmd(m.epoch),
		m.exampleSpinner.Tick(),
	)
}

// =============================================================================
// UPDATE
// =============================================================================

// Update handles messages and returns the updated model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case StatusMsg:
		m.status = msg.View
		m.header.SetStatus(msg.View)
		return m, nil

	case StatusTickMsg:
		return m, tea.Batch(m.checkStatusCmd(), m.statusTickCmd())

	case ExamplesLoadedMsg:
		return m.handleExamplesLoaded(msg)

	case ChatResponseMsg:
		return m.handleChatResponse(msg)

	case RevealMsg:
		return m.handleReveal(msg)

	case ConfigReloadedMsg:
		return m.applyConfig(msg.Config)

	case ConfigErrorMsg:
		m.log.Warn().Err(msg.Err).Msg("config reload failed")
		cmd := m.toast(components.ToastKindError, "Config reload failed: "+msg.Err.Error())
		return m, cmd

	case ExportCompleteMsg:
		if msg.Error != nil {
			m.log.Warn().Err(msg.Error).Msg("export failed")
			cmd := m.toast(components.ToastKindError, "Export failed: "+msg.Error.Error())
			return m, cmd
		}
		cmd := m.toast(components.ToastKindSuccess, "Exported to "+msg.Path)
		return m, cmd

	case ClipboardMsg:
		if msg.Err != nil {
			cmd := m.toast(components.ToastKindError, "Copy failed: "+msg.Err.Error())
			return m, cmd
		}
		cmd := m.toast(components.ToastKindSuccess, "Copied last answer to clipboard")
		return m, cmd

	case components.ToastTickMsg:
		more := m.toasts.Tick(msg.Time)
		m.layout()
		if more {
			return m, components.ToastTickCmd()
		}
		m.toastTicking = false
		return m, nil
	}

	// Spinner ticks carry their spinner's ID; each spinner ignores the other's.
	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.exampleSpinner, cmd = m.exampleSpinner.Update(msg)
	cmds = append(cmds, cmd)
	m.typing, cmd = m.typing.Update(msg)
	cmds = append(cmds, cmd)
	if m.typing.IsActive() {
		m.refreshViewport()
	}
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// handleResize recomputes component sizes.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.header.SetWidth(msg.Width)
	m.renderer.SetWidth(msg.Width)
	m.input.SetWidth(msg.Width - 4)
	m.help.Width = msg.Width
	m.refreshViewport()
	return m, nil
}

// handleKey routes a key press. Order matters: quit, then modal overlays,
// then global shortcuts, then example navigation, then the input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}

	if m.dialog.Visible() {
		if key.Matches(msg, m.keys.Submit, m.keys.Dismiss) {
			m.dialog.Hide()
		}
		return m, nil
	}

	if m.showHelp {
		if key.Matches(msg, m.keys.Help, m.keys.Dismiss) {
			m.showHelp = false
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil
	case key.Matches(msg, m.keys.Clear):
		return m.reset()
	case key.Matches(msg, m.keys.Refresh):
		return m, m.manualRefresh()
	case key.Matches(msg, m.keys.Copy):
		cmd := m.copyLastAnswer()
		return m, cmd
	case key.Matches(msg, m.keys.PageUp, m.keys.PageDown):
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	if m.examplesVisible() && m.phase == PhaseIdle {
		if handled, next, cmd := m.handleExampleKey(msg); handled {
			return next, cmd
		}
	}

	if key.Matches(msg, m.keys.Submit) {
		return m.submit(m.input.Value())
	}

	// Input is disabled while a message is in flight.
	if m.phase != PhaseIdle {
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleExampleKey handles keys that act on the visible example buttons.
func (m Model) handleExampleKey(msg tea.KeyMsg) (bool, tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Next):
		m.examples.FocusNext()
		return true, m, nil
	case key.Matches(msg, m.keys.Prev):
		m.examples.FocusPrev()
		return true, m, nil
	case key.Matches(msg, m.keys.Dismiss):
		m.examples.Blur()
		m.showExamples = false
		return true, m, nil
	case key.Matches(msg, m.keys.Submit):
		if q, ok := m.examples.Focused(); ok {
			next, cmd := m.selectExample(q)
			return true, next, cmd
		}
		return false, m, nil
	}

	// Digits pick a button only while the input is empty so they can still be typed.
	if msg.Type == tea.KeyRunes && len(msg.Runes) == 1 && m.input.Value() == "" {
		r := msg.Runes[0]
		if r >= '1' && r <= '9' {
			if q, ok := m.examples.Select(int(r - '0')); ok {
				next, cmd := m.selectExample(q)
				return true, next, cmd
			}
		}
	}
	return false, m, nil
}

// selectExample fills the input with q and submits it.
func (m Model) selectExample(q string) (tea.Model, tea.Cmd) {
	m.examples.Blur()
	m.showExamples = false
	m.input.SetValue(q)
	return m.submit(q)
}

// =============================================================================
// MESSAGE PIPELINE
// =============================================================================

// submit sends content through the pipeline. Empty input and submits while a
// message is in flight are no-ops. Content starting with "/" is a command.
func (m Model) submit(content string) (tea.Model, tea.Cmd) {
	text := trimInput(content)
	if text == "" || m.phase != PhaseIdle {
		return m, nil
	}
	if isCommand(text) {
		return m.handleCommand(text)
	}

	m.transcript.Append(model.NewUserEntry(text))
	m.input.Reset()
	m.input.Blur()
	m.phase = PhaseSending
	m.seq++
	typingCmd := m.typing.Start()
	m.refreshViewport()

	m.log.Debug().Int("seq", m.seq).Int("chars", len(text)).Msg("sending message")
	return m, tea.Batch(m.sendChatCmd(m.seq, text), typingCmd)
}

// handleChatResponse moves the pipeline to rendering or to the error dialog.
func (m Model) handleChatResponse(msg ChatResponseMsg) (tea.Model, tea.Cmd) {
	if m.phase != PhaseSending {
		return m, nil
	}
	if msg.Seq != m.seq {
		// The request outlived a reset. Its answer is dropped, but only now
		// may the next message be sent.
		m.log.Debug().Int("seq", msg.Seq).Msg("dropped stale chat response")
		m.phase = PhaseIdle
		return m, m.input.Focus()
	}

	if msg.Err != nil {
		text := jarvis.ErrorText(msg.Err)
		m.log.Warn().Err(msg.Err).Str("endpoint", "/chat").Msg("chat failed")
		m.typing.Stop()
		m.phase = PhaseIdle
		m.dialog.Show("", text)
		m.transcript.Append(model.NewErrorEntry(text))
		focusCmd := m.input.Focus()
		m.refreshViewport()
		return m, focusCmd
	}

	m.phase = PhaseRendering
	return m, m.revealCmd(msg.Seq, msg.Resp.Entry())
}

// handleReveal renders the assistant entry once the response delay is over.
func (m Model) handleReveal(msg RevealMsg) (tea.Model, tea.Cmd) {
	if msg.Seq != m.seq || m.phase != PhaseRendering {
		return m, nil
	}
	m.typing.Stop()
	m.transcript.Append(msg.Entry)
	m.phase = PhaseIdle
	focusCmd := m.input.Focus()
	m.refreshViewport()
	return m, focusCmd
}

// =============================================================================
// EXAMPLES AND RESET
// =============================================================================

func (m Model) handleExamplesLoaded(msg ExamplesLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.Epoch != m.epoch {
		return m, nil
	}
	m.examples.SetExamples(msg.Set)
	m.exampleSpinner.Stop()
	m.refreshViewport()
	return m, nil
}

// reset clears the conversation and reloads the examples. A message still in
// flight is not cancelled: its result is dropped when it arrives, and the
// pipeline stays in PhaseSending until then so only one request is ever
// outstanding.
func (m Model) reset() (tea.Model, tea.Cmd) {
	m.transcript.Clear()
	m.epoch++
	m.seq++
	if m.phase == PhaseRendering {
		m.phase = PhaseIdle
	}
	m.typing.Stop()
	m.showExamples = false
	m.input.Reset()
	var focusCmd tea.Cmd
	if m.phase == PhaseIdle {
		focusCmd = m.input.Focus()
	}

	m.examples.SetLoading()
	spinCmd := m.exampleSpinner.Start()

	toastCmd := m.toast(components.ToastKindSuccess, "Conversation cleared successfully!")
	m.refreshViewport()
	m.log.Debug().Int("epoch", m.epoch).Msg("conversation cleared")

	return m, tea.Batch(focusCmd, spinCmd, m.loadExamplesCmd(m.epoch), toastCmd)
}

// =============================================================================
// STATUS, COPY, CONFIG
// =============================================================================

// manualRefresh polls the status now unless the limiter says no.
func (m Model) manualRefresh() tea.Cmd {
	if !m.refresh.Allow() {
		return nil
	}
	return m.checkStatusCmd()
}

// copyLastAnswer copies the most recent assistant entry.
func (m *Model) copyLastAnswer() tea.Cmd {
	last, ok := m.transcript.Last(model.SenderAssistant)
	if !ok {
		return m.toast(components.ToastKindWarning, "No answer to copy yet")
	}
	return copyCmd(m.clipboard, last.Content)
}

// applyConfig applies a reloaded config. Server settings need a restart.
func (m Model) applyConfig(cfg *config.Config) (tea.Model, tea.Cmd) {
	if cfg == nil {
		return m, nil
	}
	old := m.cfg
	m.cfg = cfg

	if cfg.UI.Theme != old.UI.Theme {
		m.theme = styles.NewTheme(cfg.UI.Theme)
		m.header.SetTheme(m.theme)
		m.renderer.SetTheme(m.theme)
	}
	if cfg.UI.Renderer != m.renderer.Mode() {
		m.renderer.SetMode(cfg.UI.Renderer)
	}
	if cfg.Server.URL != old.Server.URL {
		m.log.Info().Str("url", cfg.Server.URL).Msg("server url changed; restart to apply")
	}
	m.log.Info().Msg("config reloaded")

	cmd := m.toast(components.ToastKindStatus, "Configuration reloaded")
	m.refreshViewport()
	return m, cmd
}

// toast shows a notification and starts the sweep ticker if it is idle.
func (m *Model) toast(kind components.ToastKind, message string) tea.Cmd {
	m.toasts.Add(components.NewToast(kind, message))
	m.layout()
	if m.toastTicking {
		return nil
	}
	m.toastTicking = true
	return components.ToastTickCmd()
}

// =============================================================================
// VIEWPORT
// =============================================================================

// layout sizes the viewport to the space left by the fixed chrome.
func (m *Model) layout() {
	chrome := lipgloss.Height(m.header.View()) + lipgloss.Height(m.renderInput()) + lipgloss.Height(m.renderFooter())
	if m.toasts.HasToasts() {
		chrome += lipgloss.Height(components.RenderToastStack(m.toasts.Toasts(), m.width))
	}
	h := m.height - chrome
	if h < 3 {
		h = 3
	}
	m.viewport.Width = m.width
	m.viewport.Height = h
}

// refreshViewport re-renders the transcript and scrolls to the newest entry.
func (m *Model) refreshViewport() {
	m.layout()
	content := m.renderer.RenderTranscript(m.transcript.Entries())
	if m.typing.IsActive() {
		content += "\n" + m.typing.View(m.theme)
	}
	m.viewport.SetContent(content)
	m.viewport.GotoBottom()
}

// examplesVisible reports whether example buttons are on screen.
func (m Model) examplesVisible() bool {
	return m.showExamples || m.transcript.IsEmpty()
}

// =============================================================================
// ACCESSORS
// =============================================================================

// Phase returns the pipeline phase.
func (m Model) Phase() Phase {
	return m.phase
}

// Sending reports whether a message is in flight.
func (m Model) Sending() bool {
	return m.phase != PhaseIdle
}

// Transcript returns the conversation.
func (m Model) Transcript() *model.Transcript {
	return m.transcript
}

// Status returns the latest status view.
func (m Model) Status() model.StatusView {
	return m.status
}

// Examples returns the example list.
func (m Model) Examples() components.ExampleList {
	return m.examples
}

// DialogVisible reports whether the error dialog is open.
func (m Model) DialogVisible() bool {
	return m.dialog.Visible()
}

// Dialog returns the error dialog.
func (m Model) Dialog() components.ErrorDialog {
	return m.dialog
}

// InputValue returns the current input text.
func (m Model) InputValue() string {
	return m.input.Value()
}

// Toasts returns the visible toasts, newest first.
func (m Model) Toasts() []components.Toast {
	return m.toasts.Toasts()
}

// Config returns the active configuration.
func (m Model) Config() *config.Config {
	return m.cfg
}

// ShowingHelp reports whether the help overlay is open.
func (m Model) ShowingHelp() bool {
	return m.showHelp
}

// ShowingExamples reports whether the /examples panel is open.
func (m Model) ShowingExamples() bool {
	return m.showExamples
}
