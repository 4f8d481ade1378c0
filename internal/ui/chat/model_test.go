// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"errors"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/jarvis-tui/internal/config"
	"github.com/jeranaias/jarvis-tui/internal/jarvis"
	"github.com/jeranaias/jarvis-tui/internal/model"
	"github.com/jeranaias/jarvis-tui/internal/ui/components"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

type fakeBackend struct {
	mu        sync.Mutex
	status    *jarvis.StatusResponse
	statusErr error
	questions []string
	exErr     error
	reply     *jarvis.ChatResponse
	chatErr   error
	sent      []string
}

func (f *fakeBackend) Status(ctx context.Context) (*jarvis.StatusResponse, error) {
	return f.status, f.statusErr
}

func (f *fakeBackend) ExampleQuestions(ctx context.Context) ([]string, error) {
	return f.questions, f.exErr
}

func (f *fakeBackend) Chat(ctx context.Context, message string) (*jarvis.ChatResponse, error) {
	f.mu.Lock()
	f.sent = append(f.sent, message)
	f.mu.Unlock()
	return f.reply, f.chatErr
}

func (f *fakeBackend) Sent() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.sent...)
}

func runningBackend() *fakeBackend {
	return &fakeBackend{
		status:    &jarvis.StatusResponse{Status: "running", PineconeIndex: "docs", OpenAIModel: "gpt-4o-mini"},
		questions: []string{"What is in the handbook?", "Summarize the Q3 report"},
		reply:     &jarvis.ChatResponse{Status: "success", Message: "Here is **the** answer", Sources: []string{"a.pdf", "b.pdf"}},
	}
}

type fakeClipboard struct {
	text string
	err  error
}

func (c *fakeClipboard) write(s string) error {
	c.text = s
	return c.err
}

func newTestModel(t *testing.T, b *fakeBackend) (Model, *fakeClipboard) {
	t.Helper()
	cfg := config.Default()
	cfg.UI.ResponseDelay = 0
	cfg.UI.ExportDir = t.TempDir()
	clip := &fakeClipboard{}
	m := New(Options{Backend: b, Config: cfg, Clipboard: clip.write})
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	return m, clip
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	mm, ok := next.(Model)
	require.True(t, ok, "Update returned %T", next)
	return mm, cmd
}

func typeText(t *testing.T, m Model, s string) Model {
	t.Helper()
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
	return m
}

func press(t *testing.T, m Model, k tea.KeyType) (Model, tea.Cmd) {
	t.Helper()
	return update(t, m, tea.KeyMsg{Type: k})
}

// collect runs cmd and any batched children, returning the messages that
// arrive within a short window. Timer commands simply miss the window.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}

	var (
		mu   sync.Mutex
		msgs []tea.Msg
		wg   sync.WaitGroup
	)
	var run func(c tea.Cmd)
	run = func(c tea.Cmd) {
		defer wg.Done()
		msg := c()
		if batch, ok := msg.(tea.BatchMsg); ok {
			for _, sub := range batch {
				if sub != nil {
					wg.Add(1)
					go run(sub)
				}
			}
			return
		}
		if msg != nil {
			mu.Lock()
			msgs = append(msgs, msg)
			mu.Unlock()
		}
	}

	wg.Add(1)
	go run(cmd)

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(300 * time.Millisecond):
	}

	mu.Lock()
	defer mu.Unlock()
	return append([]tea.Msg(nil), msgs...)
}

func find[T tea.Msg](msgs []tea.Msg) (T, bool) {
	for _, msg := range msgs {
		if v, ok := msg.(T); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

func mustFind[T tea.Msg](t *testing.T, cmd tea.Cmd) T {
	t.Helper()
	v, ok := find[T](collect(cmd))
	require.True(t, ok, "expected %T from command", v)
	return v
}

// sendAndAnswer submits text and drives the pipeline to completion.
func sendAndAnswer(t *testing.T, m Model, text string) Model {
	t.Helper()
	m = typeText(t, m, text)
	m, cmd := press(t, m, tea.KeyEnter)
	resp := mustFind[ChatResponseMsg](t, cmd)
	m, cmd = update(t, m, resp)
	if resp.Err != nil {
		return m
	}
	m, _ = update(t, m, mustFind[RevealMsg](t, cmd))
	return m
}

// =============================================================================
// STARTUP
// =============================================================================

func TestNew_InitialState(t *testing.T) {
	m, _ := newTestModel(t, runningBackend())

	assert.Equal(t, PhaseIdle, m.Phase())
	assert.False(t, m.Sending())
	assert.True(t, m.Transcript().IsEmpty())
	assert.Equal(t, model.LoadingStatus(), m.Status())
	assert.True(t, m.Examples().Loading())
	assert.Contains(t, m.View(), components.WelcomeTitle)
	assert.Contains(t, m.View(), model.TextConnecting)
}

func TestInit_PollsStatusAndLoadsExamples(t *testing.T) {
	m, _ := newTestModel(t, runningBackend())

	msgs := collect(m.Init())

	status, ok := find[StatusMsg](msgs)
	require.True(t, ok)
	assert.True(t, status.View.Online())
	assert.Equal(t, "Connected - docs | gpt-4o-mini", status.View.Text)

	loaded, ok := find[ExamplesLoadedMsg](msgs)
	require.True(t, ok)
	assert.Equal(t, 0, loaded.Epoch)
	assert.False(t, loaded.Set.Fallback)
	assert.Equal(t, []string{"What is in the handbook?", "Summarize the Q3 report"}, loaded.Set.Questions)

	m, _ = update(t, m, status)
	m, _ = update(t, m, loaded)
	assert.False(t, m.Examples().Loading())
	assert.Equal(t, 2, m.Examples().Len())
	assert.Contains(t, m.View(), "Connected - docs | gpt-4o-mini")
	assert.Contains(t, m.View(), "Summarize the Q3 report")
}

func TestStatus_RenderStates(t *testing.T) {
	tests := []struct {
		name    string
		backend *fakeBackend
		want    model.StatusView
	}{
		{"running", runningBackend(), model.ReportedStatus("running", "docs", "gpt-4o-mini")},
		{"offline", &fakeBackend{status: &jarvis.StatusResponse{Status: "starting", PineconeIndex: "docs"}}, model.StatusView{Status: model.StatusError, Text: model.TextOffline}},
		{"unreachable", &fakeBackend{statusErr: jarvis.ErrUnreachable}, model.UnreachableStatus()},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m, _ := newTestModel(t, tc.backend)
			got := mustFind[StatusMsg](t, m.checkStatusCmd())
			assert.Equal(t, tc.want, got.View)

			m, _ = update(t, m, got)
			assert.Equal(t, tc.want, m.Status())
			assert.Contains(t, m.View(), tc.want.Text)
		})
	}
}

func TestStatusTick_PollsAgain(t *testing.T) {
	m, _ := newTestModel(t, runningBackend())
	_, cmd := update(t, m, StatusTickMsg{Time: time.Now()})
	_, ok := find[StatusMsg](collect(cmd))
	assert.True(t, ok)
}

func TestManualRefresh_IsThrottled(t *testing.T) {
	m, _ := newTestModel(t, runningBackend())

	m, cmd := press(t, m, tea.KeyCtrlR)
	require.NotNil(t, cmd)
	_, ok := find[StatusMsg](collect(cmd))
	assert.True(t, ok)

	_, cmd = press(t, m, tea.KeyCtrlR)
	assert.Nil(t, cmd, "second refresh inside the window must be dropped")
}

// =============================================================================
// EXAMPLES
// =============================================================================

func TestExamples_FallbackOnFailure(t *testing.T) {
	b := runningBackend()
	b.exErr = errors.New("500")
	m, _ := newTestModel(t, b)

	loaded := mustFind[ExamplesLoadedMsg](t, m.loadExamplesCmd(0))
	assert.True(t, loaded.Set.Fallback)
	assert.Equal(t, model.FallbackQuestions, loaded.Set.Questions)

	m, _ = update(t, m, loaded)
	assert.Equal(t, 2, m.Examples().Len())
	view := m.View()
	assert.Contains(t, view, "What can you help me with?")
	assert.Contains(t, view, "Tell me about your capabilities")
}

func TestExamples_EmptyListRendersNoButtons(t *testing.T) {
	b := runningBackend()
	b.questions = []string{}
	m, _ := newTestModel(t, b)

	m, _ = update(t, m, mustFind[ExamplesLoadedMsg](t, m.loadExamplesCmd(0)))
	assert.Equal(t, 0, m.Examples().Len())
	assert.False(t, m.Examples().Set().Fallback)
}

func TestExamples_DigitSelectsAndSubmits(t *testing.T) {
	b := runningBackend()
	m, _ := newTestModel(t, b)
	m, _ = update(t, m, ExamplesLoadedMsg{Set: model.LoadedExamples(b.questions)})

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("2")})

	require.Equal(t, 1, m.Transcript().Len())
	assert.Equal(t, "Summarize the Q3 report", m.Transcript().Entries()[0].Content)
	assert.Equal(t, PhaseSending, m.Phase())
	assert.Empty(t, m.InputValue())

	mustFind[ChatResponseMsg](t, cmd)
	assert.Equal(t, []string{"Summarize the Q3 report"}, b.Sent())
}

func TestExamples_TabThenEnterSubmitsFocused(t *testing.T) {
	b := runningBackend()
	m, _ := newTestModel(t, b)
	m, _ = update(t, m, ExamplesLoadedMsg{Set: model.LoadedExamples(b.questions)})

	m, _ = press(t, m, tea.KeyTab)
	m, _ = press(t, m, tea.KeyTab)
	m, _ = press(t, m, tea.KeyEnter)

	require.Equal(t, 1, m.Transcript().Len())
	assert.Equal(t, "Summarize the Q3 report", m.Transcript().Entries()[0].Content)
}

func TestExamples_DigitsAreTypedWhenInputNotEmpty(t *testing.T) {
	b := runningBackend()
	m, _ := newTestModel(t, b)
	m, _ = update(t, m, ExamplesLoadedMsg{Set: model.LoadedExamples(b.questions)})

	m = typeText(t, m, "Q")
	m = typeText(t, m, "1")

	assert.Equal(t, "Q1", m.InputValue())
	assert.True(t, m.Transcript().IsEmpty())
}

func TestExamples_IgnoredWhileLoading(t *testing.T) {
	m, _ := newTestModel(t, runningBackend())
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("1")})
	assert.True(t, m.Transcript().IsEmpty())
	assert.Equal(t, "1", m.InputValue())
}

// =============================================================================
// MESSAGE PIPELINE
// =============================================================================

func TestSubmit_EmptyInputIsNoop(t *testing.T) {
	for _, input := range []string{"", "   ", "\t"} {
		m, _ := newTestModel(t, runningBackend())
		if input != "" {
			m = typeText(t, m, input)
		}
		m, cmd := press(t, m, tea.KeyEnter)
		assert.Nil(t, cmd)
		assert.True(t, m.Transcript().IsEmpty())
		assert.Equal(t, PhaseIdle, m.Phase())
	}
}

func TestSubmit_FullRoundTrip(t *testing.T) {
	b := runningBackend()
	m, _ := newTestModel(t, b)

	m = typeText(t, m, "What is Jarvis?")
	m, cmd := press(t, m, tea.KeyEnter)

	require.Equal(t, 1, m.Transcript().Len())
	assert.Equal(t, model.SenderUser, m.Transcript().Entries()[0].Sender)
	assert.Equal(t, PhaseSending, m.Phase())
	assert.Empty(t, m.InputValue())
	assert.Contains(t, m.View(), "Waiting for Jarvis")

	resp := mustFind[ChatResponseMsg](t, cmd)
	require.NoError(t, resp.Err)
	assert.Equal(t, []string{"What is Jarvis?"}, b.Sent())

	m, cmd = update(t, m, resp)
	assert.Equal(t, PhaseRendering, m.Phase())
	assert.Equal(t, 1, m.Transcript().Len(), "answer waits for the response delay")

	m, _ = update(t, m, mustFind[RevealMsg](t, cmd))
	assert.Equal(t, PhaseIdle, m.Phase())
	require.Equal(t, 2, m.Transcript().Len())

	answer := m.Transcript().Entries()[1]
	assert.Equal(t, model.SenderAssistant, answer.Sender)
	assert.Equal(t, "Source: a.pdf, b.pdf", answer.Citation())
	assert.Contains(t, m.View(), "a.pdf, b.pdf")
	assert.NotContains(t, m.View(), "Waiting for Jarvis")
}

func TestSubmit_WhileSendingIsNoop(t *testing.T) {
	b := runningBackend()
	m, _ := newTestModel(t, b)

	m = typeText(t, m, "first")
	m, _ = press(t, m, tea.KeyEnter)
	require.True(t, m.Sending())

	// Keys are swallowed while sending.
	m = typeText(t, m, "second")
	assert.Empty(t, m.InputValue())

	next, cmd := m.submit("second")
	m = next.(Model)
	assert.Nil(t, cmd)
	assert.Equal(t, 1, m.Transcript().Len())

	// Still a no-op while the answer waits out the delay.
	m, _ = update(t, m, ChatResponseMsg{Seq: 1, Resp: b.reply})
	require.Equal(t, PhaseRendering, m.Phase())
	next, cmd = m.submit("third")
	m = next.(Model)
	assert.Nil(t, cmd)
	assert.Equal(t, 1, m.Transcript().Len())
}

func TestSubmit_ResponseDelay(t *testing.T) {
	m, _ := newTestModel(t, runningBackend())
	m.cfg.UI.ResponseDelay = config.Duration(20 * time.Millisecond)

	start := time.Now()
	reveal := mustFind[RevealMsg](t, m.revealCmd(3, model.NewAssistantEntry("hi", nil)))
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
	assert.Equal(t, 3, reveal.Seq)
}

func TestChatFailure_ShowsDialogAndErrorEntry(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"server error text", &jarvis.ClientError{Type: jarvis.ErrTypeApplication, Message: "Index not ready"}, "Index not ready"},
		{"missing error text", &jarvis.ClientError{Type: jarvis.ErrTypeApplication, Message: jarvis.DefaultChatError}, "Failed to get response"},
		{"transport", jarvis.ErrUnreachable, "Cannot connect to server"},
		{"timeout", jarvis.ErrTimeout, "Request timed out"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b := runningBackend()
			b.reply = nil
			b.chatErr = tc.err
			m, _ := newTestModel(t, b)

			m = sendAndAnswer(t, m, "hello")

			assert.Equal(t, PhaseIdle, m.Phase())
			assert.True(t, m.DialogVisible())
			assert.Equal(t, tc.want, m.Dialog().Message)
			require.Equal(t, 2, m.Transcript().Len())
			last := m.Transcript().Entries()[1]
			assert.Equal(t, model.SenderSystemError, last.Sender)
			assert.Equal(t, "Error: "+tc.want, last.Content)

			view := m.View()
			assert.Contains(t, view, tc.want)
			assert.Contains(t, view, "Press enter or esc to close")
		})
	}
}

func TestDialog_IsModal(t *testing.T) {
	b := runningBackend()
	b.reply = nil
	b.chatErr = jarvis.ErrUnreachable
	m, _ := newTestModel(t, b)
	m = sendAndAnswer(t, m, "hello")
	require.True(t, m.DialogVisible())

	m = typeText(t, m, "typed")
	assert.Empty(t, m.InputValue())
	m, _ = press(t, m, tea.KeyCtrlL)
	assert.Equal(t, 2, m.Transcript().Len(), "reset is blocked behind the dialog")

	m, _ = press(t, m, tea.KeyEsc)
	assert.False(t, m.DialogVisible())

	// Input is re-enabled after a failure.
	m = typeText(t, m, "again")
	assert.Equal(t, "again", m.InputValue())
}

func TestDialog_EnterDismisses(t *testing.T) {
	b := runningBackend()
	b.reply = nil
	b.chatErr = jarvis.ErrUnreachable
	m, _ := newTestModel(t, b)
	m = sendAndAnswer(t, m, "hello")

	m, cmd := press(t, m, tea.KeyEnter)
	assert.Nil(t, cmd)
	assert.False(t, m.DialogVisible())
	assert.Equal(t, 2, m.Transcript().Len())
}

func TestStaleResultsAreDropped(t *testing.T) {
	b := runningBackend()
	m, _ := newTestModel(t, b)

	m = typeText(t, m, "hello")
	m, cmd := press(t, m, tea.KeyEnter)
	resp := mustFind[ChatResponseMsg](t, cmd)

	m, _ = press(t, m, tea.KeyCtrlL)
	require.True(t, m.Transcript().IsEmpty())

	// The first request is still outstanding, so nothing new may be sent.
	assert.Equal(t, PhaseSending, m.Phase())
	m = typeText(t, m, "second")
	m, cmd = press(t, m, tea.KeyEnter)
	assert.Nil(t, cmd)
	m, cmd = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'1'}})
	assert.Nil(t, cmd)
	assert.True(t, m.Transcript().IsEmpty())

	m, _ = update(t, m, resp)
	assert.True(t, m.Transcript().IsEmpty())
	assert.Equal(t, PhaseIdle, m.Phase())
	assert.False(t, m.DialogVisible())

	m, _ = update(t, m, RevealMsg{Seq: resp.Seq, Entry: model.NewAssistantEntry("late", nil)})
	assert.True(t, m.Transcript().IsEmpty())

	m = typeText(t, m, "second")
	m, cmd = press(t, m, tea.KeyEnter)
	next := mustFind[ChatResponseMsg](t, cmd)
	assert.Greater(t, next.Seq, resp.Seq)
	assert.Equal(t, 1, m.Transcript().Len())
}

func TestStaleFailureIsDroppedSilently(t *testing.T) {
	b := runningBackend()
	m, _ := newTestModel(t, b)

	m = typeText(t, m, "hello")
	m, cmd := press(t, m, tea.KeyEnter)
	resp := mustFind[ChatResponseMsg](t, cmd)
	m, _ = press(t, m, tea.KeyCtrlL)

	resp.Resp = nil
	resp.Err = &jarvis.ClientError{Type: jarvis.ErrTypeConnection, Message: "refused"}
	m, _ = update(t, m, resp)

	assert.Equal(t, PhaseIdle, m.Phase())
	assert.False(t, m.DialogVisible())
	assert.True(t, m.Transcript().IsEmpty())
}

// =============================================================================
// RESET
// =============================================================================

func TestReset_ClearsAndReloadsExamples(t *testing.T) {
	b := runningBackend()
	m, _ := newTestModel(t, b)
	m, _ = update(t, m, ExamplesLoadedMsg{Set: model.LoadedExamples(b.questions)})
	m = sendAndAnswer(t, m, "hello")
	require.Equal(t, 2, m.Transcript().Len())

	m, cmd := press(t, m, tea.KeyCtrlL)

	assert.True(t, m.Transcript().IsEmpty())
	assert.True(t, m.Examples().Loading())
	assert.Empty(t, m.InputValue())
	toasts := m.Toasts()
	require.NotEmpty(t, toasts)
	assert.Equal(t, "Conversation cleared successfully!", toasts[0].Message)

	view := m.View()
	assert.Contains(t, view, components.WelcomeTitle)
	assert.Contains(t, view, "Conversation cleared successfully!")

	loaded := mustFind[ExamplesLoadedMsg](t, cmd)
	assert.Equal(t, 1, loaded.Epoch)

	// A fetch started before the reset is ignored.
	m, _ = update(t, m, ExamplesLoadedMsg{Epoch: 0, Set: model.FallbackExamples()})
	assert.True(t, m.Examples().Loading())

	m, _ = update(t, m, loaded)
	assert.False(t, m.Examples().Loading())
	assert.Equal(t, 2, m.Examples().Len())
}

func TestReset_ViaSlashCommand(t *testing.T) {
	m, _ := newTestModel(t, runningBackend())
	m = sendAndAnswer(t, m, "hello")

	m = typeText(t, m, "/clear")
	m, _ = press(t, m, tea.KeyEnter)

	assert.True(t, m.Transcript().IsEmpty())
	assert.Empty(t, m.InputValue())
}

// =============================================================================
// COMMANDS
// =============================================================================

func runCommand(t *testing.T, m Model, line string) (Model, tea.Cmd) {
	t.Helper()
	m = typeText(t, m, line)
	return press(t, m, tea.KeyEnter)
}

func TestCommand_Help(t *testing.T) {
	m, _ := newTestModel(t, runningBackend())

	m, _ = runCommand(t, m, "/help")
	require.True(t, m.ShowingHelp())
	view := m.View()
	for _, c := range Commands {
		assert.Contains(t, view, c.Summary)
	}

	m, _ = press(t, m, tea.KeyEsc)
	assert.False(t, m.ShowingHelp())
	assert.True(t, m.Transcript().IsEmpty(), "commands never reach the transcript")
}

func TestCommand_Examples(t *testing.T) {
	b := runningBackend()
	m, _ := newTestModel(t, b)
	m, _ = update(t, m, ExamplesLoadedMsg{Set: model.LoadedExamples(b.questions)})
	m = sendAndAnswer(t, m, "hello")

	m, _ = runCommand(t, m, "/examples")
	require.True(t, m.ShowingExamples())
	assert.Contains(t, m.View(), "Example questions")

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("1")})
	assert.False(t, m.ShowingExamples())
	assert.Equal(t, "What is in the handbook?", m.Transcript().Entries()[2].Content)
}

func TestCommand_Unknown(t *testing.T) {
	m, _ := newTestModel(t, runningBackend())
	m, _ = runCommand(t, m, "/frobnicate")

	require.NotEmpty(t, m.Toasts())
	assert.Contains(t, m.Toasts()[0].Message, "Unknown command: /frobnicate")
	assert.True(t, m.Transcript().IsEmpty())
	assert.Equal(t, PhaseIdle, m.Phase())
}

func TestCommand_Quit(t *testing.T) {
	m, _ := newTestModel(t, runningBackend())
	_, cmd := runCommand(t, m, "/quit")
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestCommand_Status(t *testing.T) {
	m, _ := newTestModel(t, runningBackend())
	m, cmd := runCommand(t, m, "/status")

	require.NotEmpty(t, m.Toasts())
	assert.Equal(t, "Status: "+model.TextConnecting, m.Toasts()[0].Message)
	_, ok := find[StatusMsg](collect(cmd))
	assert.True(t, ok)
}

func TestCommand_Copy(t *testing.T) {
	m, clip := newTestModel(t, runningBackend())

	m, _ = runCommand(t, m, "/copy")
	require.NotEmpty(t, m.Toasts())
	assert.Equal(t, "No answer to copy yet", m.Toasts()[0].Message)

	m = sendAndAnswer(t, m, "hello")
	m, cmd := press(t, m, tea.KeyCtrlY)
	msg := mustFind[ClipboardMsg](t, cmd)
	require.NoError(t, msg.Err)
	assert.Equal(t, "Here is **the** answer", clip.text)

	m, _ = update(t, m, msg)
	assert.Equal(t, "Copied last answer to clipboard", m.Toasts()[0].Message)
}

func TestCommand_CopyFailure(t *testing.T) {
	m, clip := newTestModel(t, runningBackend())
	clip.err = errors.New("no clipboard")
	m = sendAndAnswer(t, m, "hello")

	m, cmd := runCommand(t, m, "/copy")
	m, _ = update(t, m, mustFind[ClipboardMsg](t, cmd))
	assert.Equal(t, components.ToastKindError, m.Toasts()[0].Kind)
}

func TestCommand_Export(t *testing.T) {
	m, _ := newTestModel(t, runningBackend())

	m, _ = runCommand(t, m, "/export")
	assert.Equal(t, "Nothing to export yet", m.Toasts()[0].Message)

	m, _ = update(t, m, StatusMsg{View: model.ReportedStatus("running", "docs", "gpt-4o-mini")})
	m = sendAndAnswer(t, m, "hello")
	m, cmd := runCommand(t, m, "/export json")

	done := mustFind[ExportCompleteMsg](t, cmd)
	require.NoError(t, done.Error)
	assert.True(t, strings.HasSuffix(done.Path, ".json"))

	data, err := os.ReadFile(done.Path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"index": "docs"`)
	assert.Contains(t, string(data), "Here is **the** answer")

	m, _ = update(t, m, done)
	assert.Equal(t, "Exported to "+done.Path, m.Toasts()[0].Message)
}

func TestCommand_ExportBadFormat(t *testing.T) {
	m, _ := newTestModel(t, runningBackend())
	m = sendAndAnswer(t, m, "hello")
	m, cmd := runCommand(t, m, "/export pdf")
	assert.Nil(t, collectExport(cmd))
	assert.Contains(t, m.Toasts()[0].Message, "Usage: /export [md|html|json]")
}

func collectExport(cmd tea.Cmd) *ExportCompleteMsg {
	if v, ok := find[ExportCompleteMsg](collect(cmd)); ok {
		return &v
	}
	return nil
}

func TestCommandRegistry(t *testing.T) {
	seen := map[string]bool{}
	for _, c := range Commands {
		require.NotNil(t, c.Handler, c.Name)
		for _, name := range append([]string{c.Name}, c.Aliases...) {
			assert.False(t, seen[name], "duplicate command name %q", name)
			seen[name] = true
			assert.Contains(t, commandHandlers, name)
		}
	}
	assert.Equal(t, []string{"clear", "copy", "examples", "export", "help", "quit", "status"}, CommandNames())
}

// =============================================================================
// CONFIG RELOAD
// =============================================================================

func TestConfigReload_AppliesLive(t *testing.T) {
	m, _ := newTestModel(t, runningBackend())

	cfg := m.Config().Clone()
	cfg.UI.Renderer = config.RendererGlamour
	cfg.UI.ResponseDelay = config.Duration(2 * time.Second)
	cfg.Server.PollInterval = config.Duration(5 * time.Second)

	m, _ = update(t, m, ConfigReloadedMsg{Config: cfg})

	assert.Same(t, cfg, m.Config())
	assert.Equal(t, config.RendererGlamour, m.renderer.Mode())
	assert.Equal(t, "Configuration reloaded", m.Toasts()[0].Message)
}

func TestConfigError_ShowsToast(t *testing.T) {
	m, _ := newTestModel(t, runningBackend())
	m, _ = update(t, m, ConfigErrorMsg{Err: errors.New("bad toml")})
	assert.Equal(t, components.ToastKindError, m.Toasts()[0].Kind)
	assert.Contains(t, m.Toasts()[0].Message, "bad toml")
}

// =============================================================================
// TOASTS
// =============================================================================

func TestToastTick_ExpiresToasts(t *testing.T) {
	m, _ := newTestModel(t, runningBackend())
	m, cmd := press(t, m, tea.KeyCtrlL)
	require.NotNil(t, cmd)
	require.Len(t, m.Toasts(), 1)

	m, cmd = update(t, m, components.ToastTickMsg{Time: time.Now()})
	assert.NotNil(t, cmd, "ticker keeps running while toasts are visible")

	m, cmd = update(t, m, components.ToastTickMsg{Time: time.Now().Add(time.Minute)})
	assert.Nil(t, cmd)
	assert.Empty(t, m.Toasts())
	assert.False(t, m.toastTicking)
}

// =============================================================================
// HELPERS
// =============================================================================

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "idle", PhaseIdle.String())
	assert.Equal(t, "sending", PhaseSending.String())
	assert.Equal(t, "rendering", PhaseRendering.String())
}
