// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/jarvis-tui/internal/export"
	"github.com/jeranaias/jarvis-tui/internal/jarvis"
	"github.com/jeranaias/jarvis-tui/internal/model"
)

// =============================================================================
// STATUS COMMANDS
// =============================================================================

// checkStatusCmd runs one status poll. Failures render as unreachable.
func (m Model) checkStatusCmd() tea.Cmd {
	backend, timeout, log := m.backend, m.cfg.Server.RequestTimeout.Std(), m.log
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return StatusMsg{View: jarvis.CheckStatus(ctx, backend, log)}
	}
}

// statusTickCmd schedules the next poll using the current interval, so a
// reloaded poll_interval applies from the following tick.
func (m Model) statusTickCmd() tea.Cmd {
	interval := m.cfg.Server.PollInterval.Std()
	if interval <= 0 {
		interval = jarvis.DefaultPollInterval
	}
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return StatusTickMsg{Time: t}
	})
}

// =============================================================================
// EXAMPLE COMMANDS
// =============================================================================

// loadExamplesCmd fetches the example questions, falling back to the static
// pair on any failure.
func (m Model) loadExamplesCmd(epoch int) tea.Cmd {
	backend, timeout, log := m.backend, m.cfg.Server.RequestTimeout.Std(), m.log
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		questions, err := backend.ExampleQuestions(ctx)
		if err != nil {
			log.Warn().Err(err).Str("endpoint", "/example-questions").Msg("using fallback examples")
			return ExamplesLoadedMsg{Epoch: epoch, Set: model.FallbackExamples()}
		}
		return ExamplesLoadedMsg{Epoch: epoch, Set: model.LoadedExamples(questions)}
	}
}

// =============================================================================
// CHAT COMMANDS
// =============================================================================

// sendChatCmd posts one message. There are no retries.
func (m Model) sendChatCmd(seq int, text string) tea.Cmd {
	backend, timeout := m.backend, m.cfg.Server.RequestTimeout.Std()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		resp, err := backend.Chat(ctx, text)
		return ChatResponseMsg{Seq: seq, Resp: resp, Err: err}
	}
}

// revealCmd delivers the assistant entry after the response delay.
func (m Model) revealCmd(seq int, entry model.Entry) tea.Cmd {
	delay := m.cfg.UI.ResponseDelay.Std()
	reveal := RevealMsg{Seq: seq, Entry: entry}
	if delay <= 0 {
		return func() tea.Msg { return reveal }
	}
	return tea.Tick(delay, func(time.Time) tea.Msg { return reveal })
}

// =============================================================================
// EXPORT / COPY COMMANDS
// =============================================================================

// exportCmd writes doc in the background.
func exportCmd(doc *export.Document, exporter export.Exporter, opts *export.Options) tea.Cmd {
	return func() tea.Msg {
		path, err := export.ExportToFile(doc, exporter, opts)
		return ExportCompleteMsg{Path: path, Error: err}
	}
}

// copyCmd writes text to the clipboard.
func copyCmd(write func(string) error, text string) tea.Cmd {
	return func() tea.Msg {
		return ClipboardMsg{Chars: len([]rune(text)), Err: write(text)}
	}
}
