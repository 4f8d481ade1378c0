// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"time"

	"github.com/jeranaias/jarvis-tui/internal/config"
	"github.com/jeranaias/jarvis-tui/internal/jarvis"
	"github.com/jeranaias/jarvis-tui/internal/model"
)

// =============================================================================
// STATUS MESSAGES
// =============================================================================

// StatusMsg carries the result of one status poll.
type StatusMsg struct {
	View model.StatusView
}

// StatusTickMsg fires every poll interval.
type StatusTickMsg struct {
	Time time.Time
}

// =============================================================================
// EXAMPLE MESSAGES
// =============================================================================

// ExamplesLoadedMsg carries the example questions, or the fallback set when
// the fetch failed. Epoch ties the result to the conversation that asked.
type ExamplesLoadedMsg struct {
	Epoch int
	Set   model.ExampleSet
}

// =============================================================================
// CHAT MESSAGES
// =============================================================================

// ChatResponseMsg carries the outcome of a chat request.
type ChatResponseMsg struct {
	Seq  int
	Resp *jarvis.ChatResponse
	Err  error
}

// RevealMsg fires once the response delay has passed and the assistant
// entry should be rendered.
type RevealMsg struct {
	Seq   int
	Entry model.Entry
}

// =============================================================================
// CONFIG MESSAGES
// =============================================================================

// ConfigReloadedMsg is sent by the config watcher after a successful reload.
type ConfigReloadedMsg struct {
	Config *config.Config
}

// ConfigErrorMsg is sent by the config watcher when the file fails to load.
type ConfigErrorMsg struct {
	Err error
}

// =============================================================================
// EXPORT / COPY MESSAGES
// =============================================================================

// ExportCompleteMsg reports the result of /export.
type ExportCompleteMsg struct {
	Path  string
	Error error
}

// ClipboardMsg reports the result of a copy to the clipboard.
type ClipboardMsg struct {
	Chars int
	Err   error
}
