// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for the chat transcript.
package model

import (
	"strings"
	"time"

	"github.com/jeranaias/jarvis-tui/internal/util"
)

// =============================================================================
// SENDER TYPE
// =============================================================================

// Sender identifies who produced a transcript entry.
type Sender string

const (
	SenderUser        Sender = "user"
	SenderAssistant   Sender = "assistant"
	SenderSystemError Sender = "system-error"
)

// String returns the string representation of the sender.
func (s Sender) String() string {
	return string(s)
}

// DisplayName returns a human-readable name for the sender.
func (s Sender) DisplayName() string {
	switch s {
	case SenderUser:
		return "You"
	case SenderAssistant:
		return "Jarvis"
	case SenderSystemError:
		return "System"
	default:
		return string(s)
	}
}

// Valid reports whether s is one of the known senders.
func (s Sender) Valid() bool {
	switch s {
	case SenderUser, SenderAssistant, SenderSystemError:
		return true
	}
	return false
}

// =============================================================================
// ENTRY TYPE
// =============================================================================

// CitationPrefix starts the citation line appended to assistant entries.
const CitationPrefix = "Source: "

// ErrorPrefix starts the content of system-error entries.
const ErrorPrefix = "Error: "

// Entry is a single rendered message in the transcript.
type Entry struct {
	Sender    Sender    `json:"sender"`
	Content   string    `json:"content"`
	Sources   []string  `json:"sources,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// NewEntry creates an entry stamped with the current time.
func NewEntry(sender Sender, content string) Entry {
	return Entry{
		Sender:    sender,
		Content:   content,
		Timestamp: time.Now(),
	}
}

// NewUserEntry creates a user entry.
func NewUserEntry(content string) Entry {
	return NewEntry(SenderUser, content)
}

// NewAssistantEntry creates an assistant entry with optional source citations.
func NewAssistantEntry(content string, sources []string) Entry {
	e := NewEntry(SenderAssistant, content)
	if len(sources) > 0 {
		e.Sources = append([]string(nil), sources...)
	}
	return e
}

// NewErrorEntry creates a system-error entry for a failed request.
func NewErrorEntry(message string) Entry {
	return NewEntry(SenderSystemError, ErrorPrefix+message)
}

// Citation returns the citation line for the entry, or "" when it has no sources.
func (e Entry) Citation() string {
	if e.Sender != SenderAssistant || len(e.Sources) == 0 {
		return ""
	}
	return CitationPrefix + strings.Join(e.Sources, ", ")
}

// HasCitation reports whether a citation line should be rendered.
func (e Entry) HasCitation() bool {
	return e.Citation() != ""
}

// Preview returns the content truncated to maxLen runes.
func (e Entry) Preview(maxLen int) string {
	return util.TruncateRunes(e.Content, maxLen)
}
