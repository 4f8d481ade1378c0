// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for the chat transcript.
package model

import "time"

// =============================================================================
// TRANSCRIPT TYPE
// =============================================================================

// Transcript is the ordered list of entries currently rendered in the chat.
// It is owned by the UI loop and is not safe for concurrent use.
type Transcript struct {
	entries   []Entry
	startedAt time.Time
}

// NewTranscript creates an empty transcript.
func NewTranscript() *Transcript {
	return &Transcript{
		entries:   make([]Entry, 0),
		startedAt: time.Now(),
	}
}

// Append adds an entry to the end of the transcript.
func (t *Transcript) Append(e Entry) {
	t.entries = append(t.entries, e)
}

// Entries returns a copy of the entries in render order.
func (t *Transcript) Entries() []Entry {
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Len returns the number of entries.
func (t *Transcript) Len() int {
	return len(t.entries)
}

// IsEmpty returns true when nothing has been rendered.
func (t *Transcript) IsEmpty() bool {
	return len(t.entries) == 0
}

// Clear drops every entry and restarts the transcript clock.
func (t *Transcript) Clear() {
	t.entries = make([]Entry, 0)
	t.startedAt = time.Now()
}

// StartedAt returns when the transcript was created or last cleared.
func (t *Transcript) StartedAt() time.Time {
	return t.startedAt
}

// Last returns the most recent entry from the given sender.
func (t *Transcript) Last(sender Sender) (Entry, bool) {
	for i := len(t.entries) - 1; i >= 0; i-- {
		if t.entries[i].Sender == sender {
			return t.entries[i], true
		}
	}
	return Entry{}, false
}

// Count returns how many entries came from the given sender.
func (t *Transcript) Count(sender Sender) int {
	n := 0
	for _, e := range t.entries {
		if e.Sender == sender {
			n++
		}
	}
	return n
}

// Title returns a short title derived from the first user entry.
func (t *Transcript) Title() string {
	if e, ok := t.first(SenderUser); ok {
		return e.Preview(50)
	}
	return "New conversation"
}

func (t *Transcript) first(sender Sender) (Entry, bool) {
	for _, e := range t.entries {
		if e.Sender == sender {
			return e, true
		}
	}
	return Entry{}, false
}
