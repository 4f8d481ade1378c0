// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"time"

	"github.com/google/uuid"

	"github.com/jeranaias/jarvis-tui/internal/model"
)

// =============================================================================
// DOCUMENT
// =============================================================================

// Meta carries the context shown in export headers.
type Meta struct {
	// Server is the backend base URL.
	Server string
	// Index and Model come from the last successful status poll; may be empty.
	Index string
	Model string
}

// Document is an immutable snapshot of a transcript ready for export.
type Document struct {
	ID         string        `json:"id"`
	Title      string        `json:"title"`
	StartedAt  time.Time     `json:"started_at"`
	ExportedAt time.Time     `json:"exported_at"`
	Server     string        `json:"server,omitempty"`
	Index      string        `json:"index,omitempty"`
	Model      string        `json:"model,omitempty"`
	Entries    []model.Entry `json:"entries"`
}

// FromTranscript snapshots t. A nil transcript yields nil.
func FromTranscript(t *model.Transcript, meta Meta) *Document {
	if t == nil {
		return nil
	}
	return &Document{
		ID:         uuid.NewString(),
		Title:      t.Title(),
		StartedAt:  t.StartedAt(),
		ExportedAt: time.Now(),
		Server:     meta.Server,
		Index:      meta.Index,
		Model:      meta.Model,
		Entries:    t.Entries(),
	}
}

// Count returns the number of entries from sender.
func (d *Document) Count(sender model.Sender) int {
	n := 0
	for _, e := range d.Entries {
		if e.Sender == sender {
			n++
		}
	}
	return n
}
