// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package jarvis

import "github.com/jeranaias/jarvis-tui/internal/model"

// =============================================================================
// REQUEST TYPES
// =============================================================================

// ChatRequest is the request body for /api/chat.
type ChatRequest struct {
	Message string `json:"message"`
}

// =============================================================================
// RESPONSE TYPES
// =============================================================================

// StatusResponse is the response from /api/status.
type StatusResponse struct {
	Status        string `json:"status"`
	PineconeIndex string `json:"pinecone_index"`
	OpenAIModel   string `json:"openai_model"`
}

// Running reports whether the backend declared itself ready.
func (r *StatusResponse) Running() bool {
	return r != nil && r.Status == StatusRunning
}

// View maps the response to the connection indicator.
func (r *StatusResponse) View() model.StatusView {
	if r == nil {
		return model.UnreachableStatus()
	}
	return model.ReportedStatus(r.Status, r.PineconeIndex, r.OpenAIModel)
}

// ExampleQuestionsResponse is the response from /api/example-questions.
type ExampleQuestionsResponse struct {
	Questions []string `json:"questions"`
}

// ChatResponse is the response from /api/chat.
type ChatResponse struct {
	Status  string   `json:"status"`
	Message string   `json:"message"`
	Sources []string `json:"sources,omitempty"`
	Error   string   `json:"error,omitempty"`
}

// Succeeded reports whether the server flagged the answer as successful.
func (r *ChatResponse) Succeeded() bool {
	return r != nil && r.Status == StatusSuccess
}

// Entry converts a successful response into a transcript entry.
func (r *ChatResponse) Entry() model.Entry {
	return model.NewAssistantEntry(r.Message, r.Sources)
}

// Status values reported by the backend.
const (
	StatusRunning = "running"
	StatusSuccess = "success"
)
