// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package jarvis provides the HTTP client for the Jarvis document assistant.
//
// The backend exposes three JSON endpoints under /api:
//
//	GET  /api/status             -> {status, pinecone_index, openai_model}
//	GET  /api/example-questions  -> {questions: [...]}
//	POST /api/chat {message}     -> {status, message, sources?, error?}
//
// # Key Types
//
//   - Client: HTTP client for the three endpoints
//   - ClientError: Typed error separating transport from application failures
//   - Poller: Background status poller publishing the latest StatusView
//
// # Usage
//
//	client := jarvis.NewClient(&jarvis.ClientConfig{BaseURL: "http://127.0.0.1:5000"})
//	resp, err := client.Chat(ctx, "What is this document about?")
//	if err != nil {
//	    var cerr *jarvis.ClientError
//	    if errors.As(err, &cerr) && cerr.Type == jarvis.ErrTypeApplication {
//	        // the server answered but reported a failure
//	    }
//	}
//	fmt.Println(resp.Message, resp.Sources)
//
// Requests are never retried. Each call is bounded by the configured timeout
// and by the caller's context.
package jarvis
