// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/jarvis-tui/internal/config"
	"github.com/jeranaias/jarvis-tui/internal/jarvis"
	"github.com/jeranaias/jarvis-tui/internal/model"
	"github.com/jeranaias/jarvis-tui/internal/ui/chat"
)

// =============================================================================
// TEST HARNESS
// =============================================================================

// backend is a scripted Jarvis server.
type backend struct {
	status    int
	state     string
	examples  []string
	exampleSC int
	answer    string
	sources   []string
	chatErr   string
	chats     atomic.Int32
	lastAsked atomic.Value

	mu sync.Mutex
}

func (b *backend) setExamples(questions ...string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.examples = questions
}

func (b *backend) currentExamples() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.examples
}

func newBackend() *backend {
	return &backend{
		status:    http.StatusOK,
		state:     "running",
		examples:  []string{"What is the leave policy?", "Summarize the Q3 report"},
		exampleSC: http.StatusOK,
		answer:    "The policy allows **20 days**.",
		sources:   []string{"handbook.pdf"},
	}
}

func (b *backend) serve(t *testing.T) string {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/status", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, b.status, map[string]string{
			"status":         b.state,
			"pinecone_index": "jarvis-docs",
			"openai_model":   "gpt-4o-mini",
		})
	})
	mux.HandleFunc("/api/example-questions", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, b.exampleSC, map[string][]string{"questions": b.currentExamples()})
	})
	mux.HandleFunc("/api/chat", func(w http.ResponseWriter, r *http.Request) {
		b.chats.Add(1)
		var req jarvis.ChatRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		b.lastAsked.Store(req.Message)
		if b.chatErr != "" {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"status": "error", "error": b.chatErr})
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"status":  "success",
			"message": b.answer,
			"sources": b.sources,
		})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv.URL
}

func (b *backend) asked() string {
	s, _ := b.lastAsked.Load().(string)
	return s
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeConfig writes a quiet config into a temp dir and returns its path.
func writeConfig(t *testing.T, extra string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	body := fmt.Sprintf(`[ui]
response_delay = "0s"
export_dir = %q

[log]
level = "off"
file = ""
%s`, dir, extra)
	require.NoError(t, os.WriteFile(path, []byte(body), 0600))
	return path
}

type result struct {
	code   int
	stdout string
	stderr string
}

func execute(t *testing.T, stdin string, args ...string) result {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(args, strings.NewReader(stdin), &stdout, &stderr)
	return result{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

// =============================================================================
// STATUS
// =============================================================================

func TestStatus_Running(t *testing.T) {
	b := newBackend()
	url := b.serve(t)
	cfg := writeConfig(t, "")

	r := execute(t, "", "status", "--config", cfg, "--server", url)
	assert.Equal(t, ExitSuccess, r.code, r.stderr)
	assert.Contains(t, r.stdout, "Connected - jarvis-docs | gpt-4o-mini")
	assert.Contains(t, r.stdout, url)
}

func TestStatus_JSON(t *testing.T) {
	b := newBackend()
	url := b.serve(t)
	cfg := writeConfig(t, "")

	r := execute(t, "", "status", "--json", "--config", cfg, "--server", url)
	require.Equal(t, ExitSuccess, r.code, r.stderr)

	var out statusJSON
	require.NoError(t, json.Unmarshal([]byte(r.stdout), &out))
	assert.True(t, out.Online)
	assert.Equal(t, "running", out.Status)
	assert.Equal(t, "jarvis-docs", out.Index)
	assert.Equal(t, url, out.Server)
}

func TestStatus_Offline(t *testing.T) {
	b := newBackend()
	b.state = "starting"
	url := b.serve(t)
	cfg := writeConfig(t, "")

	r := execute(t, "", "status", "--config", cfg, "--server", url)
	assert.Equal(t, ExitGeneralError, r.code)
	assert.Contains(t, r.stdout, model.TextOffline)
	assert.Contains(t, r.stderr, ErrOffline.Error())
}

func TestStatus_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()
	cfg := writeConfig(t, "")

	r := execute(t, "", "status", "--config", cfg, "--server", url)
	assert.Equal(t, ExitNetworkError, r.code)
	assert.Contains(t, r.stdout, model.TextUnreachable)
}

// =============================================================================
// ASK
// =============================================================================

func TestAsk_PrintsAnswerAndCitation(t *testing.T) {
	b := newBackend()
	url := b.serve(t)
	cfg := writeConfig(t, "")

	r := execute(t, "", "ask", "--config", cfg, "--server", url, "How many", "days?")
	require.Equal(t, ExitSuccess, r.code, r.stderr)
	assert.Equal(t, "How many days?", b.asked())
	assert.Contains(t, r.stdout, "The policy allows 20 days.")
	assert.NotContains(t, r.stdout, "**")
	assert.Contains(t, r.stdout, "Source: handbook.pdf")
}

func TestAsk_JSON(t *testing.T) {
	b := newBackend()
	url := b.serve(t)
	cfg := writeConfig(t, "")

	r := execute(t, "", "ask", "--json", "--config", cfg, "--server", url, "leave?")
	require.Equal(t, ExitSuccess, r.code, r.stderr)

	var resp jarvis.ChatResponse
	require.NoError(t, json.Unmarshal([]byte(r.stdout), &resp))
	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, []string{"handbook.pdf"}, resp.Sources)
}

func TestAsk_ReadsQuestionFromStdin(t *testing.T) {
	if IsTTY() {
		t.Skip("stdin is a terminal")
	}
	b := newBackend()
	url := b.serve(t)
	cfg := writeConfig(t, "")

	r := execute(t, "  piped question\n", "ask", "--config", cfg, "--server", url)
	require.Equal(t, ExitSuccess, r.code, r.stderr)
	assert.Equal(t, "piped question", b.asked())
}

func TestAsk_MissingQuestion(t *testing.T) {
	b := newBackend()
	url := b.serve(t)
	cfg := writeConfig(t, "")

	r := execute(t, "", "ask", "--config", cfg, "--server", url)
	assert.Equal(t, ExitUsageError, r.code)
	assert.Contains(t, r.stderr, "required argument missing")
	assert.Zero(t, b.chats.Load())
}

func TestAsk_ServerError(t *testing.T) {
	b := newBackend()
	b.chatErr = "Index unavailable"
	url := b.serve(t)
	cfg := writeConfig(t, "")

	r := execute(t, "", "ask", "--config", cfg, "--server", url, "hello")
	assert.Equal(t, ExitGeneralError, r.code)
	assert.Contains(t, r.stderr, "Index unavailable")
}

func TestAsk_JSONErrorOutput(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()
	cfg := writeConfig(t, "")

	r := execute(t, "", "ask", "--json", "--config", cfg, "--server", url, "hello")
	assert.Equal(t, ExitNetworkError, r.code)

	var out errorJSON
	require.NoError(t, json.Unmarshal([]byte(r.stderr), &out))
	assert.Equal(t, ExitNetworkError, out.Code)
	assert.NotEmpty(t, out.Error)
}

// =============================================================================
// EXAMPLES
// =============================================================================

func TestExamples_List(t *testing.T) {
	b := newBackend()
	url := b.serve(t)
	cfg := writeConfig(t, "")

	r := execute(t, "", "examples", "--config", cfg, "--server", url)
	require.Equal(t, ExitSuccess, r.code, r.stderr)
	assert.Contains(t, r.stdout, "1. What is the leave policy?")
	assert.Contains(t, r.stdout, "2. Summarize the Q3 report")
	assert.Empty(t, r.stderr)
}

func TestExamples_FallbackOnServerError(t *testing.T) {
	b := newBackend()
	b.exampleSC = http.StatusServiceUnavailable
	url := b.serve(t)
	cfg := writeConfig(t, "")

	r := execute(t, "", "examples", "--json", "--config", cfg, "--server", url)
	require.Equal(t, ExitSuccess, r.code, r.stderr)

	var out struct {
		Questions []string `json:"questions"`
		Fallback  bool     `json:"fallback"`
	}
	require.NoError(t, json.Unmarshal([]byte(r.stdout), &out))
	assert.True(t, out.Fallback)
	assert.Len(t, out.Questions, 2)
}

// =============================================================================
// CONFIG
// =============================================================================

func TestConfig_InitShowPath(t *testing.T) {
	// The generated file logs to ~/.jarvis; keep the test out of the home dir.
	t.Setenv("JARVIS_LOG_LEVEL", "off")
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	r := execute(t, "", "config", "init", "--config", path)
	require.Equal(t, ExitSuccess, r.code, r.stderr)
	assert.FileExists(t, path)

	r = execute(t, "", "config", "init", "--config", path)
	assert.Equal(t, ExitUsageError, r.code)
	assert.Contains(t, r.stderr, "already exists")

	r = execute(t, "", "config", "init", "--force", "--config", path)
	assert.Equal(t, ExitSuccess, r.code, r.stderr)

	r = execute(t, "", "config", "path", "--config", path)
	assert.Equal(t, ExitSuccess, r.code)
	assert.Equal(t, path, strings.TrimSpace(r.stdout))

	r = execute(t, "", "config", "show", "--config", path, "--server", "http://10.0.0.2:5000")
	require.Equal(t, ExitSuccess, r.code, r.stderr)
	assert.Contains(t, r.stdout, "[server]")
	assert.Contains(t, r.stdout, `url = "http://10.0.0.2:5000"`)
}

func TestConfig_InvalidFileExitCode(t *testing.T) {
	cfg := writeConfig(t, "")
	f, err := os.OpenFile(cfg, os.O_APPEND|os.O_WRONLY, 0600)
	require.NoError(t, err)
	_, err = f.WriteString("\n[extra]\nkey = 1\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	r := execute(t, "", "status", "--config", cfg)
	assert.Equal(t, ExitConfigError, r.code)
	assert.Contains(t, r.stderr, "unknown config keys")

	// path skips loading, so it still works with a broken file.
	r = execute(t, "", "config", "path", "--config", cfg)
	assert.Equal(t, ExitSuccess, r.code)
}

func TestBadServerFlag(t *testing.T) {
	cfg := writeConfig(t, "")

	r := execute(t, "", "status", "--config", cfg, "--server", "ftp://example.com")
	assert.Equal(t, ExitUsageError, r.code)
	assert.Contains(t, r.stderr, "--server")
}

func TestVersion(t *testing.T) {
	r := execute(t, "", "version")
	assert.Equal(t, ExitSuccess, r.code)
	assert.Contains(t, r.stdout, "jarvis "+Version)
}

// =============================================================================
// EXIT CODES
// =============================================================================

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"validation", ErrMissingArgument("question", "x"), ExitUsageError},
		{"tty", &TTYRequiredError{Operation: "jarvis"}, ExitUsageError},
		{"config", &ConfigError{Path: "x", Err: errors.New("bad")}, ExitConfigError},
		{"validate errors", fmt.Errorf("invalid config: %w", config.ValidateErrors{{Field: "ui.theme"}}), ExitConfigError},
		{"connection", &jarvis.ClientError{Type: jarvis.ErrTypeConnection}, ExitNetworkError},
		{"timeout", &jarvis.ClientError{Type: jarvis.ErrTypeTimeout}, ExitTimeoutError},
		{"application", &jarvis.ClientError{Type: jarvis.ErrTypeApplication, Message: "x"}, ExitGeneralError},
		{"other", errors.New("boom"), ExitGeneralError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetExitCode(tt.err))
		})
	}
}

// =============================================================================
// REPL
// =============================================================================

// scriptedReader feeds fixed lines to the REPL and then reports EOF.
type scriptedReader struct {
	lines  []string
	closed bool
	onRead func(line string)
}

func (r *scriptedReader) ReadInput(prompt string) (string, error) {
	if len(r.lines) == 0 {
		return "", io.EOF
	}
	line := r.lines[0]
	r.lines = r.lines[1:]
	if r.onRead != nil {
		r.onRead(line)
	}
	return line, nil
}

func (r *scriptedReader) Close() { r.closed = true }

func withScript(t *testing.T, lines ...string) *scriptedReader {
	t.Helper()
	reader := &scriptedReader{lines: lines}
	prev := newLineReader
	newLineReader = func(string) lineReader { return reader }
	t.Cleanup(func() { newLineReader = prev })
	return reader
}

func withClipboard(t *testing.T) *string {
	t.Helper()
	var copied string
	prev := writeClipboard
	writeClipboard = func(s string) error {
		copied = s
		return nil
	}
	t.Cleanup(func() { writeClipboard = prev })
	return &copied
}

func TestChat_Session(t *testing.T) {
	b := newBackend()
	url := b.serve(t)
	cfg := writeConfig(t, "")
	reader := withScript(t, "", "1", "/copy", "/export md", "/status", "/bogus", "/quit", "never read")
	copied := withClipboard(t)

	r := execute(t, "", "chat", "--config", cfg, "--server", url)
	require.Equal(t, ExitSuccess, r.code, r.stderr)

	assert.True(t, reader.closed)
	assert.Equal(t, []string{"never read"}, reader.lines)
	assert.Equal(t, "What is the leave policy?", b.asked())
	assert.EqualValues(t, 1, b.chats.Load())

	assert.Contains(t, r.stdout, "Welcome to Jarvis")
	assert.Contains(t, r.stdout, "The policy allows 20 days.")
	assert.Contains(t, r.stdout, "Source: handbook.pdf")
	assert.Equal(t, b.answer, *copied)
	assert.Contains(t, r.stdout, "Connected - jarvis-docs | gpt-4o-mini")
	assert.Contains(t, r.stderr, "Unknown command: /bogus")
	assert.Contains(t, r.stdout, "1 question(s), 1 answer(s)")

	matches, err := filepath.Glob(filepath.Join(filepath.Dir(cfg), "*.md"))
	require.NoError(t, err)
	assert.Len(t, matches, 1)
}

func TestChat_DigitsAreLiteralAfterFirstMessage(t *testing.T) {
	b := newBackend()
	url := b.serve(t)
	cfg := writeConfig(t, "")
	withScript(t, "hello", "2")

	r := execute(t, "", "chat", "--config", cfg, "--server", url)
	require.Equal(t, ExitSuccess, r.code, r.stderr)
	assert.Equal(t, "2", b.asked())
	assert.EqualValues(t, 2, b.chats.Load())
}

func TestChat_ErrorAndClear(t *testing.T) {
	b := newBackend()
	b.chatErr = "Index unavailable"
	url := b.serve(t)
	cfg := writeConfig(t, "")
	withScript(t, "hello", "/copy", "/clear", "/export")
	withClipboard(t)

	r := execute(t, "", "chat", "--config", cfg, "--server", url)
	require.Equal(t, ExitSuccess, r.code, r.stderr)
	assert.Contains(t, r.stderr, "Error: Index unavailable")
	assert.Contains(t, r.stderr, "No answer to copy yet")
	assert.Contains(t, r.stdout, "Conversation cleared successfully!")
	assert.Contains(t, r.stderr, "Nothing to export yet")
	assert.Contains(t, r.stdout, "Goodbye.")
}

func TestChat_ClearReloadsExamples(t *testing.T) {
	b := newBackend()
	url := b.serve(t)
	cfg := writeConfig(t, "")
	reader := withScript(t, "hello", "/clear", "1")
	reader.onRead = func(line string) {
		if line == "/clear" {
			b.setExamples("Fresh question after reset")
		}
	}

	r := execute(t, "", "chat", "--config", cfg, "--server", url)
	require.Equal(t, ExitSuccess, r.code, r.stderr)
	assert.Equal(t, "Fresh question after reset", b.asked())
	assert.Contains(t, r.stdout, "1. Fresh question after reset")
	assert.EqualValues(t, 2, b.chats.Load())
}

func TestReloadHandler_KeepsFlagOverrides(t *testing.T) {
	path := writeConfig(t, "\n[server]\nurl = \"http://file-host:5000\"\n")
	a := &app{opts: globalOptions{server: "http://flag-host:5000", debug: true}}

	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, "http://file-host:5000", cfg.Server.URL)

	var sent []tea.Msg
	a.reloadHandler(func(msg tea.Msg) { sent = append(sent, msg) })(cfg)

	require.Len(t, sent, 1)
	reloaded, ok := sent[0].(chat.ConfigReloadedMsg)
	require.True(t, ok)
	assert.Equal(t, "http://flag-host:5000", reloaded.Config.Server.URL)
	assert.Equal(t, "debug", reloaded.Config.Log.Level)
}

func TestReloadHandler_WithoutFlagsKeepsFile(t *testing.T) {
	path := writeConfig(t, "\n[server]\nurl = \"http://file-host:5000\"\n")
	a := &app{}

	cfg, err := config.Load(path)
	require.NoError(t, err)

	var got *config.Config
	a.reloadHandler(func(msg tea.Msg) { got = msg.(chat.ConfigReloadedMsg).Config })(cfg)
	assert.Equal(t, "http://file-host:5000", got.Server.URL)
	assert.Equal(t, "off", got.Log.Level)
}
