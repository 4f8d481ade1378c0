// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/jeranaias/jarvis-tui/internal/config"
	"github.com/jeranaias/jarvis-tui/internal/export"
	"github.com/jeranaias/jarvis-tui/internal/jarvis"
	"github.com/jeranaias/jarvis-tui/internal/logging"
	"github.com/jeranaias/jarvis-tui/internal/model"
	"github.com/jeranaias/jarvis-tui/internal/ui/chat"
)

// =============================================================================
// INPUT HISTORY
// =============================================================================

// lineReader reads one line of user input per call.
type lineReader interface {
	ReadInput(prompt string) (string, error)
	Close()
}

// lineEditor provides input history and line editing for the REPL.
type lineEditor struct {
	line        *liner.State
	historyFile string
}

// writeClipboard copies text to the system clipboard. Replaced in tests.
var writeClipboard = clipboard.WriteAll

// newLineReader opens the input source for the REPL. Replaced in tests.
var newLineReader = func(historyFile string) lineReader {
	return newLineEditor(historyFile)
}

func newLineEditor(historyFile string) *lineEditor {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	e := &lineEditor{line: line, historyFile: historyFile}
	e.loadHistory()
	return e
}

func (e *lineEditor) loadHistory() {
	if e.historyFile == "" {
		return
	}
	if f, err := os.Open(e.historyFile); err == nil {
		_, _ = e.line.ReadHistory(f)
		f.Close()
	}
}

// ReadInput reads a line with arrow-key history navigation.
func (e *lineEditor) ReadInput(prompt string) (string, error) {
	input, err := e.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		e.line.AppendHistory(input)
	}
	return input, nil
}

// saveHistory persists history with owner-only permissions.
func (e *lineEditor) saveHistory() {
	if e.historyFile == "" {
		return
	}
	if err := os.MkdirAll(filepath.Dir(e.historyFile), 0700); err != nil {
		return
	}
	f, err := os.OpenFile(e.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return
	}
	defer f.Close()
	_, _ = e.line.WriteHistory(f)
}

// Close saves history and restores the terminal.
func (e *lineEditor) Close() {
	e.saveHistory()
	_ = e.line.Close()
}

// historyPath returns ~/.jarvis/chat_history, or "" without a home directory.
func historyPath() string {
	dir, err := config.ConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "chat_history")
}

// =============================================================================
// SESSION
// =============================================================================

// errQuit ends the REPL loop.
var errQuit = errors.New("quit")

// replSession is one line-mode conversation.
type replSession struct {
	out, errOut  io.Writer
	cfg          *config.Config
	log          *logging.Logger
	backend      chat.Backend
	poller       *jarvis.Poller
	transcript   *model.Transcript
	examples     model.ExampleSet
	loadExamples func(context.Context) model.ExampleSet
	clipboard    func(string) error
}

func newChatCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Start a line-mode chat session",
		Long: `Start a line-mode chat session with input history.

Type a question and press Enter. Commands start with '/': /help lists
them. Press Ctrl+D or type /quit to leave.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return a.runREPL(ctx, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
}

// runREPL runs the read-answer loop until EOF, /quit or ctx is done.
func (a *app) runREPL(ctx context.Context, out, errOut io.Writer) error {
	client := a.client()
	s := &replSession{
		out:          out,
		errOut:       errOut,
		cfg:          a.cfg,
		log:          a.log,
		backend:      client,
		transcript:   model.NewTranscript(),
		loadExamples: a.loadExamples,
		clipboard:    writeClipboard,
	}
	s.poller = jarvis.NewPoller(client, a.cfg.Server.PollInterval.Std(),
		jarvis.WithPollTimeout(a.cfg.Server.RequestTimeout.Std()),
		jarvis.WithPollLogger(a.log.Logger),
	)

	pollCtx, cancelPoll := context.WithCancel(ctx)
	defer cancelPoll()
	go func() { _ = s.poller.Run(pollCtx) }()

	s.examples = s.loadExamples(ctx)

	reader := newLineReader(historyPath())
	defer reader.Close()

	s.printWelcome()
	for {
		input, err := reader.ReadInput(promptStyle.Render("jarvis> "))
		if err != nil {
			// Ctrl+C at the prompt, Ctrl+D and EOF all end the session.
			fmt.Fprintln(s.out)
			s.printExitSummary()
			return nil
		}
		if err := s.handleLine(ctx, input); err != nil {
			if errors.Is(err, errQuit) || ctx.Err() != nil {
				s.printExitSummary()
				return nil
			}
			return err
		}
	}
}

// handleLine dispatches one line of input.
func (s *replSession) handleLine(ctx context.Context, input string) error {
	input = strings.TrimSpace(input)
	switch {
	case input == "":
		return nil
	case strings.HasPrefix(input, "/") && len(input) > 1:
		return s.handleSlashCommand(ctx, input)
	case strings.EqualFold(input, "exit") || strings.EqualFold(input, "quit"):
		return errQuit
	}

	if s.transcript.IsEmpty() {
		if n, err := strconv.Atoi(input); err == nil {
			if q, ok := s.examples.At(n); ok {
				fmt.Fprintln(s.out, infoStyle.Render("> "+q))
				input = q
			}
		}
	}
	return s.send(ctx, input)
}

// send asks the backend and prints the answer after the configured delay.
func (s *replSession) send(ctx context.Context, message string) error {
	s.transcript.Append(model.NewUserEntry(message))
	fmt.Fprintln(s.out, infoStyle.Render("Jarvis is thinking..."))

	resp, err := s.backend.Chat(ctx, message)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		text := jarvis.ErrorText(err)
		s.log.Warn().Err(err).Str("endpoint", "/chat").Msg("chat failed")
		s.transcript.Append(model.NewErrorEntry(text))
		fmt.Fprintln(s.errOut, errorStyle.Render(model.ErrorPrefix+text))
		return nil
	}

	if delay := s.cfg.UI.ResponseDelay.Std(); delay > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}

	entry := resp.Entry()
	s.transcript.Append(entry)
	printAnswer(s.out, s.cfg, entry)
	fmt.Fprintln(s.out)
	return nil
}

// =============================================================================
// SLASH COMMANDS
// =============================================================================

func (s *replSession) handleSlashCommand(ctx context.Context, input string) error {
	parts := strings.Fields(input)
	name := strings.ToLower(strings.TrimPrefix(parts[0], "/"))
	args := parts[1:]

	switch name {
	case "help", "h", "?":
		s.printHelp()
	case "clear", "c", "new":
		s.transcript.Clear()
		s.examples = s.loadExamples(ctx)
		fmt.Fprintln(s.out, commandStyle.Render("Conversation cleared successfully!"))
		printExamples(s.out, s.examples)
	case "examples", "ex":
		printExamples(s.out, s.examples)
	case "status":
		view := s.poller.PollOnce(ctx)
		fmt.Fprintln(s.out, statusLine(view))
	case "export", "e":
		s.exportTranscript(args)
	case "copy", "y":
		s.copyLastAnswer()
	case "quit", "q", "exit":
		return errQuit
	default:
		fmt.Fprintln(s.errOut, warningStyle.Render("Unknown command: /"+name+" (try /help)"))
	}
	return nil
}

func (s *replSession) exportTranscript(args []string) {
	format := ""
	if len(args) > 0 {
		format = args[0]
	}

	opts := export.DefaultOptions()
	opts.OutputDir = s.cfg.UI.ExportDir
	if s.cfg.UI.Theme == "light" {
		opts.Theme = "light"
	}
	exporter, err := export.ForFormat(format, opts)
	if err != nil {
		fmt.Fprintln(s.errOut, warningStyle.Render("Usage: /export ["+strings.Join(export.Formats, "|")+"]"))
		return
	}
	if s.transcript.IsEmpty() {
		fmt.Fprintln(s.errOut, warningStyle.Render("Nothing to export yet"))
		return
	}

	current := s.poller.Current()
	doc := export.FromTranscript(s.transcript, export.Meta{
		Server: s.cfg.Server.URL,
		Index:  current.Index,
		Model:  current.Model,
	})
	path, err := export.ExportToFile(doc, exporter, opts)
	if err != nil {
		s.log.Warn().Err(err).Str("format", exporter.FileExtension()).Msg("export failed")
		fmt.Fprintln(s.errOut, errorStyle.Render("Export failed: "+err.Error()))
		return
	}
	fmt.Fprintln(s.out, commandStyle.Render("Exported to "+path))
}

func (s *replSession) copyLastAnswer() {
	last, ok := s.transcript.Last(model.SenderAssistant)
	if !ok {
		fmt.Fprintln(s.errOut, warningStyle.Render("No answer to copy yet"))
		return
	}
	if err := s.clipboard(last.Content); err != nil {
		fmt.Fprintln(s.errOut, errorStyle.Render("Copy failed: "+err.Error()))
		return
	}
	fmt.Fprintln(s.out, commandStyle.Render(fmt.Sprintf("Copied %d characters", len([]rune(last.Content)))))
}

// =============================================================================
// OUTPUT
// =============================================================================

func (s *replSession) printWelcome() {
	fmt.Fprintln(s.out, welcomeStyle.Render("Welcome to Jarvis"))
	fmt.Fprintln(s.out, infoStyle.Render("Your AI document assistant. Ask anything about your documents."))
	fmt.Fprintln(s.out, statusLine(s.poller.Current())+"  "+labelStyle.Render(s.cfg.Server.URL))
	if s.examples.Len() > 0 {
		fmt.Fprintln(s.out)
		fmt.Fprintln(s.out, infoStyle.Render("Try one of these (type its number):"))
		printExamples(s.out, s.examples)
	}
	fmt.Fprintln(s.out)
	fmt.Fprintln(s.out, labelStyle.Render("Type /help for commands, Ctrl+D to exit."))
}

func (s *replSession) printHelp() {
	for _, c := range chat.Commands {
		fmt.Fprintf(s.out, "  %-24s %s\n", commandStyle.Render(c.Usage), c.Summary)
	}
	fmt.Fprintf(s.out, "  %-24s %s\n", commandStyle.Render("1-9"), "Ask an example question (empty conversation only)")
}

func (s *replSession) printExitSummary() {
	asked := s.transcript.Count(model.SenderUser)
	if asked == 0 {
		fmt.Fprintln(s.out, labelStyle.Render("Goodbye."))
		return
	}
	fmt.Fprintln(s.out, labelStyle.Render(fmt.Sprintf("Goodbye. %d question(s), %d answer(s) this session.",
		asked, s.transcript.Count(model.SenderAssistant))))
}
