// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/jarvis-tui/internal/export"
	"github.com/jeranaias/jarvis-tui/internal/ui/components"
)

// =============================================================================
// COMMAND HANDLER REGISTRY
// =============================================================================

// CommandHandler handles one slash command. It receives the model and the
// command arguments and returns the updated model and command.
type CommandHandler func(m *Model, args []string) (tea.Model, tea.Cmd)

// Command describes a slash command for /help.
type Command struct {
	Name    string
	Usage   string
	Summary string
	Aliases []string
	Handler CommandHandler
}

// Commands lists the slash commands available in the chat screen.
var Commands = []Command{
	{Name: "help", Usage: "/help", Summary: "Show keys and commands", Aliases: []string{"h", "?"}, Handler: handleHelpCommand},
	{Name: "clear", Usage: "/clear", Summary: "Clear the conversation", Aliases: []string{"c", "new"}, Handler: handleClearCommand},
	{Name: "examples", Usage: "/examples", Summary: "Show example questions", Aliases: []string{"ex"}, Handler: handleExamplesCommand},
	{Name: "status", Usage: "/status", Summary: "Refresh and show backend status", Handler: handleStatusCommand},
	{Name: "export", Usage: "/export [md|html|json]", Summary: "Export the conversation to a file", Aliases: []string{"e"}, Handler: handleExportCommand},
	{Name: "copy", Usage: "/copy", Summary: "Copy the last answer", Aliases: []string{"y"}, Handler: handleCopyCommand},
	{Name: "quit", Usage: "/quit", Summary: "Exit", Aliases: []string{"q", "exit"}, Handler: handleQuitCommand},
}

// commandHandlers maps command names and aliases to their handlers.
var commandHandlers = buildCommandHandlers(Commands)

func buildCommandHandlers(cmds []Command) map[string]CommandHandler {
	handlers := make(map[string]CommandHandler, len(cmds)*2)
	for _, c := range cmds {
		handlers[c.Name] = c.Handler
		for _, alias := range c.Aliases {
			handlers[alias] = c.Handler
		}
	}
	return handlers
}

// CommandNames returns the primary command names, sorted.
func CommandNames() []string {
	names := make([]string, 0, len(Commands))
	for _, c := range Commands {
		names = append(names, c.Name)
	}
	sort.Strings(names)
	return names
}

// handleCommand processes slash commands using the command registry.
func (m Model) handleCommand(content string) (tea.Model, tea.Cmd) {
	m.input.Reset()

	parts := strings.Fields(content)
	if len(parts) == 0 {
		return m, nil
	}

	cmdName := strings.ToLower(strings.TrimPrefix(parts[0], "/"))
	args := parts[1:]

	if handler, ok := commandHandlers[cmdName]; ok {
		return handler(&m, args)
	}

	cmd := m.toast(components.ToastKindError, "Unknown command: /"+cmdName+" (try /help)")
	return m, cmd
}

// =============================================================================
// COMMAND HANDLERS
// =============================================================================

func handleHelpCommand(m *Model, args []string) (tea.Model, tea.Cmd) {
	m.showHelp = true
	return *m, nil
}

func handleQuitCommand(m *Model, args []string) (tea.Model, tea.Cmd) {
	return *m, tea.Quit
}

func handleClearCommand(m *Model, args []string) (tea.Model, tea.Cmd) {
	return m.reset()
}

func handleExamplesCommand(m *Model, args []string) (tea.Model, tea.Cmd) {
	m.showExamples = true
	m.examples.Blur()
	return *m, nil
}

func handleStatusCommand(m *Model, args []string) (tea.Model, tea.Cmd) {
	kind := components.ToastKindStatus
	if !m.status.Online() {
		kind = components.ToastKindWarning
	}
	toastCmd := m.toast(kind, "Status: "+m.status.Text)
	return *m, tea.Batch(toastCmd, m.manualRefresh())
}

func handleExportCommand(m *Model, args []string) (tea.Model, tea.Cmd) {
	format := ""
	if len(args) > 0 {
		format = args[0]
	}

	opts := export.DefaultOptions()
	opts.OutputDir = m.cfg.UI.ExportDir
	if !m.theme.IsDark {
		opts.Theme = "light"
	}

	exporter, err := export.ForFormat(format, opts)
	if err != nil {
		cmd := m.toast(components.ToastKindError, "Usage: /export ["+strings.Join(export.Formats, "|")+"]")
		return *m, cmd
	}
	if m.transcript.IsEmpty() {
		cmd := m.toast(components.ToastKindWarning, "Nothing to export yet")
		return *m, cmd
	}

	doc := export.FromTranscript(m.transcript, export.Meta{
		Server: m.cfg.Server.URL,
		Index:  m.status.Index,
		Model:  m.status.Model,
	})
	return *m, exportCmd(doc, exporter, opts)
}

func handleCopyCommand(m *Model, args []string) (tea.Model, tea.Cmd) {
	cmd := m.copyLastAnswer()
	return *m, cmd
}
