// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jeranaias/jarvis-tui/internal/config"
	"github.com/jeranaias/jarvis-tui/internal/markup"
	"github.com/jeranaias/jarvis-tui/internal/model"
	"github.com/jeranaias/jarvis-tui/internal/ui/components"
	"github.com/jeranaias/jarvis-tui/internal/ui/styles"
)

// maxStdinQuestion caps a question read from a pipe.
const maxStdinQuestion = 64 << 10

func newAskCmd(a *app) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "ask [question]",
		Short: "Ask one question and print the answer",
		Long: `Ask one question and print the answer with its sources.

The question is read from stdin when no argument is given and stdin is
not a terminal.`,
		Example: `  jarvis ask "What is in the employee handbook?"
  echo "Summarize the Q3 report" | jarvis ask
  jarvis ask --json "Who approved the budget?"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			question := strings.TrimSpace(strings.Join(args, " "))
			if question == "" && !IsTTY() {
				data, err := io.ReadAll(io.LimitReader(cmd.InOrStdin(), maxStdinQuestion))
				if err != nil {
					return NewCommandError("ask", "read question from stdin", err)
				}
				question = strings.TrimSpace(string(data))
			}
			if question == "" {
				return ErrMissingArgument("question", `jarvis ask "What is in the handbook?"`)
			}

			resp, err := a.client().Chat(cmd.Context(), question)
			if err != nil {
				a.log.Warn().Err(err).Str("endpoint", "/chat").Msg("chat failed")
				return err
			}

			out := cmd.OutOrStdout()
			if jsonOut {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(resp)
			}
			printAnswer(out, a.cfg, resp.Entry())
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "print the raw response as JSON")
	return cmd
}

// printAnswer writes an assistant entry and its citation. Terminals get the
// configured renderer; pipes get plain text with the markup stripped.
func printAnswer(w io.Writer, cfg *config.Config, e model.Entry) {
	if isTerminalWriter(w) {
		r := components.NewMessageRenderer(styles.NewTheme(cfg.UI.Theme), cfg.UI.Renderer, GetTerminalWidth())
		fmt.Fprintln(w, r.RenderMarkup(e.Content))
		if e.HasCitation() {
			fmt.Fprintln(w, citationStyle.Render(components.CitationIcon+e.Citation()))
		}
		return
	}

	fmt.Fprintln(w, markup.PlainText(markup.Parse(e.Content)))
	if e.HasCitation() {
		fmt.Fprintln(w, e.Citation())
	}
}
