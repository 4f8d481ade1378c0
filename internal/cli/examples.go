// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/jeranaias/jarvis-tui/internal/model"
)

// loadExamples fetches the example questions, falling back to the static
// pair on any failure.
func (a *app) loadExamples(ctx context.Context) model.ExampleSet {
	questions, err := a.client().ExampleQuestions(ctx)
	if err != nil {
		a.log.Warn().Err(err).Str("endpoint", "/example-questions").Msg("using fallback examples")
		return model.FallbackExamples()
	}
	return model.LoadedExamples(questions)
}

// printExamples writes a numbered list of questions.
func printExamples(w io.Writer, set model.ExampleSet) {
	for i, q := range set.Questions {
		fmt.Fprintf(w, "%s %s\n", commandStyle.Render(fmt.Sprintf("%d.", i+1)), q)
	}
}

func newExamplesCmd(a *app) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "examples",
		Short: "List suggested questions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			set := a.loadExamples(cmd.Context())

			w := cmd.OutOrStdout()
			if jsonOut {
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(struct {
					Questions []string `json:"questions"`
					Fallback  bool     `json:"fallback"`
				}{Questions: set.Questions, Fallback: set.Fallback})
			}

			printExamples(w, set)
			if set.Fallback {
				fmt.Fprintln(cmd.ErrOrStderr(), warningStyle.Render("Server unavailable; showing default questions."))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "print the questions as JSON")
	return cmd
}
