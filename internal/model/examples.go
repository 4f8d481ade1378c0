// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

// FallbackQuestions are rendered when the example-question fetch fails.
var FallbackQuestions = []string{
	"What can you help me with?",
	"Tell me about your capabilities",
}

// ExampleSet is the list of suggested prompts rendered as buttons.
type ExampleSet struct {
	Questions []string
	Fallback  bool
}

// LoadedExamples wraps a successful fetch. An empty list renders no buttons.
func LoadedExamples(questions []string) ExampleSet {
	return ExampleSet{Questions: append([]string(nil), questions...)}
}

// FallbackExamples returns the static two-button set.
func FallbackExamples() ExampleSet {
	return ExampleSet{
		Questions: append([]string(nil), FallbackQuestions...),
		Fallback:  true,
	}
}

// Len returns the number of buttons.
func (s ExampleSet) Len() int {
	return len(s.Questions)
}

// At returns the question for a 1-based button number.
func (s ExampleSet) At(n int) (string, bool) {
	if n < 1 || n > len(s.Questions) {
		return "", false
	}
	return s.Questions[n-1], true
}
