// SPDX-License-Identifier: AGPL-3.0-only
package model

import (
	"fmt"
	"strings"
)

const (
	defaultTemperature = 0.7
	// Summaries favor determinism over creativity
	summaryTemperature = 0.5

	defaultMaxOutputTokens = 8192

	contextSeparator = "\n\n--- Context ---\n"

	summaryInstruction = "Please provide a concise summary of the following content:\n\n"
	focusedInstruction = "Please summarize the following content, focusing specifically on: %s\n\n"
)

// AnalyzeRequest is a validated analyze tool request
type AnalyzeRequest struct {
	Prompt  string
	Context string
	Model   string
}

// Generation translates the request into a single user message, appending
// the context block only when context is non-blank after trimming.
func (r *AnalyzeRequest) Generation(defaultModel string) Generation {
	text := r.Prompt
	if strings.TrimSpace(r.Context) != "" {
		text = r.Prompt + contextSeparator + r.Context
	}

	return Generation{
		Messages:        []Message{{Role: RoleUser, Text: text}},
		Model:           resolveModel(r.Model, defaultModel),
		Temperature:     defaultTemperature,
		MaxOutputTokens: defaultMaxOutputTokens,
	}
}

// ChatTurn is one role-tagged message in a chat request
type ChatTurn struct {
	Role    string
	Content string
}

// ChatRequest is a validated chat tool request
type ChatRequest struct {
	Messages []ChatTurn
	Model    string
}

// Generation translates the request into one upstream message per turn,
// role and content copied verbatim, order preserved.
func (r *ChatRequest) Generation(defaultModel string) Generation {
	messages := make([]Message, len(r.Messages))
	for i, turn := range r.Messages {
		messages[i] = Message{Role: turn.Role, Text: turn.Content}
	}

	return Generation{
		Messages:        messages,
		Model:           resolveModel(r.Model, defaultModel),
		Temperature:     defaultTemperature,
		MaxOutputTokens: defaultMaxOutputTokens,
	}
}

// SummarizeRequest is a validated summarize tool request
type SummarizeRequest struct {
	Content string
	Focus   string
	Model   string
}

// Generation translates the request into a single user message with a fixed
// instruction prefix, swapped for the focus-aware prefix when focus is
// non-blank after trimming.
func (r *SummarizeRequest) Generation(defaultModel string) Generation {
	instruction := summaryInstruction
	if focus := strings.TrimSpace(r.Focus); focus != "" {
		instruction = fmt.Sprintf(focusedInstruction, focus)
	}

	return Generation{
		Messages:        []Message{{Role: RoleUser, Text: instruction + r.Content}},
		Model:           resolveModel(r.Model, defaultModel),
		Temperature:     summaryTemperature,
		MaxOutputTokens: defaultMaxOutputTokens,
	}
}

// resolveModel picks the explicit model when present, then the configured
// default, then the built-in default.
func resolveModel(explicit, configured string) string {
	if explicit != "" {
		return explicit
	}
	if configured != "" {
		return configured
	}
	return DefaultModel
}
