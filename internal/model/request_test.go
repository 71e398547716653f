// SPDX-License-Identifier: AGPL-3.0-only
package model

import "testing"

func TestAnalyzeGeneration(t *testing.T) {
	req := AnalyzeRequest{Prompt: "X", Context: "Y"}
	gen := req.Generation("")

	if len(gen.Messages) != 1 {
		t.Fatalf("Expected 1 message, got %d", len(gen.Messages))
	}
	expected := "X\n\n--- Context ---\nY"
	if gen.Messages[0].Text != expected {
		t.Errorf("Expected message text %q, got %q", expected, gen.Messages[0].Text)
	}
	if gen.Messages[0].Role != RoleUser {
		t.Errorf("Expected role 'user', got '%s'", gen.Messages[0].Role)
	}
	if gen.Temperature != 0.7 {
		t.Errorf("Expected temperature 0.7, got %v", gen.Temperature)
	}
	if gen.MaxOutputTokens != 8192 {
		t.Errorf("Expected max output tokens 8192, got %d", gen.MaxOutputTokens)
	}
}

func TestAnalyzeGenerationBlankContext(t *testing.T) {
	// Whitespace-only context must not append the context block
	req := AnalyzeRequest{Prompt: "X", Context: " "}
	gen := req.Generation("")

	if gen.Messages[0].Text != "X" {
		t.Errorf("Expected message text 'X', got %q", gen.Messages[0].Text)
	}
}

func TestAnalyzeGenerationNoContext(t *testing.T) {
	req := AnalyzeRequest{Prompt: "What does this do?"}
	gen := req.Generation("")

	if gen.Messages[0].Text != "What does this do?" {
		t.Errorf("Expected prompt passed through verbatim, got %q", gen.Messages[0].Text)
	}
}

func TestChatGenerationSingleTurn(t *testing.T) {
	req := ChatRequest{Messages: []ChatTurn{{Role: "user", Content: "hi"}}}
	gen := req.Generation("")

	if len(gen.Messages) != 1 {
		t.Fatalf("Expected 1 message, got %d", len(gen.Messages))
	}
	if gen.Messages[0].Role != "user" || gen.Messages[0].Text != "hi" {
		t.Errorf("Expected user/hi, got %s/%s", gen.Messages[0].Role, gen.Messages[0].Text)
	}
	if gen.Temperature != 0.7 {
		t.Errorf("Expected temperature 0.7, got %v", gen.Temperature)
	}
}

func TestChatGenerationPreservesOrder(t *testing.T) {
	req := ChatRequest{Messages: []ChatTurn{
		{Role: "user", Content: "first"},
		{Role: "model", Content: "second"},
		{Role: "user", Content: "third"},
	}}
	gen := req.Generation("")

	if len(gen.Messages) != 3 {
		t.Fatalf("Expected 3 messages, got %d", len(gen.Messages))
	}
	for i, expected := range []Message{
		{Role: "user", Text: "first"},
		{Role: "model", Text: "second"},
		{Role: "user", Text: "third"},
	} {
		if gen.Messages[i] != expected {
			t.Errorf("Message %d: expected %+v, got %+v", i, expected, gen.Messages[i])
		}
	}
}

func TestSummarizeGeneration(t *testing.T) {
	req := SummarizeRequest{Content: "ABC"}
	gen := req.Generation("")

	expected := "Please provide a concise summary of the following content:\n\nABC"
	if gen.Messages[0].Text != expected {
		t.Errorf("Expected message text %q, got %q", expected, gen.Messages[0].Text)
	}
	if gen.Temperature != 0.5 {
		t.Errorf("Expected temperature 0.5, got %v", gen.Temperature)
	}
	if gen.MaxOutputTokens != 8192 {
		t.Errorf("Expected max output tokens 8192, got %d", gen.MaxOutputTokens)
	}
}

func TestSummarizeGenerationWithFocus(t *testing.T) {
	req := SummarizeRequest{Content: "ABC", Focus: "bugs"}
	gen := req.Generation("")

	expected := "Please summarize the following content, focusing specifically on: bugs\n\nABC"
	if gen.Messages[0].Text != expected {
		t.Errorf("Expected message text %q, got %q", expected, gen.Messages[0].Text)
	}
}

func TestSummarizeGenerationBlankFocus(t *testing.T) {
	// Whitespace-only focus falls back to the plain instruction
	req := SummarizeRequest{Content: "ABC", Focus: "   "}
	gen := req.Generation("")

	expected := "Please provide a concise summary of the following content:\n\nABC"
	if gen.Messages[0].Text != expected {
		t.Errorf("Expected message text %q, got %q", expected, gen.Messages[0].Text)
	}
}

func TestModelResolution(t *testing.T) {
	explicit := AnalyzeRequest{Prompt: "x", Model: "gemini-2.5-pro"}
	if gen := explicit.Generation("gemini-2.0-flash"); gen.Model != "gemini-2.5-pro" {
		t.Errorf("Expected explicit model to win, got '%s'", gen.Model)
	}

	configured := AnalyzeRequest{Prompt: "x"}
	if gen := configured.Generation("gemini-2.0-flash"); gen.Model != "gemini-2.0-flash" {
		t.Errorf("Expected configured default, got '%s'", gen.Model)
	}

	fallback := AnalyzeRequest{Prompt: "x"}
	if gen := fallback.Generation(""); gen.Model != DefaultModel {
		t.Errorf("Expected built-in default '%s', got '%s'", DefaultModel, gen.Model)
	}
}

func TestIsKnownModel(t *testing.T) {
	if !IsKnownModel("gemini-2.5-flash") {
		t.Error("Expected gemini-2.5-flash to be known")
	}
	if IsKnownModel("not-a-real-model") {
		t.Error("Expected not-a-real-model to be unknown")
	}
}
