// SPDX-License-Identifier: AGPL-3.0-only
package gemini

import "github.com/Bucksibi/gemini-mcp/internal/model"

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type content struct {
	Role  string `json:"role"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type generateResponse struct {
	Candidates []candidate `json:"candidates"`
	Error      *apiError   `json:"error,omitempty"`
}

type candidate struct {
	Content      content `json:"content"`
	FinishReason string  `json:"finishReason,omitempty"`
}

type apiError struct {
	Code    int    `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
	Status  string `json:"status,omitempty"`
}

// newGenerateRequest shapes a translated generation into the wire format:
// {contents: [{role, parts: [{text}]}], generationConfig: {...}}.
func newGenerateRequest(gen model.Generation) generateRequest {
	contents := make([]content, len(gen.Messages))
	for i, msg := range gen.Messages {
		contents[i] = content{
			Role:  msg.Role,
			Parts: []part{{Text: msg.Text}},
		}
	}

	return generateRequest{
		Contents: contents,
		GenerationConfig: generationConfig{
			Temperature:     gen.Temperature,
			MaxOutputTokens: gen.MaxOutputTokens,
		},
	}
}
