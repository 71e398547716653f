// SPDX-License-Identifier: AGPL-3.0-only
package server

import (
	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// newRequestID returns a fresh correlation id for one tool invocation
func newRequestID() string {
	return uuid.NewString()
}

// createTextResult wraps generated text in a tool result
func createTextResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{
				Text: text,
			},
		},
	}
}

// createErrorResult converts any invocation failure into a well-formed tool
// result flagged as an error. Failures are never surfaced as protocol-level
// faults, so no handler returns a non-nil Go error for them.
func createErrorResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{
			&mcp.TextContent{
				Text: "Error: " + err.Error(),
			},
		},
	}
}
