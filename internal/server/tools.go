// SPDX-License-Identifier: AGPL-3.0-only
package server

import (
	"context"
	"encoding/json"

	"github.com/Bucksibi/gemini-mcp/internal/errors"
	"github.com/Bucksibi/gemini-mcp/internal/model"
	"github.com/Bucksibi/gemini-mcp/internal/schema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// AnalyzeParams holds arguments for the analyze tool
type AnalyzeParams struct {
	Prompt  string `json:"prompt" description:"the text, code, or question to analyze" minLength:"1" maxLength:"500000"`
	Context string `json:"context,omitempty" description:"optional additional context appended to the prompt" maxLength:"1000000"`
	Model   string `json:"model,omitempty" description:"Gemini model to use (defaults to the configured model)"`
}

// ChatTurnParams holds a single conversation turn for the chat tool
type ChatTurnParams struct {
	Role    string `json:"role" description:"who authored the turn" enum:"user,model"`
	Content string `json:"content" description:"text content of the turn" minLength:"1"`
}

// ChatParams holds arguments for the chat tool
type ChatParams struct {
	Messages []ChatTurnParams `json:"messages" description:"ordered conversation turns, forwarded verbatim" minItems:"1"`
	Model    string           `json:"model,omitempty" description:"Gemini model to use (defaults to the configured model)"`
}

// SummarizeParams holds arguments for the summarize tool
type SummarizeParams struct {
	Content string `json:"content" description:"the content to summarize" minLength:"1" maxLength:"1000000"`
	Focus   string `json:"focus,omitempty" description:"optional aspect to focus the summary on" maxLength:"1000"`
	Model   string `json:"model,omitempty" description:"Gemini model to use (defaults to the configured model)"`
}

// TranslateFunc maps validated raw arguments into an upstream generation
type TranslateFunc func(raw json.RawMessage, defaultModel string) (model.Generation, error)

// ToolDefinition represents a tool that can be registered with the MCP server
type ToolDefinition struct {
	// Name is the name of the tool
	Name string

	// Description is a brief description of what the tool does
	Description string

	// Schema is both the advertised input schema and the argument validator
	Schema *schema.Schema

	// Translate builds the upstream generation from validated arguments
	Translate TranslateFunc
}

// toolDefinitions declares the three Gemini tools in one place
func toolDefinitions() []ToolDefinition {
	return []ToolDefinition{
		{
			Name:        "analyze",
			Description: "Analyze text, code, or a question with Gemini. Accepts an optional context block that is appended to the prompt.",
			Schema:      schema.For(AnalyzeParams{}).SetEnum("model", model.KnownModels),
			Translate:   translateAnalyze,
		},
		{
			Name:        "chat",
			Description: "Hold a multi-turn conversation with Gemini. Turns are forwarded in order with roles preserved; no conversation state is kept between calls.",
			Schema:      schema.For(ChatParams{}).SetEnum("model", model.KnownModels),
			Translate:   translateChat,
		},
		{
			Name:        "summarize",
			Description: "Summarize content with Gemini, optionally focusing on a specific aspect.",
			Schema:      schema.For(SummarizeParams{}).SetEnum("model", model.KnownModels),
			Translate:   translateSummarize,
		},
	}
}

// registerToolsDeclarative sets up all the MCP tools from the definition table
func (s *MCPServer) registerToolsDeclarative() {
	for _, def := range toolDefinitions() {
		tool := &mcp.Tool{
			Name:        def.Name,
			Description: def.Description,
			InputSchema: def.Schema.JSON(),
		}
		s.server.AddTool(tool, s.toolHandler(def))
	}
}

// toolHandler wraps a tool definition in the shared invocation pipeline:
// validate, translate, call upstream, envelope.
func (s *MCPServer) toolHandler(def ToolDefinition) func(context.Context, *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		logger := s.logger.WithField("request_id", newRequestID())
		logger.Debugf("Handling %s request", def.Name)

		text, err := s.invokeTool(ctx, def, request.Params.Arguments)
		if err != nil {
			logger.Warnf("Tool %s failed: %v", def.Name, err)
			return createErrorResult(err), nil
		}

		logger.Debugf("Tool %s completed (%d bytes)", def.Name, len(text))
		return createTextResult(text), nil
	}
}

// invokeTool runs one end-to-end invocation for a tool
func (s *MCPServer) invokeTool(ctx context.Context, def ToolDefinition, raw json.RawMessage) (string, error) {
	if err := def.Schema.Validate(raw); err != nil {
		return "", err
	}

	gen, err := def.Translate(raw, s.config.Gemini.DefaultModel)
	if err != nil {
		return "", err
	}

	return s.gemini.GenerateContent(ctx, gen)
}

func translateAnalyze(raw json.RawMessage, defaultModel string) (model.Generation, error) {
	var params AnalyzeParams
	if err := unmarshalParams(raw, &params); err != nil {
		return model.Generation{}, err
	}

	req := model.AnalyzeRequest{
		Prompt:  params.Prompt,
		Context: params.Context,
		Model:   params.Model,
	}
	return req.Generation(defaultModel), nil
}

func translateChat(raw json.RawMessage, defaultModel string) (model.Generation, error) {
	var params ChatParams
	if err := unmarshalParams(raw, &params); err != nil {
		return model.Generation{}, err
	}

	turns := make([]model.ChatTurn, len(params.Messages))
	for i, msg := range params.Messages {
		turns[i] = model.ChatTurn{Role: msg.Role, Content: msg.Content}
	}

	req := model.ChatRequest{
		Messages: turns,
		Model:    params.Model,
	}
	return req.Generation(defaultModel), nil
}

func translateSummarize(raw json.RawMessage, defaultModel string) (model.Generation, error) {
	var params SummarizeParams
	if err := unmarshalParams(raw, &params); err != nil {
		return model.Generation{}, err
	}

	req := model.SummarizeRequest{
		Content: params.Content,
		Focus:   params.Focus,
		Model:   params.Model,
	}
	return req.Generation(defaultModel), nil
}

func unmarshalParams(raw json.RawMessage, params interface{}) error {
	if err := json.Unmarshal(raw, params); err != nil {
		return errors.InvalidInput("invalid parameters: " + err.Error())
	}
	return nil
}
