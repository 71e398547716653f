// SPDX-License-Identifier: AGPL-3.0-only

// Package gemini implements the upstream caller: one HTTP round trip to the
// Gemini generateContent endpoint per invocation, with no retries and no
// streaming.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/Bucksibi/gemini-mcp/internal/config"
	"github.com/Bucksibi/gemini-mcp/internal/errors"
	"github.com/Bucksibi/gemini-mcp/internal/logging"
	"github.com/Bucksibi/gemini-mcp/internal/model"
)

// Client calls the Gemini generateContent API
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *logging.Logger
}

// NewClient creates a Gemini client from configuration
func NewClient(cfg *config.Config, logger *logging.Logger) *Client {
	timeout := time.Duration(cfg.Gemini.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 120 * time.Second
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.Gemini.BaseURL, "/"),
		apiKey:  cfg.Gemini.APIKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// GenerateContent performs exactly one round trip for the given generation
// and returns the extracted text. Every failure mode maps to a typed error:
// missing key, non-2xx status, embedded API error, or empty response.
func (c *Client) GenerateContent(ctx context.Context, gen model.Generation) (string, error) {
	// The key is resolved before the request is built so a missing
	// credential never reaches the network.
	apiKey := c.apiKey
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	if apiKey == "" {
		return "", errors.MissingAPIKey()
	}

	body, err := json.Marshal(newGenerateRequest(gen))
	if err != nil {
		return "", errors.Internal(fmt.Errorf("marshal request body: %w", err))
	}

	url := fmt.Sprintf("%s/%s:generateContent", c.baseURL, gen.Model)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", errors.Internal(fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", apiKey)

	c.logger.Debugf("Calling Gemini model %s (%d message(s), temperature %.1f)", gen.Model, len(gen.Messages), gen.Temperature)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", errors.Upstream(0, err.Error())
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.Upstream(resp.StatusCode, fmt.Sprintf("read response body: %v", err))
	}

	return extractText(resp.StatusCode, respBody)
}

// extractText maps an upstream status and body to generated text or a
// typed failure.
func extractText(statusCode int, body []byte) (string, error) {
	var response generateResponse
	parseErr := json.Unmarshal(body, &response)

	if statusCode < 200 || statusCode >= 300 {
		// Prefer the embedded API message; fall back to the raw body text
		if parseErr == nil && response.Error != nil && response.Error.Message != "" {
			return "", errors.Upstream(statusCode, response.Error.Message)
		}
		return "", errors.Upstream(statusCode, string(body))
	}

	if parseErr != nil {
		return "", errors.Upstream(statusCode, fmt.Sprintf("invalid response body: %v", parseErr))
	}

	if response.Error != nil {
		message := response.Error.Message
		if message == "" {
			message = "Unknown error"
		}
		return "", errors.Upstream(statusCode, message)
	}

	if len(response.Candidates) == 0 ||
		len(response.Candidates[0].Content.Parts) == 0 ||
		response.Candidates[0].Content.Parts[0].Text == "" {
		return "", errors.EmptyResponse()
	}

	return response.Candidates[0].Content.Parts[0].Text, nil
}
