package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	http "github.com/bogdanfinn/fhttp"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	apierrors "github.com/diogo/groqchat/internal/errors"
	"github.com/diogo/groqchat/internal/models"
)

// contentPath locates the reply text in a completions response
const contentPath = "choices.0.message.content"

// maxErrorBody caps how much of a failed response is kept for diagnostics
const maxErrorBody = 4096

// Complete sends message as the only user turn and returns the reply text
// verbatim. It makes exactly one attempt.
func (c *CompletionClient) Complete(ctx context.Context, credential, message string) (string, error) {
	credential = strings.TrimSpace(credential)
	if credential == "" {
		return "", apierrors.ErrNoCredential
	}

	payload, err := json.Marshal(models.NewCompletionRequest(
		c.model, c.systemPrompt, message, c.maxTokens, c.temperature,
	))
	if err != nil {
		return "", fmt.Errorf("failed to build payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	for key, value := range models.DefaultHeaders() {
		req.Header.Set(key, value)
	}
	req.Header.Set("Authorization", "Bearer "+credential)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", apierrors.NewNetworkError("completion", c.endpoint, err)
	}
	defer func() {
		if resp != nil && resp.Body != nil {
			_ = resp.Body.Close()
		}
	}()

	c.logger.Debug("completion response",
		zap.String("model", c.model),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		errorBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return "", apierrors.NewAPIErrorWithBody(
			resp.StatusCode, c.endpoint,
			fmt.Sprintf("HTTP error! status: %d", resp.StatusCode),
			string(errorBody),
		)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", apierrors.NewNetworkError("read completion body", c.endpoint, err)
	}

	return parseCompletion(body)
}

// parseCompletion extracts the first choice's message content
func parseCompletion(body []byte) (string, error) {
	if !gjson.ValidBytes(body) {
		return "", apierrors.NewParseError("response is not valid JSON", "")
	}

	if !gjson.GetBytes(body, "choices.0").Exists() {
		return "", fmt.Errorf("%w: choices is empty", apierrors.ErrNoContent)
	}

	content := gjson.GetBytes(body, contentPath)
	if !content.Exists() {
		return "", apierrors.NewParseError("missing message content", contentPath)
	}
	if content.Type != gjson.String {
		return "", apierrors.NewParseError(fmt.Sprintf("expected string, got %s", content.Type), contentPath)
	}

	return content.String(), nil
}
