package api

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	http "github.com/bogdanfinn/fhttp"
	"github.com/tidwall/gjson"

	apierrors "github.com/monument-ai/athena/internal/errors"
	"github.com/monument-ai/athena/internal/logger"
	"github.com/monument-ai/athena/internal/models"
)

// maxBodySize caps how much of a response body is read
const maxBodySize = 4 << 20

// Prompt sends the prompt to the service and returns the reply text.
// The prompt travels as a query parameter; the request body is empty.
func (c *Client) Prompt(ctx context.Context, prompt string) (string, error) {
	if prompt == "" {
		return "", apierrors.ErrEmptyPrompt
	}
	if c.IsClosed() {
		return "", fmt.Errorf("client is closed")
	}

	endpoint := promptURL(c.baseURL, prompt)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	for key, value := range models.DefaultHeaders() {
		req.Header.Set(key, value)
	}

	start := time.Now()
	body, err := c.do(req, models.EndpointPrompt)
	elapsed := time.Since(start)
	if err != nil {
		logger.WarnCF("api", "prompt request failed", logger.Fields{
			"error":   err,
			"elapsed": elapsed,
		})
		return "", err
	}

	logger.DebugCF("api", "prompt request completed", logger.Fields{
		"bytes":   len(body),
		"elapsed": elapsed,
	})

	return parseReply(body)
}

// RequestReply is Prompt with every failure folded into a displayable string.
// It never returns an error.
func (c *Client) RequestReply(ctx context.Context, prompt string) string {
	return ReplyText(c.Prompt(ctx, prompt))
}

// ReplyText converts a Prompt result into the text shown to the user
func ReplyText(text string, err error) string {
	if err != nil {
		return models.FetchErrorPrefix + err.Error()
	}
	return text
}

// Health queries the service root
func (c *Client) Health(ctx context.Context) (*models.HealthStatus, error) {
	if c.IsClosed() {
		return nil, fmt.Errorf("client is closed")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+models.EndpointHealth, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	body, err := c.do(req, models.EndpointHealth)
	if err != nil {
		return nil, err
	}

	if !gjson.ValidBytes(body) {
		return nil, apierrors.NewParseError(models.EndpointHealth, "invalid JSON in health response", nil)
	}

	return &models.HealthStatus{
		Status:  gjson.GetBytes(body, "status").String(),
		Message: gjson.GetBytes(body, "message").String(),
	}, nil
}

// do executes req and returns the body of a 2xx response
func (c *Client) do(req *http.Request, endpoint string) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apierrors.NewNetworkError(endpoint, err)
	}
	defer func() {
		if resp != nil && resp.Body != nil {
			_ = resp.Body.Close()
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, apierrors.NewStatusError(resp.StatusCode, endpoint)
	}

	if resp.Body == nil {
		return nil, nil
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, apierrors.NewNetworkError(endpoint, err)
	}
	return body, nil
}

// promptURL builds {baseURL}/prompt?prompt={text}
func promptURL(baseURL, prompt string) string {
	return baseURL + models.EndpointPrompt + "?" + models.PromptParam + "=" + encodeURIComponent(prompt)
}

// uriUnreserved restores the marks encodeURIComponent leaves alone
var uriUnreserved = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// encodeURIComponent percent-encodes s for a query value, spaces as %20
func encodeURIComponent(s string) string {
	return uriUnreserved.Replace(url.QueryEscape(s))
}

// parseReply extracts the "response" field from a JSON body.
// Falsy values (absent, null, "", 0, false) yield the no-response fallback.
func parseReply(body []byte) (string, error) {
	if !gjson.ValidBytes(body) {
		return "", apierrors.NewParseError(models.EndpointPrompt,
			fmt.Sprintf("invalid JSON in response body (%d bytes)", len(body)), apierrors.ErrInvalidResponse)
	}

	root := gjson.ParseBytes(body)
	if root.Type == gjson.Null {
		return "", apierrors.NewParseError(models.EndpointPrompt, "response body is null", apierrors.ErrInvalidResponse)
	}
	if !root.IsObject() {
		return models.NoResponseText, nil
	}

	// Duplicate keys resolve to the last occurrence
	var field gjson.Result
	root.ForEach(func(key, value gjson.Result) bool {
		if key.Str == "response" {
			field = value
		}
		return true
	})

	switch field.Type {
	case gjson.String:
		if field.Str == "" {
			return models.NoResponseText, nil
		}
		return field.Str, nil
	case gjson.Number:
		if field.Num == 0 {
			return models.NoResponseText, nil
		}
		return field.Raw, nil
	case gjson.True:
		return "true", nil
	case gjson.JSON:
		return field.Raw, nil
	default:
		// absent, null, false
		return models.NoResponseText, nil
	}
}
