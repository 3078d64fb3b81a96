package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

const defaultTimeout = 60 * time.Second

// HTTPClient talks to the legal AI service over HTTP.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewHTTPClient constructs a client for the AI service at baseURL.
// AI_TIMEOUT_SECONDS overrides the request timeout.
func NewHTTPClient(baseURL string) (*HTTPClient, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("AI_SERVER_URL is required")
	}
	timeout := defaultTimeout
	if raw := strings.TrimSpace(os.Getenv("AI_TIMEOUT_SECONDS")); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			timeout = time.Duration(parsed) * time.Second
		}
	}
	return &HTTPClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

type summarizeRequest struct {
	Text       string `json:"text"`
	Level      string `json:"level"`
	DocumentID string `json:"document_id"`
}

// Summarize posts the document text to /summarize-text and returns the raw
// response body. The body's shape is untrusted; no decoding happens here.
func (c *HTTPClient) Summarize(ctx context.Context, input SummarizeInput) (json.RawMessage, error) {
	payload, err := json.Marshal(summarizeRequest{
		Text:       input.Text,
		Level:      input.Level,
		DocumentID: input.DocumentID,
	})
	if err != nil {
		return nil, fmt.Errorf("encode summarize request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/summarize-text", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build summarize request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	body, err := c.do(req)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(body), nil
}

type askResponse struct {
	Answer string `json:"answer"`
}

// Ask posts a contextualized question to /ask and returns the answer text.
func (c *HTTPClient) Ask(ctx context.Context, question string) (string, error) {
	form := url.Values{}
	form.Set("question", question)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/ask", strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("build ask request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	body, err := c.do(req)
	if err != nil {
		return "", err
	}

	var parsed askResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("%w: decode answer: %v", ErrInvalidResponse, err)
	}
	if strings.TrimSpace(parsed.Answer) == "" {
		return "", fmt.Errorf("%w: missing answer", ErrInvalidResponse)
	}
	return parsed.Answer, nil
}

func (c *HTTPClient) do(req *http.Request) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, classifyTransportError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return nil, classifyTransportError(err)
	}

	switch {
	case resp.StatusCode >= 500:
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	case resp.StatusCode >= 400:
		return nil, fmt.Errorf("%w: status %d: %s", ErrInvalidResponse, resp.StatusCode, truncate(string(body), 200))
	}
	return body, nil
}

func classifyTransportError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

var _ Client = (*HTTPClient)(nil)
