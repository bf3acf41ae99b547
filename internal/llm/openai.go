package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gerunddev/quartet/internal/log"
)

const (
	chatTemperature = 0.2
	requestTimeout  = 45 * time.Second
	maxErrorBody    = 2048
)

// OpenAIClient calls an OpenAI-compatible chat completions endpoint.
type OpenAIClient struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

// NewOpenAIClient creates a client for the given credential, base URL and
// model. A trailing slash on baseURL is removed.
func NewOpenAIClient(apiKey, baseURL, model string) *OpenAIClient {
	return &OpenAIClient{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
	}
}

// Name implements Client.
func (c *OpenAIClient) Name() string { return "openai:" + c.model }

// Endpoint returns the URL requests are posted to.
func (c *OpenAIClient) Endpoint() string {
	return c.baseURL + "/chat/completions"
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatResponse uses pointers so a missing field can be told apart from an
// empty one.
type chatResponse struct {
	Choices *[]struct {
		Message *struct {
			Content *string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Generate implements Client with a single synchronous POST. It returns
// *RequestError on transport failure or non-2xx status and *ProtocolError
// when the response lacks choices[0].message.content.
func (c *OpenAIClient) Generate(ctx context.Context, system, user string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature: chatTemperature,
	})
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	endpoint := c.Endpoint()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &RequestError{URL: endpoint, Err: err}
	}
	defer func() {
		log.CloseError("response body", resp.Body.Close())
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return "", &RequestError{
			URL:        endpoint,
			StatusCode: resp.StatusCode,
			Body:       string(errBody),
			Err:        fmt.Errorf("unexpected status %s", resp.Status),
		}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &RequestError{URL: endpoint, Err: fmt.Errorf("reading response: %w", err)}
	}

	content, err := extractContent(data)
	if err != nil {
		return "", err
	}

	log.Debug("chat completion finished",
		"model", c.model,
		"elapsed", time.Since(start).Round(time.Millisecond),
		"system_chars", len(system),
		"user_chars", len(user),
		"response_chars", len(content),
	)
	return content, nil
}

// extractContent pulls choices[0].message.content out of a response body.
func extractContent(data []byte) (string, error) {
	var out chatResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return "", &ProtocolError{Reason: "response is not a JSON object", Err: err}
	}
	if out.Choices == nil {
		return "", &ProtocolError{Reason: "missing choices"}
	}
	if len(*out.Choices) == 0 {
		return "", &ProtocolError{Reason: "empty choices"}
	}
	first := (*out.Choices)[0]
	if first.Message == nil {
		return "", &ProtocolError{Reason: "missing choices[0].message"}
	}
	if first.Message.Content == nil {
		return "", &ProtocolError{Reason: "missing choices[0].message.content"}
	}
	return *first.Message.Content, nil
}
