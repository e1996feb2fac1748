// Package client talks to the travel API the way the browser front end does.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"unicode/utf8"

	"yatra-backend/internal/models"
	"yatra-backend/internal/session"
)

const (
	EndpointChat     = "/api/chat"
	EndpointLanguage = "/api/language"
	EndpointBudget   = "/api/budget"
	EndpointCheckKey = "/api/check-api-key"
)

var ErrInvalidBudget = errors.New("invalid budget request")

// APIError is a non-2xx answer from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server responded with %d: %s", e.Status, e.Message)
}

type Client struct {
	BaseURL string
	HTTP    *http.Client

	// Progress, when set, sees the assistant text after every read.
	Progress func(text string)

	readSize int
}

func New(baseURL string) *Client {
	return &Client{
		BaseURL:  strings.TrimRight(baseURL, "/"),
		HTTP:     &http.Client{},
		readSize: 4096,
	}
}

// CheckAPIKey reports whether the server has a provider credential.
func (c *Client) CheckAPIKey(ctx context.Context) (bool, error) {
	resp, err := c.do(ctx, http.MethodGet, EndpointCheckKey, nil)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, nil
	}
	var status models.APIKeyStatus
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return false, fmt.Errorf("decode key status: %w", err)
	}
	return status.Success, nil
}

// Budget validates locally and never sends a request the server would reject.
func (c *Client) Budget(ctx context.Context, req models.BudgetRequest) (string, error) {
	missing, invalid := req.Validate()
	if len(missing) > 0 {
		return "", fmt.Errorf("%w: missing %s", ErrInvalidBudget, strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		keys := make([]string, 0, len(invalid))
		for k := range invalid {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		msgs := make([]string, 0, len(keys))
		for _, k := range keys {
			msgs = append(msgs, invalid[k])
		}
		return "", fmt.Errorf("%w: %s", ErrInvalidBudget, strings.Join(msgs, "; "))
	}

	resp, err := c.do(ctx, http.MethodPost, EndpointBudget, req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", decodeAPIError(resp)
	}

	var out struct {
		Result string `json:"result"`
		Error  string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode budget response: %w", err)
	}
	if out.Error != "" {
		return "", &APIError{Status: resp.StatusCode, Message: out.Error}
	}
	return out.Result, nil
}

// Send submits content on a conversation endpoint and streams the reply into
// conv. The conversation goes loading → success|error around the call.
func (c *Client) Send(ctx context.Context, endpoint string, conv *session.Conversation, content string) (err error) {
	if strings.TrimSpace(content) == "" {
		return session.ErrEmptyMessage
	}
	if err := conv.Begin(); err != nil {
		return err
	}
	defer func() { conv.Finish(err) }()

	if _, err = conv.AppendUser(content); err != nil {
		return err
	}

	resp, err := c.do(ctx, http.MethodPost, endpoint, models.ChatRequest{Messages: conv.History()})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}

	if _, err = conv.AppendAssistantPlaceholder(); err != nil {
		return err
	}
	return c.readInto(resp.Body, conv)
}

func (c *Client) readInto(body io.Reader, conv *session.Conversation) error {
	size := c.readSize
	if size <= 0 {
		size = 4096
	}
	buf := make([]byte, size)
	var acc []byte

	for {
		n, rerr := body.Read(buf)
		if n > 0 {
			acc = append(acc, buf[:n]...)
			text := string(acc[:completePrefix(acc)])
			if err := conv.UpdateLastAssistant(text); err != nil {
				return err
			}
			if c.Progress != nil {
				c.Progress(text)
			}
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			return fmt.Errorf("read reply: %w", rerr)
		}
	}

	// flush whatever trailing bytes remain, even if they are not valid UTF-8
	return conv.UpdateLastAssistant(string(acc))
}

// completePrefix returns the length of b without a trailing partial rune.
func completePrefix(b []byte) int {
	for i := len(b) - 1; i >= 0 && i >= len(b)-utf8.UTFMax; i-- {
		if utf8.RuneStart(b[i]) {
			if utf8.FullRune(b[i:]) {
				return len(b)
			}
			return i
		}
	}
	return len(b)
}

func (c *Client) do(ctx context.Context, method, path string, body interface{}) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	httpClient := c.HTTP
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return httpClient.Do(req)
}

func decodeAPIError(resp *http.Response) error {
	var body models.ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil || body.Error == "" {
		return &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	}
	return &APIError{Status: resp.StatusCode, Message: body.Error}
}
