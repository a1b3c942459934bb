package groq

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

	"github.com/pathprep/pathprep-backend/internal/logger"
	"github.com/pathprep/pathprep-backend/internal/pkg/httpx"
	"github.com/pathprep/pathprep-backend/internal/pkg/resilience"
)

// ErrModelUnavailable is returned when the provider cannot be reached at
// all: the circuit breaker is open, retries on rate limits are exhausted,
// or the transport timed out or failed to connect.
var ErrModelUnavailable = errors.New("model provider unavailable")

// ErrGenerationFailed is returned when the provider was reached but the
// call still failed: a non-retryable HTTP status or an undecodable body.
var ErrGenerationFailed = errors.New("generation failed")

// Client is the Groq chat-completions client used by the generation services.
type Client interface {
	// Generate sends a single-turn completion and returns the raw message text.
	// model overrides the configured default when non-empty.
	Generate(ctx context.Context, prompt string, model string) (string, error)

	// Model reports the configured default model.
	Model() string
}

type client struct {
	log        *logger.Logger
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
	breaker    *resilience.Breaker

	maxRetries  int
	temperature float64
	maxTokens   int
}

func NewClient(log *logger.Logger, breaker *resilience.Breaker) (Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	apiKey := strings.TrimSpace(os.Getenv("GROQ_API_KEY"))
	if apiKey == "" {
		return nil, fmt.Errorf("missing GROQ_API_KEY")
	}

	baseURL := strings.TrimSpace(os.Getenv("GROQ_BASE_URL"))
	if baseURL == "" {
		baseURL = "https://api.groq.com/openai"
	}
	baseURL = strings.TrimRight(baseURL, "/")

	model := strings.TrimSpace(os.Getenv("GROQ_MODEL"))
	if model == "" {
		model = "llama3-8b-8192"
	}

	timeoutSec := 30
	if v := os.Getenv("GROQ_TIMEOUT_SECONDS"); v != "" {
		if parsed, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && parsed > 0 {
			timeoutSec = parsed
		}
	}

	maxRetries := 3
	if v := os.Getenv("GROQ_MAX_RETRIES"); v != "" {
		if parsed, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && parsed >= 0 {
			maxRetries = parsed
		}
	}

	return &client{
		log:         log.With("service", "GroqClient"),
		baseURL:     baseURL,
		apiKey:      apiKey,
		model:       model,
		httpClient:  &http.Client{Timeout: time.Duration(timeoutSec) * time.Second},
		breaker:     breaker,
		maxRetries:  maxRetries,
		temperature: 0.7,
		maxTokens:   4000,
	}, nil
}

func (c *client) Model() string { return c.model }

type groqHTTPError struct {
	StatusCode int
	Body       string
}

func (e *groqHTTPError) Error() string {
	return fmt.Sprintf("groq http %d: %s", e.StatusCode, e.Body)
}

func (e *groqHTTPError) HTTPStatusCode() int {
	if e == nil {
		return 0
	}
	return e.StatusCode
}

func (c *client) doOnce(ctx context.Context, method, path string, body any) (*http.Response, []byte, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, err
	}

	raw, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return resp, nil, readErr
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp, raw, &groqHTTPError{StatusCode: resp.StatusCode, Body: string(raw)}
	}
	return resp, raw, nil
}

// do runs the request with rate-limit-only retries. Timeouts, 5xx and
// malformed responses fail immediately so the caller can fall back.
func (c *client) do(ctx context.Context, method, path string, body any, out any) error {
	if c.breaker != nil {
		if err := c.breaker.Allow(); err != nil {
			if errors.Is(err, resilience.ErrOpen) {
				return ErrModelUnavailable
			}
			return err
		}
	}

	backoff := 1 * time.Second

	var finalErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if ctx.Err() != nil {
			finalErr = ctx.Err()
			break
		}

		resp, raw, err := c.doOnce(ctx, method, path, body)
		if err == nil {
			if out != nil {
				if uErr := json.Unmarshal(raw, out); uErr != nil {
					finalErr = fmt.Errorf("groq decode error: %w; raw=%s", uErr, string(raw))
					break
				}
			}
			if c.breaker != nil {
				c.breaker.Record(false)
			}
			return nil
		}

		if !httpx.IsRateLimitError(err) {
			finalErr = err
			break
		}
		if attempt == c.maxRetries {
			finalErr = err
			break
		}

		sleepFor := httpx.RetryAfterDuration(resp, backoff, 10*time.Second)
		sleepFor = httpx.JitterSleep(sleepFor)

		c.log.Warn("Groq request rate limited; retrying",
			"path", path,
			"attempt", attempt+1,
			"max_retries", c.maxRetries,
			"sleep", sleepFor.String(),
			"error", err.Error(),
		)

		time.Sleep(sleepFor)
		backoff *= 2
		if backoff > 10*time.Second {
			backoff = 10 * time.Second
		}
	}

	if finalErr == nil {
		finalErr = fmt.Errorf("unreachable retry loop")
	}
	// Caller cancellation is not a provider failure; client-side timeouts are.
	// An admitted probe that was never attempted must give its slot back.
	if ctx.Err() != nil {
		if c.breaker != nil {
			c.breaker.Abandon()
		}
		return finalErr
	}
	if c.breaker != nil {
		c.breaker.Record(true)
	}
	return classifyErr(finalErr)
}

// classifyErr collapses transport and HTTP detail into the two error kinds
// callers branch on: the provider being unreachable, and a reached provider
// that still failed the call.
func classifyErr(err error) error {
	if httpx.IsRateLimitError(err) {
		// Retries exhausted.
		return fmt.Errorf("%w: %v", ErrModelUnavailable, err)
	}
	var httpErr *groqHTTPError
	if errors.As(err, &httpErr) {
		return fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		// Timeouts and connection failures alike mean nobody answered.
		return fmt.Errorf("%w: %v", ErrModelUnavailable, err)
	}
	return fmt.Errorf("%w: %v", ErrGenerationFailed, err)
}

type chatCompletionsRequest struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
	Temperature float64 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens"`
}

type chatCompletionsResponse struct {
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

func (c *client) Generate(ctx context.Context, prompt string, model string) (string, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", errors.New("prompt required")
	}

	m := strings.TrimSpace(model)
	if m == "" {
		m = c.model
	}

	req := chatCompletionsRequest{
		Model: m,
		Messages: []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		}{
			{Role: "user", Content: prompt},
		},
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	}

	var resp chatCompletionsResponse
	if err := c.do(ctx, "POST", "/v1/chat/completions", req, &resp); err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no completion returned")
	}
	return resp.Choices[0].Message.Content, nil
}
