package ai

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/resu-med/resu-med-sub000/internal/adapter/ai/tokencount"
	"github.com/resu-med/resu-med-sub000/internal/config"
	"github.com/resu-med/resu-med-sub000/internal/domain"
)

const systemPrompt = `You are a resume parser. Extract a structured career profile from the resume text you are given.
Respond with a single JSON object and nothing else, using this shape:
{"personal":{"first_name":"","last_name":"","email":"","phone":"","location":"","website":"","linkedin":"","github":""},
"employment":[{"position":"","company":"","location":"","date_range":{"start_date":"YYYY-MM","end_date":"YYYY-MM","is_current":false},"description":"","achievements":[""]}],
"education":[{"institution":"","degree":"","field":"","location":"","date_range":{"start_date":"YYYY-MM","end_date":"YYYY-MM","is_current":false},"gpa":"","achievements":[""]}],
"skills":[{"name":"","category":"technical|soft|language|other","level":"beginner|intermediate|advanced|expert"}],
"interests":[{"name":"","category":"hobby|volunteer|interest"}]}
Use "YYYY-MM" for dates, an empty end_date with is_current true for ongoing roles, and empty strings for anything absent.`

// Client implements domain.AIDelegate against an OpenRouter-compatible
// chat completions endpoint.
type Client struct {
	cfg       config.Config
	hc        *http.Client
	cleaner   *ResponseCleaner
	validator *ResponseValidator
	tokens    *tokencount.Counter
}

// NewClient constructs a Client. The HTTP transport is instrumented
// with OTEL; the per-request deadline comes from the caller's context.
func NewClient(cfg config.Config) *Client {
	return &Client{
		cfg: cfg,
		hc: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   60 * time.Second,
		},
		cleaner:   NewResponseCleaner(),
		validator: NewResponseValidator(),
		tokens:    tokencount.NewCounter(),
	}
}

type chatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	Temperature    float64       `json:"temperature"`
	ResponseFormat *respFormat   `json:"response_format,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type respFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// ExtractProfile implements domain.AIDelegate.
func (c *Client) ExtractProfile(ctx domain.Context, text string) (domain.Profile, error) {
	if c.cfg.OpenRouterAPIKey == "" {
		return domain.Profile{}, fmt.Errorf("%w: OPENROUTER_API_KEY missing", domain.ErrInvalidArgument)
	}

	promptTokens := c.tokens.Count(c.cfg.OpenRouterModel, systemPrompt+text)
	slog.Debug("ai extract request",
		slog.String("model", c.cfg.OpenRouterModel),
		slog.Int("prompt_tokens", promptTokens))

	body, err := json.Marshal(chatRequest{
		Model: c.cfg.OpenRouterModel,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: text},
		},
		Temperature:    0,
		ResponseFormat: &respFormat{Type: "json_object"},
	})
	if err != nil {
		return domain.Profile{}, fmt.Errorf("op=ai.ExtractProfile: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.OpenRouterBaseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return domain.Profile{}, fmt.Errorf("op=ai.ExtractProfile: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.OpenRouterAPIKey)
	if c.cfg.OpenRouterReferer != "" {
		req.Header.Set("HTTP-Referer", c.cfg.OpenRouterReferer)
	}
	if c.cfg.OpenRouterTitle != "" {
		req.Header.Set("X-Title", c.cfg.OpenRouterTitle)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return domain.Profile{}, fmt.Errorf("%w: %v", domain.ErrUpstreamTimeout, err)
		}
		return domain.Profile{}, fmt.Errorf("op=ai.ExtractProfile: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return domain.Profile{}, fmt.Errorf("op=ai.ExtractProfile: read body: %w", err)
	}
	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return domain.Profile{}, fmt.Errorf("%w: status=429", domain.ErrUpstreamRateLimit)
	case resp.StatusCode >= 400:
		return domain.Profile{}, fmt.Errorf("op=ai.ExtractProfile: status=%d body=%s", resp.StatusCode, snippet(raw, 200))
	}

	var cr chatResponse
	if err := json.Unmarshal(raw, &cr); err != nil {
		return domain.Profile{}, fmt.Errorf("%w: response decode: %v", domain.ErrSchemaInvalid, err)
	}
	if cr.Error != nil {
		return domain.Profile{}, fmt.Errorf("op=ai.ExtractProfile: provider error: %s", cr.Error.Message)
	}
	if len(cr.Choices) == 0 {
		return domain.Profile{}, fmt.Errorf("%w: no choices in response", domain.ErrSchemaInvalid)
	}

	cleaned := c.cleaner.CleanJSONResponse(cr.Choices[0].Message.Content)
	profile, err := c.validator.Validate(cleaned)
	if err != nil {
		return domain.Profile{}, err
	}
	return profile, nil
}

func snippet(b []byte, n int) string {
	if len(b) > n {
		b = b[:n]
	}
	return string(b)
}
