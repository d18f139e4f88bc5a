// Package ai talks to the generative text endpoint used for content
// suggestions in the admin panel.
package ai

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/talkincode/storefront/internal/domain"
)

const (
	textPath        = "candidates.0.content.parts.0.text"
	maxResponseSize = 4 << 20
	defaultTimeout  = 30 * time.Second
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type Config struct {
	Endpoint   string
	APIKey     string
	Timeout    time.Duration
	HTTPClient *http.Client // optional, overrides Timeout
}

// Client issues single generateContent calls. Requests are never retried.
type Client struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
}

func New(cfg Config) *Client {
	hc := cfg.HTTPClient
	if hc == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		hc = &http.Client{Timeout: timeout}
	}
	return &Client{endpoint: cfg.Endpoint, apiKey: cfg.APIKey, httpClient: hc}
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role"`
	Parts []part `json:"parts"`
}

type generationConfig struct {
	ResponseMimeType string  `json:"responseMimeType"`
	ResponseSchema   *Schema `json:"responseSchema"`
}

type request struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

// GenerateText sends a free text prompt and returns the trimmed answer.
func (c *Client) GenerateText(ctx context.Context, prompt string) (string, error) {
	text, err := c.generate(ctx, prompt, nil)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

// GenerateStructured asks for JSON matching schema and decodes it into out.
// out is left untouched unless the whole answer decodes and carries every
// required field.
func (c *Client) GenerateStructured(ctx context.Context, prompt string, schema *Schema, out interface{}) error {
	text, err := c.generate(ctx, prompt, schema)
	if err != nil {
		return err
	}
	text = strings.TrimSpace(text)
	if !gjson.Valid(text) {
		zap.L().Warn("ai: structured answer is not json", zap.String("namespace", "ai"), zap.Int("len", len(text)))
		return errors.Wrap(domain.ErrAIResponseMalformed, "answer is not valid json")
	}
	parsed := gjson.Parse(text)
	if schema != nil && schema.Type == TypeObject {
		if !parsed.IsObject() {
			return errors.Wrap(domain.ErrAIResponseMalformed, "answer is not an object")
		}
		for _, name := range schema.Required {
			if !parsed.Get(gjson.Escape(name)).Exists() {
				return errors.Wrapf(domain.ErrAIResponseMalformed, "answer lacks field %q", name)
			}
		}
	}
	if err := json.Unmarshal([]byte(text), out); err != nil {
		return errors.Wrap(domain.ErrAIResponseMalformed, err.Error())
	}
	return nil
}

func (c *Client) requestURL() string {
	sep := "?"
	if strings.Contains(c.endpoint, "?") {
		sep = "&"
	}
	return c.endpoint + sep + "key=" + url.QueryEscape(c.apiKey)
}

func (c *Client) generate(ctx context.Context, prompt string, schema *Schema) (string, error) {
	payload := request{Contents: []content{{Role: "user", Parts: []part{{Text: prompt}}}}}
	if schema != nil {
		payload.GenerationConfig = &generationConfig{
			ResponseMimeType: "application/json",
			ResponseSchema:   schema,
		}
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", errors.Wrap(err, "encode ai request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.requestURL(), bytes.NewReader(body))
	if err != nil {
		return "", errors.Wrap(domain.ErrAITransport, err.Error())
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		zap.L().Warn("ai: request failed", zap.String("namespace", "ai"), zap.Error(err))
		return "", errors.Wrap(domain.ErrAITransport, err.Error())
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return "", errors.Wrap(domain.ErrAITransport, "read response: "+err.Error())
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := gjson.GetBytes(data, "error.message").String()
		if msg == "" {
			msg = strings.TrimSpace(string(data))
			if len(msg) > 256 {
				msg = msg[:256] + "...(truncated)"
			}
		}
		zap.L().Warn("ai: endpoint returned error",
			zap.String("namespace", "ai"),
			zap.Int("status", resp.StatusCode),
			zap.String("message", msg))
		return "", errors.Wrapf(domain.ErrAITransport, "status %d: %s", resp.StatusCode, msg)
	}
	if !gjson.ValidBytes(data) {
		return "", errors.Wrap(domain.ErrAIResponseMalformed, "response body is not valid json")
	}

	result := gjson.GetBytes(data, textPath)
	if !result.Exists() || strings.TrimSpace(result.String()) == "" {
		zap.L().Warn("ai: no content received", zap.String("namespace", "ai"),
			zap.String("finish_reason", gjson.GetBytes(data, "candidates.0.finishReason").String()))
		return "", domain.ErrAIEmptyResponse
	}
	zap.L().Debug("ai: content received", zap.String("namespace", "ai"),
		zap.Bool("structured", schema != nil),
		zap.Duration("elapsed", time.Since(start)))
	return result.String(), nil
}
