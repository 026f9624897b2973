// Package summary produces short summaries of note content with Gemini.
package summary

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"google.golang.org/genai"

	"github.com/aretw0/cardforge/pkg/core"
)

const (
	DefaultModel = "gemini-2.5-flash"

	// MinLength is the shortest trimmed input worth summarizing.
	MinLength = 50
	// TooShort is returned instead of calling the service for short input.
	TooShort = "Content is too short to summarize."
)

// Summarizer turns note content into a summary.
type Summarizer interface {
	Summarize(ctx context.Context, text string) (string, error)
	Configured() bool
}

// Config holds the Gemini client settings.
type Config struct {
	APIKey string
	Model  string
	// Endpoint overrides the service base URL. Empty uses the SDK default.
	Endpoint string
	Timeout  time.Duration
	Logger   *slog.Logger
}

// Client is a Summarizer backed by Gemini.
type Client struct {
	config Config

	once   sync.Once
	sdk    *genai.Client
	sdkErr error
}

// New creates a client. An empty API key yields an unconfigured client whose
// calls fail with core.ErrServiceUnavailable.
func New(config Config) *Client {
	if config.Model == "" {
		config.Model = DefaultModel
	}
	if config.Timeout <= 0 {
		config.Timeout = 60 * time.Second
	}
	return &Client{config: config}
}

// Configured reports whether an API key is set.
func (c *Client) Configured() bool {
	return c.config.APIKey != ""
}

// Prompt builds the instruction sent for text.
func Prompt(text string) string {
	return "Please provide a concise, one-paragraph summary of the following note. " +
		"Focus on the key points and main ideas.\n\n---\n" + text + "\n---"
}

func (c *Client) client(ctx context.Context) (*genai.Client, error) {
	c.once.Do(func() {
		c.sdk, c.sdkErr = genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  c.config.APIKey,
			Backend: genai.BackendGeminiAPI,
			HTTPOptions: genai.HTTPOptions{
				BaseURL: c.config.Endpoint,
				Timeout: genai.Ptr(c.config.Timeout),
			},
		})
	})
	return c.sdk, c.sdkErr
}

// Summarize returns a one-paragraph summary of text.
func (c *Client) Summarize(ctx context.Context, text string) (string, error) {
	if !c.Configured() {
		return "", fmt.Errorf("%w: no API key configured", core.ErrServiceUnavailable)
	}
	if len([]rune(strings.TrimSpace(text))) < MinLength {
		return TooShort, nil
	}

	client, err := c.client(ctx)
	if err != nil {
		c.logError("summary client setup failed", err)
		return "", fmt.Errorf("%w: create client: %v", core.ErrServiceError, err)
	}

	resp, err := client.Models.GenerateContent(ctx, c.config.Model, genai.Text(Prompt(text)), &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](0.2),
		TopP:        genai.Ptr[float32](0.9),
	})
	if err != nil {
		c.logError("summary request failed", err)
		return "", fmt.Errorf("%w: %v", core.ErrServiceError, err)
	}

	out := strings.TrimSpace(resp.Text())
	if out == "" {
		return "", fmt.Errorf("%w: empty response", core.ErrServiceError)
	}
	return out, nil
}

func (c *Client) logError(msg string, err error) {
	if c.config.Logger != nil {
		c.config.Logger.Error(msg, "model", c.config.Model, "error", err)
	}
}

var _ Summarizer = (*Client)(nil)
