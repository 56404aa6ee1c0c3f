// Package gemini wraps the Google generative AI SDK behind a small
// interface so callers and tests never touch the SDK types directly.
package gemini

import (
	"context"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/lcampanari/gamebook-api/internal/errors"
)

//go:generate mockgen -destination=mock/mock_client.go -package=geminimock github.com/lcampanari/gamebook-api/internal/clients/gemini Client

// Client is the text generation and embedding surface the engine needs
type Client interface {
	// GenerateText sends a prompt and returns the model's text reply
	GenerateText(ctx context.Context, prompt string) (string, error)

	// Embed returns the embedding vector for the given text
	Embed(ctx context.Context, text string) ([]float32, error)

	// Close releases the underlying connection
	Close() error
}

const (
	defaultModel          = "gemini-2.5-flash"
	defaultEmbeddingModel = "text-embedding-004"
)

// Config holds the configuration for the Gemini client
type Config struct {
	APIKey         string
	Model          string // defaults to gemini-2.5-flash
	EmbeddingModel string // defaults to text-embedding-004
}

// Validate ensures all required settings are provided
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return errors.InvalidArgument("API key is required")
	}
	return nil
}

type client struct {
	genai     *genai.Client
	model     *genai.GenerativeModel
	embedding *genai.EmbeddingModel
}

// NewClient creates a Gemini client
func NewClient(ctx context.Context, cfg *Config) (Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	modelName := cfg.Model
	if modelName == "" {
		modelName = defaultModel
	}
	embeddingName := cfg.EmbeddingModel
	if embeddingName == "" {
		embeddingName = defaultEmbeddingModel
	}

	gc, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create Gemini client")
	}

	return &client{
		genai:     gc,
		model:     gc.GenerativeModel(modelName),
		embedding: gc.EmbeddingModel(embeddingName),
	}, nil
}

var _ Client = (*client)(nil)

func (c *client) GenerateText(ctx context.Context, prompt string) (string, error) {
	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", errors.WrapWithCode(err, errors.CodeUnavailable, "text generation failed")
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", errors.Unavailable("model returned no content")
	}

	text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return "", errors.Internal("unexpected response part type")
	}

	return strings.TrimSpace(string(text)), nil
}

func (c *client) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := c.embedding.EmbedContent(ctx, genai.Text(text))
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "embedding failed")
	}
	if resp.Embedding == nil || len(resp.Embedding.Values) == 0 {
		return nil, errors.Unavailable("model returned no embedding")
	}
	return resp.Embedding.Values, nil
}

func (c *client) Close() error {
	return c.genai.Close()
}
