// Package summarizer turns scraped article text into a short digest-ready
// summary via the OpenAI chat completions API.
package summarizer

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// maxInputChars caps the article text sent to the model, roughly 12k tokens
// at four characters per token.
const maxInputChars = 48000

const systemPrompt = "You are a helpful assistant that creates clear, informative summaries of articles and reports."

// Summary is a generated article summary plus usage metadata.
type Summary struct {
	Text       string
	Model      string
	TokensUsed int
}

// Client generates summaries with a fixed model and token budget.
type Client struct {
	api       *openai.Client
	model     string
	maxTokens int
	logger    *zap.Logger
}

// Option adjusts a Client. The zero configuration targets the public OpenAI
// endpoint.
type Option func(*openai.ClientConfig)

// WithBaseURL points the client at an alternate API endpoint. Tests use it
// to talk to a local httptest server.
func WithBaseURL(baseURL string) Option {
	return func(cfg *openai.ClientConfig) {
		cfg.BaseURL = baseURL
	}
}

func New(apiKey, model string, maxTokens int, logger *zap.Logger, opts ...Option) *Client {
	cfg := openai.DefaultConfig(apiKey)
	for _, opt := range opts {
		opt(&cfg)
	}
	if model == "" {
		model = openai.GPT4oMini
	}
	if maxTokens <= 0 {
		maxTokens = 800
	}
	return &Client{
		api:       openai.NewClientWithConfig(cfg),
		model:     model,
		maxTokens: maxTokens,
		logger:    logger,
	}
}

// Summarize generates a summary for the article. Title and text feed a
// fixed digest prompt; oversized text is truncated, not rejected.
func (c *Client) Summarize(ctx context.Context, title, text string) (*Summary, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: buildPrompt(title, text)},
		},
		Temperature: 0.7,
		MaxTokens:   c.maxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("chat completion returned no choices")
	}

	summary := &Summary{
		Text:       resp.Choices[0].Message.Content,
		Model:      resp.Model,
		TokensUsed: resp.Usage.TotalTokens,
	}
	c.logger.Debug("summary generated",
		zap.String("model", summary.Model),
		zap.Int("tokens_used", summary.TokensUsed))
	return summary, nil
}

func buildPrompt(title, text string) string {
	if len(text) > maxInputChars {
		text = text[:maxInputChars] + "..."
	}
	return fmt.Sprintf(`Please provide a comprehensive summary of the following article.

Title: %s

Article Content:
%s

Please provide:
1. A brief 2-3 sentence overview
2. Key points and main arguments (3-5 bullet points)
3. Any important conclusions or takeaways

Keep the summary informative but concise, suitable for a daily reading digest email.`, title, text)
}
