// Package anthropic adapts the Anthropic Messages API to backend.Backend for
// deployments that bind a specialist to a Claude model instead of a local
// OpenAI-compatible endpoint.
package anthropic

import (
	"context"
	"fmt"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/commercemesh/commercemesh/backend"
	"github.com/commercemesh/commercemesh/core"
)

// Model aliases the SDK model identifier so callers can set it without
// importing the SDK.
type Model = anthropic.Model

// Options configure the adapter.
type Options struct {
	APIKey  string
	BaseURL string
	Model   anthropic.Model
	Timeout time.Duration
	Info    core.BackendInfo
}

// Backend wraps the Anthropic Messages API behind backend.Backend.
type Backend struct {
	client anthropic.Client
	opts   Options
}

// New creates an adapter for the Anthropic API.
func New(optFns ...func(o *Options)) *Backend {
	opts := Options{
		Model:   anthropic.ModelClaude3_5Sonnet20241022,
		Timeout: 30 * time.Second,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	var clientOpts []option.RequestOption
	if opts.APIKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(opts.APIKey))
	}
	if opts.BaseURL != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(opts.BaseURL))
	}

	if opts.Info.ID == "" {
		opts.Info = core.BackendInfo{ID: string(opts.Model), Model: string(opts.Model), Endpoint: "https://api.anthropic.com"}
	}

	return &Backend{client: anthropic.NewClient(clientOpts...), opts: opts}
}

// Complete implements backend.Backend.
func (b *Backend) Complete(ctx context.Context, req backend.Request) (backend.Response, error) {
	ctx, cancel := context.WithTimeout(ctx, b.opts.Timeout)
	defer cancel()

	params := anthropic.MessageNewParams{
		Model:     b.opts.Model,
		MaxTokens: req.MaxTokens,
		Messages:  buildMessages(req.Messages),
	}
	if params.MaxTokens == 0 {
		params.MaxTokens = 1024
	}
	if req.Instruction != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.Instruction}}
	}
	if req.Temperature > 0 {
		params.Temperature = anthropic.Float(req.Temperature)
	}

	resp, err := b.client.Messages.New(ctx, params)
	if err != nil {
		return backend.Response{}, fmt.Errorf("anthropic completion: %w", err)
	}

	var text string
	for _, block := range resp.Content {
		if block.Type == "text" {
			text += block.AsText().Text
		}
	}
	return backend.Response{Text: text}, nil
}

// Info implements backend.Backend.
func (b *Backend) Info() core.BackendInfo { return b.opts.Info }

// buildMessages converts normalized messages into Anthropic message params,
// expanding an attached image into an image block ahead of the text.
func buildMessages(msgs []core.Message) []anthropic.MessageParam {
	out := make([]anthropic.MessageParam, 0, len(msgs))
	for _, m := range msgs {
		switch m.Role {
		case core.RoleAssistant:
			out = append(out, anthropic.NewAssistantMessage(anthropic.NewTextBlock(m.Content)))
		default:
			blocks := []anthropic.ContentBlockParamUnion{}
			if m.Image != "" {
				blocks = append(blocks, anthropic.NewImageBlockBase64("image/jpeg", m.Image))
			}
			blocks = append(blocks, anthropic.NewTextBlock(m.Content))
			out = append(out, anthropic.NewUserMessage(blocks...))
		}
	}
	return out
}
