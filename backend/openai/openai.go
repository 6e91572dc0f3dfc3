// Package openai adapts an OpenAI-compatible Chat Completions endpoint (the
// vLLM serving stack speaks this dialect) to the backend.Backend interface.
package openai

import (
	"context"
	"fmt"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/commercemesh/commercemesh/backend"
	"github.com/commercemesh/commercemesh/core"
)

// Options configure the adapter. BaseURL and Model address one serving
// endpoint; Timeout is the fixed per-call deadline.
type Options struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
	Info    core.BackendInfo
}

// Backend wraps the OpenAI Chat Completions API behind backend.Backend.
type Backend struct {
	client openai.Client
	opts   Options
}

// New creates an adapter for one OpenAI-compatible endpoint.
func New(optFns ...func(o *Options)) *Backend {
	opts := Options{
		Model:   openai.ChatModelGPT4oMini,
		Timeout: 30 * time.Second,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	var clientOpts []option.RequestOption
	if opts.BaseURL != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(opts.BaseURL))
	}
	if opts.APIKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(opts.APIKey))
	}

	if opts.Info.ID == "" {
		opts.Info = core.BackendInfo{ID: opts.Model, Model: opts.Model, Endpoint: opts.BaseURL}
	}

	return &Backend{client: openai.NewClient(clientOpts...), opts: opts}
}

// Complete implements backend.Backend.
func (b *Backend) Complete(ctx context.Context, req backend.Request) (backend.Response, error) {
	ctx, cancel := context.WithTimeout(ctx, b.opts.Timeout)
	defer cancel()

	params := openai.ChatCompletionNewParams{
		Model:    b.opts.Model,
		Messages: buildMessages(req),
	}
	if req.Temperature > 0 {
		params.Temperature = openai.Float(req.Temperature)
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = openai.Int(req.MaxTokens)
	}

	resp, err := b.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return backend.Response{}, fmt.Errorf("openai completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return backend.Response{}, fmt.Errorf("openai completion: no choices returned")
	}
	return backend.Response{Text: resp.Choices[0].Message.Content}, nil
}

// Info implements backend.Backend.
func (b *Backend) Info() core.BackendInfo { return b.opts.Info }

// buildMessages converts normalized messages into OpenAI chat messages,
// expanding an attached image into a multimodal content list.
func buildMessages(req backend.Request) []openai.ChatCompletionMessageParamUnion {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(req.Messages)+1)
	if req.Instruction != "" {
		messages = append(messages, openai.SystemMessage(req.Instruction))
	}
	for _, m := range req.Messages {
		switch m.Role {
		case core.RoleAssistant:
			messages = append(messages, openai.AssistantMessage(m.Content))
		default:
			if m.Image == "" {
				messages = append(messages, openai.UserMessage(m.Content))
				continue
			}
			parts := []openai.ChatCompletionContentPartUnionParam{
				openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
					URL: "data:image/jpeg;base64," + m.Image,
				}),
				openai.TextContentPart(m.Content),
			}
			messages = append(messages, openai.UserMessage(parts))
		}
	}
	return messages
}
