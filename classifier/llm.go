package classifier

import (
	"context"
	"time"

	"github.com/commercemesh/commercemesh/backend"
	"github.com/commercemesh/commercemesh/core"
	"github.com/commercemesh/commercemesh/directive"
	"github.com/commercemesh/commercemesh/logging"
)

// LLM asks a router model for a JSON verdict and extracts the first balanced
// JSON object from whatever prose surrounds it.
type LLM struct {
	instruction string
	backend     backend.Backend
	opts        Options
}

// Options configures the LLM classifier.
type Options struct {
	// Temperature for the router call. Routing wants determinism.
	Temperature float64

	// MaxHistoryMessages is the trailing history window given to the router.
	MaxHistoryMessages int

	MaxTokens int64

	Logger logging.Logger
}

// NewLLM builds the LLM-backed classifier.
func NewLLM(instruction string, b backend.Backend, optFns ...func(o *Options)) *LLM {
	opts := Options{
		Temperature:        0.1,
		MaxHistoryMessages: 20,
		MaxTokens:          1024,
		Logger:             logging.NopLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &LLM{instruction: instruction, backend: b, opts: opts}
}

// Backend exposes the router's backend descriptor for event reporting.
func (c *LLM) Backend() backend.Backend { return c.backend }

func (c *LLM) Classify(ctx context.Context, message, image string, history []core.Message) (core.Classification, time.Duration) {
	start := time.Now()
	hasImage := image != ""

	messages := history
	if n := c.opts.MaxHistoryMessages; n > 0 && len(messages) > n {
		messages = messages[len(messages)-n:]
	}
	messages = append(append([]core.Message{}, messages...),
		core.Message{Role: core.RoleUser, Content: message, Image: image})

	resp, err := c.backend.Complete(ctx, backend.Request{
		Instruction: c.instruction,
		Messages:    messages,
		Temperature: c.opts.Temperature,
		MaxTokens:   c.opts.MaxTokens,
	})
	if err != nil {
		c.opts.Logger.Error("router call failed", "error", err)
		return core.DefaultClarify(hasImage), time.Since(start)
	}

	obj, ok := directive.FirstJSONObject(resp.Text)
	if !ok {
		c.opts.Logger.Warn("router produced no parseable verdict", "output", resp.Text)
		return core.DefaultClarify(hasImage), time.Since(start)
	}

	cl := core.Classification{
		Category:   core.Category(stringField(obj, "category")),
		Confidence: floatField(obj, "confidence"),
		Language:   stringField(obj, "language"),
		HasImage:   hasImage,
	}
	if !cl.Category.Valid() {
		return core.DefaultClarify(hasImage), time.Since(start)
	}
	if cl.Language == "" {
		cl.Language = "en"
	}
	return cl, time.Since(start)
}

func stringField(obj map[string]any, key string) string {
	s, _ := obj[key].(string)
	return s
}

func floatField(obj map[string]any, key string) float64 {
	f, _ := obj[key].(float64)
	return f
}
