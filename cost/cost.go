// Package cost estimates token counts and nominal spend for the per-hop cost
// event. The default estimator is the documented length/4 heuristic, not a
// true tokenizer; a tiktoken-backed estimator is available for deployments
// that want numbers closer to the serving stack's accounting.
package cost

import (
	"math"

	"github.com/tiktoken-go/tokenizer"
)

// PricePerToken is the nominal USD price applied to every input and output
// token when estimating spend.
const PricePerToken = 0.000001

// Estimator approximates the token count of a text fragment.
type Estimator interface {
	Count(text string) int
}

// Heuristic approximates tokens as len(text)/4.
type Heuristic struct{}

// Count implements Estimator.
func (Heuristic) Count(text string) int { return len(text) / 4 }

// Tiktoken counts tokens with a real BPE codec.
type Tiktoken struct {
	codec tokenizer.Codec
}

// NewTiktoken builds a tiktoken-backed estimator. The encoding defaults to
// cl100k_base when the name is empty.
func NewTiktoken(encoding string) (*Tiktoken, error) {
	enc := tokenizer.Encoding(encoding)
	if encoding == "" {
		enc = tokenizer.Cl100kBase
	}
	codec, err := tokenizer.Get(enc)
	if err != nil {
		return nil, err
	}
	return &Tiktoken{codec: codec}, nil
}

// Count implements Estimator. Falls back to the heuristic on encode failure.
func (t *Tiktoken) Count(text string) int {
	ids, _, err := t.codec.Encode(text)
	if err != nil {
		return Heuristic{}.Count(text)
	}
	return len(ids)
}

// EstimateUSD returns the nominal spend for a token total, rounded to six
// decimal places as surfaced in the cost event.
func EstimateUSD(inputTokens, outputTokens int) float64 {
	usd := float64(inputTokens+outputTokens) * PricePerToken
	return math.Round(usd*1e6) / 1e6
}
