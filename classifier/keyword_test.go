package classifier

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/commercemesh/commercemesh/core"
)

func TestKeywordClassify(t *testing.T) {
	tests := []struct {
		name       string
		message    string
		image      string
		category   core.Category
		confidence float64
	}{
		{
			name:       "escalation beats returns keywords",
			message:    "I want a refund and I already talked to my lawyer",
			category:   core.CategoryEscalate,
			confidence: 0.98,
		},
		{
			name:       "returns text only",
			message:    "The blender arrived broken",
			category:   core.CategoryReturns,
			confidence: 0.93,
		},
		{
			name:       "returns with photo",
			message:    "This arrived damaged, see the photo",
			image:      "base64jpeg",
			category:   core.CategoryReturns,
			confidence: 0.97,
		},
		{
			name:       "product advice",
			message:    "Which laptop should I buy for college?",
			category:   core.CategoryProductAdvisor,
			confidence: 0.96,
		},
		{
			name:       "product advice with image drops confidence",
			message:    "Can you recommend a case for this?",
			image:      "base64jpeg",
			category:   core.CategoryProductAdvisor,
			confidence: 0.88,
		},
		{
			name:       "order tracking",
			message:    "Where is my package?",
			category:   core.CategoryOrderStatus,
			confidence: 0.93,
		},
		{
			name:       "order screenshot",
			message:    "here is my order confirmation",
			image:      "base64jpeg",
			category:   core.CategoryOrderStatus,
			confidence: 0.91,
		},
		{
			name:       "bare image defaults to product advice",
			message:    "what do you think of this?",
			image:      "base64jpeg",
			category:   core.CategoryProductAdvisor,
			confidence: 0.75,
		},
		{
			name:       "no match asks for clarification",
			message:    "hello there",
			category:   core.CategoryClarify,
			confidence: 0.50,
		},
	}

	c := NewKeyword()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cl, _ := c.Classify(context.Background(), tt.message, tt.image, nil)
			assert.Equal(t, tt.category, cl.Category)
			assert.InDelta(t, tt.confidence, cl.Confidence, 1e-9)
			assert.Equal(t, "en", cl.Language)
			assert.Equal(t, tt.image != "", cl.HasImage)
		})
	}
}

func TestKeywordCaseInsensitive(t *testing.T) {
	c := NewKeyword()
	cl, _ := c.Classify(context.Background(), "WHERE IS my ORDER", "", nil)
	assert.Equal(t, core.CategoryOrderStatus, cl.Category)
}
