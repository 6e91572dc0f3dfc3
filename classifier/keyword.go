package classifier

import (
	"context"
	"strings"
	"time"

	"github.com/commercemesh/commercemesh/core"
)

// Keyword is the deterministic router used by scripted deployments. Escalation
// phrases win over everything; a bare image with no matching text defaults to
// product advice at reduced confidence; no match at all yields CLARIFY at
// 0.50, which the orchestrator's threshold turns into a clarifying question.
type Keyword struct{}

// NewKeyword builds the deterministic keyword classifier.
func NewKeyword() *Keyword { return &Keyword{} }

var (
	escalateKeywords = []string{
		"lawyer", "legal", "complaint", "consumer protection", "sue",
		"called 5 times", "nobody helps", "filing",
	}
	returnsKeywords = []string{
		"return", "refund", "broken", "defective", "damaged", "cancel",
		"warranty", "wrong item", "cracked",
	}
	productKeywords = []string{
		"recommend", "compare", "suggest", "which", "should i", "buy",
		"compatible", "case for", "specs", "better", "vs", "or the",
	}
	orderKeywords = []string{
		"order", "track", "delivery", "where is", "package", "shipping",
		"shipped", "status", "eta", "courier",
	}
)

func matchesAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

func (c *Keyword) Classify(_ context.Context, message, image string, _ []core.Message) (core.Classification, time.Duration) {
	start := time.Now()
	text := strings.ToLower(message)
	hasImage := image != ""

	cl := core.Classification{Language: "en", HasImage: hasImage}
	switch {
	case matchesAny(text, escalateKeywords):
		cl.Category = core.CategoryEscalate
		cl.Confidence = 0.98
	case matchesAny(text, returnsKeywords):
		cl.Category = core.CategoryReturns
		cl.Confidence = 0.93
		if hasImage {
			cl.Confidence = 0.97
		}
	case matchesAny(text, productKeywords):
		cl.Category = core.CategoryProductAdvisor
		cl.Confidence = 0.96
		if hasImage {
			cl.Confidence = 0.88
		}
	case matchesAny(text, orderKeywords):
		cl.Category = core.CategoryOrderStatus
		cl.Confidence = 0.93
		if hasImage {
			cl.Confidence = 0.91
		}
	case hasImage:
		cl.Category = core.CategoryProductAdvisor
		cl.Confidence = 0.75
	default:
		cl.Category = core.CategoryClarify
		cl.Confidence = 0.50
	}
	return cl, time.Since(start)
}
