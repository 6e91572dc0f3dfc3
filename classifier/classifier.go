// Package classifier produces the routing verdict for an inbound message.
// Two implementations share one contract: an LLM-backed router that asks a
// small model for a JSON verdict, and a deterministic keyword router used in
// scripted deployments. Classification never fails; anything unparseable
// degrades to CLARIFY with zero confidence.
package classifier

import (
	"context"
	"time"

	"github.com/commercemesh/commercemesh/core"
)

// Classifier maps one inbound message onto a category verdict. The returned
// duration is the wall-clock routing latency.
type Classifier interface {
	Classify(ctx context.Context, message, image string, history []core.Message) (core.Classification, time.Duration)
}
