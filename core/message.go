package core

// Roles used in conversation messages and backend requests.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// Message is one entry in a conversation history. Content is plain text; an
// optional base64 encoded image rides alongside it and is converted into a
// multimodal content list by the backend adapter when present.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
	Image   string `json:"image,omitempty"` // base64 JPEG payload
}

// UserMessage builds a user-authored text message.
func UserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// AssistantMessage builds an assistant-authored text message.
func AssistantMessage(content string) Message {
	return Message{Role: RoleAssistant, Content: content}
}

// Category is the closed set of intent classes the router can produce.
type Category string

const (
	CategoryOrderStatus    Category = "ORDER_STATUS"
	CategoryReturns        Category = "RETURNS"
	CategoryProductAdvisor Category = "PRODUCT_ADVISOR"
	CategoryEscalate       Category = "ESCALATE"
	CategoryClarify        Category = "CLARIFY"
)

// Valid reports whether c is one of the five known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryOrderStatus, CategoryReturns, CategoryProductAdvisor,
		CategoryEscalate, CategoryClarify:
		return true
	}
	return false
}

// ConfidenceFloor is the minimum classifier confidence below which every
// result must be downgraded to CLARIFY, regardless of how it was produced.
const ConfidenceFloor = 0.65

// Classification is the router verdict for one inbound message.
type Classification struct {
	Category   Category `json:"category"`
	Confidence float64  `json:"confidence"`
	Language   string   `json:"language"`
	HasImage   bool     `json:"has_image"`
}

// Clarified returns the classification downgraded to CLARIFY when its
// confidence is below ConfidenceFloor; otherwise it is returned unchanged.
func (c Classification) Clarified() Classification {
	if c.Confidence < ConfidenceFloor {
		c.Category = CategoryClarify
	}
	return c
}

// DefaultClarify is the degraded classification used when the router output
// cannot be parsed. Classification never fails hard.
func DefaultClarify(hasImage bool) Classification {
	return Classification{Category: CategoryClarify, Confidence: 0.0, Language: "en", HasImage: hasImage}
}
