package orchestrator

import (
	"strings"

	"github.com/google/uuid"
)

// NewCaseRef generates an escalation case reference: ESC- followed by six
// uppercase hex characters.
func NewCaseRef() string {
	hex := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "ESC-" + strings.ToUpper(hex[:6])
}
