package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ExtractJSON parses a completion reply that is expected to carry a JSON
// object. Models often wrap the object in a markdown code fence and pad it
// with prose, so the first ```json (or plain ```) block anywhere in the
// reply is extracted; without a fence the whole trimmed reply is parsed.
func ExtractJSON(reply string, out interface{}) error {
	cleaned := strings.TrimSpace(reply)

	if idx := strings.Index(cleaned, "```json"); idx >= 0 {
		cleaned = cleaned[idx+len("```json"):]
	} else if idx := strings.Index(cleaned, "```"); idx >= 0 {
		cleaned = cleaned[idx+len("```"):]
	}
	if end := strings.Index(cleaned, "```"); end >= 0 {
		cleaned = cleaned[:end]
	}
	cleaned = strings.TrimSpace(cleaned)

	if err := json.Unmarshal([]byte(cleaned), out); err != nil {
		return fmt.Errorf("STRUCTURED_PARSE_FAILED: %w", err)
	}
	return nil
}
