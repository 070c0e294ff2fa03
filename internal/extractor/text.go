package extractor

import (
	"encoding/json"
	"strings"
)

// Text decodes a JSON string. A list is flattened into its string elements,
// one per line. Any other value decodes to "" without failing the
// surrounding document.
type Text string

func (t *Text) UnmarshalJSON(b []byte) error {
	*t = ""

	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*t = Text(s)
		return nil
	}

	var list []json.RawMessage
	if err := json.Unmarshal(b, &list); err != nil {
		return nil
	}
	parts := make([]string, 0, len(list))
	for _, raw := range list {
		var part string
		if err := json.Unmarshal(raw, &part); err != nil {
			continue
		}
		if part = strings.TrimSpace(part); part != "" {
			parts = append(parts, part)
		}
	}
	*t = Text(strings.Join(parts, "\n"))
	return nil
}

func (t Text) String() string {
	return string(t)
}
