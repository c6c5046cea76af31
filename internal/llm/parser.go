package llm

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/rotisserie/eris"

	"menuchat/internal/core"
)

var (
	fencePattern   = regexp.MustCompile("(?s)```[a-zA-Z]*\\s*(.*?)```")
	jsonTagPattern = regexp.MustCompile(`(?s)<json>(.*?)</json>`)
)

// StripFences removes markdown code fences, <json> tags and any prose
// around the JSON value in a model reply.
func StripFences(text string) string {
	text = strings.TrimSpace(text)

	if m := jsonTagPattern.FindStringSubmatch(text); m != nil {
		text = strings.TrimSpace(m[1])
	}
	if m := fencePattern.FindStringSubmatch(text); m != nil {
		text = strings.TrimSpace(m[1])
	}

	return extractJSON(text)
}

// extractJSON cuts text down to the outermost object or array.
func extractJSON(text string) string {
	start := strings.IndexAny(text, "{[")
	if start == -1 {
		return text
	}
	closing := "}"
	if text[start] == '[' {
		closing = "]"
	}
	end := strings.LastIndex(text, closing)
	if end <= start {
		return text
	}
	return text[start : end+1]
}

// Decode strips wrapping from a model reply and unmarshals it into v.
// Output that still isn't valid JSON is an upstream failure, never an empty value.
func Decode(text string, v any) error {
	cleaned := StripFences(text)
	if cleaned == "" {
		return eris.Wrap(core.ErrUpstream, "model returned an empty reply")
	}
	if err := json.Unmarshal([]byte(cleaned), v); err != nil {
		return eris.Wrapf(core.ErrUpstream, "model returned invalid JSON: %v", err)
	}
	return nil
}
