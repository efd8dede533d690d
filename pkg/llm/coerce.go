package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// ExtractJSON strips markdown code fences and surrounding prose from a model
// response, returning the JSON document inside it. Models regularly wrap JSON
// in ```json fences or lead with a sentence; both are tolerated.
func ExtractJSON(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")

		if end := strings.LastIndex(s, "```"); end >= 0 {
			s = s[:end]
		}

		s = strings.TrimSpace(s)
	}

	start := strings.IndexAny(s, "{[")
	if start > 0 {
		s = s[start:]
	}

	if end := strings.LastIndexAny(s, "}]"); end >= 0 && end < len(s)-1 {
		s = s[:end+1]
	}

	return s
}

// DecodeValidated extracts the JSON payload from raw, validates it against
// the given JSON schema and unmarshals it into out. Any failure is returned
// as an error for the caller to convert into a failure placeholder.
func DecodeValidated(schema map[string]any, raw string, out any) error {
	doc := ExtractJSON(raw)

	result, err := gojsonschema.Validate(
		gojsonschema.NewGoLoader(schema),
		gojsonschema.NewStringLoader(doc),
	)
	if err != nil {
		return fmt.Errorf("output is not valid JSON: %w", err)
	}

	if !result.Valid() {
		violations := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			violations = append(violations, desc.String())
		}

		return fmt.Errorf("output violates schema: %s", strings.Join(violations, "; "))
	}

	err = json.Unmarshal([]byte(doc), out)
	if err != nil {
		return fmt.Errorf("failed to decode output: %w", err)
	}

	return nil
}
