package assessment

import (
	"encoding/json"
	"strings"
)

// ParseOptions normalizes the three option encodings seen in the wild
// (array, JSON-encoded string, comma-separated string) into a plain list.
// Unrecognized payloads degrade to "no options available" rather than an
// error.
func ParseOptions(raw json.RawMessage) []string {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}

	var list []interface{}
	if err := json.Unmarshal(raw, &list); err == nil {
		return optionValues(list)
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	if err := json.Unmarshal([]byte(s), &list); err == nil {
		return optionValues(list)
	}

	parts := strings.Split(s, ",")
	options := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			options = append(options, trimmed)
		}
	}
	return options
}

// optionValues flattens choice entries. Some question banks wrap each choice
// in an object keyed value/text/label/option.
func optionValues(list []interface{}) []string {
	options := make([]string, 0, len(list))
	for _, item := range list {
		switch v := item.(type) {
		case string:
			options = append(options, v)
		case map[string]interface{}:
			for _, key := range []string{"value", "text", "label", "option"} {
				if s, ok := v[key].(string); ok && s != "" {
					options = append(options, s)
					break
				}
			}
		}
	}
	if len(options) == 0 {
		return nil
	}
	return options
}

// ParseQuestion decodes an upstream question payload, tolerating the
// questionType/type key split and malformed option encodings.
func ParseQuestion(data []byte) (*Question, error) {
	var payload questionPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, err
	}
	return payload.toQuestion(), nil
}

func (p *questionPayload) toQuestion() *Question {
	qt := p.QuestionType
	if qt == "" {
		qt = p.Type
	}
	qt = strings.ToLower(strings.TrimSpace(qt))
	if qt == "" {
		qt = string(TypeText)
	}

	options := ParseOptions(p.Options)
	if options == nil {
		options = ParseOptions(p.Choices)
	}

	return &Question{
		ID:              p.ID,
		Text:            p.QuestionText,
		Type:            QuestionType(qt),
		Options:         options,
		Topic:           p.Topic,
		Difficulty:      p.Difficulty,
		SuggestedLength: p.SuggestedLength,
		CorrectAnswer:   p.CorrectAnswer,
	}
}
