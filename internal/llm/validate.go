package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// compiled holds JSON schemas compiled on first use, keyed by Schema.Name.
var compiled sync.Map // map[string]*jsonschema.Schema

// structuredContent turns provider text into Response.Content.
//
// Without a schema the text is returned as a JSON string. With a schema the
// JSON object is extracted (gateway models often wrap it in a fenced block
// or a sentence), truncated output is reported as ErrMaxTokensExceeded and
// the result is validated.
func structuredContent(schema *Schema, text, stopReason string) (json.RawMessage, error) {
	if schema == nil {
		b, err := json.Marshal(text)
		if err != nil {
			return nil, fmt.Errorf("encode text response: %w", err)
		}
		return b, nil
	}

	raw := extractJSON(text)
	if stopReason == "max_tokens" && !json.Valid(raw) {
		return nil, &ErrMaxTokensExceeded{Content: json.RawMessage(text)}
	}
	if err := validateJSON(schema, raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// extractJSON strips a markdown code fence and any prose around the
// outermost JSON object.
func extractJSON(text string) json.RawMessage {
	b := bytes.TrimSpace([]byte(text))

	if bytes.HasPrefix(b, []byte("```")) {
		if nl := bytes.IndexByte(b, '\n'); nl >= 0 {
			b = b[nl+1:]
		}
		b = bytes.TrimSuffix(bytes.TrimSpace(b), []byte("```"))
		b = bytes.TrimSpace(b)
	}

	if len(b) > 0 && b[0] != '{' && b[0] != '[' {
		start := bytes.IndexByte(b, '{')
		end := bytes.LastIndexByte(b, '}')
		if start >= 0 && end > start {
			b = b[start : end+1]
		}
	}
	return json.RawMessage(b)
}

// validateJSON checks raw against schema. Failures are *ErrInvalidResponse.
func validateJSON(schema *Schema, raw json.RawMessage) error {
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return &ErrInvalidResponse{Content: raw, Err: fmt.Errorf("invalid JSON: %w", err)}
	}

	sch, err := compileSchema(schema)
	if err != nil {
		return &ErrInvalidResponse{Content: raw, Err: fmt.Errorf("compile schema %q: %w", schema.Name, err)}
	}

	if err := sch.Validate(parsed); err != nil {
		return &ErrInvalidResponse{Content: raw, Err: fmt.Errorf("%s: %w", schema.Name, err)}
	}
	return nil
}

func compileSchema(schema *Schema) (*jsonschema.Schema, error) {
	if v, ok := compiled.Load(schema.Name); ok {
		return v.(*jsonschema.Schema), nil
	}

	// The compiler wants decoded JSON values ([]any, float64), not the Go
	// literals the definition is written with.
	defBytes, err := json.Marshal(schema.Definition)
	if err != nil {
		return nil, fmt.Errorf("marshal definition: %w", err)
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(defBytes))
	if err != nil {
		return nil, fmt.Errorf("parse definition: %w", err)
	}

	c := jsonschema.NewCompiler()
	url := "mem://" + schema.Name + ".json"
	if err := c.AddResource(url, doc); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}
	sch, err := c.Compile(url)
	if err != nil {
		return nil, err
	}

	actual, _ := compiled.LoadOrStore(schema.Name, sch)
	return actual.(*jsonschema.Schema), nil
}
