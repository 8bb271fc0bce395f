package advice

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/sprite-ai/veloratio/internal/model"
)

var (
	// ErrEmptyReply is returned when the service answers with no text.
	ErrEmptyReply = errors.New("advice: empty reply")
	// ErrInvalidReply is returned for replies that are not the expected JSON shape.
	ErrInvalidReply = errors.New("advice: invalid reply")
)

const replySchemaJSON = `{
  "type": "object",
  "required": ["advice", "category"],
  "properties": {
    "advice": {"type": "string", "minLength": 1},
    "category": {
      "type": "string",
      "enum": ["climbing", "sprinting", "cruising", "cross-chain", "neutral"]
    }
  }
}`

var replySchema = mustCompileSchema(replySchemaJSON, "advice.schema.json")

func mustCompileSchema(raw string, name string) *jsonschema.Schema {
	var schemaDoc any
	if err := json.Unmarshal([]byte(raw), &schemaDoc); err != nil {
		panic(fmt.Sprintf("failed to parse embedded %s: %v", name, err))
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(name, schemaDoc); err != nil {
		panic(fmt.Sprintf("failed to add %s resource: %v", name, err))
	}

	sch, err := compiler.Compile(name)
	if err != nil {
		panic(fmt.Sprintf("failed to compile %s: %v", name, err))
	}
	return sch
}

type reply struct {
	Advice   string `json:"advice"`
	Category string `json:"category"`
}

// Parse validates a raw reply and maps it into an AdviceResult. Markdown code
// fences around the JSON are tolerated.
func Parse(raw json.RawMessage) (model.AdviceResult, error) {
	text := stripFences(strings.TrimSpace(string(raw)))
	if text == "" {
		return model.AdviceResult{}, ErrEmptyReply
	}

	var doc any
	if err := json.Unmarshal([]byte(text), &doc); err != nil {
		return model.AdviceResult{}, fmt.Errorf("%w: %v", ErrInvalidReply, err)
	}
	if err := replySchema.Validate(doc); err != nil {
		return model.AdviceResult{}, fmt.Errorf("%w: %v", ErrInvalidReply, err)
	}

	var r reply
	if err := json.Unmarshal([]byte(text), &r); err != nil {
		return model.AdviceResult{}, fmt.Errorf("%w: %v", ErrInvalidReply, err)
	}
	category, err := model.ParseAdviceCategory(r.Category)
	if err != nil {
		return model.AdviceResult{}, fmt.Errorf("%w: %v", ErrInvalidReply, err)
	}
	advice := strings.TrimSpace(r.Advice)
	if advice == "" {
		return model.AdviceResult{}, fmt.Errorf("%w: blank advice", ErrInvalidReply)
	}
	return model.AdviceResult{Advice: advice, Category: category}, nil
}

func stripFences(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimPrefix(s, "json")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
