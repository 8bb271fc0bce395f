package advice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	genai "google.golang.org/genai"

	"github.com/sprite-ai/veloratio/internal/model"
)

// DefaultModel is the Gemini model used when none is configured.
const DefaultModel = "gemini-2.5-flash"

// ErrMissingAPIKey is returned when no Gemini API key is configured.
var ErrMissingAPIKey = errors.New("advice: missing Gemini API key")

// GeminiClient is a thin wrapper around the official genai client. Build one
// at startup and share it.
type GeminiClient struct {
	cli   *genai.Client
	model string
}

func NewGeminiClient(ctx context.Context, apiKey, model string) (*GeminiClient, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrMissingAPIKey
	}
	if model == "" {
		model = DefaultModel
	}
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}
	return &GeminiClient{cli: cli, model: model}, nil
}

func (g *GeminiClient) Name() string { return "Gemini:" + g.model }
func (g *GeminiClient) Close() error { return nil }

// GenerateJSON sends the prompt, followed by input as JSON when non-nil, and
// requests an application/json reply constrained to the advice shape.
func (g *GeminiClient) GenerateJSON(ctx context.Context, prompt string, input any) (json.RawMessage, error) {
	full, err := withInput(prompt, input)
	if err != nil {
		return nil, err
	}
	slog.Debug("gemini request", "model", g.model, "bytes", len(full))

	resp, err := g.cli.Models.GenerateContent(ctx, g.model,
		[]*genai.Content{{Parts: []*genai.Part{{Text: full}}}},
		&genai.GenerateContentConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   replyGenaiSchema(),
		},
	)
	if err != nil {
		return nil, fmt.Errorf("gemini generate: %w", err)
	}
	return replyText(resp)
}

// withInput appends input to prompt as an indented JSON block.
func withInput(prompt string, input any) (string, error) {
	if input == nil {
		return prompt, nil
	}
	in, err := json.MarshalIndent(input, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding advice input: %w", err)
	}
	return prompt + "\n\n[INPUT JSON]\n" + string(in), nil
}

// replyText joins the text parts of the first candidate.
func replyText(resp *genai.GenerateContentResponse) (json.RawMessage, error) {
	if resp == nil {
		return nil, ErrEmptyReply
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return nil, ErrEmptyReply
	}
	return json.RawMessage(text), nil
}

func replyGenaiSchema() *genai.Schema {
	enum := make([]string, 0, len(model.AllCategories))
	for _, c := range model.AllCategories {
		enum = append(enum, c.String())
	}
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"advice":   {Type: genai.TypeString},
			"category": {Type: genai.TypeString, Enum: enum},
		},
		Required: []string{"advice", "category"},
	}
}
