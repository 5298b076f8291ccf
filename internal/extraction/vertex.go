package extraction

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// Vertex implements Extractor with the GenAI SDK on the Vertex AI backend.
// Credentials come from Application Default Credentials.
type Vertex struct {
	client *genai.Client
	model  string
	prompt Prompt
}

// NewVertex creates a Vertex AI extractor for the given project and location
func NewVertex(ctx context.Context, project, location, model string, prompt Prompt) (*Vertex, error) {
	if project == "" {
		return nil, fmt.Errorf("vertex project is required")
	}
	if location == "" {
		location = "us-central1"
	}
	if model == "" {
		model = "gemini-2.5-flash"
	}

	return newVertex(ctx, &genai.ClientConfig{
		Project:  project,
		Location: location,
		Backend:  genai.BackendVertexAI,
	}, model, prompt)
}

func newVertex(ctx context.Context, cc *genai.ClientConfig, model string, prompt Prompt) (*Vertex, error) {
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("creating genai client: %w", err)
	}

	return &Vertex{client: client, model: model, prompt: prompt}, nil
}

// Extract sends text to the configured Vertex AI model
func (v *Vertex) Extract(ctx context.Context, text string) (string, error) {
	resp, err := v.client.Models.GenerateContent(ctx, v.model, genai.Text(v.prompt.build(text)), nil)
	if err != nil {
		upErr := &UpstreamError{Provider: "vertex", Err: fmt.Errorf("generate content: %w", err)}
		var apiErr genai.APIError
		if errors.As(err, &apiErr) {
			upErr.StatusCode = apiErr.Code
		}
		return "", upErr
	}

	out := strings.TrimSpace(resp.Text())
	if out == "" {
		return "", &UpstreamError{Provider: "vertex", Err: fmt.Errorf("empty response from model")}
	}
	return out, nil
}

// Close is a no-op for the genai client
func (v *Vertex) Close() error {
	return nil
}
