package extraction

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// GeminiSDK implements Extractor using the Google Gemini Go SDK
type GeminiSDK struct {
	client *genai.Client
	model  *genai.GenerativeModel
	prompt Prompt
}

// NewGeminiSDK creates a new SDK-backed Gemini extractor. Extra client options
// are applied after the API key.
func NewGeminiSDK(ctx context.Context, apiKey, modelName string, prompt Prompt, opts ...option.ClientOption) (*GeminiSDK, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	if modelName == "" {
		modelName = defaultGeminiModel
	}

	client, err := genai.NewClient(ctx, append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	return &GeminiSDK{
		client: client,
		model:  client.GenerativeModel(modelName),
		prompt: prompt,
	}, nil
}

// Extract sends text to Gemini through the SDK
func (g *GeminiSDK) Extract(ctx context.Context, text string) (string, error) {
	resp, err := g.model.GenerateContent(ctx, genai.Text(g.prompt.build(text)))
	if err != nil {
		upErr := &UpstreamError{Provider: "gemini-sdk", Err: fmt.Errorf("generating content: %w", err)}
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) {
			upErr.StatusCode = apiErr.Code
		}
		return "", upErr
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", &UpstreamError{Provider: "gemini-sdk", Err: fmt.Errorf("no response from gemini")}
	}

	var responseText strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			responseText.WriteString(string(t))
		}
	}

	out := strings.TrimSpace(responseText.String())
	if out == "" {
		return "", &UpstreamError{Provider: "gemini-sdk", Err: fmt.Errorf("no text in gemini response")}
	}
	return out, nil
}

// Close closes the Gemini client
func (g *GeminiSDK) Close() error {
	return g.client.Close()
}
