package extraction

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultGeminiBaseURL = "https://generativelanguage.googleapis.com"
	defaultGeminiModel   = "gemini-flash-latest"
)

// Gemini implements Extractor against the generateContent REST endpoint.
type Gemini struct {
	baseURL string
	apiKey  string
	model   string
	prompt  Prompt
	client  *http.Client
}

// NewGemini creates a new Gemini extractor. An empty baseURL or model selects
// the public endpoint and the default flash model.
func NewGemini(apiKey, baseURL, model string, prompt Prompt) (*Gemini, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	if baseURL == "" {
		baseURL = defaultGeminiBaseURL
	}
	if model == "" {
		model = defaultGeminiModel
	}

	return &Gemini{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
		prompt:  prompt,
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
	}, nil
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

type geminiErrorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// Extract sends text to Gemini and returns the text of the first candidate.
func (g *Gemini) Extract(ctx context.Context, text string) (string, error) {
	reqBody := geminiRequest{
		Contents: []geminiContent{
			{Parts: []geminiPart{{Text: g.prompt.build(text)}}},
		},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s",
		g.baseURL, url.PathEscape(g.model), url.QueryEscape(g.apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", &UpstreamError{Provider: "gemini", Err: redactKey(err, g.apiKey)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", upstreamErr("gemini", resp.StatusCode, "reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr geminiErrorResponse
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error.Message != "" {
			return "", upstreamErr("gemini", resp.StatusCode, "%s", apiErr.Error.Message)
		}
		return "", upstreamErr("gemini", resp.StatusCode, "AI request failed: %s", strings.TrimSpace(string(body)))
	}

	var genResp geminiResponse
	if err := json.Unmarshal(body, &genResp); err != nil {
		return "", upstreamErr("gemini", resp.StatusCode, "decoding response: %w", err)
	}

	if len(genResp.Candidates) == 0 || len(genResp.Candidates[0].Content.Parts) == 0 {
		return "", upstreamErr("gemini", resp.StatusCode, "no content in response")
	}

	var responseText strings.Builder
	for _, part := range genResp.Candidates[0].Content.Parts {
		responseText.WriteString(part.Text)
	}

	out := strings.TrimSpace(responseText.String())
	if out == "" {
		return "", upstreamErr("gemini", resp.StatusCode, "empty text in response")
	}
	return out, nil
}

// Close is a no-op for the HTTP client
func (g *Gemini) Close() error {
	return nil
}

// redactedError hides the API key, which *url.Error embeds in its message.
type redactedError struct {
	msg string
	err error
}

func (e *redactedError) Error() string { return e.msg }
func (e *redactedError) Unwrap() error { return e.err }

func redactKey(err error, key string) error {
	if key == "" || !strings.Contains(err.Error(), key) {
		return err
	}
	return &redactedError{msg: strings.ReplaceAll(err.Error(), key, "REDACTED"), err: err}
}
