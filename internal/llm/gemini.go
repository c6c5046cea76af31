package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

const geminiBaseURL = "https://generativelanguage.googleapis.com/v1beta/models"

type GeminiClient struct {
	apiKey  string
	model   string
	baseURL string
	http    *http.Client
	log     *zap.Logger
}

func NewGeminiClient(apiKey, model string, log *zap.Logger) *GeminiClient {
	return &GeminiClient{
		apiKey:  apiKey,
		model:   model,
		baseURL: geminiBaseURL,
		http:    &http.Client{Timeout: 60 * time.Second},
		log:     log,
	}
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inline_data,omitempty"`
}

type geminiInlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

// Complete calls generateContent. Images must be data: URLs; Gemini does
// not fetch remote images.
func (g *GeminiClient) Complete(ctx context.Context, req Request) (string, error) {
	if g.apiKey == "" {
		return "", eris.New("missing GEMINI_API_KEY")
	}
	if g.model == "" {
		return "", eris.New("missing GEMINI_MODEL")
	}

	contents, err := toGeminiContents(req)
	if err != nil {
		return "", err
	}

	payload := map[string]any{
		"contents": contents,
		"generationConfig": map[string]any{
			"temperature":     req.Temperature,
			"maxOutputTokens": maxTokensOr(req.MaxTokens, 2048),
		},
	}
	if req.System != "" {
		payload["systemInstruction"] = geminiContent{Parts: []geminiPart{{Text: req.System}}}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", eris.Wrap(err, "encode gemini request")
	}

	url := fmt.Sprintf("%s/%s:generateContent", g.baseURL, g.model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return "", eris.Wrap(err, "build gemini request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", g.apiKey)

	resp, err := g.http.Do(httpReq)
	if err != nil {
		return "", eris.Wrap(err, "gemini request")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", eris.Wrap(err, "read gemini response")
	}

	if resp.StatusCode != http.StatusOK {
		g.log.Warn("gemini api error", zap.Int("status", resp.StatusCode), zap.ByteString("body", raw))
		return "", eris.Errorf("gemini api error: status %d", resp.StatusCode)
	}

	var result struct {
		Candidates []struct {
			Content geminiContent `json:"content"`
		} `json:"candidates"`
	}
	if err := json.Unmarshal(raw, &result); err != nil {
		return "", eris.Wrap(err, "decode gemini response")
	}

	if len(result.Candidates) == 0 ||
		len(result.Candidates[0].Content.Parts) == 0 {
		return "", eris.New("empty gemini response")
	}

	var out strings.Builder
	for _, p := range result.Candidates[0].Content.Parts {
		out.WriteString(p.Text)
	}
	return out.String(), nil
}

func toGeminiContents(req Request) ([]geminiContent, error) {
	var inline *geminiInlineData
	if req.ImageURL != "" {
		d, err := parseDataURL(req.ImageURL)
		if err != nil {
			return nil, err
		}
		inline = d
	}

	lastUser := -1
	for i, m := range req.Messages {
		if m.Role == RoleUser {
			lastUser = i
		}
	}

	contents := make([]geminiContent, 0, len(req.Messages))
	for i, m := range req.Messages {
		role := "user"
		if m.Role == RoleAssistant {
			role = "model"
		}
		parts := []geminiPart{{Text: m.Content}}
		if i == lastUser && inline != nil {
			parts = append(parts, geminiPart{InlineData: inline})
		}
		contents = append(contents, geminiContent{Role: role, Parts: parts})
	}
	return contents, nil
}

// parseDataURL splits "data:image/png;base64,AAAA" into mime type and payload.
func parseDataURL(u string) (*geminiInlineData, error) {
	rest, ok := strings.CutPrefix(u, "data:")
	if !ok {
		return nil, eris.New("gemini only accepts inline (data:) images")
	}
	meta, data, ok := strings.Cut(rest, ",")
	if !ok || !strings.HasSuffix(meta, ";base64") {
		return nil, eris.New("malformed data url")
	}
	return &geminiInlineData{MimeType: strings.TrimSuffix(meta, ";base64"), Data: data}, nil
}

func maxTokensOr(n, def int) int {
	if n > 0 {
		return n
	}
	return def
}
