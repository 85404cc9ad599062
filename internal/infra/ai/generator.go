package ai

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

// Generator wraps a generative-content HTTP API used for authoring
// quiz questions. Responses are expected to carry a JSON array of
// drafts in the first candidate's text part.
type Generator struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	model      string
}

type Config struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}

type QuestionDraft struct {
	Prompt  string   `json:"prompt"`
	Options []string `json:"options"`
	Answer  string   `json:"answer"`
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

func NewGenerator(cfg Config, httpClient *http.Client) (*Generator, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, fmt.Errorf("ai base url is required")
	}
	if strings.TrimSpace(cfg.Model) == "" {
		return nil, fmt.Errorf("ai model is required")
	}
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Generator{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
	}, nil
}

func (g *Generator) GenerateQuestions(ctx context.Context, courseTitle, languageName string, count int) ([]QuestionDraft, error) {
	if count <= 0 {
		count = 5
	}

	prompt := fmt.Sprintf(
		"Produce %d multiple-choice quiz questions for the course %q (language: %s). "+
			"Respond with only a JSON array where each element has fields "+
			"\"prompt\", \"options\" (4 strings) and \"answer\" (one of the options).",
		count, courseTitle, languageName,
	)

	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal generate request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s",
		g.baseURL, url.PathEscape(g.model), url.QueryEscape(g.apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build generate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call content api: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("content api status %d", resp.StatusCode)
	}

	var decoded generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode content api response: %w", err)
	}
	if len(decoded.Candidates) == 0 || len(decoded.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("content api returned no candidates")
	}

	return ParseDrafts(decoded.Candidates[0].Content.Parts[0].Text)
}

// ParseDrafts extracts question drafts from model output. The model
// sometimes wraps the JSON array in a markdown fence, so anything
// outside the outermost brackets is discarded.
func ParseDrafts(raw string) ([]QuestionDraft, error) {
	start := strings.Index(raw, "[")
	end := strings.LastIndex(raw, "]")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON array in model output")
	}

	var drafts []QuestionDraft
	if err := json.Unmarshal([]byte(raw[start:end+1]), &drafts); err != nil {
		return nil, fmt.Errorf("unmarshal question drafts: %w", err)
	}

	valid := drafts[:0]
	for _, d := range drafts {
		if strings.TrimSpace(d.Prompt) == "" || len(d.Options) == 0 || strings.TrimSpace(d.Answer) == "" {
			continue
		}
		valid = append(valid, d)
	}
	if len(valid) == 0 {
		return nil, fmt.Errorf("model output contained no usable drafts")
	}

	return valid, nil
}
