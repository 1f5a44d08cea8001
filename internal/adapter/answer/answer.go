// Package answer generates educational answers through an OpenAI-compatible
// chat completions API, with a deterministic offline fallback. Ask never
// fails and never returns an empty answer.
package answer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/eduvoice/eduvoice-backend/internal/config"
	"github.com/eduvoice/eduvoice-backend/internal/metrics"
)

const systemPrompt = "You are a helpful educational assistant. Provide clear, accurate, and age-appropriate answers to student questions."

// Generator answers student questions.
type Generator struct {
	logger     *slog.Logger
	metrics    metrics.Recorder
	apiKey     string
	baseURL    string
	model      string
	maxTokens  int
	httpClient *http.Client
}

// New creates a Generator. Without an API key every question is answered by
// the offline fallback.
func New(cfg config.AnswerConfig, logger *slog.Logger, rec metrics.Recorder) *Generator {
	timeout := cfg.RequestTimeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	maxTokens := cfg.MaxTokens
	if maxTokens == 0 {
		maxTokens = 1000
	}
	if rec == nil {
		rec = metrics.Nop{}
	}
	return &Generator{
		logger:     logger,
		metrics:    rec,
		apiKey:     cfg.APIKey,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		model:      cfg.Model,
		maxTokens:  maxTokens,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Ask answers a question, optionally shaped by extra student context. The
// remote model is tried first; any failure degrades to a non-empty canned
// answer, so the caller always gets text back.
func (g *Generator) Ask(ctx context.Context, question, studentContext string) string {
	start := time.Now()
	defer func() {
		g.metrics.RecordAnswerLatency(time.Since(start))
	}()

	if g.apiKey != "" {
		answer, err := g.complete(ctx, question, studentContext)
		if err == nil {
			g.metrics.RecordAnswer(metrics.AnswerSourceRemote)
			return answer
		}
		g.logger.Warn("answer generation failed, using fallback", "error", err)
	}

	g.metrics.RecordAnswer(metrics.AnswerSourceFallback)
	return fallbackAnswer(question)
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (g *Generator) complete(ctx context.Context, question, studentContext string) (string, error) {
	system := systemPrompt
	if studentContext != "" {
		system = system + " " + studentContext
	}

	body, err := json.Marshal(chatRequest{
		Model: g.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: question},
		},
		MaxTokens:   g.maxTokens,
		Temperature: 0.7,
	})
	if err != nil {
		return "", fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling completions API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("completions API returned status %d", resp.StatusCode)
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("completions API returned no choices")
	}

	answer := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if answer == "" {
		return "", fmt.Errorf("completions API returned empty answer")
	}
	return answer, nil
}
