// Package translate adapts the Google Translate v2 REST API. Translation is
// best effort: every failure degrades to the untranslated input so an answer
// always reaches the student.
package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/text/language"

	"github.com/eduvoice/eduvoice-backend/internal/config"
	"github.com/eduvoice/eduvoice-backend/internal/metrics"
)

const sourceLanguage = "en"

// Translator translates English text into a student's language.
type Translator struct {
	logger     *slog.Logger
	metrics    metrics.Recorder
	apiKey     string
	endpoint   string
	httpClient *http.Client
}

// New creates a Translator. An empty API key is allowed; the adapter comes
// up unavailable and Translate passes text through unchanged.
func New(cfg config.TranslateConfig, logger *slog.Logger, rec metrics.Recorder) *Translator {
	timeout := cfg.RequestTimeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	if rec == nil {
		rec = metrics.Nop{}
	}
	return &Translator{
		logger:     logger,
		metrics:    rec,
		apiKey:     cfg.APIKey,
		endpoint:   cfg.Endpoint,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// IsAvailable reports whether a translation capability is configured.
func (t *Translator) IsAvailable() bool {
	return t.apiKey != ""
}

// Translate renders text into the target language. It never fails: when the
// capability is absent, the target is English or invalid, or the request
// errors, the input comes back unchanged.
func (t *Translator) Translate(ctx context.Context, text, target string) string {
	if strings.TrimSpace(text) == "" {
		return text
	}

	target = normalizeTarget(target)
	if target == "" || target == sourceLanguage {
		return text
	}

	if !t.IsAvailable() {
		t.metrics.RecordTranslation(metrics.OutcomeUnavailable)
		return text
	}

	translated, err := t.request(ctx, text, target)
	if err != nil {
		t.metrics.RecordTranslation(metrics.OutcomeFailure)
		t.logger.Warn("translation failed, returning original text", "error", err, "target", target)
		return text
	}

	t.metrics.RecordTranslation(metrics.OutcomeSuccess)
	return translated
}

type translateRequest struct {
	Q      string `json:"q"`
	Target string `json:"target"`
	Source string `json:"source"`
}

type translateResponse struct {
	Data struct {
		Translations []struct {
			TranslatedText string `json:"translatedText"`
		} `json:"translations"`
	} `json:"data"`
}

func (t *Translator) request(ctx context.Context, text, target string) (string, error) {
	body, err := json.Marshal(translateRequest{Q: text, Target: target, Source: sourceLanguage})
	if err != nil {
		return "", fmt.Errorf("encoding request: %w", err)
	}

	endpoint := t.endpoint + "?key=" + url.QueryEscape(t.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling translate API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("translate API returned status %d", resp.StatusCode)
	}

	var parsed translateResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}
	if len(parsed.Data.Translations) == 0 {
		return "", fmt.Errorf("translate API returned no translations")
	}

	translated := parsed.Data.Translations[0].TranslatedText
	if strings.TrimSpace(translated) == "" {
		return "", fmt.Errorf("translate API returned empty translation")
	}
	return translated, nil
}

// normalizeTarget validates the target tag and reduces it to the base
// language the v2 API expects ("es-MX" becomes "es").
func normalizeTarget(target string) string {
	target = strings.TrimSpace(target)
	if target == "" {
		return ""
	}
	parsed, err := language.Parse(target)
	if err != nil {
		return ""
	}
	base, _ := parsed.Base()
	return base.String()
}
