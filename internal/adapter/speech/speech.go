// Package speech wraps Google Cloud Speech-to-Text as a one-shot
// transcription adapter. One recognition may be in flight per Recognizer;
// overlapping starts are rejected, matching the one-microphone reality of
// the client device.
package speech

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	speech "cloud.google.com/go/speech/apiv1"
	"cloud.google.com/go/speech/apiv1/speechpb"
	"golang.org/x/text/language"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/eduvoice/eduvoice-backend/internal/config"
	"github.com/eduvoice/eduvoice-backend/internal/metrics"
	"github.com/eduvoice/eduvoice-backend/pkg/domain"
)

const defaultLanguage = "en-US"

// Recognizer performs one-shot speech recognition.
type Recognizer struct {
	logger  *slog.Logger
	client  *speech.Client
	metrics metrics.Recorder
	timeout time.Duration

	maxRetries int

	mu     sync.Mutex
	busy   bool
	cancel context.CancelFunc
}

// TranscribeOptions configures a single recognition.
type TranscribeOptions struct {
	// Language is a BCP-47 tag ("en-US", "es", ...). Invalid or empty tags
	// fall back to en-US.
	Language string
	// MIMEType of the uploaded audio; used to infer the wire encoding.
	MIMEType string
	// SampleRateHertz may be zero, letting the service read it from the
	// audio header where the format carries one.
	SampleRateHertz int
}

// New creates a Recognizer. A missing credential is not an error: the
// adapter comes up unavailable and Transcribe reports ErrSpeechUnavailable,
// mirroring hosts without a recognition capability.
func New(ctx context.Context, cfg config.SpeechConfig, logger *slog.Logger, rec metrics.Recorder) *Recognizer {
	r := &Recognizer{
		logger:     logger,
		metrics:    rec,
		timeout:    cfg.RequestTimeout,
		maxRetries: 3,
	}
	if r.timeout == 0 {
		r.timeout = 60 * time.Second
	}
	if r.metrics == nil {
		r.metrics = metrics.Nop{}
	}

	if !cfg.Enabled {
		logger.Info("speech recognition disabled by configuration")
		return r
	}

	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	client, err := speech.NewClient(ctx, opts...)
	if err != nil {
		logger.Warn("speech client unavailable", "error", err)
		return r
	}
	r.client = client
	return r
}

// IsAvailable reports whether a recognition capability is configured.
func (r *Recognizer) IsAvailable() bool {
	return r.client != nil
}

// Transcribe runs a single recognition over the audio clip and returns the
// transcript. Fails with ErrSpeechUnavailable when no capability is present,
// ErrRecognitionInProgress when a recognition is already active, and
// ErrRecognitionFailed (wrapping the platform reason) on recognition errors.
func (r *Recognizer) Transcribe(ctx context.Context, audio []byte, opts TranscribeOptions) (string, error) {
	if r.client == nil {
		r.metrics.RecordTranscription(metrics.OutcomeUnavailable)
		return "", domain.ErrSpeechUnavailable
	}

	ctx, err := r.begin(ctx)
	if err != nil {
		return "", err
	}
	defer r.end()

	req := &speechpb.RecognizeRequest{
		Config: &speechpb.RecognitionConfig{
			LanguageCode:               normalizeLanguage(opts.Language),
			Encoding:                   inferEncoding(opts.MIMEType),
			SampleRateHertz:            int32(opts.SampleRateHertz),
			EnableAutomaticPunctuation: true,
		},
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Content{Content: audio},
		},
	}

	resp, err := r.recognizeWithRetry(ctx, req)
	if err != nil {
		r.metrics.RecordTranscription(metrics.OutcomeFailure)
		r.logger.Error("recognition failed", "error", err, "language", req.Config.LanguageCode)
		return "", fmt.Errorf("%w: %v", domain.ErrRecognitionFailed, err)
	}

	transcript := joinTranscripts(resp)
	if transcript == "" {
		r.metrics.RecordTranscription(metrics.OutcomeFailure)
		return "", domain.ErrEmptyTranscript
	}

	r.metrics.RecordTranscription(metrics.OutcomeSuccess)
	return transcript, nil
}

// Stop requests early termination of an active recognition. Idempotent when
// none is active.
func (r *Recognizer) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancel != nil {
		r.cancel()
	}
}

// Close releases the underlying client.
func (r *Recognizer) Close() error {
	if r.client == nil {
		return nil
	}
	return r.client.Close()
}

// begin claims the single recognition slot and derives the bounded context.
func (r *Recognizer) begin(ctx context.Context) (context.Context, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.busy {
		return nil, domain.ErrRecognitionInProgress
	}
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	r.busy = true
	r.cancel = cancel
	return ctx, nil
}

func (r *Recognizer) end() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	r.busy = false
}

func (r *Recognizer) recognizeWithRetry(ctx context.Context, req *speechpb.RecognizeRequest) (*speechpb.RecognizeResponse, error) {
	backoff := 500 * time.Millisecond
	var last error
	for attempt := 0; attempt <= r.maxRetries; attempt++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		resp, err := r.client.Recognize(ctx, req)
		if err == nil {
			return resp, nil
		}
		last = err

		code := status.Code(err)
		if code != codes.Unavailable && code != codes.ResourceExhausted {
			return nil, err
		}
		if attempt == r.maxRetries {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}
	return nil, last
}

func joinTranscripts(resp *speechpb.RecognizeResponse) string {
	if resp == nil {
		return ""
	}
	var b strings.Builder
	for _, result := range resp.Results {
		if len(result.Alternatives) == 0 {
			continue
		}
		text := strings.TrimSpace(result.Alternatives[0].Transcript)
		if text == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteString(" ")
		}
		b.WriteString(text)
	}
	return b.String()
}

// normalizeLanguage validates a BCP-47 tag, falling back to en-US.
func normalizeLanguage(tag string) string {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return defaultLanguage
	}
	parsed, err := language.Parse(tag)
	if err != nil {
		return defaultLanguage
	}
	return parsed.String()
}

func inferEncoding(mimeType string) speechpb.RecognitionConfig_AudioEncoding {
	m := strings.ToLower(strings.TrimSpace(mimeType))
	switch {
	case strings.Contains(m, "wav"), strings.Contains(m, "x-wav"):
		return speechpb.RecognitionConfig_LINEAR16
	case strings.Contains(m, "flac"):
		return speechpb.RecognitionConfig_FLAC
	case strings.Contains(m, "mp3"), strings.Contains(m, "mpeg"):
		return speechpb.RecognitionConfig_MP3
	case strings.Contains(m, "ogg"), strings.Contains(m, "opus"), strings.Contains(m, "webm"):
		return speechpb.RecognitionConfig_WEBM_OPUS
	default:
		return speechpb.RecognitionConfig_ENCODING_UNSPECIFIED
	}
}
