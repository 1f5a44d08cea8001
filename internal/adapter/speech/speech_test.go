package speech

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"cloud.google.com/go/speech/apiv1/speechpb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eduvoice/eduvoice-backend/internal/config"
	"github.com/eduvoice/eduvoice-backend/internal/metrics"
	"github.com/eduvoice/eduvoice-backend/pkg/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestTranscribeUnavailableWithoutClient(t *testing.T) {
	r := New(context.Background(), config.SpeechConfig{Enabled: false}, testLogger(), metrics.Nop{})

	assert.False(t, r.IsAvailable())

	_, err := r.Transcribe(context.Background(), []byte("audio"), TranscribeOptions{})
	require.ErrorIs(t, err, domain.ErrSpeechUnavailable)
}

func TestBeginRejectsOverlap(t *testing.T) {
	r := &Recognizer{timeout: time.Second}

	ctx, err := r.begin(context.Background())
	require.NoError(t, err)
	require.NotNil(t, ctx)

	_, err = r.begin(context.Background())
	assert.ErrorIs(t, err, domain.ErrRecognitionInProgress)

	r.end()

	_, err = r.begin(context.Background())
	assert.NoError(t, err)
	r.end()
}

func TestStopCancelsActiveRecognition(t *testing.T) {
	r := &Recognizer{timeout: time.Minute}

	ctx, err := r.begin(context.Background())
	require.NoError(t, err)

	r.Stop()

	select {
	case <-ctx.Done():
		assert.ErrorIs(t, ctx.Err(), context.Canceled)
	default:
		t.Fatal("context not cancelled after Stop")
	}
	r.end()

	// Stop with nothing active is a no-op.
	r.Stop()
}

func TestNormalizeLanguage(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "en-US"},
		{"  ", "en-US"},
		{"en-US", "en-US"},
		{"es", "es"},
		{"hi-IN", "hi-IN"},
		{"not a tag!!", "en-US"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, normalizeLanguage(tt.in), "input %q", tt.in)
	}
}

func TestInferEncoding(t *testing.T) {
	tests := []struct {
		mime string
		want speechpb.RecognitionConfig_AudioEncoding
	}{
		{"audio/wav", speechpb.RecognitionConfig_LINEAR16},
		{"audio/x-wav", speechpb.RecognitionConfig_LINEAR16},
		{"audio/flac", speechpb.RecognitionConfig_FLAC},
		{"audio/mpeg", speechpb.RecognitionConfig_MP3},
		{"audio/webm;codecs=opus", speechpb.RecognitionConfig_WEBM_OPUS},
		{"audio/ogg", speechpb.RecognitionConfig_WEBM_OPUS},
		{"", speechpb.RecognitionConfig_ENCODING_UNSPECIFIED},
		{"application/octet-stream", speechpb.RecognitionConfig_ENCODING_UNSPECIFIED},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, inferEncoding(tt.mime), "mime %q", tt.mime)
	}
}

func TestJoinTranscripts(t *testing.T) {
	resp := &speechpb.RecognizeResponse{
		Results: []*speechpb.SpeechRecognitionResult{
			{Alternatives: []*speechpb.SpeechRecognitionAlternative{{Transcript: "why is the sky "}}},
			{Alternatives: []*speechpb.SpeechRecognitionAlternative{}},
			{Alternatives: []*speechpb.SpeechRecognitionAlternative{{Transcript: "blue"}}},
		},
	}
	assert.Equal(t, "why is the sky blue", joinTranscripts(resp))
	assert.Equal(t, "", joinTranscripts(nil))
	assert.Equal(t, "", joinTranscripts(&speechpb.RecognizeResponse{}))
}

func TestJoinTranscriptsWhitespaceOnly(t *testing.T) {
	resp := &speechpb.RecognizeResponse{
		Results: []*speechpb.SpeechRecognitionResult{
			{Alternatives: []*speechpb.SpeechRecognitionAlternative{{Transcript: "   "}}},
		},
	}
	require.Equal(t, "", joinTranscripts(resp))
}
