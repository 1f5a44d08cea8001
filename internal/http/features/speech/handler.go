package speech

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	adapter "github.com/eduvoice/eduvoice-backend/internal/adapter/speech"
	"github.com/eduvoice/eduvoice-backend/internal/http/middleware"
	"github.com/eduvoice/eduvoice-backend/internal/httputil"
	"github.com/eduvoice/eduvoice-backend/pkg/domain"
)

// Recognizer is the transcription surface the handler needs.
type Recognizer interface {
	IsAvailable() bool
	Transcribe(ctx context.Context, audio []byte, opts adapter.TranscribeOptions) (string, error)
	Stop()
}

// Handler handles speech endpoints.
type Handler struct {
	logger     *slog.Logger
	recognizer Recognizer
}

// NewHandler creates a new speech handler.
func NewHandler(logger *slog.Logger, recognizer Recognizer) *Handler {
	return &Handler{logger: logger, recognizer: recognizer}
}

// AvailabilityResponse reports whether transcription is available.
type AvailabilityResponse struct {
	Available bool `json:"available"`
}

// TranscriptResponse carries a completed transcription.
type TranscriptResponse struct {
	Transcript string `json:"transcript"`
	Language   string `json:"language"`
}

// Availability reports whether a recognition capability is configured.
// GET /v1/speech/availability
func (h *Handler) Availability(w http.ResponseWriter, r *http.Request) {
	httputil.JSON(w, http.StatusOK, AvailabilityResponse{Available: h.recognizer.IsAvailable()})
}

// Transcribe runs a one-shot transcription over an uploaded audio clip.
// POST /v1/speech/transcriptions
//
// Accepts multipart form data (file field "audio", optional "language"), or
// a raw audio body with an audio Content-Type.
func (h *Handler) Transcribe(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.GetUserID(r.Context()); !ok {
		httputil.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	audio, opts, err := readAudio(r)
	if err != nil {
		if middleware.HandleMaxBytesError(w, err) {
			return
		}
		httputil.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(audio) == 0 {
		httputil.Error(w, http.StatusBadRequest, "audio data is required")
		return
	}

	transcript, err := h.recognizer.Transcribe(r.Context(), audio, opts)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrSpeechUnavailable):
			httputil.Error(w, http.StatusServiceUnavailable, "speech recognition is not available")
		case errors.Is(err, domain.ErrRecognitionInProgress):
			httputil.Error(w, http.StatusConflict, "a transcription is already in progress")
		case errors.Is(err, domain.ErrEmptyTranscript):
			httputil.Error(w, http.StatusUnprocessableEntity, "no speech detected in audio")
		default:
			h.logger.Error("transcription failed", "error", err)
			httputil.Error(w, http.StatusBadGateway, "transcription failed")
		}
		return
	}

	httputil.JSON(w, http.StatusOK, TranscriptResponse{
		Transcript: transcript,
		Language:   opts.Language,
	})
}

// Cancel aborts an active transcription, if any.
// DELETE /v1/speech/transcriptions
func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.GetUserID(r.Context()); !ok {
		httputil.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	h.recognizer.Stop()
	w.WriteHeader(http.StatusNoContent)
}

func readAudio(r *http.Request) ([]byte, adapter.TranscribeOptions, error) {
	opts := adapter.TranscribeOptions{Language: r.URL.Query().Get("language")}

	contentType := r.Header.Get("Content-Type")
	if isRawAudio(contentType) {
		opts.MIMEType = contentType
		audio, err := io.ReadAll(r.Body)
		if err != nil {
			return nil, opts, err
		}
		return audio, opts, nil
	}

	file, header, err := r.FormFile("audio")
	if err != nil {
		return nil, opts, errors.New("audio file is required")
	}
	defer file.Close()

	opts.MIMEType = header.Header.Get("Content-Type")
	if lang := r.FormValue("language"); lang != "" {
		opts.Language = lang
	}

	audio, err := io.ReadAll(file)
	if err != nil {
		return nil, opts, err
	}
	return audio, opts, nil
}

func isRawAudio(contentType string) bool {
	return strings.HasPrefix(contentType, "audio/") || contentType == "application/octet-stream"
}
