package questions

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eduvoice/eduvoice-backend/internal/http/middleware"
	"github.com/eduvoice/eduvoice-backend/internal/metrics"
	"github.com/eduvoice/eduvoice-backend/pkg/domain"
	"github.com/eduvoice/eduvoice-backend/pkg/qa"
	"github.com/eduvoice/eduvoice-backend/pkg/student"
)

type fakeProfileStore struct {
	byUser map[uuid.UUID]*domain.Student
}

func (f *fakeProfileStore) Create(_ context.Context, s *domain.Student) error {
	f.byUser[s.UserID] = s
	return nil
}

func (f *fakeProfileStore) GetByUserID(_ context.Context, userID uuid.UUID) (*domain.Student, error) {
	s, ok := f.byUser[userID]
	if !ok {
		return nil, domain.ErrStudentNotFound
	}
	return s, nil
}

func (f *fakeProfileStore) GetByID(_ context.Context, id uuid.UUID) (*domain.Student, error) {
	for _, s := range f.byUser {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, domain.ErrStudentNotFound
}

type fakeRecordStore struct {
	records []*domain.Question
}

func (f *fakeRecordStore) Create(_ context.Context, q *domain.Question) error {
	f.records = append(f.records, q)
	return nil
}

func (f *fakeRecordStore) ListRecent(_ context.Context, studentID uuid.UUID, limit int) ([]*domain.Question, error) {
	var out []*domain.Question
	for i := len(f.records) - 1; i >= 0 && len(out) < limit; i-- {
		if f.records[i].StudentID == studentID {
			out = append(out, f.records[i])
		}
	}
	return out, nil
}

func (f *fakeRecordStore) CountForStudent(_ context.Context, studentID uuid.UUID) (int, error) {
	count := 0
	for _, q := range f.records {
		if q.StudentID == studentID {
			count++
		}
	}
	return count, nil
}

type fakeGenerator struct{}

func (fakeGenerator) Ask(_ context.Context, question, _ string) string {
	return "answer to: " + question
}

type passthroughTranslator struct{}

func (passthroughTranslator) Translate(_ context.Context, text, _ string) string { return text }

func newTestHandler(t *testing.T) (*Handler, uuid.UUID) {
	t.Helper()
	logger := slog.New(slog.DiscardHandler)

	profiles := &fakeProfileStore{byUser: make(map[uuid.UUID]*domain.Student)}
	studentService := student.NewService(profiles, logger)
	qaService := qa.NewService(&fakeRecordStore{}, fakeGenerator{}, passthroughTranslator{}, logger, metrics.Nop{})

	userID := uuid.New()
	require.NoError(t, profiles.Create(context.Background(), &domain.Student{
		ID:        uuid.New(),
		UserID:    userID,
		FirstName: "Maya",
		Grade:     "5",
		Language:  "en",
	}))

	return NewHandler(logger, qaService, studentService), userID
}

func authedRequest(method, target string, body []byte, userID uuid.UUID) *http.Request {
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	ctx := context.WithValue(req.Context(), middleware.UserIDKey, userID)
	return req.WithContext(ctx)
}

func TestAsk(t *testing.T) {
	handler, userID := newTestHandler(t)

	rec := httptest.NewRecorder()
	handler.Ask(rec, authedRequest(http.MethodPost, "/v1/questions", []byte(`{"question":"Why is the sky blue?"}`), userID))

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp QuestionResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, "Why is the sky blue?", resp.Question)
	assert.Equal(t, "answer to: Why is the sky blue?", resp.Answer)
	assert.Equal(t, "en", resp.Language)
}

func TestAsk_Validation(t *testing.T) {
	handler, userID := newTestHandler(t)

	tests := []struct {
		name string
		body string
	}{
		{"invalid json", `{invalid}`},
		{"missing question", `{}`},
		{"empty question", `{"question":""}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handler.Ask(rec, authedRequest(http.MethodPost, "/v1/questions", []byte(tt.body), userID))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestAsk_NoProfile(t *testing.T) {
	handler, _ := newTestHandler(t)

	rec := httptest.NewRecorder()
	handler.Ask(rec, authedRequest(http.MethodPost, "/v1/questions", []byte(`{"question":"hi"}`), uuid.New()))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRecent(t *testing.T) {
	handler, userID := newTestHandler(t)

	for i := 1; i <= 15; i++ {
		rec := httptest.NewRecorder()
		body := []byte(fmt.Sprintf(`{"question":"question %d"}`, i))
		handler.Ask(rec, authedRequest(http.MethodPost, "/v1/questions", body, userID))
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	type recentResponse struct {
		Questions []QuestionResponse `json:"questions"`
		Total     int                `json:"total"`
	}

	t.Run("default limit", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.Recent(rec, authedRequest(http.MethodGet, "/v1/questions/recent", nil, userID))
		require.Equal(t, http.StatusOK, rec.Code)

		var resp recentResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		require.Len(t, resp.Questions, qa.DefaultRecentLimit)
		assert.Equal(t, 15, resp.Total)
		assert.Equal(t, "question 15", resp.Questions[0].Question)
		assert.Equal(t, "question 14", resp.Questions[1].Question)
	})

	t.Run("explicit limit", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.Recent(rec, authedRequest(http.MethodGet, "/v1/questions/recent?limit=3", nil, userID))
		require.Equal(t, http.StatusOK, rec.Code)

		var resp recentResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Len(t, resp.Questions, 3)
	})

	t.Run("bad limit", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.Recent(rec, authedRequest(http.MethodGet, "/v1/questions/recent?limit=nope", nil, userID))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("no profile", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.Recent(rec, authedRequest(http.MethodGet, "/v1/questions/recent", nil, uuid.New()))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
