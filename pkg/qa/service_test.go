package qa

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eduvoice/eduvoice-backend/internal/metrics"
	"github.com/eduvoice/eduvoice-backend/pkg/domain"
)

type fakeRecordStore struct {
	records []*domain.Question
	failing bool
}

func (f *fakeRecordStore) Create(_ context.Context, q *domain.Question) error {
	if f.failing {
		return fmt.Errorf("connection refused")
	}
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

type fakeGenerator struct {
	lastContext string
}

func (f *fakeGenerator) Ask(_ context.Context, question, studentContext string) string {
	f.lastContext = studentContext
	return "answer to: " + question
}

type fakeTranslator struct {
	calls int
}

func (f *fakeTranslator) Translate(_ context.Context, text, target string) string {
	f.calls++
	return "[" + target + "] " + text
}

func testProfile(language string) *domain.Student {
	return &domain.Student{
		ID:        uuid.New(),
		UserID:    uuid.New(),
		FirstName: "Maya",
		Grade:     "5",
		Language:  language,
	}
}

func newTestService() (*Service, *fakeRecordStore, *fakeGenerator, *fakeTranslator) {
	store := &fakeRecordStore{}
	gen := &fakeGenerator{}
	tr := &fakeTranslator{}
	svc := NewService(store, gen, tr, slog.New(slog.DiscardHandler), metrics.Nop{})
	return svc, store, gen, tr
}

func TestAskRecordsExchange(t *testing.T) {
	svc, store, gen, tr := newTestService()
	profile := testProfile("en")

	record, err := svc.Ask(context.Background(), profile, "  Why is the sky blue?  ")
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, record.ID)
	assert.Equal(t, profile.ID, record.StudentID)
	assert.Equal(t, "Why is the sky blue?", record.Question)
	assert.Equal(t, "answer to: Why is the sky blue?", record.Answer)
	assert.Equal(t, "en", record.Language)
	assert.False(t, record.CreatedAt.IsZero())

	require.Len(t, store.records, 1)
	assert.Equal(t, record, store.records[0])

	assert.Contains(t, gen.lastContext, "Maya")
	assert.Contains(t, gen.lastContext, "grade 5")
	assert.Zero(t, tr.calls, "english answers are not translated")
}

func TestAskTranslatesForNonEnglishStudent(t *testing.T) {
	svc, _, _, tr := newTestService()
	profile := testProfile("es")

	record, err := svc.Ask(context.Background(), profile, "What causes earthquakes?")
	require.NoError(t, err)

	assert.Equal(t, 1, tr.calls)
	assert.Equal(t, "[es] answer to: What causes earthquakes?", record.Answer)
	assert.Equal(t, "es", record.Language)
}

func TestAskEmptyLanguageDefaultsToEnglish(t *testing.T) {
	svc, _, _, tr := newTestService()
	profile := testProfile("")

	record, err := svc.Ask(context.Background(), profile, "What is gravity?")
	require.NoError(t, err)

	assert.Zero(t, tr.calls)
	assert.Equal(t, domain.DefaultLanguage, record.Language)
}

func TestAskRejectsBadQuestions(t *testing.T) {
	svc, store, _, _ := newTestService()
	profile := testProfile("en")

	_, err := svc.Ask(context.Background(), profile, "   ")
	assert.Error(t, err)

	_, err = svc.Ask(context.Background(), profile, strings.Repeat("a", maxQuestionLength+1))
	assert.Error(t, err)

	assert.Empty(t, store.records)
}

func TestAskPropagatesStoreFailure(t *testing.T) {
	svc, store, _, _ := newTestService()
	store.failing = true

	_, err := svc.Ask(context.Background(), testProfile("en"), "Why is the sky blue?")
	assert.Error(t, err)
}

func TestRecentQuestionsNewestFirst(t *testing.T) {
	svc, _, _, _ := newTestService()
	profile := testProfile("en")

	for i := 1; i <= 5; i++ {
		_, err := svc.Ask(context.Background(), profile, fmt.Sprintf("question %d", i))
		require.NoError(t, err)
	}

	recent, err := svc.RecentQuestions(context.Background(), profile.ID, 3)
	require.NoError(t, err)
	require.Len(t, recent, 3)
	assert.Equal(t, "question 5", recent[0].Question)
	assert.Equal(t, "question 4", recent[1].Question)
	assert.Equal(t, "question 3", recent[2].Question)
}

func TestRecentQuestionsLimitHandling(t *testing.T) {
	svc, store, _, _ := newTestService()
	profile := testProfile("en")

	for i := 0; i < MaxRecentLimit+20; i++ {
		_, err := svc.Ask(context.Background(), profile, fmt.Sprintf("question %d", i))
		require.NoError(t, err)
	}
	require.Len(t, store.records, MaxRecentLimit+20)

	recent, err := svc.RecentQuestions(context.Background(), profile.ID, 0)
	require.NoError(t, err)
	assert.Len(t, recent, DefaultRecentLimit)

	recent, err = svc.RecentQuestions(context.Background(), profile.ID, 1000)
	require.NoError(t, err)
	assert.Len(t, recent, MaxRecentLimit)
}

func TestRecentQuestionsScopedToStudent(t *testing.T) {
	svc, _, _, _ := newTestService()
	a := testProfile("en")
	b := testProfile("en")

	_, err := svc.Ask(context.Background(), a, "a's question")
	require.NoError(t, err)
	_, err = svc.Ask(context.Background(), b, "b's question")
	require.NoError(t, err)

	recent, err := svc.RecentQuestions(context.Background(), a.ID, 10)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "a's question", recent[0].Question)
}

func TestCountQuestionsIgnoresListingLimit(t *testing.T) {
	svc, _, _, _ := newTestService()
	profile := testProfile("en")

	for i := 0; i < MaxRecentLimit+5; i++ {
		_, err := svc.Ask(context.Background(), profile, fmt.Sprintf("question %d", i))
		require.NoError(t, err)
	}

	total, err := svc.CountQuestions(context.Background(), profile.ID)
	require.NoError(t, err)
	assert.Equal(t, MaxRecentLimit+5, total)
}
