package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/inkwell-edu/inkwell-backend/internal/model"
)

var testClock = time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

// deadRedis returns a client pointing nowhere. The submission workflow
// treats Redis as best-effort on the paths under test, so calls simply
// fail without affecting the outcome.
func deadRedis() *redis.Client {
	return redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
}

func openExam(creatorID int) *model.Exam {
	return &model.Exam{
		ID:               uuid.New(),
		Title:            "Midterm Essay",
		Prompt:           "Discuss.",
		OpenAt:           testClock.Add(-time.Hour),
		CloseAt:          testClock.Add(time.Hour),
		TimeLimitMinutes: 90,
		MaxScore:         100,
		CreatedBy:        creatorID,
	}
}

func newSubmissionService(exam *model.Exam, subs *fakeSubmissionStore, scorer Scorer) *SubmissionService {
	examStore := &fakeExamStore{exams: map[uuid.UUID]*model.Exam{exam.ID: exam}}
	svc := NewSubmissionService(subs, examStore, fakeDraftStore{}, scorer, deadRedis(), zerolog.Nop())
	svc.now = func() time.Time { return testClock }
	return svc
}

func TestSubmitEssaySuccess(t *testing.T) {
	exam := openExam(1)
	subs := &fakeSubmissionStore{}
	svc := newSubmissionService(exam, subs, constScorer(0.42))

	sub, err := svc.SubmitEssay(context.Background(), exam.ID, 10, "An original essay.")
	if err != nil {
		t.Fatalf("SubmitEssay() error = %v", err)
	}
	if sub.PlagiarismScore != 0.42 {
		t.Errorf("PlagiarismScore = %v, want 0.42", sub.PlagiarismScore)
	}
	if !sub.SubmittedAt.Equal(testClock) {
		t.Errorf("SubmittedAt = %v, want %v", sub.SubmittedAt, testClock)
	}
	if subs.created != 1 {
		t.Errorf("Create called %d times, want 1", subs.created)
	}
}

func TestSubmitEssayWindowBoundaries(t *testing.T) {
	tests := []struct {
		name    string
		openAt  time.Time
		closeAt time.Time
		wantErr error
	}{
		{"before open", testClock.Add(time.Minute), testClock.Add(time.Hour), ErrExamNotOpen},
		{"at open instant", testClock, testClock.Add(time.Hour), nil},
		{"at close instant", testClock.Add(-time.Hour), testClock, nil},
		{"after close", testClock.Add(-2 * time.Hour), testClock.Add(-time.Minute), ErrExamClosed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exam := openExam(1)
			exam.OpenAt = tt.openAt
			exam.CloseAt = tt.closeAt
			svc := newSubmissionService(exam, &fakeSubmissionStore{}, constScorer(0))

			_, err := svc.SubmitEssay(context.Background(), exam.ID, 10, "Essay text.")
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("SubmitEssay() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestSubmitEssayRejectsSecondSubmission(t *testing.T) {
	exam := openExam(1)
	subs := &fakeSubmissionStore{}
	svc := newSubmissionService(exam, subs, constScorer(0))

	if _, err := svc.SubmitEssay(context.Background(), exam.ID, 10, "First essay."); err != nil {
		t.Fatalf("first SubmitEssay() error = %v", err)
	}
	_, err := svc.SubmitEssay(context.Background(), exam.ID, 10, "Second essay.")
	if !errors.Is(err, ErrAlreadySubmitted) {
		t.Fatalf("second SubmitEssay() error = %v, want ErrAlreadySubmitted", err)
	}
	if subs.created != 1 {
		t.Errorf("Create called %d times, want 1", subs.created)
	}
}

func TestSubmitEssayTranslatesInsertConflict(t *testing.T) {
	// A concurrent request can pass the existence check and lose the race
	// at insert time; the store reports the conflict as pgx.ErrNoRows.
	exam := openExam(1)
	subs := &fakeSubmissionStore{createErr: pgx.ErrNoRows}
	svc := newSubmissionService(exam, subs, constScorer(0))

	_, err := svc.SubmitEssay(context.Background(), exam.ID, 10, "Essay text.")
	if !errors.Is(err, ErrAlreadySubmitted) {
		t.Fatalf("SubmitEssay() error = %v, want ErrAlreadySubmitted", err)
	}
}

func TestSubmitEssayRejectsEmptyEssay(t *testing.T) {
	exam := openExam(1)
	svc := newSubmissionService(exam, &fakeSubmissionStore{}, constScorer(0))

	for _, essay := range []string{"", "   ", "\n\t "} {
		_, err := svc.SubmitEssay(context.Background(), exam.ID, 10, essay)
		if !errors.Is(err, ErrEmptyEssay) {
			t.Errorf("SubmitEssay(%q) error = %v, want ErrEmptyEssay", essay, err)
		}
	}
}

func TestSubmitEssaySurvivesScorerPanic(t *testing.T) {
	exam := openExam(1)
	subs := &fakeSubmissionStore{}
	svc := newSubmissionService(exam, subs, panicScorer{})

	sub, err := svc.SubmitEssay(context.Background(), exam.ID, 10, "Essay text.")
	if err != nil {
		t.Fatalf("SubmitEssay() error = %v, want nil despite scorer panic", err)
	}
	if sub.PlagiarismScore != 0 {
		t.Errorf("PlagiarismScore = %v, want 0 fallback", sub.PlagiarismScore)
	}
	if subs.created != 1 {
		t.Errorf("Create called %d times, want 1", subs.created)
	}
}

func TestSubmitEssayScoresAgainstPriorEssaysOnly(t *testing.T) {
	exam := openExam(1)
	subs := &fakeSubmissionStore{}
	recorder := &recordingScorer{}
	svc := newSubmissionService(exam, subs, recorder)

	if _, err := svc.SubmitEssay(context.Background(), exam.ID, 10, "First essay."); err != nil {
		t.Fatalf("SubmitEssay() error = %v", err)
	}
	if _, err := svc.SubmitEssay(context.Background(), exam.ID, 11, "Second essay."); err != nil {
		t.Fatalf("SubmitEssay() error = %v", err)
	}

	if len(recorder.corpora) != 2 {
		t.Fatalf("scorer invoked %d times, want 2", len(recorder.corpora))
	}
	if len(recorder.corpora[0]) != 0 {
		t.Errorf("first submission corpus size = %d, want 0", len(recorder.corpora[0]))
	}
	if len(recorder.corpora[1]) != 1 || recorder.corpora[1][0] != "First essay." {
		t.Errorf("second submission corpus = %v, want the first essay only", recorder.corpora[1])
	}
}

func TestListForExamRequiresCreator(t *testing.T) {
	exam := openExam(1)
	svc := newSubmissionService(exam, &fakeSubmissionStore{}, constScorer(0))

	if _, err := svc.ListForExam(context.Background(), exam.ID, 2); !errors.Is(err, ErrNotExamCreator) {
		t.Fatalf("ListForExam() error = %v, want ErrNotExamCreator", err)
	}
	summaries, err := svc.ListForExam(context.Background(), exam.ID, 1)
	if err != nil {
		t.Fatalf("ListForExam() error = %v", err)
	}
	if summaries == nil {
		t.Error("ListForExam() = nil slice, want empty slice")
	}
}

func TestLobbyStatuses(t *testing.T) {
	upcoming := openExam(1)
	upcoming.OpenAt = testClock.Add(time.Hour)
	upcoming.CloseAt = testClock.Add(2 * time.Hour)

	open := openExam(1)

	closed := openExam(1)
	closed.OpenAt = testClock.Add(-3 * time.Hour)
	closed.CloseAt = testClock.Add(-2 * time.Hour)

	submitted := openExam(1)

	examStore := &fakeExamStore{exams: map[uuid.UUID]*model.Exam{
		upcoming.ID:  upcoming,
		open.ID:      open,
		closed.ID:    closed,
		submitted.ID: submitted,
	}}
	subs := &fakeSubmissionStore{}
	svc := NewSubmissionService(subs, examStore, fakeDraftStore{}, constScorer(0), deadRedis(), zerolog.Nop())
	svc.now = func() time.Time { return testClock }

	if _, err := svc.SubmitEssay(context.Background(), submitted.ID, 10, "Done."); err != nil {
		t.Fatalf("SubmitEssay() error = %v", err)
	}

	lobby, err := svc.Lobby(context.Background(), 10)
	if err != nil {
		t.Fatalf("Lobby() error = %v", err)
	}

	statuses := map[uuid.UUID]string{}
	for _, entry := range lobby {
		statuses[entry.Exam.ID] = entry.Status
	}
	want := map[uuid.UUID]string{
		upcoming.ID:  LobbyStatusUpcoming,
		open.ID:      LobbyStatusOpen,
		closed.ID:    LobbyStatusClosed,
		submitted.ID: LobbyStatusSubmitted,
	}
	for id, status := range want {
		if statuses[id] != status {
			t.Errorf("exam %s status = %q, want %q", id, statuses[id], status)
		}
	}
}

func TestGetForStaffRequiresCreator(t *testing.T) {
	exam := openExam(1)
	subs := &fakeSubmissionStore{}
	svc := newSubmissionService(exam, subs, constScorer(0))

	sub, err := svc.SubmitEssay(context.Background(), exam.ID, 10, "Essay text.")
	if err != nil {
		t.Fatalf("SubmitEssay() error = %v", err)
	}

	if _, _, err := svc.GetForStaff(context.Background(), sub.ID, 2); !errors.Is(err, ErrNotExamCreator) {
		t.Fatalf("GetForStaff() error = %v, want ErrNotExamCreator", err)
	}
	got, gotExam, err := svc.GetForStaff(context.Background(), sub.ID, 1)
	if err != nil {
		t.Fatalf("GetForStaff() error = %v", err)
	}
	if got.ID != sub.ID || gotExam.ID != exam.ID {
		t.Error("GetForStaff() returned wrong submission or exam")
	}
}

// constScorer always returns the same score.
type constScorer float64

func (c constScorer) Score(string, []string) float64 { return float64(c) }

// panicScorer simulates an internal scoring failure.
type panicScorer struct{}

func (panicScorer) Score(string, []string) float64 { panic("vocabulary overflow") }

// recordingScorer captures the corpus passed to each invocation.
type recordingScorer struct {
	corpora [][]string
}

func (r *recordingScorer) Score(_ string, corpus []string) float64 {
	copied := make([]string, len(corpus))
	copy(copied, corpus)
	r.corpora = append(r.corpora, copied)
	return 0
}

// fakeDraftStore never has a durable draft.
type fakeDraftStore struct{}

func (fakeDraftStore) Get(context.Context, uuid.UUID, int) (string, error) {
	return "", pgx.ErrNoRows
}

type submissionKey struct {
	examID uuid.UUID
	userID int
}

// fakeSubmissionStore is an in-memory SubmissionStore enforcing the
// one-submission-per-student rule the way the real store does: a
// conflicting insert reports pgx.ErrNoRows.
type fakeSubmissionStore struct {
	byKey     map[submissionKey]*model.Submission
	byID      map[uuid.UUID]*model.Submission
	created   int
	createErr error
}

func (f *fakeSubmissionStore) GetByID(_ context.Context, id uuid.UUID) (*model.Submission, error) {
	if sub, ok := f.byID[id]; ok {
		copied := *sub
		return &copied, nil
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeSubmissionStore) GetByExamAndUser(_ context.Context, examID uuid.UUID, userID int) (*model.Submission, error) {
	if sub, ok := f.byKey[submissionKey{examID, userID}]; ok {
		copied := *sub
		return &copied, nil
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeSubmissionStore) Create(_ context.Context, s *model.Submission) error {
	if f.createErr != nil {
		return f.createErr
	}
	key := submissionKey{s.ExamID, s.UserID}
	if _, exists := f.byKey[key]; exists {
		return pgx.ErrNoRows
	}
	f.created++
	s.ID = uuid.New()
	if f.byKey == nil {
		f.byKey = map[submissionKey]*model.Submission{}
		f.byID = map[uuid.UUID]*model.Submission{}
	}
	f.byKey[key] = s
	f.byID[s.ID] = s
	return nil
}

func (f *fakeSubmissionStore) ListEssayTexts(_ context.Context, examID uuid.UUID) ([]string, error) {
	var texts []string
	for key, sub := range f.byKey {
		if key.examID == examID {
			texts = append(texts, sub.EssayText)
		}
	}
	return texts, nil
}

func (f *fakeSubmissionStore) ListByExam(_ context.Context, examID uuid.UUID) ([]model.SubmissionSummary, error) {
	var summaries []model.SubmissionSummary
	for key, sub := range f.byKey {
		if key.examID == examID {
			summaries = append(summaries, model.SubmissionSummary{
				ID:              sub.ID,
				UserID:          sub.UserID,
				SubmittedAt:     sub.SubmittedAt,
				PlagiarismScore: sub.PlagiarismScore,
				Score:           sub.Score,
				GradedAt:        sub.GradedAt,
			})
		}
	}
	return summaries, nil
}

func (f *fakeSubmissionStore) UpdateGrade(_ context.Context, id uuid.UUID, score int, comments string, gradedBy int, gradedAt time.Time) error {
	sub, ok := f.byID[id]
	if !ok {
		return pgx.ErrNoRows
	}
	sub.Score = &score
	sub.Comments = &comments
	sub.GradedBy = &gradedBy
	sub.GradedAt = &gradedAt
	return nil
}
