package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/inkwell-edu/inkwell-backend/internal/model"
)

func validExamRequest() *model.CreateExamRequest {
	return &model.CreateExamRequest{
		Title:            "Midterm Essay",
		Prompt:           "Discuss the causes of the industrial revolution.",
		OpenAt:           "2026-09-01T09:00:00Z",
		CloseAt:          "2026-09-01T11:00:00Z",
		TimeLimitMinutes: 90,
		MaxScore:         100,
	}
}

func TestExamValidateAcceptsValidRequest(t *testing.T) {
	svc := NewExamService(&fakeExamStore{}, zerolog.Nop())

	exam, err := svc.Validate(validExamRequest(), 7)
	if err != nil {
		t.Fatalf("Validate() error = %v, want nil", err)
	}
	if exam.Title != "Midterm Essay" {
		t.Errorf("Title = %q", exam.Title)
	}
	if exam.CreatedBy != 7 {
		t.Errorf("CreatedBy = %d, want 7", exam.CreatedBy)
	}
	if !exam.CloseAt.After(exam.OpenAt) {
		t.Errorf("CloseAt %v not after OpenAt %v", exam.CloseAt, exam.OpenAt)
	}
}

func TestExamValidateTrimsTitleAndPrompt(t *testing.T) {
	req := validExamRequest()
	req.Title = "  Midterm Essay  "
	req.Prompt = "\tDiscuss.\n"

	svc := NewExamService(&fakeExamStore{}, zerolog.Nop())
	exam, err := svc.Validate(req, 1)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if exam.Title != "Midterm Essay" {
		t.Errorf("Title = %q, want trimmed", exam.Title)
	}
	if exam.Prompt != "Discuss." {
		t.Errorf("Prompt = %q, want trimmed", exam.Prompt)
	}
}

func TestExamValidateRejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*model.CreateExamRequest)
	}{
		{"empty title", func(r *model.CreateExamRequest) { r.Title = "   " }},
		{"empty prompt", func(r *model.CreateExamRequest) { r.Prompt = "" }},
		{"bad open_at", func(r *model.CreateExamRequest) { r.OpenAt = "tomorrow" }},
		{"bad close_at", func(r *model.CreateExamRequest) { r.CloseAt = "2026-09-01" }},
		{"close equals open", func(r *model.CreateExamRequest) { r.CloseAt = r.OpenAt }},
		{"close before open", func(r *model.CreateExamRequest) {
			r.OpenAt = "2026-09-01T11:00:00Z"
			r.CloseAt = "2026-09-01T09:00:00Z"
		}},
		{"zero time limit", func(r *model.CreateExamRequest) { r.TimeLimitMinutes = 0 }},
		{"negative time limit", func(r *model.CreateExamRequest) { r.TimeLimitMinutes = -30 }},
		{"negative max score", func(r *model.CreateExamRequest) { r.MaxScore = -1 }},
	}

	svc := NewExamService(&fakeExamStore{}, zerolog.Nop())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validExamRequest()
			tt.mutate(req)

			_, err := svc.Validate(req, 1)
			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("Validate() error = %v, want *ValidationError", err)
			}
			if vErr.Reason == "" {
				t.Error("ValidationError has empty reason")
			}
		})
	}
}

func TestExamValidateAllowsZeroMaxScore(t *testing.T) {
	req := validExamRequest()
	req.MaxScore = 0

	svc := NewExamService(&fakeExamStore{}, zerolog.Nop())
	if _, err := svc.Validate(req, 1); err != nil {
		t.Fatalf("Validate() error = %v, want nil for max_score=0", err)
	}
}

func TestExamCreatePersistsNothingOnValidationFailure(t *testing.T) {
	store := &fakeExamStore{}
	svc := NewExamService(store, zerolog.Nop())

	req := validExamRequest()
	req.Title = ""
	if _, err := svc.Create(context.Background(), req, 1); err == nil {
		t.Fatal("Create() error = nil, want validation error")
	}
	if store.created != 0 {
		t.Errorf("store.Create called %d times, want 0", store.created)
	}
}

func TestExamListByCreatorClampsPagination(t *testing.T) {
	store := &fakeExamStore{}
	svc := NewExamService(store, zerolog.Nop())

	_, p, err := svc.ListByCreator(context.Background(), 1, 0, 0)
	if err != nil {
		t.Fatalf("ListByCreator() error = %v", err)
	}
	if p.Page != 1 || p.PerPage != 10 {
		t.Errorf("pagination = page %d per_page %d, want 1/10", p.Page, p.PerPage)
	}

	_, p, err = svc.ListByCreator(context.Background(), 1, 2, 500)
	if err != nil {
		t.Fatalf("ListByCreator() error = %v", err)
	}
	if p.PerPage != 100 {
		t.Errorf("per_page = %d, want clamped to 100", p.PerPage)
	}
	if store.lastOffset != 100 {
		t.Errorf("offset = %d, want 100", store.lastOffset)
	}
}

// fakeExamStore is an in-memory ExamStore for unit tests.
type fakeExamStore struct {
	exams      map[uuid.UUID]*model.Exam
	created    int
	lastOffset int
}

func (f *fakeExamStore) GetByID(_ context.Context, id uuid.UUID) (*model.Exam, error) {
	if exam, ok := f.exams[id]; ok {
		copied := *exam
		return &copied, nil
	}
	return nil, errors.New("exam not found")
}

func (f *fakeExamStore) Create(_ context.Context, e *model.Exam) error {
	f.created++
	e.ID = uuid.New()
	e.CreatedAt = time.Now()
	if f.exams == nil {
		f.exams = map[uuid.UUID]*model.Exam{}
	}
	f.exams[e.ID] = e
	return nil
}

func (f *fakeExamStore) ListAll(_ context.Context) ([]model.Exam, error) {
	exams := make([]model.Exam, 0, len(f.exams))
	for _, e := range f.exams {
		exams = append(exams, *e)
	}
	return exams, nil
}

func (f *fakeExamStore) ListByCreatorPaginated(_ context.Context, _, _, offset int) ([]model.ExamWithCount, int, error) {
	f.lastOffset = offset
	return nil, 0, nil
}

func (f *fakeExamStore) CountSubmissions(_ context.Context, _ uuid.UUID) (int, error) {
	return 0, nil
}
