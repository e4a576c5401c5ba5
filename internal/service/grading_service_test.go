package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/inkwell-edu/inkwell-backend/internal/model"
)

func newGradingFixture(t *testing.T, maxScore int) (*GradingService, *model.Submission) {
	t.Helper()

	exam := openExam(1)
	exam.MaxScore = maxScore
	examStore := &fakeExamStore{exams: map[uuid.UUID]*model.Exam{exam.ID: exam}}
	subs := &fakeSubmissionStore{}

	subSvc := NewSubmissionService(subs, examStore, fakeDraftStore{}, constScorer(0), deadRedis(), zerolog.Nop())
	subSvc.now = func() time.Time { return testClock }
	sub, err := subSvc.SubmitEssay(context.Background(), exam.ID, 10, "Essay text.")
	if err != nil {
		t.Fatalf("SubmitEssay() error = %v", err)
	}

	svc := NewGradingService(subs, examStore, zerolog.Nop())
	svc.now = func() time.Time { return testClock }
	return svc, sub
}

func TestGradeSuccess(t *testing.T) {
	svc, sub := newGradingFixture(t, 100)

	graded, err := svc.Grade(context.Background(), sub.ID, 1, 85, "Solid argument.")
	if err != nil {
		t.Fatalf("Grade() error = %v", err)
	}
	if graded.Score == nil || *graded.Score != 85 {
		t.Errorf("Score = %v, want 85", graded.Score)
	}
	if graded.Comments == nil || *graded.Comments != "Solid argument." {
		t.Errorf("Comments = %v", graded.Comments)
	}
	if graded.GradedBy == nil || *graded.GradedBy != 1 {
		t.Errorf("GradedBy = %v, want 1", graded.GradedBy)
	}
	if graded.GradedAt == nil || !graded.GradedAt.Equal(testClock) {
		t.Errorf("GradedAt = %v, want %v", graded.GradedAt, testClock)
	}
}

func TestGradeScoreBounds(t *testing.T) {
	tests := []struct {
		name    string
		score   int
		wantErr bool
	}{
		{"zero is valid", 0, false},
		{"max is valid", 100, false},
		{"above max", 101, true},
		{"negative", -1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, sub := newGradingFixture(t, 100)

			_, err := svc.Grade(context.Background(), sub.ID, 1, tt.score, "")
			if !tt.wantErr {
				if err != nil {
					t.Fatalf("Grade(%d) error = %v, want nil", tt.score, err)
				}
				return
			}
			var rangeErr *ScoreOutOfRangeError
			if !errors.As(err, &rangeErr) {
				t.Fatalf("Grade(%d) error = %v, want *ScoreOutOfRangeError", tt.score, err)
			}
			if rangeErr.MaxScore != 100 {
				t.Errorf("MaxScore in error = %d, want 100", rangeErr.MaxScore)
			}
			if !strings.Contains(rangeErr.Error(), "100") {
				t.Errorf("error %q does not name the bound", rangeErr.Error())
			}
		})
	}
}

func TestGradeRequiresExamCreator(t *testing.T) {
	svc, sub := newGradingFixture(t, 100)

	_, err := svc.Grade(context.Background(), sub.ID, 99, 50, "")
	if !errors.Is(err, ErrNotExamCreator) {
		t.Fatalf("Grade() error = %v, want ErrNotExamCreator", err)
	}
}

func TestGradeTrimsComments(t *testing.T) {
	svc, sub := newGradingFixture(t, 100)

	graded, err := svc.Grade(context.Background(), sub.ID, 1, 50, "  needs work  \n")
	if err != nil {
		t.Fatalf("Grade() error = %v", err)
	}
	if *graded.Comments != "needs work" {
		t.Errorf("Comments = %q, want trimmed", *graded.Comments)
	}
}

func TestRegradeOverwrites(t *testing.T) {
	svc, sub := newGradingFixture(t, 100)

	if _, err := svc.Grade(context.Background(), sub.ID, 1, 40, "First pass."); err != nil {
		t.Fatalf("Grade() error = %v", err)
	}
	graded, err := svc.Grade(context.Background(), sub.ID, 1, 70, "After appeal.")
	if err != nil {
		t.Fatalf("re-Grade() error = %v", err)
	}
	if *graded.Score != 70 || *graded.Comments != "After appeal." {
		t.Errorf("re-grade = score %d, comments %q; want 70, %q", *graded.Score, *graded.Comments, "After appeal.")
	}
}

func TestGradeZeroMaxScoreExam(t *testing.T) {
	svc, sub := newGradingFixture(t, 0)

	if _, err := svc.Grade(context.Background(), sub.ID, 1, 0, ""); err != nil {
		t.Fatalf("Grade(0) error = %v, want nil on a pass/fail exam", err)
	}
	if _, err := svc.Grade(context.Background(), sub.ID, 1, 1, ""); err == nil {
		t.Fatal("Grade(1) error = nil, want out-of-range")
	}
}
