package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/inkwell-edu/inkwell-backend/internal/model"
)

// ScoreOutOfRangeError reports a grade outside the exam's score range,
// naming the valid bound.
type ScoreOutOfRangeError struct {
	MaxScore int
}

func (e *ScoreOutOfRangeError) Error() string {
	return fmt.Sprintf("score must be between 0 and %d", e.MaxScore)
}

// GradingService handles the grading workflow: creator-only access, score
// bounds, and grading metadata. Re-grading overwrites prior values.
type GradingService struct {
	subStore  SubmissionStore
	examStore ExamStore
	log       zerolog.Logger
	now       func() time.Time
}

// NewGradingService creates a new GradingService.
func NewGradingService(subStore SubmissionStore, examStore ExamStore, log zerolog.Logger) *GradingService {
	return &GradingService{
		subStore:  subStore,
		examStore: examStore,
		log:       log.With().Str("component", "grading_service").Logger(),
		now:       time.Now,
	}
}

// Grade records a score and comments on a submission.
//
// Guards, checked in order: the grader must be the creator of the
// submission's exam, and the score must satisfy 0 <= score <= maxScore
// (both bounds inclusive). On success score, trimmed comments, gradedAt
// and gradedBy are set together; calling again overwrites all four.
func (g *GradingService) Grade(ctx context.Context, submissionID uuid.UUID, graderID, score int, comments string) (*model.Submission, error) {
	sub, err := g.subStore.GetByID(ctx, submissionID)
	if err != nil {
		return nil, fmt.Errorf("get submission: %w", err)
	}

	exam, err := g.examStore.GetByID(ctx, sub.ExamID)
	if err != nil {
		return nil, fmt.Errorf("get exam: %w", err)
	}

	if graderID != exam.CreatedBy {
		return nil, ErrNotExamCreator
	}

	if score < 0 || score > exam.MaxScore {
		return nil, &ScoreOutOfRangeError{MaxScore: exam.MaxScore}
	}

	comments = strings.TrimSpace(comments)
	gradedAt := g.now()

	if err := g.subStore.UpdateGrade(ctx, sub.ID, score, comments, graderID, gradedAt); err != nil {
		return nil, fmt.Errorf("update grade: %w", err)
	}

	sub.Score = &score
	sub.Comments = &comments
	sub.GradedBy = &graderID
	sub.GradedAt = &gradedAt

	g.log.Info().
		Str("submission_id", sub.ID.String()).
		Int("graded_by", graderID).
		Int("score", score).
		Msg("Submission graded")
	return sub, nil
}
