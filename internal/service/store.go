package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/inkwell-edu/inkwell-backend/internal/model"
)

// ExamStore is the exam persistence collaborator consumed by the services.
// Implemented by repository.ExamRepository.
type ExamStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Exam, error)
	Create(ctx context.Context, e *model.Exam) error
	ListAll(ctx context.Context) ([]model.Exam, error)
	ListByCreatorPaginated(ctx context.Context, creatorID, limit, offset int) ([]model.ExamWithCount, int, error)
	CountSubmissions(ctx context.Context, examID uuid.UUID) (int, error)
}

// SubmissionStore is the submission persistence collaborator consumed by
// the services. Implemented by repository.SubmissionRepository. Create must
// be backed by a uniqueness constraint on (exam_id, user_id) and report a
// conflict as pgx.ErrNoRows, matching the repository's ON CONFLICT insert.
// DraftStore is the durable essay draft collaborator. Implemented by
// repository.DraftRepository; written by the draft worker, read only as a
// cache-miss fallback.
type DraftStore interface {
	Get(ctx context.Context, examID uuid.UUID, userID int) (string, error)
}

type SubmissionStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Submission, error)
	GetByExamAndUser(ctx context.Context, examID uuid.UUID, userID int) (*model.Submission, error)
	Create(ctx context.Context, s *model.Submission) error
	ListEssayTexts(ctx context.Context, examID uuid.UUID) ([]string, error)
	ListByExam(ctx context.Context, examID uuid.UUID) ([]model.SubmissionSummary, error)
	UpdateGrade(ctx context.Context, id uuid.UUID, score int, comments string, gradedBy int, gradedAt time.Time) error
}
