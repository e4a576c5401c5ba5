package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/inkwell-edu/inkwell-backend/internal/model"
)

// SubmissionRepository handles submission data access.
type SubmissionRepository struct {
	pool *pgxpool.Pool
}

// NewSubmissionRepository creates a new SubmissionRepository.
func NewSubmissionRepository(pool *pgxpool.Pool) *SubmissionRepository {
	return &SubmissionRepository{pool: pool}
}

// GetByID retrieves a submission by its UUID.
func (r *SubmissionRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Submission, error) {
	s := &model.Submission{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, exam_id, user_id, essay_text, submitted_at,
		        plagiarism_score, score, comments, graded_at, graded_by
		 FROM submissions WHERE id = $1`, id,
	).Scan(&s.ID, &s.ExamID, &s.UserID, &s.EssayText, &s.SubmittedAt,
		&s.PlagiarismScore, &s.Score, &s.Comments, &s.GradedAt, &s.GradedBy)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// GetByExamAndUser retrieves the single submission for an (exam, student)
// pair, if any.
func (r *SubmissionRepository) GetByExamAndUser(ctx context.Context, examID uuid.UUID, userID int) (*model.Submission, error) {
	s := &model.Submission{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, exam_id, user_id, essay_text, submitted_at,
		        plagiarism_score, score, comments, graded_at, graded_by
		 FROM submissions WHERE exam_id = $1 AND user_id = $2`, examID, userID,
	).Scan(&s.ID, &s.ExamID, &s.UserID, &s.EssayText, &s.SubmittedAt,
		&s.PlagiarismScore, &s.Score, &s.Comments, &s.GradedAt, &s.GradedBy)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Create inserts a new submission. The UNIQUE (exam_id, user_id) constraint
// is the authoritative guard against concurrent double submissions: on
// conflict nothing is inserted and the scan returns pgx.ErrNoRows, which the
// workflow translates to its already-submitted error.
func (r *SubmissionRepository) Create(ctx context.Context, s *model.Submission) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO submissions (exam_id, user_id, essay_text, submitted_at, plagiarism_score)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (exam_id, user_id) DO NOTHING
		 RETURNING id`,
		s.ExamID, s.UserID, s.EssayText, s.SubmittedAt, s.PlagiarismScore,
	).Scan(&s.ID)
}

// ListEssayTexts returns all essay texts submitted for an exam, used as the
// plagiarism corpus for the next submission.
func (r *SubmissionRepository) ListEssayTexts(ctx context.Context, examID uuid.UUID) ([]string, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT essay_text FROM submissions WHERE exam_id = $1`, examID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var essays []string
	for rows.Next() {
		var text string
		if err := rows.Scan(&text); err != nil {
			return nil, err
		}
		essays = append(essays, text)
	}
	return essays, rows.Err()
}

// ListByExam retrieves submission summaries for an exam, joined with the
// submitting student's name, newest first.
func (r *SubmissionRepository) ListByExam(ctx context.Context, examID uuid.UUID) ([]model.SubmissionSummary, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT s.id, s.user_id, u.name, s.submitted_at,
		        s.plagiarism_score, s.score, s.graded_at
		 FROM submissions s
		 JOIN users u ON u.id = s.user_id
		 WHERE s.exam_id = $1
		 ORDER BY s.submitted_at DESC`, examID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []model.SubmissionSummary
	for rows.Next() {
		var sm model.SubmissionSummary
		if err := rows.Scan(&sm.ID, &sm.UserID, &sm.StudentName, &sm.SubmittedAt,
			&sm.PlagiarismScore, &sm.Score, &sm.GradedAt); err != nil {
			return nil, err
		}
		summaries = append(summaries, sm)
	}
	return summaries, rows.Err()
}

// UpdateGrade sets the grading fields on a submission. Re-grading simply
// overwrites the previous values.
func (r *SubmissionRepository) UpdateGrade(ctx context.Context, id uuid.UUID, score int, comments string, gradedBy int, gradedAt time.Time) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE submissions
		 SET score = $1, comments = $2, graded_by = $3, graded_at = $4
		 WHERE id = $5`,
		score, comments, gradedBy, gradedAt, id)
	return err
}
