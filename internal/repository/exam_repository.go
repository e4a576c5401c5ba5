package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/inkwell-edu/inkwell-backend/internal/model"
)

// ExamRepository handles exam data access.
type ExamRepository struct {
	pool *pgxpool.Pool
}

// NewExamRepository creates a new ExamRepository.
func NewExamRepository(pool *pgxpool.Pool) *ExamRepository {
	return &ExamRepository{pool: pool}
}

// GetByID retrieves an exam by its UUID.
func (r *ExamRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Exam, error) {
	e := &model.Exam{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, title, prompt, open_at, close_at, time_limit_minutes,
		        max_score, created_by, created_at
		 FROM exams WHERE id = $1`, id,
	).Scan(&e.ID, &e.Title, &e.Prompt, &e.OpenAt, &e.CloseAt,
		&e.TimeLimitMinutes, &e.MaxScore, &e.CreatedBy, &e.CreatedAt)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// Create inserts a new exam.
func (r *ExamRepository) Create(ctx context.Context, e *model.Exam) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO exams (title, prompt, open_at, close_at, time_limit_minutes, max_score, created_by)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, created_at`,
		e.Title, e.Prompt, e.OpenAt, e.CloseAt,
		e.TimeLimitMinutes, e.MaxScore, e.CreatedBy,
	).Scan(&e.ID, &e.CreatedAt)
}

// ListAll retrieves every exam, newest first. Used by the student lobby.
func (r *ExamRepository) ListAll(ctx context.Context) ([]model.Exam, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, title, prompt, open_at, close_at, time_limit_minutes,
		        max_score, created_by, created_at
		 FROM exams ORDER BY open_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var exams []model.Exam
	for rows.Next() {
		var e model.Exam
		if err := rows.Scan(&e.ID, &e.Title, &e.Prompt, &e.OpenAt, &e.CloseAt,
			&e.TimeLimitMinutes, &e.MaxScore, &e.CreatedBy, &e.CreatedAt); err != nil {
			return nil, err
		}
		exams = append(exams, e)
	}
	return exams, rows.Err()
}

// ListByCreatorPaginated retrieves a staff member's exams with their
// submission counts and pagination.
func (r *ExamRepository) ListByCreatorPaginated(ctx context.Context, creatorID, limit, offset int) ([]model.ExamWithCount, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM exams WHERE created_by = $1`, creatorID,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT e.id, e.title, e.prompt, e.open_at, e.close_at,
		        e.time_limit_minutes, e.max_score, e.created_by, e.created_at,
		        COUNT(s.id) AS submission_count
		 FROM exams e
		 LEFT JOIN submissions s ON s.exam_id = e.id
		 WHERE e.created_by = $1
		 GROUP BY e.id
		 ORDER BY e.created_at DESC
		 LIMIT $2 OFFSET $3`,
		creatorID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var exams []model.ExamWithCount
	for rows.Next() {
		var e model.ExamWithCount
		if err := rows.Scan(&e.ID, &e.Title, &e.Prompt, &e.OpenAt, &e.CloseAt,
			&e.TimeLimitMinutes, &e.MaxScore, &e.CreatedBy, &e.CreatedAt,
			&e.SubmissionCount); err != nil {
			return nil, 0, err
		}
		exams = append(exams, e)
	}
	return exams, total, rows.Err()
}

// CountSubmissions returns the number of submissions for an exam.
// Used for dashboard summaries only, never for workflow guards.
func (r *ExamRepository) CountSubmissions(ctx context.Context, examID uuid.UUID) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM submissions WHERE exam_id = $1`, examID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count submissions: %w", err)
	}
	return count, nil
}
