package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/inkwell-edu/inkwell-backend/internal/model"
	"github.com/inkwell-edu/inkwell-backend/internal/response"
)

// ValidationError reports the first exam field rule an exam definition
// breaks. Nothing is persisted when validation fails.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// ExamService handles exam creation and listing.
type ExamService struct {
	examStore ExamStore
	log       zerolog.Logger
}

// NewExamService creates a new ExamService.
func NewExamService(examStore ExamStore, log zerolog.Logger) *ExamService {
	return &ExamService{
		examStore: examStore,
		log:       log.With().Str("component", "exam_service").Logger(),
	}
}

// Validate checks the exam creation rules in order and returns either a
// fully populated (unpersisted) exam or a ValidationError describing the
// first broken rule.
//
// Rules, in order: non-empty title and prompt after trimming; both
// timestamps parse as RFC 3339; close strictly after open; positive time
// limit; non-negative max score.
func (s *ExamService) Validate(req *model.CreateExamRequest, creatorID int) (*model.Exam, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, &ValidationError{Reason: "title must not be empty"}
	}
	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		return nil, &ValidationError{Reason: "prompt must not be empty"}
	}

	openAt, err := time.Parse(time.RFC3339, req.OpenAt)
	if err != nil {
		return nil, &ValidationError{Reason: "open_at is not a valid RFC 3339 timestamp"}
	}
	closeAt, err := time.Parse(time.RFC3339, req.CloseAt)
	if err != nil {
		return nil, &ValidationError{Reason: "close_at is not a valid RFC 3339 timestamp"}
	}

	if !closeAt.After(openAt) {
		return nil, &ValidationError{Reason: "close_at must be strictly after open_at"}
	}

	if req.TimeLimitMinutes <= 0 {
		return nil, &ValidationError{Reason: "time_limit_minutes must be a positive integer"}
	}
	if req.MaxScore < 0 {
		return nil, &ValidationError{Reason: "max_score must not be negative"}
	}

	return &model.Exam{
		Title:            title,
		Prompt:           prompt,
		OpenAt:           openAt,
		CloseAt:          closeAt,
		TimeLimitMinutes: req.TimeLimitMinutes,
		MaxScore:         req.MaxScore,
		CreatedBy:        creatorID,
	}, nil
}

// Create validates and persists a new exam.
func (s *ExamService) Create(ctx context.Context, req *model.CreateExamRequest, creatorID int) (*model.Exam, error) {
	exam, err := s.Validate(req, creatorID)
	if err != nil {
		return nil, err
	}

	if err := s.examStore.Create(ctx, exam); err != nil {
		return nil, fmt.Errorf("create exam: %w", err)
	}

	s.log.Info().
		Str("exam_id", exam.ID.String()).
		Int("created_by", creatorID).
		Msg("Exam created")
	return exam, nil
}

// GetByID retrieves an exam by its UUID.
func (s *ExamService) GetByID(ctx context.Context, id uuid.UUID) (*model.Exam, error) {
	return s.examStore.GetByID(ctx, id)
}

// ListByCreator retrieves a staff member's exams with submission counts.
func (s *ExamService) ListByCreator(ctx context.Context, creatorID, page, perPage int) ([]model.ExamWithCount, *response.Pagination, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 10
	}
	if perPage > 100 {
		perPage = 100
	}

	limit := perPage
	offset := (page - 1) * perPage

	exams, total, err := s.examStore.ListByCreatorPaginated(ctx, creatorID, limit, offset)
	if err != nil {
		return nil, nil, err
	}

	if exams == nil {
		exams = []model.ExamWithCount{}
	}

	pagination := &response.Pagination{
		Page:       page,
		PerPage:    perPage,
		TotalItems: total,
		TotalPages: (total + perPage - 1) / perPage,
	}

	return exams, pagination, nil
}

// GetWithCount retrieves an exam together with its submission count.
// The count feeds dashboard summaries only, never workflow guards.
func (s *ExamService) GetWithCount(ctx context.Context, id uuid.UUID) (*model.ExamWithCount, error) {
	exam, err := s.examStore.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	count, err := s.examStore.CountSubmissions(ctx, id)
	if err != nil {
		return nil, err
	}
	return &model.ExamWithCount{Exam: *exam, SubmissionCount: count}, nil
}
