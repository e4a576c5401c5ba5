package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/inkwell-edu/inkwell-backend/internal/config"
	"github.com/inkwell-edu/inkwell-backend/internal/model"
)

// Domain errors for the submission workflow. Each maps to exactly one
// user-facing condition; all are terminal for the current request.
var (
	ErrExamNotOpen      = errors.New("exam has not opened yet")
	ErrExamClosed       = errors.New("exam is closed for submissions")
	ErrAlreadySubmitted = errors.New("a submission already exists for this exam")
	ErrEmptyEssay       = errors.New("essay text is empty")
	ErrNotExamCreator   = errors.New("not the creator of this exam")
)

// Scorer computes a plagiarism similarity score for a document against a
// corpus of prior documents. Implemented by similarity.Engine.
type Scorer interface {
	Score(doc string, corpus []string) float64
}

// SubmissionService enforces the exam submission workflow: timing guards,
// the one-submission-per-student invariant, and plagiarism scoring.
type SubmissionService struct {
	subStore   SubmissionStore
	examStore  ExamStore
	draftStore DraftStore
	scorer     Scorer
	rdb        *redis.Client
	log        zerolog.Logger
	now        func() time.Time
}

// NewSubmissionService creates a new SubmissionService.
func NewSubmissionService(
	subStore SubmissionStore,
	examStore ExamStore,
	draftStore DraftStore,
	scorer Scorer,
	rdb *redis.Client,
	log zerolog.Logger,
) *SubmissionService {
	return &SubmissionService{
		subStore:   subStore,
		examStore:  examStore,
		draftStore: draftStore,
		scorer:     scorer,
		rdb:        rdb,
		log:        log.With().Str("component", "submission_service").Logger(),
		now:        time.Now,
	}
}

// SubmitEssay runs the submission workflow for one student and one exam.
//
// Guards, checked in order: the exam window must have opened (the opening
// instant itself is accepted), must not have closed (the closing instant is
// the last accepted moment), no prior submission may exist for the pair,
// and the essay must be non-empty after trimming. On success exactly one
// submission is persisted, stamped with its plagiarism score against all
// prior essays for the exam.
func (s *SubmissionService) SubmitEssay(ctx context.Context, examID uuid.UUID, userID int, essayText string) (*model.Submission, error) {
	exam, err := s.examStore.GetByID(ctx, examID)
	if err != nil {
		return nil, fmt.Errorf("get exam: %w", err)
	}

	now := s.now()
	if now.Before(exam.OpenAt) {
		return nil, ErrExamNotOpen
	}
	if now.After(exam.CloseAt) {
		return nil, ErrExamClosed
	}

	_, err = s.subStore.GetByExamAndUser(ctx, examID, userID)
	if err == nil {
		return nil, ErrAlreadySubmitted
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("check existing submission: %w", err)
	}

	if strings.TrimSpace(essayText) == "" {
		return nil, ErrEmptyEssay
	}

	priorEssays, err := s.subStore.ListEssayTexts(ctx, examID)
	if err != nil {
		return nil, fmt.Errorf("load prior essays: %w", err)
	}

	sub := &model.Submission{
		ExamID:          examID,
		UserID:          userID,
		EssayText:       essayText,
		SubmittedAt:     now,
		PlagiarismScore: s.scoreEssay(examID, essayText, priorEssays),
	}

	if err := s.subStore.Create(ctx, sub); err != nil {
		// The uniqueness constraint on (exam_id, user_id) lost us the race:
		// a concurrent request submitted first. Same outcome as guard 3.
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAlreadySubmitted
		}
		return nil, fmt.Errorf("create submission: %w", err)
	}

	// The draft is superseded by the submission; drop it best-effort.
	s.rdb.Del(ctx, config.CacheKey.EssayDraftKey(examID.String(), userID))

	s.log.Info().
		Str("exam_id", examID.String()).
		Int("user_id", userID).
		Float64("plagiarism_score", sub.PlagiarismScore).
		Int("corpus_size", len(priorEssays)).
		Msg("Essay submitted")
	return sub, nil
}

// scoreEssay wraps the similarity engine so that no internal failure can
// abort a submission: any panic is recovered and reported as a score of 0.
// Integrity scoring is best-effort and must never block a legitimate essay.
func (s *SubmissionService) scoreEssay(examID uuid.UUID, essay string, priorEssays []string) (score float64) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Warn().
				Str("exam_id", examID.String()).
				Interface("panic", r).
				Msg("Similarity scoring failed, defaulting to 0")
			score = 0
		}
	}()
	return s.scorer.Score(essay, priorEssays)
}

// GetOwnSubmission retrieves a student's submission for an exam.
func (s *SubmissionService) GetOwnSubmission(ctx context.Context, examID uuid.UUID, userID int) (*model.Submission, error) {
	return s.subStore.GetByExamAndUser(ctx, examID, userID)
}

// ListForExam retrieves submission summaries for an exam. Only the exam's
// creator may view them.
func (s *SubmissionService) ListForExam(ctx context.Context, examID uuid.UUID, staffID int) ([]model.SubmissionSummary, error) {
	exam, err := s.examStore.GetByID(ctx, examID)
	if err != nil {
		return nil, fmt.Errorf("get exam: %w", err)
	}
	if exam.CreatedBy != staffID {
		return nil, ErrNotExamCreator
	}

	summaries, err := s.subStore.ListByExam(ctx, examID)
	if err != nil {
		return nil, err
	}
	if summaries == nil {
		summaries = []model.SubmissionSummary{}
	}
	return summaries, nil
}

// GetForStaff retrieves a full submission for grading. Only the creator of
// the submission's exam may view it.
func (s *SubmissionService) GetForStaff(ctx context.Context, submissionID uuid.UUID, staffID int) (*model.Submission, *model.Exam, error) {
	sub, err := s.subStore.GetByID(ctx, submissionID)
	if err != nil {
		return nil, nil, fmt.Errorf("get submission: %w", err)
	}
	exam, err := s.examStore.GetByID(ctx, sub.ExamID)
	if err != nil {
		return nil, nil, fmt.Errorf("get exam: %w", err)
	}
	if exam.CreatedBy != staffID {
		return nil, nil, ErrNotExamCreator
	}
	return sub, exam, nil
}

// LobbyExam is an exam as shown in the student lobby, annotated with the
// window state and the student's own submission, if any.
type LobbyExam struct {
	model.Exam
	Status      string     `json:"status"`
	SubmittedAt *time.Time `json:"submitted_at,omitempty"`
}

// Lobby window states.
const (
	LobbyStatusUpcoming  = "UPCOMING"
	LobbyStatusOpen      = "OPEN"
	LobbyStatusClosed    = "CLOSED"
	LobbyStatusSubmitted = "SUBMITTED"
)

// Lobby returns all exams overlaid with the student's submission status.
func (s *SubmissionService) Lobby(ctx context.Context, userID int) ([]LobbyExam, error) {
	exams, err := s.examStore.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list exams: %w", err)
	}

	now := s.now()
	lobby := make([]LobbyExam, 0, len(exams))
	for _, exam := range exams {
		entry := LobbyExam{Exam: exam}

		sub, err := s.subStore.GetByExamAndUser(ctx, exam.ID, userID)
		switch {
		case err == nil:
			entry.Status = LobbyStatusSubmitted
			submittedAt := sub.SubmittedAt
			entry.SubmittedAt = &submittedAt
		case !errors.Is(err, pgx.ErrNoRows):
			return nil, fmt.Errorf("check submission: %w", err)
		case now.Before(exam.OpenAt):
			entry.Status = LobbyStatusUpcoming
		case now.After(exam.CloseAt):
			entry.Status = LobbyStatusClosed
		default:
			entry.Status = LobbyStatusOpen
		}

		lobby = append(lobby, entry)
	}
	return lobby, nil
}

// draftPayload is the queue message consumed by the draft worker.
type draftPayload struct {
	UserID    int    `json:"user_id"`
	ExamID    string `json:"exam_id"`
	DraftText string `json:"draft_text"`
}

// SaveDraft stores an essay draft in Redis and queues it for durable
// persistence. Drafts are advisory only: submission always carries the
// full essay text, and a draft is never promoted to a submission.
func (s *SubmissionService) SaveDraft(ctx context.Context, examID uuid.UUID, userID int, draftText string) error {
	exam, err := s.examStore.GetByID(ctx, examID)
	if err != nil {
		return fmt.Errorf("get exam: %w", err)
	}

	now := s.now()
	if now.Before(exam.OpenAt) {
		return ErrExamNotOpen
	}
	if now.After(exam.CloseAt) {
		return ErrExamClosed
	}

	key := config.CacheKey.EssayDraftKey(examID.String(), userID)
	if err := s.rdb.Set(ctx, key, draftText, 0).Err(); err != nil {
		return fmt.Errorf("cache draft: %w", err)
	}

	payload, _ := json.Marshal(draftPayload{
		UserID:    userID,
		ExamID:    examID.String(),
		DraftText: draftText,
	})
	if err := s.rdb.RPush(ctx, config.WorkerKey.PersistDraftsQueue, payload).Err(); err != nil {
		// The Redis copy survives; the worker simply misses this revision.
		s.log.Warn().Err(err).Msg("Failed to queue draft for persistence")
	}
	return nil
}

// GetDraft retrieves a student's latest draft, falling back from Redis to
// PostgreSQL when the cache copy is missing (eviction, restart).
func (s *SubmissionService) GetDraft(ctx context.Context, examID uuid.UUID, userID int) (string, error) {
	key := config.CacheKey.EssayDraftKey(examID.String(), userID)

	text, err := s.rdb.Get(ctx, key).Result()
	if err == nil {
		return text, nil
	}
	if !errors.Is(err, redis.Nil) {
		return "", fmt.Errorf("get cached draft: %w", err)
	}

	text, err = s.draftStore.Get(ctx, examID, userID)
	if err != nil {
		return "", err
	}

	// Self-heal the cache so the next reload is fast.
	_ = s.rdb.Set(ctx, key, text, 0)
	return text, nil
}
