package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/inkwell-edu/inkwell-backend/internal/middleware"
	"github.com/inkwell-edu/inkwell-backend/internal/model"
	"github.com/inkwell-edu/inkwell-backend/internal/response"
	"github.com/inkwell-edu/inkwell-backend/internal/service"
	"github.com/inkwell-edu/inkwell-backend/internal/validator"
)

// SubmissionHandler handles the student exam-taking endpoints.
type SubmissionHandler struct {
	submissionService *service.SubmissionService
	examService       *service.ExamService
}

// NewSubmissionHandler creates a new SubmissionHandler.
func NewSubmissionHandler(submissionService *service.SubmissionService, examService *service.ExamService) *SubmissionHandler {
	return &SubmissionHandler{
		submissionService: submissionService,
		examService:       examService,
	}
}

// Lobby godoc
// GET /api/v1/student/exams
// Lists all exams with the student's window and submission status.
func (h *SubmissionHandler) Lobby(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	exams, err := h.submissionService.Lobby(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"exams": exams})
}

// GetExam godoc
// GET /api/v1/student/exams/:exam_id
// Returns a single exam for the taking screen.
func (h *SubmissionHandler) GetExam(c *gin.Context) {
	examID, err := uuid.Parse(c.Param("exam_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	exam, err := h.examService.GetByID(c.Request.Context(), examID)
	if err != nil {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"exam": exam})
}

// SubmitEssay godoc
// POST /api/v1/student/exams/:exam_id/submission
// Submits the student's essay. Exactly one submission per exam is
// accepted; the window guards and the empty-essay check run in order.
func (h *SubmissionHandler) SubmitEssay(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	examID, err := uuid.Parse(c.Param("exam_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.SubmitEssayRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	sub, err := h.submissionService.SubmitEssay(c.Request.Context(), examID, claims.UserID, req.EssayText)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrExamNotOpen):
			response.Fail(c, http.StatusForbidden, response.ErrExamNotOpen)
		case errors.Is(err, service.ErrExamClosed):
			response.Fail(c, http.StatusForbidden, response.ErrExamClosed)
		case errors.Is(err, service.ErrAlreadySubmitted):
			response.Fail(c, http.StatusConflict, response.ErrAlreadySubmitted)
		case errors.Is(err, service.ErrEmptyEssay):
			response.Fail(c, http.StatusBadRequest, response.ErrEmptyEssay)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"submission": gin.H{
			"id":           sub.ID,
			"exam_id":      sub.ExamID,
			"submitted_at": sub.SubmittedAt,
		},
	})
}

// GetResult godoc
// GET /api/v1/student/exams/:exam_id/submission
// Returns the student's own submission with grade, if graded. The
// plagiarism score stays staff-only.
func (h *SubmissionHandler) GetResult(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	examID, err := uuid.Parse(c.Param("exam_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	sub, err := h.submissionService.GetOwnSubmission(c.Request.Context(), examID, claims.UserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			response.Fail(c, http.StatusNotFound, response.ErrSubmissionNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"submission": gin.H{
			"id":           sub.ID,
			"exam_id":      sub.ExamID,
			"essay_text":   sub.EssayText,
			"submitted_at": sub.SubmittedAt,
			"score":        sub.Score,
			"comments":     sub.Comments,
			"graded_at":    sub.GradedAt,
		},
	})
}

// SaveDraft godoc
// PUT /api/v1/student/exams/:exam_id/draft
// REST fallback for draft autosave when the WebSocket stream is unavailable.
func (h *SubmissionHandler) SaveDraft(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	examID, err := uuid.Parse(c.Param("exam_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.SaveDraftRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if err := h.submissionService.SaveDraft(c.Request.Context(), examID, claims.UserID, req.DraftText); err != nil {
		switch {
		case errors.Is(err, service.ErrExamNotOpen):
			response.Fail(c, http.StatusForbidden, response.ErrExamNotOpen)
		case errors.Is(err, service.ErrExamClosed):
			response.Fail(c, http.StatusForbidden, response.ErrExamClosed)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"status": "saved"})
}

// GetDraft godoc
// GET /api/v1/student/exams/:exam_id/draft
// Returns the student's latest autosaved draft.
func (h *SubmissionHandler) GetDraft(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	examID, err := uuid.Parse(c.Param("exam_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	text, err := h.submissionService.GetDraft(c.Request.Context(), examID, claims.UserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"draft_text": text})
}
