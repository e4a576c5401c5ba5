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

// GradingHandler handles staff submission review and grading endpoints.
type GradingHandler struct {
	submissionService *service.SubmissionService
	gradingService    *service.GradingService
}

// NewGradingHandler creates a new GradingHandler.
func NewGradingHandler(submissionService *service.SubmissionService, gradingService *service.GradingService) *GradingHandler {
	return &GradingHandler{
		submissionService: submissionService,
		gradingService:    gradingService,
	}
}

// ListSubmissions godoc
// GET /api/v1/staff/exams/:exam_id/submissions
// Lists all submissions for an exam the staff member created.
func (h *GradingHandler) ListSubmissions(c *gin.Context) {
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

	summaries, err := h.submissionService.ListForExam(c.Request.Context(), examID, claims.UserID)
	if err != nil {
		if errors.Is(err, service.ErrNotExamCreator) {
			response.Fail(c, http.StatusForbidden, response.ErrNotExamCreator)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"submissions": summaries})
}

// GetSubmission godoc
// GET /api/v1/staff/submissions/:submission_id
// Returns a full submission, essay text and plagiarism score included.
func (h *GradingHandler) GetSubmission(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	submissionID, err := uuid.Parse(c.Param("submission_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	sub, exam, err := h.submissionService.GetForStaff(c.Request.Context(), submissionID, claims.UserID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotExamCreator):
			response.Fail(c, http.StatusForbidden, response.ErrNotExamCreator)
		case errors.Is(err, pgx.ErrNoRows):
			response.Fail(c, http.StatusNotFound, response.ErrSubmissionNotFound)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"submission": sub,
		"exam": gin.H{
			"id":        exam.ID,
			"title":     exam.Title,
			"max_score": exam.MaxScore,
		},
	})
}

// GradeSubmission godoc
// PUT /api/v1/staff/submissions/:submission_id/grade
// Records a score and comments. Re-grading overwrites the prior grade.
func (h *GradingHandler) GradeSubmission(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	submissionID, err := uuid.Parse(c.Param("submission_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.GradeSubmissionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	sub, err := h.gradingService.Grade(c.Request.Context(), submissionID, claims.UserID, req.Score, req.Comments)
	if err != nil {
		var rangeErr *service.ScoreOutOfRangeError
		switch {
		case errors.As(err, &rangeErr):
			response.FailWithMessage(c, http.StatusBadRequest, response.ErrScoreOutOfRange, rangeErr.Error())
		case errors.Is(err, service.ErrNotExamCreator):
			response.Fail(c, http.StatusForbidden, response.ErrNotExamCreator)
		case errors.Is(err, pgx.ErrNoRows):
			response.Fail(c, http.StatusNotFound, response.ErrSubmissionNotFound)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"submission": sub})
}
