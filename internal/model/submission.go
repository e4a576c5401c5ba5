package model

import (
	"time"

	"github.com/google/uuid"
)

// Submission represents a student's single essay submission for an exam.
// At most one submission exists per (exam, student) pair. The plagiarism
// score is computed once at creation and never recomputed; grading fields
// are set only by the grading workflow and may be overwritten by re-grading.
type Submission struct {
	ID              uuid.UUID  `json:"id"`
	ExamID          uuid.UUID  `json:"exam_id"`
	UserID          int        `json:"user_id"`
	EssayText       string     `json:"essay_text"`
	SubmittedAt     time.Time  `json:"submitted_at"`
	PlagiarismScore float64    `json:"plagiarism_score"`
	Score           *int       `json:"score,omitempty"`
	Comments        *string    `json:"comments,omitempty"`
	GradedAt        *time.Time `json:"graded_at,omitempty"`
	GradedBy        *int       `json:"graded_by,omitempty"`
}

// SubmitEssayRequest is the payload for submitting an essay.
type SubmitEssayRequest struct {
	EssayText string `json:"essay_text" binding:"required"`
}

// GradeSubmissionRequest is the payload for grading a submission.
type GradeSubmissionRequest struct {
	Score    int    `json:"score"`
	Comments string `json:"comments" binding:"omitempty,max=5000"`
}

// SaveDraftRequest is the payload for the REST draft autosave fallback.
type SaveDraftRequest struct {
	DraftText string `json:"draft_text" binding:"required,max=100000"`
}

// SubmissionSummary is the staff-facing row for an exam's submission list.
// Essay text is omitted to keep the listing light.
type SubmissionSummary struct {
	ID              uuid.UUID  `json:"id"`
	UserID          int        `json:"user_id"`
	StudentName     string     `json:"student_name"`
	SubmittedAt     time.Time  `json:"submitted_at"`
	PlagiarismScore float64    `json:"plagiarism_score"`
	Score           *int       `json:"score,omitempty"`
	GradedAt        *time.Time `json:"graded_at,omitempty"`
}
