package model

import (
	"time"

	"github.com/google/uuid"
)

// Exam represents a timed essay exam. Immutable after creation.
type Exam struct {
	ID               uuid.UUID `json:"id"`
	Title            string    `json:"title"`
	Prompt           string    `json:"prompt"`
	OpenAt           time.Time `json:"open_at"`
	CloseAt          time.Time `json:"close_at"`
	TimeLimitMinutes int       `json:"time_limit_minutes"`
	MaxScore         int       `json:"max_score"`
	CreatedBy        int       `json:"created_by"`
	CreatedAt        time.Time `json:"created_at"`
}

// CreateExamRequest is the payload for creating a new exam. Timestamps are
// RFC 3339 strings; all field rules are checked in order by the exam
// service so validation failures report the first broken rule.
type CreateExamRequest struct {
	Title            string `json:"title"`
	Prompt           string `json:"prompt"`
	OpenAt           string `json:"open_at"`
	CloseAt          string `json:"close_at"`
	TimeLimitMinutes int    `json:"time_limit_minutes"`
	MaxScore         int    `json:"max_score"`
}

// ExamWithCount is an exam annotated with its submission count, shown on
// the staff dashboard.
type ExamWithCount struct {
	Exam
	SubmissionCount int `json:"submission_count"`
}
