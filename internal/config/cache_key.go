package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// UserSessionKey returns the cache key holding a student's active session JTI.
func (r *CacheKeyStruct) UserSessionKey(userID int) string {
	return fmt.Sprintf("login:%d", userID)
}

// EssayDraftKey returns the cache key for a student's autosaved essay draft.
func (r *CacheKeyStruct) EssayDraftKey(examID string, userID int) string {
	return fmt.Sprintf("user:%d:exam:%s:draft", userID, examID)
}

// SubmissionCountKey returns the cache key for an exam's submission count.
func (r *CacheKeyStruct) SubmissionCountKey(examID string) string {
	return fmt.Sprintf("exam:%s:submission_count", examID)
}

// StaffDashboardKey returns the cache key for a staff member's dashboard summary.
func (r *CacheKeyStruct) StaffDashboardKey(staffID int) string {
	return fmt.Sprintf("staff:%d:dashboard", staffID)
}

var CacheKey = NewCacheKeyStruct()
