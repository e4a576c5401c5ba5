package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DashboardRepository handles staff dashboard data access.
type DashboardRepository struct {
	pool *pgxpool.Pool
}

// NewDashboardRepository creates a new DashboardRepository.
func NewDashboardRepository(pool *pgxpool.Pool) *DashboardRepository {
	return &DashboardRepository{pool: pool}
}

// GetSummaryCounts retrieves the high-level metrics for a staff member's
// dashboard: their exams, submissions received, how many are still ungraded,
// and how many exceed the plagiarism flag threshold.
func (r *DashboardRepository) GetSummaryCounts(ctx context.Context, staffID int, flagThreshold float64) (totalExams, totalSubmissions, ungraded, flagged int, err error) {
	err = r.pool.QueryRow(ctx,
		`SELECT
			(SELECT COUNT(*) FROM exams WHERE created_by = $1),
			(SELECT COUNT(*) FROM submissions s
			 JOIN exams e ON e.id = s.exam_id WHERE e.created_by = $1),
			(SELECT COUNT(*) FROM submissions s
			 JOIN exams e ON e.id = s.exam_id
			 WHERE e.created_by = $1 AND s.score IS NULL),
			(SELECT COUNT(*) FROM submissions s
			 JOIN exams e ON e.id = s.exam_id
			 WHERE e.created_by = $1 AND s.plagiarism_score >= $2)`,
		staffID, flagThreshold,
	).Scan(&totalExams, &totalSubmissions, &ungraded, &flagged)
	return
}
