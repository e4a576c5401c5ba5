package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DraftRepository reads durably persisted essay drafts. Writes happen in
// the draft worker, which drains the Redis persistence queue.
type DraftRepository struct {
	pool *pgxpool.Pool
}

// NewDraftRepository creates a new DraftRepository.
func NewDraftRepository(pool *pgxpool.Pool) *DraftRepository {
	return &DraftRepository{pool: pool}
}

// Get retrieves the persisted draft text for an (exam, student) pair.
func (r *DraftRepository) Get(ctx context.Context, examID uuid.UUID, userID int) (string, error) {
	var text string
	err := r.pool.QueryRow(ctx,
		`SELECT draft_text FROM essay_drafts
		 WHERE exam_id = $1 AND user_id = $2`, examID, userID,
	).Scan(&text)
	if err != nil {
		return "", err
	}
	return text, nil
}
