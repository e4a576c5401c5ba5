package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/inkwell-edu/inkwell-backend/internal/config"
)

// DraftWorker consumes the draft persistence queue and UPSERTs essay
// drafts to PostgreSQL. Redis holds the hot copy; this worker makes each
// revision survive a cache restart.
type DraftWorker struct {
	pool *pgxpool.Pool
	rdb  *redis.Client
	log  zerolog.Logger
}

// NewDraftWorker creates a new DraftWorker.
func NewDraftWorker(pool *pgxpool.Pool, rdb *redis.Client, log zerolog.Logger) *DraftWorker {
	return &DraftWorker{
		pool: pool,
		rdb:  rdb,
		log:  log.With().Str("component", "draft_worker").Logger(),
	}
}

type draftPayload struct {
	UserID    int    `json:"user_id"`
	ExamID    string `json:"exam_id"`
	DraftText string `json:"draft_text"`
}

// Start begins the infinite worker loop. Call in a goroutine.
func (w *DraftWorker) Start(ctx context.Context) {
	w.log.Info().Msg("Worker started")

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Worker stopping...")
			// Drain remaining items before exit.
			w.drain(context.Background())
			w.log.Info().Msg("Worker stopped")
			return
		default:
			w.processNext(ctx)
		}
	}
}

func (w *DraftWorker) processNext(ctx context.Context) {
	// BLPop blocks until an item is available or timeout (1 second).
	result, err := w.rdb.BLPop(ctx, time.Second, config.WorkerKey.PersistDraftsQueue).Result()
	if err != nil {
		if err != redis.Nil && ctx.Err() == nil {
			w.log.Error().Err(err).Msg("BLPop error")
		}
		return
	}

	if len(result) < 2 {
		return
	}

	var payload draftPayload
	if err := json.Unmarshal([]byte(result[1]), &payload); err != nil {
		w.log.Error().Err(err).Msg("Unmarshal error")
		return
	}

	if err := w.persistDraft(ctx, &payload); err != nil {
		w.log.Error().Err(err).
			Int("user_id", payload.UserID).
			Str("exam_id", payload.ExamID).
			Msg("Persist error, retrying in 5s")
		// Push back to queue for retry.
		w.rdb.RPush(ctx, config.WorkerKey.PersistDraftsQueue, result[1])
		time.Sleep(5 * time.Second)
	}
}

func (w *DraftWorker) persistDraft(ctx context.Context, p *draftPayload) error {
	examID, err := uuid.Parse(p.ExamID)
	if err != nil {
		return err
	}

	// UPSERT the draft. Later revisions win; ordering within the queue is
	// FIFO per student so the last processed revision is the latest.
	_, err = w.pool.Exec(ctx,
		`INSERT INTO essay_drafts (exam_id, user_id, draft_text)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (exam_id, user_id) DO UPDATE
		 SET draft_text = EXCLUDED.draft_text, updated_at = NOW()`,
		examID, p.UserID, p.DraftText,
	)
	return err
}

// drain processes all remaining items in the queue before shutdown.
func (w *DraftWorker) drain(ctx context.Context) {
	drained := 0
	for {
		result, err := w.rdb.LPop(ctx, config.WorkerKey.PersistDraftsQueue).Result()
		if err != nil {
			break
		}

		var payload draftPayload
		if err := json.Unmarshal([]byte(result), &payload); err != nil {
			w.log.Error().Err(err).Msg("Drain unmarshal error")
			continue
		}

		if err := w.persistDraft(ctx, &payload); err != nil {
			w.log.Error().Err(err).Msg("Drain persist error")
			w.rdb.RPush(ctx, config.WorkerKey.PersistDraftsQueue, result)
			break
		}
		drained++
	}

	if drained > 0 {
		w.log.Info().Int("count", drained).Msg("Drained remaining items")
	}
}
