package storage

import (
	"context"
	"errors"
	"fmt"

	"voxqa/internal/models"

	"github.com/jackc/pgx/v5"
)

type TranscriptRepo struct {
	db *DB
}

func NewTranscriptRepo(db *DB) *TranscriptRepo {
	return &TranscriptRepo{db: db}
}

func (r *TranscriptRepo) UpsertTranscript(ctx context.Context, t models.Transcript) error {
	_, err := r.db.Pool.Exec(ctx, `
INSERT INTO transcripts (transcript_id, title, filename, text, status, fail_reason, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, now(), now())
ON CONFLICT (transcript_id)
DO UPDATE SET
  title = EXCLUDED.title,
  filename = EXCLUDED.filename,
  text = EXCLUDED.text,
  status = EXCLUDED.status,
  fail_reason = EXCLUDED.fail_reason,
  updated_at = now()`,
		t.TranscriptID, t.Title, t.Filename, t.Text, t.Status, t.FailReason,
	)
	if err != nil {
		return fmt.Errorf("upsert transcript %s: %w", t.TranscriptID, err)
	}
	return nil
}

func (r *TranscriptRepo) GetTranscript(ctx context.Context, transcriptID string) (models.Transcript, bool, error) {
	row := r.db.Pool.QueryRow(ctx, `
SELECT transcript_id, title, filename, text, status, fail_reason, created_at, updated_at
FROM transcripts
WHERE transcript_id=$1`, transcriptID)
	var t models.Transcript
	err := row.Scan(&t.TranscriptID, &t.Title, &t.Filename, &t.Text, &t.Status, &t.FailReason, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Transcript{}, false, nil
	}
	if err != nil {
		return models.Transcript{}, false, fmt.Errorf("get transcript %s: %w", transcriptID, err)
	}
	return t, true, nil
}

func (r *TranscriptRepo) ListTranscripts(ctx context.Context) ([]models.Transcript, error) {
	rows, err := r.db.Pool.Query(ctx, `
SELECT transcript_id, title, filename, status, fail_reason, created_at, updated_at
FROM transcripts
ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list transcripts: %w", err)
	}
	defer rows.Close()
	out := make([]models.Transcript, 0, 32)
	for rows.Next() {
		var t models.Transcript
		if err := rows.Scan(&t.TranscriptID, &t.Title, &t.Filename, &t.Status, &t.FailReason, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan transcript: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transcripts: %w", err)
	}
	return out, nil
}

func (r *TranscriptRepo) UpdateTranscriptStatus(ctx context.Context, transcriptID, status, failReason string) error {
	_, err := r.db.Pool.Exec(ctx, `
UPDATE transcripts SET status=$2, fail_reason=$3, updated_at=now() WHERE transcript_id=$1`,
		transcriptID, status, failReason)
	if err != nil {
		return fmt.Errorf("update transcript status %s: %w", transcriptID, err)
	}
	return nil
}
