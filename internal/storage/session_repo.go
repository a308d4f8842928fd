package storage

import (
	"context"
	"fmt"

	"voxqa/internal/models"
)

type SessionRepo struct {
	db *DB
}

func NewSessionRepo(db *DB) *SessionRepo {
	return &SessionRepo{db: db}
}

func (r *SessionRepo) InsertSession(ctx context.Context, s models.QASession) error {
	_, err := r.db.Pool.Exec(ctx, `
INSERT INTO qa_sessions (session_id, transcript_id, question, answer, confidence, abstained, source_start, source_end, source_snippet, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now())`,
		s.SessionID, s.TranscriptID, s.Question, s.Answer, s.Confidence, s.Abstained, s.SourceStart, s.SourceEnd, s.SourceSnippet,
	)
	if err != nil {
		return fmt.Errorf("insert qa session %s: %w", s.SessionID, err)
	}
	return nil
}

func (r *SessionRepo) ListSessionsByTranscript(ctx context.Context, transcriptID string) ([]models.QASession, error) {
	rows, err := r.db.Pool.Query(ctx, `
SELECT session_id, transcript_id, question, answer, confidence, abstained, source_start, source_end, source_snippet, created_at
FROM qa_sessions
WHERE transcript_id=$1
ORDER BY created_at DESC`, transcriptID)
	if err != nil {
		return nil, fmt.Errorf("list qa sessions: %w", err)
	}
	defer rows.Close()
	out := make([]models.QASession, 0, 16)
	for rows.Next() {
		var s models.QASession
		if err := rows.Scan(&s.SessionID, &s.TranscriptID, &s.Question, &s.Answer, &s.Confidence, &s.Abstained, &s.SourceStart, &s.SourceEnd, &s.SourceSnippet, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan qa session: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate qa sessions: %w", err)
	}
	return out, nil
}
