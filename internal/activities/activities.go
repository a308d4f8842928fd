package activities

import (
	"context"
	"fmt"
	"path/filepath"

	"voxqa/internal/config"
	"voxqa/internal/extract"
	"voxqa/internal/models"
	"voxqa/internal/qa"
	"voxqa/internal/storage"
	"voxqa/internal/util"

	"github.com/google/uuid"
)

type Activities struct {
	cfg            config.Config
	transcriptRepo *storage.TranscriptRepo
	sessionRepo    *storage.SessionRepo
	extractor      extract.Extractor
}

func New(cfg config.Config, db *storage.DB) (*Activities, error) {
	mgr, err := extract.NewManager(cfg)
	if err != nil {
		return nil, err
	}
	pool, err := mgr.Pool()
	if err != nil {
		return nil, err
	}
	return &Activities{
		cfg:            cfg,
		transcriptRepo: storage.NewTranscriptRepo(db),
		sessionRepo:    storage.NewSessionRepo(db),
		extractor:      pool,
	}, nil
}

func (a *Activities) LoadTranscriptActivity(ctx context.Context, in LoadTranscriptInput) (LoadTranscriptOutput, error) {
	t, ok, err := a.transcriptRepo.GetTranscript(ctx, in.TranscriptID)
	if err != nil {
		return LoadTranscriptOutput{}, err
	}
	if !ok {
		return LoadTranscriptOutput{}, fmt.Errorf("transcript %s not found", in.TranscriptID)
	}
	if t.Text == "" {
		return LoadTranscriptOutput{}, util.ErrNoExtractableText
	}
	return LoadTranscriptOutput{Text: t.Text}, nil
}

func (a *Activities) ChunkTranscriptActivity(ctx context.Context, in ChunkTranscriptInput) (ChunkTranscriptOutput, error) {
	_ = ctx
	size := in.ChunkSize
	if size <= 0 {
		size = a.cfg.ChunkSize
	}
	overlap := in.ChunkOverlap
	if overlap <= 0 {
		overlap = a.cfg.ChunkOverlap
	}
	chunks, err := qa.Split(in.Text, size, overlap)
	if err != nil {
		return ChunkTranscriptOutput{}, err
	}
	return ChunkTranscriptOutput{Chunks: chunks}, nil
}

func (a *Activities) ExtractChunkActivity(ctx context.Context, in ExtractChunkInput) (ExtractChunkOutput, error) {
	maxLen := in.MaxAnswerLength
	if maxLen <= 0 {
		maxLen = a.cfg.MaxAnswerLength
	}
	resp, _, err := a.extractor.Extract(ctx, extract.Request{
		Question:        in.Question,
		Context:         in.Chunk.Text,
		MaxAnswerLength: maxLen,
	})
	if err != nil {
		return ExtractChunkOutput{}, err
	}
	return ExtractChunkOutput{Candidates: qa.CandidatesFromSpans(in.Chunk.Index, resp.Spans, maxLen)}, nil
}

func (a *Activities) AggregateAnswersActivity(ctx context.Context, in AggregateAnswersInput) (AggregateAnswersOutput, error) {
	_ = ctx
	res, winner, found := qa.AggregateWithWinner(in.Candidates, in.Threshold)
	res.TotalChunks = in.TotalChunks
	res.FailedChunks = in.FailedChunks
	if found {
		if start, end, ok := qa.Locate(winner, in.Chunks); ok {
			res.Start, res.End, res.HasOffset = start, end, true
		}
	}
	return AggregateAnswersOutput{Result: res}, nil
}

func (a *Activities) SaveSessionActivity(ctx context.Context, in SaveSessionInput) (SaveSessionOutput, error) {
	sessionID := uuid.NewString()
	s := models.QASession{
		SessionID:    sessionID,
		TranscriptID: in.TranscriptID,
		Question:     in.Question,
		Answer:       in.Result.Answer,
		Confidence:   in.Result.Confidence,
		Abstained:    in.Result.Abstained,
		SourceStart:  -1,
		SourceEnd:    -1,
	}
	if in.Result.HasOffset {
		s.SourceStart = in.Result.Start
		s.SourceEnd = in.Result.End
	}
	if err := a.sessionRepo.InsertSession(ctx, s); err != nil {
		return SaveSessionOutput{}, err
	}
	return SaveSessionOutput{SessionID: sessionID}, nil
}

func (a *Activities) WriteAnswerArtifactActivity(ctx context.Context, in WriteAnswerArtifactInput) error {
	_ = ctx
	dir := filepath.Join(a.cfg.DataOutRoot, "transcripts", filepath.Base(in.TranscriptID), "answers")
	path := util.SafeJoin(dir, in.SessionID+".json")
	return util.WriteJSONAtomic(path, in.Record)
}
