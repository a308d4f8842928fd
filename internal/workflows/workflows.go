package workflows

import (
	"fmt"
	"time"

	"voxqa/internal/activities"
	"voxqa/internal/qa"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"
)

const QueryGetAnswerProgress = "GetAnswerProgress"

// AnswerWorkflow answers one question against one stored transcript. Chunk
// extraction runs as parallel activities in bounded windows; individual
// chunk failures are tolerated until every chunk has failed. The activity
// timeout on extraction is generous because the first call on a fresh
// worker pays the model warm-up cost.
func AnswerWorkflow(ctx workflow.Context, input AnswerInput) (AnswerOutput, error) {
	progress := AnswerProgress{
		TranscriptID: input.TranscriptID,
		Question:     input.Question,
		Status:       "loading",
	}
	if err := workflow.SetQueryHandler(ctx, QueryGetAnswerProgress, func() (AnswerProgress, error) {
		return progress, nil
	}); err != nil {
		return AnswerOutput{}, err
	}

	ao := workflow.ActivityOptions{
		StartToCloseTimeout: 2 * time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    2 * time.Second,
			BackoffCoefficient: 2,
			MaximumInterval:    20 * time.Second,
			MaximumAttempts:    3,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, ao)

	var loadOut activities.LoadTranscriptOutput
	if err := workflow.ExecuteActivity(ctx, "LoadTranscriptActivity", activities.LoadTranscriptInput{
		TranscriptID: input.TranscriptID,
	}).Get(ctx, &loadOut); err != nil {
		return AnswerOutput{}, err
	}

	var chunkOut activities.ChunkTranscriptOutput
	if err := workflow.ExecuteActivity(ctx, "ChunkTranscriptActivity", activities.ChunkTranscriptInput{
		Text:         loadOut.Text,
		ChunkSize:    input.ChunkSize,
		ChunkOverlap: input.ChunkOverlap,
	}).Get(ctx, &chunkOut); err != nil {
		return AnswerOutput{}, err
	}
	chunks := chunkOut.Chunks
	progress.TotalChunks = len(chunks)
	progress.Status = "extracting"

	extractCtx := workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: 10 * time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    2 * time.Second,
			BackoffCoefficient: 2,
			MaximumInterval:    20 * time.Second,
			MaximumAttempts:    2,
		},
	})

	maxParallel := input.MaxParallel
	if maxParallel <= 0 {
		maxParallel = 2
	}

	cands := make([]qa.Candidate, 0, len(chunks))
	for i := 0; i < len(chunks); i += maxParallel {
		end := i + maxParallel
		if end > len(chunks) {
			end = len(chunks)
		}
		futures := make([]workflow.Future, 0, end-i)
		for _, c := range chunks[i:end] {
			futures = append(futures, workflow.ExecuteActivity(extractCtx, "ExtractChunkActivity", activities.ExtractChunkInput{
				Question:        input.Question,
				Chunk:           c,
				MaxAnswerLength: input.MaxAnswerLength,
			}))
		}
		for _, f := range futures {
			var out activities.ExtractChunkOutput
			if err := f.Get(ctx, &out); err != nil {
				progress.FailedChunks++
			} else {
				cands = append(cands, out.Candidates...)
			}
			progress.DoneChunks++
		}
	}
	if len(chunks) > 0 && progress.FailedChunks == len(chunks) {
		progress.Status = "failed"
		return AnswerOutput{}, fmt.Errorf("extraction unavailable: all %d chunks failed", len(chunks))
	}

	progress.Status = "aggregating"
	var aggOut activities.AggregateAnswersOutput
	if err := workflow.ExecuteActivity(ctx, "AggregateAnswersActivity", activities.AggregateAnswersInput{
		Candidates:   cands,
		Chunks:       chunks,
		Threshold:    input.Threshold,
		TotalChunks:  len(chunks),
		FailedChunks: progress.FailedChunks,
	}).Get(ctx, &aggOut); err != nil {
		return AnswerOutput{}, err
	}

	var saveOut activities.SaveSessionOutput
	if err := workflow.ExecuteActivity(ctx, "SaveSessionActivity", activities.SaveSessionInput{
		TranscriptID: input.TranscriptID,
		Question:     input.Question,
		Result:       aggOut.Result,
	}).Get(ctx, &saveOut); err != nil {
		return AnswerOutput{}, err
	}

	_ = workflow.ExecuteActivity(ctx, "WriteAnswerArtifactActivity", activities.WriteAnswerArtifactInput{
		TranscriptID: input.TranscriptID,
		SessionID:    saveOut.SessionID,
		Record: map[string]any{
			"transcript_id": input.TranscriptID,
			"question":      input.Question,
			"answer":        aggOut.Result.Answer,
			"confidence":    aggOut.Result.Confidence,
			"abstained":     aggOut.Result.Abstained,
			"total_chunks":  len(chunks),
			"failed_chunks": progress.FailedChunks,
			"generated_at":  workflow.Now(ctx),
		},
	}).Get(ctx, nil)

	progress.Status = "completed"
	return AnswerOutput{SessionID: saveOut.SessionID, Result: aggOut.Result}, nil
}
