package workflows

import (
	"context"
	"errors"
	"testing"

	"voxqa/internal/activities"
	"voxqa/internal/qa"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/testsuite"
)

func registerActivityName[T any](env *testsuite.TestWorkflowEnvironment, name string, fn T) {
	env.RegisterActivityWithOptions(fn, activity.RegisterOptions{Name: name})
}

func registerAnswerActivities(env *testsuite.TestWorkflowEnvironment) {
	registerActivityName(env, "LoadTranscriptActivity", func(context.Context, activities.LoadTranscriptInput) (activities.LoadTranscriptOutput, error) {
		return activities.LoadTranscriptOutput{}, nil
	})
	registerActivityName(env, "ChunkTranscriptActivity", func(context.Context, activities.ChunkTranscriptInput) (activities.ChunkTranscriptOutput, error) {
		return activities.ChunkTranscriptOutput{}, nil
	})
	registerActivityName(env, "ExtractChunkActivity", func(context.Context, activities.ExtractChunkInput) (activities.ExtractChunkOutput, error) {
		return activities.ExtractChunkOutput{}, nil
	})
	registerActivityName(env, "AggregateAnswersActivity", func(context.Context, activities.AggregateAnswersInput) (activities.AggregateAnswersOutput, error) {
		return activities.AggregateAnswersOutput{}, nil
	})
	registerActivityName(env, "SaveSessionActivity", func(context.Context, activities.SaveSessionInput) (activities.SaveSessionOutput, error) {
		return activities.SaveSessionOutput{}, nil
	})
	registerActivityName(env, "WriteAnswerArtifactActivity", func(context.Context, activities.WriteAnswerArtifactInput) error { return nil })
}

func TestAnswerWorkflowSuccess(t *testing.T) {
	var ts testsuite.WorkflowTestSuite
	env := ts.NewTestWorkflowEnvironment()
	env.RegisterWorkflow(AnswerWorkflow)
	registerAnswerActivities(env)

	chunks := []qa.Chunk{
		{Index: 0, Start: 0, End: 50, Text: "The quarterly revenue grew by 12 percent in March."},
		{Index: 1, Start: 40, End: 86, Text: "March. The team celebrated the milestone."},
	}
	env.OnActivity("LoadTranscriptActivity", mock.Anything, activities.LoadTranscriptInput{TranscriptID: "t1"}).
		Return(activities.LoadTranscriptOutput{Text: "The quarterly revenue grew by 12 percent in March. The team celebrated the milestone."}, nil)
	env.OnActivity("ChunkTranscriptActivity", mock.Anything, mock.Anything).
		Return(activities.ChunkTranscriptOutput{Chunks: chunks}, nil)
	env.OnActivity("ExtractChunkActivity", mock.Anything, mock.MatchedBy(func(in activities.ExtractChunkInput) bool { return in.Chunk.Index == 0 })).
		Return(activities.ExtractChunkOutput{Candidates: []qa.Candidate{
			{ChunkIndex: 0, LocalStart: 30, LocalEnd: 40, Text: "12 percent", Confidence: 0.62},
		}}, nil)
	env.OnActivity("ExtractChunkActivity", mock.Anything, mock.MatchedBy(func(in activities.ExtractChunkInput) bool { return in.Chunk.Index == 1 })).
		Return(activities.ExtractChunkOutput{}, nil)
	env.OnActivity("AggregateAnswersActivity", mock.Anything, mock.Anything).
		Return(activities.AggregateAnswersOutput{Result: qa.Result{
			Answer: "12 percent", Confidence: 0.62, SourceChunk: 0, Start: 30, End: 40, HasOffset: true, TotalChunks: 2,
		}}, nil)
	env.OnActivity("SaveSessionActivity", mock.Anything, mock.Anything).
		Return(activities.SaveSessionOutput{SessionID: "sess1"}, nil)
	env.OnActivity("WriteAnswerArtifactActivity", mock.Anything, mock.Anything).Return(nil)

	env.ExecuteWorkflow(AnswerWorkflow, AnswerInput{TranscriptID: "t1", Question: "By what percentage did revenue grow?", Threshold: 0.05, MaxParallel: 2})
	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())

	var out AnswerOutput
	require.NoError(t, env.GetWorkflowResult(&out))
	require.Equal(t, "sess1", out.SessionID)
	require.Equal(t, "12 percent", out.Result.Answer)
	require.False(t, out.Result.Abstained)
}

func TestAnswerWorkflowToleratesPartialChunkFailures(t *testing.T) {
	var ts testsuite.WorkflowTestSuite
	env := ts.NewTestWorkflowEnvironment()
	env.RegisterWorkflow(AnswerWorkflow)
	registerAnswerActivities(env)

	chunks := []qa.Chunk{
		{Index: 0, Start: 0, End: 40, Text: "chunk zero text"},
		{Index: 1, Start: 30, End: 70, Text: "chunk one text"},
	}
	env.OnActivity("LoadTranscriptActivity", mock.Anything, mock.Anything).
		Return(activities.LoadTranscriptOutput{Text: "whatever"}, nil)
	env.OnActivity("ChunkTranscriptActivity", mock.Anything, mock.Anything).
		Return(activities.ChunkTranscriptOutput{Chunks: chunks}, nil)
	env.OnActivity("ExtractChunkActivity", mock.Anything, mock.MatchedBy(func(in activities.ExtractChunkInput) bool { return in.Chunk.Index == 0 })).
		Return(activities.ExtractChunkOutput{}, errors.New("inference backend unavailable"))
	env.OnActivity("ExtractChunkActivity", mock.Anything, mock.MatchedBy(func(in activities.ExtractChunkInput) bool { return in.Chunk.Index == 1 })).
		Return(activities.ExtractChunkOutput{Candidates: []qa.Candidate{
			{ChunkIndex: 1, LocalStart: 0, LocalEnd: 5, Text: "chunk", Confidence: 0.3},
		}}, nil)
	env.OnActivity("AggregateAnswersActivity", mock.Anything, mock.MatchedBy(func(in activities.AggregateAnswersInput) bool {
		return in.FailedChunks == 1 && len(in.Candidates) == 1
	})).Return(activities.AggregateAnswersOutput{Result: qa.Result{Answer: "chunk", Confidence: 0.3, SourceChunk: 1}}, nil)
	env.OnActivity("SaveSessionActivity", mock.Anything, mock.Anything).
		Return(activities.SaveSessionOutput{SessionID: "sess2"}, nil)
	env.OnActivity("WriteAnswerArtifactActivity", mock.Anything, mock.Anything).Return(nil)

	env.ExecuteWorkflow(AnswerWorkflow, AnswerInput{TranscriptID: "t1", Question: "q?", Threshold: 0.05, MaxParallel: 2})
	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())
}

func TestAnswerWorkflowFailsWhenAllChunksFail(t *testing.T) {
	var ts testsuite.WorkflowTestSuite
	env := ts.NewTestWorkflowEnvironment()
	env.RegisterWorkflow(AnswerWorkflow)
	registerAnswerActivities(env)

	chunks := []qa.Chunk{
		{Index: 0, Start: 0, End: 40, Text: "chunk zero text"},
		{Index: 1, Start: 30, End: 70, Text: "chunk one text"},
	}
	env.OnActivity("LoadTranscriptActivity", mock.Anything, mock.Anything).
		Return(activities.LoadTranscriptOutput{Text: "whatever"}, nil)
	env.OnActivity("ChunkTranscriptActivity", mock.Anything, mock.Anything).
		Return(activities.ChunkTranscriptOutput{Chunks: chunks}, nil)
	env.OnActivity("ExtractChunkActivity", mock.Anything, mock.Anything).
		Return(activities.ExtractChunkOutput{}, errors.New("inference backend unavailable"))

	env.ExecuteWorkflow(AnswerWorkflow, AnswerInput{TranscriptID: "t1", Question: "q?", Threshold: 0.05, MaxParallel: 2})
	require.True(t, env.IsWorkflowCompleted())
	require.Error(t, env.GetWorkflowError())
}
