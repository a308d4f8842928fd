package activities

import "go.temporal.io/sdk/worker"

func Register(w worker.Worker, a *Activities) {
	w.RegisterActivity(a.LoadTranscriptActivity)
	w.RegisterActivity(a.ChunkTranscriptActivity)
	w.RegisterActivity(a.ExtractChunkActivity)
	w.RegisterActivity(a.AggregateAnswersActivity)
	w.RegisterActivity(a.SaveSessionActivity)
	w.RegisterActivity(a.WriteAnswerArtifactActivity)
}
