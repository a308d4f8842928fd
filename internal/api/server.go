package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"voxqa/internal/config"
	"voxqa/internal/extract"
	"voxqa/internal/models"
	"voxqa/internal/qa"
	"voxqa/internal/storage"
	"voxqa/internal/util"
	"voxqa/internal/workflows"

	"github.com/google/uuid"
	"github.com/ledongthuc/pdf"
	enumspb "go.temporal.io/api/enums/v1"
	tclient "go.temporal.io/sdk/client"
)

type Server struct {
	cfg            config.Config
	db             *storage.DB
	transcriptRepo *storage.TranscriptRepo
	sessionRepo    *storage.SessionRepo
	engine         *qa.Engine
	temporal       tclient.Client
}

func NewServer(cfg config.Config) *Server {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	db, err := storage.NewDB(ctx, cfg.PostgresURL)
	if err != nil {
		panic(err)
	}
	if err := storage.EnsureSchema(ctx, db); err != nil {
		panic(err)
	}
	mgr, err := extract.NewManager(cfg)
	if err != nil {
		panic(err)
	}
	pool, err := mgr.Pool()
	if err != nil {
		panic(err)
	}
	tc, err := tclient.Dial(tclient.Options{HostPort: cfg.TemporalAddress})
	if err != nil {
		panic(err)
	}
	return &Server{
		cfg:            cfg,
		db:             db,
		transcriptRepo: storage.NewTranscriptRepo(db),
		sessionRepo:    storage.NewSessionRepo(db),
		engine:         qa.NewEngine(cfg, pool),
		temporal:       tc,
	}
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealthz)
	mux.HandleFunc("/transcripts", s.handleTranscripts)
	mux.HandleFunc("/transcripts/", s.handleTranscriptsScoped)
	mux.HandleFunc("/ask", s.handleAsk)
	mux.HandleFunc("/ask/async", s.handleAskAsync)
	mux.HandleFunc("/ask/async/", s.handleAskAsyncScoped)
	return withCORS(mux)
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *Server) handleTranscripts(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		transcripts, err := s.transcriptRepo.ListTranscripts(r.Context())
		if err != nil {
			writeErr(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"transcripts": transcripts})
	case http.MethodPost:
		s.handleTranscriptUpload(w, r)
	default:
		writeErr(w, http.StatusMethodNotAllowed, fmt.Errorf("method not allowed"))
	}
}

func (s *Server) handleTranscriptUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(64 << 20); err != nil {
		writeErr(w, http.StatusBadRequest, fmt.Errorf("invalid multipart form: %w", err))
		return
	}
	fh, ok := firstSingleFile(r.MultipartForm.File)
	if !ok {
		writeErr(w, http.StatusBadRequest, fmt.Errorf("no files provided"))
		return
	}
	text, err := extractUploadText(fh)
	if err != nil {
		writeErr(w, http.StatusBadRequest, err)
		return
	}
	text = util.SanitizeTranscript(text)
	if text == "" {
		writeErr(w, http.StatusBadRequest, util.ErrNoExtractableText)
		return
	}

	transcriptID := util.SHA256Hex([]byte(text))
	t := models.Transcript{
		TranscriptID: transcriptID,
		Title:        strings.TrimSpace(r.FormValue("title")),
		Filename:     filepath.Base(fh.Filename),
		Text:         text,
		Status:       "ready",
	}
	if err := s.transcriptRepo.UpsertTranscript(r.Context(), t); err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	artifactPath := filepath.Join(s.cfg.DataOutRoot, "transcripts", transcriptID, "transcript.txt")
	if err := util.WriteTextAtomic(artifactPath, text); err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"transcript_id": transcriptID,
		"filename":      t.Filename,
		"chars":         len([]rune(text)),
	})
}

func (s *Server) handleTranscriptsScoped(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(strings.Trim(strings.TrimPrefix(r.URL.Path, "/transcripts/"), "/"), "/")
	if len(parts) < 1 || parts[0] == "" {
		writeErr(w, http.StatusNotFound, fmt.Errorf("not found"))
		return
	}
	transcriptID := parts[0]

	if len(parts) == 1 {
		if r.Method != http.MethodGet {
			writeErr(w, http.StatusMethodNotAllowed, fmt.Errorf("method not allowed"))
			return
		}
		t, ok, err := s.transcriptRepo.GetTranscript(r.Context(), transcriptID)
		if err != nil {
			writeErr(w, http.StatusInternalServerError, err)
			return
		}
		if !ok {
			writeErr(w, http.StatusNotFound, fmt.Errorf("transcript not found"))
			return
		}
		writeJSON(w, http.StatusOK, t)
		return
	}

	if len(parts) == 2 && parts[1] == "suggest" {
		if r.Method != http.MethodGet {
			writeErr(w, http.StatusMethodNotAllowed, fmt.Errorf("method not allowed"))
			return
		}
		t, ok, err := s.transcriptRepo.GetTranscript(r.Context(), transcriptID)
		if err != nil {
			writeErr(w, http.StatusInternalServerError, err)
			return
		}
		if !ok {
			writeErr(w, http.StatusNotFound, fmt.Errorf("transcript not found"))
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"transcript_id": transcriptID,
			"questions":     qa.Suggest(t.Text, s.cfg.SuggestMax),
		})
		return
	}

	if len(parts) == 2 && parts[1] == "sessions" {
		if r.Method != http.MethodGet {
			writeErr(w, http.StatusMethodNotAllowed, fmt.Errorf("method not allowed"))
			return
		}
		sessions, err := s.sessionRepo.ListSessionsByTranscript(r.Context(), transcriptID)
		if err != nil {
			writeErr(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"sessions": sessions})
		return
	}

	writeErr(w, http.StatusNotFound, fmt.Errorf("not found"))
}

type askRequest struct {
	TranscriptID string  `json:"transcript_id"`
	Question     string  `json:"question"`
	ChunkSize    int     `json:"chunk_size,omitempty"`
	ChunkOverlap int     `json:"chunk_overlap,omitempty"`
	Threshold    float64 `json:"threshold,omitempty"`
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErr(w, http.StatusMethodNotAllowed, fmt.Errorf("method not allowed"))
		return
	}
	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, fmt.Errorf("invalid json: %w", err))
		return
	}
	req.Question = strings.TrimSpace(req.Question)
	if req.TranscriptID == "" || req.Question == "" {
		writeErr(w, http.StatusBadRequest, fmt.Errorf("transcript_id and question are required"))
		return
	}
	t, ok, err := s.transcriptRepo.GetTranscript(r.Context(), req.TranscriptID)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	if !ok {
		writeErr(w, http.StatusNotFound, fmt.Errorf("transcript not found"))
		return
	}

	opts := qa.OptionsFromConfig(s.cfg)
	if req.ChunkSize > 0 {
		opts.ChunkSize = req.ChunkSize
	}
	if req.ChunkOverlap > 0 {
		opts.ChunkOverlap = req.ChunkOverlap
	}
	if req.Threshold > 0 {
		opts.Threshold = req.Threshold
	}
	res, err := s.engine.AnswerWithOptions(r.Context(), t.Text, req.Question, opts)
	if err != nil {
		writeErr(w, askErrorStatus(err), err)
		return
	}

	session := models.QASession{
		SessionID:    uuid.NewString(),
		TranscriptID: req.TranscriptID,
		Question:     util.NormalizeQuestion(req.Question),
		Answer:       res.Answer,
		Confidence:   res.Confidence,
		Abstained:    res.Abstained,
		SourceStart:  -1,
		SourceEnd:    -1,
	}
	if res.HasOffset {
		session.SourceStart = res.Start
		session.SourceEnd = res.End
		session.SourceSnippet = sourceSnippet(t.Text, res.Start, res.End)
	}
	if err := s.sessionRepo.InsertSession(r.Context(), session); err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"session_id": session.SessionID,
		"result":     res,
		"snippet":    session.SourceSnippet,
	})
}

func (s *Server) handleAskAsync(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErr(w, http.StatusMethodNotAllowed, fmt.Errorf("method not allowed"))
		return
	}
	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, fmt.Errorf("invalid json: %w", err))
		return
	}
	req.Question = strings.TrimSpace(req.Question)
	if req.TranscriptID == "" || req.Question == "" {
		writeErr(w, http.StatusBadRequest, fmt.Errorf("transcript_id and question are required"))
		return
	}
	wfID := "answer-" + req.TranscriptID[:min(12, len(req.TranscriptID))] + "-" + uuid.NewString()[:8]
	we, err := s.temporal.ExecuteWorkflow(r.Context(), tclient.StartWorkflowOptions{
		ID:                                       wfID,
		TaskQueue:                                s.cfg.TemporalTaskQueue,
		WorkflowIDReusePolicy:                    enumspb.WORKFLOW_ID_REUSE_POLICY_ALLOW_DUPLICATE,
		WorkflowExecutionErrorWhenAlreadyStarted: true,
	}, workflows.AnswerWorkflow, workflows.AnswerInput{
		TranscriptID: req.TranscriptID,
		Question:     req.Question,
		ChunkSize:    req.ChunkSize,
		ChunkOverlap: req.ChunkOverlap,
		Threshold:    orDefault(req.Threshold, s.cfg.ConfidenceThreshold),
		MaxParallel:  s.cfg.ExtractParallelism,
	})
	if err != nil {
		writeErr(w, http.StatusConflict, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]any{"workflow_id": we.GetID(), "run_id": we.GetRunID()})
}

func (s *Server) handleAskAsyncScoped(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErr(w, http.StatusMethodNotAllowed, fmt.Errorf("method not allowed"))
		return
	}
	wfID := strings.Trim(strings.TrimPrefix(r.URL.Path, "/ask/async/"), "/")
	if wfID == "" {
		writeErr(w, http.StatusNotFound, fmt.Errorf("not found"))
		return
	}
	var prog workflows.AnswerProgress
	resp, err := s.temporal.QueryWorkflow(r.Context(), wfID, "", workflows.QueryGetAnswerProgress)
	if err != nil {
		writeErr(w, http.StatusNotFound, err)
		return
	}
	if err := resp.Get(&prog); err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	body := map[string]any{"progress": prog}
	if prog.Status == "completed" {
		var out workflows.AnswerOutput
		if err := s.temporal.GetWorkflow(r.Context(), wfID, "").Get(r.Context(), &out); err == nil {
			body["session_id"] = out.SessionID
			body["result"] = out.Result
		}
	}
	writeJSON(w, http.StatusOK, body)
}

// extractUploadText reads an uploaded transcript: plain text as-is, PDF
// through text extraction with word-boundary repair.
func extractUploadText(fh *multipart.FileHeader) (string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer func() {
		_ = src.Close()
	}()

	if strings.HasSuffix(strings.ToLower(fh.Filename), ".pdf") {
		tmp, err := os.CreateTemp("", "upload-*.pdf")
		if err != nil {
			return "", fmt.Errorf("create temp file: %w", err)
		}
		defer func() {
			_ = os.Remove(tmp.Name())
		}()
		if _, err := io.Copy(tmp, src); err != nil {
			_ = tmp.Close()
			return "", fmt.Errorf("write upload: %w", err)
		}
		if err := tmp.Close(); err != nil {
			return "", err
		}
		return extractPDFText(tmp.Name())
	}

	b, err := io.ReadAll(src)
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	return string(b), nil
}

func extractPDFText(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	reader, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extract pdf text: %w", err)
	}
	buf := new(strings.Builder)
	if _, err := io.Copy(buf, reader); err != nil {
		return "", fmt.Errorf("read extracted text: %w", err)
	}
	text := strings.TrimSpace(buf.String())
	if text == "" {
		return "", util.ErrNoExtractableText
	}
	return util.RestoreWordBoundaries(text), nil
}

// askErrorStatus maps engine errors to HTTP statuses: bad per-request
// overrides and empty questions are the caller's fault, a fully failed
// extraction backend is a bad gateway, anything else is internal.
func askErrorStatus(err error) int {
	switch {
	case errors.Is(err, util.ErrBadChunkConfig),
		errors.Is(err, util.ErrEmptyQuestion),
		errors.Is(err, util.ErrNoExtractableText):
		return http.StatusBadRequest
	case errors.Is(err, util.ErrExtractionUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func sourceSnippet(text string, start, end int) string {
	runes := []rune(text)
	lo := start - 50
	if lo < 0 {
		lo = 0
	}
	hi := end + 50
	if hi > len(runes) {
		hi = len(runes)
	}
	if lo >= hi {
		return ""
	}
	return strings.TrimSpace(string(runes[lo:hi]))
}

func firstSingleFile(m map[string][]*multipart.FileHeader) (*multipart.FileHeader, bool) {
	for _, v := range m {
		if len(v) > 0 {
			return v[0], true
		}
	}
	return nil, false
}

func orDefault(v, fallback float64) float64 {
	if v > 0 {
		return v
	}
	return fallback
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, err error) {
	apiErr := toAPIError(code, err)
	writeJSON(w, code, map[string]any{
		"error": map[string]any{
			"code":    apiErr.Code,
			"message": apiErr.Message,
		},
	})
}

type apiError struct {
	Code    string
	Message string
}

func toAPIError(status int, err error) apiError {
	msg := "Request failed."
	code := "VQ-API-4000"
	raw := ""
	if err != nil {
		raw = strings.ToLower(err.Error())
	}

	switch {
	case status >= 500 && status != http.StatusBadGateway:
		switch {
		case strings.Contains(raw, "relation") && strings.Contains(raw, "does not exist"):
			return apiError{
				Code:    "VQ-DB-5001",
				Message: "Database schema is not initialized. Run migrations and retry.",
			}
		case strings.Contains(raw, "connect"), strings.Contains(raw, "dial tcp"), strings.Contains(raw, "connection refused"):
			return apiError{
				Code:    "VQ-DB-5002",
				Message: "Database connection is unavailable. Check local services and retry.",
			}
		default:
			return apiError{
				Code:    "VQ-API-5000",
				Message: "Internal server error. Please retry or check service logs.",
			}
		}
	case status == http.StatusBadRequest:
		code = "VQ-API-4001"
		msg = "Invalid request. Check inputs and retry."
	case status == http.StatusNotFound:
		code = "VQ-API-4004"
		msg = "Requested resource was not found."
	case status == http.StatusConflict:
		code = "VQ-API-4009"
		msg = "Operation conflicts with current state. Retry after checking status."
	case status == http.StatusMethodNotAllowed:
		code = "VQ-API-4005"
		msg = "This endpoint does not support the requested method."
	case status == http.StatusBadGateway:
		code = "VQ-API-5020"
		msg = "Answer extraction is unavailable. Retry shortly."
	}

	// For 4xx, keep user-safe validation context only.
	if status >= 400 && status < 500 && err != nil {
		switch {
		case strings.Contains(raw, "transcript_id and question are required"):
			msg = "Both transcript_id and question are required."
		case strings.Contains(raw, "transcript not found"):
			msg = "Transcript was not found. Upload it first."
		case strings.Contains(raw, "no files provided"):
			msg = "Attach exactly one .txt or .pdf file."
		case strings.Contains(raw, "no extractable text"):
			msg = "The uploaded file contains no extractable text."
		case strings.Contains(raw, "chunk overlap"):
			msg = "chunk_overlap must be smaller than chunk_size."
		case strings.Contains(raw, "question is empty"):
			msg = "Question must not be empty."
		}
	}
	return apiError{Code: code, Message: msg}
}

func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
