package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/flowstack-ai/flowstack/internal/workflow"
)

// registerHTTPHandlers sets up the REST routes.
func (s *Server) registerHTTPHandlers(mux *http.ServeMux) {
	mux.HandleFunc("POST /stacks", s.handleCreateStack)
	mux.HandleFunc("GET /stacks", s.handleListStacks)
	mux.HandleFunc("GET /stacks/{id}", s.handleGetStack)
	mux.HandleFunc("PUT /stacks/{id}", s.handleUpdateStack)
	mux.HandleFunc("POST /stacks/{id}/documents", s.handleUploadDocument)
	mux.HandleFunc("GET /stacks/{id}/documents", s.handleListDocuments)
	mux.HandleFunc("POST /stacks/{id}/chat", s.handleChat)
	mux.HandleFunc("GET /tasks/{id}", s.handleGetTask)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCreateStack(w http.ResponseWriter, r *http.Request) {
	var req createStackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeHTTPError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Name == "" {
		writeHTTPError(w, http.StatusBadRequest, "stack name is required")
		return
	}
	st := s.stacks.Create(req.Name, req.Description)
	writeJSON(w, http.StatusCreated, st)
}

func (s *Server) handleListStacks(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.stacks.List())
}

func (s *Server) handleGetStack(w http.ResponseWriter, r *http.Request) {
	st, err := s.stacks.Get(r.PathValue("id"))
	if err != nil {
		writeHTTPError(w, http.StatusNotFound, "stack not found")
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// handleUpdateStack replaces the stack's workflow wholesale. The submitted
// graph must parse and pass validation before it is saved; the validator's
// reason is surfaced verbatim on rejection.
func (s *Server) handleUpdateStack(w http.ResponseWriter, r *http.Request) {
	var req updateStackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeHTTPError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	g, err := workflow.Parse(req.Workflow)
	if err != nil {
		writeHTTPError(w, http.StatusBadRequest, err.Error())
		return
	}
	if ok, reason := workflow.Validate(g); !ok {
		writeHTTPError(w, http.StatusBadRequest, reason)
		return
	}

	st, err := s.stacks.UpdateWorkflow(r.PathValue("id"), req.Workflow)
	if err != nil {
		writeHTTPError(w, http.StatusNotFound, "stack not found")
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// handleUploadDocument registers the upload and dispatches ingestion as a
// detached background task. The response returns immediately with 202;
// completion is observable on the document status and the task.
func (s *Server) handleUploadDocument(w http.ResponseWriter, r *http.Request) {
	stackID := r.PathValue("id")
	if _, err := s.stacks.Get(stackID); err != nil {
		writeHTTPError(w, http.StatusNotFound, "stack not found")
		return
	}

	if err := r.ParseMultipartForm(s.cfg.MaxUploadBytes); err != nil {
		writeHTTPError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeHTTPError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, s.cfg.MaxUploadBytes+1))
	if err != nil {
		writeHTTPError(w, http.StatusBadRequest, "failed to read upload")
		return
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		writeHTTPError(w, http.StatusRequestEntityTooLarge, "upload exceeds size limit")
		return
	}

	embeddingModel := r.FormValue("embedding_model")
	apiKey := r.FormValue("api_key") // passed through, never logged

	doc := s.documents.Create(stackID, header.Filename)
	task := s.taskManager.NewTask("document_ingest", doc.ID)

	// Fire-and-forget: the ingest owns its own context since it outlives
	// this request.
	go func() {
		task.SetStatus(TaskStatusRunning)
		if err := s.pipeline.Ingest(context.Background(), doc.ID, stackID, doc.Filename, data, embeddingModel, apiKey); err != nil {
			task.SetError(err)
			return
		}
		task.SetStatus(TaskStatusCompleted)
	}()

	writeJSON(w, http.StatusAccepted, uploadResponse{Document: doc, TaskID: task.ID})
}

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	stackID := r.PathValue("id")
	if _, err := s.stacks.Get(stackID); err != nil {
		writeHTTPError(w, http.StatusNotFound, "stack not found")
		return
	}
	writeJSON(w, http.StatusOK, s.documents.ListByStack(stackID))
}

func (s *Server) handleGetTask(w http.ResponseWriter, r *http.Request) {
	task, found := s.taskManager.GetTask(r.PathValue("id"))
	if !found {
		writeHTTPError(w, http.StatusNotFound, "task not found")
		return
	}
	writeJSON(w, http.StatusOK, task.Snapshot())
}

// handleChat executes a workflow against the query. The request may carry
// the workflow inline (the editor's unsaved state); otherwise the stack's
// saved workflow runs.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	stackID := r.PathValue("id")
	st, err := s.stacks.Get(stackID)
	if err != nil {
		writeHTTPError(w, http.StatusNotFound, "stack not found")
		return
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeHTTPError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Query == "" {
		writeHTTPError(w, http.StatusBadRequest, "query is required")
		return
	}

	raw := req.Workflow
	if len(raw) == 0 {
		raw = st.Workflow
	}
	if len(raw) == 0 {
		writeHTTPError(w, http.StatusBadRequest, "stack has no workflow")
		return
	}

	g, err := workflow.Parse(raw)
	if err != nil {
		writeHTTPError(w, http.StatusBadRequest, err.Error())
		return
	}

	response, err := s.orchestrator.Execute(r.Context(), stackID, g, req.Query)
	if err != nil {
		if errors.Is(err, workflow.ErrExecution) {
			writeHTTPError(w, http.StatusBadRequest, err.Error())
			return
		}
		slog.Error("workflow execution failed", "stack", stackID, "error", err)
		writeHTTPError(w, http.StatusInternalServerError, "workflow execution failed")
		return
	}
	writeJSON(w, http.StatusOK, chatResponse{Response: response})
}

// --- helpers ---

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeHTTPError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, errorResponse{Error: msg})
}
