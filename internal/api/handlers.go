package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nkchoudhary2000/interview-agentic-flow-v1/internal/fileio"
	"github.com/nkchoudhary2000/interview-agentic-flow-v1/internal/models"
	"github.com/nkchoudhary2000/interview-agentic-flow-v1/internal/store"
)

const maxUploadBytes = 32 << 20

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title string `json:"title"`
	}
	if r.Body != nil {
		// An empty body is fine; the title defaults.
		json.NewDecoder(r.Body).Decode(&req)
	}
	if req.Title == "" {
		req.Title = "New Chat"
	}

	session, err := s.store.CreateSession(r.Context(), req.Title)
	if err != nil {
		s.failRequest(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, session)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	session, err := s.store.GetSession(r.Context(), r.PathValue("id"))
	if errors.Is(err, store.ErrSessionNotFound) {
		s.writeError(w, http.StatusNotFound, "Session not found")
		return
	}
	if err != nil {
		s.failRequest(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, session)
}

func (s *Server) handleGetMessages(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")
	if _, err := s.store.GetSession(r.Context(), sessionID); err != nil {
		if errors.Is(err, store.ErrSessionNotFound) {
			s.writeError(w, http.StatusNotFound, "Session not found")
			return
		}
		s.failRequest(w, err)
		return
	}

	messages, err := s.store.ListMessages(r.Context(), sessionID)
	if err != nil {
		s.failRequest(w, err)
		return
	}
	if messages == nil {
		messages = []*models.ChatMessage{}
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{"messages": messages})
}

type sendMessageRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	req, uploaded, err := s.parseSendMessage(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	session, err := s.store.GetSession(r.Context(), req.SessionID)
	if errors.Is(err, store.ErrSessionNotFound) {
		s.writeError(w, http.StatusNotFound, "Session not found")
		return
	}
	if err != nil {
		s.failRequest(w, err)
		return
	}

	userMsg := &models.ChatMessage{
		SessionID: session.ID,
		Role:      models.RoleUser,
		Content:   req.Message,
		Mode:      models.ModeGeneralChat,
	}
	if err := s.store.SaveMessage(r.Context(), userMsg); err != nil {
		s.failRequest(w, err)
		return
	}

	if uploaded != nil {
		record := &models.UploadedFileRecord{
			SessionID:        session.ID,
			MessageID:        userMsg.ID,
			Path:             uploaded.Path,
			FileType:         uploaded.Type,
			OriginalFilename: uploaded.Name,
			Status:           "completed",
		}
		if err := s.store.SaveUpload(r.Context(), record); err != nil {
			s.logger.Warn("upload record not persisted", map[string]interface{}{"error": err.Error()})
		}
	}

	started := time.Now()
	env := s.router.Route(r.Context(), req.Message, uploaded)

	assistantMsg, err := s.saveAssistantMessage(r, session.ID, env)
	if err != nil {
		s.failRequest(w, err)
		return
	}

	exec := &models.AgentExecution{
		SessionID:       session.ID,
		MessageID:       assistantMsg.ID,
		AgentType:       "router",
		InputData:       map[string]interface{}{"message": req.Message},
		OutputData:      envelopeAsMap(env),
		ExecutionTimeMS: int(time.Since(started).Milliseconds()),
		Success:         env.IsSuccess(),
	}
	if uploaded != nil {
		exec.InputData["file"] = uploaded.Path
	}
	if err := s.store.SaveExecution(r.Context(), exec); err != nil {
		s.logger.Warn("execution record not persisted", map[string]interface{}{"error": err.Error()})
	}

	if env.Mode == models.ModeCSVAnalysis && env.IsSuccess() && env.Analysis != nil {
		if err := s.cache.Put(r.Context(), session.ID, env.Analysis); err != nil {
			s.logger.Warn("analysis not cached", map[string]interface{}{"error": err.Error()})
		}
	}

	if err := s.store.TouchSession(r.Context(), session.ID); err != nil {
		s.logger.Warn("session timestamp not updated", map[string]interface{}{"error": err.Error()})
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"user_message":      userMsg,
		"assistant_message": assistantMsg,
		"result":            env,
	})
}

func (s *Server) parseSendMessage(r *http.Request) (*sendMessageRequest, *models.UploadedFile, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	if mediaType == "multipart/form-data" {
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			return nil, nil, fmt.Errorf("invalid multipart body: %v", err)
		}
		req := &sendMessageRequest{
			SessionID: r.FormValue("session_id"),
			Message:   r.FormValue("message"),
		}
		if req.SessionID == "" {
			return nil, nil, errors.New("session_id is required")
		}

		file, header, err := r.FormFile("file")
		if err == http.ErrMissingFile {
			return req, nil, nil
		}
		if err != nil {
			return nil, nil, fmt.Errorf("invalid file part: %v", err)
		}
		defer file.Close()

		uploaded, err := s.persistUpload(file, header.Filename)
		if err != nil {
			return nil, nil, err
		}
		return req, uploaded, nil
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxUploadBytes))
	if err != nil {
		return nil, nil, fmt.Errorf("read body: %v", err)
	}

	if p, ok := s.registry.Get("chat-message"); ok {
		if err := p.ValidateInput(body); err != nil {
			return nil, nil, err
		}
	}

	var req sendMessageRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, nil, fmt.Errorf("invalid JSON body: %v", err)
	}
	if req.SessionID == "" {
		return nil, nil, errors.New("session_id is required")
	}
	return &req, nil, nil
}

func (s *Server) persistUpload(file io.Reader, originalName string) (*models.UploadedFile, error) {
	if err := os.MkdirAll(s.uploadsDir, 0o755); err != nil {
		return nil, fmt.Errorf("uploads directory unavailable: %v", err)
	}

	safeName := fileio.SanitizeFilename(originalName)
	path := filepath.Join(s.uploadsDir, uuid.NewString()+"_"+safeName)

	dst, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("save upload: %v", err)
	}
	defer dst.Close()
	if _, err := io.Copy(dst, file); err != nil {
		return nil, fmt.Errorf("save upload: %v", err)
	}

	fileType := "other"
	switch strings.ToLower(filepath.Ext(originalName)) {
	case ".pdf":
		fileType = "pdf"
	case ".csv":
		fileType = "csv"
	}

	return &models.UploadedFile{Path: path, Type: fileType, Name: originalName}, nil
}

type csvActionRequest struct {
	SessionID string `json:"session_id"`
	ActionID  int    `json:"action_id"`
}

func (s *Server) handleCSVAction(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxUploadBytes))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "read body failed")
		return
	}

	if p, ok := s.registry.Get("csv-action"); ok {
		if err := p.ValidateInput(body); err != nil {
			s.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	var req csvActionRequest
	if err := json.Unmarshal(body, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.SessionID == "" {
		s.writeError(w, http.StatusBadRequest, "session_id is required")
		return
	}

	session, err := s.store.GetSession(r.Context(), req.SessionID)
	if errors.Is(err, store.ErrSessionNotFound) {
		s.writeError(w, http.StatusNotFound, "Session not found")
		return
	}
	if err != nil {
		s.failRequest(w, err)
		return
	}

	analysis, err := s.cache.Get(r.Context(), session.ID)
	if err != nil {
		s.failRequest(w, err)
		return
	}
	if analysis == nil {
		s.writeError(w, http.StatusBadRequest, "No CSV file found. Please upload a CSV file first.")
		return
	}

	env := s.router.ExecuteCSVAction(r.Context(), analysis.FilePath, req.ActionID, analysis)

	assistantMsg, err := s.saveAssistantMessage(r, session.ID, env)
	if err != nil {
		s.failRequest(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"assistant_message": assistantMsg,
		"result":            env,
	})
}

func (s *Server) saveAssistantMessage(r *http.Request, sessionID string, env *models.Envelope) (*models.ChatMessage, error) {
	msg := &models.ChatMessage{
		SessionID: sessionID,
		Role:      models.RoleAssistant,
		Content:   formatAssistantContent(env),
		Mode:      env.Mode,
		Metadata:  envelopeAsMap(env),
	}
	if err := s.store.SaveMessage(r.Context(), msg); err != nil {
		return nil, err
	}
	return msg, nil
}

func envelopeAsMap(env *models.Envelope) map[string]interface{} {
	data, err := json.Marshal(env)
	if err != nil {
		return map[string]interface{}{"status": string(env.Status)}
	}
	var m map[string]interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		return map[string]interface{}{"status": string(env.Status)}
	}
	return m
}
