package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	cerrors "github.com/nkchoudhary2000/interview-agentic-flow-v1/internal/common/errors"
	"github.com/nkchoudhary2000/interview-agentic-flow-v1/internal/common/logger"
	"github.com/nkchoudhary2000/interview-agentic-flow-v1/internal/models"
	"github.com/nkchoudhary2000/interview-agentic-flow-v1/pkg/registry"
)

// Router is the dispatch surface the HTTP layer talks to.
type Router interface {
	Route(ctx context.Context, message string, uploadedFile *models.UploadedFile) *models.Envelope
	ExecuteCSVAction(ctx context.Context, csvPath string, actionID int, prior *models.CSVAnalysis) *models.Envelope
}

// ConversationStore persists sessions and messages.
type ConversationStore interface {
	CreateSession(ctx context.Context, title string) (*models.ChatSession, error)
	GetSession(ctx context.Context, id string) (*models.ChatSession, error)
	TouchSession(ctx context.Context, id string) error
	SaveMessage(ctx context.Context, msg *models.ChatMessage) error
	ListMessages(ctx context.Context, sessionID string) ([]*models.ChatMessage, error)
	SaveUpload(ctx context.Context, rec *models.UploadedFileRecord) error
	SaveExecution(ctx context.Context, exec *models.AgentExecution) error
}

// AnalysisCache hands the last CSV analysis of a session to the follow-up
// action endpoint.
type AnalysisCache interface {
	Put(ctx context.Context, sessionID string, analysis *models.CSVAnalysis) error
	Get(ctx context.Context, sessionID string) (*models.CSVAnalysis, error)
}

// Server is the HTTP front of the chatbot.
type Server struct {
	router     Router
	store      ConversationStore
	cache      AnalysisCache
	registry   *registry.Registry
	uploadsDir string
	logger     logger.Logger
	mux        *http.ServeMux
}

func NewServer(rt Router, store ConversationStore, cache AnalysisCache, reg *registry.Registry, uploadsDir string, log logger.Logger) *Server {
	s := &Server{
		router:     rt,
		store:      store,
		cache:      cache,
		registry:   reg,
		uploadsDir: uploadsDir,
		logger:     log.With(map[string]interface{}{"component": "http"}),
		mux:        http.NewServeMux(),
	}

	s.mux.HandleFunc("POST /api/sessions", s.handleCreateSession)
	s.mux.HandleFunc("GET /api/sessions/{id}", s.handleGetSession)
	s.mux.HandleFunc("GET /api/sessions/{id}/messages", s.handleGetMessages)
	s.mux.HandleFunc("POST /api/messages", s.handleSendMessage)
	s.mux.HandleFunc("POST /api/csv-action", s.handleCSVAction)
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
	s.mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error("response encode failed", map[string]interface{}{"error": err.Error()})
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}

// failRequest normalizes an internal error, logs it with its category, and
// answers with a 500.
func (s *Server) failRequest(w http.ResponseWriter, err error) {
	std := cerrors.Normalize(err)
	s.logger.Error("request failed", map[string]interface{}{
		"code":     string(std.Code),
		"category": cerrors.GetErrorCategory(std.Code),
		"details":  std.Details,
	})
	s.writeError(w, http.StatusInternalServerError, err.Error())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
