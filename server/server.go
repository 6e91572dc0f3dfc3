// Package server exposes the orchestration engine over HTTP: a REST chat
// endpoint, a websocket endpoint that relays the event stream live, and
// utility endpoints for customers, demo scenarios and conversation cleanup.
package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/commercemesh/commercemesh/commerce"
	"github.com/commercemesh/commercemesh/conversation"
	"github.com/commercemesh/commercemesh/core"
	"github.com/commercemesh/commercemesh/logging"
	"github.com/commercemesh/commercemesh/orchestrator"
)

// ModelDescriptor is the health-endpoint view of one serving endpoint.
type ModelDescriptor struct {
	Name     string `json:"name"`
	Endpoint string `json:"endpoint"`
	Slice    string `json:"slice"`
}

// Server handles the HTTP surface of the mesh.
type Server struct {
	engine    *orchestrator.Orchestrator
	store     conversation.Store
	customers commerce.CustomerRepo
	models    map[string]ModelDescriptor
	scripted  bool
	logger    logging.Logger
}

// Options configure a Server.
type Options struct {
	Logger logging.Logger
}

// New builds the HTTP server over the orchestration engine.
func New(
	engine *orchestrator.Orchestrator,
	store conversation.Store,
	customers commerce.CustomerRepo,
	models map[string]ModelDescriptor,
	scripted bool,
	optFns ...func(o *Options),
) *Server {
	opts := Options{Logger: logging.NopLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Server{
		engine:    engine,
		store:     store,
		customers: customers,
		models:    models,
		scripted:  scripted,
		logger:    opts.Logger,
	}
}

// Router builds the chi route tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(cors)

	r.Post("/chat", s.handleChat)
	r.Get("/ws", s.handleWS)
	r.Get("/health", s.handleHealth)
	r.Get("/customers", s.handleListCustomers)
	r.Get("/customers/{customerID}", s.handleGetCustomer)
	r.Get("/scenarios", s.handleScenarios)
	r.Delete("/conversations/{conversationID}", s.handleClearConversation)
	return r
}

func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type chatRequest struct {
	Message        string `json:"message"`
	CustomerID     string `json:"customer_id"`
	ConversationID string `json:"conversation_id"`
	Image          string `json:"image"`
}

type chatResponse struct {
	ConversationID string              `json:"conversation_id"`
	Response       string              `json:"response"`
	Agent          string              `json:"agent"`
	Model          string              `json:"model"`
	Slice          string              `json:"slice"`
	Classification core.Classification `json:"classification"`
	Events         []core.Event        `json:"events"`
	TotalLatencyMS int64               `json:"total_latency_ms"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.CustomerID == "" {
		req.CustomerID = "C-1001"
	}
	if req.ConversationID == "" {
		req.ConversationID = uuid.NewString()
	}

	result, err := s.engine.ProcessTurn(r.Context(), orchestrator.TurnRequest{
		ConversationID: req.ConversationID,
		CustomerID:     req.CustomerID,
		Message:        req.Message,
		Image:          req.Image,
	})
	if err != nil {
		s.logger.Error("turn processing failed", "error", err)
		writeError(w, http.StatusInternalServerError, "processing failed")
		return
	}

	writeJSON(w, http.StatusOK, turnView(result))
}

func turnView(result *core.TurnResult) chatResponse {
	return chatResponse{
		ConversationID: result.ConversationID,
		Response:       result.Response,
		Agent:          result.Agent,
		Model:          result.Backend.Model,
		Slice:          result.Backend.Slice,
		Classification: result.Classification,
		Events:         result.Events,
		TotalLatencyMS: result.TotalLatency.Milliseconds(),
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "healthy",
		"scripted": s.scripted,
		"models":   s.models,
	})
}

func (s *Server) handleListCustomers(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"customers": s.customers.List()})
}

func (s *Server) handleGetCustomer(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "customerID")
	customer, ok := s.customers.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "customer not found")
		return
	}
	writeJSON(w, http.StatusOK, customer)
}

func (s *Server) handleClearConversation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "conversationID")
	if err := s.store.Clear(r.Context(), id); err != nil && err != conversation.ErrNotFound {
		s.logger.Error("conversation clear failed", "conversation_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "clear failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
