package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dogfinder/dogfinder/utils"
)

const (
	// Parse error: Invalid JSON was received by the server
	ErrCodeParseError = -32700

	// Invalid Request: The JSON sent is not a valid Request object
	ErrCodeInvalidRequest = -32600

	// Method not found: The method does not exist / is not available
	ErrCodeMethodNotFound = -32601

	// Server error: Internal JSON-RPC error
	ErrCodeServerError = -32000

	// Invalid params: Invalid method parameters
	ErrCodeInvalidParams = -32602

	// Internal error: Internal JSON-RPC error
	ErrCodeInternalError = -32603
)

// Server timeouts
const (
	ReadTimeout     = 10 * time.Second
	WriteTimeout    = 30 * time.Second
	IdleTimeout     = 120 * time.Second
	ShutdownTimeout = 5 * time.Second
)

// MethodShutdown asks the server to stop. It is only served over /rpc.
const MethodShutdown = "server.shutdown"

var Version = "dev"

var okResponse = map[string]interface{}{"status": "ok"}

type JSONRPCRequest struct {
	// these fields are all omitempty, so we can report back to client if they are missing
	JSONRPC string          `json:"jsonrpc,omitempty"`
	Method  string          `json:"method,omitempty"`
	Params  json.RawMessage `json:"params,omitempty"`
	ID      interface{}     `json:"id,omitempty"`
}

// JSONRPCResponse represents a JSON-RPC response
type JSONRPCResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	Result  interface{} `json:"result,omitempty"`
	Error   interface{} `json:"error,omitempty"`
	ID      interface{} `json:"id"`
}

// paramsError marks a handler error caused by malformed params.
type paramsError struct {
	err error
}

func (e *paramsError) Error() string {
	return "invalid parameters: " + e.err.Error()
}

func (e *paramsError) Unwrap() error {
	return e.err
}

func invalidParams(err error) error {
	return &paramsError{err: err}
}

// errorCode maps a handler error to its JSON-RPC code.
func errorCode(err error) (int, string) {
	var pe *paramsError
	if errors.As(err, &pe) {
		return ErrCodeInvalidParams, "Invalid params"
	}
	return ErrCodeServerError, "Server error"
}

// Server serves JSON-RPC over HTTP and websocket.
type Server struct {
	addr       string
	enableCORS bool
	metrics    *Metrics
	registry   *prometheus.Registry

	shutdownOnce sync.Once
	shutdown     chan struct{}
}

// New creates a Server listening on addr once started.
func New(addr string, enableCORS bool) *Server {
	reg := prometheus.NewRegistry()
	return &Server{
		addr:       addr,
		enableCORS: enableCORS,
		metrics:    NewMetrics(reg),
		registry:   reg,
		shutdown:   make(chan struct{}),
	}
}

// corsMiddleware handles CORS preflight requests and adds CORS headers to responses.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	if s.enableCORS {
		r.Use(corsMiddleware)
	}

	r.Get("/", sendBanner)
	r.Post("/rpc", s.handleJSONRPC)
	r.Get("/ws", s.handleWebSocket)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	})

	return r
}

// Shutdown asks a running ListenAndServe to stop. It is safe to call more
// than once.
func (s *Server) Shutdown() {
	s.shutdownOnce.Do(func() { close(s.shutdown) })
}

// ListenAndServe serves until ctx is cancelled or a shutdown is requested.
func (s *Server) ListenAndServe(ctx context.Context) error {
	addr, err := utils.NormalizeListenAddr(s.addr)
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  ReadTimeout,
		WriteTimeout: WriteTimeout,
		IdleTimeout:  IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		utils.Info("Starting server on http://%s...", server.Addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		utils.Error("Server on %s stopped: %v", server.Addr, err)
		return err
	case <-ctx.Done():
	case <-s.shutdown:
	}

	utils.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return nil
}

// StartServer runs a Server on addr until ctx is done or it is told to shut down.
func StartServer(ctx context.Context, addr string, enableCORS bool) error {
	return New(addr, enableCORS).ListenAndServe(ctx)
}

func (s *Server) handleJSONRPC(w http.ResponseWriter, r *http.Request) {
	var req JSONRPCRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendJSONRPCError(w, nil, ErrCodeParseError, "Parse error", "expecting jsonrpc payload")
		return
	}

	if req.JSONRPC != "2.0" {
		sendJSONRPCError(w, req.ID, ErrCodeInvalidRequest, "Invalid Request", "'jsonrpc' must be '2.0'")
		return
	}

	if req.ID == nil {
		sendJSONRPCError(w, nil, ErrCodeInvalidRequest, "Invalid Request", "'id' field is required")
		return
	}

	if req.Method == "" {
		sendJSONRPCError(w, req.ID, ErrCodeInvalidRequest, "Invalid Request", "'method' is required")
		return
	}

	utils.Info("Request ID: %v, Method: %s, Params: %s", req.ID, req.Method, string(req.Params))

	if req.Method == MethodShutdown {
		s.metrics.ObserveRequest(req.Method, "ok", 0)
		sendJSONRPCResponse(w, req.ID, okResponse)
		s.Shutdown()
		return
	}

	handler, exists := GetMethodRegistry()[req.Method]
	if !exists {
		s.metrics.ObserveRequest(req.Method, "not_found", 0)
		sendJSONRPCError(w, req.ID, ErrCodeMethodNotFound, "Method not found", fmt.Sprintf("Method '%s' not found", req.Method))
		return
	}

	result, err := s.call(r.Context(), req.Method, handler, req.Params)
	if err != nil {
		utils.Warn("Error executing method %s: %v", req.Method, err)
		code, message := errorCode(err)
		sendJSONRPCError(w, req.ID, code, message, err.Error())
		return
	}

	sendJSONRPCResponse(w, req.ID, result)
}

// call runs handler and records metrics for the outcome.
func (s *Server) call(ctx context.Context, method string, handler HandlerFunc, params json.RawMessage) (interface{}, error) {
	start := time.Now()
	result, err := handler(ctx, params)

	status := "ok"
	if err != nil {
		status = "error"
	}
	s.metrics.ObserveRequest(method, status, time.Since(start))
	s.metrics.ObserveResult(result)
	return result, err
}

func sendJSONRPCResponse(w http.ResponseWriter, id interface{}, result interface{}) {
	response := JSONRPCResponse{
		JSONRPC: "2.0",
		Result:  result,
		ID:      id,
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(response)
}

func sendJSONRPCError(w http.ResponseWriter, id interface{}, code int, message string, data interface{}) {
	response := JSONRPCResponse{
		JSONRPC: "2.0",
		Error: map[string]interface{}{
			"code":    code,
			"message": message,
			"data":    data,
		},
		ID: id,
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(response)
}

func sendBanner(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "ok",
		"name":    "dogfinder",
		"version": Version,
	})
}
