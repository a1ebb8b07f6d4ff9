package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/dogfinder/dogfinder/commands"
	"github.com/dogfinder/dogfinder/gesture"
	"github.com/dogfinder/dogfinder/render"
	"github.com/dogfinder/dogfinder/utils"
)

// Live gesture methods, served only over websocket. Each connection owns one
// recognizer.
const (
	MethodGestureStart  = "gesture_start"
	MethodGestureMove   = "gesture_move"
	MethodGestureEnd    = "gesture_end"
	MethodGestureCancel = "gesture_cancel"
)

type wsConnection struct {
	conn    *websocket.Conn
	writeMu sync.Mutex

	server     *Server
	recognizer *gesture.Recognizer
}

// PointerParams are the params of gesture_start and gesture_move.
type PointerParams struct {
	X *float64 `json:"x"`
	Y *float64 `json:"y"`
}

// GestureEndParams are the params of gesture_end and gesture_cancel.
type GestureEndParams struct {
	DryRun bool `json:"dryRun,omitempty"`
}

// GestureState describes the live drag after a start or move.
type GestureState struct {
	Session    gesture.Session    `json:"session"`
	Threshold  float64            `json:"threshold"`
	Preview    string             `json:"preview"`
	Indicators []render.Indicator `json:"indicators"`
}

func newUpgrader(enableCORS bool) *websocket.Upgrader {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
	}

	if enableCORS {
		upgrader.CheckOrigin = func(r *http.Request) bool {
			return true
		}
	} else {
		upgrader.CheckOrigin = isSameOrigin
	}

	return &upgrader
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	threshold, err := commands.ResolveThreshold(0)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	conn, err := newUpgrader(s.enableCORS).Upgrade(w, r, nil)
	if err != nil {
		utils.Warn("WebSocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	wsConn := &wsConnection{
		conn:       conn,
		server:     s,
		recognizer: gesture.New(gesture.WithThreshold(threshold)),
	}

	for {
		messageType, message, err := conn.ReadMessage()
		if err != nil {
			// connection closed or error
			utils.Verbose("WebSocket connection closed: %v", err)
			break
		}

		if messageType != websocket.TextMessage {
			_ = wsConn.sendError(nil, ErrCodeInvalidRequest, "Invalid Request", "only text messages accepted for requests")
			continue
		}

		wsConn.handleMessage(r.Context(), message)
	}
}

func isSameOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}

	originURL, err := url.Parse(origin)
	if err != nil {
		return false
	}

	return originURL.Host == r.Host
}

func (wsc *wsConnection) handleMessage(ctx context.Context, message []byte) {
	var req JSONRPCRequest
	if err := json.Unmarshal(message, &req); err != nil {
		_ = wsc.sendError(nil, ErrCodeParseError, "Parse error", "expecting jsonrpc payload")
		return
	}

	if req.JSONRPC != "2.0" {
		_ = wsc.sendError(req.ID, ErrCodeInvalidRequest, "Invalid Request", "'jsonrpc' must be '2.0'")
		return
	}

	if req.ID == nil {
		_ = wsc.sendError(nil, ErrCodeInvalidRequest, "Invalid Request", "'id' field is required")
		return
	}

	if req.Method == "" {
		_ = wsc.sendError(req.ID, ErrCodeInvalidRequest, "Invalid Request", "'method' is required")
		return
	}

	// shutdown is not supported over WebSocket
	if req.Method == MethodShutdown {
		_ = wsc.sendError(req.ID, ErrCodeMethodNotFound, "Method not supported", "server.shutdown not supported over WebSocket, use HTTP /rpc endpoint")
		return
	}

	utils.Info("WebSocket Request ID: %v, Method: %s, Params: %s", req.ID, req.Method, string(req.Params))

	wsc.handleMethodCall(ctx, req)
}

func (wsc *wsConnection) handleMethodCall(ctx context.Context, req JSONRPCRequest) {
	handler, exists := wsc.gestureHandler(req.Method)
	if !exists {
		handler, exists = GetMethodRegistry()[req.Method]
	}
	if !exists {
		wsc.server.metrics.ObserveRequest(req.Method, "not_found", 0)
		_ = wsc.sendError(req.ID, ErrCodeMethodNotFound, "Method not found", req.Method+" not found")
		return
	}

	result, err := wsc.server.call(ctx, req.Method, handler, req.Params)
	if err != nil {
		utils.Warn("Error executing method %s: %v", req.Method, err)
		code, message := errorCode(err)
		_ = wsc.sendError(req.ID, code, message, err.Error())
		return
	}

	_ = wsc.sendResponse(req.ID, result)
}

func (wsc *wsConnection) gestureHandler(method string) (HandlerFunc, bool) {
	switch method {
	case MethodGestureStart:
		return wsc.handleGestureStart, true
	case MethodGestureMove:
		return wsc.handleGestureMove, true
	case MethodGestureEnd:
		return wsc.handleGestureEnd, true
	case MethodGestureCancel:
		return wsc.handleGestureCancel, true
	}
	return nil, false
}

func decodePointer(params json.RawMessage) (float64, float64, error) {
	var p PointerParams
	if err := decodeParams(params, &p, "x, y"); err != nil {
		return 0, 0, err
	}
	if p.X == nil || p.Y == nil {
		return 0, 0, invalidParams(fmt.Errorf("'x' and 'y' are required"))
	}
	return *p.X, *p.Y, nil
}

func (wsc *wsConnection) state() *GestureState {
	session := wsc.recognizer.Session()
	threshold := wsc.recognizer.Threshold()
	indicators := render.Indicators(session, threshold)
	if indicators == nil {
		indicators = []render.Indicator{}
	}
	return &GestureState{
		Session:    session,
		Threshold:  threshold,
		Preview:    wsc.recognizer.Preview().String(),
		Indicators: indicators,
	}
}

func (wsc *wsConnection) handleGestureStart(ctx context.Context, params json.RawMessage) (interface{}, error) {
	x, y, err := decodePointer(params)
	if err != nil {
		return nil, err
	}
	wsc.recognizer.Start(x, y)
	return wsc.state(), nil
}

func (wsc *wsConnection) handleGestureMove(ctx context.Context, params json.RawMessage) (interface{}, error) {
	x, y, err := decodePointer(params)
	if err != nil {
		return nil, err
	}
	wsc.recognizer.Move(x, y)
	return wsc.state(), nil
}

func (wsc *wsConnection) handleGestureEnd(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var p GestureEndParams
	if err := decodeParams(params, &p, ""); err != nil {
		return nil, err
	}
	return result(commands.DirectionCommand(ctx, wsc.recognizer.End(), p.DryRun))
}

func (wsc *wsConnection) handleGestureCancel(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var p GestureEndParams
	if err := decodeParams(params, &p, ""); err != nil {
		return nil, err
	}
	return result(commands.DirectionCommand(ctx, wsc.recognizer.Cancel(), p.DryRun))
}

func (wsc *wsConnection) sendResponse(id interface{}, result interface{}) error {
	response := JSONRPCResponse{
		JSONRPC: "2.0",
		Result:  result,
		ID:      id,
	}
	return wsc.sendJSON(response)
}

func (wsc *wsConnection) sendError(id interface{}, code int, message string, data interface{}) error {
	response := JSONRPCResponse{
		JSONRPC: "2.0",
		Error: map[string]interface{}{
			"code":    code,
			"message": message,
			"data":    data,
		},
		ID: id,
	}
	return wsc.sendJSON(response)
}

func (wsc *wsConnection) sendJSON(v interface{}) error {
	wsc.writeMu.Lock()
	defer wsc.writeMu.Unlock()
	return wsc.conn.WriteJSON(v)
}
