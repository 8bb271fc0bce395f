package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/sprite-ai/veloratio/internal/drivetrain"
	"github.com/sprite-ai/veloratio/internal/model"
	"github.com/sprite-ai/veloratio/internal/report"
	"github.com/sprite-ai/veloratio/internal/ride"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024 * 16,
	WriteBufferSize: 1024 * 16,
	CheckOrigin: func(r *http.Request) bool {
		return true // local dashboards only
	},
}

// WebSocket message types from client.
const (
	wsMsgSetRider      = "set_rider"
	wsMsgShiftRear     = "shift_rear"
	wsMsgSelectRear    = "select_rear"
	wsMsgToggleFront   = "toggle_front"
	wsMsgRequestAdvice = "request_advice"
	wsMsgSnapshot      = "snapshot"
)

// WebSocket message types to client.
const (
	wsMsgTelemetry = "telemetry"
	wsMsgAdvice    = "advice"
	wsMsgError     = "error"
)

// wsMessage is the envelope for WebSocket messages in both directions.
type wsMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// wsShiftMsg is the payload for "shift_rear" messages.
type wsShiftMsg struct {
	Direction string `json:"direction"`
}

// wsSelectMsg is the payload for "select_rear" messages.
type wsSelectMsg struct {
	Index int `json:"index"`
}

// wsAdviceResponse is sent when a requested tip is still current.
type wsAdviceResponse struct {
	model.AdviceResult
	GearClass string `json:"gear_class"`
}

// wsConn serialises writes; advice replies arrive from another goroutine.
type wsConn struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("websocket upgrade", "err", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	var wg sync.WaitGroup
	defer func() {
		cancel()
		wg.Wait()
	}()

	ws := &wsConn{conn: conn}
	session := ride.FromConfig(s.cfg, s.advisor)
	slog.Debug("websocket session started", "remote", r.RemoteAddr)
	ws.sendTelemetry(session)

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Warn("websocket read", "err", err)
			}
			return
		}

		var msg wsMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			ws.sendError("invalid message format")
			continue
		}

		switch msg.Type {
		case wsMsgSetRider:
			handleWSSetRider(ws, session, msg.Data)
		case wsMsgShiftRear:
			handleWSShift(ws, session, msg.Data)
		case wsMsgSelectRear:
			handleWSSelect(ws, session, msg.Data)
		case wsMsgToggleFront:
			session.ToggleFront()
			ws.sendTelemetry(session)
		case wsMsgSnapshot:
			ws.sendTelemetry(session)
		case wsMsgRequestAdvice:
			wg.Add(1)
			go func() {
				defer wg.Done()
				handleWSAdvice(ctx, ws, session)
			}()
		default:
			ws.sendError("unknown message type: " + msg.Type)
		}
	}
}

func handleWSSetRider(ws *wsConn, session *ride.Session, data json.RawMessage) {
	var o ride.Overrides
	if err := json.Unmarshal(data, &o); err != nil {
		ws.sendError("invalid set_rider data")
		return
	}
	if err := session.Apply(o); err != nil {
		ws.sendError(err.Error())
		return
	}
	ws.sendTelemetry(session)
}

func handleWSShift(ws *wsConn, session *ride.Session, data json.RawMessage) {
	var req wsShiftMsg
	if err := json.Unmarshal(data, &req); err != nil {
		ws.sendError("invalid shift_rear data")
		return
	}
	dir, ok := drivetrain.ParseDirection(req.Direction)
	if !ok {
		ws.sendError("direction must be harder or easier")
		return
	}
	session.ShiftRear(dir)
	ws.sendTelemetry(session)
}

func handleWSSelect(ws *wsConn, session *ride.Session, data json.RawMessage) {
	var req wsSelectMsg
	if err := json.Unmarshal(data, &req); err != nil {
		ws.sendError("invalid select_rear data")
		return
	}
	session.SelectRear(req.Index)
	ws.sendTelemetry(session)
}

// handleWSAdvice asks for a tip and forwards it only if the inputs have not
// moved on in the meantime.
func handleWSAdvice(ctx context.Context, ws *wsConn, session *ride.Session) {
	result, stored := session.RequestAdvice(ctx)
	if !stored || ctx.Err() != nil {
		slog.Debug("advice reply dropped", "stored", stored)
		return
	}
	ws.send(wsMsgAdvice, wsAdviceResponse{
		AdviceResult: result,
		GearClass:    session.Class().String(),
	})
}

func (ws *wsConn) sendTelemetry(session *ride.Session) {
	ws.send(wsMsgTelemetry, report.FromSession(session, true))
}

func (ws *wsConn) send(msgType string, data any) {
	raw, err := json.Marshal(data)
	if err != nil {
		slog.Warn("ws marshal", "err", err)
		return
	}
	ws.mu.Lock()
	defer ws.mu.Unlock()
	if err := ws.conn.WriteJSON(wsMessage{Type: msgType, Data: raw}); err != nil {
		slog.Warn("ws write", "err", err)
	}
}

func (ws *wsConn) sendError(errMsg string) {
	ws.send(wsMsgError, map[string]string{"message": errMsg})
}
