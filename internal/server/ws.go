package server

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	errs "github.com/matzehuels/coastlines/pkg/errors"
	"github.com/matzehuels/coastlines/pkg/pipeline"
)

// Websocket message types sent by the server.
const (
	MessageProgress = "progress"
	MessageResult   = "result"
	MessageError    = "error"
)

// wsMessage is one server-to-client websocket frame. Exactly one of the
// payload fields is set, according to Type.
type wsMessage struct {
	Type       string           `json:"type"`
	Stage      pipeline.Stage   `json:"stage,omitempty"`
	DurationMS float64          `json:"duration_ms,omitempty"`
	Result     *terrainResponse `json:"result,omitempty"`
	Error      *errorBody       `json:"error,omitempty"`
}

// handleWebSocket generates one terrain per options message received, so a
// client regenerates by sending new options on the same connection.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Debug("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()
	conn.SetReadLimit(maxBodyBytes)

	var mu sync.Mutex
	send := func(m wsMessage) error {
		mu.Lock()
		defer mu.Unlock()
		_ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
		return conn.WriteJSON(m)
	}

	for {
		var opts pipeline.Options
		if err := conn.ReadJSON(&opts); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Debug("websocket read failed", "error", err)
			}
			return
		}

		opts.Progress = func(stage pipeline.Stage, d time.Duration) {
			_ = send(wsMessage{Type: MessageProgress, Stage: stage, DurationMS: ms(d.Seconds())})
		}
		res, err := s.execute(r.Context(), opts)
		if err != nil {
			code := errs.GetCode(err)
			if code == "" {
				code = errs.ErrCodeInternal
			}
			if sendErr := send(wsMessage{Type: MessageError, Error: &errorBody{Code: code, Message: errs.UserMessage(err)}}); sendErr != nil {
				return
			}
			continue
		}

		resp := newTerrainResponse(res)
		if err := send(wsMessage{Type: MessageResult, Result: &resp}); err != nil {
			return
		}
	}
}
