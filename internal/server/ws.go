package server

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/cognicore/tweetcloud/pkg/tweetcloud"
)

const wsWriteWait = 10 * time.Second

// StreamMessage is one websocket frame of /ws/analyze
type StreamMessage struct {
	Type    string           `json:"type"` // item | done | error
	Item    *OutcomeView     `json:"item,omitempty"`
	Result  *AnalyzeResponse `json:"result,omitempty"`
	Error   string           `json:"error,omitempty"`
	Subject string           `json:"subject,omitempty"`
}

// handleAnalyzeWS reads one AnalyzeRequest, streams an "item" frame per
// outcome while processing, then a final "done" or "error" frame.
func (s *Server) handleAnalyzeWS(w http.ResponseWriter, r *http.Request) {
	log := s.logger(r)

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("websocket upgrade", "err", err)
		return
	}
	defer conn.Close()
	conn.SetReadLimit(maxBodyBytes)

	send := func(m StreamMessage) error {
		data, err := api.Marshal(m)
		if err != nil {
			return err
		}
		_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
		return conn.WriteMessage(websocket.TextMessage, data)
	}
	fail := func(msg string) {
		if err := send(StreamMessage{Type: "error", Error: msg}); err != nil {
			log.Warn("websocket write", "err", err)
		}
	}

	_, msg, err := conn.ReadMessage()
	if err != nil {
		log.Warn("websocket read", "err", err)
		return
	}
	req, err := decodeAnalyze(msg)
	if err != nil {
		fail(err.Error())
		return
	}
	if status, reason := s.checkItems(req); status != 0 {
		fail(reason)
		return
	}

	// A dead client does not stop processing; the result is still persisted.
	var writeErr error
	stream := tweetcloud.ObserverFunc(func(subject string, o tweetcloud.Outcome) {
		if writeErr != nil {
			return
		}
		v := viewOutcome(o)
		writeErr = send(StreamMessage{Type: "item", Subject: subject, Item: &v})
	})

	log.Info("analyze stream", "subject", req.Subject, "items", len(req.Items))
	resp, err := s.analyze(r.Context(), req, stream)
	if err != nil {
		log.Error("analyze failed", "subject", req.Subject, "err", err)
		fail("server error: " + err.Error())
		return
	}
	if writeErr != nil {
		log.Warn("websocket client gone", "subject", req.Subject, "err", writeErr)
		return
	}
	if err := send(StreamMessage{Type: "done", Subject: req.Subject, Result: &resp}); err != nil {
		log.Warn("websocket write", "err", err)
		return
	}
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(wsWriteWait))
}
