// internal/api/websocket.go
package api

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/memlife/memlife/internal/utils"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// wsRequest is one client frame on the interview socket.
type wsRequest struct {
	Type            string `json:"type"`
	Message         string `json:"message,omitempty"`
	Index           int    `json:"index,omitempty"`
	Topic           string `json:"topic,omitempty"`
	SessionIndex    int    `json:"session_index,omitempty"`
	GhostwriterMode bool   `json:"ghostwriter_mode,omitempty"`
	PhotoStoryMode  bool   `json:"photo_story_mode,omitempty"`
}

// wsResponse is one server frame.
type wsResponse struct {
	Type  string      `json:"type"`
	Data  interface{} `json:"data,omitempty"`
	Error string      `json:"error,omitempty"`
}

// InterviewWebSocket mirrors the interview REST surface over a single
// socket so the client can hold one live conversation connection.
func (h *Handler) InterviewWebSocket(c *gin.Context) {
	userID := currentUserID(c)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		utils.GetLogger().Errorf("websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	// gorilla requires a single writer per connection.
	var writeMu sync.Mutex
	send := func(resp wsResponse) {
		writeMu.Lock()
		defer writeMu.Unlock()
		if err := conn.WriteJSON(resp); err != nil {
			utils.GetLogger().Warnf("websocket write failed for user %s: %v", userID, err)
		}
	}

	sendView := func() {
		view, err := h.interview.View(userID)
		if err != nil {
			send(wsResponse{Type: "error", Error: err.Error()})
			return
		}
		send(wsResponse{Type: "state", Data: view})
	}

	// Initial snapshot so the client can render immediately.
	sendView()

	for {
		var req wsRequest
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				utils.GetLogger().Warnf("websocket closed unexpectedly for user %s: %v", userID, err)
			}
			return
		}

		switch req.Type {
		case "message":
			reply, err := h.interview.SendMessage(c.Request.Context(), userID, req.Message)
			if err != nil {
				send(wsResponse{Type: "error", Error: err.Error()})
				continue
			}
			send(wsResponse{Type: "reply", Data: reply})

		case "edit":
			reply, err := h.interview.EditMessage(userID, req.Index, req.Message)
			if err != nil {
				send(wsResponse{Type: "error", Error: err.Error()})
				continue
			}
			send(wsResponse{Type: "reply", Data: reply})

		case "select_session":
			if err := h.interview.SelectSession(userID, req.SessionIndex); err != nil {
				send(wsResponse{Type: "error", Error: err.Error()})
				continue
			}
			sendView()

		case "next_topic":
			if err := h.interview.NextTopic(userID); err != nil {
				send(wsResponse{Type: "error", Error: err.Error()})
				continue
			}
			sendView()

		case "previous_topic":
			if err := h.interview.PreviousTopic(userID); err != nil {
				send(wsResponse{Type: "error", Error: err.Error()})
				continue
			}
			sendView()

		case "set_override":
			if err := h.interview.SetOverrideTopic(userID, req.Topic); err != nil {
				send(wsResponse{Type: "error", Error: err.Error()})
				continue
			}
			sendView()

		case "clear_override":
			if err := h.interview.ClearOverride(userID); err != nil {
				send(wsResponse{Type: "error", Error: err.Error()})
				continue
			}
			sendView()

		case "set_modes":
			if err := h.interview.SetGhostwriterMode(userID, req.GhostwriterMode); err != nil {
				send(wsResponse{Type: "error", Error: err.Error()})
				continue
			}
			if err := h.interview.SetPhotoStoryMode(userID, req.PhotoStoryMode); err != nil {
				send(wsResponse{Type: "error", Error: err.Error()})
				continue
			}
			sendView()

		case "state":
			sendView()

		default:
			send(wsResponse{Type: "error", Error: "unknown message type: " + req.Type})
		}
	}
}
