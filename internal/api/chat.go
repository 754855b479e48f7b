package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/askbase/askbase/internal/chat"
)

type talkRequest struct {
	Messages []chat.Message `json:"messages"`
	UserID   string         `json:"user_id"`
}

type talkResponse struct {
	Message string `json:"message"`
}

func handleTalk(deps Dependencies, w http.ResponseWriter, r *http.Request) {
	if deps.Chat == nil {
		writeError(r.Context(), w, http.StatusNotImplemented, "CHAT_NOT_CONFIGURED", "chat dependency is not configured", false, nil)
		return
	}

	var req talkRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(r.Context(), w, http.StatusBadRequest, "INVALID_JSON", "invalid chat request body", false, map[string]any{"details": err.Error()})
		return
	}

	turn, err := chat.NewTurn(req.Messages, req.UserID)
	if err != nil {
		if errors.Is(err, chat.ErrNoUserMessage) {
			writeError(r.Context(), w, http.StatusBadRequest, "USER_MESSAGE_REQUIRED", "request must contain at least one user message", false, nil)
			return
		}
		writeError(r.Context(), w, http.StatusBadRequest, "INVALID_TURN", err.Error(), false, nil)
		return
	}

	writeJSON(w, http.StatusOK, talkResponse{Message: deps.Chat.Respond(r.Context(), turn)})
}
