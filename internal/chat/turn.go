// Package chat implements the query-routing pipeline: deciding whether a
// turn needs the database, narrowing the schema, steering a tool-calling
// completion toward valid SQL, executing it, and phrasing the result.
package chat

import (
	"errors"
	"strings"
)

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

var ErrNoUserMessage = errors.New("chat: turn has no user message")

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Turn is one self-contained chat exchange. It carries its own history;
// nothing about it survives the request.
type Turn struct {
	Messages []Message
	UserID   string
	Query    string
}

// NewTurn derives the active query from the last user message of the
// history.
func NewTurn(messages []Message, userID string) (Turn, error) {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role != RoleUser {
			continue
		}
		queryText := strings.TrimSpace(messages[i].Content)
		if queryText == "" {
			break
		}
		return Turn{Messages: messages, UserID: userID, Query: queryText}, nil
	}
	return Turn{}, ErrNoUserMessage
}
