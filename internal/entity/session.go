package entity

import "time"

const DefaultSessionLanguage = "en"

// ChatHistory is the persisted transcript of a grounded chat.
type ChatHistory struct {
	SessionID   string    `json:"session_id"`
	Messages    []Message `json:"messages"`
	LastUpdated string    `json:"last_updated"`
}

// NewChatHistory stamps LastUpdated with the current time.
func NewChatHistory(sessionID string, messages []Message) *ChatHistory {
	if messages == nil {
		messages = []Message{}
	}
	return &ChatHistory{
		SessionID:   sessionID,
		Messages:    messages,
		LastUpdated: time.Now().Format("2006-01-02T15:04:05.000000"),
	}
}

// PlaygroundSession is a saved playground conversation. Timestamps are
// supplied by the client and kept verbatim.
type PlaygroundSession struct {
	ID        string    `json:"id" validate:"required"`
	Title     string    `json:"title"`
	Messages  []Message `json:"messages" validate:"dive"`
	CreatedAt string    `json:"created_at"`
	UpdatedAt string    `json:"updated_at"`
	Language  string    `json:"language"`
}

func (s *PlaygroundSession) Normalize() {
	if s.Language == "" {
		s.Language = DefaultSessionLanguage
	}
	if s.Messages == nil {
		s.Messages = []Message{}
	}
}

func (s *PlaygroundSession) Summary() SessionSummary {
	return SessionSummary{
		ID:           s.ID,
		Title:        s.Title,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
		MessageCount: len(s.Messages),
	}
}

type SessionSummary struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at"`
	MessageCount int    `json:"message_count"`
}
