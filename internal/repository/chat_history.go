package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/convrt/rag-backend/internal/entity"
)

type ChatHistoryRepository interface {
	Save(ctx context.Context, history *entity.ChatHistory) error
	Load(ctx context.Context, sessionID string) ([]entity.Message, error)
}

var _ ChatHistoryRepository = &ChatHistoryStore{}

// ChatHistoryStore persists grounded chat transcripts, one document per
// session.
type ChatHistoryStore struct {
	store DocumentStore
}

func NewChatHistoryStore(store DocumentStore) *ChatHistoryStore {
	return &ChatHistoryStore{store: store}
}

func (r *ChatHistoryStore) Save(ctx context.Context, history *entity.ChatHistory) error {
	data, err := encodeDocument(history)
	if err != nil {
		return fmt.Errorf("encode chat history: %w", err)
	}
	return r.store.Save(ctx, history.SessionID, data)
}

// Load returns the stored messages, or an empty list when the session has
// never been saved.
func (r *ChatHistoryStore) Load(ctx context.Context, sessionID string) ([]entity.Message, error) {
	data, err := r.store.Load(ctx, sessionID)
	if errors.Is(err, ErrDocumentNotFound) {
		return []entity.Message{}, nil
	}
	if err != nil {
		return nil, err
	}

	var history entity.ChatHistory
	if err := json.Unmarshal(data, &history); err != nil {
		return nil, fmt.Errorf("decode chat history %s: %w", sessionID, err)
	}
	if history.Messages == nil {
		return []entity.Message{}, nil
	}
	return history.Messages, nil
}

// encodeDocument renders v as indented JSON with non-ASCII text kept as is.
func encodeDocument(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
