package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/convrt/rag-backend/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

type PlaygroundRepository interface {
	Save(ctx context.Context, session *entity.PlaygroundSession) error
	Get(ctx context.Context, id string) (*entity.PlaygroundSession, error)
	List(ctx context.Context) ([]entity.SessionSummary, error)
	Delete(ctx context.Context, id string) error
}

var _ PlaygroundRepository = &PlaygroundStore{}

// PlaygroundStore persists playground sessions, one document per session id.
type PlaygroundStore struct {
	store DocumentStore
}

func NewPlaygroundStore(store DocumentStore) *PlaygroundStore {
	return &PlaygroundStore{store: store}
}

func (r *PlaygroundStore) Save(ctx context.Context, session *entity.PlaygroundSession) error {
	data, err := encodeDocument(session)
	if err != nil {
		return fmt.Errorf("encode playground session: %w", err)
	}
	return r.store.Save(ctx, session.ID, data)
}

func (r *PlaygroundStore) Get(ctx context.Context, id string) (*entity.PlaygroundSession, error) {
	data, err := r.store.Load(ctx, id)
	if errors.Is(err, ErrDocumentNotFound) {
		return nil, entity.ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}

	var session entity.PlaygroundSession
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("decode playground session %s: %w", id, err)
	}
	session.Normalize()
	return &session, nil
}

// List returns summaries of every decodable session, most recently updated
// first. Corrupt documents are skipped.
func (r *PlaygroundStore) List(ctx context.Context) ([]entity.SessionSummary, error) {
	docs, err := r.store.List(ctx)
	if err != nil {
		return nil, err
	}

	summaries := make([]entity.SessionSummary, 0, len(docs))
	for _, doc := range docs {
		var session entity.PlaygroundSession
		if err := json.Unmarshal(doc.Data, &session); err != nil {
			ctxzap.Warn(ctx, "skipping corrupt playground session",
				zap.String("session_id", doc.ID),
				zap.Error(err),
			)
			continue
		}
		summaries = append(summaries, session.Summary())
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].UpdatedAt > summaries[j].UpdatedAt
	})

	return summaries, nil
}

func (r *PlaygroundStore) Delete(ctx context.Context, id string) error {
	err := r.store.Delete(ctx, id)
	if errors.Is(err, ErrDocumentNotFound) {
		return entity.ErrSessionNotFound
	}
	return err
}
