package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Collections partition session_documents between document kinds.
const (
	CollectionChatHistory = "chat_history"
	CollectionPlayground  = "playground"
)

var _ DocumentStore = &PostgresStore{}

// PostgresStore keeps documents as JSONB rows of one collection.
type PostgresStore struct {
	db         *pgxpool.Pool
	collection string
}

func NewPostgresStore(db *pgxpool.Pool, collection string) *PostgresStore {
	return &PostgresStore{
		db:         db,
		collection: collection,
	}
}

func (s *PostgresStore) Save(ctx context.Context, id string, data []byte) error {
	if err := ValidateID(id); err != nil {
		return err
	}

	_, err := s.db.Exec(ctx, `
		INSERT INTO session_documents (collection, id, document, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (collection, id)
		DO UPDATE SET document = EXCLUDED.document, updated_at = NOW()`,
		s.collection, id, data,
	)
	if err != nil {
		return fmt.Errorf("save document %s/%s: %w", s.collection, id, err)
	}
	return nil
}

func (s *PostgresStore) Load(ctx context.Context, id string) ([]byte, error) {
	if err := ValidateID(id); err != nil {
		return nil, err
	}

	var data []byte
	err := s.db.QueryRow(ctx,
		`SELECT document FROM session_documents WHERE collection = $1 AND id = $2`,
		s.collection, id,
	).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrDocumentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load document %s/%s: %w", s.collection, id, err)
	}
	return data, nil
}

func (s *PostgresStore) List(ctx context.Context) ([]Document, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, document FROM session_documents WHERE collection = $1 ORDER BY updated_at DESC`,
		s.collection,
	)
	if err != nil {
		return nil, fmt.Errorf("list documents %s: %w", s.collection, err)
	}

	docs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Document, error) {
		var doc Document
		err := row.Scan(&doc.ID, &doc.Data)
		return doc, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan documents %s: %w", s.collection, err)
	}
	return docs, nil
}

func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	if err := ValidateID(id); err != nil {
		return err
	}

	tag, err := s.db.Exec(ctx,
		`DELETE FROM session_documents WHERE collection = $1 AND id = $2`,
		s.collection, id,
	)
	if err != nil {
		return fmt.Errorf("delete document %s/%s: %w", s.collection, id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrDocumentNotFound
	}
	return nil
}
