package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/convrt/rag-backend/internal/entity"
)

// ErrDocumentNotFound is returned by a DocumentStore when no document has the
// requested id.
var ErrDocumentNotFound = errors.New("document not found")

// Document is a stored JSON document and its id.
type Document struct {
	ID   string
	Data []byte
}

// DocumentStore keeps whole JSON documents keyed by id. Save replaces any
// existing document atomically.
type DocumentStore interface {
	Save(ctx context.Context, id string, data []byte) error
	Load(ctx context.Context, id string) ([]byte, error)
	List(ctx context.Context) ([]Document, error)
	Delete(ctx context.Context, id string) error
}

var documentIDPattern = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

// ValidateID rejects ids that could escape the store's namespace.
func ValidateID(id string) error {
	if id == "." || id == ".." || !documentIDPattern.MatchString(id) {
		return fmt.Errorf("%w: invalid session id %q", entity.ErrInvalidParameter, id)
	}
	return nil
}
