package admin

import (
	"context"

	"github.com/convrt/rag-backend/internal/entity"
)

type CorpusResolver interface {
	Resolve(ctx context.Context, reportID string) (*entity.Corpus, error)
}

type RagConnector interface {
	UploadFile(ctx context.Context, corpusName, path, displayName, description string) (*entity.CorpusFile, error)
	ListFiles(ctx context.Context, corpusName string) ([]entity.CorpusFile, error)
}
