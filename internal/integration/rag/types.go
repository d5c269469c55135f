package rag

import (
	"encoding/json"

	"github.com/convrt/rag-backend/internal/entity"
)

type listCorporaResponse struct {
	RagCorpora    []entity.Corpus `json:"ragCorpora"`
	NextPageToken string          `json:"nextPageToken"`
}

type listFilesResponse struct {
	RagFiles      []entity.CorpusFile `json:"ragFiles"`
	NextPageToken string              `json:"nextPageToken"`
}

type createCorpusRequest struct {
	DisplayName string `json:"displayName"`
}

type operation struct {
	Name     string          `json:"name"`
	Done     bool            `json:"done"`
	Error    *operationError `json:"error,omitempty"`
	Response json.RawMessage `json:"response,omitempty"`
}

type operationError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type uploadMetadata struct {
	RagFile uploadFileInfo `json:"rag_file"`
}

type uploadFileInfo struct {
	DisplayName string `json:"display_name"`
	Description string `json:"description,omitempty"`
}

type uploadFileResponse struct {
	RagFile entity.CorpusFile `json:"ragFile"`
	Error   *operationError   `json:"error,omitempty"`
}
