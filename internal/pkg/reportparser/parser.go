// Package reportparser extracts the report JSON document from model output.
package reportparser

import (
	"encoding/json"
	"strings"

	"github.com/convrt/rag-backend/internal/entity"
)

const previewLimit = 500

// Parse strips markdown code fences from raw and decodes what remains. It
// never repairs invalid JSON; failures are returned as *entity.ReportParseError.
func Parse(raw string) (*entity.Report, error) {
	cleaned := Clean(raw)

	var doc json.RawMessage
	if err := json.Unmarshal([]byte(cleaned), &doc); err != nil {
		return nil, &entity.ReportParseError{
			Err:     err,
			Preview: preview(cleaned),
		}
	}

	return &entity.Report{Raw: doc}, nil
}

// Clean removes a leading ```json or ``` fence and a trailing ``` fence,
// each independently of the other.
func Clean(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func preview(s string) string {
	runes := []rune(s)
	if len(runes) <= previewLimit {
		return s
	}
	return string(runes[:previewLimit])
}
