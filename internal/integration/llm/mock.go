package llm

import (
	"context"
	"fmt"

	"github.com/convrt/rag-backend/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// MockConnector answers with canned text so the API can run without Vertex AI.
type MockConnector struct {
	logger *zap.Logger
}

func NewMockConnector(logger *zap.Logger) *MockConnector {
	return &MockConnector{
		logger: logger,
	}
}

func (m *MockConnector) Generate(ctx context.Context, req *entity.GenerateRequest) (string, error) {
	ctxzap.Info(ctx, "[MOCK] generating content",
		zap.String("model", req.Model),
		zap.Int("history_length", len(req.History)),
		zap.Bool("grounded", req.Corpus != nil),
	)

	if req.ResponseMIMEType == entity.ResponseMIMETypeJSON {
		return "```json\n" + mockReport + "\n```", nil
	}

	if req.Corpus != nil {
		return fmt.Sprintf("Mock grounded answer from corpus %s (based on general knowledge): %s",
			req.Corpus.DisplayName, req.Prompt), nil
	}

	return fmt.Sprintf("Mock consultant answer: %s", req.Prompt), nil
}

const mockReport = `{
  "components": [
    {
      "id": "comp_mock_1",
      "title": "Market Share Distribution",
      "data_source": "social",
      "width": "half",
      "visualization": {"type": "bar"},
      "narrative": {"enabled": true},
      "result": {
        "visualization_data": {
          "items": [
            {"name": "Brand A", "value": 45},
            {"name": "Brand B", "value": 30},
            {"name": "Brand C", "value": 25}
          ]
        },
        "narrative": "Brand A leads the market with 45% share."
      }
    },
    {
      "id": "comp_mock_2",
      "title": "Executive Summary",
      "data_source": "news",
      "width": "full",
      "visualization": {"type": "text"},
      "narrative": {"enabled": true},
      "result": {
        "visualization_data": {"content": "Mock summary of the research question."},
        "narrative": "Generated without a model call."
      }
    }
  ]
}`
