package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/convrt/rag-backend/internal/config"
	"github.com/convrt/rag-backend/internal/entity"
	"github.com/convrt/rag-backend/internal/integration/common"
	pkghttp "github.com/convrt/rag-backend/pkg/http"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

// Connector calls generateContent on Vertex AI publisher models.
type Connector struct {
	config    config.VertexConfig
	connector *pkghttp.Connector
	logger    *zap.Logger
}

func NewConnector(
	cfg config.VertexConfig,
	ts oauth2.TokenSource,
	logger *zap.Logger,
) *Connector {
	return &Connector{
		connector: common.NewBaseConnector(cfg.HTTP, cfg.BaseURL(), ts, logger),
		config:    cfg,
		logger:    logger,
	}
}

// ProviderRole maps a local role onto the Vertex AI content role.
func ProviderRole(r entity.Role) string {
	if r == entity.RoleAssistant {
		return "model"
	}
	return "user"
}

// Generate sends the history followed by the prompt and returns the candidate text.
// POST /v1/projects/{p}/locations/{l}/publishers/google/models/{model}:generateContent
func (c *Connector) Generate(ctx context.Context, req *entity.GenerateRequest) (string, error) {
	endpoint := fmt.Sprintf("/v1/projects/%s/locations/%s/publishers/google/models/%s:generateContent",
		c.config.ProjectID, c.config.Location, req.Model)

	ctxzap.Debug(ctx, "generating content",
		zap.String("model", req.Model),
		zap.Int("history_length", len(req.History)),
		zap.Bool("grounded", req.Corpus != nil),
	)

	var resp generateContentResponse
	err := c.connector.DoRequest(ctx, http.MethodPost, endpoint, c.buildRequest(req), &resp)
	if err != nil {
		if pkghttp.StatusCode(err) == http.StatusNotFound {
			return "", fmt.Errorf("%w: %s: %w", entity.ErrModelNotAvailable, req.Model, err)
		}
		return "", fmt.Errorf("generate content: %w", err)
	}

	text, err := resp.text()
	if err != nil {
		return "", err
	}

	ctxzap.Debug(ctx, "content generated", zap.Int("response_length", len(text)))
	return text, nil
}

func (c *Connector) buildRequest(req *entity.GenerateRequest) *generateContentRequest {
	contents := make([]content, 0, len(req.History)+1)
	for _, msg := range req.History {
		contents = append(contents, content{
			Role:  ProviderRole(msg.Role),
			Parts: []part{{Text: msg.Content}},
		})
	}
	contents = append(contents, content{
		Role:  ProviderRole(entity.RoleUser),
		Parts: []part{{Text: req.Prompt}},
	})

	body := &generateContentRequest{Contents: contents}

	if req.SystemInstruction != "" {
		body.SystemInstruction = &content{Parts: []part{{Text: req.SystemInstruction}}}
	}

	if req.Corpus != nil {
		body.Tools = []tool{{
			Retrieval: &retrieval{
				VertexRagStore: vertexRagStore{
					RagResources: []ragResource{{RagCorpus: req.Corpus.Name}},
					RagRetrievalConfig: ragRetrievalConfig{
						TopK: c.config.RetrievalTopK,
						Filter: retrievalFilter{
							VectorDistanceThreshold: c.config.VectorDistanceThreshold,
						},
					},
				},
			},
		}}
	}

	if req.ResponseMIMEType != "" {
		body.GenerationConfig = &generationConfig{ResponseMIMEType: req.ResponseMIMEType}
	}

	return body
}

func (r *generateContentResponse) text() (string, error) {
	if len(r.Candidates) == 0 {
		if r.PromptFeedback != nil && r.PromptFeedback.BlockReason != "" {
			return "", fmt.Errorf("response blocked: %s", r.PromptFeedback.BlockReason)
		}
		return "", errors.New("model returned no candidates")
	}

	var sb strings.Builder
	for _, p := range r.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}

	if sb.Len() == 0 {
		return "", fmt.Errorf("model returned no text (finish reason %q)", r.Candidates[0].FinishReason)
	}
	return sb.String(), nil
}
