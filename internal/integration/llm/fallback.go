package llm

import (
	"context"
	"errors"

	"github.com/convrt/rag-backend/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// Generator produces model text for a request.
type Generator interface {
	Generate(ctx context.Context, req *entity.GenerateRequest) (string, error)
}

// FallbackGenerator retries a request once on a fallback model when the
// requested model does not exist. Any other failure is returned unchanged.
type FallbackGenerator struct {
	next          Generator
	fallbackModel string
}

func NewFallbackGenerator(next Generator, fallbackModel string) *FallbackGenerator {
	return &FallbackGenerator{
		next:          next,
		fallbackModel: fallbackModel,
	}
}

func (g *FallbackGenerator) Generate(ctx context.Context, req *entity.GenerateRequest) (string, error) {
	text, err := g.next.Generate(ctx, req)
	if err == nil || g.fallbackModel == "" || req.Model == g.fallbackModel {
		return text, err
	}
	if !errors.Is(err, entity.ErrModelNotAvailable) {
		return text, err
	}

	ctxzap.Warn(ctx, "model not available, retrying with fallback model",
		zap.String("model", req.Model),
		zap.String("fallback_model", g.fallbackModel),
		zap.Error(err),
	)

	retryReq := *req
	retryReq.Model = g.fallbackModel
	return g.next.Generate(ctx, &retryReq)
}
