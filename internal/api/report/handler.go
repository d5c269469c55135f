package report

import (
	"net/http"

	"github.com/convrt/rag-backend/internal/api/request"
	"github.com/convrt/rag-backend/internal/entity"
	"github.com/convrt/rag-backend/internal/pkg/logger"
	"github.com/convrt/rag-backend/internal/pkg/response"
	"github.com/convrt/rag-backend/internal/pkg/validator"
)

type Handler struct {
	usecase   ReportUsecase
	validator *validator.Validator
}

func NewHandler(usecase ReportUsecase, validator *validator.Validator) *Handler {
	return &Handler{
		usecase:   usecase,
		validator: validator,
	}
}

// Generate handles POST /report/generate. The body is the model's report
// JSON as returned.
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "GenerateReport")

	var req entity.ReportGenerateRequest
	if err := request.DecodeJSON(w, r, h.validator, &req); err != nil {
		response.UsecaseError(ctx, w, err)
		return
	}

	report, err := h.usecase.Generate(ctx, &req)
	if err != nil {
		response.UsecaseError(ctx, w, err)
		return
	}

	response.Success(w, report)
}
