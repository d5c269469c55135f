package admin

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/convrt/rag-backend/internal/config"
	"github.com/convrt/rag-backend/internal/entity"
	"github.com/convrt/rag-backend/internal/pkg/logger"
	"github.com/convrt/rag-backend/internal/pkg/response"
	"github.com/convrt/rag-backend/internal/pkg/validator"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// multipartMemory is how much of a form is buffered in memory before
// spilling to temp files.
const multipartMemory = 8 << 20

type Handler struct {
	usecase   AdminUsecase
	cfg       config.FileUploadConfig
	validator *validator.Validator
}

func NewHandler(
	usecase AdminUsecase,
	cfg config.FileUploadConfig,
	validator *validator.Validator,
) *Handler {
	return &Handler{
		usecase:   usecase,
		cfg:       cfg,
		validator: validator,
	}
}

// Upload handles POST /admin/upload
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "UploadDataset")

	// Room for the form fields around the file itself
	r.Body = http.MaxBytesReader(w, r.Body, h.cfg.MaxUploadSize+multipartMemory)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			response.UsecaseError(ctx, w, fmt.Errorf("%w: %w", entity.ErrFileTooLarge, err))
			return
		}
		response.Error(ctx, w, http.StatusBadRequest, "invalid form data", err)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		response.UsecaseError(ctx, w, fmt.Errorf("%w: file", entity.ErrMissingField))
		return
	}
	defer file.Close()

	if err := h.validator.ValidateUpload(header.Filename, header.Size); err != nil {
		response.UsecaseError(ctx, w, err)
		return
	}

	req := &entity.IngestRequest{
		Filename:    header.Filename,
		Content:     file,
		Description: r.FormValue("description"),
		ReportID:    r.FormValue("report_id"),
	}

	ctxzap.Info(ctx, "ingesting dataset",
		zap.String("filename", req.Filename),
		zap.Int64("size", header.Size),
		zap.String("report_id", req.ReportID),
	)

	result, err := h.usecase.Ingest(ctx, req)
	if err != nil {
		response.UsecaseError(ctx, w, err)
		return
	}

	ctxzap.Info(ctx, "dataset ingested",
		zap.Int("records", result.Records),
		zap.String("corpus", result.Corpus.DisplayName),
	)

	response.Success(w, entity.MessageResponse{
		Message: fmt.Sprintf("Successfully uploaded %s", header.Filename),
	})
}

// ListFiles handles GET /admin/files
func (h *Handler) ListFiles(w http.ResponseWriter, r *http.Request) {
	reportID := r.URL.Query().Get("report_id")
	ctx := logger.WithReport(logger.WithAction(r.Context(), "ListFiles"), reportID)

	files, err := h.usecase.ListFiles(ctx, reportID)
	if err != nil {
		response.UsecaseError(ctx, w, err)
		return
	}

	ctxzap.Debug(ctx, "corpus files listed", zap.Int("count", len(files)))
	response.Success(w, entity.ListFilesResponse{Files: files})
}
