package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"buyers-backend/internal/importer"
	"buyers-backend/pkg/api"
)

const maxUploadBytes = 32 << 20

// ImportHandler handles bulk spreadsheet uploads.
type ImportHandler struct {
	importer *importer.Importer
	logger   *zap.Logger
}

// NewImportHandler creates a new import handler.
func NewImportHandler(imp *importer.Importer, logger *zap.Logger) *ImportHandler {
	return &ImportHandler{importer: imp, logger: logger}
}

// Upload handles POST /api/v1/import. The request is multipart with the
// CSV under "file". Validation problems abort with 400 before any write;
// batch failures come back in the summary with whatever did import.
func (h *ImportHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		api.Error(w, http.StatusBadRequest, "Invalid multipart request")
		return
	}
	upload, header, err := r.FormFile("file")
	if err != nil {
		api.Error(w, http.StatusBadRequest, "Missing file field")
		return
	}
	defer upload.Close()

	file, err := importer.ReadCSV(upload)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	summary, err := h.importer.Import(r.Context(), file)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	h.logger.Info("import upload processed",
		zap.String("filename", header.Filename),
		zap.Int("imported", summary.Imported),
		zap.Int("errors", len(summary.Errors)),
	)
	api.Success(w, http.StatusOK, api.ImportResponse{
		Imported: summary.Imported,
		Skipped:  summary.Skipped,
		Errors:   summary.Errors,
	})
}
