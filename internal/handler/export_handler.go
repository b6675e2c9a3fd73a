package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/edu-agent-api/internal/models"
	"github.com/noah-isme/edu-agent-api/internal/service"
	appErrors "github.com/noah-isme/edu-agent-api/pkg/errors"
	"github.com/noah-isme/edu-agent-api/pkg/export"
	"github.com/noah-isme/edu-agent-api/pkg/response"
)

type exportService interface {
	Export(ctx context.Context, collection models.Collection, format export.Format) (*service.ExportFile, error)
}

// ExportHandler streams collection downloads.
type ExportHandler struct {
	exports exportService
}

// NewExportHandler constructs ExportHandler.
func NewExportHandler(exports exportService) *ExportHandler {
	return &ExportHandler{exports: exports}
}

// Download godoc
// @Summary Download a collection
// @Tags Exports
// @Produce text/csv
// @Produce application/pdf
// @Param collection path string true "Collection"
// @Param format query string false "csv (default) or pdf"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /exports/{collection} [get]
func (h *ExportHandler) Download(c *gin.Context) {
	collection, ok := models.ParseCollection(c.Param("collection"))
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "unknown collection"))
		return
	}
	format, err := export.ParseFormat(c.Query("format"))
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid format"))
		return
	}
	file, err := h.exports.Export(c.Request.Context(), collection, format)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Body)
}
