package handler

import (
	"context"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/edu-agent-api/internal/models"
	appErrors "github.com/noah-isme/edu-agent-api/pkg/errors"
	"github.com/noah-isme/edu-agent-api/pkg/response"
)

const collectionContextKey = "record_collection"

type recordService interface {
	List(ctx context.Context, collection models.Collection) (interface{}, error)
	Get(ctx context.Context, collection models.Collection, id int) (interface{}, error)
	Create(ctx context.Context, collection models.Collection, body []byte) (interface{}, error)
	Update(ctx context.Context, collection models.Collection, id int, body []byte) (interface{}, error)
	Delete(ctx context.Context, collection models.Collection, id int) error
}

// RecordHandler serves the same CRUD surface for every collection. The route group binds the
// collection with Bind.
type RecordHandler struct {
	records recordService
}

// NewRecordHandler constructs RecordHandler.
func NewRecordHandler(records recordService) *RecordHandler {
	return &RecordHandler{records: records}
}

// Bind tags requests of a route group with the collection they address.
func (h *RecordHandler) Bind(collection models.Collection) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(collectionContextKey, collection)
		c.Next()
	}
}

// List godoc
// @Summary List records of a collection
// @Tags Records
// @Produce json
// @Param collection path string true "professeurs, etudiants, cours, evaluations, notes or reviews"
// @Success 200 {object} response.Envelope
// @Router /{collection} [get]
func (h *RecordHandler) List(c *gin.Context) {
	collection, ok := collectionFrom(c)
	if !ok {
		return
	}
	records, err := h.records.List(c.Request.Context(), collection)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, records)
}

// Get godoc
// @Summary Get one record
// @Tags Records
// @Produce json
// @Param collection path string true "Collection"
// @Param id path int true "Record ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /{collection}/{id} [get]
func (h *RecordHandler) Get(c *gin.Context) {
	collection, id, ok := collectionAndID(c)
	if !ok {
		return
	}
	record, err := h.records.Get(c.Request.Context(), collection, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, record)
}

// Create godoc
// @Summary Create a record
// @Description Missing required fields are rejected; optional fields get their defaults.
// @Tags Records
// @Accept json
// @Produce json
// @Param collection path string true "Collection"
// @Param payload body object true "Record fields"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /{collection} [post]
func (h *RecordHandler) Create(c *gin.Context) {
	collection, ok := collectionFrom(c)
	if !ok {
		return
	}
	body, ok := readBody(c)
	if !ok {
		return
	}
	record, err := h.records.Create(c.Request.Context(), collection, body)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, record)
}

// Update godoc
// @Summary Merge fields into a record
// @Tags Records
// @Accept json
// @Produce json
// @Param collection path string true "Collection"
// @Param id path int true "Record ID"
// @Param payload body object true "Fields to overwrite"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /{collection}/{id} [put]
func (h *RecordHandler) Update(c *gin.Context) {
	collection, id, ok := collectionAndID(c)
	if !ok {
		return
	}
	body, ok := readBody(c)
	if !ok {
		return
	}
	record, err := h.records.Update(c.Request.Context(), collection, id, body)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, record)
}

// Delete godoc
// @Summary Delete a record
// @Tags Records
// @Param collection path string true "Collection"
// @Param id path int true "Record ID"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /{collection}/{id} [delete]
func (h *RecordHandler) Delete(c *gin.Context) {
	collection, id, ok := collectionAndID(c)
	if !ok {
		return
	}
	if err := h.records.Delete(c.Request.Context(), collection, id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

func collectionFrom(c *gin.Context) (models.Collection, bool) {
	if value, exists := c.Get(collectionContextKey); exists {
		if collection, ok := value.(models.Collection); ok {
			return collection, true
		}
	}
	if collection, ok := models.ParseCollection(c.Param("collection")); ok {
		return collection, true
	}
	response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "unknown collection"))
	return "", false
}

func collectionAndID(c *gin.Context) (models.Collection, int, bool) {
	collection, ok := collectionFrom(c)
	if !ok {
		return "", 0, false
	}
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "id must be a positive integer"))
		return "", 0, false
	}
	return collection, id, true
}

func readBody(c *gin.Context) ([]byte, bool) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return nil, false
	}
	return body, true
}
