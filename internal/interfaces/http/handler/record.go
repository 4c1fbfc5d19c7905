package handler

import (
	"context"

	handleapp "github.com/catalog/pidreg/internal/application/handle"
	"github.com/gin-gonic/gin"
)

// RecordImporter stores records so that handles can be registered for them
type RecordImporter interface {
	Import(ctx context.Context, req handleapp.ImportRecordRequest) (*handleapp.RecordResponse, error)
	Get(ctx context.Context, recordUUID string) (*handleapp.RecordResponse, error)
}

var _ RecordImporter = (*handleapp.RecordService)(nil)

// RecordHandler serves record import and lookup
type RecordHandler struct {
	BaseHandler
	service RecordImporter
}

// NewRecordHandler creates a new RecordHandler
func NewRecordHandler(service RecordImporter) *RecordHandler {
	return &RecordHandler{service: service}
}

// Import godoc
// @ID           importRecord
// @Summary      Import a record
// @Description  Stores or replaces a record body. A handle already in the body is kept as the record's handle.
// @Tags         records
// @Accept       json
// @Produce      json
// @Param        request body handleapp.ImportRecordRequest true "Record"
// @Success      201 {object} APIResponse[handleapp.RecordResponse]
// @Failure      400 {object} ErrorResponse
// @Router       /records [post]
func (h *RecordHandler) Import(c *gin.Context) {
	var req handleapp.ImportRecordRequest
	if !h.BindJSON(c, &req) {
		return
	}

	record, err := h.service.Import(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, record)
}

// Get godoc
// @ID           getRecord
// @Summary      Get a record
// @Tags         records
// @Produce      json
// @Param        uuid path string true "Record UUID"
// @Success      200 {object} APIResponse[handleapp.RecordResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /records/{uuid} [get]
func (h *RecordHandler) Get(c *gin.Context) {
	record, err := h.service.Get(c.Request.Context(), c.Param("uuid"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, record)
}

// RegisterRoutes mounts the record endpoints
func (h *RecordHandler) RegisterRoutes(rg *gin.RouterGroup) {
	records := rg.Group("/records")
	records.POST("", h.Import)
	records.GET("/:uuid", h.Get)
}
