package handler

import (
	"context"
	"net/http"

	handleapp "github.com/catalog/pidreg/internal/application/handle"
	"github.com/catalog/pidreg/internal/domain/handle"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// HandleRegistrar checks and registers handles for stored records
type HandleRegistrar interface {
	CheckByID(ctx context.Context, serverID uuid.UUID, recordUUID string) (*handle.CheckStatus, error)
	RegisterByID(ctx context.Context, serverID uuid.UUID, recordUUID string) (*handle.RegistrationResult, error)
}

var _ HandleRegistrar = (*handleapp.HandleService)(nil)

// HandleHandler serves the record handle endpoints
type HandleHandler struct {
	BaseHandler
	service HandleRegistrar
}

// NewHandleHandler creates a new HandleHandler
func NewHandleHandler(service HandleRegistrar) *HandleHandler {
	return &HandleHandler{service: service}
}

// RegistrationResponse is the outcome of a successful registration
type RegistrationResponse struct {
	Handle      string `json:"handle" example:"20.500.12345/abc-123"`
	HandleURL   string `json:"handleUrl" example:"https://hdl.handle.net/20.500.12345/abc-123"`
	LandingPage string `json:"landingPage" example:"https://catalog.example/srv/api/records/abc-123"`
}

// CheckPreConditions godoc
// @ID           checkHandlePreConditions
// @Summary      Check handle registration preconditions
// @Description  Reports whether the record can be registered on the handle server
// @Tags         handles
// @Produce      json
// @Param        uuid path string true "Record UUID"
// @Param        serverId path string true "Handle server ID" format(uuid)
// @Success      200 {object} handle.CheckStatus
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Router       /records/{uuid}/handle/{serverId}/checkPreConditions [get]
func (h *HandleHandler) CheckPreConditions(c *gin.Context) {
	serverID, err := uuid.Parse(c.Param("serverId"))
	if err != nil {
		h.NotFound(c, "No handle server found with id '"+c.Param("serverId")+"'")
		return
	}

	status, err := h.service.CheckByID(c.Request.Context(), serverID, c.Param("uuid"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	// bare {"HANDLE_READY": true}, as existing clients expect
	c.JSON(http.StatusOK, status)
}

// Register godoc
// @ID           registerHandle
// @Summary      Register a handle for a record
// @Description  Submits the handle to the registry and writes it into the record
// @Tags         handles
// @Produce      json
// @Param        uuid path string true "Record UUID"
// @Param        serverId path string true "Handle server ID" format(uuid)
// @Success      201 {object} APIResponse[RegistrationResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      502 {object} ErrorResponse
// @Router       /records/{uuid}/handle/{serverId} [put]
func (h *HandleHandler) Register(c *gin.Context) {
	serverID, err := uuid.Parse(c.Param("serverId"))
	if err != nil {
		h.NotFound(c, "No handle server found with id '"+c.Param("serverId")+"'")
		return
	}

	result, err := h.service.RegisterByID(c.Request.Context(), serverID, c.Param("uuid"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, RegistrationResponse{
		Handle:      result.Identifier,
		HandleURL:   result.IdentifierURL,
		LandingPage: result.LandingPage,
	})
}

// RegisterRoutes mounts the handle endpoints under /records
func (h *HandleHandler) RegisterRoutes(rg *gin.RouterGroup) {
	records := rg.Group("/records")
	records.GET("/:uuid/handle/:serverId/checkPreConditions", h.CheckPreConditions)
	records.PUT("/:uuid/handle/:serverId", h.Register)
}
