package handler

import (
	"context"

	handleapp "github.com/catalog/pidreg/internal/application/handle"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RegistryServerManager manages registry server configuration
type RegistryServerManager interface {
	Create(ctx context.Context, req handleapp.CreateServerRequest) (*handleapp.ServerResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*handleapp.ServerResponse, error)
	List(ctx context.Context, serverType string) ([]handleapp.ServerResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ForRecord(ctx context.Context, recordUUID, serverType string) ([]handleapp.ServerResponse, error)
}

var _ RegistryServerManager = (*handleapp.RegistryServerService)(nil)

// RegistryServerHandler serves /registryservers
type RegistryServerHandler struct {
	BaseHandler
	service RegistryServerManager
}

// NewRegistryServerHandler creates a new RegistryServerHandler
func NewRegistryServerHandler(service RegistryServerManager) *RegistryServerHandler {
	return &RegistryServerHandler{service: service}
}

// Create godoc
// @ID           createRegistryServer
// @Summary      Create a registry server
// @Tags         registryservers
// @Accept       json
// @Produce      json
// @Param        request body handleapp.CreateServerRequest true "Server configuration"
// @Success      201 {object} APIResponse[handleapp.ServerResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Router       /registryservers [post]
func (h *RegistryServerHandler) Create(c *gin.Context) {
	var req handleapp.CreateServerRequest
	if !h.BindJSON(c, &req) {
		return
	}

	server, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, server)
}

// List godoc
// @ID           listRegistryServers
// @Summary      List registry servers
// @Tags         registryservers
// @Produce      json
// @Param        type query string false "Server type" Enums(DOI, HANDLE)
// @Success      200 {object} APIResponse[[]handleapp.ServerResponse]
// @Router       /registryservers [get]
func (h *RegistryServerHandler) List(c *gin.Context) {
	servers, err := h.service.List(c.Request.Context(), c.Query("type"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, servers)
}

// GetByID godoc
// @ID           getRegistryServerById
// @Summary      Get a registry server
// @Tags         registryservers
// @Produce      json
// @Param        id path string true "Server ID" format(uuid)
// @Success      200 {object} APIResponse[handleapp.ServerResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /registryservers/{id} [get]
func (h *RegistryServerHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid server ID format")
		return
	}

	server, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, server)
}

// Delete godoc
// @ID           deleteRegistryServer
// @Summary      Delete a registry server
// @Tags         registryservers
// @Param        id path string true "Server ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Router       /registryservers/{id} [delete]
func (h *RegistryServerHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid server ID format")
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ForRecord godoc
// @ID           listRegistryServersForRecord
// @Summary      List the servers a record may be registered on
// @Description  Servers of the given type whose publication groups include the record's group
// @Tags         registryservers
// @Produce      json
// @Param        uuid path string true "Record UUID"
// @Param        type query string false "Server type" Enums(DOI, HANDLE)
// @Success      200 {object} APIResponse[[]handleapp.ServerResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /registryservers/records/{uuid} [get]
func (h *RegistryServerHandler) ForRecord(c *gin.Context) {
	servers, err := h.service.ForRecord(c.Request.Context(), c.Param("uuid"), c.DefaultQuery("type", "HANDLE"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, servers)
}

// RegisterRoutes mounts the registry server endpoints
func (h *RegistryServerHandler) RegisterRoutes(rg *gin.RouterGroup) {
	servers := rg.Group("/registryservers")
	servers.GET("", h.List)
	servers.POST("", h.Create)
	servers.GET("/records/:uuid", h.ForRecord)
	servers.GET("/:id", h.GetByID)
	servers.DELETE("/:id", h.Delete)
}
