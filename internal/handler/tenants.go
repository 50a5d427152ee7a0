package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/usermgmt/backend/internal/model"
	"github.com/usermgmt/backend/internal/service"
)

type TenantHandler struct {
	svc *service.TenantService
}

func NewTenantHandler(svc *service.TenantService) *TenantHandler {
	return &TenantHandler{svc: svc}
}

// CreateTenant godoc
// @Summary Create a tenant
// @Tags tenants
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body model.TenantRequest true "Tenant"
// @Success 201 {object} model.IDResponse
// @Failure 400 {object} model.ErrorResponse
// @Router /tenants [post]
func (h *TenantHandler) CreateTenant(c *gin.Context) {
	var req model.TenantRequest
	if err := bindRequest(c, &req); err != nil {
		writeError(c, err)
		return
	}

	tenant, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, model.IDResponse{ID: tenant.ID})
}

// ListTenants godoc
// @Summary List tenants
// @Tags tenants
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.TenantListResponse
// @Router /tenants [get]
func (h *TenantHandler) ListTenants(c *gin.Context) {
	tenants, err := h.svc.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.TenantListResponse{Data: tenants, Total: len(tenants)})
}

// GetTenant godoc
// @Summary Get a tenant
// @Tags tenants
// @Produce json
// @Security BearerAuth
// @Param id path int true "Tenant ID"
// @Success 200 {object} model.Tenant
// @Failure 404 {object} model.ErrorResponse
// @Router /tenants/{id} [get]
func (h *TenantHandler) GetTenant(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	tenant, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, tenant)
}

// UpdateTenant godoc
// @Summary Update a tenant
// @Tags tenants
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Tenant ID"
// @Param request body model.TenantRequest true "Tenant"
// @Success 200 {object} model.IDResponse
// @Failure 400 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /tenants/{id} [patch]
func (h *TenantHandler) UpdateTenant(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req model.TenantRequest
	if err := bindRequest(c, &req); err != nil {
		writeError(c, err)
		return
	}

	if err := h.svc.Update(c.Request.Context(), id, req); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.IDResponse{ID: id})
}

// DeleteTenant godoc
// @Summary Delete a tenant
// @Description Members are kept and detached from the tenant.
// @Tags tenants
// @Produce json
// @Security BearerAuth
// @Param id path int true "Tenant ID"
// @Success 200 {object} model.IDResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /tenants/{id} [delete]
func (h *TenantHandler) DeleteTenant(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.IDResponse{ID: id})
}
