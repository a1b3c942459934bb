package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pathprep/pathprep-backend/internal/services"
)

type RoleHandler struct {
	roleService services.RoleService
}

func NewRoleHandler(roleService services.RoleService) *RoleHandler {
	return &RoleHandler{roleService: roleService}
}

type createRoleRequest struct {
	Name        string `json:"name" binding:"required"`
	Category    string `json:"category,omitempty"`
	Description string `json:"description,omitempty"`
}

func (h *RoleHandler) Create(c *gin.Context) {
	var req createRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	role, err := h.roleService.CreateRole(c.Request.Context(), nil, req.Name, req.Category, req.Description)
	if err != nil {
		RespondError(c, statusForError(err), "role_create_failed", err)
		return
	}
	RespondOK(c, role)
}

func (h *RoleHandler) Get(c *gin.Context) {
	role, err := h.roleService.GetRole(c.Request.Context(), nil, c.Param("id"))
	if err != nil {
		RespondError(c, statusForError(err), "role_lookup_failed", err)
		return
	}
	RespondOK(c, role)
}

func (h *RoleHandler) List(c *gin.Context) {
	roles, err := h.roleService.ListRoles(c.Request.Context(), nil)
	if err != nil {
		RespondError(c, statusForError(err), "role_list_failed", err)
		return
	}
	RespondOK(c, gin.H{"roles": roles})
}

func (h *RoleHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := h.roleService.DeleteRole(c.Request.Context(), nil, id); err != nil {
		RespondError(c, statusForError(err), "role_delete_failed", err)
		return
	}
	RespondOK(c, gin.H{"deleted": id})
}
