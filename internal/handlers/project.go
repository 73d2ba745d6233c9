package handlers

import (
	"github.com/brainfuel/backend/internal/middleware"
	"github.com/brainfuel/backend/internal/models"
	"github.com/brainfuel/backend/internal/services"
	"github.com/brainfuel/backend/pkg/response"
	"github.com/gin-gonic/gin"
)

type ProjectHandler struct {
	projectService *services.ProjectService
}

func NewProjectHandler(gw *models.Gateway) *ProjectHandler {
	return &ProjectHandler{
		projectService: services.NewProjectService(gw),
	}
}

type supportRequest struct {
	UserID uint `json:"userId"`
}

// List returns projects filtered by category and search
// GET /api/projects
func (h *ProjectHandler) List(c *gin.Context) {
	var req services.ProjectListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	projects, err := h.projectService.List(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, projects)
}

// Trending returns the five most supported projects
// GET /api/projects/trending
func (h *ProjectHandler) Trending(c *gin.Context) {
	projects, err := h.projectService.Trending(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, projects)
}

// GetByID returns a project and counts the view
// GET /api/projects/:id
func (h *ProjectHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c, "id", "project")
	if !ok {
		return
	}

	project, err := h.projectService.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, project)
}

// Create creates a new project. Without authorId the caller's token decides the author.
// POST /api/projects
func (h *ProjectHandler) Create(c *gin.Context) {
	var req services.CreateProjectRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.AuthorID == 0 {
		req.AuthorID = middleware.GetUserID(c)
	}

	id, err := h.projectService.Create(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, gin.H{"id": id, "message": "Project created successfully"})
}

// Update applies a partial update
// PUT /api/projects/:id
func (h *ProjectHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id", "project")
	if !ok {
		return
	}

	var req services.UpdateProjectRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.projectService.Update(c.Request.Context(), id, &req); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"message": "Project updated successfully"})
}

// Delete deletes a project
// DELETE /api/projects/:id
func (h *ProjectHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id", "project")
	if !ok {
		return
	}

	if err := h.projectService.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"message": "Project deleted successfully"})
}

// ToggleSupport flips the user's support
// POST /api/projects/:id/support
func (h *ProjectHandler) ToggleSupport(c *gin.Context) {
	id, ok := parseID(c, "id", "project")
	if !ok {
		return
	}

	var req supportRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.UserID == 0 {
		req.UserID = middleware.GetUserID(c)
	}

	supported, err := h.projectService.ToggleSupport(c.Request.Context(), id, req.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}

	message := "Support removed"
	if supported {
		message = "Project supported"
	}
	response.Success(c, gin.H{"supported": supported, "message": message})
}
