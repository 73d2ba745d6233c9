package handlers

import (
	"github.com/brainfuel/backend/internal/models"
	"github.com/brainfuel/backend/internal/services"
	"github.com/brainfuel/backend/pkg/response"
	"github.com/gin-gonic/gin"
)

type CategoryHandler struct {
	categoryService *services.CategoryService
}

func NewCategoryHandler(gw *models.Gateway) *CategoryHandler {
	return &CategoryHandler{
		categoryService: services.NewCategoryService(gw),
	}
}

// List returns all categories
// GET /api/categories
func (h *CategoryHandler) List(c *gin.Context) {
	categories, err := h.categoryService.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, categories)
}

// ListWithCounts returns all categories with their project counts
// GET /api/categories/with-counts
func (h *CategoryHandler) ListWithCounts(c *gin.Context) {
	categories, err := h.categoryService.ListWithCounts(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, categories)
}

// GET /api/categories/:id
func (h *CategoryHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id", "category")
	if !ok {
		return
	}

	category, err := h.categoryService.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, category)
}

// POST /api/categories
func (h *CategoryHandler) Create(c *gin.Context) {
	var req services.CreateCategoryRequest
	if !bindJSON(c, &req) {
		return
	}

	id, err := h.categoryService.Create(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, gin.H{"id": id, "message": "Category created successfully"})
}

// PUT /api/categories/:id
func (h *CategoryHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id", "category")
	if !ok {
		return
	}

	var req services.UpdateCategoryRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.categoryService.Update(c.Request.Context(), id, &req); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"message": "Category updated successfully"})
}

// Delete refuses while projects still reference the category
// DELETE /api/categories/:id
func (h *CategoryHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id", "category")
	if !ok {
		return
	}

	if err := h.categoryService.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"message": "Category deleted successfully"})
}
