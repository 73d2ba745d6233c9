package services

import (
	"context"
	"strings"
	"time"

	"github.com/brainfuel/backend/internal/models"
	"github.com/brainfuel/backend/pkg/response"
)

type CategoryService struct {
	gw *models.Gateway
}

func NewCategoryService(gw *models.Gateway) *CategoryService {
	return &CategoryService{gw: gw}
}

type CreateCategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type UpdateCategoryRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

var (
	errCategoryNotFound  = response.NewNotFound("Category not found")
	errCategoryNameTaken = response.NewConflict("Category name already exists")
	errCategoryInUse     = response.NewBadRequest("Cannot delete category with existing projects")
)

// List returns all categories ordered by name
func (s *CategoryService) List(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := s.gw.QueryMany(ctx, &categories, "SELECT * FROM categories ORDER BY name"); err != nil {
		return nil, err
	}
	if categories == nil {
		categories = []models.Category{}
	}
	return categories, nil
}

// ListWithCounts returns all categories with the number of projects in each
func (s *CategoryService) ListWithCounts(ctx context.Context) ([]models.CategoryWithCount, error) {
	var categories []models.CategoryWithCount
	err := s.gw.QueryMany(ctx, &categories, `
		SELECT c.id, c.name, c.description, c.created_at, COUNT(p.id) AS project_count
		FROM categories c
		LEFT JOIN projects p ON p.category_id = c.id
		GROUP BY c.id, c.name, c.description, c.created_at
		ORDER BY c.name`)
	if err != nil {
		return nil, err
	}
	if categories == nil {
		categories = []models.CategoryWithCount{}
	}
	return categories, nil
}

func (s *CategoryService) GetByID(ctx context.Context, id uint) (*models.Category, error) {
	var category models.Category
	found, err := s.gw.QueryOne(ctx, &category, "SELECT * FROM categories WHERE id = ?", id)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, errCategoryNotFound
	}
	return &category, nil
}

// Create inserts a category and returns its id
func (s *CategoryService) Create(ctx context.Context, req *CreateCategoryRequest) (uint, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return 0, response.NewBadRequest("Category name is required")
	}

	taken, err := s.nameTaken(ctx, s.gw, name, 0)
	if err != nil {
		return 0, err
	}
	if taken {
		return 0, errCategoryNameTaken
	}

	res, err := s.gw.Execute(ctx,
		"INSERT INTO categories (name, description, created_at) VALUES (?, ?, ?)",
		name, req.Description, time.Now().UTC())
	if err != nil {
		if models.IsUniqueViolation(err) {
			return 0, errCategoryNameTaken
		}
		return 0, err
	}
	return uint(res.LastInsertID), nil
}

// Update renames or re-describes a category
func (s *CategoryService) Update(ctx context.Context, id uint, req *UpdateCategoryRequest) error {
	var p patch
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return response.NewBadRequest("Category name cannot be empty")
		}
		p.set("name", name)
	}
	p.setString("description", req.Description)

	if p.empty() {
		return response.NewBadRequest("No fields to update")
	}

	return s.gw.Transaction(ctx, func(tx *models.Gateway) error {
		if _, err := s.getID(ctx, tx, id); err != nil {
			return err
		}

		if req.Name != nil {
			taken, err := s.nameTaken(ctx, tx, strings.TrimSpace(*req.Name), id)
			if err != nil {
				return err
			}
			if taken {
				return errCategoryNameTaken
			}
		}

		query, args := p.update("categories", "id = ?", id)
		if _, err := tx.Execute(ctx, query, args...); err != nil {
			if models.IsUniqueViolation(err) {
				return errCategoryNameTaken
			}
			return err
		}
		return nil
	})
}

// Delete removes a category that no project references. Deletion never cascades.
func (s *CategoryService) Delete(ctx context.Context, id uint) error {
	return s.gw.Transaction(ctx, func(tx *models.Gateway) error {
		if _, err := s.getID(ctx, tx, id); err != nil {
			return err
		}

		var projectCount int64
		if _, err := tx.QueryOne(ctx, &projectCount, "SELECT COUNT(*) FROM projects WHERE category_id = ?", id); err != nil {
			return err
		}
		if projectCount > 0 {
			return errCategoryInUse.With("projectCount", projectCount)
		}

		if _, err := tx.Execute(ctx, "DELETE FROM categories WHERE id = ?", id); err != nil {
			if models.IsForeignKeyViolation(err) {
				return errCategoryInUse
			}
			return err
		}
		return nil
	})
}

func (s *CategoryService) getID(ctx context.Context, gw *models.Gateway, id uint) (uint, error) {
	var existing uint
	found, err := gw.QueryOne(ctx, &existing, "SELECT id FROM categories WHERE id = ?", id)
	if err != nil {
		return 0, err
	}
	if !found {
		return 0, errCategoryNotFound
	}
	return existing, nil
}

// nameTaken reports whether another category than excludeID already uses name
func (s *CategoryService) nameTaken(ctx context.Context, gw *models.Gateway, name string, excludeID uint) (bool, error) {
	var id uint
	return gw.QueryOne(ctx, &id, "SELECT id FROM categories WHERE name = ? AND id <> ?", name, excludeID)
}

// resolveCategoryID maps a category name to its id
func resolveCategoryID(ctx context.Context, gw *models.Gateway, name string) (uint, bool, error) {
	var id uint
	found, err := gw.QueryOne(ctx, &id, "SELECT id FROM categories WHERE name = ?", strings.TrimSpace(name))
	return id, found, err
}
