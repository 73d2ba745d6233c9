package services

import (
	"context"
	"strings"
	"time"

	"github.com/brainfuel/backend/internal/models"
	"github.com/brainfuel/backend/pkg/response"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
	trendingLimit    = 5
)

// projectSelect joins a project with its category and author. Callers append
// WHERE / ORDER BY clauses; tags are attached by attachTags.
const projectSelect = `
	SELECT p.id, p.title, p.description, p.university, p.category_id,
		c.name AS category_name, p.image_url, p.score, p.support_count, p.views,
		p.author_id, u.name AS author_name, u.username AS author_username,
		u.avatar_url AS author_avatar, p.status, p.created_at, p.updated_at
	FROM projects p
	JOIN categories c ON c.id = p.category_id
	JOIN users u ON u.id = p.author_id`

type ProjectService struct {
	gw *models.Gateway
}

func NewProjectService(gw *models.Gateway) *ProjectService {
	return &ProjectService{gw: gw}
}

type ProjectListRequest struct {
	Category string `form:"category"`
	Search   string `form:"search"`
	Limit    int    `form:"limit" binding:"min=0"`
	Offset   int    `form:"offset" binding:"min=0"`
}

type CreateProjectRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	University  string   `json:"university"`
	Category    string   `json:"category"`
	Tags        []string `json:"tags"`
	ImageURL    string   `json:"imageUrl"`
	AuthorID    uint     `json:"authorId"`
}

// UpdateProjectRequest is a partial update. Nil fields are left untouched.
type UpdateProjectRequest struct {
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	University  *string   `json:"university"`
	Category    *string   `json:"category"`
	Tags        *[]string `json:"tags"`
	ImageURL    *string   `json:"imageUrl"`
	Status      *string   `json:"status"`
}

var (
	errProjectNotFound  = response.NewNotFound("Project not found")
	errInvalidCategory  = response.NewBadRequest("Invalid category")
	errNothingToUpdate  = response.NewBadRequest("No fields to update")
	errMissingProjField = response.NewBadRequest("Missing required fields")
)

// List returns projects newest first, optionally filtered by category name and
// a case-insensitive search over title and description.
func (s *ProjectService) List(ctx context.Context, req *ProjectListRequest) ([]models.ProjectView, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	offset := req.Offset
	if offset < 0 {
		offset = 0
	}

	var where []string
	var args []interface{}
	if req.Category != "" {
		where = append(where, "c.name = ?")
		args = append(args, req.Category)
	}
	if req.Search != "" {
		pattern := "%" + escapeLike(strings.ToLower(req.Search)) + "%"
		where = append(where, "(LOWER(p.title) LIKE ? ESCAPE '!' OR LOWER(p.description) LIKE ? ESCAPE '!')")
		args = append(args, pattern, pattern)
	}

	query := projectSelect
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY p.created_at DESC, p.id DESC LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	return s.queryViews(ctx, s.gw, query, args...)
}

// Trending returns the most supported projects, ties broken by views
func (s *ProjectService) Trending(ctx context.Context) ([]models.ProjectView, error) {
	return s.queryViews(ctx, s.gw,
		projectSelect+" ORDER BY p.support_count DESC, p.views DESC LIMIT ?", trendingLimit)
}

// GetByID records a view and returns the project. The view is counted before
// the lookup.
func (s *ProjectService) GetByID(ctx context.Context, id uint) (*models.ProjectView, error) {
	if _, err := s.gw.Execute(ctx, "UPDATE projects SET views = views + 1 WHERE id = ?", id); err != nil {
		return nil, err
	}
	return s.getView(ctx, s.gw, id)
}

func (s *ProjectService) ListByAuthor(ctx context.Context, authorID uint) ([]models.ProjectView, error) {
	return s.queryViews(ctx, s.gw,
		projectSelect+" WHERE p.author_id = ? ORDER BY p.created_at DESC, p.id DESC", authorID)
}

// ListSupportedBy returns the projects a user supports, most recent support first
func (s *ProjectService) ListSupportedBy(ctx context.Context, userID uint) ([]models.ProjectView, error) {
	return s.queryViews(ctx, s.gw,
		projectSelect+" JOIN project_support ps ON ps.project_id = p.id WHERE ps.user_id = ? ORDER BY ps.created_at DESC, ps.id DESC",
		userID)
}

// Create inserts a project and its tags in one transaction and returns the new id.
func (s *ProjectService) Create(ctx context.Context, req *CreateProjectRequest) (uint, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" || strings.TrimSpace(req.Description) == "" || strings.TrimSpace(req.Category) == "" || req.AuthorID == 0 {
		return 0, errMissingProjField
	}
	tags := normalizeTags(req.Tags)

	var id uint
	err := s.gw.Transaction(ctx, func(tx *models.Gateway) error {
		categoryID, found, err := resolveCategoryID(ctx, tx, req.Category)
		if err != nil {
			return err
		}
		if !found {
			return errInvalidCategory
		}

		exists, err := userExists(ctx, tx, req.AuthorID)
		if err != nil {
			return err
		}
		if !exists {
			return response.NewBadRequest("Invalid author")
		}

		now := time.Now().UTC()
		res, err := tx.Execute(ctx, `
			INSERT INTO projects (title, description, university, category_id, image_url,
				score, support_count, views, author_id, status, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, 0, 0, 0, ?, ?, ?, ?)`,
			title, req.Description, req.University, categoryID, req.ImageURL,
			req.AuthorID, models.ProjectStatusActive, now, now)
		if err != nil {
			return err
		}
		id = uint(res.LastInsertID)

		return insertTags(ctx, tx, id, tags)
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// Update applies a partial update. Present tags replace the existing set.
func (s *ProjectService) Update(ctx context.Context, id uint, req *UpdateProjectRequest) error {
	var p patch
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return response.NewBadRequest("Title cannot be empty")
		}
		p.set("title", title)
	}
	p.setString("description", req.Description)
	p.setString("university", req.University)
	p.setString("image_url", req.ImageURL)
	if req.Status != nil {
		status := strings.TrimSpace(*req.Status)
		if status == "" {
			return response.NewBadRequest("Status cannot be empty")
		}
		p.set("status", status)
	}

	if p.empty() && req.Category == nil && req.Tags == nil {
		return errNothingToUpdate
	}

	return s.gw.Transaction(ctx, func(tx *models.Gateway) error {
		var existing uint
		found, err := tx.QueryOne(ctx, &existing, "SELECT id FROM projects WHERE id = ?", id)
		if err != nil {
			return err
		}
		if !found {
			return errProjectNotFound
		}

		if req.Category != nil {
			categoryID, found, err := resolveCategoryID(ctx, tx, *req.Category)
			if err != nil {
				return err
			}
			if !found {
				return errInvalidCategory
			}
			p.set("category_id", categoryID)
		}

		p.set("updated_at", time.Now().UTC())
		query, args := p.update("projects", "id = ?", id)
		if _, err := tx.Execute(ctx, query, args...); err != nil {
			return err
		}

		if req.Tags != nil {
			if _, err := tx.Execute(ctx, "DELETE FROM project_tags WHERE project_id = ?", id); err != nil {
				return err
			}
			return insertTags(ctx, tx, id, normalizeTags(*req.Tags))
		}
		return nil
	})
}

// Delete removes a project; tags and supports go with it
func (s *ProjectService) Delete(ctx context.Context, id uint) error {
	res, err := s.gw.Execute(ctx, "DELETE FROM projects WHERE id = ?", id)
	if err != nil {
		return err
	}
	if res.RowsChanged == 0 {
		return errProjectNotFound
	}
	return nil
}

// ToggleSupport flips the user's support for a project and returns the new
// state. The membership row and support_count change in one transaction.
func (s *ProjectService) ToggleSupport(ctx context.Context, projectID, userID uint) (bool, error) {
	if userID == 0 {
		return false, response.NewBadRequest("User ID is required")
	}

	var supported bool
	err := s.gw.Transaction(ctx, func(tx *models.Gateway) error {
		var existing uint
		found, err := tx.QueryOne(ctx, &existing, "SELECT id FROM projects WHERE id = ?", projectID)
		if err != nil {
			return err
		}
		if !found {
			return errProjectNotFound
		}

		exists, err := userExists(ctx, tx, userID)
		if err != nil {
			return err
		}
		if !exists {
			return response.NewBadRequest("Invalid user")
		}

		res, err := tx.Execute(ctx,
			"DELETE FROM project_support WHERE user_id = ? AND project_id = ?", userID, projectID)
		if err != nil {
			return err
		}

		if res.RowsChanged > 0 {
			supported = false
			_, err = tx.Execute(ctx,
				"UPDATE projects SET support_count = support_count - 1 WHERE id = ?", projectID)
			return err
		}

		if _, err := tx.Execute(ctx,
			"INSERT INTO project_support (user_id, project_id, created_at) VALUES (?, ?, ?)",
			userID, projectID, time.Now().UTC()); err != nil {
			return err
		}
		supported = true
		_, err = tx.Execute(ctx,
			"UPDATE projects SET support_count = support_count + 1 WHERE id = ?", projectID)
		return err
	})
	if err != nil {
		return false, err
	}
	return supported, nil
}

func (s *ProjectService) getView(ctx context.Context, gw *models.Gateway, id uint) (*models.ProjectView, error) {
	views, err := s.queryViews(ctx, gw, projectSelect+" WHERE p.id = ?", id)
	if err != nil {
		return nil, err
	}
	if len(views) == 0 {
		return nil, errProjectNotFound
	}
	return &views[0], nil
}

func (s *ProjectService) queryViews(ctx context.Context, gw *models.Gateway, query string, args ...interface{}) ([]models.ProjectView, error) {
	var views []models.ProjectView
	if err := gw.QueryMany(ctx, &views, query, args...); err != nil {
		return nil, err
	}
	if views == nil {
		views = []models.ProjectView{}
	}
	if err := attachTags(ctx, gw, views); err != nil {
		return nil, err
	}
	return views, nil
}

// attachTags loads the tags of every view with one query, preserving insert order.
func attachTags(ctx context.Context, gw *models.Gateway, views []models.ProjectView) error {
	if len(views) == 0 {
		return nil
	}

	ids := make([]uint, len(views))
	for i := range views {
		ids[i] = views[i].ID
	}

	var tags []models.ProjectTag
	if err := gw.QueryMany(ctx, &tags,
		"SELECT id, project_id, tag_name FROM project_tags WHERE project_id IN ? ORDER BY id", ids); err != nil {
		return err
	}

	byProject := make(map[uint][]string, len(views))
	for _, t := range tags {
		byProject[t.ProjectID] = append(byProject[t.ProjectID], t.TagName)
	}
	for i := range views {
		views[i].Tags = byProject[views[i].ID]
		if views[i].Tags == nil {
			views[i].Tags = []string{}
		}
	}
	return nil
}

func insertTags(ctx context.Context, gw *models.Gateway, projectID uint, tags []string) error {
	for _, tag := range tags {
		if _, err := gw.Execute(ctx,
			"INSERT INTO project_tags (project_id, tag_name) VALUES (?, ?)", projectID, tag); err != nil {
			return err
		}
	}
	return nil
}

// normalizeTags trims tags and drops blanks and repeats, keeping first-seen order.
func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}

// escapeLike escapes LIKE wildcards using '!' as the escape character
func escapeLike(s string) string {
	return strings.NewReplacer("!", "!!", "%", "!%", "_", "!_").Replace(s)
}

func userExists(ctx context.Context, gw *models.Gateway, id uint) (bool, error) {
	var existing uint
	return gw.QueryOne(ctx, &existing, "SELECT id FROM users WHERE id = ?", id)
}
