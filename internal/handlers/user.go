package handlers

import (
	"github.com/brainfuel/backend/internal/config"
	"github.com/brainfuel/backend/internal/middleware"
	"github.com/brainfuel/backend/internal/models"
	"github.com/brainfuel/backend/internal/services"
	"github.com/brainfuel/backend/pkg/response"
	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userService    *services.UserService
	projectService *services.ProjectService
}

func NewUserHandler(gw *models.Gateway, cfg *config.Config) *UserHandler {
	return &UserHandler{
		userService:    services.NewUserService(gw, &cfg.JWT),
		projectService: services.NewProjectService(gw),
	}
}

// Register creates an account and returns a token
// POST /api/users/register
func (h *UserHandler) Register(c *gin.Context) {
	var req services.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.userService.Register(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, gin.H{
		"message": "User registered successfully",
		"token":   result.Token,
		"user":    result.User,
	})
}

// Login handles user login by username or email
// POST /api/users/login
func (h *UserHandler) Login(c *gin.Context) {
	var req services.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.userService.Login(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{
		"message": "Login successful",
		"token":   result.Token,
		"user":    result.User,
	})
}

// Logout handles user logout (client-side token removal)
// POST /api/users/logout
func (h *UserHandler) Logout(c *gin.Context) {
	response.Success(c, gin.H{"message": "Logged out successfully"})
}

// GetProfile returns the current user
// GET /api/users/profile
func (h *UserHandler) GetProfile(c *gin.Context) {
	user, err := h.userService.GetProfile(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, user)
}

// UpdateProfile applies a partial profile update
// PUT /api/users/profile
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req services.UpdateProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.userService.UpdateProfile(c.Request.Context(), middleware.GetUserID(c), &req); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"message": "Profile updated successfully"})
}

// Projects lists the current user's own projects
// GET /api/users/projects
func (h *UserHandler) Projects(c *gin.Context) {
	projects, err := h.projectService.ListByAuthor(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, projects)
}

// Supported lists the projects the current user supports
// GET /api/users/supported
func (h *UserHandler) Supported(c *gin.Context) {
	projects, err := h.projectService.ListSupportedBy(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, projects)
}
