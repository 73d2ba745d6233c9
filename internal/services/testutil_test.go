package services

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/brainfuel/backend/internal/config"
	"github.com/brainfuel/backend/internal/models"
	"github.com/brainfuel/backend/internal/utils"
	"github.com/stretchr/testify/require"
)

func init() {
	utils.SetJWTSecret("test-secret")
}

var testJWTConfig = &config.JWTConfig{Secret: "test-secret", ExpireHour: 24}

func newTestGateway(t *testing.T) *models.Gateway {
	t.Helper()
	gw := models.NewGateway(&config.DatabaseConfig{
		Driver:   "sqlite",
		DSN:      filepath.Join(t.TempDir(), "services.db"),
		LogLevel: "silent",
	})
	t.Cleanup(func() { gw.Close() })

	db, err := gw.DB()
	require.NoError(t, err)
	require.NoError(t, models.AutoMigrate(db))
	return gw
}

func mustCategory(t *testing.T, gw *models.Gateway, name string) uint {
	t.Helper()
	id, err := NewCategoryService(gw).Create(context.Background(), &CreateCategoryRequest{Name: name, Description: name + " projects"})
	require.NoError(t, err)
	return id
}

func mustUser(t *testing.T, gw *models.Gateway, username string) uint {
	t.Helper()
	res, err := NewUserService(gw, testJWTConfig).Register(context.Background(), &RegisterRequest{
		Username: username,
		Email:    username + "@example.com",
		Password: "secret123",
		Name:     username,
	})
	require.NoError(t, err)
	return res.User.ID
}

func mustProject(t *testing.T, gw *models.Gateway, title, category string, authorID uint, tags ...string) uint {
	t.Helper()
	id, err := NewProjectService(gw).Create(context.Background(), &CreateProjectRequest{
		Title:       title,
		Description: title + " description",
		Category:    category,
		Tags:        tags,
		AuthorID:    authorID,
	})
	require.NoError(t, err)
	return id
}
