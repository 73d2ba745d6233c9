package services

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/brainfuel/backend/pkg/response"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryService_CreateRejectsDuplicate(t *testing.T) {
	gw := newTestGateway(t)
	ctx := context.Background()
	svc := NewCategoryService(gw)

	id, err := svc.Create(ctx, &CreateCategoryRequest{Name: "AI", Description: "Artificial intelligence"})
	require.NoError(t, err)
	assert.NotZero(t, id)

	_, err = svc.Create(ctx, &CreateCategoryRequest{Name: " AI ", Description: "again"})
	assertAppError(t, err, http.StatusBadRequest, "Category name already exists")

	_, err = svc.Create(ctx, &CreateCategoryRequest{Name: "   "})
	assertAppError(t, err, http.StatusBadRequest, "Category name is required")

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Artificial intelligence", list[0].Description)
}

func TestCategoryService_ListOrderedByName(t *testing.T) {
	gw := newTestGateway(t)
	ctx := context.Background()
	svc := NewCategoryService(gw)

	empty, err := svc.List(ctx)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	for _, name := range []string{"Web", "AI", "Mobile"} {
		mustCategory(t, gw, name)
	}

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{"AI", "Mobile", "Web"}, []string{list[0].Name, list[1].Name, list[2].Name})
}

func TestCategoryService_ListWithCounts(t *testing.T) {
	gw := newTestGateway(t)
	ctx := context.Background()
	mustCategory(t, gw, "AI")
	mustCategory(t, gw, "Web")
	author := mustUser(t, gw, "alice")
	mustProject(t, gw, "one", "AI", author)
	mustProject(t, gw, "two", "AI", author)

	list, err := NewCategoryService(gw).ListWithCounts(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "AI", list[0].Name)
	assert.Equal(t, int64(2), list[0].ProjectCount)
	assert.Equal(t, "Web", list[1].Name)
	assert.Equal(t, int64(0), list[1].ProjectCount)
}

func TestCategoryService_GetByID(t *testing.T) {
	gw := newTestGateway(t)
	ctx := context.Background()
	id := mustCategory(t, gw, "AI")
	svc := NewCategoryService(gw)

	c, err := svc.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "AI", c.Name)

	_, err = svc.GetByID(ctx, id+100)
	assertAppError(t, err, http.StatusNotFound, "Category not found")
}

func TestCategoryService_Update(t *testing.T) {
	gw := newTestGateway(t)
	ctx := context.Background()
	ai := mustCategory(t, gw, "AI")
	mustCategory(t, gw, "Web")
	svc := NewCategoryService(gw)

	// renaming to its own name is not a conflict
	require.NoError(t, svc.Update(ctx, ai, &UpdateCategoryRequest{Name: strPtr("AI"), Description: strPtr("")}))

	err := svc.Update(ctx, ai, &UpdateCategoryRequest{Name: strPtr("Web")})
	assertAppError(t, err, http.StatusBadRequest, "Category name already exists")

	err = svc.Update(ctx, ai, &UpdateCategoryRequest{})
	assertAppError(t, err, http.StatusBadRequest, "No fields to update")

	err = svc.Update(ctx, 999, &UpdateCategoryRequest{Name: strPtr("Other")})
	assertAppError(t, err, http.StatusNotFound, "Category not found")

	require.NoError(t, svc.Update(ctx, ai, &UpdateCategoryRequest{Name: strPtr("Machine Learning")}))
	c, err := svc.GetByID(ctx, ai)
	require.NoError(t, err)
	assert.Equal(t, "Machine Learning", c.Name)
	assert.Equal(t, "", c.Description)
}

func TestCategoryService_DeleteBlockedByProjects(t *testing.T) {
	gw := newTestGateway(t)
	ctx := context.Background()
	id := mustCategory(t, gw, "AI")
	author := mustUser(t, gw, "alice")
	mustProject(t, gw, "one", "AI", author)
	mustProject(t, gw, "two", "AI", author)
	svc := NewCategoryService(gw)

	err := svc.Delete(ctx, id)
	var appErr *response.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, http.StatusBadRequest, appErr.HTTPStatus)
	assert.Equal(t, int64(2), appErr.Details["projectCount"])

	_, err = svc.GetByID(ctx, id)
	assert.NoError(t, err, "the category must remain")
}

func TestCategoryService_Delete(t *testing.T) {
	gw := newTestGateway(t)
	ctx := context.Background()
	id := mustCategory(t, gw, "Empty")
	svc := NewCategoryService(gw)

	require.NoError(t, svc.Delete(ctx, id))
	assertAppError(t, svc.Delete(ctx, id), http.StatusNotFound, "Category not found")
}
