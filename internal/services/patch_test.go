package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPatch_Update(t *testing.T) {
	var p patch
	assert.True(t, p.empty())

	p.setString("bio", nil)
	assert.True(t, p.empty(), "nil strings are absent")

	p.set("name", "n")
	p.setString("bio", strPtr(""))

	query, args := p.update("users", "id = ?", 7)
	assert.Equal(t, "UPDATE users SET name = ?, bio = ? WHERE id = ?", query)
	assert.Equal(t, []interface{}{"n", "", 7}, args)
}
