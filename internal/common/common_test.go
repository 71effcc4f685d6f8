package common_test

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/DhavalSuthar-24/arena/internal/common"
)

func newContext(target string) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", target, nil)
	return c
}

func TestPagination(t *testing.T) {
	page, limit := common.Pagination(newContext("/x"), 20, 100)
	assert.Equal(t, 1, page)
	assert.Equal(t, 20, limit)

	page, limit = common.Pagination(newContext("/x?page=3&limit=500"), 20, 100)
	assert.Equal(t, 3, page)
	assert.Equal(t, 100, limit)

	page, limit = common.Pagination(newContext("/x?page=-2&limit=abc"), 20, 100)
	assert.Equal(t, 1, page)
	assert.Equal(t, 20, limit)
}

func TestParseIDParam(t *testing.T) {
	c := newContext("/x")
	c.Params = gin.Params{{Key: "id", Value: "42"}}
	id, err := common.ParseIDParam(c, "id")
	assert.NoError(t, err)
	assert.Equal(t, uint(42), id)

	c.Params = gin.Params{{Key: "id", Value: "0"}}
	_, err = common.ParseIDParam(c, "id")
	assert.Error(t, err)
}

func TestUserFromContext(t *testing.T) {
	c := newContext("/x")
	_, err := common.GetUserIDFromContext(c)
	assert.Error(t, err)

	c.Set(common.ContextUserIDKey, uint(7))
	c.Set(common.ContextUserRoleKey, common.RoleAdmin)
	id, err := common.GetUserIDFromContext(c)
	assert.NoError(t, err)
	assert.Equal(t, uint(7), id)
	assert.True(t, common.IsAdmin(c))
}
