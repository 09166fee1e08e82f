package controllers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryUpdateKeepsAbsentFields(t *testing.T) {
	name := "Tripods"
	update := categoryUpdate(&name, nil, nil)

	assert.Equal(t, "Tripods", update["name"])
	assert.NotContains(t, update, "description")
	assert.NotContains(t, update, "image")
	assert.Contains(t, update, "updatedAt")
}

func TestCategoryUpdateEmptyBodyOnlyBumpsTimestamp(t *testing.T) {
	update := categoryUpdate(nil, nil, nil)

	require.Len(t, update, 1)
	assert.Contains(t, update, "updatedAt")
}

func performCategoryUpdate(t *testing.T, handler gin.HandlerFunc, id, body string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPut, "/", bytes.NewReader([]byte(body)))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{{Key: "id", Value: id}}

	handler(c)
	return w
}

func TestUpdateCategoryRejectsInvalidID(t *testing.T) {
	w := performCategoryUpdate(t, UpdateCategory, "not-an-id", `{"name":"Lenses"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateCategoryRejectsEmptyName(t *testing.T) {
	w := performCategoryUpdate(t, UpdateCategory, "64a1f0c2e5b4a7d8c9e0f123", `{"name":""}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateSubCategoryRejectsEmptyName(t *testing.T) {
	w := performCategoryUpdate(t, UpdateSubCategory, "64a1f0c2e5b4a7d8c9e0f123", `{"name":""}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
