package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"lensbox/models"
)

func TestSellerOrderFilterScopesToOwnProducts(t *testing.T) {
	orderID := primitive.NewObjectID()
	productIDs := []primitive.ObjectID{primitive.NewObjectID(), primitive.NewObjectID()}

	filter := sellerOrderFilter(orderID, models.RoleSeller, productIDs)

	assert.Equal(t, orderID, filter["_id"])
	scope, ok := filter["items.productId"].(bson.M)
	require.True(t, ok, "seller filter must intersect the order items with the seller's products")
	assert.Equal(t, bson.M{"$in": productIDs}, scope)
}

func TestSellerOrderFilterAdminSeesAllOrders(t *testing.T) {
	orderID := primitive.NewObjectID()

	filter := sellerOrderFilter(orderID, models.RoleAdmin, nil)

	assert.Equal(t, bson.M{"_id": orderID}, filter)
	assert.NotContains(t, filter, "items.productId")
}

func TestUpdateOrderStatusRejectsUnknownStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)

	body, err := json.Marshal(map[string]any{"status": "returned"})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPut, "/", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{{Key: "id", Value: primitive.NewObjectID().Hex()}}
	c.Set("userId", primitive.NewObjectID().Hex())
	c.Set("role", models.RoleSeller)

	UpdateOrderStatus(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
