package controllers

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"lensbox/models"
)

func performCheckout(t *testing.T, handler gin.HandlerFunc, payload any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set("userId", "64a1f0c2e5b4a7d8c9e0f123")
	c.Set("role", "customer")

	handler(c)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w, resp
}

func validCheckoutPayload() map[string]any {
	return map[string]any{
		"fullName":     "Asha Rao",
		"phone":        "9876543210",
		"addressLine1": "12 MG Road",
		"city":         "Bengaluru",
		"state":        "Karnataka",
		"country":      "India",
		"zipCode":      "560001",
		"startDate":    "2026-09-01",
		"endDate":      "2026-09-03",
		"items": []map[string]any{
			{"productId": "64a1f0c2e5b4a7d8c9e0f456", "quantity": 1},
		},
	}
}

func TestCreateCheckoutOrderRejectsInvalidPhone(t *testing.T) {
	payload := validCheckoutPayload()
	payload["phone"] = "12345"

	w, resp := performCheckout(t, CreateCheckoutOrder, payload)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, false, resp["success"])

	errs, ok := resp["errors"].(map[string]any)
	require.True(t, ok, "expected per-field error map")
	assert.Equal(t, "Please enter a valid 10-digit phone number", errs["phone"])
}

func TestCreateCheckoutOrderRejectsInvalidZip(t *testing.T) {
	payload := validCheckoutPayload()
	payload["zipCode"] = "5600"

	w, resp := performCheckout(t, CreateCheckoutOrder, payload)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	errs, ok := resp["errors"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Please enter a valid 6-digit PIN code", errs["zipCode"])
}

func TestCreateCheckoutOrderReportsAllMissingFields(t *testing.T) {
	w, resp := performCheckout(t, CreateCheckoutOrder, map[string]any{
		"startDate": "2026-09-01",
		"endDate":   "2026-09-03",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	errs, ok := resp["errors"].(map[string]any)
	require.True(t, ok)
	for _, field := range []string{"fullName", "phone", "addressLine1", "city", "state", "country", "zipCode"} {
		assert.Contains(t, errs, field)
	}
	assert.NotContains(t, errs, "addressLine2")
}

func TestCreateCheckoutOrderRejectsBadDates(t *testing.T) {
	payload := validCheckoutPayload()
	payload["startDate"] = "2026-09-05"
	payload["endDate"] = "2026-09-01"

	w, resp := performCheckout(t, CreateCheckoutOrder, payload)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	errs, ok := resp["errors"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "End date cannot be before start date", errs["endDate"])
}

func TestCreateCheckoutOrderRejectsMalformedDates(t *testing.T) {
	payload := validCheckoutPayload()
	payload["startDate"] = "not-a-date"

	w, resp := performCheckout(t, CreateCheckoutOrder, payload)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	errs, ok := resp["errors"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Invalid date format", errs["dates"])
}

func TestVerifyPaymentRejectsMissingFields(t *testing.T) {
	w, resp := performCheckout(t, VerifyPayment, map[string]any{
		"razorpay_order_id": "order_abc",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, false, resp["success"])
}

type fakeCheckoutStore struct {
	pending  map[string]models.TempOrder
	products map[primitive.ObjectID]models.Product
	failOn   primitive.ObjectID
	reserved []models.OrderItem
	released []models.OrderItem
	orders   []models.Order
}

func (s *fakeCheckoutStore) ConsumePendingOrder(_ context.Context, gatewayOrderID string) (models.TempOrder, error) {
	tempOrder, ok := s.pending[gatewayOrderID]
	if !ok {
		return models.TempOrder{}, mongo.ErrNoDocuments
	}
	delete(s.pending, gatewayOrderID)
	return tempOrder, nil
}

func (s *fakeCheckoutStore) Product(_ context.Context, id primitive.ObjectID) (models.Product, error) {
	product, ok := s.products[id]
	if !ok {
		return models.Product{}, mongo.ErrNoDocuments
	}
	return product, nil
}

func (s *fakeCheckoutStore) ReserveStock(_ context.Context, item models.OrderItem) error {
	if item.ProductID == s.failOn {
		return errOutOfStock
	}
	s.reserved = append(s.reserved, item)
	return nil
}

func (s *fakeCheckoutStore) ReleaseStock(_ context.Context, items []models.OrderItem) {
	s.released = append(s.released, items...)
}

func (s *fakeCheckoutStore) CreateOrder(_ context.Context, order models.Order) error {
	s.orders = append(s.orders, order)
	return nil
}

func (s *fakeCheckoutStore) RemoveCartLines(_ context.Context, _ primitive.ObjectID, _ []primitive.ObjectID) {
}

func (s *fakeCheckoutStore) User(_ context.Context, id primitive.ObjectID) (models.User, error) {
	return models.User{ID: id, Email: "customer@lensbox.in", Name: "Asha Rao"}, nil
}

func signPayment(t *testing.T, orderID, paymentID, secret string) string {
	t.Helper()
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func swapCheckoutStore(t *testing.T, store checkoutStore) {
	t.Helper()
	prev := checkoutDB
	checkoutDB = store
	t.Cleanup(func() { checkoutDB = prev })
}

func twoLineTempOrder(gatewayOrderID string, first, second primitive.ObjectID) models.TempOrder {
	return models.TempOrder{
		ID:              primitive.NewObjectID(),
		RazorpayOrderID: gatewayOrderID,
		UserID:          primitive.NewObjectID(),
		Items: []models.OrderItem{
			{ProductID: first, Quantity: 2, Amount: 100},
			{ProductID: second, Quantity: 1, Amount: 50},
		},
		Total: 750,
	}
}

func TestVerifyPaymentReplayedVerificationFinds404(t *testing.T) {
	t.Setenv("RAZORPAY_KEY_SECRET", "test_secret")

	first, second := primitive.NewObjectID(), primitive.NewObjectID()
	store := &fakeCheckoutStore{
		pending: map[string]models.TempOrder{
			"order_abc": twoLineTempOrder("order_abc", first, second),
		},
		products: map[primitive.ObjectID]models.Product{
			first:  {ID: first, Name: "Canon R5", Stock: 5},
			second: {ID: second, Name: "Tripod", Stock: 3},
		},
	}
	swapCheckoutStore(t, store)

	payload := map[string]any{
		"razorpay_order_id":   "order_abc",
		"razorpay_payment_id": "pay_xyz",
		"razorpay_signature":  signPayment(t, "order_abc", "pay_xyz", "test_secret"),
	}

	w, resp := performCheckout(t, VerifyPayment, payload)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, resp["success"])
	require.Len(t, store.orders, 1)
	assert.Equal(t, models.StatusConfirmed, store.orders[0].Status)

	w, resp = performCheckout(t, VerifyPayment, payload)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, false, resp["success"])
	assert.Len(t, store.orders, 1, "a replayed verification must not create a second order")
}

func TestVerifyPaymentRollsBackOnStockShortfall(t *testing.T) {
	t.Setenv("RAZORPAY_KEY_SECRET", "test_secret")

	first, second := primitive.NewObjectID(), primitive.NewObjectID()
	store := &fakeCheckoutStore{
		pending: map[string]models.TempOrder{
			"order_abc": twoLineTempOrder("order_abc", first, second),
		},
		products: map[primitive.ObjectID]models.Product{
			first:  {ID: first, Name: "Canon R5", Stock: 5},
			second: {ID: second, Name: "Tripod", Stock: 3},
		},
		failOn: second,
	}
	swapCheckoutStore(t, store)

	w, resp := performCheckout(t, VerifyPayment, map[string]any{
		"razorpay_order_id":   "order_abc",
		"razorpay_payment_id": "pay_xyz",
		"razorpay_signature":  signPayment(t, "order_abc", "pay_xyz", "test_secret"),
	})

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, false, resp["success"])
	assert.Empty(t, store.orders)
	require.Len(t, store.released, 1, "the decrement that succeeded must be released")
	assert.Equal(t, first, store.released[0].ProductID)
}

func TestVerifyPaymentRejectsBadSignature(t *testing.T) {
	t.Setenv("RAZORPAY_KEY_SECRET", "test_secret")

	w, resp := performCheckout(t, VerifyPayment, map[string]any{
		"razorpay_order_id":   "order_abc",
		"razorpay_payment_id": "pay_xyz",
		"razorpay_signature":  "deadbeef",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid signature", resp["error"])
}
