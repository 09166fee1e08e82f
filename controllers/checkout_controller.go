package controllers

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"lensbox/checkout"
	"lensbox/database"
	"lensbox/models"
	"lensbox/mq"
	"lensbox/payment"
	"lensbox/pricing"
)

type checkoutItem struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
}

type createOrderRequest struct {
	FullName     string           `json:"fullName"`
	Phone        string           `json:"phone"`
	AddressLine1 string           `json:"addressLine1"`
	AddressLine2 string           `json:"addressLine2"`
	City         string           `json:"city"`
	State        string           `json:"state"`
	Country      string           `json:"country"`
	ZipCode      string           `json:"zipCode"`
	StartDate    string           `json:"startDate"`
	EndDate      string           `json:"endDate"`
	Items        []checkoutItem   `json:"items"`
	Location     *models.Location `json:"location"`
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

// CreateCheckoutOrder validates the checkout payload, prices the rental
// server-side, registers a gateway order and parks the pending order until
// the payment is verified. Validation failures return a per-field error map
// and never reach the gateway.
func CreateCheckoutOrder(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request body"})
		return
	}

	details := models.CustomerDetails{
		FullName:     req.FullName,
		Phone:        req.Phone,
		AddressLine1: req.AddressLine1,
		AddressLine2: req.AddressLine2,
		City:         req.City,
		State:        req.State,
		Country:      req.Country,
		ZipCode:      req.ZipCode,
	}
	if errs := checkout.ValidateDetails(details); len(errs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "errors": errs})
		return
	}

	startDate, startErr := parseDate(req.StartDate)
	endDate, endErr := parseDate(req.EndDate)
	if startErr != nil || endErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "errors": gin.H{"dates": "Invalid date format"}})
		return
	}
	if errs := checkout.ValidateDates(startDate, endDate); len(errs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "errors": errs})
		return
	}

	if len(req.Items) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Items are required"})
		return
	}

	userID, err := primitive.ObjectIDFromHex(c.MustGet("userId").(string))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Invalid user"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Line amounts come from the catalog, not the client.
	var orderItems []models.OrderItem
	for _, item := range req.Items {
		productID, err := primitive.ObjectIDFromHex(item.ProductID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid productId format"})
			return
		}

		var product models.Product
		err = database.ProductCollection.FindOne(ctx, bson.M{"_id": productID, "isDeleted": false}).Decode(&product)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Product not found"})
			return
		}
		if item.Quantity > product.Stock {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error":   fmt.Sprintf("Not enough stock for %s, available: %d", product.Name, product.Stock),
			})
			return
		}

		orderItems = append(orderItems, models.OrderItem{
			ProductID: productID,
			Quantity:  item.Quantity,
			Amount:    product.Price,
		})
	}

	total := pricing.Total(orderItems, startDate, endDate)
	amountPaise := int64(math.Round(total * 100))
	if amountPaise <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Order total must be positive"})
		return
	}

	receipt := "receipt_" + uuid.New().String()
	gatewayOrder, err := gateway.CreateOrder(amountPaise, receipt)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to create payment order"})
		return
	}

	tempOrder := models.TempOrder{
		ID:              primitive.NewObjectID(),
		RazorpayOrderID: gatewayOrder.ID,
		Receipt:         receipt,
		UserID:          userID,
		CustomerDetails: details,
		StartDate:       startDate,
		EndDate:         endDate,
		Items:           orderItems,
		Total:           total,
		Location:        req.Location,
		CreatedAt:       time.Now(),
	}
	if _, err := database.TempOrderCollection.InsertOne(ctx, tempOrder); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to store pending order"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":         true,
		"order":           gatewayOrder,
		"razorpayOrderId": gatewayOrder.ID,
		"pricing": gin.H{
			"rentalDays": pricing.RentalDays(startDate, endDate),
			"subtotal":   pricing.Subtotal(orderItems),
			"total":      total,
		},
	})
}

type verifyPaymentRequest struct {
	RazorpayOrderID   string `json:"razorpay_order_id" binding:"required"`
	RazorpayPaymentID string `json:"razorpay_payment_id" binding:"required"`
	RazorpaySignature string `json:"razorpay_signature" binding:"required"`
}

// checkoutStore is the persistence surface of payment verification, carved
// out so the consume-once and stock-pass behavior can be exercised without a
// running MongoDB.
type checkoutStore interface {
	ConsumePendingOrder(ctx context.Context, gatewayOrderID string) (models.TempOrder, error)
	Product(ctx context.Context, id primitive.ObjectID) (models.Product, error)
	ReserveStock(ctx context.Context, item models.OrderItem) error
	ReleaseStock(ctx context.Context, items []models.OrderItem)
	CreateOrder(ctx context.Context, order models.Order) error
	RemoveCartLines(ctx context.Context, userID primitive.ObjectID, productIDs []primitive.ObjectID)
	User(ctx context.Context, id primitive.ObjectID) (models.User, error)
}

var errOutOfStock = errors.New("insufficient stock")

type mongoCheckoutStore struct{}

var checkoutDB checkoutStore = mongoCheckoutStore{}

// ConsumePendingOrder atomically claims the pending order for its gateway
// id. A second caller finds nothing, which is what makes a replayed
// verification fail instead of double-creating.
func (mongoCheckoutStore) ConsumePendingOrder(ctx context.Context, gatewayOrderID string) (models.TempOrder, error) {
	var tempOrder models.TempOrder
	err := database.TempOrderCollection.FindOneAndDelete(ctx, bson.M{"razorpayOrderId": gatewayOrderID}).Decode(&tempOrder)
	return tempOrder, err
}

func (mongoCheckoutStore) Product(ctx context.Context, id primitive.ObjectID) (models.Product, error) {
	var product models.Product
	err := database.ProductCollection.FindOne(ctx, bson.M{"_id": id}).Decode(&product)
	return product, err
}

func (mongoCheckoutStore) ReserveStock(ctx context.Context, item models.OrderItem) error {
	result, err := database.ProductCollection.UpdateOne(ctx,
		bson.M{"_id": item.ProductID, "stock": bson.M{"$gte": item.Quantity}},
		bson.M{
			"$inc": bson.M{
				"stock":        -item.Quantity,
				"salesCount":   item.Quantity,
				"totalRevenue": item.Amount * float64(item.Quantity),
			},
			"$set": bson.M{"lastSoldAt": time.Now()},
		},
	)
	if err != nil {
		return err
	}
	if result.ModifiedCount == 0 {
		return errOutOfStock
	}
	return nil
}

func (mongoCheckoutStore) ReleaseStock(ctx context.Context, items []models.OrderItem) {
	for _, item := range items {
		_, _ = database.ProductCollection.UpdateOne(ctx,
			bson.M{"_id": item.ProductID},
			bson.M{"$inc": bson.M{
				"stock":        item.Quantity,
				"salesCount":   -item.Quantity,
				"totalRevenue": -item.Amount * float64(item.Quantity),
			}},
		)
	}
}

func (mongoCheckoutStore) CreateOrder(ctx context.Context, order models.Order) error {
	_, err := database.OrderCollection.InsertOne(ctx, order)
	return err
}

func (mongoCheckoutStore) RemoveCartLines(ctx context.Context, userID primitive.ObjectID, productIDs []primitive.ObjectID) {
	_, _ = database.CartCollection.DeleteMany(ctx, bson.M{
		"userId":    userID,
		"productId": bson.M{"$in": productIDs},
	})
}

func (mongoCheckoutStore) User(ctx context.Context, id primitive.ObjectID) (models.User, error) {
	var user models.User
	err := database.UserCollection.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	return user, err
}

// VerifyPayment checks the gateway signature, consumes the pending order,
// moves stock and creates the confirmed order. Consuming the pending order
// by its unique gateway id makes a replayed verification a 404 instead of a
// duplicate order.
func VerifyPayment(c *gin.Context) {
	var req verifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Missing required fields"})
		return
	}

	if !verifyGatewaySignature(req.RazorpayOrderID, req.RazorpayPaymentID, req.RazorpaySignature) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid signature"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	tempOrder, err := checkoutDB.ConsumePendingOrder(ctx, req.RazorpayOrderID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Pending order not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to load pending order"})
		}
		return
	}

	// First pass: every line must be satisfiable before anything moves.
	for _, item := range tempOrder.Items {
		product, err := checkoutDB.Product(ctx, item.ProductID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Product not found"})
			return
		}
		if product.Stock < item.Quantity {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error":   fmt.Sprintf("Insufficient stock for %s, available: %d", product.Name, product.Stock),
			})
			return
		}
	}

	// Second pass: guarded decrements, rolled back on any shortfall.
	var reserved []models.OrderItem
	for _, item := range tempOrder.Items {
		if err := checkoutDB.ReserveStock(ctx, item); err != nil {
			checkoutDB.ReleaseStock(ctx, reserved)
			c.JSON(http.StatusConflict, gin.H{"success": false, "error": "Failed to reserve stock"})
			return
		}
		reserved = append(reserved, item)
	}

	now := time.Now()
	order := models.Order{
		ID:              primitive.NewObjectID(),
		UserID:          tempOrder.UserID,
		CustomerDetails: tempOrder.CustomerDetails,
		Status:          models.StatusConfirmed,
		StartDate:       tempOrder.StartDate,
		EndDate:         tempOrder.EndDate,
		Items:           tempOrder.Items,
		Total:           tempOrder.Total,
		Razorpay: models.RazorpayDetails{
			OrderID:   req.RazorpayOrderID,
			PaymentID: req.RazorpayPaymentID,
			Signature: req.RazorpaySignature,
		},
		Location:  tempOrder.Location,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := checkoutDB.CreateOrder(ctx, order); err != nil {
		checkoutDB.ReleaseStock(ctx, reserved)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to create order"})
		return
	}

	// Purchased lines leave the cart; a failure here does not fail the order.
	productIDs := make([]primitive.ObjectID, 0, len(order.Items))
	for _, item := range order.Items {
		productIDs = append(productIDs, item.ProductID)
	}
	checkoutDB.RemoveCartLines(ctx, order.UserID, productIDs)

	sendOrderConfirmation(ctx, order)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Payment verified and order created successfully",
		"order":   order,
		"orderId": order.ID.Hex(),
	})
}

func verifyGatewaySignature(orderID, paymentID, signature string) bool {
	return payment.VerifySignature(orderID, paymentID, signature, os.Getenv("RAZORPAY_KEY_SECRET"))
}

func sendOrderConfirmation(ctx context.Context, order models.Order) {
	user, err := checkoutDB.User(ctx, order.UserID)
	if err != nil {
		return
	}

	days := pricing.RentalDays(order.StartDate, order.EndDate)
	publishMail(mq.MailEvent{
		Kind:    mq.MailOrderConfirmation,
		To:      user.Email,
		Name:    user.Name,
		Subject: "Your LensBox order is confirmed",
		Body: fmt.Sprintf("Order %s is confirmed: %d item(s) for %d day(s), total ₹%.2f.",
			order.ID.Hex(), len(order.Items), days, order.Total),
		OrderID: order.ID.Hex(),
	})
}
