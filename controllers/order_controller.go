package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"lensbox/database"
	"lensbox/models"
	"lensbox/pricing"
)

type orderProductDetail struct {
	ID       primitive.ObjectID `json:"id"`
	Name     string             `json:"name"`
	Price    float64            `json:"price"`
	Images   []string           `json:"images"`
	Quantity int                `json:"quantity"`
}

func resolveOrderItems(ctx context.Context, items []models.OrderItem) []orderProductDetail {
	var details []orderProductDetail = []orderProductDetail{}
	for _, item := range items {
		var product models.Product
		if err := database.ProductCollection.FindOne(ctx, bson.M{"_id": item.ProductID}).Decode(&product); err != nil {
			continue
		}
		details = append(details, orderProductDetail{
			ID:       product.ID,
			Name:     product.Name,
			Price:    item.Amount,
			Images:   product.Images,
			Quantity: item.Quantity,
		})
	}
	return details
}

func orderSummary(ctx context.Context, order models.Order) gin.H {
	return gin.H{
		"id":              order.ID.Hex(),
		"customerDetails": order.CustomerDetails,
		"status":          order.Status,
		"startDate":       order.StartDate,
		"endDate":         order.EndDate,
		"rentalDays":      pricing.RentalDays(order.StartDate, order.EndDate),
		"items":           resolveOrderItems(ctx, order.Items),
		"total":           order.Total,
		"razorpay": gin.H{
			"orderId":   order.Razorpay.OrderID,
			"paymentId": order.Razorpay.PaymentID,
		},
		"createdAt": order.CreatedAt,
	}
}

// GetOrders lists the authenticated customer's orders, newest first.
func GetOrders(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(c.MustGet("userId").(string))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := database.OrderCollection.Find(ctx, bson.M{"user": userID},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var orders []models.Order
	if err := cursor.All(ctx, &orders); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var resp []gin.H = []gin.H{}
	for _, order := range orders {
		resp = append(resp, orderSummary(ctx, order))
	}

	c.JSON(http.StatusOK, gin.H{"message": "Orders retrieved successfully", "orders": resp})
}

// CancelOrder lets a customer cancel their own order while it is still
// confirmed.
func CancelOrder(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(c.MustGet("userId").(string))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user"})
		return
	}

	orderID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order id"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	filter := bson.M{
		"_id":    orderID,
		"user":   userID,
		"status": models.StatusConfirmed,
	}
	update := bson.M{"$set": bson.M{"status": models.StatusCancelled, "updatedAt": time.Now()}}

	result, err := database.OrderCollection.UpdateOne(ctx, filter, update)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to cancel order"})
		return
	}
	if result.MatchedCount == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Order not found or cannot be cancelled"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Order cancelled"})
}
