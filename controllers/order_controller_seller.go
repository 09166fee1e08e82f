package controllers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"lensbox/database"
	"lensbox/models"
	"lensbox/mq"
)

func sellerProductIDs(ctx context.Context, seller primitive.ObjectID) ([]primitive.ObjectID, error) {
	cursor, err := database.ProductCollection.Find(ctx, bson.M{"seller": seller},
		options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, err
	}

	var products []struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	if err := cursor.All(ctx, &products); err != nil {
		return nil, err
	}

	ids := make([]primitive.ObjectID, 0, len(products))
	for _, p := range products {
		ids = append(ids, p.ID)
	}
	return ids, nil
}

// sellerOrderFilter scopes an order lookup to the caller. Admins see every
// order; sellers only see orders containing their own products.
func sellerOrderFilter(orderID primitive.ObjectID, role string, productIDs []primitive.ObjectID) bson.M {
	filter := bson.M{"_id": orderID}
	if role != models.RoleAdmin {
		filter["items.productId"] = bson.M{"$in": productIDs}
	}
	return filter
}

// GetSellerOrders lists orders that contain at least one of the seller's
// products.
func GetSellerOrders(c *gin.Context) {
	seller, err := sellerID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid seller"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	productIDs, err := sellerProductIDs(ctx, seller)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if len(productIDs) == 0 {
		c.JSON(http.StatusOK, gin.H{"message": "Fetch success", "orders": []gin.H{}})
		return
	}

	cursor, err := database.OrderCollection.Find(ctx,
		bson.M{"items.productId": bson.M{"$in": productIDs}},
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

	c.JSON(http.StatusOK, gin.H{"message": "Fetch success", "orders": resp})
}

// UpdateOrderStatus moves an order along the forward-only status flow.
// Invalid transitions are rejected before any write.
func UpdateOrderStatus(c *gin.Context) {
	orderID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order id"})
		return
	}

	var body struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if !models.IsValidStatus(body.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status value"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Sellers may only touch orders that contain their own products; an
	// order outside that scope reads as not found.
	role := c.GetString("role")
	var productIDs []primitive.ObjectID
	if role != models.RoleAdmin {
		seller, err := sellerID(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid seller"})
			return
		}
		productIDs, err = sellerProductIDs(ctx, seller)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if len(productIDs) == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
	}
	filter := sellerOrderFilter(orderID, role, productIDs)

	var existing models.Order
	if err := database.OrderCollection.FindOne(ctx, filter).Decode(&existing); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}

	if !models.CanTransition(existing.Status, body.Status) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("Cannot change status from %s to %s", existing.Status, body.Status),
		})
		return
	}

	// Guard on the previous status so a concurrent update cannot sneak an
	// order through a transition that is no longer valid.
	filter["status"] = existing.Status
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.Order
	err = database.OrderCollection.FindOneAndUpdate(ctx,
		filter,
		bson.M{"$set": bson.M{"status": body.Status, "updatedAt": time.Now()}},
		opts,
	).Decode(&updated)
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Order status changed concurrently"})
		return
	}

	notifyStatusChange(ctx, updated)

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Order status updated", "data": updated})
}

func notifyStatusChange(ctx context.Context, order models.Order) {
	var user models.User
	if err := database.UserCollection.FindOne(ctx, bson.M{"_id": order.UserID}).Decode(&user); err != nil {
		return
	}

	publishMail(mq.MailEvent{
		Kind:    mq.MailStatusUpdate,
		To:      user.Email,
		Name:    user.Name,
		Subject: fmt.Sprintf("Your LensBox order is %s", order.Status),
		Body:    fmt.Sprintf("Order %s is now %s.", order.ID.Hex(), order.Status),
		OrderID: order.ID.Hex(),
	})
}
