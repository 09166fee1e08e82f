package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"lensbox/database"
	"lensbox/models"
)

// SubscribeToStockNotification registers interest in a product that is
// currently out of stock.
func SubscribeToStockNotification(c *gin.Context) {
	productID, err := primitive.ObjectIDFromHex(c.Param("productId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid productId"})
		return
	}

	userID, err := primitive.ObjectIDFromHex(c.MustGet("userId").(string))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid user"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var product models.Product
	if err := database.ProductCollection.FindOne(ctx, bson.M{"_id": productID, "isDeleted": false}).Decode(&product); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Product not found"})
		return
	}
	if product.Stock > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Product is already in stock"})
		return
	}

	var user models.User
	if err := database.UserCollection.FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "User not found"})
		return
	}

	var existing models.StockNotification
	err = database.StockNotificationCollection.FindOne(ctx, bson.M{"userId": userID, "productId": productID}).Decode(&existing)
	if err == nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "You are already subscribed to notifications for this product",
		})
		return
	}

	notification := models.StockNotification{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		ProductID: productID,
		Email:     user.Email,
		CreatedAt: time.Now(),
	}
	if _, err := database.StockNotificationCollection.InsertOne(ctx, notification); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to subscribe to stock notification"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Successfully subscribed to stock notifications",
		"data":    notification,
	})
}

func UnsubscribeFromStockNotification(c *gin.Context) {
	productID, err := primitive.ObjectIDFromHex(c.Param("productId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid productId"})
		return
	}

	userID, err := primitive.ObjectIDFromHex(c.MustGet("userId").(string))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid user"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	result, err := database.StockNotificationCollection.DeleteOne(ctx, bson.M{"userId": userID, "productId": productID})
	if err != nil || result.DeletedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"message": "No active notification subscription found for this product",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Successfully unsubscribed from stock notifications"})
}

func GetMyStockNotifications(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(c.MustGet("userId").(string))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid user"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cursor, err := database.StockNotificationCollection.Find(ctx, bson.M{"userId": userID})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
		return
	}

	var notifications []models.StockNotification = []models.StockNotification{}
	if err := cursor.All(ctx, &notifications); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": notifications})
}
