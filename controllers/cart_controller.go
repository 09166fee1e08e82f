package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"lensbox/database"
	"lensbox/models"
)

func AddToCart(c *gin.Context) {
	var body struct {
		ProductID string `json:"productId" binding:"required"`
		Quantity  int    `json:"quantity" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	userID, err := primitive.ObjectIDFromHex(c.MustGet("userId").(string))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user"})
		return
	}

	productID, err := primitive.ObjectIDFromHex(body.ProductID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid productId"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var product models.Product
	err = database.ProductCollection.FindOne(ctx, bson.M{"_id": productID, "isDeleted": false, "isActive": true}).Decode(&product)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	// An existing line for this product is topped up, not duplicated.
	var existing models.CartItem
	err = database.CartCollection.FindOne(ctx, bson.M{"userId": userID, "productId": productID}).Decode(&existing)

	quantity := body.Quantity
	if err == nil {
		quantity += existing.Quantity
	}
	if quantity > product.Stock {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Quantity exceeds available stock"})
		return
	}

	if err == nil {
		_, err = database.CartCollection.UpdateOne(ctx,
			bson.M{"_id": existing.ID},
			bson.M{"$set": bson.M{"quantity": quantity}},
		)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add to cart"})
			return
		}
	} else {
		cartItem := models.CartItem{
			ID:        primitive.NewObjectID(),
			UserID:    userID,
			ProductID: productID,
			Quantity:  quantity,
			CreatedAt: time.Now(),
		}
		if _, err := database.CartCollection.InsertOne(ctx, cartItem); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add to cart"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Added to cart",
		"data": gin.H{
			"productId": productID,
			"quantity":  quantity,
			"product": gin.H{
				"name":  product.Name,
				"price": product.Price,
				"stock": product.Stock,
			},
			"subtotal": float64(quantity) * product.Price,
		},
	})
}

func GetCart(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(c.MustGet("userId").(string))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cursor, err := database.CartCollection.Find(ctx, bson.M{"userId": userID})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var cartItems []models.CartItem
	if err := cursor.All(ctx, &cartItems); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var lines []gin.H = []gin.H{}
	var subtotal float64
	for _, item := range cartItems {
		var product models.Product
		if err := database.ProductCollection.FindOne(ctx, bson.M{"_id": item.ProductID}).Decode(&product); err != nil {
			continue
		}

		lineTotal := float64(item.Quantity) * product.Price
		subtotal += lineTotal
		lines = append(lines, gin.H{
			"productId":   item.ProductID,
			"quantity":    item.Quantity,
			"productName": product.Name,
			"price":       product.Price,
			"stock":       product.Stock,
			"images":      product.Images,
			"total":       lineTotal,
		})
	}

	c.JSON(http.StatusOK, gin.H{"message": "Fetch success", "data": lines, "subtotal": subtotal})
}

func UpdateCart(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(c.MustGet("userId").(string))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user"})
		return
	}

	productID, err := primitive.ObjectIDFromHex(c.Param("productId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid productId"})
		return
	}

	var body struct {
		Quantity *int `json:"quantity" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || *body.Quantity < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid quantity"})
		return
	}
	quantity := *body.Quantity

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var cartItem models.CartItem
	err = database.CartCollection.FindOne(ctx, bson.M{"userId": userID, "productId": productID}).Decode(&cartItem)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found in cart"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
		}
		return
	}

	if quantity == 0 {
		if _, err := database.CartCollection.DeleteOne(ctx, bson.M{"_id": cartItem.ID}); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove product from cart"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Product removed from cart"})
		return
	}

	var product models.Product
	if err := database.ProductCollection.FindOne(ctx, bson.M{"_id": productID}).Decode(&product); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}
	if quantity > product.Stock {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Quantity exceeds available stock"})
		return
	}

	_, err = database.CartCollection.UpdateOne(ctx,
		bson.M{"_id": cartItem.ID},
		bson.M{"$set": bson.M{"quantity": quantity}},
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart updated",
		"data": gin.H{
			"productId": productID,
			"quantity":  quantity,
			"subtotal":  float64(quantity) * product.Price,
		},
	})
}

func RemoveFromCart(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(c.MustGet("userId").(string))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user"})
		return
	}

	productID, err := primitive.ObjectIDFromHex(c.Param("productId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid productId"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	result, err := database.CartCollection.DeleteOne(ctx, bson.M{"userId": userID, "productId": productID})
	if err != nil || result.DeletedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found in cart"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product removed from cart", "productId": productID.Hex()})
}

func ClearCart(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(c.MustGet("userId").(string))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := database.CartCollection.DeleteMany(ctx, bson.M{"userId": userID}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear cart"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Cart cleared"})
}
