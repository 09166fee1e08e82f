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

func AddToWishlist(c *gin.Context) {
	var body struct {
		ProductID string `json:"productId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Product ID is required"})
		return
	}

	userID, err := primitive.ObjectIDFromHex(c.MustGet("userId").(string))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid user"})
		return
	}

	productID, err := primitive.ObjectIDFromHex(body.ProductID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid productId"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var wishlist models.Wishlist
	err = database.WishlistCollection.FindOne(ctx, bson.M{"userId": userID}).Decode(&wishlist)
	if err == mongo.ErrNoDocuments {
		wishlist = models.Wishlist{
			ID:       primitive.NewObjectID(),
			UserID:   userID,
			Products: []primitive.ObjectID{productID},
		}
		if _, err := database.WishlistCollection.InsertOne(ctx, wishlist); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to update wishlist"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Product added to wishlist"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to update wishlist"})
		return
	}

	for _, id := range wishlist.Products {
		if id == productID {
			c.JSON(http.StatusOK, gin.H{"success": false, "message": "Product is already in your wishlist"})
			return
		}
	}

	_, err = database.WishlistCollection.UpdateOne(ctx,
		bson.M{"_id": wishlist.ID},
		bson.M{"$addToSet": bson.M{"products": productID}},
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to update wishlist"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Product added to wishlist"})
}

// GetWishlist resolves the wishlist to product documents, skipping ids that
// no longer resolve.
func GetWishlist(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(c.MustGet("userId").(string))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid user"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var wishlist models.Wishlist
	err = database.WishlistCollection.FindOne(ctx, bson.M{"userId": userID}).Decode(&wishlist)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"success": true, "products": []models.Product{}})
		return
	}

	var products []models.Product = []models.Product{}
	for _, productID := range wishlist.Products {
		var product models.Product
		if err := database.ProductCollection.FindOne(ctx, bson.M{"_id": productID, "isDeleted": false}).Decode(&product); err != nil {
			continue
		}
		products = append(products, product)
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "products": products})
}

func RemoveFromWishlist(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(c.MustGet("userId").(string))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid user"})
		return
	}

	productID, err := primitive.ObjectIDFromHex(c.Param("productId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid productId"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	result, err := database.WishlistCollection.UpdateOne(ctx,
		bson.M{"userId": userID},
		bson.M{"$pull": bson.M{"products": productID}},
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error"})
		return
	}
	if result.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Wishlist not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Product removed from wishlist"})
}
