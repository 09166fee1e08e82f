package controllers

import (
	"context"
	"math"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"lensbox/database"
	"lensbox/models"
)

func CreateReview(c *gin.Context) {
	var body struct {
		ProductID string `json:"productId" binding:"required"`
		Rating    int    `json:"rating" binding:"required,min=1,max=5"`
		Comment   string `json:"comment" binding:"required,max=1000"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Rating (1-5) and comment are required"})
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
	if err := database.ProductCollection.FindOne(ctx, bson.M{"_id": productID, "isDeleted": false}).Decode(&product); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	var existing models.Review
	err = database.ReviewCollection.FindOne(ctx, bson.M{"user": userID, "product": productID}).Decode(&existing)
	if err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Product already reviewed"})
		return
	}

	review := models.Review{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		ProductID: productID,
		SellerID:  product.Seller,
		Rating:    body.Rating,
		Comment:   body.Comment,
		CreatedAt: time.Now(),
	}

	if _, err := database.ReviewCollection.InsertOne(ctx, review); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create review"})
		return
	}

	refreshProductRating(ctx, productID)
	refreshSellerStats(ctx, product.Seller)

	c.JSON(http.StatusCreated, gin.H{"success": true, "data": review})
}

// GetProductReviews lists a product's reviews, newest first, with reviewer
// name and picture attached.
func GetProductReviews(c *gin.Context) {
	productID, err := primitive.ObjectIDFromHex(c.Param("productId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid productId"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cursor, err := database.ReviewCollection.Find(ctx, bson.M{"product": productID},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var reviews []models.Review
	if err := cursor.All(ctx, &reviews); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var resp []gin.H = []gin.H{}
	for _, review := range reviews {
		entry := gin.H{
			"id":        review.ID.Hex(),
			"rating":    review.Rating,
			"comment":   review.Comment,
			"createdAt": review.CreatedAt,
		}
		var user models.User
		if err := database.UserCollection.FindOne(ctx, bson.M{"_id": review.UserID}).Decode(&user); err == nil {
			entry["user"] = gin.H{"name": user.Name, "profilePic": user.ProfilePic}
		}
		resp = append(resp, entry)
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(resp), "data": resp})
}

func UpdateReview(c *gin.Context) {
	reviewID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid review id"})
		return
	}

	userID, err := primitive.ObjectIDFromHex(c.MustGet("userId").(string))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user"})
		return
	}

	var body struct {
		Rating  int    `json:"rating" binding:"required,min=1,max=5"`
		Comment string `json:"comment" binding:"required,max=1000"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Rating (1-5) and comment are required"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.Review
	err = database.ReviewCollection.FindOneAndUpdate(ctx,
		bson.M{"_id": reviewID, "user": userID},
		bson.M{"$set": bson.M{"rating": body.Rating, "comment": body.Comment}},
		opts,
	).Decode(&updated)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Review not found"})
		return
	}

	refreshProductRating(ctx, updated.ProductID)
	refreshSellerStats(ctx, updated.SellerID)

	c.JSON(http.StatusOK, gin.H{"success": true, "data": updated})
}

func DeleteReview(c *gin.Context) {
	reviewID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid review id"})
		return
	}

	userID, err := primitive.ObjectIDFromHex(c.MustGet("userId").(string))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var deleted models.Review
	err = database.ReviewCollection.FindOneAndDelete(ctx, bson.M{"_id": reviewID, "user": userID}).Decode(&deleted)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Review not found"})
		return
	}

	refreshProductRating(ctx, deleted.ProductID)
	refreshSellerStats(ctx, deleted.SellerID)

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Review deleted"})
}

// refreshProductRating recomputes a product's average rating (1 decimal)
// and review count from its reviews.
func refreshProductRating(ctx context.Context, productID primitive.ObjectID) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"product": productID}}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id":           "$product",
			"averageRating": bson.M{"$avg": "$rating"},
			"reviewCount":   bson.M{"$sum": 1},
		}}},
	}

	cursor, err := database.ReviewCollection.Aggregate(ctx, pipeline)
	if err != nil {
		return
	}

	var results []struct {
		AverageRating float64 `bson:"averageRating"`
		ReviewCount   int     `bson:"reviewCount"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return
	}

	update := bson.M{"averageRating": 0.0, "reviewCount": 0}
	if len(results) > 0 {
		update = bson.M{
			"averageRating": math.Round(results[0].AverageRating*10) / 10,
			"reviewCount":   results[0].ReviewCount,
		}
	}
	_, _ = database.ProductCollection.UpdateOne(ctx, bson.M{"_id": productID}, bson.M{"$set": update})
}

func refreshSellerStats(ctx context.Context, sellerID primitive.ObjectID) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"seller": sellerID}}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id":          "$seller",
			"avgRating":    bson.M{"$avg": "$rating"},
			"totalReviews": bson.M{"$sum": 1},
		}}},
	}

	cursor, err := database.ReviewCollection.Aggregate(ctx, pipeline)
	if err != nil {
		return
	}

	var results []struct {
		AvgRating    float64 `bson:"avgRating"`
		TotalReviews int     `bson:"totalReviews"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return
	}

	update := bson.M{"avgRating": 0.0, "totalReviews": 0}
	if len(results) > 0 {
		update = bson.M{
			"avgRating":    math.Round(results[0].AvgRating*10) / 10,
			"totalReviews": results[0].TotalReviews,
		}
	}
	_, _ = database.UserCollection.UpdateOne(ctx, bson.M{"_id": sellerID}, bson.M{"$set": update})
}
