package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"lensbox/database"
	"lensbox/models"
)

const (
	heatmapCacheTTL   = 2 * time.Minute
	locationTolerance = 0.01 // degrees, roughly 1km
)

type heatmapBucket struct {
	Lat   float64 `bson:"lat" json:"lat"`
	Lng   float64 `bson:"lng" json:"lng"`
	Count int     `bson:"count" json:"count"`
}

// heatmapPipeline groups located orders into 2-decimal coordinate buckets,
// most ordered-from first.
func heatmapPipeline(match bson.M) mongo.Pipeline {
	match["location.lat"] = bson.M{"$ne": nil}
	match["location.lng"] = bson.M{"$ne": nil}

	return mongo.Pipeline{
		bson.D{{Key: "$match", Value: match}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id": bson.M{
				"lat": bson.M{"$round": bson.A{"$location.lat", 2}},
				"lng": bson.M{"$round": bson.A{"$location.lng", 2}},
			},
			"count": bson.M{"$sum": 1},
		}}},
		bson.D{{Key: "$project", Value: bson.M{
			"_id":   0,
			"lat":   "$_id.lat",
			"lng":   "$_id.lng",
			"count": 1,
		}}},
		bson.D{{Key: "$sort", Value: bson.M{"count": -1}}},
	}
}

func aggregateHeatmap(ctx context.Context, cacheKey string, match bson.M) ([]heatmapBucket, error) {
	if cached, err := database.Redis.Get(ctx, cacheKey).Result(); err == nil {
		var buckets []heatmapBucket
		if json.Unmarshal([]byte(cached), &buckets) == nil {
			return buckets, nil
		}
	}

	cursor, err := database.OrderCollection.Aggregate(ctx, heatmapPipeline(match))
	if err != nil {
		return nil, err
	}

	var buckets []heatmapBucket = []heatmapBucket{}
	if err := cursor.All(ctx, &buckets); err != nil {
		return nil, err
	}

	if encoded, err := json.Marshal(buckets); err == nil {
		database.Redis.Set(ctx, cacheKey, encoded, heatmapCacheTTL)
	}
	return buckets, nil
}

// GetAdminHeatmap returns order-density buckets across all orders.
func GetAdminHeatmap(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	buckets, err := aggregateHeatmap(ctx, "heatmap:admin", bson.M{})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error fetching heatmap data"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"data":           buckets,
		"totalLocations": len(buckets),
	})
}

// GetSellerHeatmap returns density buckets restricted to orders that contain
// the seller's products.
func GetSellerHeatmap(c *gin.Context) {
	seller, err := primitive.ObjectIDFromHex(c.Param("sellerId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Seller ID is required"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	productIDs, err := sellerProductIDs(ctx, seller)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error fetching seller heatmap data"})
		return
	}
	if len(productIDs) == 0 {
		c.JSON(http.StatusOK, gin.H{
			"success":        true,
			"data":           []heatmapBucket{},
			"totalLocations": 0,
			"message":        "No products found for this seller",
		})
		return
	}

	buckets, err := aggregateHeatmap(ctx, "heatmap:seller:"+seller.Hex(),
		bson.M{"items.productId": bson.M{"$in": productIDs}})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error fetching seller heatmap data"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"data":           buckets,
		"totalLocations": len(buckets),
	})
}

// GetLocationOrders returns up to 20 recent orders within tolerance of a
// heatmap bucket.
func GetLocationOrders(c *gin.Context) {
	lat, latErr := strconv.ParseFloat(c.Query("lat"), 64)
	lng, lngErr := strconv.ParseFloat(c.Query("lng"), 64)
	if latErr != nil || lngErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Latitude and longitude are required"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	filter := bson.M{
		"location.lat": bson.M{"$gte": lat - locationTolerance, "$lte": lat + locationTolerance},
		"location.lng": bson.M{"$gte": lng - locationTolerance, "$lte": lng + locationTolerance},
	}

	cursor, err := database.OrderCollection.Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetLimit(20))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error fetching location orders"})
		return
	}

	var orders []models.Order = []models.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error fetching location orders"})
		return
	}

	var resp []gin.H = []gin.H{}
	for _, order := range orders {
		resp = append(resp, orderSummary(ctx, order))
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": resp, "totalOrders": len(resp)})
}
