package controllers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/sync/errgroup"

	"lensbox/database"
	"lensbox/models"
)

type periodStats struct {
	TotalRevenue float64 `bson:"totalRevenue" json:"totalRevenue"`
	TotalOrders  int     `bson:"totalOrders" json:"totalOrders"`
}

// periodOrderStats sums per-item revenue and counts orders placed in
// [from, to), excluding cancelled orders.
func periodOrderStats(ctx context.Context, from, to time.Time) (periodStats, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{
			"status":    bson.M{"$ne": models.StatusCancelled},
			"createdAt": bson.M{"$gte": from, "$lt": to},
		}}},
		bson.D{{Key: "$unwind", Value: "$items"}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id":          nil,
			"totalRevenue": bson.M{"$sum": bson.M{"$multiply": bson.A{"$items.amount", "$items.quantity"}}},
			"totalOrders":  bson.M{"$sum": 1},
		}}},
	}

	cursor, err := database.OrderCollection.Aggregate(ctx, pipeline)
	if err != nil {
		return periodStats{}, err
	}

	var results []periodStats
	if err := cursor.All(ctx, &results); err != nil {
		return periodStats{}, err
	}
	if len(results) == 0 {
		return periodStats{}, nil
	}
	return results[0], nil
}

// GetAdminDashboardStats compares the last 30 days with the 30 before that.
// The two aggregations run concurrently.
func GetAdminDashboardStats(c *gin.Context) {
	now := time.Now()
	thirtyDaysAgo := now.AddDate(0, 0, -30)
	sixtyDaysAgo := now.AddDate(0, 0, -60)

	var current, previous periodStats

	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() error {
		var err error
		current, err = periodOrderStats(ctx, thirtyDaysAgo, now)
		return err
	})
	g.Go(func() error {
		var err error
		previous, err = periodOrderStats(ctx, sixtyDaysAgo, thirtyDaysAgo)
		return err
	})
	if err := g.Wait(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	revenueChange := 0.0
	if previous.TotalRevenue > 0 {
		revenueChange = (current.TotalRevenue - previous.TotalRevenue) / previous.TotalRevenue * 100
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Fetch success",
		"data": gin.H{
			"current":       current,
			"previous":      previous,
			"revenueChange": revenueChange,
		},
	})
}

// GetSalesData returns a month-by-month revenue series for the last
// 12 months.
func GetSalesData(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	yearAgo := time.Now().AddDate(-1, 0, 0)
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{
			"status":    bson.M{"$ne": models.StatusCancelled},
			"createdAt": bson.M{"$gte": yearAgo},
		}}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id": bson.M{
				"year":  bson.M{"$year": "$createdAt"},
				"month": bson.M{"$month": "$createdAt"},
			},
			"revenue": bson.M{"$sum": "$total"},
			"orders":  bson.M{"$sum": 1},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "_id.year", Value: 1}, {Key: "_id.month", Value: 1}}}},
	}

	cursor, err := database.OrderCollection.Aggregate(ctx, pipeline)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var series []bson.M = []bson.M{}
	if err := cursor.All(ctx, &series); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Fetch success", "data": series})
}

// GetSalesByCategory groups non-cancelled order lines by product category.
func GetSalesByCategory(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"status": bson.M{"$ne": models.StatusCancelled}}}},
		bson.D{{Key: "$unwind", Value: "$items"}},
		bson.D{{Key: "$lookup", Value: bson.M{
			"from":         "products",
			"localField":   "items.productId",
			"foreignField": "_id",
			"as":           "product",
		}}},
		bson.D{{Key: "$unwind", Value: "$product"}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id":     "$product.category",
			"revenue": bson.M{"$sum": bson.M{"$multiply": bson.A{"$items.amount", "$items.quantity"}}},
			"units":   bson.M{"$sum": "$items.quantity"},
		}}},
		bson.D{{Key: "$sort", Value: bson.M{"revenue": -1}}},
	}

	cursor, err := database.OrderCollection.Aggregate(ctx, pipeline)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var results []bson.M = []bson.M{}
	if err := cursor.All(ctx, &results); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Fetch success", "data": results})
}

func GetRecentOrders(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "5"))
	if err != nil || limit < 1 || limit > 50 {
		limit = 5
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := database.OrderCollection.Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetLimit(int64(limit)))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var orders []models.Order = []models.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Fetch success", "data": orders})
}

// GetUserStats and GetProductStats back the remaining admin dashboard
// widgets. The three counts in each run concurrently.
func GetUserStats(c *gin.Context) {
	var totalUsers, sellers, customers int64

	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() error {
		var err error
		totalUsers, err = database.UserCollection.CountDocuments(ctx, bson.M{})
		return err
	})
	g.Go(func() error {
		var err error
		sellers, err = database.UserCollection.CountDocuments(ctx, bson.M{"role": models.RoleSeller})
		return err
	})
	g.Go(func() error {
		var err error
		customers, err = database.UserCollection.CountDocuments(ctx, bson.M{"role": models.RoleCustomer})
		return err
	})
	if err := g.Wait(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Fetch success",
		"data": gin.H{
			"totalUsers": totalUsers,
			"sellers":    sellers,
			"customers":  customers,
		},
	})
}

func GetProductStats(c *gin.Context) {
	var total, inStock, outOfStock int64

	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() error {
		var err error
		total, err = database.ProductCollection.CountDocuments(ctx, bson.M{"isDeleted": false})
		return err
	})
	g.Go(func() error {
		var err error
		inStock, err = database.ProductCollection.CountDocuments(ctx, bson.M{"isDeleted": false, "stock": bson.M{"$gt": 0}})
		return err
	})
	g.Go(func() error {
		var err error
		outOfStock, err = database.ProductCollection.CountDocuments(ctx, bson.M{"isDeleted": false, "stock": 0})
		return err
	})
	if err := g.Wait(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Fetch success",
		"data": gin.H{
			"totalProducts": total,
			"inStock":       inStock,
			"outOfStock":    outOfStock,
		},
	})
}

// GetSellerDashboardStats summarises a seller's catalog and order volume.
func GetSellerDashboardStats(c *gin.Context) {
	seller, err := sellerID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid seller"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := database.ProductCollection.Find(ctx, bson.M{"seller": seller, "isDeleted": false})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var activeProducts, totalSales int
	var totalRevenue float64
	productIDs := make([]primitive.ObjectID, 0, len(products))
	for _, p := range products {
		if p.Stock > 0 {
			activeProducts++
		}
		totalSales += p.SalesCount
		totalRevenue += p.TotalRevenue
		productIDs = append(productIDs, p.ID)
	}

	recentOrders := []models.Order{}
	if len(productIDs) > 0 {
		orderCursor, err := database.OrderCollection.Find(ctx,
			bson.M{"items.productId": bson.M{"$in": productIDs}},
			options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetLimit(5))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if err := orderCursor.All(ctx, &recentOrders); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Fetch success",
		"data": gin.H{
			"totalProducts":  len(products),
			"activeProducts": activeProducts,
			"totalSales":     totalSales,
			"totalRevenue":   totalRevenue,
			"recentOrders":   recentOrders,
		},
	})
}
