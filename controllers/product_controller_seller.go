package controllers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"lensbox/database"
	"lensbox/models"
	"lensbox/mq"
)

func sellerID(c *gin.Context) (primitive.ObjectID, error) {
	return primitive.ObjectIDFromHex(c.MustGet("userId").(string))
}

func CreateProduct(c *gin.Context) {
	var product models.Product
	if err := c.ShouldBindJSON(&product); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "All fields are required"})
		return
	}

	seller, err := sellerID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid seller"})
		return
	}

	now := time.Now()
	product.ID = primitive.NewObjectID()
	product.Seller = seller
	product.IsActive = true
	product.IsDeleted = false
	product.CreatedAt = now
	product.UpdatedAt = now
	if product.SKU == "" {
		product.SKU = fmt.Sprintf("LB-%s", uuid.New().String()[:8])
	}
	if product.Images == nil {
		product.Images = []string{}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := database.ProductCollection.InsertOne(ctx, product); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create product"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Product created", "data": product})
}

// GetSellerProducts lists the authenticated seller's own products,
// including inactive ones.
func GetSellerProducts(c *gin.Context) {
	seller, err := sellerID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid seller"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cursor, err := database.ProductCollection.Find(ctx, bson.M{"seller": seller, "isDeleted": false})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var products []models.Product = []models.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Fetch success", "count": len(products), "data": products})
}

func UpdateProduct(c *gin.Context) {
	objID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product id"})
		return
	}

	seller, err := sellerID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid seller"})
		return
	}

	var body struct {
		Name        *string   `json:"name"`
		Description *string   `json:"description"`
		Price       *float64  `json:"price"`
		Stock       *int      `json:"stock"`
		Brand       *string   `json:"brand"`
		Images      *[]string `json:"images"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if body.Price != nil && *body.Price < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Price cannot be negative"})
		return
	}
	if body.Stock != nil && *body.Stock < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Stock cannot be negative"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var existing models.Product
	err = database.ProductCollection.FindOne(ctx, bson.M{"_id": objID, "seller": seller, "isDeleted": false}).Decode(&existing)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	update := bson.M{}
	if body.Name != nil {
		update["name"] = *body.Name
	}
	if body.Description != nil {
		update["description"] = *body.Description
	}
	if body.Price != nil {
		update["price"] = *body.Price
	}
	if body.Stock != nil {
		update["stock"] = *body.Stock
	}
	if body.Brand != nil {
		update["brand"] = *body.Brand
	}
	if body.Images != nil {
		update["images"] = *body.Images
	}
	update["updatedAt"] = time.Now()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.Product
	err = database.ProductCollection.FindOneAndUpdate(ctx, bson.M{"_id": objID}, bson.M{"$set": update}, opts).Decode(&updated)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update product"})
		return
	}

	if existing.Stock == 0 && updated.Stock > 0 {
		go notifyBackInStock(updated)
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product updated", "data": updated})
}

// UpdateProductStatus toggles a listing. Deactivating zeroes the stock;
// reactivating a zero-stock product restores it to 1.
func UpdateProductStatus(c *gin.Context) {
	objID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product id"})
		return
	}

	seller, err := sellerID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid seller"})
		return
	}

	var body struct {
		Status string `json:"status" binding:"required,oneof=active inactive"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Status must be active or inactive"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var product models.Product
	err = database.ProductCollection.FindOne(ctx, bson.M{"_id": objID, "seller": seller, "isDeleted": false}).Decode(&product)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	update := bson.M{"isActive": body.Status == "active", "updatedAt": time.Now()}
	if body.Status == "inactive" {
		update["stock"] = 0
	} else if product.Stock == 0 {
		update["stock"] = 1
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.Product
	err = database.ProductCollection.FindOneAndUpdate(ctx, bson.M{"_id": objID}, bson.M{"$set": update}, opts).Decode(&updated)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update product"})
		return
	}

	if product.Stock == 0 && updated.Stock > 0 {
		go notifyBackInStock(updated)
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product status updated", "data": updated})
}

// DeleteProduct soft deletes so existing orders keep resolving the product.
func DeleteProduct(c *gin.Context) {
	objID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product id"})
		return
	}

	seller, err := sellerID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid seller"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	result, err := database.ProductCollection.UpdateOne(ctx,
		bson.M{"_id": objID, "seller": seller},
		bson.M{"$set": bson.M{"isDeleted": true, "isActive": false, "updatedAt": time.Now()}},
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete product"})
		return
	}
	if result.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product deleted", "id": objID.Hex()})
}

// notifyBackInStock mails every un-notified subscriber of a product that
// just came back in stock and marks them notified.
func notifyBackInStock(product models.Product) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := database.StockNotificationCollection.Find(ctx, bson.M{
		"productId":  product.ID,
		"isNotified": false,
	})
	if err != nil {
		return
	}

	var subscriptions []models.StockNotification
	if err := cursor.All(ctx, &subscriptions); err != nil {
		return
	}

	now := time.Now()
	for _, sub := range subscriptions {
		publishMail(mq.MailEvent{
			Kind:    mq.MailBackInStock,
			To:      sub.Email,
			Subject: fmt.Sprintf("%s is back in stock", product.Name),
			Body:    fmt.Sprintf("Good news! %s is available to rent again on LensBox.", product.Name),
		})

		_, _ = database.StockNotificationCollection.UpdateOne(ctx,
			bson.M{"_id": sub.ID},
			bson.M{"$set": bson.M{"isNotified": true, "notifiedAt": now}},
		)
	}
}
