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
)

func CreateCategory(c *gin.Context) {
	var category models.Category
	if err := c.ShouldBindJSON(&category); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Category name is required"})
		return
	}

	now := time.Now()
	category.ID = primitive.NewObjectID()
	category.CreatedAt = now
	category.UpdatedAt = now

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := database.CategoryCollection.InsertOne(ctx, category); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create category"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Category created", "data": category})
}

func CreateSubCategory(c *gin.Context) {
	var subCategory models.SubCategory
	if err := c.ShouldBindJSON(&subCategory); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name and category are required"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var parent models.Category
	err := database.CategoryCollection.FindOne(ctx, bson.M{"_id": subCategory.Category}).Decode(&parent)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Parent category not found"})
		return
	}

	now := time.Now()
	subCategory.ID = primitive.NewObjectID()
	subCategory.CreatedAt = now
	subCategory.UpdatedAt = now

	if _, err := database.SubCategoryCollection.InsertOne(ctx, subCategory); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create sub-category"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Sub-category created", "data": subCategory})
}

// categoryUpdate turns the present fields of a partial update body into a
// $set document. An empty body still bumps updatedAt.
func categoryUpdate(name, description, image *string) bson.M {
	update := bson.M{}
	if name != nil {
		update["name"] = *name
	}
	if description != nil {
		update["description"] = *description
	}
	if image != nil {
		update["image"] = *image
	}
	update["updatedAt"] = time.Now()
	return update
}

func UpdateCategory(c *gin.Context) {
	objID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category id"})
		return
	}

	var body struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
		Image       *string `json:"image"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if body.Name != nil && *body.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Category name cannot be empty"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.Category
	err = database.CategoryCollection.FindOneAndUpdate(ctx,
		bson.M{"_id": objID},
		bson.M{"$set": categoryUpdate(body.Name, body.Description, body.Image)},
		opts,
	).Decode(&updated)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Category updated", "data": updated})
}

func UpdateSubCategory(c *gin.Context) {
	objID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid sub-category id"})
		return
	}

	var body struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
		Image       *string `json:"image"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if body.Name != nil && *body.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Sub-category name cannot be empty"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.SubCategory
	err = database.SubCategoryCollection.FindOneAndUpdate(ctx,
		bson.M{"_id": objID},
		bson.M{"$set": categoryUpdate(body.Name, body.Description, body.Image)},
		opts,
	).Decode(&updated)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Sub-category not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Sub-category updated", "data": updated})
}

func DeleteCategory(c *gin.Context) {
	objID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category id"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	count, err := database.ProductCollection.CountDocuments(ctx, bson.M{"category": objID, "isDeleted": false})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete category"})
		return
	}
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Category still has products"})
		return
	}

	result, err := database.CategoryCollection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil || result.DeletedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		return
	}

	_, _ = database.SubCategoryCollection.DeleteMany(ctx, bson.M{"category": objID})

	c.JSON(http.StatusOK, gin.H{"message": "Category deleted", "id": objID.Hex()})
}

func DeleteSubCategory(c *gin.Context) {
	objID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid sub-category id"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	count, err := database.ProductCollection.CountDocuments(ctx, bson.M{"subCategory": objID, "isDeleted": false})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete sub-category"})
		return
	}
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Sub-category still has products"})
		return
	}

	result, err := database.SubCategoryCollection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil || result.DeletedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Sub-category not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Sub-category deleted", "id": objID.Hex()})
}
