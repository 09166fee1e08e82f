package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Dimensions struct {
	Length float64 `bson:"length,omitempty" json:"length,omitempty"`
	Width  float64 `bson:"width,omitempty" json:"width,omitempty"`
	Height float64 `bson:"height,omitempty" json:"height,omitempty"`
	Unit   string  `bson:"unit,omitempty" json:"unit,omitempty"`
}

type Weight struct {
	Value float64 `bson:"value,omitempty" json:"value,omitempty"`
	Unit  string  `bson:"unit,omitempty" json:"unit,omitempty"`
}

type Product struct {
	ID            primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Name          string              `bson:"name" json:"name" binding:"required"`
	Description   string              `bson:"description" json:"description" binding:"required"`
	Price         float64             `bson:"price" json:"price" binding:"required"`
	Stock         int                 `bson:"stock" json:"stock"`
	Images        []string            `bson:"images" json:"images"`
	Category      primitive.ObjectID  `bson:"category" json:"category" binding:"required"`
	SubCategory   *primitive.ObjectID `bson:"subCategory,omitempty" json:"subCategory,omitempty"`
	Brand         string              `bson:"brand" json:"brand" binding:"required"`
	SKU           string              `bson:"sku" json:"sku"`
	Seller        primitive.ObjectID  `bson:"seller" json:"seller"`
	AverageRating float64             `bson:"averageRating" json:"averageRating"`
	ReviewCount   int                 `bson:"reviewCount" json:"reviewCount"`
	SalesCount    int                 `bson:"salesCount" json:"salesCount"`
	TotalRevenue  float64             `bson:"totalRevenue" json:"totalRevenue"`
	LastSoldAt    *time.Time          `bson:"lastSoldAt,omitempty" json:"lastSoldAt,omitempty"`
	Dimensions    *Dimensions         `bson:"dimensions,omitempty" json:"dimensions,omitempty"`
	Weight        *Weight             `bson:"weight,omitempty" json:"weight,omitempty"`
	IsActive      bool                `bson:"isActive" json:"isActive"`
	IsDeleted     bool                `bson:"isDeleted" json:"isDeleted"`
	CreatedAt     time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time           `bson:"updatedAt" json:"updatedAt"`
}
