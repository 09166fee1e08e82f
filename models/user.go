package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RoleCustomer = "customer"
	RoleSeller   = "seller"
	RoleAdmin    = "admin"
)

type Address struct {
	City    string `bson:"city" json:"city"`
	State   string `bson:"state" json:"state"`
	Zip     string `bson:"zip" json:"zip"`
	Country string `bson:"country" json:"country"`
}

type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"`
	Password     string             `bson:"password" json:"-"`
	Role         string             `bson:"role" json:"role"`
	Phone        string             `bson:"phone" json:"phone"`
	ProfilePic   string             `bson:"profilePic,omitempty" json:"profilePic,omitempty"`
	Address      Address            `bson:"address" json:"address"`
	AvgRating    float64            `bson:"avgRating,omitempty" json:"avgRating,omitempty"`
	TotalReviews int                `bson:"totalReviews,omitempty" json:"totalReviews,omitempty"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}
