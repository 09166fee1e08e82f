package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type StockNotification struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID     primitive.ObjectID `bson:"userId" json:"userId"`
	ProductID  primitive.ObjectID `bson:"productId" json:"productId"`
	Email      string             `bson:"email" json:"email"`
	IsNotified bool               `bson:"isNotified" json:"isNotified"`
	NotifiedAt *time.Time         `bson:"notifiedAt,omitempty" json:"notifiedAt,omitempty"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
}
