package database

import (
	"context"
	"log"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var Client *mongo.Client
var DB *mongo.Database

func ConnectMongo() {
	uri := os.Getenv("MONGO_URI")
	dbName := os.Getenv("DB_NAME")

	if uri == "" || dbName == "" {
		log.Fatal("MONGO_URI or DB_NAME not set in environment variables")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		log.Fatal("MongoDB connection error:", err)
	}

	Client = client
	DB = client.Database(dbName)

	log.Println("Connected to MongoDB")
}

var UserCollection *mongo.Collection
var ProductCollection *mongo.Collection
var CategoryCollection *mongo.Collection
var SubCategoryCollection *mongo.Collection
var CartCollection *mongo.Collection
var OrderCollection *mongo.Collection
var TempOrderCollection *mongo.Collection
var ReviewCollection *mongo.Collection
var WishlistCollection *mongo.Collection
var StockNotificationCollection *mongo.Collection
var SubscriberCollection *mongo.Collection

func InitCollections() {
	UserCollection = DB.Collection("users")
	ProductCollection = DB.Collection("products")
	CategoryCollection = DB.Collection("categories")
	SubCategoryCollection = DB.Collection("subcategories")
	CartCollection = DB.Collection("carts")
	OrderCollection = DB.Collection("orders")
	TempOrderCollection = DB.Collection("temp_orders")
	ReviewCollection = DB.Collection("reviews")
	WishlistCollection = DB.Collection("wishlists")
	StockNotificationCollection = DB.Collection("stock_notifications")
	SubscriberCollection = DB.Collection("subscribers")
}

// EnsureIndexes creates the unique indexes the write paths rely on:
// one review and one stock subscription per user per product, and one
// pending payment per gateway order id.
func EnsureIndexes() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	unique := options.Index().SetUnique(true)

	indexes := map[*mongo.Collection]mongo.IndexModel{
		UserCollection:              {Keys: bson.D{{Key: "email", Value: 1}}, Options: unique},
		ProductCollection:           {Keys: bson.D{{Key: "sku", Value: 1}}, Options: unique},
		ReviewCollection:            {Keys: bson.D{{Key: "user", Value: 1}, {Key: "product", Value: 1}}, Options: unique},
		StockNotificationCollection: {Keys: bson.D{{Key: "userId", Value: 1}, {Key: "productId", Value: 1}}, Options: unique},
		TempOrderCollection:         {Keys: bson.D{{Key: "razorpayOrderId", Value: 1}}, Options: unique},
	}

	for coll, model := range indexes {
		if _, err := coll.Indexes().CreateOne(ctx, model); err != nil {
			log.Printf("Failed to create index on %s: %v", coll.Name(), err)
		}
	}
}
