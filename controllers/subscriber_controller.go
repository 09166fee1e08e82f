package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"lensbox/database"
	"lensbox/models"
	"lensbox/mq"
)

func Subscribe(c *gin.Context) {
	var body struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "A valid email is required"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var existing models.Subscriber
	err := database.SubscriberCollection.FindOne(ctx, bson.M{"email": body.Email}).Decode(&existing)
	if err == nil && existing.IsSubscribed {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "You are already subscribed"})
		return
	}

	now := time.Now()
	if err == nil {
		_, err = database.SubscriberCollection.UpdateOne(ctx,
			bson.M{"_id": existing.ID},
			bson.M{"$set": bson.M{"isSubscribed": true, "updatedAt": now}},
		)
	} else {
		subscriber := models.Subscriber{
			ID:           primitive.NewObjectID(),
			Email:        body.Email,
			IsSubscribed: true,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		_, err = database.SubscriberCollection.InsertOne(ctx, subscriber)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to subscribe"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "You have been subscribed successfully"})
}

func Unsubscribe(c *gin.Context) {
	var body struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "A valid email is required"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	result, err := database.SubscriberCollection.UpdateOne(ctx,
		bson.M{"email": body.Email, "isSubscribed": true},
		bson.M{"$set": bson.M{"isSubscribed": false, "updatedAt": time.Now()}},
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to unsubscribe"})
		return
	}
	if result.MatchedCount == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "You are not subscribed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "You have been unsubscribed successfully"})
}

// BroadcastMail queues one mail event per subscribed address.
func BroadcastMail(c *gin.Context) {
	var body struct {
		Subject string `json:"subject" binding:"required"`
		Body    string `json:"body" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Subject and body are required"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := database.SubscriberCollection.Find(ctx, bson.M{"isSubscribed": true})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
		return
	}

	var subscribers []models.Subscriber
	if err := cursor.All(ctx, &subscribers); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
		return
	}

	for _, subscriber := range subscribers {
		publishMail(mq.MailEvent{
			Kind:    mq.MailBroadcast,
			To:      subscriber.Email,
			Subject: body.Subject,
			Body:    body.Body,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Broadcast queued",
		"count":   len(subscribers),
	})
}
