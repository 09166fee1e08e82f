package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	StatusConfirmed = "confirmed"
	StatusShipped   = "shipped"
	StatusDelivered = "delivered"
	StatusCancelled = "cancelled"
)

// statusFlow is forward-only: delivered and cancelled are terminal.
var statusFlow = map[string][]string{
	StatusConfirmed: {StatusShipped, StatusCancelled},
	StatusShipped:   {StatusDelivered, StatusCancelled},
	StatusDelivered: {},
	StatusCancelled: {},
}

func IsValidStatus(status string) bool {
	_, ok := statusFlow[status]
	return ok
}

// CanTransition reports whether an order may move from one status to another.
func CanTransition(from, to string) bool {
	for _, next := range statusFlow[from] {
		if next == to {
			return true
		}
	}
	return false
}

// NextStatuses returns the statuses reachable from the given one.
func NextStatuses(from string) []string {
	return statusFlow[from]
}

type CustomerDetails struct {
	FullName     string `bson:"fullName" json:"fullName"`
	Phone        string `bson:"phone" json:"phone"`
	AddressLine1 string `bson:"addressLine1" json:"addressLine1"`
	AddressLine2 string `bson:"addressLine2,omitempty" json:"addressLine2,omitempty"`
	City         string `bson:"city" json:"city"`
	State        string `bson:"state" json:"state"`
	Country      string `bson:"country" json:"country"`
	ZipCode      string `bson:"zipCode" json:"zipCode"`
}

type OrderItem struct {
	ProductID primitive.ObjectID `bson:"productId" json:"productId"`
	Quantity  int                `bson:"quantity" json:"quantity"`
	Amount    float64            `bson:"amount" json:"amount"`
}

type RazorpayDetails struct {
	OrderID   string `bson:"orderId" json:"orderId"`
	PaymentID string `bson:"paymentId" json:"paymentId"`
	Signature string `bson:"signature" json:"-"`
}

type Location struct {
	Lat float64 `bson:"lat" json:"lat"`
	Lng float64 `bson:"lng" json:"lng"`
}

type Order struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID          primitive.ObjectID `bson:"user" json:"user"`
	CustomerDetails CustomerDetails    `bson:"customerDetails" json:"customerDetails"`
	Status          string             `bson:"status" json:"status"`
	StartDate       time.Time          `bson:"startDate" json:"startDate"`
	EndDate         time.Time          `bson:"endDate" json:"endDate"`
	Items           []OrderItem        `bson:"items" json:"items"`
	Total           float64            `bson:"total" json:"total"`
	Razorpay        RazorpayDetails    `bson:"razorpay" json:"razorpay"`
	Location        *Location          `bson:"location,omitempty" json:"location,omitempty"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// TempOrder holds a checkout payload between gateway order creation and
// payment verification. The unique razorpayOrderId key makes verification
// consume it exactly once.
type TempOrder struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	RazorpayOrderID string             `bson:"razorpayOrderId" json:"razorpayOrderId"`
	Receipt         string             `bson:"receipt" json:"receipt"`
	UserID          primitive.ObjectID `bson:"userId" json:"userId"`
	CustomerDetails CustomerDetails    `bson:"customerDetails" json:"customerDetails"`
	StartDate       time.Time          `bson:"startDate" json:"startDate"`
	EndDate         time.Time          `bson:"endDate" json:"endDate"`
	Items           []OrderItem        `bson:"items" json:"items"`
	Total           float64            `bson:"total" json:"total"`
	Location        *Location          `bson:"location,omitempty" json:"location,omitempty"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
}
